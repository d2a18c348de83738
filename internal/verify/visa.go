// Package verify calls the Visa Payment Account Validation (PAV) API to
// confirm that a user-submitted card number is real before it enters the
// wallet.
package verify

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"

	"trove/internal/config"
	"trove/internal/logger"
)

const requestTimeout = 15 * time.Second

// Verifier validates a primary account number. The message is user-visible;
// transport and provider failures are folded into it rather than raised, so
// a card add degrades to "unverified" instead of an internal error.
type Verifier interface {
	VerifyPAN(ctx context.Context, pan string) (ok bool, message string)
}

// VisaClient is a Verifier backed by the Visa PAV sandbox/production API.
// It authenticates with basic auth plus an mTLS client certificate.
type VisaClient struct {
	cfg      config.VisaConfig
	client   *http.Client // custom CA chain when configured
	fallback *http.Client // system roots, used to retry after a TLS failure
}

// NewVisaClient builds a client from injected configuration. Construction
// succeeds even when credentials are absent; VerifyPAN then reports the
// card as unverifiable with a descriptive message.
func NewVisaClient(cfg config.VisaConfig) (*VisaClient, error) {
	tlsCfg := &tls.Config{}
	if cfg.CertPath != "" && cfg.KeyPath != "" {
		cert, err := tls.LoadX509KeyPair(cfg.CertPath, cfg.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("load Visa client certificate: %w", err)
		}
		tlsCfg.Certificates = []tls.Certificate{cert}
	}

	fallbackCfg := tlsCfg.Clone()

	if cfg.CAPath != "" {
		if pem, err := os.ReadFile(cfg.CAPath); err == nil {
			pool := x509.NewCertPool()
			if pool.AppendCertsFromPEM(pem) {
				tlsCfg.RootCAs = pool
			}
		}
	}

	return &VisaClient{
		cfg:      cfg,
		client:   &http.Client{Timeout: requestTimeout, Transport: &http.Transport{TLSClientConfig: tlsCfg}},
		fallback: &http.Client{Timeout: requestTimeout, Transport: &http.Transport{TLSClientConfig: fallbackCfg}},
	}, nil
}

type cardAcceptorAddress struct {
	Country string `json:"country"`
	ZipCode string `json:"zipCode"`
	City    string `json:"city"`
	State   string `json:"state"`
}

type cardAcceptor struct {
	Name       string              `json:"name"`
	TerminalID string              `json:"terminalId"`
	IDCode     string              `json:"idCode"`
	Address    cardAcceptorAddress `json:"address"`
}

type validationRequest struct {
	PrimaryAccountNumber     string       `json:"primaryAccountNumber"`
	AcquiringBIN             string       `json:"acquiringBin"`
	AcquirerCountryCode      string       `json:"acquirerCountryCode"`
	CardAcceptor             cardAcceptor `json:"cardAcceptor"`
	SystemsTraceAuditNumber  string       `json:"systemsTraceAuditNumber"`
	RetrievalReferenceNumber string       `json:"retrievalReferenceNumber"`
}

// VerifyPAN submits the PAN for validation. Action codes 00 and 85 mean the
// account is valid; anything else is reported with the code. A TLS failure
// against the configured chain is retried once against system roots.
func (v *VisaClient) VerifyPAN(ctx context.Context, pan string) (bool, string) {
	if !v.cfg.Configured() {
		return false, "Visa PAV credentials are not configured."
	}
	if strings.HasPrefix(v.cfg.BaseURL, "https://") && (v.cfg.CertPath == "" || v.cfg.KeyPath == "") {
		return false, "Visa client certificate and key are not configured."
	}

	payload := validationRequest{
		PrimaryAccountNumber: pan,
		AcquiringBIN:         v.cfg.AcquiringBIN,
		AcquirerCountryCode:  v.cfg.AcquirerCountryCode,
		CardAcceptor: cardAcceptor{
			Name:       "Trove App",
			TerminalID: "TROVE001",
			IDCode:     "TROVE001",
			Address: cardAcceptorAddress{
				Country: "USA",
				ZipCode: "94404",
				City:    "San Francisco",
				State:   "CA",
			},
		},
		SystemsTraceAuditNumber:  fmt.Sprintf("%06d", rand.Intn(1000000)),
		RetrievalReferenceNumber: fmt.Sprintf("%012d", rand.Int63n(1000000000000)),
	}

	resp, err := v.post(ctx, v.client, payload)
	if err != nil {
		if isTLSError(err) {
			// Custom chain may be wrong; retry against system roots.
			logger.Get().Warnw("Visa PAV TLS failure, retrying with system roots", "error", err)
			resp, err = v.post(ctx, v.fallback, payload)
		}
		if err != nil {
			return false, fmt.Sprintf("Visa PAV request error: %v", err)
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return false, fmt.Sprintf("Visa PAV failed (%d).", resp.StatusCode)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, "Visa PAV returned an invalid response."
	}

	actionCode := strings.TrimSpace(fmt.Sprintf("%v", body["actionCode"]))
	if body["actionCode"] == nil {
		actionCode = ""
	}

	switch actionCode {
	case "00", "85":
		return true, "Verified"
	case "":
		return false, "Verification failed."
	default:
		return false, fmt.Sprintf("Action code %s", actionCode)
	}
}

func (v *VisaClient) post(ctx context.Context, client *http.Client, payload validationRequest) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := strings.TrimRight(v.cfg.BaseURL, "/") + "/pav/v1/cardvalidation"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(v.cfg.UserID, v.cfg.Password)

	return client.Do(req)
}

func isTLSError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "x509") || strings.Contains(msg, "tls:") || strings.Contains(msg, "certificate")
}
