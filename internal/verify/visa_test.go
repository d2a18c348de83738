package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"trove/internal/config"
)

func newPAVServer(t *testing.T, status int, actionCode string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pav/v1/cardvalidation" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if user, pass, ok := r.BasicAuth(); !ok || user != "visa-user" || pass != "visa-pass" {
			t.Error("expected basic auth credentials on the request")
		}

		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		if payload["primaryAccountNumber"] == "" {
			t.Error("expected primaryAccountNumber in the payload")
		}
		if stan, _ := payload["systemsTraceAuditNumber"].(string); len(stan) != 6 {
			t.Errorf("expected 6-digit trace number, got %q", stan)
		}
		if rrn, _ := payload["retrievalReferenceNumber"].(string); len(rrn) != 12 {
			t.Errorf("expected 12-digit retrieval reference, got %q", rrn)
		}

		w.WriteHeader(status)
		if actionCode != "" {
			fmt.Fprintf(w, `{"actionCode": %q}`, actionCode)
		} else {
			fmt.Fprint(w, `{}`)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func testClient(t *testing.T, baseURL string) *VisaClient {
	t.Helper()

	client, err := NewVisaClient(config.VisaConfig{
		UserID:              "visa-user",
		Password:            "visa-pass",
		BaseURL:             baseURL,
		AcquiringBIN:        "408999",
		AcquirerCountryCode: "840",
	})
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}
	return client
}

func TestVerifyPAN(t *testing.T) {
	ctx := context.Background()

	t.Run("action_code_00_verified", func(t *testing.T) {
		server := newPAVServer(t, http.StatusOK, "00")

		ok, message := testClient(t, server.URL).VerifyPAN(ctx, "4111111111111111")
		if !ok || message != "Verified" {
			t.Errorf("expected verified, got ok=%v message=%q", ok, message)
		}
	})

	t.Run("action_code_85_verified", func(t *testing.T) {
		server := newPAVServer(t, http.StatusOK, "85")

		ok, message := testClient(t, server.URL).VerifyPAN(ctx, "4111111111111111")
		if !ok || message != "Verified" {
			t.Errorf("expected verified, got ok=%v message=%q", ok, message)
		}
	})

	t.Run("other_action_code_rejected", func(t *testing.T) {
		server := newPAVServer(t, http.StatusOK, "05")

		ok, message := testClient(t, server.URL).VerifyPAN(ctx, "4111111111111111")
		if ok || message != "Action code 05" {
			t.Errorf("expected rejection, got ok=%v message=%q", ok, message)
		}
	})

	t.Run("missing_action_code", func(t *testing.T) {
		server := newPAVServer(t, http.StatusOK, "")

		ok, message := testClient(t, server.URL).VerifyPAN(ctx, "4111111111111111")
		if ok || message != "Verification failed." {
			t.Errorf("expected generic failure, got ok=%v message=%q", ok, message)
		}
	})

	t.Run("provider_error_status", func(t *testing.T) {
		server := newPAVServer(t, http.StatusBadRequest, "")

		ok, message := testClient(t, server.URL).VerifyPAN(ctx, "4111111111111111")
		if ok || message != "Visa PAV failed (400)." {
			t.Errorf("expected status failure, got ok=%v message=%q", ok, message)
		}
	})

	t.Run("unconfigured_credentials", func(t *testing.T) {
		client, err := NewVisaClient(config.VisaConfig{BaseURL: "https://sandbox.api.visa.com"})
		if err != nil {
			t.Fatalf("failed to build client: %v", err)
		}

		ok, message := client.VerifyPAN(ctx, "4111111111111111")
		if ok || message != "Visa PAV credentials are not configured." {
			t.Errorf("expected credential message, got ok=%v message=%q", ok, message)
		}
	})

	t.Run("missing_client_certificate", func(t *testing.T) {
		client, err := NewVisaClient(config.VisaConfig{
			UserID:   "visa-user",
			Password: "visa-pass",
			BaseURL:  "https://sandbox.api.visa.com",
		})
		if err != nil {
			t.Fatalf("failed to build client: %v", err)
		}

		ok, message := client.VerifyPAN(ctx, "4111111111111111")
		if ok || message != "Visa client certificate and key are not configured." {
			t.Errorf("expected certificate message, got ok=%v message=%q", ok, message)
		}
	})

	t.Run("unreachable_endpoint", func(t *testing.T) {
		ok, message := testClient(t, "http://127.0.0.1:1").VerifyPAN(ctx, "4111111111111111")
		if ok || !strings.Contains(message, "Visa PAV request error") {
			t.Errorf("expected transport error message, got ok=%v message=%q", ok, message)
		}
	})
}
