package services

import (
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "trove/internal/errors"
	"trove/internal/models"
)

// SubscriptionService composes the recurring-payments panel. It is read-only
// over the subscriptions table; when the user has none, a canned sample set
// is served so the panel still renders.
type SubscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// Panel returns the user's subscriptions with derived price alerts, the
// three least-used entries, combined monthly cost, and the next bill date.
func (s *SubscriptionService) Panel(userID uint) (*SubscriptionPanel, error) {
	var subs []models.Subscription
	if err := s.db.Where("user_id = ?", userID).Find(&subs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var rows []SubscriptionRow
	if len(subs) > 0 {
		rows = make([]SubscriptionRow, 0, len(subs))
		for _, sub := range subs {
			rows = append(rows, SubscriptionRow{
				Merchant:        sub.Merchant,
				Amount:          sub.Amount,
				BillingCycle:    string(sub.BillingCycle),
				NextPaymentDate: sub.NextPaymentDate,
				LastUsedDate:    sub.LastUsedDate,
				UsageScore:      sub.UsageScore,
				PrevAmount:      sub.PrevAmount,
				CurrentAmount:   sub.Amount,
				ManageURL:       manageURL(sub.Merchant),
			})
		}
	} else {
		rows = sampleSubscriptions()
	}

	panel := &SubscriptionPanel{Subscriptions: rows}

	for _, r := range rows {
		if r.PrevAmount != nil && *r.PrevAmount > 0 && r.CurrentAmount > *r.PrevAmount {
			panel.PriceAlerts = append(panel.PriceAlerts, r)
		}
		if r.BillingCycle == string(models.BillingCycleMonthly) {
			panel.TotalMonthly += r.Amount
		}
		if r.NextPaymentDate != "" && (panel.NextBill == "" || r.NextPaymentDate < panel.NextBill) {
			panel.NextBill = r.NextPaymentDate
		}
	}

	scored := make([]SubscriptionRow, 0, len(rows))
	for _, r := range rows {
		if r.UsageScore != nil {
			scored = append(scored, r)
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return *scored[i].UsageScore < *scored[j].UsageScore
	})
	if len(scored) > 3 {
		scored = scored[:3]
	}
	panel.LeastUsed = scored

	return panel, nil
}

// manageURL points at the merchant's account page for the handful of
// services the panel recognizes.
func manageURL(merchant string) string {
	m := strings.ToLower(merchant)
	switch {
	case strings.Contains(m, "spotify"):
		return "https://www.spotify.com/account/overview/"
	case strings.Contains(m, "netflix"):
		return "https://www.netflix.com/YourAccount"
	case strings.Contains(m, "amazon"):
		return "https://www.amazon.com/gp/help/customer/display.html?nodeId=GTJQ7QZY7QL2HK4Y"
	case strings.Contains(m, "openai"), strings.Contains(m, "chatgpt"):
		return "https://chatgpt.com/account/manage"
	default:
		return ""
	}
}

func sampleSubscriptions() []SubscriptionRow {
	today := time.Now()
	iso := func(days int) string { return today.AddDate(0, 0, days).Format("2006-01-02") }
	intp := func(v int) *int { return &v }
	floatp := func(v float64) *float64 { return &v }

	return []SubscriptionRow{
		{
			Merchant:        "Spotify",
			Amount:          12.99,
			BillingCycle:    string(models.BillingCycleMonthly),
			NextPaymentDate: iso(6),
			LastUsedDate:    iso(-4),
			UsageScore:      intp(72),
			PrevAmount:      floatp(11.99),
			CurrentAmount:   12.99,
			ManageURL:       manageURL("Spotify"),
		},
		{
			Merchant:        "Netflix",
			Amount:          15.49,
			BillingCycle:    string(models.BillingCycleMonthly),
			NextPaymentDate: iso(18),
			LastUsedDate:    iso(-2),
			UsageScore:      intp(81),
			CurrentAmount:   15.49,
			ManageURL:       manageURL("Netflix"),
		},
		{
			Merchant:        "OpenAI",
			Amount:          19.99,
			BillingCycle:    string(models.BillingCycleMonthly),
			NextPaymentDate: iso(24),
			LastUsedDate:    iso(-15),
			UsageScore:      intp(35),
			CurrentAmount:   19.99,
			ManageURL:       manageURL("OpenAI"),
		},
		{
			Merchant:        "Amazon Prime",
			Amount:          14.99,
			BillingCycle:    string(models.BillingCycleMonthly),
			NextPaymentDate: iso(9),
			LastUsedDate:    iso(-27),
			UsageScore:      intp(22),
			CurrentAmount:   14.99,
			ManageURL:       manageURL("Amazon Prime"),
		},
	}
}
