package models

// BillingCycle represents how often a subscription bills.
type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"
)

// Subscription is a recurring charge tracked for the subscriptions panel.
// PrevAmount and UsageScore are optional enrichment fields; they drive the
// price-alert and least-used views when present.
type Subscription struct {
	Base
	UserID          uint         `gorm:"not null;index" json:"user_id"`
	Merchant        string       `gorm:"not null" json:"merchant"`
	Amount          float64      `gorm:"not null" json:"amount"`
	BillingCycle    BillingCycle `gorm:"not null;default:'monthly'" json:"billing_cycle"`
	NextPaymentDate string       `json:"next_payment_date"`
	LastUsedDate    string       `json:"last_used_date,omitempty"`
	UsageScore      *int         `json:"usage_score,omitempty"`
	PrevAmount      *float64     `json:"prev_amount,omitempty"`
}
