package models

// Goal is a user-defined budget: a category substring to match, a limit, and
// a period window. CurrentSpend is a persisted snapshot used as a floor
// under the live aggregation, never the source of truth. A non-positive
// limit makes percentage math meaningless and suppresses alerts entirely.
type Goal struct {
	Base
	UserID       uint    `gorm:"not null;index" json:"user_id"`
	Category     string  `gorm:"not null" json:"category"`
	LimitAmount  float64 `gorm:"not null" json:"limit_amount"`
	CurrentSpend float64 `gorm:"not null;default:0" json:"current_spend"`
	PeriodStart  string  `gorm:"not null" json:"period_start"`
	PeriodEnd    string  `gorm:"not null" json:"period_end"`
}
