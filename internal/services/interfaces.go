package services

import (
	"context"

	"trove/internal/models"
	"trove/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// DealFilter holds optional filters for listing deals. Merchants matches
// deal titles, where merchant-feed deals carry the merchant name.
type DealFilter struct {
	Issuer    string
	Merchants []string
}

// WalletSummary aggregates the card wallet for display.
type WalletSummary struct {
	Cards          []models.Card `json:"cards"`
	TotalAnnualFee float64       `json:"total_annual_fee"`
}

// CardServicer defines the contract for card and deal business logic.
type CardServicer interface {
	AddCard(ctx context.Context, userID uint, cardName, issuer string, annualFee float64, cardType string, baseRewardRate float64, pan string) (*models.Card, error)
	GetCards(page pagination.PageRequest) (*pagination.PageResponse[models.Card], error)
	GetCardByID(cardID uint) (*models.Card, error)
	DeleteCard(userID, cardID uint) error
	WalletSummary(userID uint) (*WalletSummary, error)
	GetDeals(filter DealFilter) ([]models.Deal, error)
}

// GoalProgress is a goal together with its computed progress.
type GoalProgress struct {
	models.Goal
	EffectiveSpend float64 `json:"effective_spend"`
	Percent        float64 `json:"percent"`
	Color          string  `json:"color"`
}

// GoalServicer defines the contract for budget-goal business logic.
type GoalServicer interface {
	CreateGoal(userID uint, category string, limitAmount float64, periodStart, periodEnd string) (*models.Goal, error)
	GetUserGoals(userID uint) ([]GoalProgress, error)
	DeleteGoal(userID, goalID uint) error
	LiveSpend(goal *models.Goal) (float64, error)
	EffectiveSpend(goal *models.Goal) (float64, error)
}

// Alert is one entry of the spending notification list.
type Alert struct {
	Category  string `json:"category"`
	Percent   int    `json:"percent"`
	Threshold string `json:"threshold"`
	Level     string `json:"level"`
}

// AlertSummary is the composed, per-request notification view model.
// Severity is empty when no goal clears the 75% threshold.
type AlertSummary struct {
	Alerts   []Alert `json:"alerts"`
	Count    int     `json:"count"`
	Severity string  `json:"severity,omitempty"`
}

// AlertServicer composes spending alerts from goal progress.
type AlertServicer interface {
	Compose(userID uint) (*AlertSummary, error)
}

// TransactionRow is a display row with the merchant fallback applied and
// category labels joined.
type TransactionRow struct {
	TransactionID string  `json:"transaction_id"`
	Merchant      string  `json:"merchant"`
	Category      string  `json:"category"`
	Date          string  `json:"date"`
	Amount        float64 `json:"amount"`
}

// MerchantStat aggregates spend for one merchant.
type MerchantStat struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

// CategoryStat aggregates spend for one category label.
type CategoryStat struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

// PurchaseStat is a single notable transaction.
type PurchaseStat struct {
	Merchant string  `json:"merchant"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
}

// WrappedStats is the categorized spending recap.
type WrappedStats struct {
	TxCount         int64          `json:"tx_count"`
	TotalSpending   float64        `json:"total_spending"`
	AvgAmount       float64        `json:"avg_amount"`
	Categories      []CategoryStat `json:"categories"`
	TopMerchant     *MerchantStat  `json:"top_merchant"`
	FreqMerchant    *MerchantStat  `json:"freq_merchant"`
	BiggestPurchase *PurchaseStat  `json:"biggest_purchase"`
}

// SpendingStats summarizes a trailing window of transactions for the
// assistant's financial context.
type SpendingStats struct {
	TxCount       int64
	TotalSpending float64
	AvgAmount     float64
}

// TransactionServicer defines read-only transaction queries for dashboards
// and the assistant.
type TransactionServicer interface {
	Recent(limit int) ([]TransactionRow, error)
	DailyTotals(days int) (labels []string, series []float64, err error)
	Wrapped() (*WrappedStats, error)
	WindowStats(fromDate, toDate string) (*SpendingStats, error)
	TopCategories(fromDate string, limit int) ([]CategoryStat, error)
	TopMerchants(fromDate string, limit int) ([]MerchantStat, error)
	SummaryText(userID uint) (string, error)
}

// SubscriptionPanel is the composed subscriptions view model.
type SubscriptionPanel struct {
	Subscriptions []SubscriptionRow `json:"subscriptions"`
	PriceAlerts   []SubscriptionRow `json:"price_alerts"`
	LeastUsed     []SubscriptionRow `json:"least_used"`
	TotalMonthly  float64           `json:"total_monthly"`
	NextBill      string            `json:"next_bill,omitempty"`
}

// SubscriptionRow is one subscription with derived display fields.
type SubscriptionRow struct {
	Merchant        string   `json:"merchant"`
	Amount          float64  `json:"amount"`
	BillingCycle    string   `json:"billing_cycle"`
	NextPaymentDate string   `json:"next_payment_date,omitempty"`
	LastUsedDate    string   `json:"last_used_date,omitempty"`
	UsageScore      *int     `json:"usage_score,omitempty"`
	PrevAmount      *float64 `json:"prev_amount,omitempty"`
	CurrentAmount   float64  `json:"current_amount"`
	ManageURL       string   `json:"manage_url"`
}

// SubscriptionServicer composes the subscriptions panel.
type SubscriptionServicer interface {
	Panel(userID uint) (*SubscriptionPanel, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
