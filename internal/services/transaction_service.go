package services

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "trove/internal/errors"
	"trove/internal/models"
)

// merchantExpr resolves the display merchant in SQL the same way
// models.Transaction.Merchant does in Go.
const merchantExpr = "COALESCE(NULLIF(merchant_name, ''), NULLIF(name, ''), 'Unknown')"

// TransactionService answers read-only queries over the ingested transaction
// table for dashboards, the spending recap, and the assistant.
type TransactionService struct {
	db *gorm.DB
}

func NewTransactionService(db *gorm.DB) *TransactionService {
	return &TransactionService{db: db}
}

// Recent returns the latest transactions as display rows. Category labels
// are joined in Go so the query stays portable across drivers.
func (s *TransactionService) Recent(limit int) ([]TransactionRow, error) {
	if limit <= 0 {
		limit = 10
	}

	var txs []models.Transaction
	err := s.db.Preload("Categories").
		Order("date DESC, transaction_id ASC").
		Limit(limit).
		Find(&txs).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	rows := make([]TransactionRow, 0, len(txs))
	for _, tx := range txs {
		labels := make([]string, 0, len(tx.Categories))
		for _, c := range tx.Categories {
			labels = append(labels, c.Category)
		}

		rows = append(rows, TransactionRow{
			TransactionID: tx.TransactionID,
			Merchant:      tx.Merchant(),
			Category:      strings.Join(labels, " / "),
			Date:          tx.Date,
			Amount:        tx.Amount,
		})
	}

	return rows, nil
}

// DailyTotals returns spend per day over the trailing window, oldest first,
// with zero-filled gaps. Labels are abbreviated weekday names.
func (s *TransactionService) DailyTotals(days int) ([]string, []float64, error) {
	if days <= 0 {
		days = 7
	}

	start := time.Now().AddDate(0, 0, -(days - 1))
	cutoff := start.Format("2006-01-02")

	var buckets []struct {
		Date  string
		Total float64
	}
	err := s.db.Raw(`
		SELECT date, SUM(amount) AS total
		FROM transactions
		WHERE amount > 0 AND date >= ?
		GROUP BY date`, cutoff,
	).Scan(&buckets).Error
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totals := make(map[string]float64, len(buckets))
	for _, b := range buckets {
		totals[b.Date] = b.Total
	}

	labels := make([]string, 0, days)
	series := make([]float64, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		labels = append(labels, day.Weekday().String()[:3])
		series = append(series, totals[day.Format("2006-01-02")])
	}

	return labels, series, nil
}

// Wrapped builds the all-time spending recap.
func (s *TransactionService) Wrapped() (*WrappedStats, error) {
	stats, err := s.WindowStats("", "")
	if err != nil {
		return nil, err
	}

	wrapped := &WrappedStats{
		TxCount:       stats.TxCount,
		TotalSpending: stats.TotalSpending,
		AvgAmount:     stats.AvgAmount,
	}

	if wrapped.Categories, err = s.TopCategories("", 5); err != nil {
		return nil, err
	}

	merchants, err := s.TopMerchants("", 1)
	if err != nil {
		return nil, err
	}
	if len(merchants) > 0 {
		wrapped.TopMerchant = &merchants[0]
	}

	var freq MerchantStat
	err = s.db.Raw(`
		SELECT `+merchantExpr+` AS name, SUM(amount) AS total, COUNT(*) AS count
		FROM transactions
		WHERE amount > 0
		GROUP BY `+merchantExpr+`
		ORDER BY count DESC
		LIMIT 1`,
	).Scan(&freq).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if freq.Name != "" {
		wrapped.FreqMerchant = &freq
	}

	var biggest PurchaseStat
	err = s.db.Raw(`
		SELECT ` + merchantExpr + ` AS merchant, amount, date
		FROM transactions
		WHERE amount > 0
		ORDER BY amount DESC
		LIMIT 1`,
	).Scan(&biggest).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if biggest.Merchant != "" {
		wrapped.BiggestPurchase = &biggest
	}

	return wrapped, nil
}

// WindowStats summarizes spend between two ISO dates. Empty bounds leave
// that side of the window open.
func (s *TransactionService) WindowStats(fromDate, toDate string) (*SpendingStats, error) {
	query := s.db.Model(&models.Transaction{}).Where("amount > 0")
	if fromDate != "" {
		query = query.Where("date >= ?", fromDate)
	}
	if toDate != "" {
		query = query.Where("date <= ?", toDate)
	}

	var stats SpendingStats
	err := query.
		Select("COUNT(*) AS tx_count, COALESCE(SUM(amount), 0) AS total_spending, COALESCE(AVG(amount), 0) AS avg_amount").
		Scan(&stats).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &stats, nil
}

// TopCategories ranks category labels by total spend since fromDate.
func (s *TransactionService) TopCategories(fromDate string, limit int) ([]CategoryStat, error) {
	if limit <= 0 {
		limit = 5
	}

	where := "t.amount > 0"
	args := []interface{}{}
	if fromDate != "" {
		where += " AND t.date >= ?"
		args = append(args, fromDate)
	}
	args = append(args, limit)

	var stats []CategoryStat
	err := s.db.Raw(`
		SELECT c.category AS name, SUM(t.amount) AS total, COUNT(*) AS count
		FROM transactions t
		JOIN transaction_categories c ON c.transaction_id = t.transaction_id
		WHERE `+where+`
		GROUP BY c.category
		ORDER BY total DESC
		LIMIT ?`, args...,
	).Scan(&stats).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return stats, nil
}

// TopMerchants ranks merchants by total spend since fromDate.
func (s *TransactionService) TopMerchants(fromDate string, limit int) ([]MerchantStat, error) {
	if limit <= 0 {
		limit = 5
	}

	where := "amount > 0"
	args := []interface{}{}
	if fromDate != "" {
		where += " AND date >= ?"
		args = append(args, fromDate)
	}
	args = append(args, limit)

	var stats []MerchantStat
	err := s.db.Raw(`
		SELECT `+merchantExpr+` AS name, SUM(amount) AS total, COUNT(*) AS count
		FROM transactions
		WHERE `+where+`
		GROUP BY `+merchantExpr+`
		ORDER BY total DESC
		LIMIT ?`, args...,
	).Scan(&stats).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return stats, nil
}

// SummaryText renders a plain-text digest of the last 30 days of spending,
// suitable for prompting the assistant or for a quick analysis response.
func (s *TransactionService) SummaryText(userID uint) (string, error) {
	cutoff := time.Now().AddDate(0, 0, -30).Format("2006-01-02")

	stats, err := s.WindowStats(cutoff, "")
	if err != nil {
		return "", err
	}

	if stats.TxCount == 0 {
		return "No transactions recorded in the last 30 days.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Spending over the last 30 days: $%.2f across %d transactions (avg $%.2f).\n",
		stats.TotalSpending, stats.TxCount, stats.AvgAmount)

	categories, err := s.TopCategories(cutoff, 5)
	if err != nil {
		return "", err
	}
	if len(categories) > 0 {
		b.WriteString("Top categories:\n")
		for _, c := range categories {
			fmt.Fprintf(&b, "- %s: $%.2f (%d transactions)\n", c.Name, c.Total, c.Count)
		}
	}

	merchants, err := s.TopMerchants(cutoff, 5)
	if err != nil {
		return "", err
	}
	if len(merchants) > 0 {
		b.WriteString("Top merchants:\n")
		for _, m := range merchants {
			fmt.Fprintf(&b, "- %s: $%.2f (%d transactions)\n", m.Name, m.Total, m.Count)
		}
	}

	return strings.TrimRight(b.String(), "\n"), nil
}
