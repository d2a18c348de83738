package models

// Transaction is a single ledger entry from the provider export. Rows are
// bulk-deleted and bulk-reloaded on each ingestion cycle and never
// individually mutated. Dates are ISO yyyy-mm-dd strings, matching the
// export, so BETWEEN comparisons work lexicographically.
type Transaction struct {
	TransactionID string  `gorm:"primaryKey" json:"transaction_id"`
	MerchantName  string  `json:"merchant_name"`
	Name          string  `json:"name"`
	Date          string  `gorm:"not null;index" json:"date"`
	Amount        float64 `gorm:"not null" json:"amount"`

	// Relationships
	Categories []TransactionCategory `gorm:"foreignKey:TransactionID;references:TransactionID;constraint:OnDelete:CASCADE" json:"categories,omitempty"`
}

// Merchant returns the display merchant name, falling back through the
// source fields the way the export does.
func (t *Transaction) Merchant() string {
	if t.MerchantName != "" {
		return t.MerchantName
	}
	if t.Name != "" {
		return t.Name
	}
	return "Unknown"
}

// TransactionCategory is one category label attached to a transaction. A
// transaction may carry any number of labels; they live and die with the
// ingestion cycle.
type TransactionCategory struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	TransactionID string `gorm:"not null;index" json:"transaction_id"`
	Category      string `gorm:"not null" json:"category"`
}
