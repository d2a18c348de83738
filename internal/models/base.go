package models

import "time"

// Base contains common columns for catalog and wallet tables. Transactions
// are keyed by the provider-assigned transaction_id and do not embed Base.
// Deletes are hard deletes: deals and transactions are bulk-replaced on
// every load, so soft-delete markers would corrupt the reload counts.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
