// Package ingest refreshes transaction data from provider export files.
package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gorm.io/gorm"

	"trove/internal/logger"
	"trove/internal/models"
)

// ErrExportNotFound is returned when the primary export path does not exist.
var ErrExportNotFound = errors.New("transaction export not found")

// CountedTables is the fixed table list reported after every sync. Tables
// that do not exist in the target database count as zero.
var CountedTables = []string{
	"accounts",
	"transactions",
	"transaction_categories",
	"items",
	"meta",
	"cards",
}

// Counts maps table names to row counts for post-sync observability.
type Counts map[string]int64

// ExportTransaction is one entry of the provider export. merchant_name and
// name are both carried; display code falls back through them.
type ExportTransaction struct {
	TransactionID string   `json:"transaction_id"`
	MerchantName  string   `json:"merchant_name"`
	Name          string   `json:"name"`
	Date          string   `json:"date"`
	Amount        float64  `json:"amount"`
	Category      []string `json:"category"`
}

// Ingestor wipes and reloads the transaction tables from export files.
// Transactions are read-only ledger facts, so replacing them wholesale is
// cheaper than reconciling incremental diffs; the wipe and reload run in a
// single database transaction so readers never observe the empty tables and
// a mid-reload failure rolls everything back.
type Ingestor struct {
	db *gorm.DB
}

// NewIngestor creates an Ingestor bound to a database.
func NewIngestor(db *gorm.DB) *Ingestor {
	return &Ingestor{db: db}
}

// Sync refreshes transactions and transaction categories from the primary
// export and, when the file exists, the secondary bills export. With wipe
// set, both tables are cleared first. Returns row counts for the fixed
// table list regardless of success shape of individual tables.
func (ing *Ingestor) Sync(primaryPath, billsPath string, wipe bool) (Counts, error) {
	primary, err := readExport(primaryPath)
	if err != nil {
		return nil, err
	}

	var bills []ExportTransaction
	if billsPath != "" {
		if _, err := os.Stat(billsPath); err == nil {
			bills, err = readExport(billsPath)
			if err != nil {
				return nil, err
			}
		}
	}

	err = ing.db.Transaction(func(tx *gorm.DB) error {
		if wipe {
			if err := tx.Exec("DELETE FROM transaction_categories").Error; err != nil {
				return fmt.Errorf("wipe transaction_categories: %w", err)
			}
			if err := tx.Exec("DELETE FROM transactions").Error; err != nil {
				return fmt.Errorf("wipe transactions: %w", err)
			}
		}
		if err := insertExport(tx, primary); err != nil {
			return err
		}
		return insertExport(tx, bills)
	})
	if err != nil {
		return nil, err
	}

	counts := ing.TableCounts()
	logger.Get().Infow("transaction sync complete",
		"primary", primaryPath,
		"bills", billsPath,
		"wipe", wipe,
		"transactions", counts["transactions"],
		"transaction_categories", counts["transaction_categories"],
	)
	return counts, nil
}

// TableCounts reports the row count of each counted table, treating a
// missing table as zero rather than an error.
func (ing *Ingestor) TableCounts() Counts {
	counts := make(Counts, len(CountedTables))
	for _, tbl := range CountedTables {
		var n int64
		if err := ing.db.Raw("SELECT COUNT(*) FROM " + tbl).Scan(&n).Error; err != nil {
			counts[tbl] = 0
			continue
		}
		counts[tbl] = n
	}
	return counts
}

// readExport decodes an export file. Both the enveloped form
// {"transactions": [...]} and a bare top-level array are accepted.
func readExport(path string) ([]ExportTransaction, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrExportNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var envelope struct {
		Transactions []ExportTransaction `json:"transactions"`
	}
	if err := json.Unmarshal(doc, &envelope); err == nil && envelope.Transactions != nil {
		return envelope.Transactions, nil
	}

	var list []ExportTransaction
	if err := json.Unmarshal(doc, &list); err != nil {
		return nil, fmt.Errorf("decode export %s: %w", path, err)
	}
	return list, nil
}

// insertExport writes rows and their category labels inside the caller's
// transaction.
func insertExport(tx *gorm.DB, entries []ExportTransaction) error {
	for _, e := range entries {
		row := models.Transaction{
			TransactionID: e.TransactionID,
			MerchantName:  e.MerchantName,
			Name:          e.Name,
			Date:          e.Date,
			Amount:        e.Amount,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("insert transaction %s: %w", e.TransactionID, err)
		}
		for _, cat := range e.Category {
			label := models.TransactionCategory{
				TransactionID: e.TransactionID,
				Category:      cat,
			}
			if err := tx.Create(&label).Error; err != nil {
				return fmt.Errorf("insert category for %s: %w", e.TransactionID, err)
			}
		}
	}
	return nil
}
