package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"trove/internal/models"
	"trove/internal/testutil"
)

const exportJSON = `{
  "transactions": [
    {"transaction_id": "tx-1", "merchant_name": "Starbucks", "name": "STARBUCKS #1234", "date": "2026-08-20", "amount": 6.75, "category": ["Food and Drink", "Coffee"]},
    {"transaction_id": "tx-2", "name": "UNITED AIRLINES", "date": "2026-08-21", "amount": 412.50, "category": ["Travel"]}
  ]
}`

const billsJSON = `[
  {"transaction_id": "bill-1", "merchant_name": "Comcast", "date": "2026-08-01", "amount": 89.99, "category": ["Bills"]}
]`

func writeExport(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write export file: %v", err)
	}
	return path
}

func TestSync(t *testing.T) {
	t.Run("loads_primary_and_bills", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		counts, err := NewIngestor(db).Sync(
			writeExport(t, "plaid.json", exportJSON),
			writeExport(t, "bills.json", billsJSON),
			true,
		)
		testutil.AssertNoError(t, err)

		if counts["transactions"] != 3 {
			t.Errorf("expected 3 transactions, got %d", counts["transactions"])
		}
		if counts["transaction_categories"] != 4 {
			t.Errorf("expected 4 category rows, got %d", counts["transaction_categories"])
		}
	})

	t.Run("wipe_replaces_previous_rows", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		testutil.CreateTestTransaction(t, db, "2026-08-01", 10, "Stale")

		counts, err := NewIngestor(db).Sync(writeExport(t, "plaid.json", exportJSON), "", true)
		testutil.AssertNoError(t, err)

		if counts["transactions"] != 2 {
			t.Errorf("expected wipe to drop stale rows, got %d transactions", counts["transactions"])
		}

		var stale int64
		db.Model(&models.TransactionCategory{}).Where("category = ?", "Stale").Count(&stale)
		if stale != 0 {
			t.Errorf("expected stale category rows wiped, found %d", stale)
		}
	})

	t.Run("append_without_wipe", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		testutil.CreateTestTransaction(t, db, "2026-08-01", 10, "Existing")

		counts, err := NewIngestor(db).Sync(writeExport(t, "plaid.json", exportJSON), "", false)
		testutil.AssertNoError(t, err)

		if counts["transactions"] != 3 {
			t.Errorf("expected existing row kept, got %d transactions", counts["transactions"])
		}
	})

	t.Run("missing_primary_is_fatal", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		_, err := NewIngestor(db).Sync(filepath.Join(t.TempDir(), "missing.json"), "", true)
		if !errors.Is(err, ErrExportNotFound) {
			t.Errorf("expected ErrExportNotFound, got %v", err)
		}
	})

	t.Run("missing_bills_is_skipped", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		counts, err := NewIngestor(db).Sync(
			writeExport(t, "plaid.json", exportJSON),
			filepath.Join(t.TempDir(), "missing-bills.json"),
			true,
		)
		testutil.AssertNoError(t, err)

		if counts["transactions"] != 2 {
			t.Errorf("expected only primary rows, got %d", counts["transactions"])
		}
	})

	t.Run("failed_load_rolls_back_the_wipe", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		testutil.CreateTestTransaction(t, db, "2026-08-01", 10, "Existing")

		// Duplicate transaction_id makes the second insert fail mid-load.
		badExport := `[
			{"transaction_id": "dup", "date": "2026-08-20", "amount": 1},
			{"transaction_id": "dup", "date": "2026-08-21", "amount": 2}
		]`
		_, err := NewIngestor(db).Sync(writeExport(t, "bad.json", badExport), "", true)
		if err == nil {
			t.Fatal("expected sync to fail on duplicate transaction id")
		}

		counts := NewIngestor(db).TableCounts()
		if counts["transactions"] != 1 {
			t.Errorf("expected pre-sync row preserved after rollback, got %d", counts["transactions"])
		}
		if counts["transaction_categories"] != 1 {
			t.Errorf("expected pre-sync categories preserved, got %d", counts["transaction_categories"])
		}
	})

	t.Run("bare_array_export", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		counts, err := NewIngestor(db).Sync(writeExport(t, "bills.json", billsJSON), "", true)
		testutil.AssertNoError(t, err)

		if counts["transactions"] != 1 {
			t.Errorf("expected bare array accepted, got %d transactions", counts["transactions"])
		}
	})
}

func TestTableCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	testutil.CreateTestTransaction(t, db, "2026-08-20", 12.50, "Food and Drink")

	counts := NewIngestor(db).TableCounts()

	for _, tbl := range CountedTables {
		if _, ok := counts[tbl]; !ok {
			t.Errorf("expected count entry for %s", tbl)
		}
	}

	if counts["transactions"] != 1 {
		t.Errorf("expected 1 transaction, got %d", counts["transactions"])
	}
	// accounts, items, and meta are provider-side tables that do not exist
	// in this schema; they must report zero, not error.
	if counts["accounts"] != 0 || counts["items"] != 0 || counts["meta"] != 0 {
		t.Error("expected missing tables to count as zero")
	}
}
