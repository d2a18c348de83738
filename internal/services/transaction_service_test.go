package services

import (
	"strings"
	"testing"

	"gorm.io/gorm"

	"trove/internal/models"
	"trove/internal/testutil"
)

func createRawTransaction(t *testing.T, db *gorm.DB, tx *models.Transaction) {
	t.Helper()
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create transaction: %v", err)
	}
}

func TestRecent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	service := NewTransactionService(db)

	createRawTransaction(t, db, &models.Transaction{
		TransactionID: "tx-named",
		MerchantName:  "Starbucks",
		Name:          "STARBUCKS #1234",
		Date:          "2026-08-22",
		Amount:        6.75,
		Categories: []models.TransactionCategory{
			{Category: "Food and Drink"},
			{Category: "Coffee"},
		},
	})
	createRawTransaction(t, db, &models.Transaction{
		TransactionID: "tx-fallback",
		Name:          "UNITED AIRLINES",
		Date:          "2026-08-21",
		Amount:        412.50,
	})
	createRawTransaction(t, db, &models.Transaction{
		TransactionID: "tx-unknown",
		Date:          "2026-08-20",
		Amount:        12,
	})

	rows, err := service.Recent(10)
	testutil.AssertNoError(t, err)

	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	if rows[0].TransactionID != "tx-named" {
		t.Errorf("expected newest first, got %s", rows[0].TransactionID)
	}
	if rows[0].Merchant != "Starbucks" {
		t.Errorf("expected merchant name preferred, got %s", rows[0].Merchant)
	}
	if rows[0].Category != "Food and Drink / Coffee" {
		t.Errorf("expected joined labels, got %q", rows[0].Category)
	}
	if rows[1].Merchant != "UNITED AIRLINES" {
		t.Errorf("expected fallback to name, got %s", rows[1].Merchant)
	}
	if rows[2].Merchant != "Unknown" {
		t.Errorf("expected Unknown fallback, got %s", rows[2].Merchant)
	}

	t.Run("limit_applies", func(t *testing.T) {
		rows, err := service.Recent(2)
		testutil.AssertNoError(t, err)
		if len(rows) != 2 {
			t.Errorf("expected 2 rows, got %d", len(rows))
		}
	})
}

func TestDailyTotals(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	service := NewTransactionService(db)

	testutil.CreateTestTransaction(t, db, isoDaysFromNow(0), 30)
	testutil.CreateTestTransaction(t, db, isoDaysFromNow(0), 20)
	testutil.CreateTestTransaction(t, db, isoDaysFromNow(-2), 15)
	testutil.CreateTestTransaction(t, db, isoDaysFromNow(-30), 99)
	testutil.CreateTestTransaction(t, db, isoDaysFromNow(0), -10)

	labels, series, err := service.DailyTotals(7)
	testutil.AssertNoError(t, err)

	if len(labels) != 7 || len(series) != 7 {
		t.Fatalf("expected 7 buckets, got %d labels and %d values", len(labels), len(series))
	}

	if series[6] != 50 {
		t.Errorf("expected today's total 50, got %f", series[6])
	}
	if series[4] != 15 {
		t.Errorf("expected 15 two days back, got %f", series[4])
	}
	if series[0] != 0 {
		t.Errorf("expected zero-filled oldest bucket, got %f", series[0])
	}

	for _, label := range labels {
		if len(label) != 3 {
			t.Errorf("expected abbreviated weekday label, got %q", label)
		}
	}
}

func TestWindowStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	service := NewTransactionService(db)

	testutil.CreateTestTransaction(t, db, "2026-08-10", 100)
	testutil.CreateTestTransaction(t, db, "2026-08-15", 50)
	testutil.CreateTestTransaction(t, db, "2026-07-01", 200)
	testutil.CreateTestTransaction(t, db, "2026-08-12", -30)

	stats, err := service.WindowStats("2026-08-01", "2026-08-31")
	testutil.AssertNoError(t, err)

	if stats.TxCount != 2 {
		t.Errorf("expected 2 transactions in window, got %d", stats.TxCount)
	}
	if stats.TotalSpending != 150 {
		t.Errorf("expected total 150, got %f", stats.TotalSpending)
	}
	if stats.AvgAmount != 75 {
		t.Errorf("expected average 75, got %f", stats.AvgAmount)
	}

	t.Run("open_window", func(t *testing.T) {
		stats, err := service.WindowStats("", "")
		testutil.AssertNoError(t, err)
		if stats.TxCount != 3 {
			t.Errorf("expected all positive transactions, got %d", stats.TxCount)
		}
	})

	t.Run("empty_window", func(t *testing.T) {
		stats, err := service.WindowStats("2027-01-01", "")
		testutil.AssertNoError(t, err)
		if stats.TxCount != 0 || stats.TotalSpending != 0 {
			t.Errorf("expected zeroed stats, got %+v", stats)
		}
	})
}

func TestTopCategories(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	service := NewTransactionService(db)

	testutil.CreateTestTransaction(t, db, "2026-08-10", 100, "Travel")
	testutil.CreateTestTransaction(t, db, "2026-08-11", 40, "Food and Drink")
	testutil.CreateTestTransaction(t, db, "2026-08-12", 25, "Food and Drink")
	testutil.CreateTestTransaction(t, db, "2026-08-13", 5, "Shops")

	stats, err := service.TopCategories("", 2)
	testutil.AssertNoError(t, err)

	if len(stats) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(stats))
	}
	if stats[0].Name != "Travel" || stats[0].Total != 100 {
		t.Errorf("unexpected top category: %+v", stats[0])
	}
	if stats[1].Name != "Food and Drink" || stats[1].Total != 65 || stats[1].Count != 2 {
		t.Errorf("unexpected second category: %+v", stats[1])
	}

	t.Run("from_date_narrows", func(t *testing.T) {
		stats, err := service.TopCategories("2026-08-12", 5)
		testutil.AssertNoError(t, err)
		if len(stats) != 2 {
			t.Fatalf("expected 2 categories after cutoff, got %d", len(stats))
		}
		if stats[0].Name != "Food and Drink" || stats[0].Total != 25 {
			t.Errorf("unexpected category after cutoff: %+v", stats[0])
		}
	})
}

func TestTopMerchants(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	service := NewTransactionService(db)

	createRawTransaction(t, db, &models.Transaction{TransactionID: "m-1", MerchantName: "Delta", Date: "2026-08-10", Amount: 300})
	createRawTransaction(t, db, &models.Transaction{TransactionID: "m-2", MerchantName: "Starbucks", Date: "2026-08-11", Amount: 6})
	createRawTransaction(t, db, &models.Transaction{TransactionID: "m-3", MerchantName: "Starbucks", Date: "2026-08-12", Amount: 7})
	createRawTransaction(t, db, &models.Transaction{TransactionID: "m-4", Name: "SQ *FOOD TRUCK", Date: "2026-08-12", Amount: 15})

	stats, err := service.TopMerchants("", 5)
	testutil.AssertNoError(t, err)

	if len(stats) != 3 {
		t.Fatalf("expected 3 merchants, got %d", len(stats))
	}
	if stats[0].Name != "Delta" || stats[0].Total != 300 {
		t.Errorf("unexpected top merchant: %+v", stats[0])
	}

	var starbucks *MerchantStat
	for i := range stats {
		if stats[i].Name == "Starbucks" {
			starbucks = &stats[i]
		}
	}
	if starbucks == nil || starbucks.Count != 2 || starbucks.Total != 13 {
		t.Errorf("unexpected Starbucks aggregate: %+v", starbucks)
	}
}

func TestWrapped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	service := NewTransactionService(db)

	t.Run("empty_table", func(t *testing.T) {
		wrapped, err := service.Wrapped()
		testutil.AssertNoError(t, err)

		if wrapped.TxCount != 0 {
			t.Errorf("expected no transactions, got %d", wrapped.TxCount)
		}
		if wrapped.TopMerchant != nil || wrapped.FreqMerchant != nil || wrapped.BiggestPurchase != nil {
			t.Error("expected nil highlights on an empty table")
		}
	})

	createRawTransaction(t, db, &models.Transaction{
		TransactionID: "w-1", MerchantName: "Delta", Date: "2026-08-10", Amount: 300,
		Categories: []models.TransactionCategory{{Category: "Travel"}},
	})
	createRawTransaction(t, db, &models.Transaction{
		TransactionID: "w-2", MerchantName: "Starbucks", Date: "2026-08-11", Amount: 6,
		Categories: []models.TransactionCategory{{Category: "Food and Drink"}},
	})
	createRawTransaction(t, db, &models.Transaction{
		TransactionID: "w-3", MerchantName: "Starbucks", Date: "2026-08-12", Amount: 7,
		Categories: []models.TransactionCategory{{Category: "Food and Drink"}},
	})

	t.Run("highlights", func(t *testing.T) {
		wrapped, err := service.Wrapped()
		testutil.AssertNoError(t, err)

		if wrapped.TxCount != 3 || wrapped.TotalSpending != 313 {
			t.Errorf("unexpected window stats: %+v", wrapped)
		}
		if wrapped.TopMerchant == nil || wrapped.TopMerchant.Name != "Delta" {
			t.Errorf("expected Delta as top merchant, got %+v", wrapped.TopMerchant)
		}
		if wrapped.FreqMerchant == nil || wrapped.FreqMerchant.Name != "Starbucks" {
			t.Errorf("expected Starbucks as most frequent, got %+v", wrapped.FreqMerchant)
		}
		if wrapped.BiggestPurchase == nil || wrapped.BiggestPurchase.Amount != 300 {
			t.Errorf("unexpected biggest purchase: %+v", wrapped.BiggestPurchase)
		}
		if len(wrapped.Categories) != 2 || wrapped.Categories[0].Name != "Travel" {
			t.Errorf("unexpected categories: %+v", wrapped.Categories)
		}
	})
}

func TestSummaryText(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	service := NewTransactionService(db)

	t.Run("no_recent_activity", func(t *testing.T) {
		text, err := service.SummaryText(1)
		testutil.AssertNoError(t, err)
		if text != "No transactions recorded in the last 30 days." {
			t.Errorf("unexpected empty digest: %q", text)
		}
	})

	t.Run("digest_includes_totals_and_rankings", func(t *testing.T) {
		createRawTransaction(t, db, &models.Transaction{
			TransactionID: "s-1", MerchantName: "Delta", Date: isoDaysFromNow(-2), Amount: 300,
			Categories: []models.TransactionCategory{{Category: "Travel"}},
		})
		createRawTransaction(t, db, &models.Transaction{
			TransactionID: "s-2", MerchantName: "Starbucks", Date: isoDaysFromNow(-1), Amount: 6.50,
			Categories: []models.TransactionCategory{{Category: "Food and Drink"}},
		})

		text, err := service.SummaryText(1)
		testutil.AssertNoError(t, err)

		for _, want := range []string{
			"$306.50 across 2 transactions",
			"Top categories:",
			"- Travel: $300.00 (1 transactions)",
			"Top merchants:",
			"- Delta: $300.00 (1 transactions)",
		} {
			if !strings.Contains(text, want) {
				t.Errorf("digest missing %q:\n%s", want, text)
			}
		}
	})
}
