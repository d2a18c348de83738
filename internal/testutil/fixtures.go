package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"trove/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCard creates a catalog card (no owner) with a unique name.
func CreateTestCard(t *testing.T, db *gorm.DB, issuer string) *models.Card {
	t.Helper()

	card := &models.Card{
		CardName:       fmt.Sprintf("Test Card %d", nextID()),
		Issuer:         issuer,
		AnnualFee:      95,
		Type:           "Cashback",
		BaseRewardRate: 1.5,
	}
	if err := db.Create(card).Error; err != nil {
		t.Fatalf("failed to create test card: %v", err)
	}
	return card
}

// CreateTestWalletCard creates a card owned by the given user.
func CreateTestWalletCard(t *testing.T, db *gorm.DB, userID uint, annualFee float64) *models.Card {
	t.Helper()

	card := &models.Card{
		CardName:       fmt.Sprintf("Wallet Card %d", nextID()),
		Issuer:         "Test Bank",
		AnnualFee:      annualFee,
		Type:           "Cashback",
		BaseRewardRate: 2,
		UserID:         &userID,
	}
	if err := db.Create(card).Error; err != nil {
		t.Fatalf("failed to create test wallet card: %v", err)
	}
	return card
}

// CreateTestDeal creates a deal attached to the given card.
func CreateTestDeal(t *testing.T, db *gorm.DB, card *models.Card, dealType models.DealType, expiry string) *models.Deal {
	t.Helper()

	deal := &models.Deal{
		CardID:     card.ID,
		DealType:   dealType,
		Title:      fmt.Sprintf("Test Deal %d", nextID()),
		Benefit:    "5% cash back",
		ExpiryDate: expiry,
		Issuer:     card.Issuer,
		CardName:   card.CardName,
	}
	if err := db.Create(deal).Error; err != nil {
		t.Fatalf("failed to create test deal: %v", err)
	}
	return deal
}

// CreateTestTransaction creates a transaction with the given date, amount,
// and category labels.
func CreateTestTransaction(t *testing.T, db *gorm.DB, date string, amount float64, categories ...string) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		TransactionID: fmt.Sprintf("test-tx-%d", nextID()),
		MerchantName:  fmt.Sprintf("Test Merchant %d", nextID()),
		Date:          date,
		Amount:        amount,
	}
	for _, c := range categories {
		tx.Categories = append(tx.Categories, models.TransactionCategory{Category: c})
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestGoal creates a goal covering the 30 days around today.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID uint, category string, limit, currentSpend float64) *models.Goal {
	t.Helper()

	now := time.Now()
	goal := &models.Goal{
		UserID:       userID,
		Category:     category,
		LimitAmount:  limit,
		CurrentSpend: currentSpend,
		PeriodStart:  now.AddDate(0, 0, -15).Format("2006-01-02"),
		PeriodEnd:    now.AddDate(0, 0, 15).Format("2006-01-02"),
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// CreateTestSubscription creates a monthly subscription for the user.
func CreateTestSubscription(t *testing.T, db *gorm.DB, userID uint, merchant string, amount float64) *models.Subscription {
	t.Helper()

	sub := &models.Subscription{
		UserID:          userID,
		Merchant:        merchant,
		Amount:          amount,
		BillingCycle:    models.BillingCycleMonthly,
		NextPaymentDate: time.Now().AddDate(0, 0, 14).Format("2006-01-02"),
	}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("failed to create test subscription: %v", err)
	}
	return sub
}
