package catalog

import (
	"testing"

	"trove/internal/models"
)

func TestParseDealsWelcomeBonus(t *testing.T) {
	t.Run("points_win_over_cash", func(t *testing.T) {
		card := CardRecord{
			CardName: "Sapphire Preferred",
			Issuer:   "Chase",
			WelcomeBonus: &WelcomeBonus{
				Points:          60000,
				CashBack:        750,
				PointsOrCash:    900,
				OfferExpiryDate: "2026-09-30",
			},
		}

		deals := ParseDeals(card, 7)
		if len(deals) != 1 {
			t.Fatalf("expected 1 deal, got %d", len(deals))
		}

		d := deals[0]
		if d.DealType != models.DealTypeWelcome {
			t.Errorf("expected welcome deal, got %s", d.DealType)
		}
		if d.Title != "Welcome Offer" {
			t.Errorf("expected title Welcome Offer, got %q", d.Title)
		}
		if d.Benefit != "60000 points" {
			t.Errorf("expected points benefit to win, got %q", d.Benefit)
		}
		if d.ExpiryDate != "2026-09-30" {
			t.Errorf("expected expiry 2026-09-30, got %q", d.ExpiryDate)
		}
		if d.CardID != 7 {
			t.Errorf("expected card ID 7, got %d", d.CardID)
		}
	})

	t.Run("cash_back_wins_over_points_or_cash", func(t *testing.T) {
		card := CardRecord{
			CardName:     "Freedom Unlimited",
			Issuer:       "Chase",
			WelcomeBonus: &WelcomeBonus{CashBack: 200, PointsOrCash: 250},
		}

		deals := ParseDeals(card, 1)
		if deals[0].Benefit != "$200 cash back" {
			t.Errorf("expected cash back benefit, got %q", deals[0].Benefit)
		}
	})

	t.Run("points_or_cash_last_resort", func(t *testing.T) {
		card := CardRecord{
			CardName:     "Venture X",
			Issuer:       "Capital One",
			WelcomeBonus: &WelcomeBonus{PointsOrCash: 750},
		}

		deals := ParseDeals(card, 1)
		if deals[0].Benefit != "$750 value" {
			t.Errorf("expected value benefit, got %q", deals[0].Benefit)
		}
	})

	t.Run("zero_points_treated_as_absent", func(t *testing.T) {
		card := CardRecord{
			CardName:     "Cash Card",
			Issuer:       "Test Bank",
			WelcomeBonus: &WelcomeBonus{Points: 0, CashBack: 150},
		}

		deals := ParseDeals(card, 1)
		if deals[0].Benefit != "$150 cash back" {
			t.Errorf("expected zero points to fall through to cash back, got %q", deals[0].Benefit)
		}
	})

	t.Run("subtitle_spend_and_months", func(t *testing.T) {
		card := CardRecord{
			CardName:     "Gold Card",
			Issuer:       "Amex",
			WelcomeBonus: &WelcomeBonus{Points: 60000, SpendRequirement: 4000, TimeFrameMonths: 6},
		}

		deals := ParseDeals(card, 1)
		if deals[0].Subtitle != "After $4000 in 6 mo" {
			t.Errorf("expected combined subtitle, got %q", deals[0].Subtitle)
		}
	})

	t.Run("subtitle_spend_only", func(t *testing.T) {
		card := CardRecord{
			CardName:     "Gold Card",
			Issuer:       "Amex",
			WelcomeBonus: &WelcomeBonus{Points: 60000, SpendRequirement: 4000},
		}

		deals := ParseDeals(card, 1)
		if deals[0].Subtitle != "After $4000 spend" {
			t.Errorf("expected spend-only subtitle, got %q", deals[0].Subtitle)
		}
	})

	t.Run("subtitle_months_only", func(t *testing.T) {
		card := CardRecord{
			CardName:     "Gold Card",
			Issuer:       "Amex",
			WelcomeBonus: &WelcomeBonus{Points: 60000, TimeFrameMonths: 3},
		}

		deals := ParseDeals(card, 1)
		if deals[0].Subtitle != "In 3 months" {
			t.Errorf("expected months-only subtitle, got %q", deals[0].Subtitle)
		}
	})

	t.Run("no_welcome_bonus", func(t *testing.T) {
		card := CardRecord{CardName: "Plain Card", Issuer: "Test Bank"}
		if deals := ParseDeals(card, 1); len(deals) != 0 {
			t.Errorf("expected no deals, got %d", len(deals))
		}
	})
}

func TestParseDealsPerks(t *testing.T) {
	card := CardRecord{
		CardName: "Sapphire Reserve",
		Issuer:   "Chase",
		Perks: []Perk{
			{PerkName: "Airport Lounge Access", Description: "Priority Pass Select membership", Frequency: "ongoing"},
			{PerkName: "Travel Credit", Frequency: "annual"},
		},
	}

	deals := ParseDeals(card, 3)
	if len(deals) != 2 {
		t.Fatalf("expected 2 deals, got %d", len(deals))
	}

	first := deals[0]
	if first.DealType != models.DealTypePerk {
		t.Errorf("expected perk deal, got %s", first.DealType)
	}
	if first.Title != "Airport Lounge Access" {
		t.Errorf("expected perk name as title, got %q", first.Title)
	}
	if first.Subtitle != "ongoing" {
		t.Errorf("expected frequency as subtitle, got %q", first.Subtitle)
	}
	if first.FinerDetails != "Priority Pass Select membership" {
		t.Errorf("expected description in finer details, got %q", first.FinerDetails)
	}
	if first.Issuer != "Chase" || first.CardName != "Sapphire Reserve" {
		t.Error("expected issuer and card name denormalized onto the deal")
	}
}

func TestParseDealsBonusCategories(t *testing.T) {
	t.Run("rate_cap_and_note", func(t *testing.T) {
		card := CardRecord{
			CardName: "Freedom Flex",
			Issuer:   "Chase",
			BonusCategories: []BonusCategory{
				{CategoryName: "Dining", RewardRate: 3, Cap: 1500, Note: "Activation required"},
			},
		}

		deals := ParseDeals(card, 1)
		if deals[0].Title != "Dining · 3x" {
			t.Errorf("expected rate appended to title, got %q", deals[0].Title)
		}
		if deals[0].Subtitle != "Cap $1500 · Activation required" {
			t.Errorf("expected cap and note joined, got %q", deals[0].Subtitle)
		}
	})

	t.Run("note_without_cap", func(t *testing.T) {
		card := CardRecord{
			CardName:        "Freedom Flex",
			Issuer:          "Chase",
			BonusCategories: []BonusCategory{{CategoryName: "Gas", Note: "Rotating"}},
		}

		deals := ParseDeals(card, 1)
		if deals[0].Title != "Gas" {
			t.Errorf("expected plain title without rate, got %q", deals[0].Title)
		}
		if deals[0].Subtitle != "Rotating" {
			t.Errorf("expected bare note subtitle, got %q", deals[0].Subtitle)
		}
	})

	t.Run("fractional_rate", func(t *testing.T) {
		card := CardRecord{
			CardName:        "Custom Cash",
			Issuer:          "Citi",
			BonusCategories: []BonusCategory{{CategoryName: "Groceries", RewardRate: 1.5}},
		}

		deals := ParseDeals(card, 1)
		if deals[0].Title != "Groceries · 1.5x" {
			t.Errorf("expected fractional rate rendered as-is, got %q", deals[0].Title)
		}
	})
}

func TestParseDealsOrdering(t *testing.T) {
	card := CardRecord{
		CardName:        "Everything Card",
		Issuer:          "Test Bank",
		WelcomeBonus:    &WelcomeBonus{Points: 10000},
		Perks:           []Perk{{PerkName: "Perk A"}},
		BonusCategories: []BonusCategory{{CategoryName: "Cat A"}},
	}

	deals := ParseDeals(card, 1)
	if len(deals) != 3 {
		t.Fatalf("expected 3 deals, got %d", len(deals))
	}

	want := []models.DealType{models.DealTypeWelcome, models.DealTypePerk, models.DealTypeCategory}
	for i, dt := range want {
		if deals[i].DealType != dt {
			t.Errorf("position %d: expected %s, got %s", i, dt, deals[i].DealType)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{60000, "60000"},
		{1.5, "1.5"},
		{0.25, "0.25"},
		{3, "3"},
	}
	for _, c := range cases {
		if got := formatNumber(c.in); got != c.want {
			t.Errorf("formatNumber(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
