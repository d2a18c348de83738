// Package catalog normalizes raw card-benefit data into flat deal records
// and loads card/deal catalogs into the store.
package catalog

import (
	"fmt"
	"strconv"

	"trove/internal/models"
)

// WelcomeBonus is the optional welcome-offer sub-record of a card.
type WelcomeBonus struct {
	Points           float64 `json:"points"`
	CashBack         float64 `json:"cash_back"`
	PointsOrCash     float64 `json:"points_or_cash"`
	SpendRequirement float64 `json:"spend_requirement"`
	TimeFrameMonths  float64 `json:"time_frame_months"`
	OfferExpiryDate  string  `json:"offer_expiry_date"`
}

// Perk is one recurring card benefit.
type Perk struct {
	PerkName    string `json:"perk_name"`
	Description string `json:"description"`
	Frequency   string `json:"frequency"`
}

// BonusCategory is one elevated-earn spending category.
type BonusCategory struct {
	CategoryName string  `json:"category_name"`
	RewardRate   float64 `json:"reward_rate"`
	Cap          float64 `json:"cap"`
	Note         string  `json:"note"`
}

// CardRecord is the structured catalog shape for a single card. Every field
// besides card_name/issuer is optional; absent fields are zero values and
// never an error.
type CardRecord struct {
	CardName        string          `json:"card_name"`
	Issuer          string          `json:"issuer"`
	AnnualFee       float64         `json:"annual_fee"`
	Type            string          `json:"type"`
	BaseRewardRate  float64         `json:"base_reward_rate"`
	WelcomeBonus    *WelcomeBonus   `json:"welcome_bonus"`
	Perks           []Perk          `json:"perks"`
	BonusCategories []BonusCategory `json:"bonus_categories"`
}

// ParseDeals flattens one card record into its ordered deal sequence:
// welcome offer first, then perks, then bonus categories. Each deal carries
// the card's denormalized issuer and name for joinless display.
func ParseDeals(card CardRecord, cardID uint) []models.Deal {
	var deals []models.Deal

	if wb := card.WelcomeBonus; wb != nil {
		benefit := ""
		switch {
		case wb.Points != 0:
			benefit = fmt.Sprintf("%s points", formatNumber(wb.Points))
		case wb.CashBack != 0:
			benefit = fmt.Sprintf("$%s cash back", formatNumber(wb.CashBack))
		case wb.PointsOrCash != 0:
			benefit = fmt.Sprintf("$%s value", formatNumber(wb.PointsOrCash))
		}

		subtitle := ""
		switch {
		case wb.SpendRequirement != 0 && wb.TimeFrameMonths != 0:
			subtitle = fmt.Sprintf("After $%s in %s mo", formatNumber(wb.SpendRequirement), formatNumber(wb.TimeFrameMonths))
		case wb.SpendRequirement != 0:
			subtitle = fmt.Sprintf("After $%s spend", formatNumber(wb.SpendRequirement))
		case wb.TimeFrameMonths != 0:
			subtitle = fmt.Sprintf("In %s months", formatNumber(wb.TimeFrameMonths))
		}

		deals = append(deals, models.Deal{
			CardID:     cardID,
			DealType:   models.DealTypeWelcome,
			Title:      "Welcome Offer",
			Subtitle:   subtitle,
			Benefit:    benefit,
			ExpiryDate: wb.OfferExpiryDate,
			Issuer:     card.Issuer,
			CardName:   card.CardName,
		})
	}

	for _, p := range card.Perks {
		deals = append(deals, models.Deal{
			CardID:       cardID,
			DealType:     models.DealTypePerk,
			Title:        p.PerkName,
			Subtitle:     p.Frequency,
			FinerDetails: p.Description,
			Issuer:       card.Issuer,
			CardName:     card.CardName,
		})
	}

	for _, bc := range card.BonusCategories {
		title := bc.CategoryName
		if bc.RewardRate != 0 {
			title += fmt.Sprintf(" · %sx", formatNumber(bc.RewardRate))
		}
		subtitle := ""
		if bc.Cap != 0 {
			subtitle = fmt.Sprintf("Cap $%s", formatNumber(bc.Cap))
		}
		if bc.Note != "" {
			if subtitle != "" {
				subtitle += " · " + bc.Note
			} else {
				subtitle = bc.Note
			}
		}
		deals = append(deals, models.Deal{
			CardID:   cardID,
			DealType: models.DealTypeCategory,
			Title:    title,
			Subtitle: subtitle,
			Issuer:   card.Issuer,
			CardName: card.CardName,
		})
	}

	return deals
}

// formatNumber renders a JSON number the shortest way: integral values
// without a decimal point, fractional values as-is.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
