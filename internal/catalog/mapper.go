package catalog

import (
	"encoding/json"
	"fmt"

	"trove/internal/models"
)

// Record pairs an upsertable card with the deals parsed from its source
// record. Deal CardID values are filled in by the loader after the upsert
// resolves the card's identity. OverwriteCard marks the source as
// authoritative for the card's mutable fields; merchant feeds only anchor
// deals to a card and must not clobber its metadata.
type Record struct {
	Card          models.Card
	Deals         []models.Deal
	OverwriteCard bool
}

// RecordMapper decodes an external JSON document into catalog records. The
// two feed shapes (structured card catalogs and flat single-issuer merchant
// deals) share one loader and differ only in this mapping.
type RecordMapper interface {
	MapDocument(doc []byte) ([]Record, error)
}

// CatalogMapper maps the structured card-catalog shape: a single card
// record or an array of them, each with optional welcome_bonus, perks and
// bonus_categories sub-records.
type CatalogMapper struct{}

// MapDocument implements RecordMapper.
func (CatalogMapper) MapDocument(doc []byte) ([]Record, error) {
	var cards []CardRecord
	if err := json.Unmarshal(doc, &cards); err != nil {
		var single CardRecord
		if err := json.Unmarshal(doc, &single); err != nil {
			return nil, fmt.Errorf("decode card catalog: %w", err)
		}
		cards = []CardRecord{single}
	}

	records := make([]Record, 0, len(cards))
	for _, c := range cards {
		records = append(records, Record{
			Card: models.Card{
				CardName:       c.CardName,
				Issuer:         c.Issuer,
				AnnualFee:      c.AnnualFee,
				Type:           c.Type,
				BaseRewardRate: c.BaseRewardRate,
			},
			Deals:         ParseDeals(c, 0),
			OverwriteCard: true,
		})
	}
	return records, nil
}

// MerchantDeal is one entry of the flat merchant-centric deal feed.
type MerchantDeal struct {
	DealType   string  `json:"deal_type"`
	Merchant   string  `json:"merchant"`
	Offer      string  `json:"offer"`
	ExpiryDate string  `json:"expiry_date"`
	RewardRate float64 `json:"reward_rate"`
}

// MerchantDealMapper maps a merchant-deal feed where every entry belongs to
// one fixed card, identified by name and issuer.
type MerchantDealMapper struct {
	CardName string
	Issuer   string
}

// MapDocument implements RecordMapper.
func (m MerchantDealMapper) MapDocument(doc []byte) ([]Record, error) {
	var feed []MerchantDeal
	if err := json.Unmarshal(doc, &feed); err != nil {
		return nil, fmt.Errorf("decode merchant deals: %w", err)
	}

	deals := make([]models.Deal, 0, len(feed))
	for _, d := range feed {
		finer := ""
		if d.RewardRate != 0 {
			finer = fmt.Sprintf("%s%% back", formatNumber(d.RewardRate))
		}
		deals = append(deals, models.Deal{
			DealType:     models.DealType(d.DealType),
			Title:        d.Merchant,
			Benefit:      d.Offer,
			ExpiryDate:   d.ExpiryDate,
			FinerDetails: finer,
			Issuer:       m.Issuer,
			CardName:     m.CardName,
		})
	}

	return []Record{{
		Card:  models.Card{CardName: m.CardName, Issuer: m.Issuer},
		Deals: deals,
	}}, nil
}
