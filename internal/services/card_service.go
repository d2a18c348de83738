package services

import (
	"context"
	"errors"
	"regexp"

	"gorm.io/gorm"

	apperrors "trove/internal/errors"
	"trove/internal/logger"
	"trove/internal/models"
	"trove/internal/pagination"
	"trove/internal/verify"
)

var panPattern = regexp.MustCompile(`^\d{13,19}$`)

// CardService manages the user's wallet. New cards pass through the injected
// Verifier before they are persisted.
type CardService struct {
	db       *gorm.DB
	verifier verify.Verifier
}

func NewCardService(db *gorm.DB, verifier verify.Verifier) *CardService {
	return &CardService{db: db, verifier: verifier}
}

// AddCard validates the PAN against the card network and stores the card on
// success. The PAN itself is never persisted.
func (s *CardService) AddCard(ctx context.Context, userID uint, cardName, issuer string, annualFee float64, cardType string, baseRewardRate float64, pan string) (*models.Card, error) {
	if !panPattern.MatchString(pan) {
		return nil, apperrors.ErrInvalidPAN
	}

	if s.verifier == nil {
		return nil, apperrors.ErrVerifierUnconfigured
	}

	ok, message := s.verifier.VerifyPAN(ctx, pan)
	if !ok {
		logger.Get().Infow("Card verification rejected", "user_id", userID, "reason", message)
		return nil, apperrors.WithMessage(apperrors.ErrCardUnverified, message)
	}

	card := &models.Card{
		CardName:       cardName,
		Issuer:         issuer,
		AnnualFee:      annualFee,
		Type:           cardType,
		BaseRewardRate: baseRewardRate,
		UserID:         &userID,
	}

	if err := s.db.Create(card).Error; err != nil {
		logger.Get().Errorw("Failed to create card", "user_id", userID, "error", err)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return card, nil
}

// GetCards returns a page of the catalog ordered by issuer then name.
func (s *CardService) GetCards(page pagination.PageRequest) (*pagination.PageResponse[models.Card], error) {
	page.Defaults()

	var total int64
	if err := s.db.Model(&models.Card{}).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var cards []models.Card
	err := s.db.Model(&models.Card{}).
		Order("issuer ASC, card_name ASC").
		Scopes(pagination.Paginate(page)).
		Find(&cards).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(cards, page.Page, page.PageSize, total)
	return &resp, nil
}

// GetCardByID fetches one card with its deals preloaded, soonest expiry first.
func (s *CardService) GetCardByID(cardID uint) (*models.Card, error) {
	var card models.Card

	err := s.db.Preload("Deals", func(db *gorm.DB) *gorm.DB {
		return db.Order("expiry_date ASC")
	}).First(&card, cardID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCardNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &card, nil
}

// DeleteCard removes a card from the user's wallet along with its deals.
// Catalog cards belonging to no user cannot be deleted through this path.
func (s *CardService) DeleteCard(userID, cardID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var card models.Card
		if err := tx.Where("id = ? AND user_id = ?", cardID, userID).First(&card).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrCardNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		// Explicit cleanup keeps sqlite correct even without the
		// foreign_keys pragma.
		if err := tx.Where("card_id = ?", card.ID).Delete(&models.Deal{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Delete(&card).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return nil
	})
}

// WalletSummary returns the user's cards and their combined annual fee.
func (s *CardService) WalletSummary(userID uint) (*WalletSummary, error) {
	var cards []models.Card

	err := s.db.Where("user_id = ?", userID).Order("card_name ASC").Find(&cards).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &WalletSummary{Cards: cards}
	for _, c := range cards {
		summary.TotalAnnualFee += c.AnnualFee
	}

	return summary, nil
}

// GetDeals lists deals across the catalog, soonest expiry first. The filter
// narrows by issuer and by merchant titles; merchant-feed deals carry the
// merchant name in the title column.
func (s *CardService) GetDeals(filter DealFilter) ([]models.Deal, error) {
	var deals []models.Deal

	query := s.db.Model(&models.Deal{}).Order("expiry_date ASC, card_name ASC")
	if filter.Issuer != "" {
		query = query.Where("issuer = ?", filter.Issuer)
	}
	if len(filter.Merchants) > 0 {
		query = query.Where("title IN ?", filter.Merchants)
	}

	if err := query.Find(&deals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return deals, nil
}
