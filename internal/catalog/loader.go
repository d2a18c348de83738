package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"trove/internal/logger"
	"trove/internal/models"
)

// ErrSourceNotFound is returned when the JSON source path does not exist.
// CLI entry points treat it as fatal.
var ErrSourceNotFound = errors.New("catalog source not found")

// Loader upserts cards and replaces the deal set from a JSON source. The
// record shape is delegated to the injected RecordMapper, so structured
// catalogs and flat merchant feeds share one load path.
type Loader struct {
	db     *gorm.DB
	mapper RecordMapper
}

// NewLoader creates a Loader bound to a database and a mapping strategy.
func NewLoader(db *gorm.DB, mapper RecordMapper) *Loader {
	return &Loader{db: db, mapper: mapper}
}

// Load reads the document at path, upserts each card by (card_name, issuer)
// and replaces the store's entire deal set with the freshly parsed deals.
// The whole replacement runs in one transaction so readers never observe a
// half-loaded catalog.
func (l *Loader) Load(path string) error {
	doc, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	records, err := l.mapper.MapDocument(doc)
	if err != nil {
		return err
	}

	err = l.db.Transaction(func(tx *gorm.DB) error {
		// Clear existing deals. The deal set has no identity across loads.
		if err := tx.Exec("DELETE FROM deals").Error; err != nil {
			return fmt.Errorf("clear deals: %w", err)
		}

		for _, rec := range records {
			cardID, err := upsertCard(tx, rec.Card, rec.OverwriteCard)
			if err != nil {
				return err
			}
			for i := range rec.Deals {
				rec.Deals[i].CardID = cardID
			}
			if len(rec.Deals) > 0 {
				if err := tx.Create(&rec.Deals).Error; err != nil {
					return fmt.Errorf("insert deals for %s: %w", rec.Card.CardName, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Get().Infow("catalog loaded", "source", path, "cards", len(records))
	return nil
}

// upsertCard inserts the card or, on a (card_name, issuer) conflict, either
// overwrites only the mutable fields or leaves the row untouched, then reads
// back the row id.
func upsertCard(tx *gorm.DB, card models.Card, overwrite bool) (uint, error) {
	conflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "card_name"}, {Name: "issuer"}},
		DoNothing: true,
	}
	if overwrite {
		conflict.DoNothing = false
		conflict.DoUpdates = clause.AssignmentColumns([]string{
			"annual_fee", "type", "base_reward_rate", "updated_at",
		})
	}

	if err := tx.Clauses(conflict).Create(&card).Error; err != nil {
		return 0, fmt.Errorf("upsert card %s/%s: %w", card.Issuer, card.CardName, err)
	}

	var saved models.Card
	err := tx.Where("card_name = ? AND issuer = ?", card.CardName, card.Issuer).First(&saved).Error
	if err != nil {
		return 0, fmt.Errorf("read back card %s/%s: %w", card.Issuer, card.CardName, err)
	}
	return saved.ID, nil
}
