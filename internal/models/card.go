package models

// Card represents an issuer-scoped financial product. (CardName, Issuer) is
// unique: catalog loads upsert on that pair and only overwrite the mutable
// fields. A card may optionally belong to a user for the wallet view.
type Card struct {
	Base
	CardName       string  `gorm:"not null;uniqueIndex:idx_cards_name_issuer" json:"card_name"`
	Issuer         string  `gorm:"uniqueIndex:idx_cards_name_issuer" json:"issuer"`
	AnnualFee      float64 `json:"annual_fee"`
	Type           string  `json:"type"`
	BaseRewardRate float64 `json:"base_reward_rate"`
	UserID         *uint   `gorm:"index" json:"user_id,omitempty"`

	// Relationships
	Deals []Deal `gorm:"foreignKey:CardID;constraint:OnDelete:CASCADE" json:"deals,omitempty"`
}
