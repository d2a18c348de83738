package models

// DealType classifies where a deal came from in the card's raw benefit data.
type DealType string

const (
	DealTypeWelcome  DealType = "welcome"
	DealTypePerk     DealType = "perk"
	DealTypeCategory DealType = "category"
)

// Deal is a normalized promotional record derived from a card's benefit
// data. The whole deal set is deleted and regenerated on each catalog load;
// no deal identity survives across loads. Issuer and CardName are
// denormalized copies so display never needs a join.
type Deal struct {
	Base
	CardID       uint     `gorm:"not null;index" json:"card_id"`
	DealType     DealType `gorm:"not null" json:"deal_type"`
	Title        string   `gorm:"not null" json:"title"`
	Subtitle     string   `json:"subtitle"`
	Benefit      string   `json:"benefit"`
	ExpiryDate   string   `json:"expiry_date"`
	FinerDetails string   `json:"finer_details"`
	Issuer       string   `json:"issuer"`
	CardName     string   `json:"card_name"`
}
