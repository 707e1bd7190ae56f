package schema

import (
	"time"

	"gorm.io/datatypes"
)

// CardEdition represents the card_editions table - one row per (card, print run)
type CardEdition struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// CardNumber is the set-specific edition code (e.g. "MRD-001"), globally unique
	CardNumber string `gorm:"column:card_number;not null;uniqueIndex:uq_card_editions_card_number;type:text"`
	// SetName is the owning set's display name
	SetName string `gorm:"column:set_name;not null;type:text"`
	// Name is the card's display name, denormalized for lookup
	Name string `gorm:"column:name;not null;type:text"`
	// Rarities is the ordered list of canonical rarity tokens
	Rarities datatypes.JSONSlice[string] `gorm:"column:rarities;type:jsonb;not null"`
	// MarketplaceURL is nil until enrichment resolves it
	MarketplaceURL *string   `gorm:"column:marketplace_url;type:text"`
	CardID         int64     `gorm:"column:card_id;not null;index"`
	CreatedAt      time.Time `gorm:"column:created_at;not null;default:now()"`
	UpdatedAt      time.Time `gorm:"column:updated_at;not null;default:now()"`

	// Associations
	Card *Card `gorm:"foreignKey:CardID;constraint:OnDelete:CASCADE"`
}

func (CardEdition) TableName() string {
	return "card_editions"
}
