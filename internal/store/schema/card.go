package schema

import (
	"time"

	"gorm.io/datatypes"
)

// Card represents the cards table - one row per unique card name
type Card struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// ExternalID is the card's identifier in the card info provider
	ExternalID int64 `gorm:"column:external_id"`
	// Name is the card's display name, globally unique
	Name              string                      `gorm:"column:name;not null;uniqueIndex:uq_cards_name;type:text"`
	Type              string                      `gorm:"column:type;not null;type:text"`
	FrameType         string                      `gorm:"column:frame_type;not null;type:text"`
	Description       string                      `gorm:"column:description;not null;type:text"`
	Race              string                      `gorm:"column:race;not null;type:text"`
	Attribute         *string                     `gorm:"column:attribute;type:text"`
	Archetype         *string                     `gorm:"column:archetype;type:text"`
	ImageURL          *string                     `gorm:"column:image_url;type:text"`
	Attack            *int                        `gorm:"column:attack"`
	Defense           *int                        `gorm:"column:defense"`
	Level             *int                        `gorm:"column:level"`
	LinkRating        *int                        `gorm:"column:link_rating"`
	LinkMarkers       datatypes.JSONSlice[string] `gorm:"column:link_markers;type:jsonb"`
	PendulumText      *string                     `gorm:"column:pendulum_text;type:text"`
	MonsterText       *string                     `gorm:"column:monster_text;type:text"`
	HumanReadableType string                      `gorm:"column:human_readable_type;not null;type:text"`
	// CardSets accumulates the set names the card was harvested from; each name appears once
	CardSets  datatypes.JSONSlice[string] `gorm:"column:card_sets;type:jsonb;not null"`
	CreatedAt time.Time                   `gorm:"column:created_at;not null;default:now()"`
	UpdatedAt time.Time                   `gorm:"column:updated_at;not null;default:now()"`
}

func (Card) TableName() string {
	return "cards"
}
