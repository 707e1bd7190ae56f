package schema

import "time"

// CollectionEntry represents the collection_entries table - a user's annotation on an edition
type CollectionEntry struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID        string    `gorm:"column:user_id;not null;type:text;uniqueIndex:uq_collection_entries_user_edition,priority:1"`
	CardEditionID int64     `gorm:"column:card_edition_id;not null;uniqueIndex:uq_collection_entries_user_edition,priority:2"`
	Count         int       `gorm:"column:count;not null;default:0"`
	Wishlist      bool      `gorm:"column:wishlist;not null;default:false"`
	CreatedAt     time.Time `gorm:"column:created_at;not null;default:now()"`
	UpdatedAt     time.Time `gorm:"column:updated_at;not null;default:now()"`
}

func (CollectionEntry) TableName() string {
	return "collection_entries"
}
