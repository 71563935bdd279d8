package models

import "time"

// Tag names are unique per owner, not globally; two users may both have a
// "Dinner" tag.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_tags_owner_name" json:"-"`
	Name      string    `gorm:"not null;uniqueIndex:idx_tags_owner_name" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
