package models

import "time"

// Ingredient names are unique per owner, matching Tag semantics.
type Ingredient struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_ingredients_owner_name" json:"-"`
	Name      string    `gorm:"not null;uniqueIndex:idx_ingredients_owner_name" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
