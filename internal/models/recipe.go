package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe is owned by exactly one user. Tags and ingredients are attached
// through plain join tables; the association rows have no identity of their
// own beyond the pair.
type Recipe struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"not null;index" json:"-"`
	Title         string          `gorm:"not null" json:"title"`
	TimeMinutes   int             `gorm:"not null" json:"time_minutes"`
	Price         decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"price"`
	Description   string          `gorm:"type:text" json:"description"`
	Link          string          `json:"link"`
	ImagePath     string          `json:"image"`
	ThumbnailPath string          `json:"thumbnail,omitempty"`
	Tags          []Tag           `gorm:"many2many:recipe_tags" json:"tags"`
	Ingredients   []Ingredient    `gorm:"many2many:recipe_ingredients" json:"ingredients"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
