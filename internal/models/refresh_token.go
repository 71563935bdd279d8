package models

import "time"

// RefreshToken is the persisted half of an issued refresh credential. The
// signed JWT carries the JTI; only tokens with a live row here are accepted,
// so deleting the row revokes the token.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	JTI       string    `gorm:"column:jti;uniqueIndex;not null" json:"-"`
	UserID    uint      `gorm:"not null;index" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"-"`
}
