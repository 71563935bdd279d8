// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account in the recipe service. Email is stored in
// normalized form (domain lower-cased, local part as given).
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Email       string         `gorm:"unique;not null" json:"email"`
	Password    string         `gorm:"not null" json:"-"`
	Name        string         `json:"name"`
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`
	IsStaff     bool           `gorm:"not null;default:false" json:"is_staff"`
	IsSuperuser bool           `gorm:"not null;default:false" json:"is_superuser"`
	LastLogin   *time.Time     `json:"last_login,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
