package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AuthProviderLocal  = "local"
	AuthProviderGoogle = "google"

	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"          json:"id"`
	Name         string    `gorm:"not null"                      json:"name"`
	Email        string    `gorm:"uniqueIndex;not null"          json:"email"`
	PasswordHash string    `gorm:"column:password"               json:"-"`
	GoogleID     string    `gorm:"index"                         json:"googleId,omitempty"`
	AuthProvider string    `gorm:"not null;default:local"        json:"authProvider"`
	Role         string    `gorm:"not null;default:user"         json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (User) TableName() string {
	return "users"
}
