package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart marks that a user has a cart; its lines live in cart_items.
type Cart struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Cart) TableName() string {
	return "carts"
}

// CartItem IDs are sequential so ordering by ID gives insertion order.
type CartItem struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                            json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product" json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product" json:"productId"`
	Quantity  uint      `gorm:"not null;default:1;check:quantity>0"                  json:"quantity"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
