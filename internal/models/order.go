package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

// Only OrderStatusPlaced is written by checkout.
const (
	OrderStatusPlaced    OrderStatus = "Placed"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

type Order struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"                          json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;index;not null"                      json:"userId"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null"                   json:"totalAmount"`
	Status      OrderStatus     `gorm:"type:varchar(16);not null"                     json:"status"`
	CreatedAt   time.Time       `gorm:"index"                                         json:"createdAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem copies name and price from the catalog at checkout time.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"           json:"-"`
	OrderID   uuid.UUID       `gorm:"type:uuid;index;not null"           json:"-"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"                 json:"productId"`
	Name      string          `gorm:"not null"                           json:"name"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"        json:"unitPrice"`
	Quantity  uint            `gorm:"not null;check:quantity>0"          json:"quantity"`
	LineTotal decimal.Decimal `gorm:"type:numeric(12,2);not null"        json:"lineTotal"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
