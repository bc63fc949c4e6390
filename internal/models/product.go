package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// prices and totals are plain JSON numbers on the wire
	decimal.MarshalJSONWithoutQuotes = true
}

type Review struct {
	User    uuid.UUID `json:"user"`
	Rating  float64   `json:"rating"`
	Comment string    `json:"comment"`
}

type Product struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey"           json:"id"`
	Name        string           `gorm:"not null"                       json:"name"`
	Description string           `gorm:"not null;default:''"            json:"description"`
	Price       decimal.Decimal  `gorm:"type:numeric(12,2);not null"    json:"price"`
	Images      JSONList[string] `gorm:"type:text"                      json:"images"`
	Rating      float64          `gorm:"not null;default:0"             json:"rating"`
	Category    string           `gorm:"index;not null;default:''"      json:"category"`
	Stock       int              `gorm:"not null;default:0"             json:"stock"`
	Reviews     JSONList[Review] `gorm:"type:text"                      json:"reviews"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (Product) TableName() string {
	return "products"
}
