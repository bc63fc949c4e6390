package repo

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/shopcart/internal/models"
)

// ErrCartChanged is returned by PlaceOrder when a snapshotted cart line was
// modified or removed before the order could be committed.
var ErrCartChanged = errors.New("cart changed during checkout")

type GormRepo struct {
	DB *gorm.DB
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	)
}
