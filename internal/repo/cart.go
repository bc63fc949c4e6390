package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/shopcart/internal/models"
)

// GetCart returns the cart lines in insertion order. exists is false when the
// user never added anything.
func (r *GormRepo) GetCart(ctx context.Context, userID uuid.UUID) (exists bool, items []models.CartItem, err error) {
	db := r.DB.WithContext(ctx)

	var carts []models.Cart
	if err := db.Where("user_id = ?", userID).Limit(1).Find(&carts).Error; err != nil {
		return false, nil, err
	}
	if len(carts) == 0 {
		return false, []models.CartItem{}, nil
	}

	items = []models.CartItem{}
	if err := db.Where("user_id = ?", userID).Order("id ASC").Find(&items).Error; err != nil {
		return false, nil, err
	}
	return true, items, nil
}

// AddItem creates the cart if needed and upserts the line, incrementing its
// quantity in a single statement.
func (r *GormRepo) AddItem(ctx context.Context, userID, productID uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Cart{UserID: userID}).Error; err != nil {
			return err
		}

		item := models.CartItem{UserID: userID, ProductID: productID, Quantity: 1}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity": gorm.Expr("cart_items.quantity + 1"),
			}),
		}).Create(&item).Error
	})
}

// IncreaseItem reports whether a line was found.
func (r *GormRepo) IncreaseItem(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		UpdateColumn("quantity", gorm.Expr("quantity + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DecreaseItem decrements a line above one and deletes a line at one. Both
// statements carry their own quantity guard, so concurrent callers never
// drive a line to zero or below.
func (r *GormRepo) DecreaseItem(ctx context.Context, userID, productID uuid.UUID) (found bool, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("user_id = ? AND product_id = ? AND quantity > 1", userID, productID).
			UpdateColumn("quantity", gorm.Expr("quantity - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			found = true
			return nil
		}

		res = tx.Where("user_id = ? AND product_id = ? AND quantity <= 1", userID, productID).
			Delete(&models.CartItem{})
		if res.Error != nil {
			return res.Error
		}
		found = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

func (r *GormRepo) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
