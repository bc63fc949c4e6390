package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shopcart/internal/models"
)

// PlaceOrder writes the order with its items and removes the snapshotted cart
// lines in one transaction. Each delete is guarded by the quantity seen in the
// snapshot; a mismatch rolls everything back with ErrCartChanged.
func (r *GormRepo) PlaceOrder(ctx context.Context, order *models.Order, snapshot []models.CartItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for _, it := range snapshot {
			res := tx.Where("id = ? AND user_id = ? AND quantity = ?", it.ID, order.UserID, it.Quantity).
				Delete(&models.CartItem{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected != 1 {
				return ErrCartChanged
			}
		}

		return tx.Model(&models.Cart{}).
			Where("user_id = ?", order.UserID).
			Update("updated_at", order.CreatedAt).Error
	})
}

func (r *GormRepo) ListOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id ASC") }).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
