package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shopcart/internal/models"
)

var ErrUserAlreadyExist = errors.New("user already exist")

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("google_id = ?", googleID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUserIfNotExists relies on the unique email index for concurrent
// signups; the count only gives the common case a clean error.
func (r *GormRepo) CreateUserIfNotExists(ctx context.Context, u *models.User) error {
	db := r.DB.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUserAlreadyExist
	}

	if err := db.Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserAlreadyExist
		}
		return err
	}
	return nil
}

func (r *GormRepo) LinkGoogleAccount(ctx context.Context, userID uuid.UUID, googleID string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("google_id", googleID).Error
}
