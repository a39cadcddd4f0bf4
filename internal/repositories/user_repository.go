package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"kayipbul/internal/models/db_models"
)

type UserRepositoryInterface interface {
	Create(ctx context.Context, user *db_models.User) error
	GetByEmail(ctx context.Context, email string) (*db_models.User, error)
}

func NewUserRepository(db *gorm.DB) UserRepositoryInterface {
	return &UserRepository{db: db}
}

type UserRepository struct {
	db *gorm.DB
}

func (u *UserRepository) Create(ctx context.Context, user *db_models.User) error {
	return u.db.WithContext(ctx).Create(user).Error
}

func (u *UserRepository) GetByEmail(ctx context.Context, email string) (*db_models.User, error) {
	var user db_models.User
	err := u.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
