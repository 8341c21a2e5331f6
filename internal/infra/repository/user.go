package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/stashit/stashit/internal/domain"
	"github.com/stashit/stashit/internal/infra/database/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	record := models.User{
		ID:       user.ID,
		Username: user.Username,
		Password: user.Password,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return domain.User{}, err
	}
	return userToDomain(record), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	var record models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.NotFoundError{Resource: "user"}
		}
		return domain.User{}, err
	}
	return userToDomain(record), nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	var record models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.NotFoundError{Resource: "user"}
		}
		return domain.User{}, err
	}
	return userToDomain(record), nil
}

func userToDomain(record models.User) domain.User {
	return domain.User{
		ID:       record.ID,
		Username: record.Username,
		Password: record.Password,
	}
}
