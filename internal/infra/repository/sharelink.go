package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/stashit/stashit/internal/domain"
	"github.com/stashit/stashit/internal/infra/database/models"
)

type ShareLinkRepository struct {
	db *gorm.DB
}

func NewShareLinkRepository(db *gorm.DB) *ShareLinkRepository {
	return &ShareLinkRepository{db: db}
}

func (r *ShareLinkRepository) Create(ctx context.Context, link domain.ShareLink) error {
	record := models.ShareLink{
		ID:      link.ID,
		Hash:    link.Hash,
		OwnerID: link.OwnerID,
	}
	return r.db.WithContext(ctx).Create(&record).Error
}

func (r *ShareLinkRepository) GetByOwner(ctx context.Context, ownerID string) (domain.ShareLink, error) {
	var record models.ShareLink
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ShareLink{}, domain.NotFoundError{Resource: "share link"}
		}
		return domain.ShareLink{}, err
	}
	return shareLinkToDomain(record), nil
}

func (r *ShareLinkRepository) GetByHash(ctx context.Context, hash string) (domain.ShareLink, error) {
	var record models.ShareLink
	err := r.db.WithContext(ctx).Where("hash = ?", hash).Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ShareLink{}, domain.NotFoundError{Resource: "share link"}
		}
		return domain.ShareLink{}, err
	}
	return shareLinkToDomain(record), nil
}

func (r *ShareLinkRepository) DeleteByOwner(ctx context.Context, ownerID string) error {
	return r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&models.ShareLink{}).Error
}

func shareLinkToDomain(record models.ShareLink) domain.ShareLink {
	return domain.ShareLink{
		ID:      record.ID,
		Hash:    record.Hash,
		OwnerID: record.OwnerID,
	}
}
