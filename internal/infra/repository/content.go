package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/stashit/stashit/internal/domain"
	"github.com/stashit/stashit/internal/infra/database/models"
)

type ContentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) Create(ctx context.Context, content domain.Content) (domain.Content, error) {
	record := models.Content{
		ID:        content.ID,
		Title:     content.Title,
		Link:      content.Link,
		Type:      content.Type,
		OwnerID:   content.OwnerID,
		CreatedAt: content.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return domain.Content{}, err
	}
	return contentToDomain(record), nil
}

func (r *ContentRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Content, error) {
	var records []models.Content
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	content := make([]domain.Content, 0, len(records))
	for _, record := range records {
		content = append(content, contentToDomain(record))
	}
	return content, nil
}

// Delete is scoped to both id and owner so a delete against someone else's
// content matches zero rows.
func (r *ContentRepository) Delete(ctx context.Context, id string, ownerID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.Content{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func contentToDomain(record models.Content) domain.Content {
	tags := make([]domain.Tag, 0, len(record.Tags))
	for _, tag := range record.Tags {
		tags = append(tags, domain.Tag{ID: tag.ID, Name: tag.Name})
	}
	return domain.Content{
		ID:        record.ID,
		Title:     record.Title,
		Link:      record.Link,
		Type:      record.Type,
		Tags:      tags,
		OwnerID:   record.OwnerID,
		CreatedAt: record.CreatedAt,
	}
}
