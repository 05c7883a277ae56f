package storage

import (
	"context"

	"gorm.io/gorm"

	"secretmsg/internal/models"
)

// MessageRepository defines the interface for secret message data operations.
type MessageRepository interface {
	ListByOwner(ctx context.Context, ownerID uint) ([]models.SecretMessage, error)
	GetByID(ctx context.Context, id uint) (*models.SecretMessage, error)
	Create(ctx context.Context, message *models.SecretMessage) error
	// UpdateBody rewrites the body in place; gorm refreshes UpdatedAt.
	UpdateBody(ctx context.Context, id uint, body string) error
	Delete(ctx context.Context, id uint) error
	DeleteAllByOwner(ctx context.Context, ownerID uint) error
}

type gormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GORM-based MessageRepository.
func NewGormMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

func (r *gormMessageRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.SecretMessage, error) {
	var messages []models.SecretMessage
	err := r.db.WithContext(ctx).Where("user_id = ?", ownerID).Order("id").Find(&messages).Error
	return messages, err
}

func (r *gormMessageRepository) GetByID(ctx context.Context, id uint) (*models.SecretMessage, error) {
	var message models.SecretMessage
	err := r.db.WithContext(ctx).First(&message, id).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *gormMessageRepository) Create(ctx context.Context, message *models.SecretMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *gormMessageRepository) UpdateBody(ctx context.Context, id uint, body string) error {
	return r.db.WithContext(ctx).
		Model(&models.SecretMessage{}).
		Where("id = ?", id).
		Update("body", body).Error
}

func (r *gormMessageRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&models.SecretMessage{}, id).Error
}

func (r *gormMessageRepository) DeleteAllByOwner(ctx context.Context, ownerID uint) error {
	return r.db.WithContext(ctx).Unscoped().
		Where("user_id = ?", ownerID).
		Delete(&models.SecretMessage{}).Error
}
