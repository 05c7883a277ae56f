package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"secretmsg/internal/models"
)

// FriendRequestRepository defines the interface for friend request data
// operations. Rejection and cancellation delete the row; acceptance mutates
// the status in place.
type FriendRequestRepository interface {
	Create(ctx context.Context, request *models.FriendRequest) error
	GetByID(ctx context.Context, requestID uint) (*models.FriendRequest, error)
	// ListInvolving returns every request where userID is sender or receiver,
	// regardless of status.
	ListInvolving(ctx context.Context, userID uint) ([]models.FriendRequest, error)
	// FindActiveBetween returns a pending or accepted request between the two
	// users in either direction, or nil if none exists.
	FindActiveBetween(ctx context.Context, userID1, userID2 uint) (*models.FriendRequest, error)
	SetStatus(ctx context.Context, requestID uint, status models.FriendRequestStatus) error
	Delete(ctx context.Context, requestID uint) error
	DeleteAllInvolving(ctx context.Context, userID uint) error
}

type gormFriendRequestRepository struct {
	db *gorm.DB
}

// NewGormFriendRequestRepository creates a new GORM-based FriendRequestRepository.
func NewGormFriendRequestRepository(db *gorm.DB) FriendRequestRepository {
	return &gormFriendRequestRepository{db: db}
}

func (r *gormFriendRequestRepository) Create(ctx context.Context, request *models.FriendRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *gormFriendRequestRepository) GetByID(ctx context.Context, requestID uint) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := r.db.WithContext(ctx).First(&request, requestID).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *gormFriendRequestRepository) ListInvolving(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("id").
		Find(&requests).Error
	return requests, err
}

func (r *gormFriendRequestRepository) FindActiveBetween(ctx context.Context, userID1, userID2 uint) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", userID1, userID2, userID2, userID1).
		Where("status IN ?", []models.FriendRequestStatus{models.FriendRequestStatusPending, models.FriendRequestStatusAccepted}).
		First(&request).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // No active request is not an error in this context
		}
		return nil, err
	}
	return &request, nil
}

func (r *gormFriendRequestRepository) SetStatus(ctx context.Context, requestID uint, status models.FriendRequestStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.FriendRequest{}).
		Where("id = ?", requestID).
		Update("status", status).Error
}

func (r *gormFriendRequestRepository) Delete(ctx context.Context, requestID uint) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&models.FriendRequest{}, requestID).Error
}

func (r *gormFriendRequestRepository) DeleteAllInvolving(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Unscoped().
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Delete(&models.FriendRequest{}).Error
}
