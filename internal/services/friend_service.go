package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"secretmsg/internal/config"
	"secretmsg/internal/kafka"
	"secretmsg/internal/models"
	"secretmsg/internal/social"
	"secretmsg/internal/storage"
)

var (
	ErrFriendRequestSelf     = errors.New("cannot send a friend request to yourself")
	ErrFriendRequestExists   = errors.New("a pending friend request already exists between these users")
	ErrAlreadyFriends        = errors.New("these users are already friends")
	ErrReceiverNotFound      = errors.New("receiving user does not exist")
	ErrFriendRequestNotFound = errors.New("friend request does not exist")
	ErrNotRequestReceiver    = errors.New("only the receiver may resolve this request")
	ErrNotRequestParty       = errors.New("only the sender or receiver may withdraw this request")
	ErrRequestNotPending     = errors.New("friend request is not pending")
)

// FriendActivityEvent is the payload published to Kafka when a request is
// sent or accepted. Consumers turn these into notifications; delivery is
// best-effort and never fails the originating call.
type FriendActivityEvent struct {
	Action     string    `json:"action"` // "sent" or "accepted"
	SenderID   uint      `json:"senderId"`
	ReceiverID uint      `json:"receiverId"`
	Timestamp  time.Time `json:"timestamp"`
}

// FriendService drives the friend request lifecycle and produces the
// reconciled overview. Accepting mutates the row (history kept); cancel and
// reject both withdraw it (row deleted, no history).
type FriendService interface {
	Send(ctx context.Context, senderID, receiverID uint) (*models.FriendRequest, error)
	// Resolve accepts a pending request addressed to receiverID.
	Resolve(ctx context.Context, receiverID, requestID uint) error
	// Withdraw deletes a pending request; the sender withdraws a cancel, the
	// receiver withdraws a reject. Withdrawing a request that no longer
	// exists is a logged no-op.
	Withdraw(ctx context.Context, userID, requestID uint) error
	// Overview fetches profiles and requests and reconciles them. Fetch
	// failures are logged and degrade to empty inputs so the caller always
	// gets a renderable (possibly empty) overview.
	Overview(ctx context.Context, userID uint) social.Overview
}

type friendService struct {
	profileRepo storage.ProfileRepository
	requestRepo storage.FriendRequestRepository
	producer    kafka.MessageProducer
	kafkaCfg    config.KafkaConfig
}

// NewFriendService creates a new FriendService instance. producer may be nil
// when eventing is disabled.
func NewFriendService(
	profileRepo storage.ProfileRepository,
	requestRepo storage.FriendRequestRepository,
	producer kafka.MessageProducer,
	kafkaCfg config.KafkaConfig,
) FriendService {
	return &friendService{
		profileRepo: profileRepo,
		requestRepo: requestRepo,
		producer:    producer,
		kafkaCfg:    kafkaCfg,
	}
}

func (s *friendService) Send(ctx context.Context, senderID, receiverID uint) (*models.FriendRequest, error) {
	if senderID == receiverID {
		return nil, ErrFriendRequestSelf
	}

	if _, err := s.profileRepo.GetByID(ctx, receiverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReceiverNotFound
		}
		return nil, fmt.Errorf("failed to check receiving user: %w", err)
	}

	existing, err := s.requestRepo.FindActiveBetween(ctx, senderID, receiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing requests: %w", err)
	}
	if existing != nil {
		if existing.Status == models.FriendRequestStatusAccepted {
			return nil, ErrAlreadyFriends
		}
		return nil, ErrFriendRequestExists
	}

	request := &models.FriendRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     models.FriendRequestStatusPending,
	}
	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create friend request: %w", err)
	}

	s.publishActivity(ctx, "sent", senderID, receiverID)
	return request, nil
}

func (s *friendService) Resolve(ctx context.Context, receiverID, requestID uint) error {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFriendRequestNotFound
		}
		return fmt.Errorf("failed to load friend request: %w", err)
	}

	if request.ReceiverID != receiverID {
		return ErrNotRequestReceiver
	}
	if request.Status != models.FriendRequestStatusPending {
		return ErrRequestNotPending
	}

	if err := s.requestRepo.SetStatus(ctx, requestID, models.FriendRequestStatusAccepted); err != nil {
		return fmt.Errorf("failed to accept friend request: %w", err)
	}

	s.publishActivity(ctx, "accepted", request.SenderID, request.ReceiverID)
	return nil
}

func (s *friendService) Withdraw(ctx context.Context, userID, requestID uint) error {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("withdraw of missing friend request %d by user %d treated as no-op", requestID, userID)
			return nil
		}
		return fmt.Errorf("failed to load friend request: %w", err)
	}

	if !request.Involves(userID) {
		return ErrNotRequestParty
	}
	if request.Status != models.FriendRequestStatusPending {
		return ErrRequestNotPending
	}

	if err := s.requestRepo.Delete(ctx, requestID); err != nil {
		return fmt.Errorf("failed to withdraw friend request: %w", err)
	}
	return nil
}

func (s *friendService) Overview(ctx context.Context, userID uint) social.Overview {
	profiles, err := s.profileRepo.List(ctx)
	if err != nil {
		log.Printf("failed to list profiles for user %d, degrading to empty: %v", userID, err)
		profiles = nil
	}

	requests, err := s.requestRepo.ListInvolving(ctx, userID)
	if err != nil {
		log.Printf("failed to list friend requests for user %d, degrading to empty: %v", userID, err)
		requests = nil
	}

	return social.Reconcile(userID, profiles, requests)
}

// publishActivity emits a notification event. Failures are logged only: the
// event stream is not a data plane and must never fail the mutation.
func (s *friendService) publishActivity(ctx context.Context, action string, senderID, receiverID uint) {
	if s.producer == nil {
		return
	}

	event := FriendActivityEvent{
		Action:     action,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Timestamp:  time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal friend activity event: %v", err)
		return
	}

	key := []byte(fmt.Sprintf("%d-%d", senderID, receiverID))
	if err := s.producer.SendMessage(ctx, s.kafkaCfg.FriendActivityTopic, key, payload); err != nil {
		log.Printf("failed to publish friend activity event (%s %d -> %d): %v", action, senderID, receiverID, err)
	}
}
