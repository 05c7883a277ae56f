package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"secretmsg/internal/models"
	"secretmsg/internal/storage"
)

var (
	ErrForbiddenView      = errors.New("only friends may view these messages")
	ErrNotMessageOwner    = errors.New("message belongs to another user")
	ErrEditTargetNotFound = errors.New("message being edited no longer exists")
)

// MessageService drives the secret message lifecycle. Save uses the editor's
// slot to decide between insert and in-place update; View gates a friend's
// messages on the derived friendship.
type MessageService interface {
	ListOwn(ctx context.Context, userID uint) ([]models.SecretMessage, error)
	// View returns ownerID's messages read-only. Permitted only when ownerID
	// is the viewer or a derived friend; otherwise ErrForbiddenView and no
	// bodies are returned.
	View(ctx context.Context, viewerID, ownerID uint) ([]models.SecretMessage, error)
	// Save inserts a new message owned by userID, or, when the edit slot is
	// set, rewrites that message's body in place. Empty bodies are allowed by
	// policy, matching the observed behavior. Returns the saved message and
	// whether a new row was created.
	Save(ctx context.Context, userID uint, body string) (*models.SecretMessage, bool, error)
	// StartEdit loads the message's stored body into userID's edit slot,
	// replacing any edit already in progress (last selected wins). Storage is
	// not touched beyond the read.
	StartEdit(ctx context.Context, userID, messageID uint) (EditState, error)
	// Delete removes userID's message. Deleting a message that no longer
	// exists is a logged no-op. Clears the edit slot when it targeted the
	// deleted message.
	Delete(ctx context.Context, userID, messageID uint) error
	Editor() *Editor
}

type messageService struct {
	messageRepo storage.MessageRepository
	requestRepo storage.FriendRequestRepository
	editor      *Editor
}

// NewMessageService creates a new MessageService instance.
func NewMessageService(messageRepo storage.MessageRepository, requestRepo storage.FriendRequestRepository, editor *Editor) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		requestRepo: requestRepo,
		editor:      editor,
	}
}

func (s *messageService) ListOwn(ctx context.Context, userID uint) ([]models.SecretMessage, error) {
	messages, err := s.messageRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

func (s *messageService) View(ctx context.Context, viewerID, ownerID uint) ([]models.SecretMessage, error) {
	if viewerID != ownerID {
		request, err := s.requestRepo.FindActiveBetween(ctx, viewerID, ownerID)
		if err != nil {
			return nil, fmt.Errorf("failed to check friendship: %w", err)
		}
		// The access check runs before any message is read; data is never
		// fetched speculatively and hidden afterwards.
		if request == nil || request.Status != models.FriendRequestStatusAccepted {
			return nil, ErrForbiddenView
		}
	}
	messages, err := s.messageRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

func (s *messageService) Save(ctx context.Context, userID uint, body string) (*models.SecretMessage, bool, error) {
	if slot, editing := s.editor.Current(userID); editing {
		target, err := s.messageRepo.GetByID(ctx, slot.TargetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				s.editor.Cancel(userID)
				return nil, false, ErrEditTargetNotFound
			}
			return nil, false, fmt.Errorf("failed to load edit target: %w", err)
		}
		if target.UserID != userID {
			return nil, false, ErrNotMessageOwner
		}
		if err := s.messageRepo.UpdateBody(ctx, target.ID, body); err != nil {
			return nil, false, fmt.Errorf("failed to update message: %w", err)
		}
		s.editor.Cancel(userID)
		target.Body = body
		return target, false, nil
	}

	message := &models.SecretMessage{UserID: userID, Body: body}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, false, fmt.Errorf("failed to create message: %w", err)
	}
	return message, true, nil
}

func (s *messageService) StartEdit(ctx context.Context, userID, messageID uint) (EditState, error) {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EditState{}, ErrEditTargetNotFound
		}
		return EditState{}, fmt.Errorf("failed to load message: %w", err)
	}
	if message.UserID != userID {
		return EditState{}, ErrNotMessageOwner
	}
	s.editor.Edit(userID, messageID, message.Body)
	return EditState{TargetID: messageID, Draft: message.Body}, nil
}

func (s *messageService) Delete(ctx context.Context, userID, messageID uint) error {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("delete of missing message %d by user %d treated as no-op", messageID, userID)
			s.editor.ClearIfTarget(userID, messageID)
			return nil
		}
		return fmt.Errorf("failed to load message: %w", err)
	}
	if message.UserID != userID {
		return ErrNotMessageOwner
	}
	if err := s.messageRepo.Delete(ctx, messageID); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	s.editor.ClearIfTarget(userID, messageID)
	return nil
}

func (s *messageService) Editor() *Editor {
	return s.editor
}
