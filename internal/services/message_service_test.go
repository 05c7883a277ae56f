package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"secretmsg/internal/mocks"
	"secretmsg/internal/models"
)

func secret(id, owner uint, body string) *models.SecretMessage {
	m := &models.SecretMessage{UserID: owner, Body: body}
	m.ID = id
	return m
}

func TestSaveWithoutEditTargetCreates(t *testing.T) {
	msgRepo := new(mocks.MessageRepositoryMock)
	svc := NewMessageService(msgRepo, new(mocks.FriendRequestRepositoryMock), NewEditor())

	msgRepo.On("Create", mock.Anything, mock.MatchedBy(func(m *models.SecretMessage) bool {
		return m.UserID == 1 && m.Body == "hello"
	})).Return(nil).Once()

	saved, created, err := svc.Save(context.Background(), 1, "hello")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "hello", saved.Body)
	msgRepo.AssertExpectations(t)
}

func TestSaveWithEditTargetUpdatesInPlace(t *testing.T) {
	msgRepo := new(mocks.MessageRepositoryMock)
	editor := NewEditor()
	svc := NewMessageService(msgRepo, new(mocks.FriendRequestRepositoryMock), editor)

	msgRepo.On("GetByID", mock.Anything, uint(10)).Return(secret(10, 1, "old"), nil).Twice()
	msgRepo.On("UpdateBody", mock.Anything, uint(10), "new").Return(nil).Once()

	_, err := svc.StartEdit(context.Background(), 1, 10)
	require.NoError(t, err)

	saved, created, err := svc.Save(context.Background(), 1, "new")
	require.NoError(t, err)
	assert.False(t, created, "updating must not create a new row")
	assert.Equal(t, uint(10), saved.ID)
	assert.Equal(t, "new", saved.Body)

	_, editing := editor.Current(1)
	assert.False(t, editing, "a successful save ends the edit")
	msgRepo.AssertExpectations(t)
	msgRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSaveEmptyBodyIsAllowed(t *testing.T) {
	msgRepo := new(mocks.MessageRepositoryMock)
	svc := NewMessageService(msgRepo, new(mocks.FriendRequestRepositoryMock), NewEditor())

	msgRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	_, created, err := svc.Save(context.Background(), 1, "")
	require.NoError(t, err)
	assert.True(t, created)
	msgRepo.AssertExpectations(t)
}

func TestSaveVanishedEditTarget(t *testing.T) {
	msgRepo := new(mocks.MessageRepositoryMock)
	editor := NewEditor()
	svc := NewMessageService(msgRepo, new(mocks.FriendRequestRepositoryMock), editor)

	editor.Edit(1, 10, "draft")
	msgRepo.On("GetByID", mock.Anything, uint(10)).Return(nil, gorm.ErrRecordNotFound).Once()

	_, _, err := svc.Save(context.Background(), 1, "new")
	assert.ErrorIs(t, err, ErrEditTargetNotFound)

	_, editing := editor.Current(1)
	assert.False(t, editing, "a vanished target clears the slot")
}

func TestStartEditRequiresOwnership(t *testing.T) {
	msgRepo := new(mocks.MessageRepositoryMock)
	svc := NewMessageService(msgRepo, new(mocks.FriendRequestRepositoryMock), NewEditor())

	msgRepo.On("GetByID", mock.Anything, uint(10)).Return(secret(10, 2, "not yours"), nil).Once()

	_, err := svc.StartEdit(context.Background(), 1, 10)
	assert.ErrorIs(t, err, ErrNotMessageOwner)
}

func TestDeleteMissingMessageIsNoop(t *testing.T) {
	msgRepo := new(mocks.MessageRepositoryMock)
	svc := NewMessageService(msgRepo, new(mocks.FriendRequestRepositoryMock), NewEditor())

	msgRepo.On("GetByID", mock.Anything, uint(10)).Return(nil, gorm.ErrRecordNotFound).Once()

	err := svc.Delete(context.Background(), 1, 10)
	assert.NoError(t, err, "double delete is success from the user's perspective")
	msgRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteClearsEditSlot(t *testing.T) {
	msgRepo := new(mocks.MessageRepositoryMock)
	editor := NewEditor()
	svc := NewMessageService(msgRepo, new(mocks.FriendRequestRepositoryMock), editor)

	editor.Edit(1, 10, "draft")
	msgRepo.On("GetByID", mock.Anything, uint(10)).Return(secret(10, 1, "body"), nil).Once()
	msgRepo.On("Delete", mock.Anything, uint(10)).Return(nil).Once()

	require.NoError(t, svc.Delete(context.Background(), 1, 10))

	_, editing := editor.Current(1)
	assert.False(t, editing)
	msgRepo.AssertExpectations(t)
}

func TestDeleteRefusesForeignMessage(t *testing.T) {
	msgRepo := new(mocks.MessageRepositoryMock)
	svc := NewMessageService(msgRepo, new(mocks.FriendRequestRepositoryMock), NewEditor())

	msgRepo.On("GetByID", mock.Anything, uint(10)).Return(secret(10, 2, "body"), nil).Once()

	err := svc.Delete(context.Background(), 1, 10)
	assert.ErrorIs(t, err, ErrNotMessageOwner)
	msgRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestViewOwnMessages(t *testing.T) {
	msgRepo := new(mocks.MessageRepositoryMock)
	reqRepo := new(mocks.FriendRequestRepositoryMock)
	svc := NewMessageService(msgRepo, reqRepo, NewEditor())

	msgRepo.On("ListByOwner", mock.Anything, uint(1)).Return([]models.SecretMessage{*secret(10, 1, "mine")}, nil).Once()

	messages, err := svc.View(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Len(t, messages, 1)
	reqRepo.AssertNotCalled(t, "FindActiveBetween", mock.Anything, mock.Anything, mock.Anything)
}

func TestViewFriendMessages(t *testing.T) {
	msgRepo := new(mocks.MessageRepositoryMock)
	reqRepo := new(mocks.FriendRequestRepositoryMock)
	svc := NewMessageService(msgRepo, reqRepo, NewEditor())

	accepted := &models.FriendRequest{SenderID: 1, ReceiverID: 2, Status: models.FriendRequestStatusAccepted}
	reqRepo.On("FindActiveBetween", mock.Anything, uint(1), uint(2)).Return(accepted, nil).Once()
	msgRepo.On("ListByOwner", mock.Anything, uint(2)).Return([]models.SecretMessage{*secret(20, 2, "theirs")}, nil).Once()

	messages, err := svc.View(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Len(t, messages, 1)
	reqRepo.AssertExpectations(t)
}

func TestViewNonFriendIsForbidden(t *testing.T) {
	msgRepo := new(mocks.MessageRepositoryMock)
	reqRepo := new(mocks.FriendRequestRepositoryMock)
	svc := NewMessageService(msgRepo, reqRepo, NewEditor())

	reqRepo.On("FindActiveBetween", mock.Anything, uint(1), uint(3)).Return(nil, nil).Once()

	messages, err := svc.View(context.Background(), 1, 3)
	assert.ErrorIs(t, err, ErrForbiddenView)
	assert.Nil(t, messages, "no bodies may leak on refusal")
	msgRepo.AssertNotCalled(t, "ListByOwner", mock.Anything, mock.Anything)
}

func TestViewPendingRequestIsStillForbidden(t *testing.T) {
	msgRepo := new(mocks.MessageRepositoryMock)
	reqRepo := new(mocks.FriendRequestRepositoryMock)
	svc := NewMessageService(msgRepo, reqRepo, NewEditor())

	pending := &models.FriendRequest{SenderID: 1, ReceiverID: 2, Status: models.FriendRequestStatusPending}
	reqRepo.On("FindActiveBetween", mock.Anything, uint(1), uint(2)).Return(pending, nil).Once()

	_, err := svc.View(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrForbiddenView)
	msgRepo.AssertNotCalled(t, "ListByOwner", mock.Anything, mock.Anything)
}
