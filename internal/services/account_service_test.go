package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"secretmsg/internal/mocks"
	"secretmsg/internal/storage"
)

func newCascadeMocks() (*mocks.OwnedCollectionMock, *mocks.FriendRequestRepositoryMock, *mocks.ProfileRepositoryMock, *mocks.UserRepositoryMock, *mocks.TokenBlacklistMock) {
	return &mocks.OwnedCollectionMock{Name: "secret_messages"},
		new(mocks.FriendRequestRepositoryMock),
		new(mocks.ProfileRepositoryMock),
		new(mocks.UserRepositoryMock),
		new(mocks.TokenBlacklistMock)
}

func TestDeleteAccountRunsAllStepsInOrder(t *testing.T) {
	collection, requestRepo, profileRepo, userRepo, blacklist := newCascadeMocks()
	svc := NewAccountService([]storage.OwnedCollection{collection}, requestRepo, profileRepo, userRepo, blacklist)

	collection.On("DeleteAllByOwner", mock.Anything, uint(1)).Return(nil).Once()
	requestRepo.On("DeleteAllInvolving", mock.Anything, uint(1)).Return(nil).Once()
	profileRepo.On("Delete", mock.Anything, uint(1)).Return(nil).Once()
	blacklist.On("Add", mock.Anything, "jti-1", mock.Anything).Return(nil).Once()
	userRepo.On("Delete", mock.Anything, uint(1)).Return(nil).Once()

	report := svc.DeleteAccount(context.Background(), 1, "jti-1", time.Now().Add(time.Hour))

	var names []string
	for _, step := range report.Steps {
		names = append(names, step.Name)
	}
	assert.Equal(t, []string{
		"owned collection secret_messages",
		"friend requests",
		"profile",
		"sign out",
		"identity",
	}, names)
	assert.Empty(t, report.Failed())

	collection.AssertExpectations(t)
	requestRepo.AssertExpectations(t)
	profileRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
	blacklist.AssertExpectations(t)
}

func TestDeleteAccountContinuesPastFailures(t *testing.T) {
	collection, requestRepo, profileRepo, userRepo, blacklist := newCascadeMocks()
	svc := NewAccountService([]storage.OwnedCollection{collection}, requestRepo, profileRepo, userRepo, blacklist)

	// The middle of the cascade fails; everything after it must still run.
	collection.On("DeleteAllByOwner", mock.Anything, uint(1)).Return(nil).Once()
	requestRepo.On("DeleteAllInvolving", mock.Anything, uint(1)).Return(assert.AnError).Once()
	profileRepo.On("Delete", mock.Anything, uint(1)).Return(assert.AnError).Once()
	blacklist.On("Add", mock.Anything, "jti-1", mock.Anything).Return(nil).Once()
	userRepo.On("Delete", mock.Anything, uint(1)).Return(nil).Once()

	report := svc.DeleteAccount(context.Background(), 1, "jti-1", time.Now().Add(time.Hour))

	assert.Len(t, report.Steps, 5)
	failed := report.Failed()
	require.Len(t, failed, 2)
	assert.Equal(t, "friend requests", failed[0].Name)
	assert.Equal(t, "profile", failed[1].Name)
	userRepo.AssertExpectations(t)
}

func TestDeleteAccountSkipsSignOutWithoutToken(t *testing.T) {
	collection, requestRepo, profileRepo, userRepo, blacklist := newCascadeMocks()
	svc := NewAccountService([]storage.OwnedCollection{collection}, requestRepo, profileRepo, userRepo, blacklist)

	collection.On("DeleteAllByOwner", mock.Anything, uint(1)).Return(nil).Once()
	requestRepo.On("DeleteAllInvolving", mock.Anything, uint(1)).Return(nil).Once()
	profileRepo.On("Delete", mock.Anything, uint(1)).Return(nil).Once()
	userRepo.On("Delete", mock.Anything, uint(1)).Return(nil).Once()

	report := svc.DeleteAccount(context.Background(), 1, "", time.Time{})

	assert.Len(t, report.Steps, 4)
	blacklist.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteAccountMultipleOwnedCollections(t *testing.T) {
	messages := &mocks.OwnedCollectionMock{Name: "secret_messages"}
	drafts := &mocks.OwnedCollectionMock{Name: "drafts"}
	requestRepo := new(mocks.FriendRequestRepositoryMock)
	profileRepo := new(mocks.ProfileRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	svc := NewAccountService([]storage.OwnedCollection{messages, drafts}, requestRepo, profileRepo, userRepo, nil)

	messages.On("DeleteAllByOwner", mock.Anything, uint(1)).Return(nil).Once()
	drafts.On("DeleteAllByOwner", mock.Anything, uint(1)).Return(assert.AnError).Once()
	requestRepo.On("DeleteAllInvolving", mock.Anything, uint(1)).Return(nil).Once()
	profileRepo.On("Delete", mock.Anything, uint(1)).Return(nil).Once()
	userRepo.On("Delete", mock.Anything, uint(1)).Return(nil).Once()

	report := svc.DeleteAccount(context.Background(), 1, "", time.Time{})

	require.Len(t, report.Steps, 5)
	assert.Equal(t, "owned collection secret_messages", report.Steps[0].Name)
	assert.Equal(t, "owned collection drafts", report.Steps[1].Name)
	require.Len(t, report.Failed(), 1)
	assert.Equal(t, "owned collection drafts", report.Failed()[0].Name)
}
