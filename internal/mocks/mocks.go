package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"secretmsg/internal/models"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepositoryMock) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	var user *models.User
	if val := args.Get(0); val != nil {
		user = val.(*models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	var user *models.User
	if val := args.Get(0); val != nil {
		user = val.(*models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	var user *models.User
	if val := args.Get(0); val != nil {
		user = val.(*models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type ProfileRepositoryMock struct {
	mock.Mock
}

func (m *ProfileRepositoryMock) Create(ctx context.Context, profile *models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *ProfileRepositoryMock) GetByID(ctx context.Context, id uint) (*models.Profile, error) {
	args := m.Called(ctx, id)
	var profile *models.Profile
	if val := args.Get(0); val != nil {
		profile = val.(*models.Profile)
	}
	return profile, args.Error(1)
}

func (m *ProfileRepositoryMock) List(ctx context.Context) ([]models.Profile, error) {
	args := m.Called(ctx)
	var profiles []models.Profile
	if val := args.Get(0); val != nil {
		profiles = val.([]models.Profile)
	}
	return profiles, args.Error(1)
}

func (m *ProfileRepositoryMock) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) ListByOwner(ctx context.Context, ownerID uint) ([]models.SecretMessage, error) {
	args := m.Called(ctx, ownerID)
	var messages []models.SecretMessage
	if val := args.Get(0); val != nil {
		messages = val.([]models.SecretMessage)
	}
	return messages, args.Error(1)
}

func (m *MessageRepositoryMock) GetByID(ctx context.Context, id uint) (*models.SecretMessage, error) {
	args := m.Called(ctx, id)
	var message *models.SecretMessage
	if val := args.Get(0); val != nil {
		message = val.(*models.SecretMessage)
	}
	return message, args.Error(1)
}

func (m *MessageRepositoryMock) Create(ctx context.Context, message *models.SecretMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MessageRepositoryMock) UpdateBody(ctx context.Context, id uint, body string) error {
	args := m.Called(ctx, id, body)
	return args.Error(0)
}

func (m *MessageRepositoryMock) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MessageRepositoryMock) DeleteAllByOwner(ctx context.Context, ownerID uint) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

type FriendRequestRepositoryMock struct {
	mock.Mock
}

func (m *FriendRequestRepositoryMock) Create(ctx context.Context, request *models.FriendRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *FriendRequestRepositoryMock) GetByID(ctx context.Context, requestID uint) (*models.FriendRequest, error) {
	args := m.Called(ctx, requestID)
	var request *models.FriendRequest
	if val := args.Get(0); val != nil {
		request = val.(*models.FriendRequest)
	}
	return request, args.Error(1)
}

func (m *FriendRequestRepositoryMock) ListInvolving(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	args := m.Called(ctx, userID)
	var requests []models.FriendRequest
	if val := args.Get(0); val != nil {
		requests = val.([]models.FriendRequest)
	}
	return requests, args.Error(1)
}

func (m *FriendRequestRepositoryMock) FindActiveBetween(ctx context.Context, userID1, userID2 uint) (*models.FriendRequest, error) {
	args := m.Called(ctx, userID1, userID2)
	var request *models.FriendRequest
	if val := args.Get(0); val != nil {
		request = val.(*models.FriendRequest)
	}
	return request, args.Error(1)
}

func (m *FriendRequestRepositoryMock) SetStatus(ctx context.Context, requestID uint, status models.FriendRequestStatus) error {
	args := m.Called(ctx, requestID, status)
	return args.Error(0)
}

func (m *FriendRequestRepositoryMock) Delete(ctx context.Context, requestID uint) error {
	args := m.Called(ctx, requestID)
	return args.Error(0)
}

func (m *FriendRequestRepositoryMock) DeleteAllInvolving(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type OwnedCollectionMock struct {
	mock.Mock
	Name string
}

func (m *OwnedCollectionMock) CollectionName() string {
	return m.Name
}

func (m *OwnedCollectionMock) DeleteAllByOwner(ctx context.Context, ownerID uint) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

type TokenBlacklistMock struct {
	mock.Mock
}

func (m *TokenBlacklistMock) Add(ctx context.Context, jti string, originalTokenExpTime time.Time) error {
	args := m.Called(ctx, jti, originalTokenExpTime)
	return args.Error(0)
}

func (m *TokenBlacklistMock) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

type MessageProducerMock struct {
	mock.Mock
}

func (m *MessageProducerMock) SendMessage(ctx context.Context, topic string, key []byte, payload []byte) error {
	args := m.Called(ctx, topic, key, payload)
	return args.Error(0)
}

func (m *MessageProducerMock) Close() {
	m.Called()
}
