package app

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/baigcoder/TrueVibe-sub000/internal/realtime/domain"
)

// MockConversationRepository Mock ConversationRepository
type MockConversationRepository struct {
	mock.Mock
}

// AutoMigrate moke migrate conversation tables
func (m *MockConversationRepository) AutoMigrate() error {
	args := m.Called()
	return args.Error(0)
}

// Create moke create conversation
func (m *MockConversationRepository) Create(ctx context.Context, conv *domain.Conversation) error {
	args := m.Called(ctx, conv)
	return args.Error(0)
}

// FindByID moke find conversation by id
func (m *MockConversationRepository) FindByID(ctx context.Context, id string) (*domain.Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindDirectBetween moke find the direct conversation of a user pair
func (m *MockConversationRepository) FindDirectBetween(ctx context.Context, userA, userB string) (*domain.Conversation, error) {
	args := m.Called(ctx, userA, userB)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

// ListForUser moke list conversations by activity
func (m *MockConversationRepository) ListForUser(ctx context.Context, userID string, limit int, beforeActivity int64, beforeID string) ([]domain.Conversation, error) {
	args := m.Called(ctx, userID, limit, beforeActivity, beforeID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

// Touch moke refresh activity columns
func (m *MockConversationRepository) Touch(ctx context.Context, id, preview string, at int64) error {
	args := m.Called(ctx, id, preview, at)
	return args.Error(0)
}

// MockServerRepository Mock ServerRepository
type MockServerRepository struct {
	mock.Mock
}

// AutoMigrate moke migrate server tables
func (m *MockServerRepository) AutoMigrate() error {
	args := m.Called()
	return args.Error(0)
}

// Create moke create server
func (m *MockServerRepository) Create(ctx context.Context, srv *domain.Server) error {
	args := m.Called(ctx, srv)
	return args.Error(0)
}

// FindByID moke find server by id
func (m *MockServerRepository) FindByID(ctx context.Context, id string) (*domain.Server, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Server), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByInvite moke find server by invite code
func (m *MockServerRepository) FindByInvite(ctx context.Context, code string) (*domain.Server, error) {
	args := m.Called(ctx, code)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Server), args.Error(1)
	}
	return nil, args.Error(1)
}

// Delete moke delete server
func (m *MockServerRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// AddMember moke add member to roster
func (m *MockServerRepository) AddMember(ctx context.Context, member *domain.ServerMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

// RemoveMember moke remove member from roster
func (m *MockServerRepository) RemoveMember(ctx context.Context, serverID, userID string) error {
	args := m.Called(ctx, serverID, userID)
	return args.Error(0)
}

// IsMember moke roster membership check
func (m *MockServerRepository) IsMember(ctx context.Context, serverID, userID string) (bool, error) {
	args := m.Called(ctx, serverID, userID)
	return args.Bool(0), args.Error(1)
}

// ListForUser moke list servers by activity
func (m *MockServerRepository) ListForUser(ctx context.Context, userID string, limit int, beforeActivity int64, beforeID string) ([]domain.Server, error) {
	args := m.Called(ctx, userID, limit, beforeActivity, beforeID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Server), args.Error(1)
	}
	return nil, args.Error(1)
}

// CreateChannel moke create channel
func (m *MockServerRepository) CreateChannel(ctx context.Context, ch *domain.Channel) error {
	args := m.Called(ctx, ch)
	return args.Error(0)
}

// FindChannelByID moke find channel by id
func (m *MockServerRepository) FindChannelByID(ctx context.Context, id string) (*domain.Channel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Channel), args.Error(1)
	}
	return nil, args.Error(1)
}

// ListChannels moke list channels of a server
func (m *MockServerRepository) ListChannels(ctx context.Context, serverID string) ([]domain.Channel, error) {
	args := m.Called(ctx, serverID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Channel), args.Error(1)
	}
	return nil, args.Error(1)
}

// ChannelNameExists moke duplicate channel name check
func (m *MockServerRepository) ChannelNameExists(ctx context.Context, serverID, name string) (bool, error) {
	args := m.Called(ctx, serverID, name)
	return args.Bool(0), args.Error(1)
}

// Touch moke refresh activity column
func (m *MockServerRepository) Touch(ctx context.Context, id string, at int64) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// MockMessageRepository Mock MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

// Insert moke insert message
func (m *MockMessageRepository) Insert(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// FindByID moke find message by id
func (m *MockMessageRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindMessagesBefore moke paged fetch
func (m *MockMessageRepository) FindMessagesBefore(ctx context.Context, scope domain.Scope, before *primitive.ObjectID, limit int) ([]domain.Message, error) {
	args := m.Called(ctx, scope, before, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// UpdateReactions moke replace reaction sets
func (m *MockMessageRepository) UpdateReactions(ctx context.Context, id primitive.ObjectID, reactions []domain.Reaction) error {
	args := m.Called(ctx, id, reactions)
	return args.Error(0)
}

// MarkRead moke add read marker
func (m *MockMessageRepository) MarkRead(ctx context.Context, id primitive.ObjectID, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MarkDeleted moke soft delete
func (m *MockMessageRepository) MarkDeleted(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEventPublisher Mock EventPublisher, records publishes in call order
type MockEventPublisher struct {
	mock.Mock
}

// Publish moke publish event
func (m *MockEventPublisher) Publish(scope domain.Scope, ev domain.Event) {
	m.Called(scope, ev)
}
