package app

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/baigcoder/TrueVibe-sub000/internal/realtime/domain"
	"github.com/baigcoder/TrueVibe-sub000/pkg/errs"
)

// fakeMessageStore in-memory MessageRepository, enough surface for the
// reaction read-modify-write under concurrency.
type fakeMessageStore struct {
	mu       sync.Mutex
	messages map[primitive.ObjectID]*domain.Message
}

func newFakeMessageStore(msgs ...*domain.Message) *fakeMessageStore {
	s := &fakeMessageStore{messages: make(map[primitive.ObjectID]*domain.Message)}
	for _, m := range msgs {
		s.messages[m.ID] = m
	}
	return s
}

func (s *fakeMessageStore) Insert(ctx context.Context, msg *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[msg.ID] = msg
	return nil
}

func (s *fakeMessageStore) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.messages[id]
	if !ok {
		return nil, nil
	}
	cp := *msg
	cp.Reactions = make([]domain.Reaction, len(msg.Reactions))
	for i, r := range msg.Reactions {
		cp.Reactions[i] = domain.Reaction{Emoji: r.Emoji, Users: append([]string(nil), r.Users...)}
	}
	return &cp, nil
}

func (s *fakeMessageStore) FindMessagesBefore(ctx context.Context, scope domain.Scope, before *primitive.ObjectID, limit int) ([]domain.Message, error) {
	return nil, nil
}

func (s *fakeMessageStore) UpdateReactions(ctx context.Context, id primitive.ObjectID, reactions []domain.Reaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.messages[id]
	if !ok {
		return nil
	}
	msg.Reactions = reactions
	return nil
}

func (s *fakeMessageStore) MarkRead(ctx context.Context, id primitive.ObjectID, userID string) error {
	return nil
}

func (s *fakeMessageStore) MarkDeleted(ctx context.Context, id primitive.ObjectID) error {
	return nil
}

func (s *fakeMessageStore) reactions(id primitive.ObjectID) []domain.Reaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messages[id].Reactions
}

func TestReactionUseCase_Toggle_AddThenRemove(t *testing.T) {
	ctx := context.Background()
	msg := &domain.Message{ID: primitive.NewObjectID(), ScopeKind: domain.ScopeConversation, ScopeID: "conv-1"}
	store := newFakeMessageStore(msg)
	bus := &capturePublisher{}

	uc := NewReactionUseCase(store, bus)

	users, err := uc.Toggle(ctx, msg.ID.Hex(), "user-a", "🔥")
	assert.NoError(t, err)
	assert.Equal(t, []string{"user-a"}, users)

	users, err = uc.Toggle(ctx, msg.ID.Hex(), "user-a", "🔥")
	assert.NoError(t, err)
	assert.Empty(t, users)
	assert.Empty(t, store.reactions(msg.ID))

	events := bus.all()
	assert.Len(t, events, 2)
	assert.Equal(t, domain.EventReactionChanged, events[0].Kind)
	assert.Equal(t, []string{"user-a"}, events[0].Reaction.Users)
	assert.Empty(t, events[1].Reaction.Users)
}

// A reacts 👍, B reacts 👍, A toggles again: the set converges to {B}
func TestReactionUseCase_Toggle_TwoUsers(t *testing.T) {
	ctx := context.Background()
	msg := &domain.Message{ID: primitive.NewObjectID(), ScopeKind: domain.ScopeConversation, ScopeID: "conv-1"}
	store := newFakeMessageStore(msg)

	uc := NewReactionUseCase(store, &capturePublisher{})

	_, err := uc.Toggle(ctx, msg.ID.Hex(), "A", "👍")
	assert.NoError(t, err)

	users, err := uc.Toggle(ctx, msg.ID.Hex(), "B", "👍")
	assert.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, users)

	users, err = uc.Toggle(ctx, msg.ID.Hex(), "A", "👍")
	assert.NoError(t, err)
	assert.Equal(t, []string{"B"}, users)
}

func TestReactionUseCase_Toggle_DistinctEmojiSets(t *testing.T) {
	ctx := context.Background()
	msg := &domain.Message{ID: primitive.NewObjectID(), ScopeKind: domain.ScopeConversation, ScopeID: "conv-1"}
	store := newFakeMessageStore(msg)

	uc := NewReactionUseCase(store, &capturePublisher{})

	_, err := uc.Toggle(ctx, msg.ID.Hex(), "A", "👍")
	assert.NoError(t, err)
	_, err = uc.Toggle(ctx, msg.ID.Hex(), "A", "🔥")
	assert.NoError(t, err)

	reactions := store.reactions(msg.ID)
	assert.Len(t, reactions, 2)
}

// concurrent toggles of distinct emojis on one message never destroy
// each other's entries
func TestReactionUseCase_Toggle_ConcurrentDistinctEmojis(t *testing.T) {
	ctx := context.Background()
	msg := &domain.Message{ID: primitive.NewObjectID(), ScopeKind: domain.ScopeConversation, ScopeID: "conv-1"}
	store := newFakeMessageStore(msg)

	uc := NewReactionUseCase(store, &capturePublisher{})

	emojis := []string{"👍", "🔥", "😂", "🎉", "❤️", "😮", "😢", "👀"}
	var wg sync.WaitGroup
	wg.Add(len(emojis))
	for i, emoji := range emojis {
		go func(i int, emoji string) {
			defer wg.Done()
			_, err := uc.Toggle(ctx, msg.ID.Hex(), fmt.Sprintf("user-%d", i), emoji)
			assert.NoError(t, err)
		}(i, emoji)
	}
	wg.Wait()

	reactions := store.reactions(msg.ID)
	assert.Len(t, reactions, len(emojis))
	for _, r := range reactions {
		assert.Len(t, r.Users, 1)
	}
}

// concurrent toggles from distinct users never lose an update
func TestReactionUseCase_Toggle_ConcurrentUsers(t *testing.T) {
	ctx := context.Background()
	msg := &domain.Message{ID: primitive.NewObjectID(), ScopeKind: domain.ScopeConversation, ScopeID: "conv-1"}
	store := newFakeMessageStore(msg)

	uc := NewReactionUseCase(store, &capturePublisher{})

	const n = 32
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := uc.Toggle(ctx, msg.ID.Hex(), fmt.Sprintf("user-%d", i), "👍")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	reactions := store.reactions(msg.ID)
	assert.Len(t, reactions, 1)
	assert.Len(t, reactions[0].Users, n)
}

func TestReactionUseCase_Toggle_UnknownMessage(t *testing.T) {
	ctx := context.Background()
	store := newFakeMessageStore()

	uc := NewReactionUseCase(store, &capturePublisher{})
	_, err := uc.Toggle(ctx, primitive.NewObjectID().Hex(), "user-a", "👍")

	assert.True(t, errs.IsKind(err, errs.KindNotFound))
}

func TestReactionUseCase_Toggle_EmptyEmoji(t *testing.T) {
	ctx := context.Background()

	uc := NewReactionUseCase(newFakeMessageStore(), &capturePublisher{})
	_, err := uc.Toggle(ctx, primitive.NewObjectID().Hex(), "user-a", "")

	assert.True(t, errs.IsKind(err, errs.KindInvalidState))
}

func TestReactionUseCase_Toggle_MalformedMessageID(t *testing.T) {
	ctx := context.Background()

	uc := NewReactionUseCase(newFakeMessageStore(), &capturePublisher{})
	_, err := uc.Toggle(ctx, "not-an-object-id", "user-a", "👍")

	assert.True(t, errs.IsKind(err, errs.KindInvalidState))
}
