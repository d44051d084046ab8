package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/baigcoder/TrueVibe-sub000/internal/realtime/domain"
)

func typingEvents(events []domain.Event) []domain.TypingChange {
	var out []domain.TypingChange
	for _, ev := range events {
		if ev.Kind == domain.EventTypingChanged {
			out = append(out, *ev.Typing)
		}
	}
	return out
}

func TestPresenceTracker_SignalPublishesOnce(t *testing.T) {
	bus := &capturePublisher{}
	p := NewPresenceTracker(bus, time.Minute)
	defer p.Close()
	scope := domain.ConversationScope("conv-1")

	p.SignalTyping(scope, "user-a")
	p.SignalTyping(scope, "user-a")
	p.SignalTyping(scope, "user-a")

	changes := typingEvents(bus.all())
	assert.Len(t, changes, 1)
	assert.Equal(t, "user-a", changes[0].UserID)
	assert.True(t, changes[0].IsTyping)
}

func TestPresenceTracker_AutoExpiry(t *testing.T) {
	bus := &capturePublisher{}
	p := NewPresenceTracker(bus, 30*time.Millisecond)
	defer p.Close()
	scope := domain.ConversationScope("conv-1")

	p.SignalTyping(scope, "user-a")
	assert.Equal(t, []string{"user-a"}, p.TypingUsers(scope))

	assert.Eventually(t, func() bool {
		changes := typingEvents(bus.all())
		return len(changes) == 2 && !changes[1].IsTyping
	}, time.Second, 10*time.Millisecond)

	assert.Empty(t, p.TypingUsers(scope))
}

func TestPresenceTracker_RefreshPostponesExpiry(t *testing.T) {
	bus := &capturePublisher{}
	p := NewPresenceTracker(bus, 60*time.Millisecond)
	defer p.Close()
	scope := domain.ConversationScope("conv-1")

	p.SignalTyping(scope, "user-a")
	time.Sleep(40 * time.Millisecond)
	p.SignalTyping(scope, "user-a") // refresh before expiry
	time.Sleep(40 * time.Millisecond)

	// original window has passed but the refresh keeps the entry alive
	assert.Equal(t, []string{"user-a"}, p.TypingUsers(scope))
	assert.Len(t, typingEvents(bus.all()), 1)
}

// a timer callback that fires concurrently with a refresh must not tear
// down the renewed entry
func TestPresenceTracker_StaleExpiryAfterRefresh(t *testing.T) {
	bus := &capturePublisher{}
	p := NewPresenceTracker(bus, time.Minute)
	defer p.Close()
	scope := domain.ConversationScope("conv-1")

	p.SignalTyping(scope, "user-a")
	// an expiry callback already in flight when the refresh landed
	p.expire(scope, "user-a")

	assert.Equal(t, []string{"user-a"}, p.TypingUsers(scope))
	assert.Len(t, typingEvents(bus.all()), 1)
}

func TestPresenceTracker_StopPreemptsTimer(t *testing.T) {
	bus := &capturePublisher{}
	p := NewPresenceTracker(bus, time.Minute)
	defer p.Close()
	scope := domain.ConversationScope("conv-1")

	p.SignalTyping(scope, "user-a")
	p.StopTyping(scope, "user-a")

	changes := typingEvents(bus.all())
	assert.Len(t, changes, 2)
	assert.False(t, changes[1].IsTyping)
	assert.Empty(t, p.TypingUsers(scope))

	// stop without an entry publishes nothing
	p.StopTyping(scope, "user-a")
	assert.Len(t, typingEvents(bus.all()), 2)
}

func TestPresenceTracker_ScopesIndependent(t *testing.T) {
	bus := &capturePublisher{}
	p := NewPresenceTracker(bus, time.Minute)
	defer p.Close()

	convScope := domain.ConversationScope("conv-1")
	chanScope := domain.ChannelScope("chan-1")

	p.SignalTyping(convScope, "user-a")
	p.SignalTyping(chanScope, "user-b")

	assert.Equal(t, []string{"user-a"}, p.TypingUsers(convScope))
	assert.Equal(t, []string{"user-b"}, p.TypingUsers(chanScope))
}
