package app

import (
	"sync"
	"time"

	"github.com/baigcoder/TrueVibe-sub000/internal/realtime/domain"
)

// DefaultTypingTTL expiry window for a typing signal with no renewal
const DefaultTypingTTL = 6 * time.Second

type typingEntry struct {
	timer *time.Timer
	state domain.TypingState
}

// PresenceTracker per-scope set of currently typing users. Entries live in
// tracker memory only and expire on their own, so a client that
// disconnects mid-type still clears its badge everywhere.
type PresenceTracker struct {
	bus EventPublisher
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]*typingEntry
}

// NewPresenceTracker init presence tracker, ttl <= 0 picks the default
func NewPresenceTracker(bus EventPublisher, ttl time.Duration) *PresenceTracker {
	if ttl <= 0 {
		ttl = DefaultTypingTTL
	}
	return &PresenceTracker{
		bus:     bus,
		ttl:     ttl,
		entries: make(map[string]*typingEntry),
	}
}

// SignalTyping record or refresh the typing entry. The first signal
// publishes typing-changed(true); refreshes coalesce silently, most
// recent wins.
func (p *PresenceTracker) SignalTyping(scope domain.Scope, userID string) {
	key := entryKey(scope, userID)
	now := time.Now().UnixMilli()

	p.mu.Lock()
	if e, ok := p.entries[key]; ok {
		e.timer.Reset(p.ttl)
		e.state.LastSignaled = now
		p.mu.Unlock()
		return
	}

	e := &typingEntry{state: domain.TypingState{Scope: scope, UserID: userID, LastSignaled: now}}
	e.timer = time.AfterFunc(p.ttl, func() {
		p.expire(scope, userID)
	})
	p.entries[key] = e
	p.mu.Unlock()

	p.publish(scope, userID, true)
}

// StopTyping explicit stop, pre-empting the expiry timer
func (p *PresenceTracker) StopTyping(scope domain.Scope, userID string) {
	key := entryKey(scope, userID)

	p.mu.Lock()
	e, ok := p.entries[key]
	if ok {
		e.timer.Stop()
		delete(p.entries, key)
	}
	p.mu.Unlock()

	if ok {
		p.publish(scope, userID, false)
	}
}

// TypingUsers snapshot of users currently typing in the scope, for a
// connection that just entered it.
func (p *PresenceTracker) TypingUsers(scope domain.Scope) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var users []string
	for _, e := range p.entries {
		if e.state.Scope == scope {
			users = append(users, e.state.UserID)
		}
	}
	return users
}

// Close stop every pending expiry timer
func (p *PresenceTracker) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for key, e := range p.entries {
		e.timer.Stop()
		delete(p.entries, key)
	}
}

func (p *PresenceTracker) expire(scope domain.Scope, userID string) {
	key := entryKey(scope, userID)

	p.mu.Lock()
	e, ok := p.entries[key]
	if ok && time.Since(time.UnixMilli(e.state.LastSignaled)) < p.ttl {
		// a refresh landed after this timer fired; the entry is still
		// live and the reset timer owns the next expiry
		p.mu.Unlock()
		return
	}
	if ok {
		delete(p.entries, key)
	}
	p.mu.Unlock()

	if ok {
		p.publish(scope, userID, false)
	}
}

func (p *PresenceTracker) publish(scope domain.Scope, userID string, isTyping bool) {
	p.bus.Publish(scope, domain.Event{
		Kind:  domain.EventTypingChanged,
		Scope: scope,
		Typing: &domain.TypingChange{
			UserID:   userID,
			IsTyping: isTyping,
		},
	})
}

func entryKey(scope domain.Scope, userID string) string {
	return scope.Key() + "\x00" + userID
}
