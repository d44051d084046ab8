package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/baigcoder/TrueVibe-sub000/internal/realtime/domain"
	"github.com/baigcoder/TrueVibe-sub000/internal/realtime/repository"
	"github.com/baigcoder/TrueVibe-sub000/pkg/logger"
)

// EventPublisher is the bus surface the usecases mutate through.
type EventPublisher interface {
	Publish(scope domain.Scope, ev domain.Event)
}

// EventArchiver mirrors events to an external log, best effort.
type EventArchiver interface {
	Archive(ev domain.Event)
}

const subscriberBuffer = 64

// subscriber owns a buffered queue drained by a single goroutine, so one
// slow consumer never stalls Publish or its scope siblings.
type subscriber struct {
	ch      chan domain.Event
	done    chan struct{}
	handler func(ev domain.Event)
	once    sync.Once
}

func newSubscriber(handler func(ev domain.Event)) *subscriber {
	s := &subscriber{
		ch:      make(chan domain.Event, subscriberBuffer),
		done:    make(chan struct{}),
		handler: handler,
	}
	go s.run()
	return s
}

func (s *subscriber) run() {
	for {
		select {
		case ev := <-s.ch:
			s.handler(ev)
		case <-s.done:
			return
		}
	}
}

func (s *subscriber) close() {
	s.once.Do(func() { close(s.done) })
}

// scopeState per-scope subscriber set. The mutex serializes enqueueing so
// every subscriber of the scope observes the same event order.
type scopeState struct {
	mu           sync.Mutex
	subs         map[*subscriber]struct{}
	cancelBridge context.CancelFunc
}

// EventBus fan-out keyed by scope. Delivery is at-least-once, in publish
// order within one scope per subscriber, no ordering across scopes. A full
// subscriber queue drops the event for that subscriber only.
type EventBus struct {
	id       string
	mu       sync.Mutex
	scopes   map[string]*scopeState
	bridge   repository.EventBridge
	archiver EventArchiver
}

// NewEventBus create an EventBus. bridge and archiver may be nil.
func NewEventBus(bridge repository.EventBridge, archiver EventArchiver) *EventBus {
	return &EventBus{
		id:     uuid.New().String(),
		scopes: make(map[string]*scopeState),
		bridge: bridge,
		archiver: archiver,
	}
}

// Subscribe register handler for all subsequent events of the scope. The
// returned func unsubscribes; calling it twice is safe.
func (b *EventBus) Subscribe(scope domain.Scope, handler func(ev domain.Event)) func() {
	key := scope.Key()
	sub := newSubscriber(handler)

	b.mu.Lock()
	st, ok := b.scopes[key]
	if !ok {
		st = &scopeState{subs: make(map[*subscriber]struct{})}
		b.scopes[key] = st
		if b.bridge != nil {
			ctx, cancel := context.WithCancel(context.Background())
			st.cancelBridge = cancel
			if err := b.bridge.Subscribe(ctx, scope, func(env repository.BridgeEnvelope) {
				if env.Origin == b.id {
					return
				}
				b.dispatch(env.Event.Scope, env.Event)
			}); err != nil {
				logger.Log.Errorf("event bridge subscribe error:", err, zap.String("scope", key))
			}
		}
	}
	st.mu.Lock()
	st.subs[sub] = struct{}{}
	st.mu.Unlock()
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			if st, ok := b.scopes[key]; ok {
				st.mu.Lock()
				delete(st.subs, sub)
				empty := len(st.subs) == 0
				st.mu.Unlock()
				if empty {
					if st.cancelBridge != nil {
						st.cancelBridge()
					}
					delete(b.scopes, key)
				}
			}
			b.mu.Unlock()
			sub.close()
		})
	}
}

// Publish deliver ev to every current subscriber of the scope and mirror
// it to the bridge and the archive. Fire-and-forget relative to the
// caller: subscriber processing happens on the subscribers' goroutines.
func (b *EventBus) Publish(scope domain.Scope, ev domain.Event) {
	if ev.At == 0 {
		ev.At = time.Now().UnixMilli()
	}

	if b.archiver != nil {
		b.archiver.Archive(ev)
	}

	b.dispatch(scope, ev)

	if b.bridge != nil {
		if err := b.bridge.Publish(scope, repository.BridgeEnvelope{Origin: b.id, Event: ev}); err != nil {
			logger.Log.Errorf("event bridge publish error:", err, zap.String("scope", scope.Key()))
		}
	}
}

func (b *EventBus) dispatch(scope domain.Scope, ev domain.Event) {
	key := scope.Key()

	b.mu.Lock()
	st, ok := b.scopes[key]
	b.mu.Unlock()
	if !ok {
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	for sub := range st.subs {
		select {
		case sub.ch <- ev:
		default:
			// isolated per subscriber: log and drop, never stall the rest
			logger.Log.Warn("subscriber queue full, dropping event",
				zap.String("scope", key),
				zap.String("kind", string(ev.Kind)),
			)
		}
	}
}
