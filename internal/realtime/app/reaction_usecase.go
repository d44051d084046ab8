package app

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/baigcoder/TrueVibe-sub000/internal/realtime/domain"
	"github.com/baigcoder/TrueVibe-sub000/internal/realtime/repository"
	"github.com/baigcoder/TrueVibe-sub000/pkg/errs"
	"github.com/baigcoder/TrueVibe-sub000/pkg"
)

// ReactionUseCase atomic add/remove of a user on a message's emoji set.
// The store write replaces the message's whole reaction list, so the
// read-modify-write is linearized per message, not per (message, emoji):
// concurrent toggles of different emojis would otherwise overwrite each
// other's entries.
type ReactionUseCase struct {
	msgRepo repository.MessageRepository
	bus     EventPublisher

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewReactionUseCase init reaction use case
func NewReactionUseCase(msgRepo repository.MessageRepository, bus EventPublisher) *ReactionUseCase {
	return &ReactionUseCase{
		msgRepo: msgRepo,
		bus:     bus,
		locks:   make(map[string]*sync.Mutex),
	}
}

// Toggle flip userID's membership in the emoji set of the message. Returns
// the converged user set, which is also broadcast so every client renders
// the same view regardless of delivery order.
func (uc *ReactionUseCase) Toggle(ctx context.Context, messageID, userID, emoji string) ([]string, error) {
	if emoji == "" {
		return nil, errs.InvalidState("empty emoji")
	}

	oid, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return nil, errs.InvalidState("malformed message identifier")
	}

	lock := uc.lockFor(messageID)
	lock.Lock()
	defer lock.Unlock()

	msg, err := uc.msgRepo.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, errs.NotFound("message not found")
	}

	users := toggleUser(&msg.Reactions, emoji, userID)

	if err := uc.msgRepo.UpdateReactions(ctx, oid, msg.Reactions); err != nil {
		return nil, err
	}

	uc.bus.Publish(msg.Scope(), domain.Event{
		Kind:  domain.EventReactionChanged,
		Scope: msg.Scope(),
		Reaction: &domain.ReactionChange{
			MessageID: messageID,
			Emoji:     emoji,
			Users:     users,
		},
	})

	return users, nil
}

// toggleUser mutate the reaction list in place and return the resulting
// user set for the emoji. An emptied entry is removed entirely.
func toggleUser(reactions *[]domain.Reaction, emoji, userID string) []string {
	for i := range *reactions {
		r := &(*reactions)[i]
		if r.Emoji != emoji {
			continue
		}
		if pkg.Contains(r.Users, userID) {
			r.Users = pkg.Remove(r.Users, userID)
			if len(r.Users) == 0 {
				*reactions = append((*reactions)[:i], (*reactions)[i+1:]...)
				return []string{}
			}
			return append([]string(nil), r.Users...)
		}
		r.Users = append(r.Users, userID)
		return append([]string(nil), r.Users...)
	}

	*reactions = append(*reactions, domain.Reaction{Emoji: emoji, Users: []string{userID}})
	return []string{userID}
}

func (uc *ReactionUseCase) lockFor(key string) *sync.Mutex {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	lock, ok := uc.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		uc.locks[key] = lock
	}
	return lock
}
