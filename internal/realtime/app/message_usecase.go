package app

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/baigcoder/TrueVibe-sub000/internal/realtime/domain"
	"github.com/baigcoder/TrueVibe-sub000/internal/realtime/repository"
	"github.com/baigcoder/TrueVibe-sub000/pkg/errs"
)

const previewLength = 80

// MessageUseCase posting, pagination and read markers.
type MessageUseCase struct {
	convRepo repository.ConversationRepository
	srvRepo  repository.ServerRepository
	msgRepo  repository.MessageRepository
	bus      EventPublisher
}

// NewMessageUseCase init message use case
func NewMessageUseCase(
	convRepo repository.ConversationRepository,
	srvRepo repository.ServerRepository,
	msgRepo repository.MessageRepository,
	bus EventPublisher,
) *MessageUseCase {
	return &MessageUseCase{
		convRepo: convRepo,
		srvRepo:  srvRepo,
		msgRepo:  msgRepo,
		bus:      bus,
	}
}

// PostMessage validate membership, persist with a time-ordered identifier,
// refresh the directory activity columns and publish message-created.
func (uc *MessageUseCase) PostMessage(ctx context.Context, scope domain.Scope, senderID, body string, media []string, replyTo string) (*domain.Message, error) {
	if body == "" && len(media) == 0 {
		return nil, errs.InvalidState("empty message")
	}

	if err := uc.validateWriteScope(ctx, scope, senderID); err != nil {
		return nil, err
	}

	if replyTo != "" {
		if _, err := primitive.ObjectIDFromHex(replyTo); err != nil {
			return nil, errs.InvalidState("malformed reply_to identifier")
		}
	}

	now := time.Now().UnixMilli()
	msg := &domain.Message{
		ID:        primitive.NewObjectID(),
		ScopeKind: scope.Kind,
		ScopeID:   scope.ID,
		SenderID:  senderID,
		Body:      body,
		Media:     media,
		ReplyTo:   replyTo,
		ReadBy:    []string{senderID},
		CreatedAt: now,
	}

	if err := uc.msgRepo.Insert(ctx, msg); err != nil {
		return nil, err
	}

	// denormalized activity for list ordering
	switch scope.Kind {
	case domain.ScopeConversation:
		if err := uc.convRepo.Touch(ctx, scope.ID, preview(body), now); err != nil {
			return nil, err
		}
	case domain.ScopeChannel:
		ch, err := uc.srvRepo.FindChannelByID(ctx, scope.ID)
		if err != nil {
			return nil, err
		}
		if ch != nil {
			if err := uc.srvRepo.Touch(ctx, ch.ServerID, now); err != nil {
				return nil, err
			}
		}
	}

	uc.bus.Publish(scope, domain.Event{
		Kind:    domain.EventMessageCreated,
		Scope:   scope,
		Message: msg,
	})

	return msg, nil
}

// ListMessages newest-first page via the N+1 probe: fetch limit+1, return
// at most limit, hasMore and the cursor fall out of the extra row. The
// cursor is the identifier of the oldest returned message.
func (uc *MessageUseCase) ListMessages(ctx context.Context, scope domain.Scope, userID string, limit int, cursor string) (domain.MessagePage, error) {
	if err := uc.validateReadScope(ctx, scope, userID); err != nil {
		return domain.MessagePage{}, err
	}

	limit = clampLimit(limit)

	var before *primitive.ObjectID
	if cursor != "" {
		oid, err := primitive.ObjectIDFromHex(cursor)
		if err != nil {
			return domain.MessagePage{}, errs.InvalidState("malformed cursor")
		}
		before = &oid
	}

	messages, err := uc.msgRepo.FindMessagesBefore(ctx, scope, before, limit+1)
	if err != nil {
		return domain.MessagePage{}, err
	}

	page := domain.MessagePage{Items: messages}
	if len(messages) > limit {
		page.Items = messages[:limit]
		page.HasMore = true
		c := page.Items[limit-1].ID.Hex()
		page.Cursor = &c
	}
	return page, nil
}

// MarkRead add userID to the message read markers
func (uc *MessageUseCase) MarkRead(ctx context.Context, messageID, userID string) error {
	oid, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return errs.InvalidState("malformed message identifier")
	}

	msg, err := uc.msgRepo.FindByID(ctx, oid)
	if err != nil {
		return err
	}
	if msg == nil {
		return errs.NotFound("message not found")
	}
	if err := uc.validateReadScope(ctx, msg.Scope(), userID); err != nil {
		return err
	}

	return uc.msgRepo.MarkRead(ctx, oid, userID)
}

// validateWriteScope membership plus scope-kind rules for posting
func (uc *MessageUseCase) validateWriteScope(ctx context.Context, scope domain.Scope, userID string) error {
	switch scope.Kind {
	case domain.ScopeConversation:
		conv, err := uc.convRepo.FindByID(ctx, scope.ID)
		if err != nil {
			return err
		}
		if conv == nil {
			return errs.NotFound("conversation not found")
		}
		if !conv.HasParticipant(userID) {
			return errs.Forbidden("not a participant of this conversation")
		}
		return nil
	case domain.ScopeChannel:
		ch, err := uc.srvRepo.FindChannelByID(ctx, scope.ID)
		if err != nil {
			return err
		}
		if ch == nil {
			return errs.NotFound("channel not found")
		}
		if ch.Kind == domain.ChannelVoice {
			return errs.InvalidState("voice channels do not host messages")
		}
		member, err := uc.srvRepo.IsMember(ctx, ch.ServerID, userID)
		if err != nil {
			return err
		}
		if !member {
			return errs.Forbidden("not a member of this server")
		}
		return nil
	default:
		return errs.InvalidState("scope does not host messages")
	}
}

func (uc *MessageUseCase) validateReadScope(ctx context.Context, scope domain.Scope, userID string) error {
	// reads carry the same membership rules, minus the voice restriction
	switch scope.Kind {
	case domain.ScopeConversation, domain.ScopeChannel:
		if scope.Kind == domain.ScopeChannel {
			ch, err := uc.srvRepo.FindChannelByID(ctx, scope.ID)
			if err != nil {
				return err
			}
			if ch == nil {
				return errs.NotFound("channel not found")
			}
			member, err := uc.srvRepo.IsMember(ctx, ch.ServerID, userID)
			if err != nil {
				return err
			}
			if !member {
				return errs.Forbidden("not a member of this server")
			}
			return nil
		}
		conv, err := uc.convRepo.FindByID(ctx, scope.ID)
		if err != nil {
			return err
		}
		if conv == nil {
			return errs.NotFound("conversation not found")
		}
		if !conv.HasParticipant(userID) {
			return errs.Forbidden("not a participant of this conversation")
		}
		return nil
	default:
		return errs.InvalidState("scope does not host messages")
	}
}

func preview(body string) string {
	runes := []rune(body)
	if len(runes) <= previewLength {
		return body
	}
	return string(runes[:previewLength])
}
