package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/baigcoder/TrueVibe-sub000/internal/realtime/domain"
)

// ConversationRepository definition directory access for conversations
type ConversationRepository interface {
	AutoMigrate() error
	Create(ctx context.Context, conv *domain.Conversation) error
	FindByID(ctx context.Context, id string) (*domain.Conversation, error)
	FindDirectBetween(ctx context.Context, userA, userB string) (*domain.Conversation, error)
	// ListForUser most-recent-activity descending, id descending as the
	// tie-break so rows sharing a millisecond never straddle a page
	// boundary; fetches at most limit rows strictly after the
	// (beforeActivity, beforeID) position (0 = from the top). The caller
	// sizes limit for the N+1 probe.
	ListForUser(ctx context.Context, userID string, limit int, beforeActivity int64, beforeID string) ([]domain.Conversation, error)
	// Touch update the denormalized last-message summary
	Touch(ctx context.Context, id, preview string, at int64) error
}

type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository create a ConversationRepository
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Conversation{}, &domain.ConversationParticipant{})
}

func (r *conversationRepository) Create(ctx context.Context, conv *domain.Conversation) error {
	return r.db.WithContext(ctx).Create(conv).Error
}

func (r *conversationRepository) FindByID(ctx context.Context, id string) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := r.db.WithContext(ctx).Preload("Participants").First(&conv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepository) FindDirectBetween(ctx context.Context, userA, userB string) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := r.db.WithContext(ctx).
		Joins("JOIN conversation_participants pa ON pa.conversation_id = conversations.id AND pa.user_id = ?", userA).
		Joins("JOIN conversation_participants pb ON pb.conversation_id = conversations.id AND pb.user_id = ?", userB).
		Where("conversations.kind = ?", domain.ConversationDirect).
		Preload("Participants").
		First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepository) ListForUser(ctx context.Context, userID string, limit int, beforeActivity int64, beforeID string) ([]domain.Conversation, error) {
	q := r.db.WithContext(ctx).
		Joins("JOIN conversation_participants p ON p.conversation_id = conversations.id AND p.user_id = ?", userID).
		Order("conversations.last_message_at DESC, conversations.id DESC").
		Limit(limit).
		Preload("Participants")
	if beforeActivity > 0 {
		q = q.Where("conversations.last_message_at < ? OR (conversations.last_message_at = ? AND conversations.id < ?)",
			beforeActivity, beforeActivity, beforeID)
	}

	var convs []domain.Conversation
	if err := q.Find(&convs).Error; err != nil {
		return nil, err
	}
	return convs, nil
}

func (r *conversationRepository) Touch(ctx context.Context, id, preview string, at int64) error {
	return r.db.WithContext(ctx).Model(&domain.Conversation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_message_preview": preview,
			"last_message_at":      at,
		}).Error
}
