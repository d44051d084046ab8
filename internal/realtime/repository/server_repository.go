package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/baigcoder/TrueVibe-sub000/internal/realtime/domain"
)

// ServerRepository definition directory access for servers, channels and
// the member roster
type ServerRepository interface {
	AutoMigrate() error
	Create(ctx context.Context, srv *domain.Server) error
	FindByID(ctx context.Context, id string) (*domain.Server, error)
	FindByInvite(ctx context.Context, code string) (*domain.Server, error)
	Delete(ctx context.Context, id string) error

	AddMember(ctx context.Context, m *domain.ServerMember) error
	RemoveMember(ctx context.Context, serverID, userID string) error
	IsMember(ctx context.Context, serverID, userID string) (bool, error)
	// ListForUser most-recent-activity descending, id descending as the
	// tie-break; limit rows strictly after the (beforeActivity, beforeID)
	// position (0 = from the top)
	ListForUser(ctx context.Context, userID string, limit int, beforeActivity int64, beforeID string) ([]domain.Server, error)

	CreateChannel(ctx context.Context, ch *domain.Channel) error
	FindChannelByID(ctx context.Context, id string) (*domain.Channel, error)
	ListChannels(ctx context.Context, serverID string) ([]domain.Channel, error)
	ChannelNameExists(ctx context.Context, serverID, name string) (bool, error)

	Touch(ctx context.Context, id string, at int64) error
}

type serverRepository struct {
	db *gorm.DB
}

// NewServerRepository create a ServerRepository
func NewServerRepository(db *gorm.DB) ServerRepository {
	return &serverRepository{db: db}
}

func (r *serverRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Server{}, &domain.ServerMember{}, &domain.Channel{})
}

func (r *serverRepository) Create(ctx context.Context, srv *domain.Server) error {
	// associations (default channel, owner roster row) are created in the
	// same insert
	return r.db.WithContext(ctx).Create(srv).Error
}

func (r *serverRepository) FindByID(ctx context.Context, id string) (*domain.Server, error) {
	var srv domain.Server
	err := r.db.WithContext(ctx).Preload("Channels").First(&srv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &srv, nil
}

func (r *serverRepository) FindByInvite(ctx context.Context, code string) (*domain.Server, error) {
	var srv domain.Server
	err := r.db.WithContext(ctx).First(&srv, "invite_code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &srv, nil
}

func (r *serverRepository) Delete(ctx context.Context, id string) error {
	// channel and roster rows go with the server; child messages become
	// unreachable (mongo purge is a retention concern, not handled here)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("server_id = ?", id).Delete(&domain.Channel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("server_id = ?", id).Delete(&domain.ServerMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Server{}, "id = ?", id).Error
	})
}

func (r *serverRepository) AddMember(ctx context.Context, m *domain.ServerMember) error {
	// re-join is a no-op
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(m).Error
}

func (r *serverRepository) RemoveMember(ctx context.Context, serverID, userID string) error {
	return r.db.WithContext(ctx).
		Where("server_id = ? AND user_id = ?", serverID, userID).
		Delete(&domain.ServerMember{}).Error
}

func (r *serverRepository) IsMember(ctx context.Context, serverID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ServerMember{}).
		Where("server_id = ? AND user_id = ?", serverID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *serverRepository) ListForUser(ctx context.Context, userID string, limit int, beforeActivity int64, beforeID string) ([]domain.Server, error) {
	q := r.db.WithContext(ctx).
		Joins("JOIN server_members m ON m.server_id = servers.id AND m.user_id = ?", userID).
		Order("servers.last_activity_at DESC, servers.id DESC").
		Limit(limit).
		Preload("Channels")
	if beforeActivity > 0 {
		q = q.Where("servers.last_activity_at < ? OR (servers.last_activity_at = ? AND servers.id < ?)",
			beforeActivity, beforeActivity, beforeID)
	}

	var servers []domain.Server
	if err := q.Find(&servers).Error; err != nil {
		return nil, err
	}
	return servers, nil
}

func (r *serverRepository) CreateChannel(ctx context.Context, ch *domain.Channel) error {
	return r.db.WithContext(ctx).Create(ch).Error
}

func (r *serverRepository) FindChannelByID(ctx context.Context, id string) (*domain.Channel, error) {
	var ch domain.Channel
	err := r.db.WithContext(ctx).First(&ch, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

func (r *serverRepository) ListChannels(ctx context.Context, serverID string) ([]domain.Channel, error) {
	var chs []domain.Channel
	err := r.db.WithContext(ctx).
		Where("server_id = ?", serverID).
		Order("position ASC, created_at ASC").
		Find(&chs).Error
	return chs, err
}

func (r *serverRepository) ChannelNameExists(ctx context.Context, serverID, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Channel{}).
		Where("server_id = ? AND name = ?", serverID, name).
		Count(&count).Error
	return count > 0, err
}

func (r *serverRepository) Touch(ctx context.Context, id string, at int64) error {
	return r.db.WithContext(ctx).Model(&domain.Server{}).
		Where("id = ?", id).
		Update("last_activity_at", at).Error
}
