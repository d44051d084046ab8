package app

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/baigcoder/TrueVibe-sub000/internal/realtime/domain"
	"github.com/baigcoder/TrueVibe-sub000/internal/realtime/repository"
	"github.com/baigcoder/TrueVibe-sub000/pkg/errs"
)

// DirectoryUseCase conversations, servers, channels and membership.
type DirectoryUseCase struct {
	convRepo repository.ConversationRepository
	srvRepo  repository.ServerRepository
}

// NewDirectoryUseCase init directory use case
func NewDirectoryUseCase(c repository.ConversationRepository, s repository.ServerRepository) *DirectoryUseCase {
	return &DirectoryUseCase{
		convRepo: c,
		srvRepo:  s,
	}
}

// CreateConversation create a conversation for the given participants.
// A direct conversation between the same two users is returned instead of
// duplicated, so first-message flows can call this blindly.
func (uc *DirectoryUseCase) CreateConversation(ctx context.Context, creatorID string, participants []string, name string) (*domain.Conversation, error) {
	participants = appendIfNotExists(participants, creatorID)
	if len(participants) < 2 {
		return nil, errs.InvalidState("conversation needs at least 2 participants")
	}

	kind := domain.ConversationGroup
	if len(participants) == 2 && name == "" {
		kind = domain.ConversationDirect
	}

	if kind == domain.ConversationDirect {
		existing, err := uc.convRepo.FindDirectBetween(ctx, participants[0], participants[1])
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	now := time.Now().UnixMilli()
	conv := &domain.Conversation{
		ID:            uuid.New().String(),
		Kind:          kind,
		Name:          name,
		LastMessageAt: now,
		CreatedAt:     now,
	}
	for _, p := range participants {
		conv.Participants = append(conv.Participants, domain.ConversationParticipant{
			ConversationID: conv.ID,
			UserID:         p,
			JoinedAt:       now,
		})
	}

	if err := uc.convRepo.Create(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// CreateServer create a server owned by ownerID with one default text
// channel and the owner on the roster.
func (uc *DirectoryUseCase) CreateServer(ctx context.Context, name, ownerID string) (*domain.Server, error) {
	now := time.Now().UnixMilli()
	srv := &domain.Server{
		ID:             uuid.New().String(),
		Name:           name,
		OwnerID:        ownerID,
		InviteCode:     newInviteCode(),
		LastActivityAt: now,
		CreatedAt:      now,
		Channels: []domain.Channel{
			{
				ID:        uuid.New().String(),
				Name:      "general",
				Kind:      domain.ChannelText,
				CreatedAt: now,
			},
		},
		Members: []domain.ServerMember{
			{UserID: ownerID, JoinedAt: now},
		},
	}
	srv.Channels[0].ServerID = srv.ID
	srv.Members[0].ServerID = srv.ID

	if err := uc.srvRepo.Create(ctx, srv); err != nil {
		return nil, err
	}
	return srv, nil
}

// JoinServer add userID to the roster resolved by invite code or server
// id. Joining a server the user is already in is a no-op success.
func (uc *DirectoryUseCase) JoinServer(ctx context.Context, inviteOrID, userID string) (*domain.Server, error) {
	srv, err := uc.srvRepo.FindByInvite(ctx, inviteOrID)
	if err != nil {
		return nil, err
	}
	if srv == nil {
		srv, err = uc.srvRepo.FindByID(ctx, inviteOrID)
		if err != nil {
			return nil, err
		}
	}
	if srv == nil {
		return nil, errs.NotFound("unknown invite code")
	}

	err = uc.srvRepo.AddMember(ctx, &domain.ServerMember{
		ServerID: srv.ID,
		UserID:   userID,
		JoinedAt: time.Now().UnixMilli(),
	})
	if err != nil {
		return nil, err
	}
	return srv, nil
}

// LeaveServer remove userID from the roster
func (uc *DirectoryUseCase) LeaveServer(ctx context.Context, serverID, userID string) error {
	srv, err := uc.srvRepo.FindByID(ctx, serverID)
	if err != nil {
		return err
	}
	if srv == nil {
		return errs.NotFound("server not found")
	}
	if srv.OwnerID == userID {
		return errs.InvalidState("owner cannot leave, delete the server instead")
	}
	return uc.srvRepo.RemoveMember(ctx, serverID, userID)
}

// DeleteServer owner-only removal; channels and roster go with it, child
// messages become unreachable.
func (uc *DirectoryUseCase) DeleteServer(ctx context.Context, serverID, actorID string) error {
	srv, err := uc.srvRepo.FindByID(ctx, serverID)
	if err != nil {
		return err
	}
	if srv == nil {
		return errs.NotFound("server not found")
	}
	if srv.OwnerID != actorID {
		return errs.Forbidden("only the owner may delete a server")
	}
	return uc.srvRepo.Delete(ctx, serverID)
}

// CreateChannel owner-only; duplicate channel name within the server is a
// conflict.
func (uc *DirectoryUseCase) CreateChannel(ctx context.Context, serverID, actorID, name string, kind domain.ChannelKind) (*domain.Channel, error) {
	switch kind {
	case domain.ChannelText, domain.ChannelVoice, domain.ChannelAnnouncement:
	default:
		return nil, errs.InvalidState("unknown channel kind")
	}

	srv, err := uc.srvRepo.FindByID(ctx, serverID)
	if err != nil {
		return nil, err
	}
	if srv == nil {
		return nil, errs.NotFound("server not found")
	}
	if srv.OwnerID != actorID {
		return nil, errs.Forbidden("only the owner may create channels")
	}

	exists, err := uc.srvRepo.ChannelNameExists(ctx, serverID, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errs.Conflict("channel name already in use")
	}

	ch := &domain.Channel{
		ID:        uuid.New().String(),
		ServerID:  serverID,
		Name:      name,
		Kind:      kind,
		Position:  len(srv.Channels),
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := uc.srvRepo.CreateChannel(ctx, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

// ListChannels channels of a server the user is a member of
func (uc *DirectoryUseCase) ListChannels(ctx context.Context, serverID, userID string) ([]domain.Channel, error) {
	member, err := uc.srvRepo.IsMember(ctx, serverID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, errs.Forbidden("not a member of this server")
	}
	return uc.srvRepo.ListChannels(ctx, serverID)
}

// ListServersForUser most-recent-activity descending with the N+1 probe:
// one extra row decides hasMore without a count query.
func (uc *DirectoryUseCase) ListServersForUser(ctx context.Context, userID string, limit int, cursor string) (domain.ServerPage, error) {
	limit = clampLimit(limit)
	before, beforeID, err := parseActivityCursor(cursor)
	if err != nil {
		return domain.ServerPage{}, err
	}

	servers, err := uc.srvRepo.ListForUser(ctx, userID, limit+1, before, beforeID)
	if err != nil {
		return domain.ServerPage{}, err
	}

	page := domain.ServerPage{Items: servers}
	if len(servers) > limit {
		page.Items = servers[:limit]
		page.HasMore = true
		last := page.Items[limit-1]
		c := activityCursor(last.LastActivityAt, last.ID)
		page.Cursor = &c
	}
	return page, nil
}

// ListConversationsForUser most-recent-activity descending, same probe
func (uc *DirectoryUseCase) ListConversationsForUser(ctx context.Context, userID string, limit int, cursor string) (domain.ConversationPage, error) {
	limit = clampLimit(limit)
	before, beforeID, err := parseActivityCursor(cursor)
	if err != nil {
		return domain.ConversationPage{}, err
	}

	convs, err := uc.convRepo.ListForUser(ctx, userID, limit+1, before, beforeID)
	if err != nil {
		return domain.ConversationPage{}, err
	}

	page := domain.ConversationPage{Items: convs}
	if len(convs) > limit {
		page.Items = convs[:limit]
		page.HasMore = true
		last := page.Items[limit-1]
		c := activityCursor(last.LastMessageAt, last.ID)
		page.Cursor = &c
	}
	return page, nil
}

// AuthorizeScope check userID may read/subscribe to the scope. Voice room
// scopes are open to any authenticated user; the participant grid is
// renderable before joining.
func (uc *DirectoryUseCase) AuthorizeScope(ctx context.Context, scope domain.Scope, userID string) error {
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
		member, err := uc.srvRepo.IsMember(ctx, ch.ServerID, userID)
		if err != nil {
			return err
		}
		if !member {
			return errs.Forbidden("not a member of this server")
		}
		return nil
	case domain.ScopeRoom:
		return nil
	default:
		return errs.InvalidState("unknown scope kind")
	}
}

func newInviteCode() string {
	// first uuid block is short enough to share and unique enough for an
	// invite namespace
	return uuid.New().String()[:8]
}

func appendIfNotExists(list []string, val string) []string {
	for _, v := range list {
		if v == val {
			return list
		}
	}
	return append(list, val)
}

const (
	defaultPageLimit = 50
	maxPageLimit     = 100
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultPageLimit
	}
	if limit > maxPageLimit {
		return maxPageLimit
	}
	return limit
}

// activityCursor opaque list position. The id tie-break keeps rows that
// share an activity millisecond from being skipped across page
// boundaries.
func activityCursor(activity int64, id string) string {
	return strconv.FormatInt(activity, 10) + ":" + id
}

func parseActivityCursor(cursor string) (int64, string, error) {
	if cursor == "" {
		return 0, "", nil
	}
	parts := strings.SplitN(cursor, ":", 2)
	if len(parts) != 2 || parts[1] == "" {
		return 0, "", errs.InvalidState("malformed cursor")
	}
	v, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || v <= 0 {
		return 0, "", errs.InvalidState("malformed cursor")
	}
	return v, parts[1], nil
}
