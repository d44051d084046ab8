package app

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/baigcoder/TrueVibe-sub000/internal/realtime/domain"
	"github.com/baigcoder/TrueVibe-sub000/pkg/errs"
)

func TestDirectoryUseCase_CreateConversation_DirectIdempotent(t *testing.T) {
	ctx := context.Background()
	userA := uuid.New().String()
	userB := uuid.New().String()

	mockConvRepo := new(MockConversationRepository)
	mockSrvRepo := new(MockServerRepository)

	existing := &domain.Conversation{
		ID:   uuid.New().String(),
		Kind: domain.ConversationDirect,
		Participants: []domain.ConversationParticipant{
			{UserID: userA}, {UserID: userB},
		},
	}
	mockConvRepo.On("FindDirectBetween", ctx, userB, userA).Return(existing, nil)

	uc := NewDirectoryUseCase(mockConvRepo, mockSrvRepo)
	conv, err := uc.CreateConversation(ctx, userA, []string{userB}, "")

	assert.NoError(t, err)
	assert.Equal(t, existing.ID, conv.ID)
	mockConvRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDirectoryUseCase_CreateConversation_NewDirect(t *testing.T) {
	ctx := context.Background()
	userA := uuid.New().String()
	userB := uuid.New().String()

	mockConvRepo := new(MockConversationRepository)
	mockSrvRepo := new(MockServerRepository)

	mockConvRepo.On("FindDirectBetween", ctx, userB, userA).Return(nil, nil)
	mockConvRepo.On("Create", ctx, mock.Anything).Return(nil)

	uc := NewDirectoryUseCase(mockConvRepo, mockSrvRepo)
	conv, err := uc.CreateConversation(ctx, userA, []string{userB}, "")

	assert.NoError(t, err)
	assert.Equal(t, domain.ConversationDirect, conv.Kind)
	assert.Len(t, conv.Participants, 2)
	assert.True(t, conv.HasParticipant(userA))
	assert.True(t, conv.HasParticipant(userB))
	mockConvRepo.AssertExpectations(t)
}

func TestDirectoryUseCase_CreateConversation_GroupNeverDeduplicated(t *testing.T) {
	ctx := context.Background()
	creator := uuid.New().String()

	mockConvRepo := new(MockConversationRepository)
	mockSrvRepo := new(MockServerRepository)

	mockConvRepo.On("Create", ctx, mock.Anything).Return(nil)

	uc := NewDirectoryUseCase(mockConvRepo, mockSrvRepo)
	conv, err := uc.CreateConversation(ctx, creator, []string{uuid.New().String(), uuid.New().String()}, "weekend plans")

	assert.NoError(t, err)
	assert.Equal(t, domain.ConversationGroup, conv.Kind)
	assert.Len(t, conv.Participants, 3)
	mockConvRepo.AssertNotCalled(t, "FindDirectBetween", mock.Anything, mock.Anything, mock.Anything)
}

func TestDirectoryUseCase_CreateConversation_TooFewParticipants(t *testing.T) {
	ctx := context.Background()
	creator := uuid.New().String()

	uc := NewDirectoryUseCase(new(MockConversationRepository), new(MockServerRepository))
	_, err := uc.CreateConversation(ctx, creator, []string{creator}, "")

	assert.True(t, errs.IsKind(err, errs.KindInvalidState))
}

func TestDirectoryUseCase_CreateServer_DefaultChannelAndOwner(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New().String()

	mockSrvRepo := new(MockServerRepository)
	mockSrvRepo.On("Create", ctx, mock.Anything).Return(nil)

	uc := NewDirectoryUseCase(new(MockConversationRepository), mockSrvRepo)
	srv, err := uc.CreateServer(ctx, "gamers", owner)

	assert.NoError(t, err)
	assert.Equal(t, owner, srv.OwnerID)
	assert.NotEmpty(t, srv.InviteCode)
	assert.Len(t, srv.Channels, 1)
	assert.Equal(t, "general", srv.Channels[0].Name)
	assert.Equal(t, domain.ChannelText, srv.Channels[0].Kind)
	assert.Len(t, srv.Members, 1)
	assert.Equal(t, owner, srv.Members[0].UserID)
	mockSrvRepo.AssertExpectations(t)
}

func TestDirectoryUseCase_JoinServer_UnknownInvite(t *testing.T) {
	ctx := context.Background()

	mockSrvRepo := new(MockServerRepository)
	mockSrvRepo.On("FindByInvite", ctx, "nope").Return(nil, nil)
	mockSrvRepo.On("FindByID", ctx, "nope").Return(nil, nil)

	uc := NewDirectoryUseCase(new(MockConversationRepository), mockSrvRepo)
	_, err := uc.JoinServer(ctx, "nope", uuid.New().String())

	assert.True(t, errs.IsKind(err, errs.KindNotFound))
}

func TestDirectoryUseCase_JoinServer_ByInvite(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()
	srv := &domain.Server{ID: uuid.New().String(), InviteCode: "ab12cd34"}

	mockSrvRepo := new(MockServerRepository)
	mockSrvRepo.On("FindByInvite", ctx, "ab12cd34").Return(srv, nil)
	mockSrvRepo.On("AddMember", ctx, mock.Anything).Return(nil)

	uc := NewDirectoryUseCase(new(MockConversationRepository), mockSrvRepo)
	got, err := uc.JoinServer(ctx, "ab12cd34", userID)

	assert.NoError(t, err)
	assert.Equal(t, srv.ID, got.ID)
	mockSrvRepo.AssertExpectations(t)
}

func TestDirectoryUseCase_LeaveServer_OwnerCannotLeave(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New().String()
	srv := &domain.Server{ID: uuid.New().String(), OwnerID: owner}

	mockSrvRepo := new(MockServerRepository)
	mockSrvRepo.On("FindByID", ctx, srv.ID).Return(srv, nil)

	uc := NewDirectoryUseCase(new(MockConversationRepository), mockSrvRepo)
	err := uc.LeaveServer(ctx, srv.ID, owner)

	assert.True(t, errs.IsKind(err, errs.KindInvalidState))
	mockSrvRepo.AssertNotCalled(t, "RemoveMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestDirectoryUseCase_DeleteServer_NonOwnerForbidden(t *testing.T) {
	ctx := context.Background()
	srv := &domain.Server{ID: uuid.New().String(), OwnerID: uuid.New().String()}

	mockSrvRepo := new(MockServerRepository)
	mockSrvRepo.On("FindByID", ctx, srv.ID).Return(srv, nil)

	uc := NewDirectoryUseCase(new(MockConversationRepository), mockSrvRepo)
	err := uc.DeleteServer(ctx, srv.ID, uuid.New().String())

	assert.True(t, errs.IsKind(err, errs.KindForbidden))
	mockSrvRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDirectoryUseCase_CreateChannel_DuplicateNameConflict(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New().String()
	srv := &domain.Server{ID: uuid.New().String(), OwnerID: owner}

	mockSrvRepo := new(MockServerRepository)
	mockSrvRepo.On("FindByID", ctx, srv.ID).Return(srv, nil)
	mockSrvRepo.On("ChannelNameExists", ctx, srv.ID, "general").Return(true, nil)

	uc := NewDirectoryUseCase(new(MockConversationRepository), mockSrvRepo)
	_, err := uc.CreateChannel(ctx, srv.ID, owner, "general", domain.ChannelText)

	assert.True(t, errs.IsKind(err, errs.KindConflict))
}

func TestDirectoryUseCase_CreateChannel_NonOwnerForbidden(t *testing.T) {
	ctx := context.Background()
	srv := &domain.Server{ID: uuid.New().String(), OwnerID: uuid.New().String()}

	mockSrvRepo := new(MockServerRepository)
	mockSrvRepo.On("FindByID", ctx, srv.ID).Return(srv, nil)

	uc := NewDirectoryUseCase(new(MockConversationRepository), mockSrvRepo)
	_, err := uc.CreateChannel(ctx, srv.ID, uuid.New().String(), "memes", domain.ChannelText)

	assert.True(t, errs.IsKind(err, errs.KindForbidden))
}

func TestDirectoryUseCase_CreateChannel_UnknownKind(t *testing.T) {
	ctx := context.Background()

	uc := NewDirectoryUseCase(new(MockConversationRepository), new(MockServerRepository))
	_, err := uc.CreateChannel(ctx, "srv", "owner", "memes", domain.ChannelKind("holographic"))

	assert.True(t, errs.IsKind(err, errs.KindInvalidState))
}

func TestDirectoryUseCase_ListServersForUser_Pagination(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	servers := []domain.Server{
		{ID: "s1", LastActivityAt: 300},
		{ID: "s2", LastActivityAt: 200},
		{ID: "s3", LastActivityAt: 100},
	}

	mockSrvRepo := new(MockServerRepository)
	mockSrvRepo.On("ListForUser", ctx, userID, 3, int64(0), "").Return(servers, nil)

	uc := NewDirectoryUseCase(new(MockConversationRepository), mockSrvRepo)
	page, err := uc.ListServersForUser(ctx, userID, 2, "")

	assert.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.True(t, page.HasMore)
	assert.NotNil(t, page.Cursor)
	assert.Equal(t, "200:s2", *page.Cursor)
}

func TestDirectoryUseCase_ListServersForUser_LastPage(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	mockSrvRepo := new(MockServerRepository)
	mockSrvRepo.On("ListForUser", ctx, userID, 3, int64(200), "s2").Return([]domain.Server{{ID: "s3", LastActivityAt: 100}}, nil)

	uc := NewDirectoryUseCase(new(MockConversationRepository), mockSrvRepo)
	page, err := uc.ListServersForUser(ctx, userID, 2, "200:s2")

	assert.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.False(t, page.HasMore)
	assert.Nil(t, page.Cursor)
}

// rows sharing an activity millisecond: the cursor carries the id
// tie-break so the next page resumes exactly after the last row
func TestDirectoryUseCase_ListServersForUser_SameActivityTieBreak(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	samePage := []domain.Server{
		{ID: "s9", LastActivityAt: 200},
		{ID: "s8", LastActivityAt: 200},
		{ID: "s7", LastActivityAt: 200},
	}

	mockSrvRepo := new(MockServerRepository)
	mockSrvRepo.On("ListForUser", ctx, userID, 3, int64(0), "").Return(samePage, nil)
	mockSrvRepo.On("ListForUser", ctx, userID, 3, int64(200), "s8").Return([]domain.Server{{ID: "s7", LastActivityAt: 200}}, nil)

	uc := NewDirectoryUseCase(new(MockConversationRepository), mockSrvRepo)

	page1, err := uc.ListServersForUser(ctx, userID, 2, "")
	assert.NoError(t, err)
	assert.Equal(t, "200:s8", *page1.Cursor)

	page2, err := uc.ListServersForUser(ctx, userID, 2, *page1.Cursor)
	assert.NoError(t, err)
	assert.Len(t, page2.Items, 1)
	assert.Equal(t, "s7", page2.Items[0].ID)
	assert.False(t, page2.HasMore)
}

func TestDirectoryUseCase_ListConversationsForUser_MalformedCursor(t *testing.T) {
	ctx := context.Background()

	uc := NewDirectoryUseCase(new(MockConversationRepository), new(MockServerRepository))
	_, err := uc.ListConversationsForUser(ctx, uuid.New().String(), 10, "not-a-timestamp")

	assert.True(t, errs.IsKind(err, errs.KindInvalidState))
}

func TestDirectoryUseCase_AuthorizeScope(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	conv := &domain.Conversation{
		ID:           "conv-1",
		Participants: []domain.ConversationParticipant{{UserID: userID}},
	}
	ch := &domain.Channel{ID: "chan-1", ServerID: "srv-1"}

	mockConvRepo := new(MockConversationRepository)
	mockSrvRepo := new(MockServerRepository)
	mockConvRepo.On("FindByID", ctx, "conv-1").Return(conv, nil)
	mockSrvRepo.On("FindChannelByID", ctx, "chan-1").Return(ch, nil)
	mockSrvRepo.On("IsMember", ctx, "srv-1", userID).Return(false, nil)

	uc := NewDirectoryUseCase(mockConvRepo, mockSrvRepo)

	assert.NoError(t, uc.AuthorizeScope(ctx, domain.ConversationScope("conv-1"), userID))
	assert.True(t, errs.IsKind(uc.AuthorizeScope(ctx, domain.ChannelScope("chan-1"), userID), errs.KindForbidden))
	assert.NoError(t, uc.AuthorizeScope(ctx, domain.RoomScope("room-1"), userID))

	outsider := &domain.Conversation{ID: "conv-1", Participants: []domain.ConversationParticipant{{UserID: "someone-else"}}}
	mockConvRepo2 := new(MockConversationRepository)
	mockConvRepo2.On("FindByID", ctx, "conv-1").Return(outsider, nil)
	uc2 := NewDirectoryUseCase(mockConvRepo2, mockSrvRepo)
	assert.True(t, errs.IsKind(uc2.AuthorizeScope(ctx, domain.ConversationScope("conv-1"), userID), errs.KindForbidden))
}
