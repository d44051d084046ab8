package app

import (
	"sort"
	"sync"
	"time"

	"github.com/baigcoder/TrueVibe-sub000/internal/realtime/domain"
	"github.com/baigcoder/TrueVibe-sub000/pkg/errs"
)

type roomState struct {
	participants map[string]*domain.Participant
}

// VoiceRoomManager signaling-side state of voice rooms: who is in which
// room and their media flags. Sessions exist from first join to last
// leave; media transport is out of scope.
type VoiceRoomManager struct {
	bus EventPublisher

	mu    sync.Mutex
	rooms map[string]*roomState
}

// NewVoiceRoomManager init voice room manager
func NewVoiceRoomManager(bus EventPublisher) *VoiceRoomManager {
	return &VoiceRoomManager{
		bus:   bus,
		rooms: make(map[string]*roomState),
	}
}

// Join add userID to the room, creating the session on first join.
// Idempotent: a second join returns the existing participant unchanged and
// publishes nothing.
func (m *VoiceRoomManager) Join(roomID, userID string) (domain.Participant, error) {
	m.mu.Lock()
	room, ok := m.rooms[roomID]
	if !ok {
		room = &roomState{participants: make(map[string]*domain.Participant)}
		m.rooms[roomID] = room
	}

	if p, ok := room.participants[userID]; ok {
		snapshot := *p
		m.mu.Unlock()
		return snapshot, nil
	}

	p := &domain.Participant{
		UserID:   userID,
		JoinedAt: time.Now().UnixMilli(),
	}
	room.participants[userID] = p
	snapshot := *p
	m.mu.Unlock()

	m.publish(domain.EventRoomParticipantJoined, roomID, snapshot)
	return snapshot, nil
}

// Leave remove userID from the room; the session is torn down with its
// last participant. Leaving is terminal, a re-join starts fresh.
func (m *VoiceRoomManager) Leave(roomID, userID string) error {
	m.mu.Lock()
	room, ok := m.rooms[roomID]
	if !ok {
		m.mu.Unlock()
		return errs.NotFound("voice room not found")
	}

	p, ok := room.participants[userID]
	if !ok {
		m.mu.Unlock()
		return errs.InvalidState("user not joined to this room")
	}

	snapshot := *p
	delete(room.participants, userID)
	if len(room.participants) == 0 {
		delete(m.rooms, roomID)
	}
	m.mu.Unlock()

	m.publish(domain.EventRoomParticipantLeft, roomID, snapshot)
	return nil
}

// SetMuted toggle the muted flag
func (m *VoiceRoomManager) SetMuted(roomID, userID string, value bool) (domain.Participant, error) {
	return m.setFlag(roomID, userID, func(p *domain.Participant) { p.Muted = value })
}

// SetVideoOff toggle the video-off flag
func (m *VoiceRoomManager) SetVideoOff(roomID, userID string, value bool) (domain.Participant, error) {
	return m.setFlag(roomID, userID, func(p *domain.Participant) { p.VideoOff = value })
}

// SetScreenSharing toggle the screen-sharing flag. Multiple simultaneous
// sharers are permitted; turning one on does not force others off.
func (m *VoiceRoomManager) SetScreenSharing(roomID, userID string, value bool) (domain.Participant, error) {
	return m.setFlag(roomID, userID, func(p *domain.Participant) { p.ScreenSharing = value })
}

// Session current participants of the room, join order, for late joiners
func (m *VoiceRoomManager) Session(roomID string) (*domain.VoiceRoomSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return nil, false
	}

	session := &domain.VoiceRoomSession{RoomID: roomID}
	for _, p := range room.participants {
		session.Participants = append(session.Participants, *p)
	}
	sort.Slice(session.Participants, func(i, j int) bool {
		return session.Participants[i].JoinedAt < session.Participants[j].JoinedAt
	})
	return session, true
}

// setFlag mutate one media flag and publish the full flag set, not a
// delta, so late subscribers reconstruct state without replay.
func (m *VoiceRoomManager) setFlag(roomID, userID string, mutate func(p *domain.Participant)) (domain.Participant, error) {
	m.mu.Lock()
	room, ok := m.rooms[roomID]
	if !ok {
		m.mu.Unlock()
		return domain.Participant{}, errs.NotFound("voice room not found")
	}

	p, ok := room.participants[userID]
	if !ok {
		m.mu.Unlock()
		return domain.Participant{}, errs.InvalidState("user not joined to this room")
	}

	mutate(p)
	snapshot := *p
	m.mu.Unlock()

	m.publish(domain.EventRoomParticipantStateChanged, roomID, snapshot)
	return snapshot, nil
}

func (m *VoiceRoomManager) publish(kind domain.EventKind, roomID string, p domain.Participant) {
	scope := domain.RoomScope(roomID)
	m.bus.Publish(scope, domain.Event{
		Kind:  kind,
		Scope: scope,
		Room: &domain.RoomChange{
			RoomID:      roomID,
			Participant: p,
		},
	})
}
