package domain

// EventKind definition the closed set of realtime event variants. Unknown
// kinds are rejected at the boundary.
type EventKind string

const (
	// EventMessageCreated a message was posted to the scope
	EventMessageCreated EventKind = "message-created"
	// EventReactionChanged a reaction set changed, carries the full user set
	EventReactionChanged EventKind = "reaction-changed"
	// EventTypingChanged a user started or stopped typing
	EventTypingChanged EventKind = "typing-changed"
	// EventRoomParticipantJoined a user joined a voice room
	EventRoomParticipantJoined EventKind = "room-participant-joined"
	// EventRoomParticipantLeft a user left a voice room
	EventRoomParticipantLeft EventKind = "room-participant-left"
	// EventRoomParticipantStateChanged a participant media flag changed,
	// carries the full flag set so late subscribers need no replay
	EventRoomParticipantStateChanged EventKind = "room-participant-state-changed"
)

var eventKinds = map[EventKind]bool{
	EventMessageCreated:              true,
	EventReactionChanged:             true,
	EventTypingChanged:               true,
	EventRoomParticipantJoined:       true,
	EventRoomParticipantLeft:         true,
	EventRoomParticipantStateChanged: true,
}

// ValidEventKind check kind is part of the closed set
func ValidEventKind(k EventKind) bool {
	return eventKinds[k]
}

// Event one realtime event. Exactly one of the payload pointers is set,
// matching Kind. Delivery is at-least-once; clients de-duplicate by the
// identifiers carried in the payload.
type Event struct {
	Kind  EventKind `json:"kind"`
	Scope Scope     `json:"scope"`
	At    int64     `json:"at"`

	Message  *Message        `json:"message,omitempty"`
	Reaction *ReactionChange `json:"reaction,omitempty"`
	Typing   *TypingChange   `json:"typing,omitempty"`
	Room     *RoomChange     `json:"room,omitempty"`
}

// ReactionChange full converged user set for one (message, emoji)
type ReactionChange struct {
	MessageID string   `json:"message_id"`
	Emoji     string   `json:"emoji"`
	Users     []string `json:"users"`
}

// TypingChange typing indicator transition for one user in the scope
type TypingChange struct {
	UserID   string `json:"user_id"`
	IsTyping bool   `json:"is_typing"`
}

// RoomChange voice room membership/state transition. Participant is the
// affected user's full flag set at event time.
type RoomChange struct {
	RoomID      string      `json:"room_id"`
	Participant Participant `json:"participant"`
}
