package domain

// ScopeKind definition the kind of key events and messages are grouped under
type ScopeKind string

const (
	//ScopeConversation direct or group conversation outside any server
	ScopeConversation ScopeKind = "conversation"
	//ScopeChannel text/announcement channel inside a server
	ScopeChannel ScopeKind = "channel"
	//ScopeRoom voice room (voice channel or ad-hoc bridge)
	ScopeRoom ScopeKind = "room"
)

// Scope is the unit of event fan-out and of serialization: operations on
// different scopes never contend.
type Scope struct {
	Kind ScopeKind `json:"kind" bson:"kind"`
	ID   string    `json:"id" bson:"id"`
}

// Key flat form used as bus/redis channel key
func (s Scope) Key() string {
	return string(s.Kind) + ":" + s.ID
}

// ConversationScope build a conversation scope
func ConversationScope(id string) Scope {
	return Scope{Kind: ScopeConversation, ID: id}
}

// ChannelScope build a channel scope
func ChannelScope(id string) Scope {
	return Scope{Kind: ScopeChannel, ID: id}
}

// RoomScope build a voice room scope
func RoomScope(id string) Scope {
	return Scope{Kind: ScopeRoom, ID: id}
}
