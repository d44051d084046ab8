package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// Message definition one chat message. The ObjectID doubles as the
// pagination cursor: its ordering is consistent with creation order.
// Immutable after creation except reactions and read markers; is_deleted is
// set by moderation only.
type Message struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	ScopeKind ScopeKind          `bson:"scope_kind" json:"scope_kind"`
	ScopeID   string             `bson:"scope_id" json:"scope_id"`
	SenderID  string             `bson:"sender_id" json:"sender_id"`
	Body      string             `bson:"body" json:"body"`
	Media     []string           `bson:"media,omitempty" json:"media,omitempty"`
	ReplyTo   string             `bson:"reply_to,omitempty" json:"reply_to,omitempty"`
	Reactions []Reaction         `bson:"reactions,omitempty" json:"reactions,omitempty"`
	ReadBy    []string           `bson:"read_by,omitempty" json:"read_by,omitempty"`
	CreatedAt int64              `bson:"created_at" json:"created_at"`
	IsDeleted bool               `bson:"is_deleted" json:"-"`
}

// Scope the scope this message belongs to
func (m *Message) Scope() Scope {
	return Scope{Kind: m.ScopeKind, ID: m.ScopeID}
}

// Reaction one emoji on one message with the set of reacting users. A user
// appears at most once; the entry is removed when its user set empties.
type Reaction struct {
	Emoji string   `bson:"emoji" json:"emoji"`
	Users []string `bson:"users" json:"users"`
}

// MessagePage the external pagination contract: callers never receive more
// than limit items and reuse cursor verbatim on the next request.
type MessagePage struct {
	Items   []Message `json:"items"`
	Cursor  *string   `json:"cursor"`
	HasMore bool      `json:"hasMore"`
}

// ConversationPage list page of conversations, same envelope shape
type ConversationPage struct {
	Items   []Conversation `json:"items"`
	Cursor  *string        `json:"cursor"`
	HasMore bool           `json:"hasMore"`
}

// ServerPage list page of servers, same envelope shape
type ServerPage struct {
	Items   []Server `json:"items"`
	Cursor  *string  `json:"cursor"`
	HasMore bool     `json:"hasMore"`
}
