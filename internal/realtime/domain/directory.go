package domain

// ConversationKind definition conversation type
type ConversationKind string

const (
	//ConversationDirect 1 on 1
	ConversationDirect ConversationKind = "direct"
	//ConversationGroup N participants
	ConversationGroup ConversationKind = "group"
)

// Conversation definition a direct or group text channel outside any
// server. The last-message columns are denormalized for list rendering and
// drive the most-recent-activity ordering.
type Conversation struct {
	ID                 string           `gorm:"primaryKey" json:"id"`
	Kind               ConversationKind `gorm:"index" json:"kind"`
	Name               string           `json:"name,omitempty"`
	LastMessagePreview string           `json:"last_message_preview,omitempty"`
	LastMessageAt      int64            `gorm:"index" json:"last_message_at"`
	CreatedAt          int64            `json:"created_at"`

	Participants []ConversationParticipant `gorm:"foreignKey:ConversationID" json:"participants,omitempty"`
}

// ConversationParticipant join table row, one per member
type ConversationParticipant struct {
	ConversationID string `gorm:"primaryKey" json:"conversation_id"`
	UserID         string `gorm:"primaryKey;index" json:"user_id"`
	JoinedAt       int64  `json:"joined_at"`
}

// HasParticipant check loaded participants for userID
func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// Server definition a named community container owned by one user
type Server struct {
	ID             string `gorm:"primaryKey" json:"id"`
	Name           string `json:"name"`
	IconURL        string `json:"icon_url,omitempty"`
	OwnerID        string `gorm:"index" json:"owner_id"`
	InviteCode     string `gorm:"uniqueIndex" json:"invite_code"`
	LastActivityAt int64  `gorm:"index" json:"last_activity_at"`
	CreatedAt      int64  `json:"created_at"`

	Channels []Channel      `gorm:"foreignKey:ServerID" json:"channels,omitempty"`
	Members  []ServerMember `gorm:"foreignKey:ServerID" json:"members,omitempty"`
}

// ServerMember join table row, one per roster entry
type ServerMember struct {
	ServerID string `gorm:"primaryKey" json:"server_id"`
	UserID   string `gorm:"primaryKey;index" json:"user_id"`
	JoinedAt int64  `json:"joined_at"`
}

// ChannelKind definition channel type
type ChannelKind string

const (
	//ChannelText hosts messages
	ChannelText ChannelKind = "text"
	//ChannelVoice hosts a voice room session
	ChannelVoice ChannelKind = "voice"
	//ChannelAnnouncement hosts messages, owner-post-only at a higher layer
	ChannelAnnouncement ChannelKind = "announcement"
)

// Channel belongs to exactly one server
type Channel struct {
	ID        string      `gorm:"primaryKey" json:"id"`
	ServerID  string      `gorm:"index" json:"server_id"`
	Name      string      `json:"name"`
	Kind      ChannelKind `json:"kind"`
	Position  int         `json:"position"`
	CreatedAt int64       `json:"created_at"`
}
