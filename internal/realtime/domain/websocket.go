package domain

// Action websocket request action
type Action string

const (
	// CreateConversation websocket action create_conversation
	CreateConversation Action = "create_conversation"
	// CreateServer websocket action create_server
	CreateServer Action = "create_server"
	// JoinServer websocket action join_server
	JoinServer Action = "join_server"
	// LeaveServer websocket action leave_server
	LeaveServer Action = "leave_server"
	// DeleteServer websocket action delete_server
	DeleteServer Action = "delete_server"
	// CreateChannel websocket action create_channel
	CreateChannel Action = "create_channel"
	// ListServers websocket action list_servers
	ListServers Action = "list_servers"
	// ListConversations websocket action list_conversations
	ListConversations Action = "list_conversations"
	// ListChannels websocket action list_channels
	ListChannels Action = "list_channels"

	// EnterScope websocket action enter_scope, subscribe to live events
	EnterScope Action = "enter_scope"
	// LeaveScope websocket action leave_scope
	LeaveScope Action = "leave_scope"

	// SendMessage websocket action send_message
	SendMessage Action = "send_message"
	// ListMessages websocket action list_messages
	ListMessages Action = "list_messages"
	// ReadMessage websocket action read_message
	ReadMessage Action = "read_message"
	// ToggleReaction websocket action toggle_reaction
	ToggleReaction Action = "toggle_reaction"

	// TypingStart websocket action typing_start
	TypingStart Action = "typing_start"
	// TypingStop websocket action typing_stop
	TypingStop Action = "typing_stop"

	// JoinVoice websocket action join_voice
	JoinVoice Action = "join_voice"
	// LeaveVoice websocket action leave_voice
	LeaveVoice Action = "leave_voice"
	// SetMuted websocket action set_muted
	SetMuted Action = "set_muted"
	// SetVideoOff websocket action set_video_off
	SetVideoOff Action = "set_video_off"
	// SetScreenShare websocket action set_screen_share
	SetScreenShare Action = "set_screen_share"

	// NotifyEvent server push of a realtime event
	NotifyEvent Action = "notify_event"
)

// WSRequest websocket Request
type WSRequest struct {
	Action    string   `json:"action"`
	ScopeKind string   `json:"scope_kind,omitempty"`
	ScopeID   string   `json:"scope_id,omitempty"`
	Name      string   `json:"name,omitempty"`
	Members   []string `json:"members,omitempty"`
	Invite    string   `json:"invite,omitempty"`
	ServerID  string   `json:"server_id,omitempty"`
	Kind      string   `json:"channel_kind,omitempty"`
	Content   string   `json:"content,omitempty"`
	Media     []string `json:"media,omitempty"`
	ReplyTo   string   `json:"reply_to,omitempty"`
	MessageID string   `json:"message_id,omitempty"`
	Emoji     string   `json:"emoji,omitempty"`
	RoomID    string   `json:"room_id,omitempty"`
	Value     bool     `json:"value,omitempty"`
	Limit     int      `json:"limit,omitempty"`
	Cursor    string   `json:"cursor,omitempty"`
}

// WSResponse websocket Response
type WSResponse struct {
	Action    string                 `json:"action"`
	Success   bool                   `json:"success"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Error     string                 `json:"error,omitempty"`
	ErrorKind string                 `json:"error_kind,omitempty"`
}
