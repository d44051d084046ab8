package domain

// TypingState ephemeral typing indicator entry. Held only in tracker
// memory, never persisted; lifecycle is bounded by the expiry window.
type TypingState struct {
	Scope        Scope  `json:"scope"`
	UserID       string `json:"user_id"`
	LastSignaled int64  `json:"last_signaled"`
}
