package domain

// Participant one user inside a voice room. The three media flags are
// independent and only toggleable while joined; leaving is terminal and a
// re-join starts from a fresh record.
type Participant struct {
	UserID        string `json:"user_id"`
	Muted         bool   `json:"muted"`
	VideoOff      bool   `json:"video_off"`
	ScreenSharing bool   `json:"screen_sharing"`
	JoinedAt      int64  `json:"joined_at"`
}

// VoiceRoomSession keyed by voice channel id or ad-hoc room id. Created on
// first join, destroyed when the last participant leaves.
type VoiceRoomSession struct {
	RoomID       string        `json:"room_id"`
	Participants []Participant `json:"participants"`
}
