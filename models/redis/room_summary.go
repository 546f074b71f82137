package redis

// RoomSummary is the public directory entry of a room. Only a projection
// for the lobby browser lives in Redis; the authoritative room state is the
// in-memory engine.
type RoomSummary struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	PlayerCount int    `json:"player_count"`
	SeatedCount int    `json:"seated_count"`
	InMatch     bool   `json:"in_match"`
	UpdatedAt   int64  `json:"updated_at"` // Unix timestamp
}
