package redis

import "time"

// ChatMessage represents a message in the room chat
type ChatMessage struct {
	Message    string    `json:"message"`
	PlayerName string    `json:"player_name"`
	Timestamp  time.Time `json:"timestamp"`
}
