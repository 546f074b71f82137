package redis

type PlayerStatus string

const (
	StatusOnline  PlayerStatus = "online"
	StatusOffline PlayerStatus = "offline"
	StatusPlaying PlayerStatus = "playing"
)

// PlayerPresence is the live connectivity record of one player, kept in
// Redis so the transport layer can route direct messages and apply the
// reconnection grace window after a restart.
type PlayerPresence struct {
	PlayerID string       `json:"player_id"`
	RoomCode string       `json:"room_code"`
	Status   PlayerStatus `json:"status"`
	LastPing int64        `json:"last_ping"` // Unix timestamp
	SocketID string       `json:"socket_id"` // For direct messaging
}
