package sync

import (
	"fmt"
	"time"

	game_constants "Wordfuse/constants/game"
	redis_models "Wordfuse/models/redis"
	"Wordfuse/services/game"
	"Wordfuse/services/redis"
	"Wordfuse/services/rooms"
)

// SyncManager pushes snapshots of the in-memory rooms into the Redis
// directory so the lobby browser and presence queries never have to touch
// the engine. The in-memory state is authoritative; Redis only mirrors it.
type SyncManager struct {
	redisClient *redis.RedisClient
}

// NewSyncManager creates a new instance of the synchronization manager
func NewSyncManager(redisClient *redis.RedisClient) *SyncManager {
	return &SyncManager{redisClient: redisClient}
}

// SyncRoomDirectory refreshes the room's directory entry after a roster or
// lifecycle change. Private rooms are removed from the directory instead.
func (sm *SyncManager) SyncRoomDirectory(handle *rooms.Handle) error {
	if handle.Visibility != game_constants.RoomVisibilityPublic {
		return sm.redisClient.DeleteRoomSummary(handle.Room.Code)
	}

	var summary redis_models.RoomSummary
	err := handle.WithRoom(func(r *game.Room) error {
		summary = redis_models.RoomSummary{
			Code:        r.Code,
			Name:        r.Name,
			PlayerCount: len(r.Players()),
			SeatedCount: len(r.SeatedPlayers()),
			InMatch:     r.Game() != nil,
			UpdatedAt:   time.Now().Unix(),
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("error snapshotting room %s: %v", handle.Room.Code, err)
	}

	if err := sm.redisClient.SaveRoomSummary(&summary); err != nil {
		return fmt.Errorf("error syncing room directory entry: %v", err)
	}
	return nil
}

// SyncPlayerPresence records a player's connectivity transition.
func (sm *SyncManager) SyncPlayerPresence(playerID, roomCode, socketID string, status redis_models.PlayerStatus) error {
	presence := &redis_models.PlayerPresence{
		PlayerID: playerID,
		RoomCode: roomCode,
		Status:   status,
		LastPing: time.Now().Unix(),
		SocketID: socketID,
	}
	if err := sm.redisClient.SavePlayerPresence(presence); err != nil {
		return fmt.Errorf("error syncing player presence: %v", err)
	}
	return nil
}

// RemovePlayerPresence forgets a player who left for good.
func (sm *SyncManager) RemovePlayerPresence(playerID string) error {
	if err := sm.redisClient.DeletePlayerPresence(playerID); err != nil {
		return fmt.Errorf("error removing player presence: %v", err)
	}
	return nil
}

// CleanupRoomData drops everything Redis mirrors for a torn-down room.
func (sm *SyncManager) CleanupRoomData(roomCode string) error {
	if err := sm.redisClient.CleanupRoomData(roomCode); err != nil {
		return fmt.Errorf("error cleaning room data: %v", err)
	}
	return nil
}
