package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	redis_models "Wordfuse/models/redis"
	redis_utils "Wordfuse/services/redis/utils"

	"github.com/redis/go-redis/v9"
)

// Presence and directory entries expire on their own so a crashed server
// never leaves ghost rooms in the browser.
const (
	presenceTTL  = 2 * time.Minute
	directoryTTL = 24 * time.Hour
	chatTTL      = 24 * time.Hour
	chatMaxLen   = 100
)

// RedisClient handles Redis operations
type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(addr string, db int) *RedisClient {
	var client *redis.Client
	if addr != "localhost:6379" {
		log.Println("Connecting to remote Redis...")
		opt, err := redis.ParseURL(addr)
		if err != nil {
			panic("Error parsing Redis URL")
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   db,
		})
	}
	return &RedisClient{
		client: client,
		ctx:    context.Background(),
	}
}

// SavePlayerPresence stores a player's connectivity record.
// Key format: "presence:{playerID}"
func (rc *RedisClient) SavePlayerPresence(presence *redis_models.PlayerPresence) error {
	key := redis_utils.FormatPresenceKey(presence.PlayerID)
	data, err := json.Marshal(presence)
	if err != nil {
		return fmt.Errorf("error marshaling presence data: %v", err)
	}
	return rc.client.Set(rc.ctx, key, data, presenceTTL).Err()
}

// GetPlayerPresence retrieves a player's connectivity record.
// Key format: "presence:{playerID}"
func (rc *RedisClient) GetPlayerPresence(playerID string) (*redis_models.PlayerPresence, error) {
	key := redis_utils.FormatPresenceKey(playerID)
	data, err := rc.client.Get(rc.ctx, key).Bytes()
	if err != nil {
		return nil, fmt.Errorf("error getting presence data: %v", err)
	}

	var presence redis_models.PlayerPresence
	if err := json.Unmarshal(data, &presence); err != nil {
		return nil, fmt.Errorf("error unmarshaling presence data: %v", err)
	}
	return &presence, nil
}

// DeletePlayerPresence removes a player's connectivity record.
func (rc *RedisClient) DeletePlayerPresence(playerID string) error {
	key := redis_utils.FormatPresenceKey(playerID)
	if err := rc.client.Del(rc.ctx, key).Err(); err != nil {
		return fmt.Errorf("error deleting presence data: %v", err)
	}
	return nil
}

// SaveRoomSummary stores a room's directory entry.
// Key format: "room_directory:{code}"
func (rc *RedisClient) SaveRoomSummary(summary *redis_models.RoomSummary) error {
	key := redis_utils.FormatRoomSummaryKey(summary.Code)
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("error marshaling room summary: %v", err)
	}
	return rc.client.Set(rc.ctx, key, data, directoryTTL).Err()
}

// GetRoomSummary retrieves a room's directory entry.
func (rc *RedisClient) GetRoomSummary(roomCode string) (*redis_models.RoomSummary, error) {
	key := redis_utils.FormatRoomSummaryKey(roomCode)
	data, err := rc.client.Get(rc.ctx, key).Bytes()
	if err != nil {
		return nil, fmt.Errorf("error getting room summary: %v", err)
	}

	var summary redis_models.RoomSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("error unmarshaling room summary: %v", err)
	}
	return &summary, nil
}

// DeleteRoomSummary removes a room's directory entry.
func (rc *RedisClient) DeleteRoomSummary(roomCode string) error {
	key := redis_utils.FormatRoomSummaryKey(roomCode)
	if err := rc.client.Del(rc.ctx, key).Err(); err != nil {
		return fmt.Errorf("error deleting room summary: %v", err)
	}
	return nil
}

// ListPublicRooms scans the directory and returns every room entry found.
func (rc *RedisClient) ListPublicRooms() ([]redis_models.RoomSummary, error) {
	var summaries []redis_models.RoomSummary

	iter := rc.client.Scan(rc.ctx, 0, redis_utils.RoomSummaryKeyPattern, 100).Iterator()
	for iter.Next(rc.ctx) {
		data, err := rc.client.Get(rc.ctx, iter.Val()).Bytes()
		if err != nil {
			// The entry may have expired between SCAN and GET.
			continue
		}
		var summary redis_models.RoomSummary
		if err := json.Unmarshal(data, &summary); err != nil {
			log.Printf("[REDIS-ERROR] Skipping bad room summary %s: %v", iter.Val(), err)
			continue
		}
		summaries = append(summaries, summary)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("error scanning room directory: %v", err)
	}
	return summaries, nil
}

// AppendChatMessage pushes a message onto the room's chat history, capped
// at chatMaxLen entries.
// Key format: "room:{code}:chat"
func (rc *RedisClient) AppendChatMessage(roomCode string, msg *redis_models.ChatMessage) error {
	key := redis_utils.FormatChatKey(roomCode)
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("error marshaling chat message: %v", err)
	}

	pipe := rc.client.Pipeline()
	pipe.LPush(rc.ctx, key, data)
	pipe.LTrim(rc.ctx, key, 0, chatMaxLen-1)
	pipe.Expire(rc.ctx, key, chatTTL)
	if _, err := pipe.Exec(rc.ctx); err != nil {
		return fmt.Errorf("error appending chat message: %v", err)
	}
	return nil
}

// GetChatHistory returns the room's chat, newest first.
func (rc *RedisClient) GetChatHistory(roomCode string) ([]redis_models.ChatMessage, error) {
	key := redis_utils.FormatChatKey(roomCode)
	raw, err := rc.client.LRange(rc.ctx, key, 0, chatMaxLen-1).Result()
	if err != nil {
		return nil, fmt.Errorf("error getting chat history: %v", err)
	}

	messages := make([]redis_models.ChatMessage, 0, len(raw))
	for _, item := range raw {
		var msg redis_models.ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// CleanupRoomData removes everything Redis holds about a room.
func (rc *RedisClient) CleanupRoomData(roomCode string) error {
	pipe := rc.client.Pipeline()
	pipe.Del(rc.ctx, redis_utils.FormatRoomSummaryKey(roomCode))
	pipe.Del(rc.ctx, redis_utils.FormatChatKey(roomCode))
	if _, err := pipe.Exec(rc.ctx); err != nil {
		return fmt.Errorf("error cleaning up room data: %v", err)
	}
	return nil
}

// CleanupKeys removes the specified keys from Redis
func (rc *RedisClient) CleanupKeys(keys []string) error {
	for _, key := range keys {
		if err := rc.client.Del(rc.ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to cleanup Redis key %s: %v", key, err)
		}
	}
	return nil
}
