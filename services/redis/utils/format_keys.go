package utils

/**
 * This file contains utility functions to format the keys for Redis
 * (key, value) pairs. It avoids having to call "fmt.Sprintf(...)"
 * with the same format spec every time, potentially confusing the key format.
 */

import "fmt"

func FormatPresenceKey(playerID string) string {
	return fmt.Sprintf("presence:%s", playerID)
}

func FormatRoomSummaryKey(roomCode string) string {
	return fmt.Sprintf("room_directory:%s", roomCode)
}

func FormatChatKey(roomCode string) string {
	return fmt.Sprintf("room:%s:chat", roomCode)
}

const RoomSummaryKeyPattern = "room_directory:*"
