package handlers

import (
	"errors"
	"log"

	redis_models "Wordfuse/models/redis"
	"Wordfuse/services/game"
	"Wordfuse/services/rooms"
	socketio_types "Wordfuse/services/socket_io/types"
	"Wordfuse/sync"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// HandleJoinRoom attaches an authenticated socket to its room channel.
// The player must already be on the roster (the HTTP join endpoint put
// them there and minted their token), so this doubles as the
// reconnection path: it just flips the connected flag back on and
// replays the room state.
func HandleJoinRoom(manager *rooms.Manager, sm *sync.SyncManager, client *socket.Socket,
	roomCode, playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("[JOIN] HandleJoinRoom - Player: %s, Room: %s", playerID, roomCode)

		handle, ok := manager.Get(roomCode)
		if !ok {
			client.Emit("error", gin.H{"error": "Room not found"})
			return
		}

		var statePayload gin.H
		err := handle.WithRoom(func(r *game.Room) error {
			if _, ok := r.Player(playerID); !ok {
				return errors.New("player not registered in this room")
			}
			r.SetPlayerConnected(playerID, true)
			statePayload = RoomStatePayload(r)
			return nil
		})
		if err != nil {
			log.Printf("[JOIN-ERROR] %v", err)
			client.Emit("error", gin.H{"error": err.Error()})
			return
		}

		client.Join(socket.Room(roomCode))
		sio.AddConnection(playerID, client)

		client.Emit("room_joined", gin.H{"room_code": roomCode, "player_id": playerID})
		sio.Sio_server.To(socket.Room(roomCode)).Emit("room_state", statePayload)

		if err := sm.SyncPlayerPresence(playerID, roomCode, string(client.Id()), redis_models.StatusOnline); err != nil {
			log.Printf("[JOIN-ERROR] Presence sync failed for %s: %v", playerID, err)
		}
		if err := sm.SyncRoomDirectory(handle); err != nil {
			log.Printf("[JOIN-ERROR] Directory sync failed for %s: %v", roomCode, err)
		}
	}
}
