package handlers

import (
	"log"
	"time"

	game_constants "Wordfuse/constants/game"
	redis_models "Wordfuse/models/redis"
	"Wordfuse/services/dictionary"
	"Wordfuse/services/game"
	"Wordfuse/services/rooms"
	socketio_types "Wordfuse/services/socket_io/types"
	"Wordfuse/sync"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// HandleDisconnecting runs when a socket drops without an explicit
// exit_room. The player keeps their roster spot for a grace window so a
// page refresh or flaky network does not cost them the seat; only if they
// are still gone when the window closes are they removed for real.
func HandleDisconnecting(manager *rooms.Manager, dict *dictionary.Dictionary, sm *sync.SyncManager,
	client *socket.Socket, roomCode, playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		// A player who already re-attached with a fresh socket owns the
		// map entry now; a late disconnect from the old socket must not
		// tear that down or arm a reap against them.
		if conn, registered := sio.GetConnection(playerID); !registered || conn != client {
			log.Printf("[DISCONNECT] Stale socket for player %s in room %s, ignoring", playerID, roomCode)
			return
		}

		log.Printf("[DISCONNECT] Player %s dropped from room %s", playerID, roomCode)

		sio.RemoveConnection(playerID)

		handle, ok := manager.Get(roomCode)
		if !ok {
			return
		}

		var statePayload gin.H
		err := handle.WithRoom(func(r *game.Room) error {
			r.SetPlayerConnected(playerID, false)
			statePayload = RoomStatePayload(r)
			return nil
		})
		if err != nil {
			log.Printf("[DISCONNECT-ERROR] Room %s: %v", roomCode, err)
			return
		}

		sio.Sio_server.To(socket.Room(roomCode)).Emit("room_state", statePayload)

		if err := sm.SyncPlayerPresence(playerID, roomCode, string(client.Id()), redis_models.StatusOffline); err != nil {
			log.Printf("[DISCONNECT-ERROR] Presence sync failed for %s: %v", playerID, err)
		}

		go func() {
			time.Sleep(game_constants.ReconnectGraceSeconds * time.Second)
			reapIfStillGone(manager, dict, sm, roomCode, playerID, sio)
		}()
	}
}

// reapIfStillGone removes a player whose grace window expired without a
// reconnect. Mid-match the player is eliminated first, which can hand the
// turn over or end the match.
func reapIfStillGone(manager *rooms.Manager, dict *dictionary.Dictionary, sm *sync.SyncManager,
	roomCode, playerID string, sio *socketio_types.SocketServer) {
	handle, ok := manager.Get(roomCode)
	if !ok {
		return
	}

	var res *departureResult
	err := handle.WithRoom(func(r *game.Room) error {
		p, present := r.Player(playerID)
		if !present || p.IsConnected {
			return nil
		}
		var err error
		res, err = departRoomLocked(handle, r, dict, playerID)
		return err
	})
	if err != nil {
		log.Printf("[DISCONNECT-ERROR] Reaping %s from room %s: %v", playerID, roomCode, err)
		return
	}
	if res == nil {
		return
	}

	log.Printf("[DISCONNECT] Player %s (%s) did not return to room %s, removed", playerID, res.leftName, roomCode)

	if err := sm.RemovePlayerPresence(playerID); err != nil {
		log.Printf("[DISCONNECT-ERROR] Presence cleanup failed for %s: %v", playerID, err)
	}

	if res.roomEmpty {
		manager.Remove(roomCode)
		if err := sm.CleanupRoomData(roomCode); err != nil {
			log.Printf("[DISCONNECT-ERROR] Redis cleanup failed for %s: %v", roomCode, err)
		}
		log.Printf("[DISCONNECT] Room %s is empty, removed", roomCode)
		return
	}

	room := socket.Room(roomCode)
	sio.Sio_server.To(room).Emit("player_left", gin.H{"player_id": playerID, "player_name": res.leftName})
	if res.eliminatedPayload != nil {
		sio.Sio_server.To(room).Emit("player_eliminated", res.eliminatedPayload)
	}
	if res.endedPayload != nil {
		sio.Sio_server.To(room).Emit("game_ended", res.endedPayload)
	}
	sio.Sio_server.To(room).Emit("room_state", res.statePayload)
	if res.turnPayload != nil {
		sio.Sio_server.To(room).Emit("turn_started", res.turnPayload)
		scheduleBombCountdown(manager, dict, sm, roomCode, sio, res.epoch, res.bombSeconds)
	}

	if err := sm.SyncRoomDirectory(handle); err != nil {
		log.Printf("[DISCONNECT-ERROR] Directory sync failed for %s: %v", roomCode, err)
	}
}
