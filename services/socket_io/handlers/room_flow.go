package handlers

import (
	"errors"
	"log"
	"strings"
	"time"

	redis_models "Wordfuse/models/redis"
	"Wordfuse/services/dictionary"
	"Wordfuse/services/game"
	"Wordfuse/services/redis"
	"Wordfuse/services/rooms"
	socketio_types "Wordfuse/services/socket_io/types"
	"Wordfuse/sync"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// HandleSetSeated toggles whether the player will take part in the next
// match. Seating only matters between matches; the engine ignores it once
// a game is running.
func HandleSetSeated(manager *rooms.Manager, sm *sync.SyncManager, client *socket.Socket,
	roomCode, playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		if len(args) < 1 {
			client.Emit("error", gin.H{"error": "Missing seated flag"})
			return
		}
		seated, ok := args[0].(bool)
		if !ok {
			client.Emit("error", gin.H{"error": "Seated flag must be a boolean"})
			return
		}

		handle, found := manager.Get(roomCode)
		if !found {
			client.Emit("error", gin.H{"error": "Room not found"})
			return
		}

		var statePayload gin.H
		err := handle.WithRoom(func(r *game.Room) error {
			r.SetPlayerSeated(playerID, seated)
			statePayload = RoomStatePayload(r)
			return nil
		})
		if err != nil {
			client.Emit("error", gin.H{"error": err.Error()})
			return
		}

		sio.Sio_server.To(socket.Room(roomCode)).Emit("room_state", statePayload)

		if err := sm.SyncRoomDirectory(handle); err != nil {
			log.Printf("[SEAT-ERROR] Directory sync failed for %s: %v", roomCode, err)
		}
	}
}

// HandleSetName renames the player. A no-op rename (same name) is not
// rebroadcast.
func HandleSetName(manager *rooms.Manager, client *socket.Socket,
	roomCode, playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		if len(args) < 1 {
			client.Emit("error", gin.H{"error": "Missing name"})
			return
		}
		name, ok := args[0].(string)
		if !ok {
			client.Emit("error", gin.H{"error": "Name must be a string"})
			return
		}

		handle, found := manager.Get(roomCode)
		if !found {
			client.Emit("error", gin.H{"error": "Room not found"})
			return
		}

		var changed bool
		var statePayload gin.H
		err := handle.WithRoom(func(r *game.Room) error {
			var err error
			changed, err = r.UpdatePlayerName(playerID, name)
			if err != nil {
				return err
			}
			statePayload = RoomStatePayload(r)
			return nil
		})
		if err != nil {
			client.Emit("error", gin.H{"error": err.Error()})
			return
		}
		if !changed {
			return
		}

		sio.Sio_server.To(socket.Room(roomCode)).Emit("room_state", statePayload)
	}
}

// HandleGetRoomInfo replays the current room snapshot plus recent chat to
// the requesting socket only. Useful right after a reconnect.
func HandleGetRoomInfo(manager *rooms.Manager, redisClient *redis.RedisClient, client *socket.Socket,
	roomCode, playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		handle, found := manager.Get(roomCode)
		if !found {
			client.Emit("error", gin.H{"error": "Room not found"})
			return
		}

		var statePayload, turnPayload gin.H
		err := handle.WithRoom(func(r *game.Room) error {
			statePayload = RoomStatePayload(r)
			if g := r.Game(); g != nil {
				var err error
				turnPayload, err = TurnPayload(g)
				if err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			client.Emit("error", gin.H{"error": err.Error()})
			return
		}

		client.Emit("room_state", statePayload)
		if turnPayload != nil {
			client.Emit("turn_started", turnPayload)
		}

		history, err := redisClient.GetChatHistory(roomCode)
		if err != nil {
			log.Printf("[INFO-ERROR] Chat history fetch failed for %s: %v", roomCode, err)
			return
		}
		client.Emit("chat_history", gin.H{"messages": history})
	}
}

// HandleUpdateRules lets the leader rewrite the room rules between matches.
// The payload is a partial override; omitted fields keep their current
// value. Everything goes through NewRules so a bad payload can never leave
// the room with invalid rules.
func HandleUpdateRules(manager *rooms.Manager, client *socket.Socket,
	roomCode, playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		if len(args) < 1 {
			client.Emit("error", gin.H{"error": "Missing rules payload"})
			return
		}
		payload, ok := args[0].(map[string]interface{})
		if !ok {
			client.Emit("error", gin.H{"error": "Rules payload must be an object"})
			return
		}

		handle, found := manager.Get(roomCode)
		if !found {
			client.Emit("error", gin.H{"error": "Room not found"})
			return
		}

		var rulesPayload gin.H
		err := handle.WithRoom(func(r *game.Room) error {
			if r.LeaderID() != playerID {
				return errors.New("only the leader can change the rules")
			}

			current := r.Rules()
			maxLives := intField(payload, "max_lives", current.MaxLives)
			startingLives := intField(payload, "starting_lives", current.StartingLives)
			minTurn := intField(payload, "min_turn_duration", current.MinTurnDuration)
			minWords := intField(payload, "min_words_per_fragment", current.MinWordsPerFragment)
			template := current.BonusTemplate
			if raw, present := payload["bonus_template"]; present {
				parsed, err := parseBonusTemplate(raw)
				if err != nil {
					return err
				}
				template = parsed
			}

			rules, err := game.NewRules(maxLives, startingLives, template, minTurn, minWords)
			if err != nil {
				return err
			}
			if err := r.UpdateRules(rules); err != nil {
				return err
			}
			rulesPayload = RulesPayload(rules)
			return nil
		})
		if err != nil {
			log.Printf("[RULES-ERROR] Room %s: %v", roomCode, err)
			client.Emit("error", gin.H{"error": err.Error()})
			return
		}

		sio.Sio_server.To(socket.Room(roomCode)).Emit("rules_updated", rulesPayload)
	}
}

// HandleRoomChat stores a chat line in Redis and fans it out to the room.
func HandleRoomChat(manager *rooms.Manager, redisClient *redis.RedisClient, client *socket.Socket,
	roomCode, playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		if len(args) < 1 {
			client.Emit("error", gin.H{"error": "Missing message"})
			return
		}
		message, ok := args[0].(string)
		message = strings.TrimSpace(message)
		if !ok || message == "" {
			client.Emit("error", gin.H{"error": "Missing message"})
			return
		}

		handle, found := manager.Get(roomCode)
		if !found {
			client.Emit("error", gin.H{"error": "Room not found"})
			return
		}

		var playerName string
		err := handle.WithRoom(func(r *game.Room) error {
			p, ok := r.Player(playerID)
			if !ok {
				return errors.New("player not registered in this room")
			}
			playerName = p.Name
			return nil
		})
		if err != nil {
			client.Emit("error", gin.H{"error": err.Error()})
			return
		}

		msg := &redis_models.ChatMessage{
			Message:    message,
			PlayerName: playerName,
			Timestamp:  time.Now(),
		}
		if err := redisClient.AppendChatMessage(roomCode, msg); err != nil {
			log.Printf("[CHAT-ERROR] Room %s: %v", roomCode, err)
		}

		sio.Sio_server.To(socket.Room(roomCode)).Emit("chat_message", gin.H{
			"player_id":   playerID,
			"player_name": playerName,
			"message":     message,
			"timestamp":   msg.Timestamp,
		})
	}
}

// HandleTyping relays a lightweight typing notification to everyone else in
// the room. Nothing is validated against the game; it is purely cosmetic.
func HandleTyping(client *socket.Socket, roomCode, playerID string,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		partial := ""
		if len(args) >= 1 {
			partial, _ = args[0].(string)
		}
		client.To(socket.Room(roomCode)).Emit("player_typing", gin.H{
			"player_id": playerID,
			"partial":   partial,
		})
	}
}

// HandleExitRoom removes the player from the room on purpose. Mid-match
// the player is eliminated first, which may hand the turn over or even end
// the match; the last player out tears the room down.
func HandleExitRoom(manager *rooms.Manager, dict *dictionary.Dictionary, sm *sync.SyncManager,
	client *socket.Socket, roomCode, playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("[EXIT] HandleExitRoom - Player: %s, Room: %s", playerID, roomCode)

		handle, found := manager.Get(roomCode)
		if !found {
			client.Emit("error", gin.H{"error": "Room not found"})
			return
		}

		var res *departureResult
		err := handle.WithRoom(func(r *game.Room) error {
			var err error
			res, err = departRoomLocked(handle, r, dict, playerID)
			return err
		})
		if err != nil {
			client.Emit("error", gin.H{"error": err.Error()})
			return
		}

		client.Leave(socket.Room(roomCode))
		sio.RemoveConnection(playerID)
		client.Emit("room_left", gin.H{"room_code": roomCode})

		if res.roomEmpty {
			manager.Remove(roomCode)
			if err := sm.CleanupRoomData(roomCode); err != nil {
				log.Printf("[EXIT-ERROR] Redis cleanup failed for %s: %v", roomCode, err)
			}
			log.Printf("[EXIT] Room %s is empty, removed", roomCode)
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
			log.Printf("[EXIT-ERROR] Directory sync failed for %s: %v", roomCode, err)
		}
	}
}

// intField reads an integer out of a socket.io JSON payload, where numbers
// always arrive as float64.
func intField(payload map[string]interface{}, key string, fallback int) int {
	raw, present := payload[key]
	if !present {
		return fallback
	}
	if f, ok := raw.(float64); ok {
		return int(f)
	}
	return fallback
}

func parseBonusTemplate(raw interface{}) ([]int, error) {
	list, ok := raw.([]interface{})
	if !ok {
		return nil, errors.New("bonus_template must be an array of 26 integers")
	}
	template := make([]int, len(list))
	for i, v := range list {
		f, ok := v.(float64)
		if !ok {
			return nil, errors.New("bonus_template must be an array of 26 integers")
		}
		template[i] = int(f)
	}
	return template, nil
}
