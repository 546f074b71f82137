package controllers

import (
	"log"
	"net/http"
	"strings"

	game_constants "Wordfuse/constants/game"
	"Wordfuse/middleware"
	"Wordfuse/services/game"
	"Wordfuse/services/redis"
	"Wordfuse/services/rooms"
	"Wordfuse/sync"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// @Summary Creates a new room
// @Description Creates a room with the default rules, registers the creator as its leader and returns the room code plus the creator's room token
// @Tags room
// @Accept json
// @Produce json
// @Param data body object{name=string,player_name=string,visibility=string,password=string} true "Room settings"
// @Success 200 {object} object{room_code=string,player_id=string,token=string}
// @Failure 400 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /rooms [post]
func CreateRoom(manager *rooms.Manager, sm *sync.SyncManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Name       string `json:"name"`
			PlayerName string `json:"player_name"`
			Visibility string `json:"visibility"`
			Password   string `json:"password"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if body.Visibility == "" {
			body.Visibility = game_constants.RoomVisibilityPublic
		}
		if strings.TrimSpace(body.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Room name is required"})
			return
		}
		if err := game.ValidatePlayerName(body.PlayerName); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		handle, err := manager.Create(body.Name, body.Visibility, body.Password, game.DefaultRules())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		playerID := uuid.New().String()
		err = handle.WithRoom(func(r *game.Room) error {
			_, err := r.AddPlayer(playerID, body.PlayerName)
			return err
		})
		if err != nil {
			manager.Remove(handle.Room.Code)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating room"})
			return
		}

		token, err := middleware.IssueRoomToken(handle.Room.Code, playerID)
		if err != nil {
			log.Printf("[ROOM-ERROR] Token mint failed: %v", err)
			manager.Remove(handle.Room.Code)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating room"})
			return
		}

		session := sessions.Default(c)
		session.Set("player_id", playerID)
		session.Set("room_code", handle.Room.Code)
		if err := session.Save(); err != nil {
			log.Printf("[ROOM-ERROR] Session save failed: %v", err)
		}

		if err := sm.SyncRoomDirectory(handle); err != nil {
			log.Printf("[ROOM-ERROR] Directory sync failed for %s: %v", handle.Room.Code, err)
		}

		log.Printf("[ROOM] Created room %s (%s)", handle.Room.Code, body.Visibility)
		c.JSON(http.StatusOK, gin.H{
			"room_code": handle.Room.Code,
			"player_id": playerID,
			"token":     token,
		})
	}
}

// @Summary Lists public rooms
// @Description Returns the directory of public rooms from Redis
// @Tags room
// @Produce json
// @Success 200 {array} object{code=string,name=string,player_count=integer,seated_count=integer,in_match=boolean}
// @Failure 500 {object} object{error=string}
// @Router /rooms [get]
func ListRooms(redisClient *redis.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		summaries, err := redisClient.ListPublicRooms()
		if err != nil {
			log.Printf("[ROOM-ERROR] Directory listing failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing rooms"})
			return
		}
		c.JSON(http.StatusOK, summaries)
	}
}

// @Summary Gives info of a room
// @Description Given a room code, returns its name, roster size and whether a match is running
// @Tags room
// @Produce json
// @Param room_code path string true "Code of the room wanted"
// @Success 200 {object} object{code=string,name=string,player_count=integer,in_match=boolean,has_password=boolean}
// @Failure 404 {object} object{error=string}
// @Router /rooms/{room_code} [get]
func GetRoomInfo(manager *rooms.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := strings.ToUpper(c.Param("room_code"))
		handle, ok := manager.Get(code)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}

		var payload gin.H
		err := handle.WithRoom(func(r *game.Room) error {
			payload = gin.H{
				"code":         r.Code,
				"name":         r.Name,
				"player_count": len(r.Players()),
				"in_match":     r.Game() != nil,
				"has_password": handle.HasPassword(),
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error reading room"})
			return
		}
		c.JSON(http.StatusOK, payload)
	}
}

// @Summary Joins a room
// @Description Adds a player to the room roster and returns the room token the socket handshake needs
// @Tags room
// @Accept json
// @Produce json
// @Param room_code path string true "Code of the room to join"
// @Param data body object{player_name=string,password=string} true "Player name and room password if any"
// @Success 200 {object} object{room_code=string,player_id=string,token=string}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /rooms/{room_code}/join [post]
func JoinRoom(manager *rooms.Manager, sm *sync.SyncManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := strings.ToUpper(c.Param("room_code"))

		var body struct {
			PlayerName string `json:"player_name"`
			Password   string `json:"password"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if err := game.ValidatePlayerName(body.PlayerName); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		handle, ok := manager.Get(code)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}
		if handle.HasPassword() && !handle.CheckPassword(body.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Wrong room password"})
			return
		}

		playerID := uuid.New().String()
		err := handle.WithRoom(func(r *game.Room) error {
			_, err := r.AddPlayer(playerID, body.PlayerName)
			return err
		})
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		token, err := middleware.IssueRoomToken(code, playerID)
		if err != nil {
			log.Printf("[ROOM-ERROR] Token mint failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error joining room"})
			return
		}

		session := sessions.Default(c)
		session.Set("player_id", playerID)
		session.Set("room_code", code)
		if err := session.Save(); err != nil {
			log.Printf("[ROOM-ERROR] Session save failed: %v", err)
		}

		if err := sm.SyncRoomDirectory(handle); err != nil {
			log.Printf("[ROOM-ERROR] Directory sync failed for %s: %v", code, err)
		}

		log.Printf("[ROOM] Player %s joined room %s", playerID, code)
		c.JSON(http.StatusOK, gin.H{
			"room_code": code,
			"player_id": playerID,
			"token":     token,
		})
	}
}
