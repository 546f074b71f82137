package utils

import (
	"log"

	"Wordfuse/middleware"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// VerifyPlayerConnection authenticates a fresh socket against the room
// token issued by the HTTP join endpoint. The handshake auth payload must
// carry {"token": "..."}; anything else gets an error emit and a closed
// connection.
func VerifyPlayerConnection(client *socket.Socket) (ok bool, roomCode, playerID string) {
	authData, isMap := client.Handshake().Auth.(map[string]interface{})
	if !isMap {
		log.Println("[AUTH-ERROR] No auth data provided in handshake!")
		client.Emit("error", gin.H{"error": "Authentication failed: missing token"})
		client.Disconnect(true)
		return false, "", ""
	}

	rawToken, exists := authData["token"]
	token, isString := rawToken.(string)
	if !exists || !isString || token == "" {
		log.Println("[AUTH-ERROR] No token provided in handshake!")
		client.Emit("error", gin.H{"error": "Authentication failed: missing token"})
		client.Disconnect(true)
		return false, "", ""
	}

	roomCode, playerID, err := middleware.VerifyRoomToken(token)
	if err != nil {
		log.Printf("[AUTH-ERROR] Invalid room token: %v", err)
		client.Emit("error", gin.H{"error": "Authentication failed: invalid token"})
		client.Disconnect(true)
		return false, "", ""
	}

	return true, roomCode, playerID
}
