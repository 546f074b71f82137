package middleware

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Room tokens bind a player id to a room for the socket.io handshake and
// for reconnection: a client presenting a valid token is re-attached to the
// same roster entry instead of joining as a stranger.

const roomTokenTTL = 12 * time.Hour

type RoomClaims struct {
	RoomCode string `json:"room_code"`
	PlayerID string `json:"player_id"`
	jwt.RegisteredClaims
}

func signingKey() []byte {
	key := os.Getenv("KEY")
	if key == "" {
		key = "dev-only-secret"
	}
	return []byte(key)
}

// IssueRoomToken mints the token handed back by the join endpoint.
func IssueRoomToken(roomCode, playerID string) (string, error) {
	claims := RoomClaims{
		RoomCode: roomCode,
		PlayerID: playerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(roomTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(signingKey())
	if err != nil {
		return "", fmt.Errorf("error signing room token: %v", err)
	}
	return signed, nil
}

// VerifyRoomToken validates a token and returns the room/player it binds.
func VerifyRoomToken(tokenString string) (roomCode, playerID string, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &RoomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return signingKey(), nil
	})
	if err != nil {
		return "", "", err
	}
	claims, ok := token.Claims.(*RoomClaims)
	if !ok || !token.Valid {
		return "", "", errors.New("invalid room token")
	}
	if claims.RoomCode == "" || claims.PlayerID == "" {
		return "", "", errors.New("room token missing claims")
	}
	return claims.RoomCode, claims.PlayerID, nil
}
