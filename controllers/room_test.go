package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"Wordfuse/services/redis"
	"Wordfuse/services/rooms"
	"Wordfuse/sync"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRoomRouter(t *testing.T) (*gin.Engine, *rooms.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	manager := rooms.NewManager()
	// Points at a local Redis that may not be running; directory syncs
	// just log their error, the HTTP flow does not depend on them.
	sm := sync.NewSyncManager(redis.NewRedisClient("localhost:6379", 0))

	router := gin.New()
	store := cookie.NewStore([]byte("test-key"))
	router.Use(sessions.Sessions("wordfuse_session", store))
	router.GET("/ping", Ping)
	router.POST("/rooms", CreateRoom(manager, sm))
	router.GET("/rooms/:room_code", GetRoomInfo(manager))
	router.POST("/rooms/:room_code/join", JoinRoom(manager, sm))
	return router, manager
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req, _ := http.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPing(t *testing.T) {
	router, _ := setupRoomRouter(t)

	req, _ := http.NewRequest("GET", "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateRoomReturnsCodeAndToken(t *testing.T) {
	router, manager := setupRoomRouter(t)

	w := postJSON(router, "/rooms", gin.H{"name": "Friday night", "player_name": "ada"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp["room_code"], 4)
	assert.NotEmpty(t, resp["player_id"])
	assert.NotEmpty(t, resp["token"])

	_, ok := manager.Get(resp["room_code"])
	assert.True(t, ok)
}

func TestCreateRoomRejectsBadNames(t *testing.T) {
	router, _ := setupRoomRouter(t)

	w := postJSON(router, "/rooms", gin.H{"name": "", "player_name": "ada"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(router, "/rooms", gin.H{"name": "ok", "player_name": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJoinRoomFlow(t *testing.T) {
	router, _ := setupRoomRouter(t)

	w := postJSON(router, "/rooms", gin.H{"name": "sala", "player_name": "ada"})
	require.Equal(t, http.StatusOK, w.Code)
	var created map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	code := created["room_code"]

	w = postJSON(router, fmt.Sprintf("/rooms/%s/join", code), gin.H{"player_name": "grace"})
	require.Equal(t, http.StatusOK, w.Code)
	var joined map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &joined))
	assert.Equal(t, code, joined["room_code"])
	assert.NotEqual(t, created["player_id"], joined["player_id"])

	// Unknown rooms are a 404
	w = postJSON(router, "/rooms/ZZZZ/join", gin.H{"player_name": "eve"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestJoinRoomEnforcesPassword(t *testing.T) {
	router, _ := setupRoomRouter(t)

	w := postJSON(router, "/rooms", gin.H{
		"name": "secret club", "player_name": "ada",
		"visibility": "private", "password": "hunter2",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var created map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	code := created["room_code"]

	w = postJSON(router, fmt.Sprintf("/rooms/%s/join", code), gin.H{"player_name": "eve", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(router, fmt.Sprintf("/rooms/%s/join", code), gin.H{"player_name": "eve", "password": "hunter2"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetRoomInfo(t *testing.T) {
	router, _ := setupRoomRouter(t)

	w := postJSON(router, "/rooms", gin.H{"name": "lookup me", "player_name": "ada"})
	require.Equal(t, http.StatusOK, w.Code)
	var created map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	req, _ := http.NewRequest("GET", "/rooms/"+created["room_code"], nil)
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	require.Equal(t, http.StatusOK, w2.Code)

	var info map[string]interface{}
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &info))
	assert.Equal(t, "lookup me", info["name"])
	assert.Equal(t, float64(1), info["player_count"])
	assert.Equal(t, false, info["in_match"])
	assert.Equal(t, false, info["has_password"])

	req, _ = http.NewRequest("GET", "/rooms/NONE", nil)
	w3 := httptest.NewRecorder()
	router.ServeHTTP(w3, req)
	assert.Equal(t, http.StatusNotFound, w3.Code)
}
