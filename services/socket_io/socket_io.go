package socket_io

import (
	"Wordfuse/services/dictionary"
	"Wordfuse/services/redis"
	"Wordfuse/services/rooms"
	"Wordfuse/services/socket_io/handlers"
	"Wordfuse/sync"

	socketio_types "Wordfuse/services/socket_io/types"
	socketio_utils "Wordfuse/services/socket_io/utils"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/log"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

type MySocketServer socketio_types.SocketServer

func (sio *MySocketServer) Start(router *gin.Engine, manager *rooms.Manager,
	dict *dictionary.Dictionary, redisClient *redis.RedisClient, sm *sync.SyncManager) {
	log.DEBUG = true
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// NOTE: higher ping interval and timeout to 1) reduce network load and 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	// KEY: initialize the map, it panics otherwise
	sio.PlayerConnections = make(map[string]*socket.Socket)

	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		// The handshake carries the room token minted by the HTTP join
		// endpoint; a socket with a bad token never gets its events wired.
		success, roomCode, playerID := socketio_utils.VerifyPlayerConnection(client)
		if !success {
			return
		}

		fmt.Println("A player just connected!: ", playerID, " (room ", roomCode, ")")

		self := (*socketio_types.SocketServer)(sio)

		// Attach the socket to its room channel and replay the state
		client.On("join_room", handlers.HandleJoinRoom(manager, sm, client, roomCode, playerID, self))

		// Leave the room voluntarily
		client.On("exit_room", handlers.HandleExitRoom(manager, dict, sm, client, roomCode, playerID, self))

		// Sit down for (or stand up from) the next match
		client.On("set_seated", handlers.HandleSetSeated(manager, sm, client, roomCode, playerID, self))

		// Rename the player
		client.On("set_name", handlers.HandleSetName(manager, client, roomCode, playerID, self))

		// Replay the room snapshot plus recent chat to this socket only
		client.On("get_room_info", handlers.HandleGetRoomInfo(manager, redisClient, client, roomCode, playerID, self))

		// Rewrite the room rules (leader only, between matches)
		client.On("update_rules", handlers.HandleUpdateRules(manager, client, roomCode, playerID, self))

		// Room chat and the cosmetic typing relay
		client.On("room_chat", handlers.HandleRoomChat(manager, redisClient, client, roomCode, playerID, self))
		client.On("typing", handlers.HandleTyping(client, roomCode, playerID, self))

		// Arm or cancel the pre-match countdown (leader only)
		client.On("start_game", handlers.HandleStartGame(manager, dict, sm, client, roomCode, playerID, self))
		client.On("cancel_start", handlers.HandleCancelStart(manager, client, roomCode, playerID, self))

		// Submit a word on the player's turn
		client.On("submit_word", handlers.HandleSubmitWord(manager, dict, sm, client, roomCode, playerID, self))

		// NOTE: starts the reconnection grace window
		client.On("disconnecting", handlers.HandleDisconnecting(manager, dict, sm, client, roomCode, playerID, self))
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	SignalC := make(chan os.Signal, 1)

	signal.Notify(SignalC, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for s := range SignalC {
			switch s {
			case syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
				sio.Sio_server.Close(nil)
				os.Exit(0)
			}
		}
	}()

	fmt.Println("Socket server started")
}
