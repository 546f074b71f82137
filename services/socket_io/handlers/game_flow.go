package handlers

import (
	"errors"
	"log"
	"strings"
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

// errStaleTurn marks a bomb countdown that woke up after its turn already
// ended; it is swallowed, never reported.
var errStaleTurn = errors.New("stale turn countdown")

// HandleStartGame arms the room's pre-match countdown. Leader only, at
// least two seated players, and a second call while the countdown is
// pending stays a silent no-op (the engine's one-timer-per-room rule).
func HandleStartGame(manager *rooms.Manager, dict *dictionary.Dictionary, sm *sync.SyncManager,
	client *socket.Socket, roomCode, playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("[START] HandleStartGame - Player: %s, Room: %s", playerID, roomCode)

		handle, ok := manager.Get(roomCode)
		if !ok {
			client.Emit("error", gin.H{"error": "Room not found"})
			return
		}

		alreadyPending := false
		err := handle.WithRoom(func(r *game.Room) error {
			if r.LeaderID() != playerID {
				return errors.New("only the leader can start the game")
			}
			if r.Game() != nil {
				return errors.New("a game is already running")
			}
			if len(r.SeatedPlayers()) < game_constants.MinSeatedPlayersToStart {
				return errors.New("need at least 2 players seated")
			}
			if r.IsGameTimerRunning() {
				alreadyPending = true
				return nil
			}
			r.StartGameStartTimer(func() {
				BeginMatch(manager, dict, sm, roomCode, sio)
			}, game_constants.StartCountdownSeconds*time.Second)
			return nil
		})
		if err != nil {
			log.Printf("[START-ERROR] %v", err)
			client.Emit("error", gin.H{"error": err.Error()})
			return
		}
		if alreadyPending {
			log.Printf("[START-INFO] Countdown already running for room %s, ignoring", roomCode)
			return
		}

		sio.Sio_server.To(socket.Room(roomCode)).Emit("countdown_started", gin.H{
			"seconds": game_constants.StartCountdownSeconds,
		})
	}
}

// HandleCancelStart clears a pending pre-match countdown without starting
// the match.
func HandleCancelStart(manager *rooms.Manager, client *socket.Socket,
	roomCode, playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		handle, ok := manager.Get(roomCode)
		if !ok {
			client.Emit("error", gin.H{"error": "Room not found"})
			return
		}

		err := handle.WithRoom(func(r *game.Room) error {
			if r.LeaderID() != playerID {
				return errors.New("only the leader can cancel the countdown")
			}
			r.CancelGameStartTimer()
			return nil
		})
		if err != nil {
			client.Emit("error", gin.H{"error": err.Error()})
			return
		}

		sio.Sio_server.To(socket.Room(roomCode)).Emit("countdown_cancelled", gin.H{})
	}
}

// BeginMatch performs the actual match start once the countdown fires: it
// runs the roster-side preconditions, deals the opening fragment, attaches
// the new Game and opens the first turn.
func BeginMatch(manager *rooms.Manager, dict *dictionary.Dictionary, sm *sync.SyncManager,
	roomCode string, sio *socketio_types.SocketServer) {
	log.Printf("[MATCH-START] Starting match for room %s", roomCode)

	handle, ok := manager.Get(roomCode)
	if !ok {
		log.Printf("[MATCH-START-ERROR] Room %s disappeared before the countdown fired", roomCode)
		return
	}

	var statePayload, turnPayload gin.H
	var epoch uint64
	var bombSeconds int
	var participantIDs []string
	err := handle.WithRoom(func(r *game.Room) error {
		if r.Game() != nil {
			return errors.New("a game is already running")
		}
		seated, err := r.StartGame()
		if err != nil {
			return err
		}
		for _, p := range seated {
			participantIDs = append(participantIDs, p.ID)
		}

		fragment := dict.RandomFragment(r.Rules().MinWordsPerFragment)
		g, err := game.NewGame(r.Code, seated, r.Rules(), fragment, 0, game.GameStateActive)
		if err != nil {
			return err
		}
		r.AttachGame(g)

		handle.TurnEpoch++
		epoch = handle.TurnEpoch
		bombSeconds = g.BombDuration()
		statePayload = RoomStatePayload(r)
		turnPayload, err = TurnPayload(g)
		return err
	})
	if err != nil {
		log.Printf("[MATCH-START-ERROR] %v", err)
		sio.Sio_server.To(socket.Room(roomCode)).Emit("error", gin.H{"error": err.Error()})
		return
	}

	room := socket.Room(roomCode)
	sio.Sio_server.To(room).Emit("game_started", statePayload)
	sio.Sio_server.To(room).Emit("turn_started", turnPayload)

	for _, id := range participantIDs {
		socketID := ""
		if conn, connected := sio.GetConnection(id); connected {
			socketID = string(conn.Id())
		}
		if err := sm.SyncPlayerPresence(id, roomCode, socketID, redis_models.StatusPlaying); err != nil {
			log.Printf("[MATCH-START-ERROR] Presence sync failed for %s: %v", id, err)
		}
	}

	if err := sm.SyncRoomDirectory(handle); err != nil {
		log.Printf("[MATCH-START-ERROR] Directory sync failed: %v", err)
	}

	scheduleBombCountdown(manager, dict, sm, roomCode, sio, epoch, bombSeconds)
}

// HandleSubmitWord applies one word submission. The rejection order is
// deliberate: turn ownership, then word reuse, then dictionary validity,
// then fragment matching, so a duplicate is refused before any bonus
// credit is granted.
func HandleSubmitWord(manager *rooms.Manager, dict *dictionary.Dictionary, sm *sync.SyncManager,
	client *socket.Socket, roomCode, playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		if len(args) < 1 {
			client.Emit("error", gin.H{"error": "Missing word"})
			return
		}
		word, isString := args[0].(string)
		word = strings.TrimSpace(word)
		if !isString || word == "" {
			client.Emit("error", gin.H{"error": "Missing word"})
			return
		}

		handle, ok := manager.Get(roomCode)
		if !ok {
			client.Emit("error", gin.H{"error": "Room not found"})
			return
		}

		var rejectReason string
		var acceptedPayload, bonusPayload, turnPayload gin.H
		var epoch uint64
		var bombSeconds int
		err := handle.WithRoom(func(r *game.Room) error {
			g := r.Game()
			if g == nil {
				return errors.New("no game is running")
			}
			current, err := g.CurrentPlayer()
			if err != nil {
				return err
			}
			if current.ID != playerID {
				rejectReason = "not_your_turn"
				return nil
			}
			if g.HasWordBeenUsed(word) {
				rejectReason = "already_used"
				return nil
			}
			if !dict.IsValidWord(word) {
				rejectReason = "not_a_word"
				return nil
			}

			livesBefore := current.Lives
			if !g.SubmitWord(playerID, word) {
				rejectReason = "missing_fragment"
				return nil
			}
			g.MarkWordUsed(word)

			if current.Lives > livesBefore {
				bonusPayload = gin.H{"player_id": current.ID, "lives": current.Lives}
			}

			// Pressure ramps one second per solved word, bounded below by
			// the configured floor.
			g.TickDownBombDuration()
			g.AdjustBombTimerAfterValidWord()

			g.SetFragment(dict.RandomFragment(r.Rules().MinWordsPerFragment))
			g.NextTurn()

			handle.TurnEpoch++
			epoch = handle.TurnEpoch
			bombSeconds = g.BombDuration()
			acceptedPayload = gin.H{"player_id": playerID, "word": strings.ToLower(word)}
			turnPayload, err = TurnPayload(g)
			return err
		})
		if err != nil {
			client.Emit("error", gin.H{"error": err.Error()})
			return
		}
		if rejectReason != "" {
			log.Printf("[WORD-REJECT] Room %s, player %s, word %q: %s", roomCode, playerID, word, rejectReason)
			client.Emit("word_rejected", gin.H{"word": word, "reason": rejectReason})
			return
		}

		room := socket.Room(roomCode)
		sio.Sio_server.To(room).Emit("word_accepted", acceptedPayload)
		if bonusPayload != nil {
			sio.Sio_server.To(room).Emit("bonus_awarded", bonusPayload)
		}
		sio.Sio_server.To(room).Emit("turn_started", turnPayload)

		scheduleBombCountdown(manager, dict, sm, roomCode, sio, epoch, bombSeconds)
	}
}

// scheduleBombCountdown starts the per-turn countdown goroutine. The engine
// never ticks its own clock: this is the transport-owned "time's up" path.
// A sleep-then-recheck against the turn epoch keeps stale countdowns inert.
func scheduleBombCountdown(manager *rooms.Manager, dict *dictionary.Dictionary, sm *sync.SyncManager,
	roomCode string, sio *socketio_types.SocketServer, epoch uint64, seconds int) {
	go func() {
		time.Sleep(time.Duration(seconds) * time.Second)
		handleBombExpired(manager, dict, sm, roomCode, sio, epoch)
	}()
}

func handleBombExpired(manager *rooms.Manager, dict *dictionary.Dictionary, sm *sync.SyncManager,
	roomCode string, sio *socketio_types.SocketServer, epoch uint64) {
	handle, ok := manager.Get(roomCode)
	if !ok {
		return
	}

	var lifePayload, eliminatedPayload, turnPayload, endedPayload gin.H
	var nextEpoch uint64
	var bombSeconds int
	err := handle.WithRoom(func(r *game.Room) error {
		g := r.Game()
		if g == nil || handle.TurnEpoch != epoch {
			return errStaleTurn
		}

		current, err := g.CurrentPlayer()
		if err != nil {
			// Nobody left alive; close the match out without a winner.
			endedPayload = finishMatchLocked(handle, r, nil)
			return nil
		}

		current.LoseLife()
		log.Printf("[BOMB] Room %s: %s ran out of time (%d lives left)", roomCode, current.Name, current.Lives)
		lifePayload = gin.H{"player_id": current.ID, "lives": current.Lives, "reason": "timeout"}
		if current.IsEliminated {
			eliminatedPayload = gin.H{"player_id": current.ID, "player_name": current.Name}
		}

		active := g.ActivePlayers()
		if len(active) <= 1 {
			var winner *game.Player
			if len(active) == 1 {
				winner = active[0]
			}
			endedPayload = finishMatchLocked(handle, r, winner)
			return nil
		}

		// An eliminated current player already vanished from the active
		// subset, so the stored index now resolves to their successor;
		// only a surviving player needs an explicit turn advance.
		if !current.IsEliminated {
			g.NextTurn()
		}
		g.SetFragment(dict.RandomFragment(r.Rules().MinWordsPerFragment))

		handle.TurnEpoch++
		nextEpoch = handle.TurnEpoch
		bombSeconds = g.BombDuration()
		turnPayload, err = TurnPayload(g)
		return err
	})
	if errors.Is(err, errStaleTurn) {
		return
	}
	if err != nil {
		log.Printf("[BOMB-ERROR] Room %s: %v", roomCode, err)
		return
	}

	room := socket.Room(roomCode)
	if lifePayload != nil {
		sio.Sio_server.To(room).Emit("life_lost", lifePayload)
	}
	if eliminatedPayload != nil {
		sio.Sio_server.To(room).Emit("player_eliminated", eliminatedPayload)
	}
	if endedPayload != nil {
		sio.Sio_server.To(room).Emit("game_ended", endedPayload)
		if err := sm.SyncRoomDirectory(handle); err != nil {
			log.Printf("[BOMB-ERROR] Directory sync failed: %v", err)
		}
		return
	}

	sio.Sio_server.To(room).Emit("turn_started", turnPayload)
	scheduleBombCountdown(manager, dict, sm, roomCode, sio, nextEpoch, bombSeconds)
}

// finishMatchLocked closes the match out. Caller holds the room lock.
func finishMatchLocked(handle *rooms.Handle, r *game.Room, winner *game.Player) gin.H {
	if g := r.Game(); g != nil {
		g.End()
	}
	r.EndGame()
	handle.TurnEpoch++

	payload := gin.H{"room_state": RoomStatePayload(r)}
	if winner != nil {
		payload["winner_id"] = winner.ID
		payload["winner_name"] = winner.Name
		log.Printf("[MATCH-END] Room %s: %s wins", r.Code, winner.Name)
	} else {
		log.Printf("[MATCH-END] Room %s ended with no winner", r.Code)
	}
	return payload
}

// departureResult carries everything a departure broadcast needs out of the
// locked section: the payloads, and the countdown parameters when the match
// goes on with a restarted turn.
type departureResult struct {
	leftName          string
	roomEmpty         bool
	statePayload      gin.H
	eliminatedPayload gin.H
	endedPayload      gin.H
	turnPayload       gin.H
	epoch             uint64
	bombSeconds       int
}

// departRoomLocked removes a player from the room for good (voluntary exit
// or an expired grace window). Caller holds the room lock. Only an actual
// match participant gets eliminated and can trigger a turn handover; a
// member who joined after the match started is a spectator and their
// departure never touches the running turn.
func departRoomLocked(handle *rooms.Handle, r *game.Room, dict *dictionary.Dictionary, playerID string) (*departureResult, error) {
	p, ok := r.Player(playerID)
	if !ok {
		return nil, errors.New("player not registered in this room")
	}
	res := &departureResult{leftName: p.Name}

	var wasActive bool
	if g := r.Game(); g != nil && g.HasPlayer(playerID) {
		wasActive = !p.IsEliminated
		p.Eliminate()
		if wasActive {
			res.eliminatedPayload = gin.H{"player_id": p.ID, "player_name": p.Name}
		}
	}

	r.RemovePlayer(playerID)
	res.roomEmpty = len(r.Players()) == 0
	if res.roomEmpty {
		return res, nil
	}

	if wasActive {
		var err error
		res.endedPayload, res.turnPayload, res.epoch, res.bombSeconds, err = endOrContinueAfterEliminationLocked(handle, r, dict)
		if err != nil {
			return nil, err
		}
	}
	res.statePayload = RoomStatePayload(r)
	return res, nil
}

// endOrContinueAfterEliminationLocked settles the match after a mid-turn
// elimination that did not come from the normal timeout path (a leaver or
// a long disconnect). Caller holds the room lock. It returns the payloads
// to broadcast; when the match goes on, a fresh countdown must be armed
// with the returned epoch.
func endOrContinueAfterEliminationLocked(handle *rooms.Handle, r *game.Room, dict *dictionary.Dictionary) (endedPayload, turnPayload gin.H, epoch uint64, bombSeconds int, err error) {
	g := r.Game()
	if g == nil {
		return nil, nil, 0, 0, nil
	}

	active := g.ActivePlayers()
	if len(active) <= 1 {
		var winner *game.Player
		if len(active) == 1 {
			winner = active[0]
		}
		return finishMatchLocked(handle, r, winner), nil, 0, 0, nil
	}

	// The active subset changed under the stored index, so whoever it
	// resolves to now gets a fresh fragment and a fresh countdown.
	g.SetFragment(dict.RandomFragment(r.Rules().MinWordsPerFragment))
	handle.TurnEpoch++
	turnPayload, err = TurnPayload(g)
	return nil, turnPayload, handle.TurnEpoch, g.BombDuration(), err
}
