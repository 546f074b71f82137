package game

import (
	"errors"
	"sync"
	"time"

	game_constants "Wordfuse/constants/game"
)

// Room is the durable container across matches: the player roster, seating
// intents, leader election, at most one active Game and at most one pending
// start countdown. All roster methods assume the caller serializes access
// per room; the one-shot start timer carries its own small lock because its
// callback fires from a timer goroutine.
type Room struct {
	Code string
	Name string

	rules     *Rules
	players   map[string]*Player
	joinOrder []string
	leaderID  string
	game      *Game

	timerMu    sync.Mutex
	startTimer *time.Timer
}

func NewRoom(code, name string, rules *Rules) (*Room, error) {
	if err := ValidateRoomCode(code); err != nil {
		return nil, err
	}
	if rules == nil {
		return nil, errors.New("room needs rules")
	}
	return &Room{
		Code:    code,
		Name:    name,
		rules:   rules,
		players: make(map[string]*Player),
	}, nil
}

func (r *Room) Rules() *Rules { return r.rules }

func (r *Room) Game() *Game { return r.game }

func (r *Room) LeaderID() string { return r.leaderID }

// Player looks up a roster member by id.
func (r *Room) Player(id string) (*Player, bool) {
	p, ok := r.players[id]
	return p, ok
}

// Players returns the roster in join order.
func (r *Room) Players() []*Player {
	out := make([]*Player, 0, len(r.joinOrder))
	for _, id := range r.joinOrder {
		out = append(out, r.players[id])
	}
	return out
}

// SeatedPlayers returns the members who opted into the next match, in join
// order.
func (r *Room) SeatedPlayers() []*Player {
	seated := make([]*Player, 0, len(r.joinOrder))
	for _, p := range r.Players() {
		if p.IsSeated {
			seated = append(seated, p)
		}
	}
	return seated
}

// AddPlayer creates a roster member with full lives and a bonus alphabet
// seeded from the room's template. The first player ever added becomes
// leader.
func (r *Room) AddPlayer(id, name string) (*Player, error) {
	if _, exists := r.players[id]; exists {
		return nil, errors.New("player already in room")
	}

	bonus, err := NewBonusProgress(r.rules.BonusTemplate)
	if err != nil {
		return nil, err
	}
	player, err := NewPlayer(id, name, r.rules.MaxLives, bonus)
	if err != nil {
		return nil, err
	}

	if len(r.players) == 0 {
		player.IsLeader = true
		r.leaderID = id
	}

	r.players[id] = player
	r.joinOrder = append(r.joinOrder, id)
	return player, nil
}

// RemovePlayer deletes the member; when the leader leaves, leadership moves
// to the first remaining player in join order, or nobody when the room
// emptied. Returns false for unknown ids.
func (r *Room) RemovePlayer(id string) bool {
	if _, exists := r.players[id]; !exists {
		return false
	}

	delete(r.players, id)
	for i, joined := range r.joinOrder {
		if joined == id {
			r.joinOrder = append(r.joinOrder[:i], r.joinOrder[i+1:]...)
			break
		}
	}

	if r.leaderID == id {
		r.leaderID = ""
		if len(r.joinOrder) > 0 {
			r.leaderID = r.joinOrder[0]
			r.players[r.leaderID].IsLeader = true
		}
	}
	return true
}

// SetPlayerSeated flips a member's participation intent. Unknown ids are a
// silent no-op, not an error.
func (r *Room) SetPlayerSeated(id string, seated bool) {
	if p, ok := r.players[id]; ok {
		p.IsSeated = seated
	}
}

// SetPlayerConnected flips connectivity. Unknown ids are a silent no-op.
func (r *Room) SetPlayerConnected(id string, connected bool) {
	if p, ok := r.players[id]; ok {
		p.IsConnected = connected
	}
}

// UpdatePlayerName renames a member. Unknown ids return false; an unchanged
// name returns true without re-validating (deliberate fast path); anything
// else is validated against the 1-20 bounds before it is applied.
func (r *Room) UpdatePlayerName(id, name string) (bool, error) {
	p, ok := r.players[id]
	if !ok {
		return false, nil
	}
	if p.Name == name {
		return true, nil
	}
	if err := ValidatePlayerName(name); err != nil {
		return false, err
	}
	p.Name = name
	return true, nil
}

// StartGame performs the roster-side match start: it requires at least two
// seated players, resets each of them for the new match and cancels any
// pending start countdown, returning the (now reset) participants in join
// order. Constructing the Game itself with the opening fragment is the
// caller's job.
func (r *Room) StartGame() ([]*Player, error) {
	seated := r.SeatedPlayers()
	if len(seated) < game_constants.MinSeatedPlayersToStart {
		return nil, errors.New("need at least 2 players seated")
	}
	for _, p := range seated {
		p.ResetForNextGame(r.rules.MaxLives, r.rules.BonusTemplate)
	}
	r.CancelGameStartTimer()
	return seated, nil
}

// AttachGame binds the active match to the room.
func (r *Room) AttachGame(g *Game) { r.game = g }

// EndGame discards the active match and clears every member's seating
// intent, however the match concluded.
func (r *Room) EndGame() {
	r.game = nil
	for _, p := range r.players {
		p.IsSeated = false
	}
}

// UpdateRules swaps the configuration wholesale. Refused while a match is
// running. Existing members have their lives clamped down to the new
// maximum (never raised) and their bonus progress reset to the new
// template.
func (r *Room) UpdateRules(next *Rules) error {
	if r.game != nil {
		return errors.New("cannot change rules while a game is running")
	}
	if next == nil {
		return errors.New("room needs rules")
	}
	r.rules = next
	for _, p := range r.players {
		if p.Lives > next.MaxLives {
			p.Lives = next.MaxLives
		}
		_ = p.Bonus.Reset(next.BonusTemplate)
	}
	return nil
}

// StartGameStartTimer arms the room's single pre-match countdown. A second
// call while one is pending is a silent no-op. The callback runs exactly
// once, after the handle has been cleared, so it may re-arm the timer.
func (r *Room) StartGameStartTimer(callback func(), duration time.Duration) {
	r.timerMu.Lock()
	defer r.timerMu.Unlock()
	if r.startTimer != nil {
		return
	}
	r.startTimer = time.AfterFunc(duration, func() {
		r.timerMu.Lock()
		r.startTimer = nil
		r.timerMu.Unlock()
		callback()
	})
}

// CancelGameStartTimer clears a pending countdown without invoking its
// callback. No-op when nothing is pending.
func (r *Room) CancelGameStartTimer() {
	r.timerMu.Lock()
	defer r.timerMu.Unlock()
	if r.startTimer != nil {
		r.startTimer.Stop()
		r.startTimer = nil
	}
}

// IsGameTimerRunning reports whether a start countdown is pending.
func (r *Room) IsGameTimerRunning() bool {
	r.timerMu.Lock()
	defer r.timerMu.Unlock()
	return r.startTimer != nil
}
