package game

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	game_constants "Wordfuse/constants/game"
)

type GameState string

const (
	GameStateActive GameState = "active"
	GameStateEnded  GameState = "ended"
)

// Game is one active match. It owns the turn rotation, the current
// fragment, the bomb duration policy and the used-word set; it does not
// schedule its own countdown ticks and performs no I/O. The player slice is
// the same objects the Room holds, not a copy.
type Game struct {
	RoomCode string
	Players  []*Player

	rules            *Rules
	state            GameState
	currentTurnIndex int
	fragment         string
	bombDuration     int
	usedWords        map[string]struct{}
}

// NewGame validates the match parameters and rolls the opening bomb
// duration uniformly inside the configured range. The randomized opening
// value varies pressure per match, not per turn.
func NewGame(roomCode string, players []*Player, rules *Rules, fragment string, currentTurnIndex int, state GameState) (*Game, error) {
	if err := ValidateRoomCode(roomCode); err != nil {
		return nil, err
	}
	if err := ValidateFragment(fragment); err != nil {
		return nil, err
	}
	if currentTurnIndex < 0 {
		return nil, errors.New("turn index cannot be negative")
	}
	if state != GameStateActive && state != GameStateEnded {
		return nil, fmt.Errorf("unknown game state %q", state)
	}
	if rules == nil {
		return nil, errors.New("game needs rules")
	}

	roll := game_constants.BombRollMinSeconds +
		rand.Intn(game_constants.BombRollMaxSeconds-game_constants.BombRollMinSeconds+1)

	return &Game{
		RoomCode:         roomCode,
		Players:          players,
		rules:            rules,
		state:            state,
		currentTurnIndex: currentTurnIndex,
		fragment:         fragment,
		bombDuration:     roll,
		usedWords:        make(map[string]struct{}),
	}, nil
}

// ValidateRoomCode checks the 4-uppercase-letter room identity format.
func ValidateRoomCode(code string) error {
	if len(code) != game_constants.RoomCodeLength {
		return fmt.Errorf("room code must be %d characters", game_constants.RoomCodeLength)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return errors.New("room code must be uppercase letters only")
		}
	}
	return nil
}

// ValidateFragment checks the 2-3 letter fragment length.
func ValidateFragment(fragment string) error {
	if len(fragment) < game_constants.FragmentMinLength || len(fragment) > game_constants.FragmentMaxLength {
		return fmt.Errorf("fragment must be %d to %d characters",
			game_constants.FragmentMinLength, game_constants.FragmentMaxLength)
	}
	return nil
}

func (g *Game) State() GameState { return g.state }

// End moves the match to its terminal state. One-way.
func (g *Game) End() { g.state = GameStateEnded }

func (g *Game) Fragment() string { return g.fragment }

// SetFragment swaps in the next fragment verbatim. Length is only enforced
// at construction; callers are expected to hand in valid 2-3 letter
// fragments (the dictionary service only produces those).
func (g *Game) SetFragment(next string) { g.fragment = next }

func (g *Game) CurrentTurnIndex() int { return g.currentTurnIndex }

// ActivePlayers returns the non-eliminated players in original order.
func (g *Game) ActivePlayers() []*Player {
	active := make([]*Player, 0, len(g.Players))
	for _, p := range g.Players {
		if !p.IsEliminated {
			active = append(active, p)
		}
	}
	return active
}

// CurrentPlayer resolves whose turn it is by indexing into the active
// subset. When everyone is eliminated it refuses with an error: that is the
// caller's signal to end the match, the engine never decides that itself.
// HasPlayer reports whether the player took part in this match. Members who
// joined the room after the match started are not participants.
func (g *Game) HasPlayer(id string) bool {
	for _, p := range g.Players {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (g *Game) CurrentPlayer() (*Player, error) {
	active := g.ActivePlayers()
	if len(active) == 0 {
		return nil, errors.New("no active players remaining")
	}
	return active[g.currentTurnIndex%len(active)], nil
}

// NextTurn advances the rotation over the active subset. With one or zero
// active players left the index stays put; the caller is expected to end
// the match instead.
func (g *Game) NextTurn() {
	active := g.ActivePlayers()
	if len(active) > 1 {
		g.currentTurnIndex = (g.currentTurnIndex + 1) % len(active)
	}
}

// SubmitWord applies a word from playerID to the current turn. It enforces
// strict turn ownership and case-insensitive fragment containment, then
// feeds every character of the word into the current player's bonus
// alphabet (a single word may consume several letters and even complete the
// set mid-word). Dictionary validity and word reuse are deliberately NOT
// checked here; callers order HasWordBeenUsed/MarkWordUsed around this call
// themselves.
func (g *Game) SubmitWord(playerID, word string) bool {
	current, err := g.CurrentPlayer()
	if err != nil || current.ID != playerID {
		return false
	}

	lower := strings.ToLower(word)
	if !strings.Contains(lower, strings.ToLower(g.fragment)) {
		return false
	}

	for _, r := range lower {
		current.TryBonusLetter(r, g.rules.MaxLives, g.rules.BonusTemplate)
	}
	return true
}

// HasWordBeenUsed reports whether the word was already played this match.
// Case-insensitive, scoped to this Game only.
func (g *Game) HasWordBeenUsed(word string) bool {
	_, used := g.usedWords[strings.ToLower(word)]
	return used
}

// MarkWordUsed records the word for the rest of the match.
func (g *Game) MarkWordUsed(word string) {
	g.usedWords[strings.ToLower(word)] = struct{}{}
}

// BombDuration is the current per-turn time budget in seconds. The engine
// only rolls the opening value and enforces the floor; counting it down as
// wall-clock time passes is the transport layer's job.
func (g *Game) BombDuration() int { return g.bombDuration }

// AdjustBombTimerAfterValidWord raises the duration to the configured floor
// when it fell below it. A floor, not a reset-to-max: the duration is never
// raised above MinTurnDuration and never lowered by this call.
func (g *Game) AdjustBombTimerAfterValidWord() {
	if g.bombDuration < g.rules.MinTurnDuration {
		g.bombDuration = g.rules.MinTurnDuration
	}
}

// TickDownBombDuration shortens the budget by one second, never below one.
// Invoked by the caller per its own pacing policy; the engine never calls
// this itself.
func (g *Game) TickDownBombDuration() {
	if g.bombDuration > game_constants.MinBombSecondsAbsolute {
		g.bombDuration--
	}
}
