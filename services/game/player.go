package game

import (
	"errors"
	"fmt"

	game_constants "Wordfuse/constants/game"
)

// Player is one participant's mutable state inside a single room. Players
// are shared by reference between the Room and its active Game, so a
// mutation through either side is visible to both.
type Player struct {
	ID   string
	Name string

	IsLeader     bool
	IsSeated     bool
	IsEliminated bool
	IsConnected  bool

	Lives int
	Bonus *BonusProgress
}

// NewPlayer validates identity and requires a real bonus progress instance.
func NewPlayer(id, name string, lives int, bonus *BonusProgress) (*Player, error) {
	if id == "" {
		return nil, errors.New("player id cannot be empty")
	}
	if err := ValidatePlayerName(name); err != nil {
		return nil, err
	}
	if bonus == nil {
		return nil, errors.New("player needs a bonus progress")
	}
	return &Player{
		ID:          id,
		Name:        name,
		IsConnected: true,
		Lives:       lives,
		Bonus:       bonus,
	}, nil
}

// ValidatePlayerName enforces the 1-20 character display name bounds.
func ValidatePlayerName(name string) error {
	if len(name) < game_constants.MinPlayerNameLength || len(name) > game_constants.MaxPlayerNameLength {
		return fmt.Errorf("player name must be between %d and %d characters",
			game_constants.MinPlayerNameLength, game_constants.MaxPlayerNameLength)
	}
	return nil
}

// Eliminate takes the player out of the current match. Idempotent.
func (p *Player) Eliminate() {
	p.IsEliminated = true
}

// LoseLife removes one life and eliminates the player when the count hits
// zero. Calling it on an already dead player is a no-op: lives never go
// negative and the player is not re-eliminated.
func (p *Player) LoseLife() {
	if p.Lives <= 0 {
		return
	}
	p.Lives--
	if p.Lives == 0 {
		p.Eliminate()
	}
}

// GainLife adds a life, silently capped at maxLives.
func (p *Player) GainLife(maxLives int) {
	if p.Lives < maxLives {
		p.Lives++
	}
}

// TryBonusLetter feeds one letter into the player's bonus alphabet. When
// the letter was newly consumed and that consumption completed the set, the
// player gains a life (capped at maxLives) and the progress is reset to
// resetTemplate; only then does it return true. A consumed letter that does
// not finish the alphabet still returns false.
func (p *Player) TryBonusLetter(letter rune, maxLives int, resetTemplate []int) bool {
	if !p.Bonus.UseLetter(letter) {
		return false
	}
	if !p.Bonus.IsComplete() {
		return false
	}
	p.GainLife(maxLives)
	// The template comes from a validated Rules value, so the length check
	// inside Reset cannot fire here.
	_ = p.Bonus.Reset(resetTemplate)
	return true
}

// ResetForNextGame re-initializes the per-match state. Called exactly once
// per seated player when a match starts.
func (p *Player) ResetForNextGame(maxLives int, resetTemplate []int) {
	p.IsEliminated = false
	p.IsSeated = false
	p.Lives = maxLives
	_ = p.Bonus.Reset(resetTemplate)
}
