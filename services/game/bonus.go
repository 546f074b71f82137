package game

import (
	"fmt"

	game_constants "Wordfuse/constants/game"
)

// BonusProgress tracks how many more times each of the 26 letters must be
// used before the owning player completes the alphabet and earns a bonus
// life. Owned by exactly one Player.
type BonusProgress struct {
	remaining []int
}

// NewBonusProgress seeds the progress from a room's bonus template.
func NewBonusProgress(template []int) (*BonusProgress, error) {
	if len(template) != game_constants.AlphabetSize {
		return nil, fmt.Errorf("bonus progress template must have %d entries, got %d",
			game_constants.AlphabetSize, len(template))
	}
	remaining := make([]int, game_constants.AlphabetSize)
	copy(remaining, template)
	return &BonusProgress{remaining: remaining}, nil
}

// UseLetter consumes one use of the given letter (case-insensitive).
// Non-letter input and letters whose slot already reached zero are ignored,
// returning false without mutating anything.
func (bp *BonusProgress) UseLetter(letter rune) bool {
	idx := letterIndex(letter)
	if idx < 0 || bp.remaining[idx] <= 0 {
		return false
	}
	bp.remaining[idx]--
	return true
}

// IsComplete reports whether every slot has been consumed.
func (bp *BonusProgress) IsComplete() bool {
	for _, left := range bp.remaining {
		if left > 0 {
			return false
		}
	}
	return true
}

// Reset replaces the slots in place, so existing references to this
// progress observe the new values.
func (bp *BonusProgress) Reset(template []int) error {
	if len(template) != game_constants.AlphabetSize {
		return fmt.Errorf("bonus progress template must have %d entries, got %d",
			game_constants.AlphabetSize, len(template))
	}
	copy(bp.remaining, template)
	return nil
}

// Snapshot returns a copy of the per-letter counters for presentation.
func (bp *BonusProgress) Snapshot() []int {
	out := make([]int, game_constants.AlphabetSize)
	copy(out, bp.remaining)
	return out
}

func letterIndex(r rune) int {
	switch {
	case r >= 'a' && r <= 'z':
		return int(r - 'a')
	case r >= 'A' && r <= 'Z':
		return int(r - 'A')
	}
	return -1
}
