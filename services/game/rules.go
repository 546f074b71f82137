package game

import (
	"errors"
	"fmt"

	game_constants "Wordfuse/constants/game"
)

// Rules is the validated match configuration of a room. A Rules value is
// never mutated after construction: Room.UpdateRules swaps the whole thing.
type Rules struct {
	MaxLives      int
	StartingLives int
	// BonusTemplate has one slot per letter ('a' = 0 ... 'z' = 25): how many
	// times each letter must be used before the bonus life is paid out.
	BonusTemplate []int
	// MinTurnDuration is the floor (in seconds) the bomb timer may never
	// fall below.
	MinTurnDuration int
	// MinWordsPerFragment is consumed by the dictionary service, not by the
	// engine: a fragment is only dealt while at least this many words
	// contain it.
	MinWordsPerFragment int
}

// NewRules validates every field and the cross-field invariant
// startingLives <= maxLives. The bonus template is copied, so the caller
// may keep mutating its slice.
func NewRules(maxLives, startingLives int, bonusTemplate []int, minTurnDuration, minWordsPerFragment int) (*Rules, error) {
	if maxLives < game_constants.MinConfigurableLives || maxLives > game_constants.MaxConfigurableLives {
		return nil, fmt.Errorf("max lives must be between %d and %d",
			game_constants.MinConfigurableLives, game_constants.MaxConfigurableLives)
	}
	if startingLives < game_constants.MinConfigurableLives || startingLives > game_constants.MaxConfigurableLives {
		return nil, fmt.Errorf("starting lives must be between %d and %d",
			game_constants.MinConfigurableLives, game_constants.MaxConfigurableLives)
	}
	if startingLives > maxLives {
		return nil, errors.New("starting lives cannot exceed max lives")
	}
	if len(bonusTemplate) != game_constants.AlphabetSize {
		return nil, fmt.Errorf("bonus template must have %d entries, got %d",
			game_constants.AlphabetSize, len(bonusTemplate))
	}
	for i, uses := range bonusTemplate {
		if uses < 0 {
			return nil, fmt.Errorf("bonus template entry %d is negative", i)
		}
	}
	if minTurnDuration < game_constants.MinTurnDurationFloor || minTurnDuration > game_constants.MaxTurnDurationFloor {
		return nil, fmt.Errorf("min turn duration must be between %d and %d seconds",
			game_constants.MinTurnDurationFloor, game_constants.MaxTurnDurationFloor)
	}
	if minWordsPerFragment < game_constants.MinWordsPerFragmentLow || minWordsPerFragment > game_constants.MinWordsPerFragmentHigh {
		return nil, fmt.Errorf("min words per fragment must be between %d and %d",
			game_constants.MinWordsPerFragmentLow, game_constants.MinWordsPerFragmentHigh)
	}

	template := make([]int, game_constants.AlphabetSize)
	copy(template, bonusTemplate)

	return &Rules{
		MaxLives:            maxLives,
		StartingLives:       startingLives,
		BonusTemplate:       template,
		MinTurnDuration:     minTurnDuration,
		MinWordsPerFragment: minWordsPerFragment,
	}, nil
}

// DefaultRules returns the configuration new rooms start with.
func DefaultRules() *Rules {
	template := make([]int, game_constants.AlphabetSize)
	for i := range template {
		template[i] = game_constants.DefaultBonusLetterUses
	}
	rules, err := NewRules(
		game_constants.DefaultMaxLives,
		game_constants.DefaultStartingLives,
		template,
		game_constants.DefaultMinTurnDuration,
		game_constants.DefaultMinWordsPerFragment,
	)
	if err != nil {
		// The defaults are constants; failing here means they are broken.
		panic(err)
	}
	return rules
}
