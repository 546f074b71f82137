package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlayer(t *testing.T, lives int, template []int) *Player {
	t.Helper()
	bonus, err := NewBonusProgress(template)
	require.NoError(t, err)
	p, err := NewPlayer("p1", "Ana", lives, bonus)
	require.NoError(t, err)
	return p
}

func TestNewPlayerValidation(t *testing.T) {
	bonus, err := NewBonusProgress(uniformTemplate(1))
	require.NoError(t, err)

	_, err = NewPlayer("", "Ana", 3, bonus)
	assert.ErrorContains(t, err, "id")

	_, err = NewPlayer("p1", "", 3, bonus)
	assert.ErrorContains(t, err, "name")

	_, err = NewPlayer("p1", strings.Repeat("x", 21), 3, bonus)
	assert.Error(t, err)

	_, err = NewPlayer("p1", "Ana", 3, nil)
	assert.ErrorContains(t, err, "bonus")

	p, err := NewPlayer("p1", strings.Repeat("x", 20), 3, bonus)
	require.NoError(t, err)
	assert.True(t, p.IsConnected)
	assert.False(t, p.IsSeated)
	assert.False(t, p.IsEliminated)
}

func TestLoseLifeEliminatesExactlyOnce(t *testing.T) {
	p := newTestPlayer(t, 1, uniformTemplate(1))

	p.LoseLife()
	assert.Equal(t, 0, p.Lives)
	assert.True(t, p.IsEliminated)

	// Further calls are no-ops: no negative lives, no double elimination.
	p.LoseLife()
	p.LoseLife()
	assert.Equal(t, 0, p.Lives)
	assert.True(t, p.IsEliminated)
}

func TestGainLifeCapsAtMax(t *testing.T) {
	p := newTestPlayer(t, 2, uniformTemplate(1))

	p.GainLife(3)
	assert.Equal(t, 3, p.Lives)
	p.GainLife(3)
	assert.Equal(t, 3, p.Lives)
}

func TestEliminateIsIdempotent(t *testing.T) {
	p := newTestPlayer(t, 3, uniformTemplate(1))
	p.Eliminate()
	p.Eliminate()
	assert.True(t, p.IsEliminated)
	assert.Equal(t, 3, p.Lives)
}

func TestTryBonusLetterPaysOutOncePerCompletion(t *testing.T) {
	// Only 'a' is required, everything else starts complete.
	template := make([]int, 26)
	template[0] = 1
	p := newTestPlayer(t, 1, template)

	// Completing the set grants a life and resets the progress.
	assert.True(t, p.TryBonusLetter('a', 3, template))
	assert.Equal(t, 2, p.Lives)
	assert.False(t, p.Bonus.IsComplete())

	// The same completion never pays twice without re-earning it.
	assert.False(t, p.TryBonusLetter('b', 3, template))
	assert.Equal(t, 2, p.Lives)

	// Re-earn after the reset.
	assert.True(t, p.TryBonusLetter('A', 3, template))
	assert.Equal(t, 3, p.Lives)
}

func TestTryBonusLetterAcceptedButIncomplete(t *testing.T) {
	template := make([]int, 26)
	template[0] = 1
	template[1] = 1
	p := newTestPlayer(t, 1, template)

	// 'a' is consumed but 'b' is still owed: no payout.
	assert.False(t, p.TryBonusLetter('a', 3, template))
	assert.Equal(t, 1, p.Lives)

	assert.True(t, p.TryBonusLetter('b', 3, template))
	assert.Equal(t, 2, p.Lives)
}

func TestTryBonusLetterCapsPayout(t *testing.T) {
	template := make([]int, 26)
	template[0] = 1
	p := newTestPlayer(t, 3, template)

	assert.True(t, p.TryBonusLetter('a', 3, template))
	assert.Equal(t, 3, p.Lives)
}

func TestResetForNextGame(t *testing.T) {
	p := newTestPlayer(t, 1, uniformTemplate(1))
	p.IsSeated = true
	p.Eliminate()
	p.Bonus.UseLetter('a')

	p.ResetForNextGame(4, uniformTemplate(1))

	assert.False(t, p.IsEliminated)
	assert.False(t, p.IsSeated)
	assert.Equal(t, 4, p.Lives)
	assert.Equal(t, uniformTemplate(1), p.Bonus.Snapshot())
}
