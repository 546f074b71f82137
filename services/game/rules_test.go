package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformTemplate(uses int) []int {
	template := make([]int, 26)
	for i := range template {
		template[i] = uses
	}
	return template
}

func TestNewRulesValid(t *testing.T) {
	rules, err := NewRules(5, 3, uniformTemplate(1), 5, 500)
	require.NoError(t, err)
	assert.Equal(t, 5, rules.MaxLives)
	assert.Equal(t, 3, rules.StartingLives)
	assert.Len(t, rules.BonusTemplate, 26)
}

func TestNewRulesStartingLivesCannotExceedMax(t *testing.T) {
	_, err := NewRules(3, 4, uniformTemplate(1), 5, 500)
	assert.ErrorContains(t, err, "starting lives cannot exceed max lives")

	// Equal values are fine.
	_, err = NewRules(4, 4, uniformTemplate(1), 5, 500)
	assert.NoError(t, err)
}

func TestNewRulesBounds(t *testing.T) {
	_, err := NewRules(0, 1, uniformTemplate(1), 5, 500)
	assert.Error(t, err)

	_, err = NewRules(11, 1, uniformTemplate(1), 5, 500)
	assert.Error(t, err)

	_, err = NewRules(5, 0, uniformTemplate(1), 5, 500)
	assert.Error(t, err)

	_, err = NewRules(5, 3, uniformTemplate(1), 0, 500)
	assert.Error(t, err)

	_, err = NewRules(5, 3, uniformTemplate(1), 11, 500)
	assert.Error(t, err)

	_, err = NewRules(5, 3, uniformTemplate(1), 5, 0)
	assert.Error(t, err)

	_, err = NewRules(5, 3, uniformTemplate(1), 5, 1001)
	assert.Error(t, err)
}

func TestNewRulesTemplateShape(t *testing.T) {
	_, err := NewRules(5, 3, make([]int, 25), 5, 500)
	assert.ErrorContains(t, err, "bonus template")

	_, err = NewRules(5, 3, make([]int, 27), 5, 500)
	assert.Error(t, err)

	bad := uniformTemplate(1)
	bad[7] = -1
	_, err = NewRules(5, 3, bad, 5, 500)
	assert.ErrorContains(t, err, "negative")
}

func TestNewRulesCopiesTemplate(t *testing.T) {
	template := uniformTemplate(2)
	rules, err := NewRules(5, 3, template, 5, 500)
	require.NoError(t, err)

	template[0] = 99
	assert.Equal(t, 2, rules.BonusTemplate[0])
}

func TestDefaultRules(t *testing.T) {
	rules := DefaultRules()
	assert.LessOrEqual(t, rules.StartingLives, rules.MaxLives)
	assert.Len(t, rules.BonusTemplate, 26)
}
