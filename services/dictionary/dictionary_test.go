package dictionary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWordList(t *testing.T, words ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.txt")
	content := ""
	for _, w := range words {
		content += w + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadEmbeddedDefaults(t *testing.T) {
	d, err := Load("")
	require.NoError(t, err)

	stats := d.Stats()
	assert.Greater(t, stats.WordCount, 500)
	assert.Greater(t, stats.FragmentCount, stats.WordCount)

	assert.True(t, d.IsValidWord("about"))
	assert.True(t, d.IsValidWord(" ABOUT "))
	assert.False(t, d.IsValidWord("zzzzzz"))
}

func TestLoadSkipsJunkLines(t *testing.T) {
	path := writeWordList(t, "Apple", "apple", "a", "don't", "BANANA", "")
	d, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, d.Stats().WordCount) // apple + banana, deduplicated
	assert.True(t, d.IsValidWord("apple"))
	assert.True(t, d.IsValidWord("banana"))
	assert.False(t, d.IsValidWord("don't"))
}

func TestLoadEmptyListFails(t *testing.T) {
	path := writeWordList(t, "a", "I")
	_, err := Load(path)
	assert.ErrorContains(t, err, "empty")
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load("/nonexistent/words.txt")
	assert.Error(t, err)
}

func TestFragmentCountsOncePerWord(t *testing.T) {
	path := writeWordList(t, "banana")
	d, err := Load(path)
	require.NoError(t, err)

	// "an" appears twice inside banana but only one word contains it.
	assert.Equal(t, 1, d.FragmentPoolSize("an"))
	assert.Equal(t, 1, d.FragmentPoolSize("nan"))
	assert.Equal(t, 0, d.FragmentPoolSize("xy"))
}

func TestRandomFragmentHonorsThreshold(t *testing.T) {
	path := writeWordList(t, "cat", "cap", "car", "dog")
	d, err := Load(path)
	require.NoError(t, err)

	// Only "ca" is contained in 3 words.
	for i := 0; i < 20; i++ {
		assert.Equal(t, "ca", d.RandomFragment(3))
	}
}

func TestRandomFragmentFallsBackToMostFrequent(t *testing.T) {
	path := writeWordList(t, "cat", "cap", "car", "dog")
	d, err := Load(path)
	require.NoError(t, err)

	// Nothing reaches a pool of 100; the most frequent fragment ("ca") wins.
	assert.Equal(t, "ca", d.RandomFragment(100))
}

func TestRandomFragmentLengths(t *testing.T) {
	d, err := Load("")
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		frag := d.RandomFragment(1)
		assert.GreaterOrEqual(t, len(frag), 2)
		assert.LessOrEqual(t, len(frag), 3)
	}
}
