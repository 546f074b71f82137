package rooms

import (
	"sync"
	"testing"

	game_constants "Wordfuse/constants/game"
	"Wordfuse/services/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAllocatesValidCode(t *testing.T) {
	m := NewManager()

	h, err := m.Create("sala", game_constants.RoomVisibilityPublic, "", game.DefaultRules())
	require.NoError(t, err)
	require.NoError(t, game.ValidateRoomCode(h.Room.Code))

	got, ok := m.Get(h.Room.Code)
	require.True(t, ok)
	assert.Same(t, h, got)
	assert.Equal(t, 1, m.Count())
}

func TestCreateRejectsUnknownVisibility(t *testing.T) {
	m := NewManager()
	_, err := m.Create("sala", "hidden", "", game.DefaultRules())
	assert.ErrorContains(t, err, "visibility")
}

func TestCodesAreUnique(t *testing.T) {
	m := NewManager()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		h, err := m.Create("sala", game_constants.RoomVisibilityPublic, "", game.DefaultRules())
		require.NoError(t, err)
		assert.False(t, seen[h.Room.Code])
		seen[h.Room.Code] = true
	}
}

func TestPasswordGate(t *testing.T) {
	m := NewManager()

	open, err := m.Create("open", game_constants.RoomVisibilityPublic, "", game.DefaultRules())
	require.NoError(t, err)
	assert.False(t, open.HasPassword())
	assert.True(t, open.CheckPassword(""))
	assert.True(t, open.CheckPassword("whatever"))

	locked, err := m.Create("locked", game_constants.RoomVisibilityPrivate, "hunter2", game.DefaultRules())
	require.NoError(t, err)
	assert.True(t, locked.HasPassword())
	assert.True(t, locked.CheckPassword("hunter2"))
	assert.False(t, locked.CheckPassword("hunter3"))
	assert.False(t, locked.CheckPassword(""))
}

func TestWithRoomSerializesAccess(t *testing.T) {
	m := NewManager()
	h, err := m.Create("sala", game_constants.RoomVisibilityPublic, "", game.DefaultRules())
	require.NoError(t, err)

	// Hammer the same room from many goroutines; every AddPlayer runs
	// under the room lock, so all joins must land.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := string(rune('a' + n))
			_ = m.WithRoom(h.Room.Code, func(r *game.Room) error {
				_, err := r.AddPlayer(id, "Player"+id)
				return err
			})
		}(i)
	}
	wg.Wait()

	assert.Len(t, h.Room.Players(), 8)
}

func TestWithRoomUnknownCode(t *testing.T) {
	m := NewManager()
	err := m.WithRoom("ZZZZ", func(r *game.Room) error { return nil })
	assert.ErrorContains(t, err, "room not found")
}

func TestForEachPublicSkipsPrivate(t *testing.T) {
	m := NewManager()
	_, err := m.Create("pub", game_constants.RoomVisibilityPublic, "", game.DefaultRules())
	require.NoError(t, err)
	_, err = m.Create("priv", game_constants.RoomVisibilityPrivate, "", game.DefaultRules())
	require.NoError(t, err)

	var names []string
	m.ForEachPublic(func(h *Handle) { names = append(names, h.Room.Name) })
	assert.Equal(t, []string{"pub"}, names)
}

func TestRemove(t *testing.T) {
	m := NewManager()
	h, err := m.Create("sala", game_constants.RoomVisibilityPublic, "", game.DefaultRules())
	require.NoError(t, err)

	m.Remove(h.Room.Code)
	_, ok := m.Get(h.Room.Code)
	assert.False(t, ok)
	// Removing twice is harmless.
	m.Remove(h.Room.Code)
}
