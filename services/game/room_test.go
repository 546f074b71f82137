package game

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoom(t *testing.T) *Room {
	t.Helper()
	rules, err := NewRules(3, 3, uniformTemplate(1), 5, 500)
	require.NoError(t, err)
	room, err := NewRoom("WXYZ", "test room", rules)
	require.NoError(t, err)
	return room
}

func TestNewRoomValidatesCode(t *testing.T) {
	rules := DefaultRules()

	_, err := NewRoom("wxyz", "r", rules)
	assert.Error(t, err)

	_, err = NewRoom("WXY", "r", rules)
	assert.Error(t, err)

	_, err = NewRoom("WXYZ", "r", nil)
	assert.Error(t, err)
}

func TestAddPlayerFirstBecomesLeader(t *testing.T) {
	room := newTestRoom(t)

	a, err := room.AddPlayer("a", "Ana")
	require.NoError(t, err)
	assert.True(t, a.IsLeader)
	assert.Equal(t, "a", room.LeaderID())
	assert.Equal(t, 3, a.Lives)
	assert.False(t, a.IsSeated)
	assert.True(t, a.IsConnected)
	assert.Equal(t, uniformTemplate(1), a.Bonus.Snapshot())

	b, err := room.AddPlayer("b", "Bea")
	require.NoError(t, err)
	assert.False(t, b.IsLeader)
}

func TestAddPlayerDuplicateID(t *testing.T) {
	room := newTestRoom(t)
	_, err := room.AddPlayer("a", "Ana")
	require.NoError(t, err)

	_, err = room.AddPlayer("a", "Anna")
	assert.ErrorContains(t, err, "player already in room")
}

func TestRemovePlayerHandsOffLeadership(t *testing.T) {
	room := newTestRoom(t)
	room.AddPlayer("a", "Ana")
	room.AddPlayer("b", "Bea")
	room.AddPlayer("c", "Cloe")

	assert.True(t, room.RemovePlayer("a"))
	assert.Equal(t, "b", room.LeaderID())
	b, _ := room.Player("b")
	assert.True(t, b.IsLeader)

	room.RemovePlayer("b")
	room.RemovePlayer("c")
	assert.Equal(t, "", room.LeaderID())

	assert.False(t, room.RemovePlayer("ghost"))
}

func TestFlagSettersIgnoreUnknownIDs(t *testing.T) {
	room := newTestRoom(t)
	room.AddPlayer("a", "Ana")

	room.SetPlayerSeated("ghost", true)
	room.SetPlayerConnected("ghost", false)

	room.SetPlayerSeated("a", true)
	room.SetPlayerConnected("a", false)
	a, _ := room.Player("a")
	assert.True(t, a.IsSeated)
	assert.False(t, a.IsConnected)
}

func TestUpdatePlayerName(t *testing.T) {
	room := newTestRoom(t)
	room.AddPlayer("a", "Ana")

	ok, err := room.UpdatePlayerName("ghost", "Nadie")
	assert.NoError(t, err)
	assert.False(t, ok)

	// Unchanged name: fast path, no validation.
	ok, err = room.UpdatePlayerName("a", "Ana")
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = room.UpdatePlayerName("a", "")
	assert.Error(t, err)
	assert.False(t, ok)

	ok, err = room.UpdatePlayerName("a", "Anita")
	assert.NoError(t, err)
	assert.True(t, ok)
	a, _ := room.Player("a")
	assert.Equal(t, "Anita", a.Name)
}

func TestStartGameNeedsTwoSeated(t *testing.T) {
	room := newTestRoom(t)
	room.AddPlayer("a", "Ana")
	room.AddPlayer("b", "Bea")

	room.SetPlayerSeated("a", true)
	_, err := room.StartGame()
	assert.ErrorContains(t, err, "need at least 2 players seated")

	room.SetPlayerSeated("b", true)
	a, _ := room.Player("a")
	a.Lives = 1
	a.Eliminate()

	seated, err := room.StartGame()
	require.NoError(t, err)
	require.Len(t, seated, 2)

	// Both participants were reset to full lives for the new match.
	for _, p := range seated {
		assert.Equal(t, 3, p.Lives)
		assert.False(t, p.IsEliminated)
		assert.False(t, p.IsSeated)
	}
}

func TestStartGameCancelsPendingCountdown(t *testing.T) {
	room := newTestRoom(t)
	room.AddPlayer("a", "Ana")
	room.AddPlayer("b", "Bea")
	room.SetPlayerSeated("a", true)
	room.SetPlayerSeated("b", true)

	room.StartGameStartTimer(func() {}, time.Hour)
	require.True(t, room.IsGameTimerRunning())

	_, err := room.StartGame()
	require.NoError(t, err)
	assert.False(t, room.IsGameTimerRunning())
}

func TestEndGameClearsSeatsAndGame(t *testing.T) {
	room := newTestRoom(t)
	room.AddPlayer("a", "Ana")
	room.AddPlayer("b", "Bea")
	room.SetPlayerSeated("a", true)
	room.SetPlayerSeated("b", true)

	seated, err := room.StartGame()
	require.NoError(t, err)
	g, err := NewGame(room.Code, seated, room.Rules(), "ab", 0, GameStateActive)
	require.NoError(t, err)
	room.AttachGame(g)
	room.SetPlayerSeated("a", true)

	room.EndGame()
	assert.Nil(t, room.Game())
	for _, p := range room.Players() {
		assert.False(t, p.IsSeated)
	}
}

func TestUpdateRulesRejectedMidMatch(t *testing.T) {
	room := newTestRoom(t)
	room.AddPlayer("a", "Ana")
	room.AddPlayer("b", "Bea")
	room.SetPlayerSeated("a", true)
	room.SetPlayerSeated("b", true)

	seated, err := room.StartGame()
	require.NoError(t, err)
	g, err := NewGame(room.Code, seated, room.Rules(), "ab", 0, GameStateActive)
	require.NoError(t, err)
	room.AttachGame(g)

	next, err := NewRules(4, 2, uniformTemplate(2), 3, 300)
	require.NoError(t, err)
	assert.ErrorContains(t, room.UpdateRules(next), "cannot change rules while a game is running")
}

func TestUpdateRulesClampsLivesAndResetsBonus(t *testing.T) {
	rules, err := NewRules(5, 5, uniformTemplate(1), 5, 500)
	require.NoError(t, err)
	room, err := NewRoom("WXYZ", "test room", rules)
	require.NoError(t, err)

	room.AddPlayer("a", "Ana")
	room.AddPlayer("b", "Bea")
	a, _ := room.Player("a")
	b, _ := room.Player("b")
	b.Lives = 2
	a.Bonus.UseLetter('a')

	next, err := NewRules(4, 2, uniformTemplate(3), 3, 300)
	require.NoError(t, err)
	require.NoError(t, room.UpdateRules(next))

	// Lives above the new max are clamped down, lower totals never raised.
	assert.Equal(t, 4, a.Lives)
	assert.Equal(t, 2, b.Lives)
	// Bonus progress equals the new template exactly.
	assert.Equal(t, uniformTemplate(3), a.Bonus.Snapshot())
	assert.Equal(t, uniformTemplate(3), b.Bonus.Snapshot())
	assert.Same(t, next, room.Rules())
}

func TestStartTimerFiresExactlyOnce(t *testing.T) {
	room := newTestRoom(t)

	var fired atomic.Int32
	tick := func() { fired.Add(1) }

	// Double-start is a silent no-op: one pending timer per room.
	room.StartGameStartTimer(tick, 20*time.Millisecond)
	room.StartGameStartTimer(tick, 20*time.Millisecond)
	require.True(t, room.IsGameTimerRunning())

	assert.Eventually(t, func() bool { return fired.Load() == 1 },
		time.Second, 5*time.Millisecond)
	assert.False(t, room.IsGameTimerRunning())

	// Stays at one firing.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}

func TestCancelTimerSwallowsCallback(t *testing.T) {
	room := newTestRoom(t)

	var fired atomic.Int32
	room.StartGameStartTimer(func() { fired.Add(1) }, 20*time.Millisecond)
	room.CancelGameStartTimer()
	assert.False(t, room.IsGameTimerRunning())

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())

	// Cancelling with nothing pending is fine.
	room.CancelGameStartTimer()
}
