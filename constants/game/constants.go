package game_constants

const AlphabetSize = 26

// Lives configuration bounds (inclusive). Rules outside these ranges are
// rejected at construction time.
const (
	MinConfigurableLives = 1
	MaxConfigurableLives = 10
)

// Bomb timer. The opening duration is rolled once per match, uniformly
// inside [BombRollMinSeconds, BombRollMaxSeconds]. MinTurnDurationFloor and
// MaxTurnDurationFloor bound the configurable floor the timer may never
// fall below.
const (
	BombRollMinSeconds = 10
	BombRollMaxSeconds = 15

	MinTurnDurationFloor   = 1
	MaxTurnDurationFloor   = 10
	MinBombSecondsAbsolute = 1 // the caller-driven tick-down never goes lower
)

// Fragment and room code shapes.
const (
	FragmentMinLength = 2
	FragmentMaxLength = 3
	RoomCodeLength    = 4
)

const (
	MinPlayerNameLength = 1
	MaxPlayerNameLength = 20
)

// Difficulty knob consumed by the dictionary service: a fragment is only
// eligible while at least this many words contain it.
const (
	MinWordsPerFragmentLow  = 1
	MinWordsPerFragmentHigh = 1000
)

const MinSeatedPlayersToStart = 2

// Pre-match countdown started by the leader before the first turn.
const StartCountdownSeconds = 5

// How long a disconnected player keeps their spot in the roster before the
// room forgets them. Applies mid-match too: a reaped participant is
// eliminated first, which can hand the turn over or end the match.
const ReconnectGraceSeconds = 30

// Default rules applied when a room is created without explicit settings.
const (
	DefaultMaxLives            = 3
	DefaultStartingLives       = 3
	DefaultBonusLetterUses     = 1
	DefaultMinTurnDuration     = 5
	DefaultMinWordsPerFragment = 500
)

const (
	RoomVisibilityPublic  = "public"
	RoomVisibilityPrivate = "private"
)
