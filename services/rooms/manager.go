package rooms

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	game_constants "Wordfuse/constants/game"
	"Wordfuse/services/game"

	"golang.org/x/crypto/bcrypt"
)

// Handle wraps one room together with everything the transport layer keeps
// next to it: the visibility flag, the optional password hash and the mutex
// that serializes every engine call for this room. The engine itself does
// no locking; all inbound events for a room must go through WithRoom.
type Handle struct {
	mu           sync.Mutex
	Room         *game.Room
	Visibility   string
	passwordHash []byte

	// TurnEpoch invalidates in-flight bomb countdowns: every turn change
	// bumps it, and a countdown goroutine that wakes up to a different
	// epoch knows its turn is already over. Only touch it inside WithRoom.
	TurnEpoch uint64
}

// Manager is the in-memory registry of live rooms. Rooms only exist here;
// nothing about them is persisted.
type Manager struct {
	mu    sync.RWMutex
	rooms map[string]*Handle
}

func NewManager() *Manager {
	return &Manager{rooms: make(map[string]*Handle)}
}

// Create allocates a fresh room code, builds the room and registers it.
// A non-empty password makes joining require CheckPassword; the hash is
// bcrypt so the plaintext is never kept around.
func (m *Manager) Create(name, visibility, password string, rules *game.Rules) (*Handle, error) {
	if visibility != game_constants.RoomVisibilityPublic && visibility != game_constants.RoomVisibilityPrivate {
		return nil, fmt.Errorf("unknown room visibility %q", visibility)
	}

	var hash []byte
	if password != "" {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("error hashing room password: %v", err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	code, err := m.freeCodeLocked()
	if err != nil {
		return nil, err
	}
	room, err := game.NewRoom(code, name, rules)
	if err != nil {
		return nil, err
	}

	handle := &Handle{
		Room:         room,
		Visibility:   visibility,
		passwordHash: hash,
	}
	m.rooms[code] = handle
	return handle, nil
}

// Get looks up a live room by code.
func (m *Manager) Get(code string) (*Handle, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.rooms[code]
	return h, ok
}

// Remove tears the room down. Pending start timers are cancelled so no
// callback fires into a dead room.
func (m *Manager) Remove(code string) {
	m.mu.Lock()
	h, ok := m.rooms[code]
	delete(m.rooms, code)
	m.mu.Unlock()

	if ok {
		h.Room.CancelGameStartTimer()
	}
}

// WithRoom runs fn with the room's lock held, serializing it against every
// other event for the same room. Returns an error for unknown codes.
func (m *Manager) WithRoom(code string, fn func(*game.Room) error) error {
	h, ok := m.Get(code)
	if !ok {
		return errors.New("room not found")
	}
	return h.WithRoom(fn)
}

// WithRoom runs fn under this handle's lock.
func (h *Handle) WithRoom(fn func(*game.Room) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return fn(h.Room)
}

// HasPassword reports whether joining needs a password.
func (h *Handle) HasPassword() bool { return len(h.passwordHash) > 0 }

// CheckPassword verifies a join attempt. Rooms without a password accept
// anything.
func (h *Handle) CheckPassword(password string) bool {
	if len(h.passwordHash) == 0 {
		return true
	}
	return bcrypt.CompareHashAndPassword(h.passwordHash, []byte(password)) == nil
}

// ForEachPublic visits every public room. Used to build the directory
// listing; fn must not call back into the manager.
func (m *Manager) ForEachPublic(fn func(*Handle)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, h := range m.rooms {
		if h.Visibility == game_constants.RoomVisibilityPublic {
			fn(h)
		}
	}
}

// Count reports how many rooms are live.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// freeCodeLocked rolls 4-letter codes until it finds an unused one. With
// 456976 combinations a handful of retries is plenty; the hard cap only
// guards a pathologically full registry.
func (m *Manager) freeCodeLocked() (string, error) {
	for attempt := 0; attempt < 1000; attempt++ {
		code := randomCode()
		if _, taken := m.rooms[code]; !taken {
			return code, nil
		}
	}
	return "", errors.New("no free room codes")
}

func randomCode() string {
	letters := make([]byte, game_constants.RoomCodeLength)
	for i := range letters {
		letters[i] = byte('A' + rand.Intn(26))
	}
	return string(letters)
}
