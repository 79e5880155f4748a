package wizard

import "sync"

// Store keeps active sessions keyed by user and hands out a per-user lock
// so events of one user are processed strictly one at a time.
type Store interface {
	// Acquire blocks until the user's lock is free and returns the release.
	Acquire(userID int64) (release func())
	// Get returns the user's session, if any. Caller must hold the lock.
	Get(userID int64) (*Session, bool)
	// Put installs or atomically replaces the user's session.
	Put(s *Session)
	// Delete drops the user's session.
	Delete(userID int64)
	// Active reports the number of live sessions.
	Active() int
	// InProgress reports whether the user has a live session. Unlike Get
	// it does not require the lock, it is meant for routing decisions.
	InProgress(userID int64) bool
}

type userSlot struct {
	mu   sync.Mutex
	sess *Session
}

type memoryStore struct {
	mu    sync.RWMutex
	slots map[int64]*userSlot
}

// NewMemoryStore returns the default in-memory store. Sessions do not
// survive a restart.
func NewMemoryStore() Store {
	return &memoryStore{slots: make(map[int64]*userSlot)}
}

func (m *memoryStore) slot(userID int64) *userSlot {
	m.mu.Lock()
	defer m.mu.Unlock()
	sl, ok := m.slots[userID]
	if !ok {
		sl = &userSlot{}
		m.slots[userID] = sl
	}
	return sl
}

func (m *memoryStore) Acquire(userID int64) func() {
	for {
		sl := m.slot(userID)
		sl.mu.Lock()
		m.mu.RLock()
		current := m.slots[userID] == sl
		m.mu.RUnlock()
		if current {
			return func() {
				sl.mu.Unlock()
				m.reap(userID, sl)
			}
		}
		// The slot was reaped between lookup and lock, retry on a fresh one.
		sl.mu.Unlock()
	}
}

// reap drops the slot once its session is gone, so the map does not grow
// with every user ever seen. A slot that is locked again, or already
// replaced, is left alone, its own release will reap it.
func (m *memoryStore) reap(userID int64, sl *userSlot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slots[userID] != sl || sl.sess != nil {
		return
	}
	if !sl.mu.TryLock() {
		return
	}
	delete(m.slots, userID)
	sl.mu.Unlock()
}

func (m *memoryStore) Get(userID int64) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sl, ok := m.slots[userID]
	if !ok || sl.sess == nil {
		return nil, false
	}
	return sl.sess, true
}

func (m *memoryStore) Put(s *Session) {
	sl := m.slot(s.UserID)
	m.mu.Lock()
	sl.sess = s
	m.mu.Unlock()
}

func (m *memoryStore) Delete(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sl, ok := m.slots[userID]; ok {
		sl.sess = nil
	}
}

func (m *memoryStore) Active() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, sl := range m.slots {
		if sl.sess != nil {
			n++
		}
	}
	return n
}

func (m *memoryStore) InProgress(userID int64) bool {
	_, ok := m.Get(userID)
	return ok
}
