package routine

import (
	"errors"
	"sync"
	"time"
)

// ErrNoActiveSession is returned by store lookups when the user has no
// routine in progress. Handlers translate it into HTTP 409.
var ErrNoActiveSession = errors.New("no active routine session")

// Store keeps at most one in-flight session per user. Sessions are
// deliberately process-local: they are progress bookkeeping only, every
// toggled completion is already persisted, and losing them on restart
// loses nothing durable.
type Store struct {
	mu     sync.RWMutex
	byUser map[uint64]*Session
}

// NewStore constructs an empty session store.
func NewStore() *Store {
	return &Store{byUser: make(map[uint64]*Session)}
}

// Start creates a session for the user over the given traversal.
// Starting while another session is active replaces it, which is
// equivalent to cancelling the old one: its persisted completions stand.
func (st *Store) Start(userID uint64, spaces []Space, now time.Time) *Session {
	s := NewSession(userID, spaces, now)
	st.mu.Lock()
	st.byUser[userID] = s
	st.mu.Unlock()
	return s
}

// Get returns the user's active session or ErrNoActiveSession.
func (st *Store) Get(userID uint64) (*Session, error) {
	st.mu.RLock()
	s, ok := st.byUser[userID]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrNoActiveSession
	}
	return s, nil
}

// End removes the user's session, whether committed or discarded. It is
// a no-op when no session exists.
func (st *Store) End(userID uint64) {
	st.mu.Lock()
	delete(st.byUser, userID)
	st.mu.Unlock()
}
