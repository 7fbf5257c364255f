package routine

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// State names the phases of a routine session. Committed and discarded
// sessions are removed from the store rather than kept around; the two
// stored states are in-progress and reviewing.
type State string

const (
	StateInProgress State = "IN_PROGRESS"
	StateReviewing  State = "REVIEWING"
)

// stepKey identifies one care step of one plant inside a session's
// completed set.
type stepKey struct {
	PlantID uint64
	StepID  uint64
}

// Session is the ephemeral bookkeeping of one guided walkthrough. It
// owns no persisted state: toggling a step persists the completion
// immediately through the repository layer, and the session only tracks
// which pairs were toggled for progress display. Dropping a session
// mid-flight therefore never reverts completions.
type Session struct {
	ID         string
	UserID     uint64
	Spaces     []Space
	Index      int
	State      State
	StartedAt  time.Time
	TotalSteps int // frozen at start; mid-session step edits do not move it

	mu        sync.Mutex // guards Index, State and completed against concurrent requests
	completed map[stepKey]struct{}
}

// Summary is the review-state snapshot shown when a routine finishes.
type Summary struct {
	SessionID      string    `json:"session_id"`
	Spaces         int       `json:"spaces"`
	CompletedSteps int       `json:"completed_steps"`
	TotalSteps     int       `json:"total_steps"`
	StartedAt      time.Time `json:"started_at"`
	CompletedAt    time.Time `json:"completed_at"`
}

// NewSession starts a walkthrough over the given traversal. The total
// step count is the sum of enabled steps over every occupant of every
// space, fixed at session start.
func NewSession(userID uint64, spaces []Space, now time.Time) *Session {
	total := 0
	for _, sp := range spaces {
		total += sp.EnabledStepCount()
	}
	return &Session{
		ID:         uuid.NewString(),
		UserID:     userID,
		Spaces:     spaces,
		State:      StateInProgress,
		StartedAt:  now,
		TotalSteps: total,
		completed:  make(map[stepKey]struct{}),
	}
}

// CurrentSpace returns the space the walkthrough is stopped on. The
// boolean is false for an empty traversal.
func (s *Session) CurrentSpace() (Space, bool) {
	if len(s.Spaces) == 0 {
		return Space{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Spaces[s.Index], true
}

// Next advances to the following space. Past the last space it is a
// no-op, not an error; the return reports whether the index moved.
func (s *Session) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Index >= len(s.Spaces)-1 {
		return false
	}
	s.Index++
	return true
}

// Previous steps back to the preceding space, clamped at the first.
func (s *Session) Previous() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Index <= 0 {
		return false
	}
	s.Index--
	return true
}

// Toggle flips the completion mark for a (plant, step) pair in the
// session's set and reports whether the pair is now marked complete.
// The caller persists the matching last-completed mutation.
func (s *Session) Toggle(plantID, stepID uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := stepKey{PlantID: plantID, StepID: stepID}
	if _, ok := s.completed[k]; ok {
		delete(s.completed, k)
		return false
	}
	s.completed[k] = struct{}{}
	return true
}

// IsCompleted reports whether the pair is marked complete in this session.
func (s *Session) IsCompleted(plantID, stepID uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.completed[stepKey{PlantID: plantID, StepID: stepID}]
	return ok
}

// CompletedCount returns how many pairs are currently marked complete.
func (s *Session) CompletedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.completed)
}

// Position returns the current space index and session phase under the
// lock, for rendering progress.
func (s *Session) Position() (int, State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Index, s.State
}

// Review transitions the session to the reviewing state and returns the
// whole-traversal summary (completed vs total across every space, not
// just the current one).
func (s *Session) Review(now time.Time) Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.State = StateReviewing
	return Summary{
		SessionID:      s.ID,
		Spaces:         len(s.Spaces),
		CompletedSteps: len(s.completed),
		TotalSteps:     s.TotalSteps,
		StartedAt:      s.StartedAt,
		CompletedAt:    now,
	}
}
