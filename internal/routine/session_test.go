package routine

import (
	"testing"
	"time"

	"github.com/iliyamo/greenhouse/internal/model"
)

func twoSpaceTraversal() []Space {
	return []Space{
		{Kind: SpaceRoom, ID: 1, Name: "Kitchen", Plants: []model.Plant{
			{ID: 1, Name: "Basil", CareSteps: []model.CareStep{
				{ID: 10, IsEnabled: true},
				{ID: 11, IsEnabled: true},
				{ID: 12, IsEnabled: false},
			}},
		}},
		{Kind: SpaceZone, ID: 2, Name: "Balcony", Plants: []model.Plant{
			{ID: 2, Name: "Lavender", CareSteps: []model.CareStep{
				{ID: 20, IsEnabled: true},
			}},
		}},
	}
}

func TestNewSessionFreezesTotals(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	s := NewSession(7, twoSpaceTraversal(), now)

	if s.TotalSteps != 3 {
		t.Fatalf("TotalSteps = %d, want 3 (disabled steps excluded)", s.TotalSteps)
	}
	if s.State != StateInProgress {
		t.Errorf("new session state = %q, want %q", s.State, StateInProgress)
	}
	if s.ID == "" {
		t.Errorf("session must get an identifier")
	}

	// Mutating the traversal copy after start must not move the total.
	s.Spaces[0].Plants[0].CareSteps = append(s.Spaces[0].Plants[0].CareSteps,
		model.CareStep{ID: 99, IsEnabled: true})
	if s.TotalSteps != 3 {
		t.Errorf("TotalSteps moved after a mid-session edit: %d", s.TotalSteps)
	}
}

func TestNavigationClampsAtEnds(t *testing.T) {
	now := time.Now().UTC()
	s := NewSession(7, twoSpaceTraversal(), now)

	if s.Previous() {
		t.Errorf("Previous at the first space must be a no-op")
	}
	if !s.Next() {
		t.Fatalf("Next from the first of two spaces should move")
	}
	if s.Next() {
		t.Errorf("Next at the last space must be a no-op")
	}
	if sp, ok := s.CurrentSpace(); !ok || sp.Name != "Balcony" {
		t.Errorf("CurrentSpace = %+v, want Balcony", sp)
	}
	if !s.Previous() {
		t.Errorf("Previous from the last space should move")
	}
	if sp, _ := s.CurrentSpace(); sp.Name != "Kitchen" {
		t.Errorf("CurrentSpace after Previous = %q, want Kitchen", sp.Name)
	}
}

func TestEmptyTraversalHasNoCurrentSpace(t *testing.T) {
	s := NewSession(7, nil, time.Now().UTC())
	if _, ok := s.CurrentSpace(); ok {
		t.Errorf("empty traversal should have no current space")
	}
	if s.Next() || s.Previous() {
		t.Errorf("navigation on an empty traversal must be a no-op")
	}
	if s.TotalSteps != 0 {
		t.Errorf("TotalSteps = %d, want 0", s.TotalSteps)
	}
}

func TestToggleFlipsCompletion(t *testing.T) {
	s := NewSession(7, twoSpaceTraversal(), time.Now().UTC())

	if !s.Toggle(1, 10) {
		t.Fatalf("first toggle should mark the step complete")
	}
	if !s.IsCompleted(1, 10) || s.CompletedCount() != 1 {
		t.Errorf("toggle did not record completion")
	}
	if s.Toggle(1, 10) {
		t.Fatalf("second toggle should unmark the step")
	}
	if s.IsCompleted(1, 10) || s.CompletedCount() != 0 {
		t.Errorf("untoggle did not clear completion")
	}

	// Same step ID under a different plant is a distinct pair.
	s.Toggle(1, 20)
	s.Toggle(2, 20)
	if s.CompletedCount() != 2 {
		t.Errorf("pairs with distinct plants must be tracked separately, count = %d", s.CompletedCount())
	}
}

func TestReviewSummarisesWholeTraversal(t *testing.T) {
	start := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(25 * time.Minute)
	s := NewSession(7, twoSpaceTraversal(), start)

	s.Toggle(1, 10)
	s.Toggle(2, 20) // step in the second space counts even while viewing the first

	sum := s.Review(end)
	if s.State != StateReviewing {
		t.Errorf("Review must transition the state, got %q", s.State)
	}
	if sum.CompletedSteps != 2 || sum.TotalSteps != 3 {
		t.Errorf("summary = %d/%d, want 2/3", sum.CompletedSteps, sum.TotalSteps)
	}
	if sum.Spaces != 2 {
		t.Errorf("summary spaces = %d, want 2", sum.Spaces)
	}
	if !sum.StartedAt.Equal(start) || !sum.CompletedAt.Equal(end) {
		t.Errorf("summary timestamps wrong: %+v", sum)
	}
}

func TestStoreLifecycle(t *testing.T) {
	st := NewStore()
	now := time.Now().UTC()

	if _, err := st.Get(7); err != ErrNoActiveSession {
		t.Fatalf("Get without session = %v, want ErrNoActiveSession", err)
	}

	first := st.Start(7, twoSpaceTraversal(), now)
	got, err := st.Get(7)
	if err != nil || got.ID != first.ID {
		t.Fatalf("Get returned (%v, %v), want the started session", got, err)
	}

	// Starting again replaces the active session.
	second := st.Start(7, twoSpaceTraversal(), now)
	if got, _ := st.Get(7); got.ID != second.ID || got.ID == first.ID {
		t.Errorf("second start must replace the first session")
	}

	// Sessions are per user.
	other := st.Start(8, nil, now)
	if got, _ := st.Get(8); got.ID != other.ID {
		t.Errorf("users must not share sessions")
	}

	st.End(7)
	if _, err := st.Get(7); err != ErrNoActiveSession {
		t.Errorf("Get after End = %v, want ErrNoActiveSession", err)
	}
	if _, err := st.Get(8); err != nil {
		t.Errorf("ending one user's session must not touch another's")
	}
	st.End(7) // idempotent
}
