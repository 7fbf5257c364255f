package handler // handler package contains the guided routine endpoints

import (
	"context"  // context detaches event publishing from the request
	"net/http" // http defines status code constants
	"time"     // time supplies session and completion timestamps

	"github.com/labstack/echo/v4" // echo framework supplies request context

	"github.com/iliyamo/greenhouse/internal/metrics"                 // metrics counts sessions and toggles
	"github.com/iliyamo/greenhouse/internal/model"                   // model holds domain entities
	"github.com/iliyamo/greenhouse/internal/queue"                   // queue defines broker payloads
	"github.com/iliyamo/greenhouse/internal/routine"                 // routine holds traversal and session logic
	queue_publisher "github.com/iliyamo/greenhouse/internal/service" // publisher sends routine events
)

// sessionView is the session snapshot returned by the routine endpoints.
type sessionView struct {
	SessionID      string        `json:"session_id"`
	State          routine.State `json:"state"`
	SpaceIndex     int           `json:"space_index"`
	SpaceCount     int           `json:"space_count"`
	CurrentSpace   *spaceView    `json:"current_space"`
	CompletedSteps int           `json:"completed_steps"`
	TotalSteps     int           `json:"total_steps"`
	StartedAt      time.Time     `json:"started_at"`
}

// spaceView is one traversal stop with per-step completion marks.
type spaceView struct {
	Kind   routine.SpaceKind `json:"kind"`
	ID     uint64            `json:"id"`
	Name   string            `json:"name"`
	Plants []plantStepsView  `json:"plants"`
}

type plantStepsView struct {
	PlantID uint64            `json:"plant_id"`
	Name    string            `json:"name"`
	Steps   []routineStepView `json:"steps"`
}

type routineStepView struct {
	StepID       uint64 `json:"step_id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Instructions string `json:"instructions"`
	IsDueToday   bool   `json:"is_due_today"`
	IsOverdue    bool   `json:"is_overdue"`
	Completed    bool   `json:"completed"`    // toggled in this session
}

func viewSession(s *routine.Session, now time.Time) sessionView {
	idx, state := s.Position()
	v := sessionView{
		SessionID:      s.ID,
		State:          state,
		SpaceCount:     len(s.Spaces),
		CompletedSteps: s.CompletedCount(),
		TotalSteps:     s.TotalSteps,
		StartedAt:      s.StartedAt,
	}
	if sp, ok := s.CurrentSpace(); ok {
		v.SpaceIndex = idx
		cur := viewSpace(s, sp, now)
		v.CurrentSpace = &cur
	}
	return v
}

func viewSpace(s *routine.Session, sp routine.Space, now time.Time) spaceView {
	out := spaceView{Kind: sp.Kind, ID: sp.ID, Name: sp.Name}
	for _, p := range sp.Plants {
		pv := plantStepsView{PlantID: p.ID, Name: p.Name}
		for _, step := range p.EnabledCareSteps() {
			pv.Steps = append(pv.Steps, routineStepView{
				StepID:       step.ID,
				Name:         step.Name(),
				Type:         string(step.Type),
				Instructions: step.Instructions,
				IsDueToday:   step.IsDueToday(now),
				IsOverdue:    step.IsOverdue(now),
				Completed:    s.IsCompleted(p.ID, step.ID),
			})
		}
		out.Plants = append(out.Plants, pv)
	}
	return out
}

// StartRoutine handles POST /v1/routine/start. The traversal is built
// once from the current spaces and plants: occupied rooms in order,
// then occupied zones in order. Starting while another routine is
// active replaces it; completions already persisted by the old session
// stand.
func (h *GardenHandler) StartRoutine(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	rooms, err := h.RoomRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	zones, err := h.ZoneRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	plants, err := h.PlantRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	spaces := routine.BuildTraversal(rooms, zones, plants)
	now := time.Now().UTC()
	s := h.Sessions.Start(ownerID, spaces, now)
	metrics.RoutineSessions.WithLabelValues("started").Inc()
	return c.JSON(http.StatusCreated, viewSession(s, now))
}

// GetRoutine handles GET /v1/routine and returns the active session.
func (h *GardenHandler) GetRoutine(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	s, err := h.Sessions.Get(ownerID)
	if err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "no active routine"})
	}
	return c.JSON(http.StatusOK, viewSession(s, time.Now().UTC()))
}

// NextSpace handles POST /v1/routine/next. Past the last space the
// index stays put; moved reports whether anything changed.
func (h *GardenHandler) NextSpace(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	s, err := h.Sessions.Get(ownerID)
	if err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "no active routine"})
	}
	moved := s.Next()
	v := viewSession(s, time.Now().UTC())
	return c.JSON(http.StatusOK, echo.Map{"moved": moved, "session": v})
}

// PreviousSpace handles POST /v1/routine/previous, clamped at the first
// space.
func (h *GardenHandler) PreviousSpace(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	s, err := h.Sessions.Get(ownerID)
	if err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "no active routine"})
	}
	moved := s.Previous()
	v := viewSession(s, time.Now().UTC())
	return c.JSON(http.StatusOK, echo.Map{"moved": moved, "session": v})
}

// ToggleStep handles POST /v1/routine/toggle. The toggle is applied to
// the session's completed set and the completion is persisted right
// away: marking writes "now" as the step's baseline, unmarking clears
// the baseline entirely. A crash after this call therefore never loses
// a completed step.
func (h *GardenHandler) ToggleStep(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	s, err := h.Sessions.Get(ownerID)
	if err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "no active routine"})
	}
	var body struct {
		PlantID uint64 `json:"plant_id"`
		StepID  uint64 `json:"step_id"`
	}
	if err := c.Bind(&body); err != nil || body.PlantID == 0 || body.StepID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "plant_id and step_id required"})
	}
	step, ok := sessionStep(s, body.PlantID, body.StepID)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "step not part of this routine"})
	}

	completed := s.Toggle(body.PlantID, body.StepID)
	now := time.Now().UTC()
	err = persistToggle(step.Type, completed, func() error {
		if completed {
			return h.CareStepRepo.MarkCompleted(c.Request().Context(), body.StepID, now)
		}
		return h.CareStepRepo.UnmarkCompleted(c.Request().Context(), body.StepID)
	})
	if err != nil {
		// Roll the session mark back so the display matches the store.
		s.Toggle(body.PlantID, body.StepID)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not persist completion"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"completed":       completed,
		"completed_steps": s.CompletedCount(),
		"total_steps":     s.TotalSteps,
	})
}

// persistToggle runs the completion write and counts it only after the
// write succeeded, so failed toggles never inflate the counter.
func persistToggle(stepType model.CareStepType, completed bool, write func() error) error {
	if err := write(); err != nil {
		return err
	}
	direction := "unmark"
	if completed {
		direction = "mark"
	}
	metrics.CareStepCompletions.WithLabelValues(direction, string(stepType)).Inc()
	return nil
}

// sessionStep looks up an enabled step inside the session's frozen
// traversal. Steps added after the session started are not part of it.
func sessionStep(s *routine.Session, plantID, stepID uint64) (model.CareStep, bool) {
	for _, sp := range s.Spaces {
		for _, p := range sp.Plants {
			if p.ID != plantID {
				continue
			}
			for _, step := range p.EnabledCareSteps() {
				if step.ID == stepID {
					return step, true
				}
			}
		}
	}
	return model.CareStep{}, false
}

// CompleteRoutine handles POST /v1/routine/complete. The session moves
// to its review summary, a routine.completed event is published for the
// care journal, and the session is removed. Step completions were
// already persisted at toggle time, so this commits nothing else.
func (h *GardenHandler) CompleteRoutine(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	s, err := h.Sessions.Get(ownerID)
	if err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "no active routine"})
	}
	now := time.Now().UTC()
	summary := s.Review(now)

	names := make([]string, 0, len(s.Spaces))
	for _, sp := range s.Spaces {
		names = append(names, sp.Name)
	}
	ev := queue.RoutineCompletedEvent{
		SessionID:      summary.SessionID,
		UserID:         ownerID,
		Spaces:         summary.Spaces,
		SpaceNames:     names,
		CompletedSteps: summary.CompletedSteps,
		TotalSteps:     summary.TotalSteps,
		StartedAt:      summary.StartedAt.Format(time.RFC3339),
		CompletedAt:    summary.CompletedAt.Format(time.RFC3339),
	}
	// Publish in the background; the routine result does not depend on
	// the broker being reachable.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishRoutineCompleted(ctx, ev)
	}()

	h.Sessions.End(ownerID)
	metrics.RoutineSessions.WithLabelValues("committed").Inc()
	return c.JSON(http.StatusOK, summary)
}

// CancelRoutine handles POST /v1/routine/cancel. Discarding the session
// does not revert completions that were persisted by toggles; only the
// walkthrough bookkeeping is dropped.
func (h *GardenHandler) CancelRoutine(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if _, err := h.Sessions.Get(ownerID); err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "no active routine"})
	}
	h.Sessions.End(ownerID)
	metrics.RoutineSessions.WithLabelValues("discarded").Inc()
	return c.NoContent(http.StatusNoContent)
}
