package handler // handler package contains care step endpoints

import (
	"net/http" // http defines status code constants
	"strings"  // strings manipulates and trims text
	"time"     // time supplies completion timestamps

	"github.com/labstack/echo/v4" // echo framework supplies request context

	"github.com/iliyamo/greenhouse/internal/metrics"    // metrics counts completions
	"github.com/iliyamo/greenhouse/internal/model"      // model holds domain entities
	"github.com/iliyamo/greenhouse/internal/repository" // repository exposes persistence
)

// careStepView decorates a step with its derived due state.
type careStepView struct {
	model.CareStep
	Name        string    `json:"name"`
	NextDueAt   time.Time `json:"next_due_at"`
	DaysUntil   int       `json:"days_until_due"`
	IsOverdue   bool      `json:"is_overdue"`
	IsDueToday  bool      `json:"is_due_today"`
	DaysOverdue int       `json:"days_overdue"`
}

func viewCareStep(s model.CareStep, now time.Time) careStepView {
	return careStepView{
		CareStep:    s,
		Name:        s.Name(),
		NextDueAt:   s.NextDueAt(now),
		DaysUntil:   s.DaysUntilDue(now),
		IsOverdue:   s.IsOverdue(now),
		IsDueToday:  s.IsDueToday(now),
		DaysOverdue: s.DaysOverdue(now),
	}
}

// loadOwnedPlant fetches the plant in the path and verifies ownership.
func (h *GardenHandler) loadOwnedPlant(c echo.Context, ownerID uint64) (*model.Plant, error) {
	id, err := pathID(c, "plant_id")
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid plant_id")
	}
	p, err := h.PlantRepo.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		if err == repository.ErrPlantNotFound {
			return nil, echo.NewHTTPError(http.StatusNotFound, "plant not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

// ListCareSteps handles GET /v1/plants/:plant_id/care-steps.
func (h *GardenHandler) ListCareSteps(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	p, err := h.loadOwnedPlant(c, ownerID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	items := make([]careStepView, 0, len(p.CareSteps))
	for _, s := range p.CareSteps {
		items = append(items, viewCareStep(s, now))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CreateCareStep handles POST /v1/plants/:plant_id/care-steps and
// appends a step at the next position.
func (h *GardenHandler) CreateCareStep(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	p, err := h.loadOwnedPlant(c, ownerID)
	if err != nil {
		return err
	}
	var spec careStepSpec
	if err := c.Bind(&spec); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&spec); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type and a positive frequency_days are required"})
	}
	s, err := buildCareStep(spec)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	s.PlantID = p.ID
	if err := h.CareStepRepo.Create(c.Request().Context(), &s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create care step"})
	}
	return c.JSON(http.StatusCreated, viewCareStep(s, time.Now().UTC()))
}

// UpdateCareStep handles PUT /v1/plants/:plant_id/care-steps/:id. The
// completion baseline is untouched; changing the frequency re-derives
// the due date from the existing baseline.
func (h *GardenHandler) UpdateCareStep(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	p, err := h.loadOwnedPlant(c, ownerID)
	if err != nil {
		return err
	}
	stepID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var cur *model.CareStep
	for i := range p.CareSteps {
		if p.CareSteps[i].ID == stepID {
			cur = &p.CareSteps[i]
			break
		}
	}
	if cur == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "care step not found"})
	}
	var body struct {
		Type          *string `json:"type"`
		CustomName    *string `json:"custom_name"`
		Instructions  *string `json:"instructions"`
		FrequencyDays *int    `json:"frequency_days"`
		IsEnabled     *bool   `json:"is_enabled"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Type != nil {
		cur.Type = model.CareStepType(strings.ToUpper(strings.TrimSpace(*body.Type)))
	}
	if body.CustomName != nil {
		cur.CustomName = strings.TrimSpace(*body.CustomName)
	}
	if body.Instructions != nil {
		cur.Instructions = strings.TrimSpace(*body.Instructions)
	}
	if body.FrequencyDays != nil {
		cur.FrequencyDays = *body.FrequencyDays
	}
	if body.IsEnabled != nil {
		cur.IsEnabled = *body.IsEnabled
	}
	if err := cur.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.CareStepRepo.Update(c.Request().Context(), cur); err != nil {
		if err == model.ErrCareStepNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "care step not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, viewCareStep(*cur, time.Now().UTC()))
}

// DeleteCareStep handles DELETE /v1/plants/:plant_id/care-steps/:id.
func (h *GardenHandler) DeleteCareStep(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	p, err := h.loadOwnedPlant(c, ownerID)
	if err != nil {
		return err
	}
	stepID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, ok := findStep(p, stepID); !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "care step not found"})
	}
	if err := h.CareStepRepo.Delete(c.Request().Context(), stepID); err != nil {
		if err == model.ErrCareStepNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "care step not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ReplaceCarePlan handles PUT /v1/plants/:plant_id/care-plan, swapping
// the plant's whole care plan atomically. Completion baselines do not
// survive the swap; every new step starts as never completed.
func (h *GardenHandler) ReplaceCarePlan(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	p, err := h.loadOwnedPlant(c, ownerID)
	if err != nil {
		return err
	}
	var body struct {
		CareSteps []careStepSpec `json:"care_steps"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	steps := make([]model.CareStep, 0, len(body.CareSteps))
	for _, spec := range body.CareSteps {
		s, err := buildCareStep(spec)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		steps = append(steps, s)
	}
	fresh, err := h.CareStepRepo.ReplaceForPlant(c.Request().Context(), p.ID, steps)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not replace care plan"})
	}
	now := time.Now().UTC()
	items := make([]careStepView, 0, len(fresh))
	for _, s := range fresh {
		items = append(items, viewCareStep(s, now))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CompleteCareStep handles POST /v1/plants/:plant_id/care-steps/:id/complete.
// It records "now" as the completion baseline; repeating the call moves
// the baseline forward, which is harmless.
func (h *GardenHandler) CompleteCareStep(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	p, err := h.loadOwnedPlant(c, ownerID)
	if err != nil {
		return err
	}
	stepID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	step, ok := findStep(p, stepID)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "care step not found"})
	}
	now := time.Now().UTC()
	if err := h.CareStepRepo.MarkCompleted(c.Request().Context(), stepID, now); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not record completion"})
	}
	metrics.CareStepCompletions.WithLabelValues("mark", string(step.Type)).Inc()
	step.LastCompletedAt = &now
	return c.JSON(http.StatusOK, viewCareStep(step, now))
}

// UncompleteCareStep handles POST /v1/plants/:plant_id/care-steps/:id/uncomplete.
// This is a hard reset of the baseline: the step reads as never
// completed afterwards, even if it had a completion long before the one
// being undone.
func (h *GardenHandler) UncompleteCareStep(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	p, err := h.loadOwnedPlant(c, ownerID)
	if err != nil {
		return err
	}
	stepID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	step, ok := findStep(p, stepID)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "care step not found"})
	}
	if err := h.CareStepRepo.UnmarkCompleted(c.Request().Context(), stepID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not clear completion"})
	}
	metrics.CareStepCompletions.WithLabelValues("unmark", string(step.Type)).Inc()
	step.LastCompletedAt = nil
	return c.JSON(http.StatusOK, viewCareStep(step, time.Now().UTC()))
}

// findStep locates a step on an already-loaded plant.
func findStep(p *model.Plant, stepID uint64) (model.CareStep, bool) {
	for _, s := range p.CareSteps {
		if s.ID == stepID {
			return s, true
		}
	}
	return model.CareStep{}, false
}
