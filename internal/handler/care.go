package handler // handler package contains the care overview endpoints

import (
	"net/http" // http defines status code constants
	"time"     // time supplies "now" for due derivation

	"github.com/labstack/echo/v4" // echo framework supplies request context

	"github.com/iliyamo/greenhouse/internal/config"  // config carries the early-warning setting
	"github.com/iliyamo/greenhouse/internal/model"   // model holds domain entities
	"github.com/iliyamo/greenhouse/internal/routine" // routine resolves space names
)

// CareHandler serves the aggregated due overview. It shares the garden
// repositories but exists separately because it also needs config.
type CareHandler struct {
	Cfg    config.Config
	Garden *GardenHandler
}

func NewCareHandler(cfg config.Config, garden *GardenHandler) *CareHandler {
	if garden == nil {
		panic("nil garden handler passed to NewCareHandler")
	}
	return &CareHandler{Cfg: cfg, Garden: garden}
}

// dueEntry is one step of the due overview, flattened across plants.
type dueEntry struct {
	PlantID     uint64    `json:"plant_id"`
	PlantName   string    `json:"plant_name"`
	SpaceName   string    `json:"space_name"`
	StepID      uint64    `json:"step_id"`
	StepName    string    `json:"step_name"`
	StepType    string    `json:"step_type"`
	DueAt       time.Time `json:"due_at"`
	DaysUntil   int       `json:"days_until_due"`
	DaysOverdue int       `json:"days_overdue,omitempty"`
}

// DueOverview handles GET /v1/care/due. The response groups the owner's
// enabled care steps into overdue, due-today and due-soon buckets, all
// derived against a single "now" so the buckets cannot overlap. The
// due-soon horizon is the early-warning setting (in days).
func (h *CareHandler) DueOverview(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	plants, err := h.Garden.PlantRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	rooms, err := h.Garden.RoomRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	zones, err := h.Garden.ZoneRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	now := time.Now().UTC()
	horizon := h.Cfg.EarlyWarningDays

	var overdue, dueToday, dueSoon []dueEntry
	for _, p := range plants {
		spaceName := routine.SpaceNameForPlant(rooms, zones, p)
		for _, s := range p.EnabledCareSteps() {
			e := dueEntry{
				PlantID:   p.ID,
				PlantName: p.Name,
				SpaceName: spaceName,
				StepID:    s.ID,
				StepName:  s.Name(),
				StepType:  string(s.Type),
				DueAt:     s.NextDueAt(now),
				DaysUntil: s.DaysUntilDue(now),
			}
			switch d := e.DaysUntil; {
			case d < 0:
				e.DaysOverdue = s.DaysOverdue(now)
				overdue = append(overdue, e)
			case d == 0:
				dueToday = append(dueToday, e)
			case d <= horizon:
				dueSoon = append(dueSoon, e)
			}
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"as_of":     now,
		"overdue":   emptyIfNil(overdue),
		"due_today": emptyIfNil(dueToday),
		"due_soon":  emptyIfNil(dueSoon),
	})
}

// Settings handles GET /v1/settings. The early-warning window is served
// to clients but never feeds the due derivation itself.
func (h *CareHandler) Settings(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"early_warning_days": h.Cfg.EarlyWarningDays,
		"step_types": []echo.Map{
			{"type": string(model.CareStepWatering), "name": model.CareStepWatering.DisplayName()},
			{"type": string(model.CareStepMisting), "name": model.CareStepMisting.DisplayName()},
			{"type": string(model.CareStepDusting), "name": model.CareStepDusting.DisplayName()},
			{"type": string(model.CareStepRotation), "name": model.CareStepRotation.DisplayName()},
			{"type": string(model.CareStepCustom), "name": model.CareStepCustom.DisplayName()},
		},
	})
}

// emptyIfNil keeps JSON arrays as [] instead of null.
func emptyIfNil(in []dueEntry) []dueEntry {
	if in == nil {
		return []dueEntry{}
	}
	return in
}
