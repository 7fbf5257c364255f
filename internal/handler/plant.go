package handler // handler package contains plant endpoints

import (
	"errors"   // errors matches repository sentinel values
	"net/http" // http defines status code constants
	"strconv"  // strconv parses query-string filters
	"strings"  // strings manipulates and trims text
	"time"     // time supplies "now" for due derivation

	"github.com/labstack/echo/v4" // echo framework supplies request context

	"github.com/iliyamo/greenhouse/internal/model"      // model holds domain entities
	"github.com/iliyamo/greenhouse/internal/repository" // repository exposes persistence
)

// plantView decorates a plant with derived due-state fields so clients
// never compute due dates themselves.
type plantView struct {
	model.Plant
	HasOverdue bool          `json:"has_overdue"`
	NextDue    *nextDuePart  `json:"next_due"`
	DueToday   []careStepDue `json:"due_today"`
}

type nextDuePart struct {
	StepID    uint64    `json:"step_id"`
	Name      string    `json:"name"`
	DueAt     time.Time `json:"due_at"`
	DaysUntil int       `json:"days_until"`
}

type careStepDue struct {
	StepID uint64 `json:"step_id"`
	Name   string `json:"name"`
}

func viewPlant(p model.Plant, now time.Time) plantView {
	v := plantView{Plant: p, HasOverdue: p.HasAnyOverdueCareSteps(now)}
	if s, ok := p.NextDueCareStep(now); ok {
		v.NextDue = &nextDuePart{
			StepID:    s.ID,
			Name:      s.Name(),
			DueAt:     s.NextDueAt(now),
			DaysUntil: s.DaysUntilDue(now),
		}
	}
	for _, s := range p.DueTodayCareSteps(now) {
		v.DueToday = append(v.DueToday, careStepDue{StepID: s.ID, Name: s.Name()})
	}
	return v
}

// careStepSpec is the inbound shape of one care step. The validate tags
// catch shape errors early; the model's Validate still owns the
// semantic rules (known type, custom name for custom steps).
type careStepSpec struct {
	Type          string `json:"type" validate:"required"`                // WATERING, MISTING, DUSTING, ROTATION or CUSTOM
	CustomName    string `json:"custom_name"`                             // required when type is CUSTOM
	Instructions  string `json:"instructions"`                            // free text shown during routines
	FrequencyDays int    `json:"frequency_days" validate:"required,gt=0"` // days between occurrences, > 0
	IsEnabled     *bool  `json:"is_enabled"`                              // defaults to true
}

func buildCareStep(spec careStepSpec) (model.CareStep, error) {
	s, err := model.NewCareStep(
		model.CareStepType(strings.ToUpper(strings.TrimSpace(spec.Type))),
		strings.TrimSpace(spec.CustomName),
		strings.TrimSpace(spec.Instructions),
		spec.FrequencyDays,
	)
	if err != nil {
		return model.CareStep{}, err
	}
	if spec.IsEnabled != nil {
		s.IsEnabled = *spec.IsEnabled
	}
	return s, nil
}

// CreatePlant handles POST /v1/plants. The payload may carry the initial
// care plan and a placement; both are validated before any write.
func (h *GardenHandler) CreatePlant(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Name      string         `json:"name"`       // required display name
		Species   string         `json:"species"`    // optional species
		Notes     string         `json:"notes"`      // optional free text
		RoomID    *uint64        `json:"room_id"`    // optional room placement
		WindowID  *uint64        `json:"window_id"`  // optional window, requires room_id
		ZoneID    *uint64        `json:"zone_id"`    // optional zone placement
		CareSteps []careStepSpec `json:"care_steps"` // initial care plan
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	p := &model.Plant{
		OwnerID:  ownerID,
		Name:     name,
		Species:  strings.TrimSpace(body.Species),
		Notes:    strings.TrimSpace(body.Notes),
		RoomID:   body.RoomID,
		WindowID: body.WindowID,
		ZoneID:   body.ZoneID,
	}
	if err := p.ValidatePlacement(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.verifyPlacement(c, ownerID, p.RoomID, p.WindowID, p.ZoneID); err != nil {
		return err
	}
	for _, spec := range body.CareSteps {
		s, err := buildCareStep(spec)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		p.AddCareStep(s)
	}
	if err := h.PlantRepo.Create(c.Request().Context(), p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create plant"})
	}
	return c.JSON(http.StatusCreated, viewPlant(*p, time.Now().UTC()))
}

// verifyPlacement checks that the referenced room, window and zone exist
// and belong to the owner. A window must belong to the given room. The
// returned errors are *echo.HTTPError values rendered by echo's error
// handler, so callers just propagate them.
func (h *GardenHandler) verifyPlacement(c echo.Context, ownerID uint64, roomID, windowID, zoneID *uint64) error {
	ctx := c.Request().Context()
	if roomID != nil {
		room, err := h.RoomRepo.GetByIDAndOwner(ctx, *roomID, ownerID)
		if err != nil {
			if err == repository.ErrRoomNotFound {
				return echo.NewHTTPError(http.StatusNotFound, "room not found")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if windowID != nil {
			if _, ok := room.WindowByID(*windowID); !ok {
				return echo.NewHTTPError(http.StatusConflict, "window does not belong to the room")
			}
		}
	}
	if zoneID != nil {
		if _, err := h.ZoneRepo.GetByIDAndOwner(ctx, *zoneID, ownerID); err != nil {
			if err == repository.ErrZoneNotFound {
				return echo.NewHTTPError(http.StatusNotFound, "zone not found")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}
	return nil
}

// ListPlants handles GET /v1/plants and GET /v1/search/plants. It
// accepts an optional ?q= search term matching name or species, or a
// ?room_id= / ?zone_id= filter narrowing the list to one space.
func (h *GardenHandler) ListPlants(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var plants []model.Plant
	switch {
	case c.QueryParam("room_id") != "":
		roomID, perr := strconv.ParseUint(c.QueryParam("room_id"), 10, 64)
		if perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room_id"})
		}
		plants, err = h.PlantRepo.ListByRoom(c.Request().Context(), ownerID, roomID)
	case c.QueryParam("zone_id") != "":
		zoneID, perr := strconv.ParseUint(c.QueryParam("zone_id"), 10, 64)
		if perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid zone_id"})
		}
		plants, err = h.PlantRepo.ListByZone(c.Request().Context(), ownerID, zoneID)
	default:
		plants, err = h.PlantRepo.SearchByOwner(c.Request().Context(), ownerID, strings.TrimSpace(c.QueryParam("q")))
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	now := time.Now().UTC()
	items := make([]plantView, 0, len(plants))
	for _, p := range plants {
		items = append(items, viewPlant(p, now))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetPlant handles GET /v1/plants/:id.
func (h *GardenHandler) GetPlant(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	p, err := h.PlantRepo.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		if err == repository.ErrPlantNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "plant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, viewPlant(*p, time.Now().UTC()))
}

// UpdatePlant handles PUT /v1/plants/:id for the descriptive fields.
// Placement and care steps have dedicated endpoints.
func (h *GardenHandler) UpdatePlant(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cur, err := h.PlantRepo.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		if err == repository.ErrPlantNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "plant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	var body struct {
		Name    *string `json:"name"`
		Species *string `json:"species"`
		Notes   *string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name != nil && strings.TrimSpace(*body.Name) != "" {
		cur.Name = strings.TrimSpace(*body.Name)
	}
	if body.Species != nil {
		cur.Species = strings.TrimSpace(*body.Species)
	}
	if body.Notes != nil {
		cur.Notes = strings.TrimSpace(*body.Notes)
	}
	if err := h.PlantRepo.UpdateByIDAndOwner(c.Request().Context(), cur); err != nil {
		switch {
		case errors.Is(err, repository.ErrPlantNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "plant not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, viewPlant(*cur, time.Now().UTC()))
}

// UpdatePlantPlacement handles PUT /v1/plants/:id/placement. The payload
// states the full desired placement; room and zone are mutually
// exclusive and a window requires its room. An empty payload unassigns.
func (h *GardenHandler) UpdatePlantPlacement(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cur, err := h.PlantRepo.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		if err == repository.ErrPlantNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "plant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	var body struct {
		RoomID   *uint64 `json:"room_id"`
		WindowID *uint64 `json:"window_id"`
		ZoneID   *uint64 `json:"zone_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	next := model.Plant{RoomID: body.RoomID, WindowID: body.WindowID, ZoneID: body.ZoneID}
	if err := next.ValidatePlacement(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.verifyPlacement(c, ownerID, body.RoomID, body.WindowID, body.ZoneID); err != nil {
		return err
	}
	if err := h.PlantRepo.UpdatePlacement(c.Request().Context(), id, ownerID, body.RoomID, body.WindowID, body.ZoneID); err != nil {
		switch {
		case errors.Is(err, repository.ErrPlantNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "plant not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "window does not belong to the room"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	cur.RoomID, cur.WindowID, cur.ZoneID = body.RoomID, body.WindowID, body.ZoneID
	return c.JSON(http.StatusOK, viewPlant(*cur, time.Now().UTC()))
}

// DeletePlant handles DELETE /v1/plants/:id.
func (h *GardenHandler) DeletePlant(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.PlantRepo.DeleteByIDAndOwner(c.Request().Context(), id, ownerID); err != nil {
		switch {
		case errors.Is(err, repository.ErrPlantNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "plant not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
