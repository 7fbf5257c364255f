package handler // handler package contains zone endpoints

import (
	"net/http" // http defines status code constants
	"strings"  // strings manipulates and trims text

	"github.com/labstack/echo/v4" // echo framework supplies request context

	"github.com/iliyamo/greenhouse/internal/model"      // model holds domain entities
	"github.com/iliyamo/greenhouse/internal/repository" // repository exposes persistence
)

// zoneView decorates a zone with its effective sun hours so clients do
// not have to re-implement the aspect/period inference.
type zoneView struct {
	model.Zone
	EffectiveSunHours int `json:"effective_sun_hours"`
}

func viewZone(z model.Zone) zoneView {
	return zoneView{Zone: z, EffectiveSunHours: z.EffectiveSunHours()}
}

// parseZoneFields validates the enum-typed zone fields shared by the
// create and update payloads.
func parseZoneFields(aspect, period, wind string) (model.CompassDirection, model.SunPeriod, model.WindExposure, error) {
	a := model.CompassDirection(strings.ToUpper(strings.TrimSpace(aspect)))
	if !a.Valid() {
		return "", "", "", echo.NewHTTPError(http.StatusBadRequest, "invalid aspect: "+aspect)
	}
	p := model.SunPeriod(strings.ToUpper(strings.TrimSpace(period)))
	if !p.Valid() {
		return "", "", "", echo.NewHTTPError(http.StatusBadRequest, "invalid sun_period: "+period)
	}
	w := model.WindExposure(strings.ToUpper(strings.TrimSpace(wind)))
	if !w.Valid() {
		return "", "", "", echo.NewHTTPError(http.StatusBadRequest, "invalid wind_exposure: "+wind)
	}
	return a, p, w, nil
}

// CreateZone handles POST /v1/zones.
func (h *GardenHandler) CreateZone(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Name         string `json:"name"`          // required zone name
		Aspect       string `json:"aspect"`        // compass aspect
		SunPeriod    string `json:"sun_period"`    // when the zone gets direct sun
		WindExposure string `json:"wind_exposure"` // shelter level
		SunHours     *int   `json:"sun_hours"`     // explicit hours override, nil to infer
		OrderIndex   *int   `json:"order_index"`   // optional traversal order
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	aspect, period, wind, err := parseZoneFields(body.Aspect, body.SunPeriod, body.WindExposure)
	if err != nil {
		return err
	}
	if body.SunHours != nil && (*body.SunHours < 0 || *body.SunHours > 24) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "sun_hours must be between 0 and 24"})
	}
	orderIndex := 0
	if body.OrderIndex != nil {
		orderIndex = *body.OrderIndex
	} else {
		existing, err := h.ZoneRepo.ListByOwner(c.Request().Context(), ownerID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		orderIndex = len(existing)
	}
	z := &model.Zone{
		OwnerID:      ownerID,
		Name:         name,
		Aspect:       aspect,
		SunPeriod:    period,
		WindExposure: wind,
		SunHours:     body.SunHours,
		OrderIndex:   orderIndex,
	}
	if err := h.ZoneRepo.Create(c.Request().Context(), z); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create zone"})
	}
	return c.JSON(http.StatusCreated, viewZone(*z))
}

// ListZones handles GET /v1/zones, ordered by order_index.
func (h *GardenHandler) ListZones(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	zones, err := h.ZoneRepo.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items := make([]zoneView, 0, len(zones))
	for _, z := range zones {
		items = append(items, viewZone(z))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetZone handles GET /v1/zones/:id.
func (h *GardenHandler) GetZone(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	z, err := h.ZoneRepo.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		if err == repository.ErrZoneNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "zone not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, viewZone(*z))
}

// UpdateZone handles PUT /v1/zones/:id. Absent fields keep their current
// values; sending sun_hours as null switches the zone back to inference.
func (h *GardenHandler) UpdateZone(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cur, err := h.ZoneRepo.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		if err == repository.ErrZoneNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "zone not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	var body struct {
		Name         *string `json:"name"`
		Aspect       *string `json:"aspect"`
		SunPeriod    *string `json:"sun_period"`
		WindExposure *string `json:"wind_exposure"`
		SunHours     *int    `json:"sun_hours"`
		ClearHours   bool    `json:"clear_sun_hours"` // true switches back to inferred hours
		OrderIndex   *int    `json:"order_index"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name != nil && strings.TrimSpace(*body.Name) != "" {
		cur.Name = strings.TrimSpace(*body.Name)
	}
	if body.Aspect != nil {
		a := model.CompassDirection(strings.ToUpper(strings.TrimSpace(*body.Aspect)))
		if !a.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid aspect"})
		}
		cur.Aspect = a
	}
	if body.SunPeriod != nil {
		p := model.SunPeriod(strings.ToUpper(strings.TrimSpace(*body.SunPeriod)))
		if !p.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sun_period"})
		}
		cur.SunPeriod = p
	}
	if body.WindExposure != nil {
		w := model.WindExposure(strings.ToUpper(strings.TrimSpace(*body.WindExposure)))
		if !w.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid wind_exposure"})
		}
		cur.WindExposure = w
	}
	if body.ClearHours {
		cur.SunHours = nil
	} else if body.SunHours != nil {
		if *body.SunHours < 0 || *body.SunHours > 24 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "sun_hours must be between 0 and 24"})
		}
		cur.SunHours = body.SunHours
	}
	if body.OrderIndex != nil {
		cur.OrderIndex = *body.OrderIndex
	}
	if err := h.ZoneRepo.UpdateByIDAndOwner(c.Request().Context(), cur); err != nil {
		if err == repository.ErrZoneNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "zone not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, viewZone(*cur))
}

// DeleteZone handles DELETE /v1/zones/:id. Plants in the zone survive
// and become unassigned.
func (h *GardenHandler) DeleteZone(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.ZoneRepo.DeleteByIDAndOwner(c.Request().Context(), id, ownerID); err != nil {
		if err == repository.ErrZoneNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "zone not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
