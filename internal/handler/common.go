package handler // handler defines http handlers

import (
	"errors"  // errors provides sentinel values used in getUserID
	"strconv" // strconv converts strings to numeric types

	"github.com/labstack/echo/v4" // echo defines request context types

	"github.com/iliyamo/greenhouse/internal/repository" // repository holds data access layer
	"github.com/iliyamo/greenhouse/internal/routine"    // routine holds the in-memory session store
)

// GardenHandler bundles the repositories behind the space and plant
// endpoints. Every handler resolves the authenticated user first and
// scopes all queries to that owner.
type GardenHandler struct {
	RoomRepo     *repository.RoomRepo     // RoomRepo provides room persistence
	ZoneRepo     *repository.ZoneRepo     // ZoneRepo provides zone persistence
	PlantRepo    *repository.PlantRepo    // PlantRepo provides plant persistence
	CareStepRepo *repository.CareStepRepo // CareStepRepo provides care step persistence
	Sessions     *routine.Store           // Sessions holds active routine sessions
}

// NewGardenHandler constructs a GardenHandler and panics if any dependency is nil.
func NewGardenHandler(rooms *repository.RoomRepo, zones *repository.ZoneRepo, plants *repository.PlantRepo, steps *repository.CareStepRepo, sessions *routine.Store) *GardenHandler {
	if rooms == nil || zones == nil || plants == nil || steps == nil || sessions == nil { // check for nil dependencies
		panic("nil dependency passed to NewGardenHandler") // fail fast on wiring mistakes
	}
	return &GardenHandler{
		RoomRepo:     rooms,
		ZoneRepo:     zones,
		PlantRepo:    plants,
		CareStepRepo: steps,
		Sessions:     sessions,
	}
}

// getUserID extracts the user_id from echo.Context and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id") // fetch user_id from context
	switch t := v.(type) { // the JWT middleware may store different numeric types
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64: // JWT numeric claims decode as float64
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}
