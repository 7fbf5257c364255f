package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/greenhouse/internal/handler"    // garden and care handlers
	"github.com/iliyamo/greenhouse/internal/middleware" // JWT middleware
)

// RegisterGarden registers the space, plant and care endpoints under
// /v1. All routes require a valid JWT; every handler additionally
// scopes its queries to the authenticated owner.
func RegisterGarden(e *echo.Echo, g *handler.GardenHandler, care *handler.CareHandler, jwtSecret string) {
	// Attach middleware at group construction time for clarity.
	grp := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
	)

	// ---- Rooms ----
	grp.POST("/rooms", g.CreateRoom)
	grp.GET("/rooms", g.ListRooms)
	grp.GET("/rooms/:id", g.GetRoom)
	grp.PUT("/rooms/:id", g.UpdateRoom)
	grp.PATCH("/rooms/:id", g.UpdateRoom) // allow partial updates via PATCH as well
	grp.DELETE("/rooms/:id", g.DeleteRoom)

	// ---- Zones ----
	grp.POST("/zones", g.CreateZone)
	grp.GET("/zones", g.ListZones)
	grp.GET("/zones/:id", g.GetZone)
	grp.PUT("/zones/:id", g.UpdateZone)
	grp.PATCH("/zones/:id", g.UpdateZone)
	grp.DELETE("/zones/:id", g.DeleteZone)

	// ---- Plants ----
	grp.POST("/plants", g.CreatePlant)
	grp.GET("/plants", g.ListPlants)        // supports ?q= search and ?room_id/?zone_id filters
	grp.GET("/search/plants", g.ListPlants) // search alias, same ?q= semantics
	grp.GET("/plants/:id", g.GetPlant)
	grp.PUT("/plants/:id", g.UpdatePlant)
	grp.PATCH("/plants/:id", g.UpdatePlant)
	grp.PUT("/plants/:id/placement", g.UpdatePlantPlacement)
	grp.DELETE("/plants/:id", g.DeletePlant)

	// ---- Care steps ----
	grp.GET("/plants/:plant_id/care-steps", g.ListCareSteps)
	grp.POST("/plants/:plant_id/care-steps", g.CreateCareStep)
	grp.PUT("/plants/:plant_id/care-steps/:id", g.UpdateCareStep)
	grp.PATCH("/plants/:plant_id/care-steps/:id", g.UpdateCareStep)
	grp.DELETE("/plants/:plant_id/care-steps/:id", g.DeleteCareStep)
	grp.PUT("/plants/:plant_id/care-plan", g.ReplaceCarePlan) // wholesale replacement
	grp.POST("/plants/:plant_id/care-steps/:id/complete", g.CompleteCareStep)
	grp.DELETE("/plants/:plant_id/care-steps/:id/complete", g.UncompleteCareStep) // unmark resets to never completed
	grp.POST("/plants/:plant_id/care-steps/:id/uncomplete", g.UncompleteCareStep) // POST alias

	// ---- Care overview ----
	grp.GET("/care/due", care.DueOverview)
	grp.GET("/settings", care.Settings)
}
