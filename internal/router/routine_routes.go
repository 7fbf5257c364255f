package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/greenhouse/internal/handler"    // routine handlers
	"github.com/iliyamo/greenhouse/internal/middleware" // JWT middleware
)

// RegisterRoutine registers the guided-walkthrough endpoints under
// /v1/routine. A user has at most one active session; every endpoint
// except start answers 409 when none exists.
func RegisterRoutine(e *echo.Echo, g *handler.GardenHandler, jwtSecret string) {
	grp := e.Group(
		"/v1/routine",
		middleware.JWTAuth(jwtSecret),
	)

	grp.POST("/start", g.StartRoutine)       // builds the traversal and opens a session
	grp.GET("", g.GetRoutine)                // current session snapshot
	grp.POST("/next", g.NextSpace)           // advance, clamped at the last space
	grp.POST("/previous", g.PreviousSpace)   // step back, clamped at the first space
	grp.POST("/steps/toggle", g.ToggleStep)  // flip one step; persists immediately
	grp.POST("/complete", g.CompleteRoutine) // review summary + routine.completed event
	grp.DELETE("", g.CancelRoutine)          // drop the walkthrough, completions stand
	grp.POST("/cancel", g.CancelRoutine)     // POST alias for clients without DELETE
}
