package handler // handler package contains room endpoints

import (
	"net/http" // http defines status code constants
	"strings"  // strings manipulates and trims text

	"github.com/labstack/echo/v4" // echo framework supplies request context

	"github.com/iliyamo/greenhouse/internal/model"      // model holds domain entities
	"github.com/iliyamo/greenhouse/internal/repository" // repository exposes persistence
)

// windowSpec is the inbound shape of one window in a room payload.
type windowSpec struct {
	Direction string `json:"direction"` // compass direction, one of the eight points
	Notes     string `json:"notes"`     // optional free text
}

// buildWindows validates and converts inbound window specs. Position is
// assigned from list order.
func buildWindows(specs []windowSpec) ([]model.Window, error) {
	out := make([]model.Window, 0, len(specs))
	for i, w := range specs {
		dir := model.CompassDirection(strings.ToUpper(strings.TrimSpace(w.Direction)))
		if !dir.Valid() {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid window direction: "+w.Direction)
		}
		out = append(out, model.Window{Direction: dir, Notes: strings.TrimSpace(w.Notes), Position: uint32(i)})
	}
	return out, nil
}

// CreateRoom handles POST /v1/rooms and creates a room with its windows.
func (h *GardenHandler) CreateRoom(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Name       string       `json:"name"`        // required room name
		OrderIndex *int         `json:"order_index"` // optional traversal order
		Windows    []windowSpec `json:"windows"`     // initial window layout
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	windows, err := buildWindows(body.Windows)
	if err != nil {
		return err
	}
	orderIndex := 0
	if body.OrderIndex != nil {
		orderIndex = *body.OrderIndex
	} else {
		// Default new rooms to the end of the traversal order.
		existing, err := h.RoomRepo.ListByOwner(c.Request().Context(), ownerID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		orderIndex = len(existing)
	}
	room := &model.Room{
		OwnerID:    ownerID,
		Name:       name,
		OrderIndex: orderIndex,
		Windows:    windows,
	}
	if err := h.RoomRepo.Create(c.Request().Context(), room); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create room"})
	}
	return c.JSON(http.StatusCreated, room)
}

// ListRooms handles GET /v1/rooms, ordered by order_index.
func (h *GardenHandler) ListRooms(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.RoomRepo.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetRoom handles GET /v1/rooms/:id.
func (h *GardenHandler) GetRoom(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	room, err := h.RoomRepo.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, room)
}

// UpdateRoom handles PUT /v1/rooms/:id. When a windows list is present
// the whole window layout is rebuilt; plants assigned to the old windows
// keep their room but lose the window slot.
func (h *GardenHandler) UpdateRoom(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cur, err := h.RoomRepo.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	var body struct {
		Name       *string       `json:"name"`        // optional new name
		OrderIndex *int          `json:"order_index"` // optional new traversal order
		Windows    *[]windowSpec `json:"windows"`     // optional full window replacement
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name != nil && strings.TrimSpace(*body.Name) != "" {
		cur.Name = strings.TrimSpace(*body.Name)
	}
	if body.OrderIndex != nil {
		cur.OrderIndex = *body.OrderIndex
	}
	rebuild := false
	if body.Windows != nil {
		windows, err := buildWindows(*body.Windows)
		if err != nil {
			return err
		}
		cur.Windows = windows
		rebuild = true
	}
	if err := h.RoomRepo.UpdateByIDAndOwner(c.Request().Context(), cur, rebuild); err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, cur)
}

// DeleteRoom handles DELETE /v1/rooms/:id. Plants in the room survive
// and become unassigned.
func (h *GardenHandler) DeleteRoom(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.RoomRepo.DeleteByIDAndOwner(c.Request().Context(), id, ownerID); err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
