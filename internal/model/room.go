package model

import "time"

// CompassDirection is the orientation of a window.
type CompassDirection string

const (
	DirectionN  CompassDirection = "N"
	DirectionNE CompassDirection = "NE"
	DirectionE  CompassDirection = "E"
	DirectionSE CompassDirection = "SE"
	DirectionS  CompassDirection = "S"
	DirectionSW CompassDirection = "SW"
	DirectionW  CompassDirection = "W"
	DirectionNW CompassDirection = "NW"
)

// Valid reports whether the direction is one of the eight compass points.
func (d CompassDirection) Valid() bool {
	switch d {
	case DirectionN, DirectionNE, DirectionE, DirectionSE, DirectionS, DirectionSW, DirectionW, DirectionNW:
		return true
	}
	return false
}

// Window is a placement slot inside a room. Rooms exclusively own their
// windows; replacing a room's window list rebuilds these rows.
type Window struct {
	ID        uint64           `json:"id"`              // windows.id
	RoomID    uint64           `json:"room_id"`         // windows.room_id
	Direction CompassDirection `json:"direction"`       // windows.direction
	Notes     string           `json:"notes,omitempty"` // windows.notes
	Position  uint32           `json:"position"`        // windows.position
}

// Room is an indoor space grouping plants for the care routine.
// OrderIndex drives both list display and the routine traversal order.
type Room struct {
	ID         uint64    `json:"id"`          // rooms.id
	OwnerID    uint64    `json:"-"`           // rooms.owner_id
	Name       string    `json:"name"`        // rooms.name
	OrderIndex int       `json:"order_index"` // rooms.order_index
	Windows    []Window  `json:"windows"`     // owned, ordered by position
	CreatedAt  time.Time `json:"created_at"`  // rooms.created_at
	UpdatedAt  time.Time `json:"updated_at"`  // rooms.updated_at
}

// WindowByID finds an owned window by ID. The boolean is false when the
// room has no such window.
func (r Room) WindowByID(id uint64) (Window, bool) {
	for _, w := range r.Windows {
		if w.ID == id {
			return w, true
		}
	}
	return Window{}, false
}
