package model

import (
	"errors"
	"time"
)

// Plant is the aggregate that owns an ordered collection of care steps
// plus its placement inside the user's spaces. Placement is modeled as
// optional foreign keys rather than object references; lookups happen
// on demand against the authoritative room/zone collections and must
// tolerate dangling IDs. At most one of RoomID and ZoneID is set, and
// WindowID is only meaningful together with RoomID.
type Plant struct {
	ID        uint64     `json:"id"`                // plants.id
	OwnerID   uint64     `json:"-"`                 // plants.owner_id
	Name      string     `json:"name"`              // plants.name
	Species   string     `json:"species,omitempty"` // plants.species
	Notes     string     `json:"notes,omitempty"`   // plants.notes
	RoomID    *uint64    `json:"room_id"`           // plants.room_id (nullable)
	WindowID  *uint64    `json:"window_id"`         // plants.window_id (nullable)
	ZoneID    *uint64    `json:"zone_id"`           // plants.zone_id (nullable)
	CareSteps []CareStep `json:"care_steps"`        // owned, ordered by position
	CreatedAt time.Time  `json:"created_at"`        // plants.created_at
	UpdatedAt time.Time  `json:"updated_at"`        // plants.updated_at
}

// ErrConflictingPlacement is returned when a plant would be assigned to
// a room and a zone at the same time, or to a window without a room.
var ErrConflictingPlacement = errors.New("plant placement: room and zone are mutually exclusive, window requires a room")

// ValidatePlacement enforces the placement invariant: at most one of
// {RoomID, ZoneID} is set, and WindowID only appears together with RoomID.
func (p Plant) ValidatePlacement() error {
	if p.RoomID != nil && p.ZoneID != nil {
		return ErrConflictingPlacement
	}
	if p.WindowID != nil && p.RoomID == nil {
		return ErrConflictingPlacement
	}
	return nil
}

// AssignToRoom places the plant in a room (optionally at a window) and
// clears any zone assignment.
func (p *Plant) AssignToRoom(roomID uint64, windowID *uint64) {
	p.RoomID = &roomID
	p.WindowID = windowID
	p.ZoneID = nil
}

// AssignToZone places the plant in an outdoor zone and clears any
// room/window assignment.
func (p *Plant) AssignToZone(zoneID uint64) {
	p.ZoneID = &zoneID
	p.RoomID = nil
	p.WindowID = nil
}

// ClearPlacement leaves the plant unassigned.
func (p *Plant) ClearPlacement() {
	p.RoomID = nil
	p.WindowID = nil
	p.ZoneID = nil
}

// EnabledCareSteps returns the steps that participate in due-date
// aggregation and routine display, preserving insertion order.
func (p Plant) EnabledCareSteps() []CareStep {
	out := make([]CareStep, 0, len(p.CareSteps))
	for _, s := range p.CareSteps {
		if s.IsEnabled {
			out = append(out, s)
		}
	}
	return out
}

// OverdueCareSteps returns the enabled steps whose due date has passed.
func (p Plant) OverdueCareSteps(now time.Time) []CareStep {
	var out []CareStep
	for _, s := range p.CareSteps {
		if s.IsEnabled && s.IsOverdue(now) {
			out = append(out, s)
		}
	}
	return out
}

// DueTodayCareSteps returns the enabled steps whose due date falls on
// today's calendar date.
func (p Plant) DueTodayCareSteps(now time.Time) []CareStep {
	var out []CareStep
	for _, s := range p.CareSteps {
		if s.IsEnabled && s.IsDueToday(now) {
			out = append(out, s)
		}
	}
	return out
}

// HasAnyOverdueCareSteps reports whether at least one enabled step is
// overdue. Disabled steps never count.
func (p Plant) HasAnyOverdueCareSteps(now time.Time) bool {
	for _, s := range p.CareSteps {
		if s.IsEnabled && s.IsOverdue(now) {
			return true
		}
	}
	return false
}

// NextDueCareStep returns the enabled step with the earliest due date.
// The selection is stable: on an exact due-date tie the step that
// appears first in insertion order wins (strictly-less comparison).
// The boolean is false when the plant has no enabled steps.
func (p Plant) NextDueCareStep(now time.Time) (CareStep, bool) {
	var (
		best    CareStep
		bestDue time.Time
		found   bool
	)
	for _, s := range p.CareSteps {
		if !s.IsEnabled {
			continue
		}
		due := s.NextDueAt(now)
		if !found || due.Before(bestDue) {
			best, bestDue, found = s, due, true
		}
	}
	return best, found
}

// AddCareStep appends a step to the plant, assigning the next position.
func (p *Plant) AddCareStep(s CareStep) {
	s.Position = uint32(len(p.CareSteps))
	p.CareSteps = append(p.CareSteps, s)
}

// RemoveCareStep deletes the step with the given ID. It reports whether
// a step was removed.
func (p *Plant) RemoveCareStep(id uint64) bool {
	for i, s := range p.CareSteps {
		if s.ID == id {
			p.CareSteps = append(p.CareSteps[:i], p.CareSteps[i+1:]...)
			return true
		}
	}
	return false
}

// UpdateCareStep replaces the step with a matching ID in place,
// keeping its position. It reports whether a step was replaced.
func (p *Plant) UpdateCareStep(s CareStep) bool {
	for i, cur := range p.CareSteps {
		if cur.ID == s.ID {
			s.Position = cur.Position
			p.CareSteps[i] = s
			return true
		}
	}
	return false
}

// MarkCareStepCompleted records a completion on the step with the given
// ID. Marking twice with the same timestamp is idempotent.
func (p *Plant) MarkCareStepCompleted(id uint64, at time.Time) bool {
	for i := range p.CareSteps {
		if p.CareSteps[i].ID == id {
			t := at
			p.CareSteps[i].LastCompletedAt = &t
			return true
		}
	}
	return false
}

// UnmarkCareStepCompleted clears the step's completion baseline back to
// nil. This is a hard reset, not an undo to the previous value: a real
// prior completion date is discarded.
func (p *Plant) UnmarkCareStepCompleted(id uint64) bool {
	for i := range p.CareSteps {
		if p.CareSteps[i].ID == id {
			p.CareSteps[i].LastCompletedAt = nil
			return true
		}
	}
	return false
}
