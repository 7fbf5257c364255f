// Package routine implements the guided care walkthrough: resolving
// plants to their spaces, building the ordered traversal of occupied
// spaces, and tracking per-session completion bookkeeping. All
// computations here are pure folds over snapshot slices loaded by the
// caller; persistence of individual completions happens in the handler
// layer through the care step repository.
package routine

import "github.com/iliyamo/greenhouse/internal/model"

// UnassignedSpaceName is the sentinel shown for plants whose placement
// does not resolve to an existing room or zone.
const UnassignedSpaceName = "Unassigned"

// RoomForPlant resolves the plant's room foreign key against the given
// rooms. Dangling or absent references yield false, never an error:
// deleting a room does not block or cascade, referencing plants simply
// look unassigned until corrected.
func RoomForPlant(rooms []model.Room, p model.Plant) (model.Room, bool) {
	if p.RoomID == nil {
		return model.Room{}, false
	}
	for _, r := range rooms {
		if r.ID == *p.RoomID {
			return r, true
		}
	}
	return model.Room{}, false
}

// ZoneForPlant resolves the plant's zone foreign key against the given
// zones, with the same dangling-reference tolerance as RoomForPlant.
func ZoneForPlant(zones []model.Zone, p model.Plant) (model.Zone, bool) {
	if p.ZoneID == nil {
		return model.Zone{}, false
	}
	for _, z := range zones {
		if z.ID == *p.ZoneID {
			return z, true
		}
	}
	return model.Zone{}, false
}

// WindowForPlant resolves the plant's window inside its resolved room.
// A window reference without a resolvable room yields false.
func WindowForPlant(rooms []model.Room, p model.Plant) (model.Window, bool) {
	if p.WindowID == nil {
		return model.Window{}, false
	}
	room, ok := RoomForPlant(rooms, p)
	if !ok {
		return model.Window{}, false
	}
	return room.WindowByID(*p.WindowID)
}

// PlantsInRoom filters plants assigned to the room, preserving the
// stable input order.
func PlantsInRoom(plants []model.Plant, roomID uint64) []model.Plant {
	var out []model.Plant
	for _, p := range plants {
		if p.RoomID != nil && *p.RoomID == roomID {
			out = append(out, p)
		}
	}
	return out
}

// PlantsInZone filters plants assigned to the zone, preserving the
// stable input order.
func PlantsInZone(plants []model.Plant, zoneID uint64) []model.Plant {
	var out []model.Plant
	for _, p := range plants {
		if p.ZoneID != nil && *p.ZoneID == zoneID {
			out = append(out, p)
		}
	}
	return out
}

// SpaceNameForPlant returns the room name, else the zone name, else the
// "Unassigned" sentinel. Dangling references fall through to the
// sentinel as well.
func SpaceNameForPlant(rooms []model.Room, zones []model.Zone, p model.Plant) string {
	if r, ok := RoomForPlant(rooms, p); ok {
		return r.Name
	}
	if z, ok := ZoneForPlant(zones, p); ok {
		return z.Name
	}
	return UnassignedSpaceName
}
