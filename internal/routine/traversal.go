package routine

import (
	"sort"

	"github.com/iliyamo/greenhouse/internal/model"
)

// SpaceKind distinguishes indoor rooms from outdoor zones in a traversal.
type SpaceKind string

const (
	SpaceRoom SpaceKind = "ROOM"
	SpaceZone SpaceKind = "ZONE"
)

// Space is one stop of a routine walkthrough: a room or zone together
// with the plants that occupy it, in stable input order.
type Space struct {
	Kind   SpaceKind     `json:"kind"`
	ID     uint64        `json:"id"`
	Name   string        `json:"name"`
	Plants []model.Plant `json:"plants"`
}

// EnabledStepCount sums the enabled care steps across the occupants of
// the space.
func (s Space) EnabledStepCount() int {
	n := 0
	for _, p := range s.Plants {
		n += len(p.EnabledCareSteps())
	}
	return n
}

// BuildTraversal produces the ordered list of spaces a routine visits:
// every room with at least one plant, ordered by OrderIndex, followed by
// every zone with at least one plant, ordered by OrderIndex. Spaces with
// no occupants are excluded entirely; the routine never stops on an
// empty space. An empty result is a valid terminal state, not an error.
func BuildTraversal(rooms []model.Room, zones []model.Zone, plants []model.Plant) []Space {
	sortedRooms := make([]model.Room, len(rooms))
	copy(sortedRooms, rooms)
	sort.SliceStable(sortedRooms, func(i, j int) bool {
		return sortedRooms[i].OrderIndex < sortedRooms[j].OrderIndex
	})

	sortedZones := make([]model.Zone, len(zones))
	copy(sortedZones, zones)
	sort.SliceStable(sortedZones, func(i, j int) bool {
		return sortedZones[i].OrderIndex < sortedZones[j].OrderIndex
	})

	var out []Space
	for _, r := range sortedRooms {
		occupants := PlantsInRoom(plants, r.ID)
		if len(occupants) == 0 {
			continue
		}
		out = append(out, Space{Kind: SpaceRoom, ID: r.ID, Name: r.Name, Plants: occupants})
	}
	for _, z := range sortedZones {
		occupants := PlantsInZone(plants, z.ID)
		if len(occupants) == 0 {
			continue
		}
		out = append(out, Space{Kind: SpaceZone, ID: z.ID, Name: z.Name, Plants: occupants})
	}
	return out
}
