package routine

import (
	"testing"

	"github.com/iliyamo/greenhouse/internal/model"
)

func ptr(v uint64) *uint64 { return &v }

func roomPlant(id, roomID uint64, name string) model.Plant {
	return model.Plant{ID: id, Name: name, RoomID: ptr(roomID)}
}

func zonePlant(id, zoneID uint64, name string) model.Plant {
	return model.Plant{ID: id, Name: name, ZoneID: ptr(zoneID)}
}

func TestBuildTraversalOrder(t *testing.T) {
	rooms := []model.Room{
		{ID: 1, Name: "Kitchen", OrderIndex: 2},
		{ID: 2, Name: "Living Room", OrderIndex: 0},
		{ID: 3, Name: "Bedroom", OrderIndex: 1},
	}
	zones := []model.Zone{
		{ID: 10, Name: "Balcony", OrderIndex: 1},
		{ID: 11, Name: "Front Porch", OrderIndex: 0},
	}
	plants := []model.Plant{
		roomPlant(1, 1, "Basil"),
		roomPlant(2, 2, "Monstera"),
		roomPlant(3, 3, "Fern"),
		zonePlant(4, 10, "Lavender"),
		zonePlant(5, 11, "Rosemary"),
	}

	spaces := BuildTraversal(rooms, zones, plants)
	wantNames := []string{"Living Room", "Bedroom", "Kitchen", "Front Porch", "Balcony"}
	if len(spaces) != len(wantNames) {
		t.Fatalf("traversal has %d spaces, want %d", len(spaces), len(wantNames))
	}
	for i, want := range wantNames {
		if spaces[i].Name != want {
			t.Errorf("space[%d] = %q, want %q", i, spaces[i].Name, want)
		}
	}
	// All rooms must come before any zone regardless of order indexes.
	sawZone := false
	for _, sp := range spaces {
		if sp.Kind == SpaceZone {
			sawZone = true
		} else if sawZone {
			t.Fatalf("room %q appeared after a zone", sp.Name)
		}
	}
}

func TestBuildTraversalExcludesEmptySpaces(t *testing.T) {
	rooms := []model.Room{
		{ID: 1, Name: "Kitchen", OrderIndex: 0},
		{ID: 2, Name: "Empty Office", OrderIndex: 1},
	}
	zones := []model.Zone{
		{ID: 10, Name: "Empty Patio", OrderIndex: 0},
	}
	plants := []model.Plant{roomPlant(1, 1, "Basil")}

	spaces := BuildTraversal(rooms, zones, plants)
	if len(spaces) != 1 || spaces[0].Name != "Kitchen" {
		t.Fatalf("traversal = %+v, want only the occupied Kitchen", spaces)
	}
}

func TestBuildTraversalEmptyIsValid(t *testing.T) {
	if spaces := BuildTraversal(nil, nil, nil); len(spaces) != 0 {
		t.Fatalf("empty inputs should build an empty traversal, got %+v", spaces)
	}
	// Plants exist but none is assigned anywhere.
	plants := []model.Plant{{ID: 1, Name: "Drifter"}}
	rooms := []model.Room{{ID: 1, Name: "Kitchen"}}
	if spaces := BuildTraversal(rooms, nil, plants); len(spaces) != 0 {
		t.Fatalf("unassigned plants should leave every space empty, got %+v", spaces)
	}
}

func TestBuildTraversalKeepsPlantInputOrder(t *testing.T) {
	rooms := []model.Room{{ID: 1, Name: "Kitchen"}}
	plants := []model.Plant{
		roomPlant(3, 1, "Cactus"),
		roomPlant(1, 1, "Basil"),
		roomPlant(2, 1, "Fern"),
	}
	spaces := BuildTraversal(rooms, nil, plants)
	if len(spaces) != 1 {
		t.Fatalf("want one space, got %d", len(spaces))
	}
	got := spaces[0].Plants
	if got[0].ID != 3 || got[1].ID != 1 || got[2].ID != 2 {
		t.Errorf("occupants must keep input order, got %v %v %v", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestSpaceEnabledStepCount(t *testing.T) {
	sp := Space{Plants: []model.Plant{
		{CareSteps: []model.CareStep{
			{ID: 1, IsEnabled: true},
			{ID: 2, IsEnabled: false},
		}},
		{CareSteps: []model.CareStep{
			{ID: 3, IsEnabled: true},
		}},
	}}
	if got := sp.EnabledStepCount(); got != 2 {
		t.Errorf("EnabledStepCount = %d, want 2", got)
	}
}

func TestResolverToleratesDanglingReferences(t *testing.T) {
	rooms := []model.Room{{ID: 1, Name: "Kitchen", Windows: []model.Window{{ID: 7, RoomID: 1}}}}
	zones := []model.Zone{{ID: 10, Name: "Balcony"}}

	dangling := model.Plant{ID: 1, RoomID: ptr(99), WindowID: ptr(7)}
	if _, ok := RoomForPlant(rooms, dangling); ok {
		t.Errorf("dangling room reference should not resolve")
	}
	if _, ok := WindowForPlant(rooms, dangling); ok {
		t.Errorf("window without a resolvable room should not resolve")
	}
	if got := SpaceNameForPlant(rooms, zones, dangling); got != UnassignedSpaceName {
		t.Errorf("SpaceNameForPlant = %q, want %q", got, UnassignedSpaceName)
	}

	placed := model.Plant{ID: 2, RoomID: ptr(1), WindowID: ptr(7)}
	if w, ok := WindowForPlant(rooms, placed); !ok || w.ID != 7 {
		t.Errorf("window should resolve through its room, got (%v, %v)", w, ok)
	}
	if got := SpaceNameForPlant(rooms, zones, placed); got != "Kitchen" {
		t.Errorf("SpaceNameForPlant = %q, want Kitchen", got)
	}

	zoned := model.Plant{ID: 3, ZoneID: ptr(10)}
	if got := SpaceNameForPlant(rooms, zones, zoned); got != "Balcony" {
		t.Errorf("SpaceNameForPlant = %q, want Balcony", got)
	}
}
