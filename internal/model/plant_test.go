package model

import (
	"testing"
	"time"
)

func stepWith(id uint64, freq int, last *time.Time, enabled bool) CareStep {
	return CareStep{
		ID:              id,
		Type:            CareStepWatering,
		FrequencyDays:   freq,
		LastCompletedAt: last,
		IsEnabled:       enabled,
	}
}

func TestValidatePlacement(t *testing.T) {
	room, window, zone := uint64(1), uint64(2), uint64(3)
	cases := []struct {
		name    string
		plant   Plant
		wantErr bool
	}{
		{"unassigned", Plant{}, false},
		{"room only", Plant{RoomID: &room}, false},
		{"room and window", Plant{RoomID: &room, WindowID: &window}, false},
		{"zone only", Plant{ZoneID: &zone}, false},
		{"room and zone", Plant{RoomID: &room, ZoneID: &zone}, true},
		{"window without room", Plant{WindowID: &window}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.plant.ValidatePlacement()
			if (err != nil) != tc.wantErr {
				t.Fatalf("ValidatePlacement() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestAssignmentsAreMutuallyExclusive(t *testing.T) {
	var p Plant
	window := uint64(5)
	p.AssignToRoom(1, &window)
	if p.RoomID == nil || p.WindowID == nil || p.ZoneID != nil {
		t.Fatalf("AssignToRoom left placement %+v", p)
	}
	p.AssignToZone(9)
	if p.ZoneID == nil || p.RoomID != nil || p.WindowID != nil {
		t.Fatalf("AssignToZone must clear room and window, got %+v", p)
	}
	p.ClearPlacement()
	if err := p.ValidatePlacement(); err != nil || p.ZoneID != nil {
		t.Fatalf("ClearPlacement left placement %+v", p)
	}
}

func TestDueFoldsSkipDisabledSteps(t *testing.T) {
	now := date(2026, time.March, 10, 12, 0)
	longAgo := completedAt(date(2026, time.February, 1, 8, 0))
	today := completedAt(date(2026, time.March, 3, 8, 0))

	p := Plant{CareSteps: []CareStep{
		stepWith(1, 7, longAgo, false), // overdue but disabled
		stepWith(2, 7, today, true),    // due today
		stepWith(3, 7, longAgo, true),  // overdue
	}}

	if got := len(p.EnabledCareSteps()); got != 2 {
		t.Errorf("EnabledCareSteps len = %d, want 2", got)
	}
	overdue := p.OverdueCareSteps(now)
	if len(overdue) != 1 || overdue[0].ID != 3 {
		t.Errorf("OverdueCareSteps = %+v, want only step 3", overdue)
	}
	dueToday := p.DueTodayCareSteps(now)
	if len(dueToday) != 1 || dueToday[0].ID != 2 {
		t.Errorf("DueTodayCareSteps = %+v, want only step 2", dueToday)
	}
	if !p.HasAnyOverdueCareSteps(now) {
		t.Errorf("HasAnyOverdueCareSteps should see step 3")
	}
}

func TestHasAnyOverdueIgnoresDisabled(t *testing.T) {
	now := date(2026, time.March, 10, 12, 0)
	longAgo := completedAt(date(2026, time.February, 1, 8, 0))
	p := Plant{CareSteps: []CareStep{stepWith(1, 7, longAgo, false)}}
	if p.HasAnyOverdueCareSteps(now) {
		t.Errorf("a disabled step must never count as overdue")
	}
}

func TestNextDueCareStep(t *testing.T) {
	now := date(2026, time.March, 10, 12, 0)

	t.Run("earliest wins", func(t *testing.T) {
		p := Plant{CareSteps: []CareStep{
			stepWith(1, 7, completedAt(date(2026, time.March, 8, 8, 0)), true), // due Mar 15
			stepWith(2, 3, completedAt(date(2026, time.March, 9, 8, 0)), true), // due Mar 12
		}}
		s, ok := p.NextDueCareStep(now)
		if !ok || s.ID != 2 {
			t.Fatalf("NextDueCareStep = (%d, %v), want step 2", s.ID, ok)
		}
	})

	t.Run("tie keeps insertion order", func(t *testing.T) {
		same := completedAt(date(2026, time.March, 8, 8, 0))
		p := Plant{CareSteps: []CareStep{
			stepWith(7, 7, same, true),
			stepWith(8, 7, same, true),
		}}
		s, ok := p.NextDueCareStep(now)
		if !ok || s.ID != 7 {
			t.Fatalf("tie must keep the first step in insertion order, got %d", s.ID)
		}
	})

	t.Run("disabled excluded", func(t *testing.T) {
		p := Plant{CareSteps: []CareStep{
			stepWith(1, 1, completedAt(date(2026, time.March, 1, 8, 0)), false),
			stepWith(2, 30, completedAt(date(2026, time.March, 9, 8, 0)), true),
		}}
		s, ok := p.NextDueCareStep(now)
		if !ok || s.ID != 2 {
			t.Fatalf("NextDueCareStep skipped enabled step, got (%d, %v)", s.ID, ok)
		}
	})

	t.Run("no enabled steps", func(t *testing.T) {
		p := Plant{CareSteps: []CareStep{stepWith(1, 7, nil, false)}}
		if _, ok := p.NextDueCareStep(now); ok {
			t.Fatalf("NextDueCareStep should report false with no enabled steps")
		}
	})
}

func TestCareStepCollectionOps(t *testing.T) {
	var p Plant
	p.AddCareStep(CareStep{ID: 1, Type: CareStepWatering, FrequencyDays: 7, IsEnabled: true})
	p.AddCareStep(CareStep{ID: 2, Type: CareStepMisting, FrequencyDays: 3, IsEnabled: true})
	if p.CareSteps[0].Position != 0 || p.CareSteps[1].Position != 1 {
		t.Fatalf("AddCareStep should assign sequential positions, got %d and %d",
			p.CareSteps[0].Position, p.CareSteps[1].Position)
	}

	if !p.UpdateCareStep(CareStep{ID: 1, Type: CareStepWatering, FrequencyDays: 10, IsEnabled: true, Position: 99}) {
		t.Fatalf("UpdateCareStep did not find step 1")
	}
	if p.CareSteps[0].FrequencyDays != 10 || p.CareSteps[0].Position != 0 {
		t.Errorf("UpdateCareStep must replace fields but keep position, got %+v", p.CareSteps[0])
	}

	if !p.RemoveCareStep(1) {
		t.Fatalf("RemoveCareStep did not find step 1")
	}
	if len(p.CareSteps) != 1 || p.CareSteps[0].ID != 2 {
		t.Errorf("RemoveCareStep left %+v", p.CareSteps)
	}
	if p.RemoveCareStep(42) {
		t.Errorf("RemoveCareStep reported success for a missing step")
	}
}

func TestMarkAndUnmarkCompletion(t *testing.T) {
	at := date(2026, time.March, 10, 9, 0)
	earlier := date(2026, time.March, 1, 9, 0)
	p := Plant{CareSteps: []CareStep{
		stepWith(1, 7, completedAt(earlier), true),
	}}

	if !p.MarkCareStepCompleted(1, at) {
		t.Fatalf("MarkCareStepCompleted did not find step 1")
	}
	if got := p.CareSteps[0].LastCompletedAt; got == nil || !got.Equal(at) {
		t.Errorf("LastCompletedAt = %v, want %v", got, at)
	}

	// Marking again with the same timestamp changes nothing.
	if !p.MarkCareStepCompleted(1, at) {
		t.Fatalf("second MarkCareStepCompleted failed")
	}
	if got := p.CareSteps[0].LastCompletedAt; !got.Equal(at) {
		t.Errorf("repeated mark moved the baseline to %v", got)
	}

	// Unmarking resets to nil, not to the earlier completion. The prior
	// baseline from March 1 is gone for good.
	if !p.UnmarkCareStepCompleted(1) {
		t.Fatalf("UnmarkCareStepCompleted did not find step 1")
	}
	if p.CareSteps[0].LastCompletedAt != nil {
		t.Errorf("unmark must hard-reset the baseline to nil, got %v", p.CareSteps[0].LastCompletedAt)
	}
	now := date(2026, time.March, 10, 10, 0)
	if !p.CareSteps[0].IsDueToday(now) || p.CareSteps[0].IsOverdue(now) {
		t.Errorf("after unmark the step should read as never completed (due now, not overdue)")
	}
}
