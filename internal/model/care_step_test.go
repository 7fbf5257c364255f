package model

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func completedAt(t time.Time) *time.Time { return &t }

func TestNewCareStepValidation(t *testing.T) {
	cases := []struct {
		name     string
		stepType CareStepType
		custom   string
		freq     int
		wantErr  error
	}{
		{"valid watering", CareStepWatering, "", 7, nil},
		{"valid custom", CareStepCustom, "Fertilize", 30, nil},
		{"unknown type", CareStepType("PRUNING"), "", 7, ErrUnknownStepType},
		{"zero frequency", CareStepMisting, "", 0, ErrNonPositiveFrequency},
		{"negative frequency", CareStepDusting, "", -3, ErrNonPositiveFrequency},
		{"custom without name", CareStepCustom, "", 7, ErrCustomNameRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := NewCareStep(tc.stepType, tc.custom, "", tc.freq)
			if err != tc.wantErr {
				t.Fatalf("NewCareStep error = %v, want %v", err, tc.wantErr)
			}
			if err == nil && !s.IsEnabled {
				t.Errorf("new step should start enabled")
			}
		})
	}
}

func TestCareStepName(t *testing.T) {
	w, _ := NewCareStep(CareStepWatering, "", "", 7)
	if got := w.Name(); got != "Watering" {
		t.Errorf("Name() = %q, want Watering", got)
	}
	c, _ := NewCareStep(CareStepCustom, "Fertilize", "", 30)
	if got := c.Name(); got != "Fertilize" {
		t.Errorf("Name() = %q, want Fertilize", got)
	}
}

func TestNeverCompletedIsDueNowNotOverdue(t *testing.T) {
	now := date(2026, time.March, 10, 14, 0)
	s := CareStep{Type: CareStepWatering, FrequencyDays: 7, IsEnabled: true}

	if !s.NextDueAt(now).Equal(now) {
		t.Errorf("NextDueAt = %v, want now for a never-completed step", s.NextDueAt(now))
	}
	if !s.IsDueToday(now) {
		t.Errorf("never-completed step should be due today")
	}
	if s.IsOverdue(now) {
		t.Errorf("never-completed step must not be overdue")
	}
	if d, ok := s.DaysSinceLastCompleted(now); ok || d != 0 {
		t.Errorf("DaysSinceLastCompleted = (%d, %v), want (0, false)", d, ok)
	}
}

func TestDueDerivation(t *testing.T) {
	now := date(2026, time.March, 10, 14, 0)
	cases := []struct {
		name         string
		last         time.Time
		freq         int
		wantDays     int
		wantOverdue  bool
		wantDueToday bool
	}{
		{"due in four days", date(2026, time.March, 7, 9, 0), 7, 4, false, false},
		{"due today", date(2026, time.March, 3, 9, 0), 7, 0, false, true},
		{"one day overdue", date(2026, time.March, 2, 9, 0), 7, -1, true, false},
		{"long overdue", date(2026, time.February, 1, 9, 0), 7, -30, true, false},
		{"daily step completed this morning", date(2026, time.March, 10, 8, 0), 1, 1, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := CareStep{
				Type:            CareStepWatering,
				FrequencyDays:   tc.freq,
				LastCompletedAt: completedAt(tc.last),
				IsEnabled:       true,
			}
			if got := s.DaysUntilDue(now); got != tc.wantDays {
				t.Errorf("DaysUntilDue = %d, want %d", got, tc.wantDays)
			}
			if got := s.IsOverdue(now); got != tc.wantOverdue {
				t.Errorf("IsOverdue = %v, want %v", got, tc.wantOverdue)
			}
			if got := s.IsDueToday(now); got != tc.wantDueToday {
				t.Errorf("IsDueToday = %v, want %v", got, tc.wantDueToday)
			}
		})
	}
}

// A step due late in the evening reads as overdue just after midnight:
// the comparison counts calendar dates, not elapsed 24h intervals.
func TestCalendarDayNotDurationComparison(t *testing.T) {
	last := date(2026, time.March, 2, 23, 0)
	s := CareStep{Type: CareStepWatering, FrequencyDays: 1, LastCompletedAt: completedAt(last), IsEnabled: true}

	evening := date(2026, time.March, 3, 23, 30) // due day, 30 min past due instant
	if got := s.DaysUntilDue(evening); got != 0 {
		t.Errorf("DaysUntilDue at 23:30 same day = %d, want 0", got)
	}
	if s.IsOverdue(evening) {
		t.Errorf("step should not be overdue on its due date")
	}

	pastMidnight := date(2026, time.March, 4, 1, 0) // only 2h later, next date
	if got := s.DaysUntilDue(pastMidnight); got != -1 {
		t.Errorf("DaysUntilDue at 01:00 next day = %d, want -1", got)
	}
	if !s.IsOverdue(pastMidnight) {
		t.Errorf("step should be overdue the calendar day after its due date")
	}
}

func TestDaysOverdueClamp(t *testing.T) {
	now := date(2026, time.March, 10, 12, 0)
	overdue := CareStep{Type: CareStepWatering, FrequencyDays: 7, LastCompletedAt: completedAt(date(2026, time.March, 1, 8, 0)), IsEnabled: true}
	if got := overdue.DaysOverdue(now); got != 2 {
		t.Errorf("DaysOverdue = %d, want 2", got)
	}
	future := CareStep{Type: CareStepWatering, FrequencyDays: 7, LastCompletedAt: completedAt(date(2026, time.March, 9, 8, 0)), IsEnabled: true}
	if got := future.DaysOverdue(now); got != 0 {
		t.Errorf("DaysOverdue for a future step = %d, want 0", got)
	}
}

func TestDaysSinceLastCompleted(t *testing.T) {
	now := date(2026, time.March, 10, 9, 0)
	s := CareStep{Type: CareStepMisting, FrequencyDays: 3, LastCompletedAt: completedAt(date(2026, time.March, 6, 22, 0)), IsEnabled: true}
	d, ok := s.DaysSinceLastCompleted(now)
	if !ok || d != 4 {
		t.Errorf("DaysSinceLastCompleted = (%d, %v), want (4, true)", d, ok)
	}
}
