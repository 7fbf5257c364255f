package model

import (
	"errors"
	"time"
)

// CareStepType enumerates the kinds of recurring care a plant can need.
// Custom steps carry their own display name; every other type derives
// its name from the type itself.
type CareStepType string

const (
	CareStepWatering CareStepType = "WATERING" // periodic watering
	CareStepMisting  CareStepType = "MISTING"  // leaf misting
	CareStepDusting  CareStepType = "DUSTING"  // wiping dust off the leaves
	CareStepRotation CareStepType = "ROTATION" // rotating the pot toward the light
	CareStepCustom   CareStepType = "CUSTOM"   // user-defined task, requires CustomName
)

// Valid reports whether the type is one of the known care step types.
func (t CareStepType) Valid() bool {
	switch t {
	case CareStepWatering, CareStepMisting, CareStepDusting, CareStepRotation, CareStepCustom:
		return true
	}
	return false
}

// DisplayName returns the human readable label for a built-in type.
// Custom steps should use CareStep.Name instead, which prefers CustomName.
func (t CareStepType) DisplayName() string {
	switch t {
	case CareStepWatering:
		return "Watering"
	case CareStepMisting:
		return "Misting"
	case CareStepDusting:
		return "Dusting"
	case CareStepRotation:
		return "Rotation"
	case CareStepCustom:
		return "Custom"
	}
	return string(t)
}

// Validation errors returned when constructing or updating care steps.
// Construction fails closed: invalid steps are rejected, never coerced.
var (
	ErrUnknownStepType      = errors.New("unknown care step type")
	ErrNonPositiveFrequency = errors.New("frequency_days must be greater than zero")
	ErrCustomNameRequired   = errors.New("custom care steps require a custom_name")
	ErrCareStepNotFound     = errors.New("care step not found")
)

// CareStep represents one recurring care obligation for a plant.
// The due state is never stored; it is derived from LastCompletedAt and
// FrequencyDays against a caller-supplied "now" on every access.
// CustomName is required iff Type is CUSTOM; a nil LastCompletedAt
// means the step was never completed; disabled steps are excluded from
// all due aggregation.
type CareStep struct {
	ID              uint64       `json:"id"`                    // care_steps.id
	PlantID         uint64       `json:"plant_id"`              // care_steps.plant_id
	Position        uint32       `json:"position"`              // care_steps.position
	Type            CareStepType `json:"type"`                  // care_steps.step_type
	CustomName      string       `json:"custom_name,omitempty"` // care_steps.custom_name (nullable)
	Instructions    string       `json:"instructions"`          // care_steps.instructions
	FrequencyDays   int          `json:"frequency_days"`        // care_steps.frequency_days
	LastCompletedAt *time.Time   `json:"last_completed_at"`     // care_steps.last_completed_at (nullable)
	IsEnabled       bool         `json:"is_enabled"`            // care_steps.is_enabled
	CreatedAt       time.Time    `json:"created_at"`            // care_steps.created_at
	UpdatedAt       time.Time    `json:"updated_at"`            // care_steps.updated_at
}

// NewCareStep builds an enabled care step and validates its invariants.
func NewCareStep(t CareStepType, customName, instructions string, frequencyDays int) (CareStep, error) {
	s := CareStep{
		Type:          t,
		CustomName:    customName,
		Instructions:  instructions,
		FrequencyDays: frequencyDays,
		IsEnabled:     true,
	}
	if err := s.Validate(); err != nil {
		return CareStep{}, err
	}
	return s, nil
}

// Validate checks the construction-time invariants of the step.
func (s CareStep) Validate() error {
	if !s.Type.Valid() {
		return ErrUnknownStepType
	}
	if s.FrequencyDays <= 0 {
		return ErrNonPositiveFrequency
	}
	if s.Type == CareStepCustom && s.CustomName == "" {
		return ErrCustomNameRequired
	}
	return nil
}

// Name returns the display name of the step: the custom name for custom
// steps, otherwise the type's built-in label.
func (s CareStep) Name() string {
	if s.Type == CareStepCustom && s.CustomName != "" {
		return s.CustomName
	}
	return s.Type.DisplayName()
}

// NextDueAt derives when the step is next owed. A step that has never
// been completed is due immediately, so "now" is returned as its due
// instant.
func (s CareStep) NextDueAt(now time.Time) time.Time {
	if s.LastCompletedAt == nil {
		return now
	}
	return s.LastCompletedAt.AddDate(0, 0, s.FrequencyDays)
}

// DaysUntilDue returns the calendar-day distance from now to the due
// date. Zero means due today, negative means the due date has passed.
// The comparison uses date components, not 24h intervals: a step due at
// 23:00 checked at 01:00 the next day yields -1 even though less than
// 24 hours elapsed.
func (s CareStep) DaysUntilDue(now time.Time) int {
	return calendarDaysBetween(now, s.NextDueAt(now))
}

// IsOverdue reports whether the due date falls on a calendar day
// strictly before today. A never-completed step is due now and
// therefore not overdue.
func (s CareStep) IsOverdue(now time.Time) bool {
	return s.DaysUntilDue(now) < 0
}

// IsDueToday reports whether the due date falls on today's calendar
// date, regardless of time of day.
func (s CareStep) IsDueToday(now time.Time) bool {
	return s.DaysUntilDue(now) == 0
}

// DaysSinceLastCompleted returns the calendar days elapsed since the
// last completion. The second return value is false when the step has
// never been completed; there is no meaningful baseline in that case.
func (s CareStep) DaysSinceLastCompleted(now time.Time) (int, bool) {
	if s.LastCompletedAt == nil {
		return 0, false
	}
	return calendarDaysBetween(*s.LastCompletedAt, now), true
}

// DaysOverdue returns how many calendar days past due the step is,
// clamped to zero when the step is not overdue. Used for display only.
func (s CareStep) DaysOverdue(now time.Time) int {
	if d := s.DaysUntilDue(now); d < 0 {
		return -d
	}
	return 0
}

// calendarDaysBetween counts whole calendar days from the date of
// "from" to the date of "to". Both instants are compared in UTC, the
// timezone the service stores and serves timestamps in.
func calendarDaysBetween(from, to time.Time) int {
	f := startOfDay(from.UTC())
	t := startOfDay(to.UTC())
	return int(t.Sub(f).Hours() / 24)
}

// startOfDay truncates an instant to midnight of its calendar date.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
