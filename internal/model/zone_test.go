package model

import "testing"

func TestEffectiveSunHoursExplicitWins(t *testing.T) {
	ten := 10
	z := Zone{Aspect: DirectionN, SunPeriod: SunMorning, SunHours: &ten}
	if got := z.EffectiveSunHours(); got != 10 {
		t.Errorf("explicit sun hours must win, got %d", got)
	}
}

func TestEffectiveSunHoursInference(t *testing.T) {
	cases := []struct {
		name   string
		aspect CompassDirection
		period SunPeriod
		want   int
	}{
		{"south all day", DirectionS, SunAllDay, 8},
		{"south midday", DirectionS, SunMidday, 6},
		{"north morning", DirectionN, SunMorning, 1},
		{"east afternoon", DirectionE, SunAfternoon, 3},
		{"southwest all day", DirectionSW, SunAllDay, 7},
		{"northwest morning", DirectionNW, SunMorning, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			z := Zone{Aspect: tc.aspect, SunPeriod: tc.period}
			if got := z.EffectiveSunHours(); got != tc.want {
				t.Errorf("EffectiveSunHours(%s, %s) = %d, want %d", tc.aspect, tc.period, got, tc.want)
			}
		})
	}
}

func TestEffectiveSunHoursClamp(t *testing.T) {
	neg := -3
	z := Zone{Aspect: DirectionS, SunPeriod: SunAllDay, SunHours: &neg}
	// Explicit values are served as stored; only inference clamps.
	if got := z.EffectiveSunHours(); got != -3 {
		t.Errorf("explicit value should pass through, got %d", got)
	}
	inferred := Zone{Aspect: DirectionN, SunPeriod: SunMorning}
	if got := inferred.EffectiveSunHours(); got < 0 || got > 12 {
		t.Errorf("inferred hours must stay in [0,12], got %d", got)
	}
}

func TestEnumValidity(t *testing.T) {
	if !DirectionNE.Valid() || CompassDirection("NORTH").Valid() {
		t.Errorf("compass direction validity broken")
	}
	if !SunAllDay.Valid() || SunPeriod("NOON").Valid() {
		t.Errorf("sun period validity broken")
	}
	if !WindExposed.Valid() || WindExposure("BREEZY").Valid() {
		t.Errorf("wind exposure validity broken")
	}
	if !CareStepRotation.Valid() || CareStepType("").Valid() {
		t.Errorf("care step type validity broken")
	}
}
