package model

import "time"

// SunPeriod describes when during the day a zone receives direct sun.
type SunPeriod string

const (
	SunMorning   SunPeriod = "MORNING"
	SunMidday    SunPeriod = "MIDDAY"
	SunAfternoon SunPeriod = "AFTERNOON"
	SunAllDay    SunPeriod = "ALL_DAY"
)

// Valid reports whether the sun period is a known value.
func (p SunPeriod) Valid() bool {
	switch p {
	case SunMorning, SunMidday, SunAfternoon, SunAllDay:
		return true
	}
	return false
}

// WindExposure describes how sheltered an outdoor zone is.
type WindExposure string

const (
	WindSheltered WindExposure = "SHELTERED"
	WindModerate  WindExposure = "MODERATE"
	WindExposed   WindExposure = "EXPOSED"
)

// Valid reports whether the wind exposure is a known value.
func (w WindExposure) Valid() bool {
	switch w {
	case WindSheltered, WindModerate, WindExposed:
		return true
	}
	return false
}

// Zone is an outdoor space grouping plants for the care routine. Like
// rooms, zones are ordered by OrderIndex; in traversal they always come
// after all rooms. A nil SunHours means the effective hours are
// inferred from the aspect and sun period.
type Zone struct {
	ID           uint64           `json:"id"`            // zones.id
	OwnerID      uint64           `json:"-"`             // zones.owner_id
	Name         string           `json:"name"`          // zones.name
	Aspect       CompassDirection `json:"aspect"`        // zones.aspect
	SunPeriod    SunPeriod        `json:"sun_period"`    // zones.sun_period
	WindExposure WindExposure     `json:"wind_exposure"` // zones.wind_exposure
	SunHours     *int             `json:"sun_hours"`     // zones.sun_hours (nullable)
	OrderIndex   int              `json:"order_index"`   // zones.order_index
	CreatedAt    time.Time        `json:"created_at"`    // zones.created_at
	UpdatedAt    time.Time        `json:"updated_at"`    // zones.updated_at
}

// aspectBaseHours is the assumed direct-sun baseline per aspect for a
// mid-latitude garden.
var aspectBaseHours = map[CompassDirection]int{
	DirectionN:  2,
	DirectionNE: 3,
	DirectionE:  4,
	DirectionSE: 5,
	DirectionS:  6,
	DirectionSW: 5,
	DirectionW:  4,
	DirectionNW: 3,
}

// periodAdjustHours shifts the baseline depending on when the sun
// actually reaches the zone.
var periodAdjustHours = map[SunPeriod]int{
	SunMorning:   -1,
	SunMidday:    0,
	SunAfternoon: -1,
	SunAllDay:    2,
}

// EffectiveSunHours returns the explicit sun hours when recorded,
// otherwise a deterministic estimate from aspect and sun period,
// clamped to [0, 12].
func (z Zone) EffectiveSunHours() int {
	if z.SunHours != nil {
		return *z.SunHours
	}
	h := aspectBaseHours[z.Aspect] + periodAdjustHours[z.SunPeriod]
	if h < 0 {
		h = 0
	}
	if h > 12 {
		h = 12
	}
	return h
}
