// Package queue defines message payloads exchanged over the message broker.
package queue

// RoutineCompletedEvent is published when a user finishes a guided care
// routine. It carries enough information for downstream consumers to
// log, notify, or trigger analytics without querying the primary
// database.
type RoutineCompletedEvent struct {
	SessionID      string   `json:"session_id"`
	UserID         uint64   `json:"user_id"`
	Spaces         int      `json:"spaces"`
	SpaceNames     []string `json:"space_names"`
	CompletedSteps int      `json:"completed_steps"`
	TotalSteps     int      `json:"total_steps"`
	StartedAt      string   `json:"started_at"`
	CompletedAt    string   `json:"completed_at"`
}
