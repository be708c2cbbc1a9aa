package domain

import "time"

// MechanicProfile records which service types a mechanic can take on.
// It backs the suggestion helper only; assignment itself is unconstrained.
// Skill matching happens in the repository query.
type MechanicProfile struct {
	UserID    string
	Skills    []string
	CreatedAt time.Time
	UpdatedAt time.Time
}
