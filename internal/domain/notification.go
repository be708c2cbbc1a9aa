package domain

import "time"

// Notification is a one-way message shown to a user. Created by lifecycle
// side effects, never deleted.
type Notification struct {
	ID        string
	UserID    string
	Message   string
	Link      string
	Read      bool
	CreatedAt time.Time
}
