package dto

import (
	"time"

	"github.com/spec-kit/garage-scheduler/internal/domain"
)

// NotificationResponse response.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Link      string    `json:"link"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNotificationResponses maps domain notifications.
func NewNotificationResponses(notes []domain.Notification) []NotificationResponse {
	items := make([]NotificationResponse, 0, len(notes))
	for _, note := range notes {
		items = append(items, NotificationResponse{
			ID:        note.ID,
			Message:   note.Message,
			Link:      note.Link,
			Read:      note.Read,
			CreatedAt: note.CreatedAt,
		})
	}
	return items
}
