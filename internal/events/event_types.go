package events

import (
	"time"

	"github.com/spec-kit/garage-scheduler/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAppointmentBooked    EventType = "appointment_booked"
	EventAppointmentAssigned  EventType = "appointment_assigned"
	EventAppointmentCompleted EventType = "appointment_completed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
	Name   string      `json:"name,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID            string      `json:"id"`
	Type          EventType   `json:"type"`
	AppointmentID string      `json:"appointment_id"`
	Actor         Actor       `json:"actor"`
	Timestamp     time.Time   `json:"timestamp"`
	Payload       interface{} `json:"payload"`
}

// AppointmentBookedPayload payload.
type AppointmentBookedPayload struct {
	CustomerID    string `json:"customer_id"`
	VehicleNumber string `json:"vehicle_number"`
	ServiceType   string `json:"service_type"`
	Date          string `json:"date"`
	Time          string `json:"time"`
}

// AppointmentAssignedPayload payload.
type AppointmentAssignedPayload struct {
	MechanicID string `json:"mechanic_id"`
	Date       string `json:"date"`
	Time       string `json:"time"`
}

// AppointmentCompletedPayload payload.
type AppointmentCompletedPayload struct {
	CustomerID  string  `json:"customer_id"`
	MechanicID  *string `json:"mechanic_id,omitempty"`
	CompletedBy string  `json:"completed_by"`
}
