package domain

import "time"

// AppointmentStatus enumerates lifecycle states.
// Pending --assign--> Approved --complete--> Completed; Completed is terminal.
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "Pending"
	AppointmentStatusApproved  AppointmentStatus = "Approved"
	AppointmentStatusCompleted AppointmentStatus = "Completed"
)

// Appointment is a scheduling record owned by a customer. Date is an ISO
// calendar day (YYYY-MM-DD) and Time a wall-clock slot (HH:MM); the
// (mechanic, date, time) tuple must be unique among stored appointments.
type Appointment struct {
	ID            string
	CustomerID    string
	VehicleNumber string
	ServiceType   string
	Date          string
	Time          string
	Status        AppointmentStatus
	MechanicID    *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AppointmentDetail joins an appointment with the identities it references,
// for admin review views. Name fields are empty when the referenced account
// has since been deleted (historical records stay queryable).
type AppointmentDetail struct {
	Appointment
	CustomerName  string
	CustomerEmail string
	MechanicName  *string
}
