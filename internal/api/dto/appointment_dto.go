package dto

import (
	"time"

	"github.com/spec-kit/garage-scheduler/internal/domain"
)

// BookAppointmentRequest payload.
type BookAppointmentRequest struct {
	VehicleNumber string `json:"vehicle_number" form:"vehicle_number"`
	ServiceType   string `json:"service_type" form:"service_type"`
	Date          string `json:"date" form:"date"`
	Time          string `json:"time" form:"time"`
}

// AssignRequest payload.
type AssignRequest struct {
	MechanicID string `json:"mechanic_id" form:"mechanic_id"`
}

// EditStatusRequest payload for the admin status overwrite.
type EditStatusRequest struct {
	Status domain.AppointmentStatus `json:"status" form:"status"`
}

// AppointmentResponse response.
type AppointmentResponse struct {
	ID            string                   `json:"id"`
	CustomerID    string                   `json:"customer_id"`
	VehicleNumber string                   `json:"vehicle_number"`
	ServiceType   string                   `json:"service_type"`
	Date          string                   `json:"date"`
	Time          string                   `json:"time"`
	Status        domain.AppointmentStatus `json:"status"`
	MechanicID    *string                  `json:"mechanic_id"`
	CreatedAt     time.Time                `json:"created_at"`
}

// AppointmentDetailResponse adds resolved identities for admin views.
type AppointmentDetailResponse struct {
	AppointmentResponse
	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email"`
	MechanicName  *string `json:"mechanic_name"`
}

// NewAppointmentResponse maps a domain appointment.
func NewAppointmentResponse(appt *domain.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:            appt.ID,
		CustomerID:    appt.CustomerID,
		VehicleNumber: appt.VehicleNumber,
		ServiceType:   appt.ServiceType,
		Date:          appt.Date,
		Time:          appt.Time,
		Status:        appt.Status,
		MechanicID:    appt.MechanicID,
		CreatedAt:     appt.CreatedAt,
	}
}

// NewAppointmentResponses maps a slice.
func NewAppointmentResponses(appts []domain.Appointment) []AppointmentResponse {
	items := make([]AppointmentResponse, 0, len(appts))
	for i := range appts {
		items = append(items, NewAppointmentResponse(&appts[i]))
	}
	return items
}

// NewAppointmentDetailResponses maps joined rows.
func NewAppointmentDetailResponses(details []domain.AppointmentDetail) []AppointmentDetailResponse {
	items := make([]AppointmentDetailResponse, 0, len(details))
	for i := range details {
		detail := &details[i]
		items = append(items, AppointmentDetailResponse{
			AppointmentResponse: NewAppointmentResponse(&detail.Appointment),
			CustomerName:        detail.CustomerName,
			CustomerEmail:       detail.CustomerEmail,
			MechanicName:        detail.MechanicName,
		})
	}
	return items
}
