package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/garage-scheduler/internal/domain"
	"github.com/spec-kit/garage-scheduler/internal/events"
	"github.com/spec-kit/garage-scheduler/internal/repository"
	apperrors "github.com/spec-kit/garage-scheduler/pkg/util"
)

// AppointmentService drives the booking lifecycle:
// Pending --assign--> Approved --complete--> Completed.
type AppointmentService struct {
	appointments repository.AppointmentRepository
	users        repository.UserRepository
	dispatcher   events.Dispatcher
}

// AppointmentDependencies bundles repositories for the service.
type AppointmentDependencies struct {
	AppointmentRepo repository.AppointmentRepository
	UserRepo        repository.UserRepository
	Dispatcher      events.Dispatcher
}

// BookingInput describes a booking request.
type BookingInput struct {
	VehicleNumber string
	ServiceType   string
	Date          string
	Time          string
}

// NewAppointmentService constructs the service.
func NewAppointmentService(deps AppointmentDependencies) *AppointmentService {
	return &AppointmentService{
		appointments: deps.AppointmentRepo,
		users:        deps.UserRepo,
		dispatcher:   deps.Dispatcher,
	}
}

// Book creates a Pending appointment with no mechanic for the customer.
// The admin notification is emitted as a best-effort event; booking never
// fails because of it.
func (s *AppointmentService) Book(ctx context.Context, customer *domain.User, input BookingInput) (*domain.Appointment, error) {
	input.VehicleNumber = strings.TrimSpace(input.VehicleNumber)
	input.ServiceType = strings.TrimSpace(input.ServiceType)
	input.Date = strings.TrimSpace(input.Date)
	input.Time = strings.TrimSpace(input.Time)

	missing := map[string]any{}
	if input.VehicleNumber == "" {
		missing["vehicle_number"] = "required"
	}
	if input.ServiceType == "" {
		missing["service_type"] = "required"
	}
	if input.Date == "" {
		missing["date"] = "required"
	}
	if input.Time == "" {
		missing["time"] = "required"
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("please fill in all fields", missing)
	}

	appt := &domain.Appointment{
		CustomerID:    customer.ID,
		VehicleNumber: input.VehicleNumber,
		ServiceType:   input.ServiceType,
		Date:          input.Date,
		Time:          input.Time,
		Status:        domain.AppointmentStatusPending,
	}
	if err := s.appointments.Create(ctx, appt); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventAppointmentBooked, appt.ID, customer, events.AppointmentBookedPayload{
		CustomerID:    appt.CustomerID,
		VehicleNumber: appt.VehicleNumber,
		ServiceType:   appt.ServiceType,
		Date:          appt.Date,
		Time:          appt.Time,
	})
	return appt, nil
}

// Assign sets the mechanic and moves the appointment to Approved. The
// conflict check excludes the appointment itself, so reassigning the same
// slot to the same mechanic is not a conflict. The check is read-then-write
// against the store and not transactional.
func (s *AppointmentService) Assign(ctx context.Context, appointmentID, mechanicID string, actor *domain.User) (*domain.Appointment, error) {
	appt, err := s.getAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.Status == domain.AppointmentStatusCompleted {
		return nil, apperrors.NewConflict("appointment already completed", nil)
	}

	mechanic, err := s.users.GetByID(ctx, mechanicID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("mechanic", map[string]any{"mechanic_id": mechanicID})
		}
		return nil, apperrors.MapError(err)
	}

	conflict, err := s.appointments.HasConflict(ctx, mechanic.ID, appt.Date, appt.Time, appt.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if conflict {
		return nil, apperrors.NewSchedulingConflict(map[string]any{
			"mechanic_id": mechanic.ID,
			"date":        appt.Date,
			"time":        appt.Time,
		})
	}

	if err := s.appointments.UpdateAssignment(ctx, appt.ID, mechanic.ID, domain.AppointmentStatusApproved); err != nil {
		return nil, apperrors.MapError(err)
	}
	appt.MechanicID = &mechanic.ID
	appt.Status = domain.AppointmentStatusApproved

	s.publish(ctx, events.EventAppointmentAssigned, appt.ID, actor, events.AppointmentAssignedPayload{
		MechanicID: mechanic.ID,
		Date:       appt.Date,
		Time:       appt.Time,
	})
	return appt, nil
}

// Complete marks the appointment Completed. Only the assigned mechanic may
// complete it, except that an admin may complete on a mechanic's behalf.
func (s *AppointmentService) Complete(ctx context.Context, appointmentID string, actor *domain.User) (*domain.Appointment, error) {
	appt, err := s.getAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.Status == domain.AppointmentStatusCompleted {
		return nil, apperrors.NewConflict("appointment already completed", nil)
	}

	if actor.Role != domain.RoleAdmin {
		if appt.MechanicID == nil || *appt.MechanicID != actor.ID {
			return nil, apperrors.NewForbidden("not authorized")
		}
	}

	if err := s.appointments.UpdateStatus(ctx, appt.ID, domain.AppointmentStatusCompleted); err != nil {
		return nil, apperrors.MapError(err)
	}
	appt.Status = domain.AppointmentStatusCompleted

	s.publish(ctx, events.EventAppointmentCompleted, appt.ID, actor, events.AppointmentCompletedPayload{
		CustomerID:  appt.CustomerID,
		MechanicID:  appt.MechanicID,
		CompletedBy: actor.ID,
	})
	return appt, nil
}

// Edit overwrites the status directly. This is the admin escape hatch: it
// deliberately bypasses the lifecycle transition checks, including the
// Completed terminal state.
func (s *AppointmentService) Edit(ctx context.Context, appointmentID string, status domain.AppointmentStatus) (*domain.Appointment, error) {
	switch status {
	case domain.AppointmentStatusPending, domain.AppointmentStatusApproved, domain.AppointmentStatusCompleted:
	default:
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": status})
	}

	appt, err := s.getAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := s.appointments.UpdateStatus(ctx, appt.ID, status); err != nil {
		return nil, apperrors.MapError(err)
	}
	appt.Status = status
	return appt, nil
}

// Remove hard-deletes the appointment.
func (s *AppointmentService) Remove(ctx context.Context, appointmentID string) error {
	if err := s.appointments.Delete(ctx, appointmentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("appointment", map[string]any{"appointment_id": appointmentID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// ListMine returns the customer's own appointments, ascending by date.
func (s *AppointmentService) ListMine(ctx context.Context, customerID string) ([]domain.Appointment, error) {
	appts, err := s.appointments.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return appts, nil
}

// ListAll returns every appointment with customer and mechanic identities
// resolved, for admin review.
func (s *AppointmentService) ListAll(ctx context.Context) ([]domain.AppointmentDetail, error) {
	appts, err := s.appointments.ListAllDetailed(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return appts, nil
}

// ListAssigned returns appointments that have a mechanic set.
func (s *AppointmentService) ListAssigned(ctx context.Context) ([]domain.AppointmentDetail, error) {
	appts, err := s.appointments.ListAssignedDetailed(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return appts, nil
}

// ListForMechanic returns the mechanic's active (Pending or Approved) work.
func (s *AppointmentService) ListForMechanic(ctx context.Context, mechanicID string) ([]domain.Appointment, error) {
	appts, err := s.appointments.ListForMechanic(ctx, mechanicID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return appts, nil
}

// Mechanics lists mechanic accounts for the admin assignment view.
func (s *AppointmentService) Mechanics(ctx context.Context) ([]domain.User, error) {
	mechanics, err := s.users.ListByRole(ctx, domain.RoleMechanic)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return mechanics, nil
}

// History returns the mechanic's completed appointments, newest date first.
func (s *AppointmentService) History(ctx context.Context, mechanicID string) ([]domain.Appointment, error) {
	appts, err := s.appointments.ListCompletedByMechanic(ctx, mechanicID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return appts, nil
}

func (s *AppointmentService) getAppointment(ctx context.Context, id string) (*domain.Appointment, error) {
	appt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("appointment", map[string]any{"appointment_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return appt, nil
}

func (s *AppointmentService) publish(ctx context.Context, eventType events.EventType, appointmentID string, actor *domain.User, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		AppointmentID: appointmentID,
		Actor:         events.Actor{UserID: actor.ID, Role: actor.Role, Name: actor.Name},
		Timestamp:     time.Now(),
		Payload:       payload,
	}
	_ = s.dispatcher.Publish(ctx, event)
}
