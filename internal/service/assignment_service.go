package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/garage-scheduler/internal/domain"
	"github.com/spec-kit/garage-scheduler/internal/repository"
	apperrors "github.com/spec-kit/garage-scheduler/pkg/util"
)

// AssignmentService suggests a mechanic for a requested slot. It is a
// stand-alone helper for admins; booking does not call it.
type AssignmentService struct {
	profiles     repository.MechanicProfileRepository
	appointments repository.AppointmentRepository
	users        repository.UserRepository
}

// AssignmentDependencies bundles repositories.
type AssignmentDependencies struct {
	ProfileRepo     repository.MechanicProfileRepository
	AppointmentRepo repository.AppointmentRepository
	UserRepo        repository.UserRepository
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		profiles:     deps.ProfileRepo,
		appointments: deps.AppointmentRepo,
		users:        deps.UserRepo,
	}
}

// SuggestMechanic scans mechanics whose skill set covers the service type,
// drops any with a conflicting assignment at the exact date and time, and
// picks the one with the fewest active assignments. Ties keep the first
// candidate in scan order; the scan order itself is stable (profile age).
func (s *AssignmentService) SuggestMechanic(ctx context.Context, serviceType, date, timeSlot string) (*domain.User, error) {
	if serviceType == "" || date == "" || timeSlot == "" {
		return nil, apperrors.NewValidationError("service_type, date and time are required", nil)
	}

	candidates, err := s.profiles.ListBySkill(ctx, serviceType)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	bestID := ""
	bestLoad := 0
	for _, profile := range candidates {
		conflict, err := s.appointments.HasConflict(ctx, profile.UserID, date, timeSlot, "")
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if conflict {
			continue
		}
		load, err := s.appointments.CountActiveForMechanic(ctx, profile.UserID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if bestID == "" || load < bestLoad {
			bestID = profile.UserID
			bestLoad = load
		}
	}
	if bestID == "" {
		return nil, apperrors.NewNotFound("available mechanic", map[string]any{
			"service_type": serviceType,
			"date":         date,
			"time":         timeSlot,
		})
	}

	mechanic, err := s.users.GetByID(ctx, bestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("mechanic", map[string]any{"mechanic_id": bestID})
		}
		return nil, apperrors.MapError(err)
	}
	return mechanic, nil
}
