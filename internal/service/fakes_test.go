package service_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/garage-scheduler/internal/domain"
)

// In-memory repository fakes. They mirror the Postgres implementations
// closely enough for service-level behavior: pgx.ErrNoRows for misses,
// stable ordering, copies on return.

type memUserRepo struct {
	mu        sync.Mutex
	users     []*domain.User
	createErr error
}

func newMemUserRepo() *memUserRepo { return &memUserRepo{} }

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users = append(r.users, &clone)
	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.users {
		if existing.ID == user.ID {
			clone := *user
			clone.UpdatedAt = time.Now()
			r.users[i] = &clone
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.users {
		if existing.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.ID == id {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) FindAdmin(_ context.Context) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if strings.EqualFold(string(user.Role), "admin") {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) ListByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.User
	for _, user := range r.users {
		if user.Role == role {
			result = append(result, *user)
		}
	}
	return result, nil
}

func (r *memUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

type memAppointmentRepo struct {
	mu    sync.Mutex
	appts []*domain.Appointment
}

func newMemAppointmentRepo() *memAppointmentRepo { return &memAppointmentRepo{} }

func (r *memAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	appt.ID = uuid.NewString()
	appt.CreatedAt = time.Now()
	appt.UpdatedAt = appt.CreatedAt
	clone := *appt
	r.appts = append(r.appts, &clone)
	return nil
}

func (r *memAppointmentRepo) UpdateStatus(_ context.Context, id string, status domain.AppointmentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, appt := range r.appts {
		if appt.ID == id {
			appt.Status = status
			appt.UpdatedAt = time.Now()
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *memAppointmentRepo) UpdateAssignment(_ context.Context, id, mechanicID string, status domain.AppointmentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, appt := range r.appts {
		if appt.ID == id {
			mid := mechanicID
			appt.MechanicID = &mid
			appt.Status = status
			appt.UpdatedAt = time.Now()
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *memAppointmentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, appt := range r.appts {
		if appt.ID == id {
			r.appts = append(r.appts[:i], r.appts[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *memAppointmentRepo) GetByID(_ context.Context, id string) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, appt := range r.appts {
		if appt.ID == id {
			clone := *appt
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memAppointmentRepo) ListByCustomer(_ context.Context, customerID string) ([]domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Appointment
	for _, appt := range r.appts {
		if appt.CustomerID == customerID {
			result = append(result, *appt)
		}
	}
	sortByDateAsc(result)
	return result, nil
}

func (r *memAppointmentRepo) ListAllDetailed(_ context.Context) ([]domain.AppointmentDetail, error) {
	return r.detailed(func(*domain.Appointment) bool { return true })
}

func (r *memAppointmentRepo) ListAssignedDetailed(_ context.Context) ([]domain.AppointmentDetail, error) {
	return r.detailed(func(appt *domain.Appointment) bool { return appt.MechanicID != nil })
}

func (r *memAppointmentRepo) detailed(keep func(*domain.Appointment) bool) ([]domain.AppointmentDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.AppointmentDetail
	for _, appt := range r.appts {
		if keep(appt) {
			result = append(result, domain.AppointmentDetail{Appointment: *appt})
		}
	}
	return result, nil
}

func (r *memAppointmentRepo) ListForMechanic(_ context.Context, mechanicID string) ([]domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Appointment
	for _, appt := range r.appts {
		if appt.MechanicID != nil && *appt.MechanicID == mechanicID &&
			(appt.Status == domain.AppointmentStatusPending || appt.Status == domain.AppointmentStatusApproved) {
			result = append(result, *appt)
		}
	}
	sortByDateAsc(result)
	return result, nil
}

func (r *memAppointmentRepo) ListCompletedByMechanic(_ context.Context, mechanicID string) ([]domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Appointment
	for _, appt := range r.appts {
		if appt.MechanicID != nil && *appt.MechanicID == mechanicID && appt.Status == domain.AppointmentStatusCompleted {
			result = append(result, *appt)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date > result[j].Date
		}
		return result[i].Time > result[j].Time
	})
	return result, nil
}

func (r *memAppointmentRepo) HasConflict(_ context.Context, mechanicID, date, timeSlot, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, appt := range r.appts {
		if appt.ID == excludeID {
			continue
		}
		if appt.MechanicID != nil && *appt.MechanicID == mechanicID && appt.Date == date && appt.Time == timeSlot {
			return true, nil
		}
	}
	return false, nil
}

func (r *memAppointmentRepo) CountActiveForMechanic(_ context.Context, mechanicID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, appt := range r.appts {
		if appt.MechanicID != nil && *appt.MechanicID == mechanicID && appt.Status != domain.AppointmentStatusCompleted {
			count++
		}
	}
	return count, nil
}

func sortByDateAsc(appts []domain.Appointment) {
	sort.Slice(appts, func(i, j int) bool {
		if appts[i].Date != appts[j].Date {
			return appts[i].Date < appts[j].Date
		}
		return appts[i].Time < appts[j].Time
	})
}

type memNotificationRepo struct {
	mu      sync.Mutex
	notes   []*domain.Notification
	failErr error
}

func newMemNotificationRepo() *memNotificationRepo { return &memNotificationRepo{} }

func (r *memNotificationRepo) Create(_ context.Context, note *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return r.failErr
	}
	note.ID = uuid.NewString()
	note.CreatedAt = time.Now().Add(time.Duration(len(r.notes)) * time.Millisecond)
	clone := *note
	r.notes = append(r.notes, &clone)
	return nil
}

func (r *memNotificationRepo) ListByUser(_ context.Context, userID string) ([]domain.Notification, error) {
	return r.list(userID, false), nil
}

func (r *memNotificationRepo) ListUnreadByUser(_ context.Context, userID string) ([]domain.Notification, error) {
	return r.list(userID, true), nil
}

func (r *memNotificationRepo) CountUnread(_ context.Context, userID string) (int, error) {
	return len(r.list(userID, true)), nil
}

func (r *memNotificationRepo) list(userID string, unreadOnly bool) []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Notification
	for _, note := range r.notes {
		if note.UserID != userID {
			continue
		}
		if unreadOnly && note.Read {
			continue
		}
		result = append(result, *note)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (r *memNotificationRepo) forUser(userID string) []domain.Notification {
	return r.list(userID, false)
}

type memProfileRepo struct {
	mu       sync.Mutex
	profiles []*domain.MechanicProfile
}

func newMemProfileRepo() *memProfileRepo { return &memProfileRepo{} }

func (r *memProfileRepo) GetByUserID(_ context.Context, userID string) (*domain.MechanicProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, profile := range r.profiles {
		if profile.UserID == userID {
			clone := *profile
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memProfileRepo) Upsert(_ context.Context, profile *domain.MechanicProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.profiles {
		if existing.UserID == profile.UserID {
			clone := *profile
			clone.CreatedAt = existing.CreatedAt
			clone.UpdatedAt = time.Now()
			r.profiles[i] = &clone
			return nil
		}
	}
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = profile.CreatedAt
	clone := *profile
	r.profiles = append(r.profiles, &clone)
	return nil
}

func (r *memProfileRepo) ListBySkill(_ context.Context, serviceType string) ([]domain.MechanicProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.MechanicProfile
	for _, profile := range r.profiles {
		for _, skill := range profile.Skills {
			if skill == serviceType {
				result = append(result, *profile)
				break
			}
		}
	}
	return result, nil
}
