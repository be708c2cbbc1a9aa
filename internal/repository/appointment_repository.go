package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/garage-scheduler/internal/domain"
)

// AppointmentRepository encapsulates appointment persistence.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) error
	UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) error
	UpdateAssignment(ctx context.Context, id, mechanicID string, status domain.AppointmentStatus) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Appointment, error)
	ListAllDetailed(ctx context.Context) ([]domain.AppointmentDetail, error)
	ListAssignedDetailed(ctx context.Context) ([]domain.AppointmentDetail, error)
	ListForMechanic(ctx context.Context, mechanicID string) ([]domain.Appointment, error)
	ListCompletedByMechanic(ctx context.Context, mechanicID string) ([]domain.Appointment, error)
	// HasConflict reports whether another appointment already holds the same
	// (mechanic, date, time) slot. excludeID keeps the appointment under
	// reassignment from conflicting with itself.
	HasConflict(ctx context.Context, mechanicID, date, timeSlot, excludeID string) (bool, error)
	CountActiveForMechanic(ctx context.Context, mechanicID string) (int, error)
}

type appointmentRepository struct {
	pool *pgxpool.Pool
}

// NewAppointmentRepository instantiates repository.
func NewAppointmentRepository(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepository{pool: pool}
}

const appointmentColumns = `id, customer_id, vehicle_number, service_type, date, time, status, mechanic_id, created_at, updated_at`

func (r *appointmentRepository) Create(ctx context.Context, appt *domain.Appointment) error {
	const query = `
        INSERT INTO appointments (customer_id, vehicle_number, service_type, date, time, status, mechanic_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		appt.CustomerID,
		appt.VehicleNumber,
		appt.ServiceType,
		appt.Date,
		appt.Time,
		appt.Status,
		appt.MechanicID,
	).Scan(&appt.ID, &appt.CreatedAt, &appt.UpdatedAt)
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE appointments SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *appointmentRepository) UpdateAssignment(ctx context.Context, id, mechanicID string, status domain.AppointmentStatus) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE appointments SET mechanic_id=$1, status=$2, updated_at=NOW() WHERE id=$3`,
		mechanicID, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *appointmentRepository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	var appt domain.Appointment
	if err := scanAppointment(r.pool.QueryRow(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id=$1`, id), &appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

func (r *appointmentRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Appointment, error) {
	const query = `SELECT ` + appointmentColumns + `
        FROM appointments WHERE customer_id=$1 ORDER BY date ASC, time ASC`
	return r.list(ctx, query, customerID)
}

func (r *appointmentRepository) ListForMechanic(ctx context.Context, mechanicID string) ([]domain.Appointment, error) {
	const query = `SELECT ` + appointmentColumns + `
        FROM appointments
        WHERE mechanic_id=$1 AND status IN ('Pending','Approved')
        ORDER BY date ASC, time ASC`
	return r.list(ctx, query, mechanicID)
}

func (r *appointmentRepository) ListCompletedByMechanic(ctx context.Context, mechanicID string) ([]domain.Appointment, error) {
	const query = `SELECT ` + appointmentColumns + `
        FROM appointments
        WHERE mechanic_id=$1 AND status='Completed'
        ORDER BY date DESC, time DESC`
	return r.list(ctx, query, mechanicID)
}

const detailedQuery = `
    SELECT a.id, a.customer_id, a.vehicle_number, a.service_type, a.date, a.time,
           a.status, a.mechanic_id, a.created_at, a.updated_at,
           COALESCE(c.name, ''), COALESCE(c.email, ''), m.name
    FROM appointments a
    LEFT JOIN users c ON c.id = a.customer_id
    LEFT JOIN users m ON m.id = a.mechanic_id`

func (r *appointmentRepository) ListAllDetailed(ctx context.Context) ([]domain.AppointmentDetail, error) {
	return r.listDetailed(ctx, detailedQuery+` ORDER BY a.date ASC, a.time ASC`)
}

func (r *appointmentRepository) ListAssignedDetailed(ctx context.Context) ([]domain.AppointmentDetail, error) {
	return r.listDetailed(ctx, detailedQuery+` WHERE a.mechanic_id IS NOT NULL ORDER BY a.date ASC, a.time ASC`)
}

func (r *appointmentRepository) HasConflict(ctx context.Context, mechanicID, date, timeSlot, excludeID string) (bool, error) {
	if excludeID == "" {
		excludeID = uuid.Nil.String()
	}
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM appointments
            WHERE mechanic_id=$1 AND date=$2 AND time=$3 AND id<>$4
        )`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, mechanicID, date, timeSlot, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *appointmentRepository) CountActiveForMechanic(ctx context.Context, mechanicID string) (int, error) {
	const query = `SELECT COUNT(*) FROM appointments WHERE mechanic_id=$1 AND status<>'Completed'`
	var count int
	if err := r.pool.QueryRow(ctx, query, mechanicID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *appointmentRepository) list(ctx context.Context, query string, args ...any) ([]domain.Appointment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Appointment
	for rows.Next() {
		var appt domain.Appointment
		if err := scanAppointment(rows, &appt); err != nil {
			return nil, err
		}
		result = append(result, appt)
	}
	return result, rows.Err()
}

func (r *appointmentRepository) listDetailed(ctx context.Context, query string) ([]domain.AppointmentDetail, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AppointmentDetail
	for rows.Next() {
		var detail domain.AppointmentDetail
		if err := rows.Scan(
			&detail.ID,
			&detail.CustomerID,
			&detail.VehicleNumber,
			&detail.ServiceType,
			&detail.Date,
			&detail.Time,
			&detail.Status,
			&detail.MechanicID,
			&detail.CreatedAt,
			&detail.UpdatedAt,
			&detail.CustomerName,
			&detail.CustomerEmail,
			&detail.MechanicName,
		); err != nil {
			return nil, err
		}
		result = append(result, detail)
	}
	return result, rows.Err()
}

func scanAppointment(row pgx.Row, appt *domain.Appointment) error {
	return row.Scan(
		&appt.ID,
		&appt.CustomerID,
		&appt.VehicleNumber,
		&appt.ServiceType,
		&appt.Date,
		&appt.Time,
		&appt.Status,
		&appt.MechanicID,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	)
}
