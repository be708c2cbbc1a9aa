package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/garage-scheduler/internal/domain"
)

// NotificationRepository encapsulates notification persistence.
type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	ListByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	ListUnreadByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository instantiates repository.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Create(ctx context.Context, note *domain.Notification) error {
	const query = `
        INSERT INTO notifications (user_id, message, link, read)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		note.UserID,
		note.Message,
		note.Link,
		note.Read,
	).Scan(&note.ID, &note.CreatedAt)
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	const query = `
        SELECT id, user_id, message, link, read, created_at
        FROM notifications WHERE user_id=$1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *notificationRepository) ListUnreadByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	const query = `
        SELECT id, user_id, message, link, read, created_at
        FROM notifications WHERE user_id=$1 AND read=FALSE ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id=$1 AND read=FALSE`, userID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *notificationRepository) list(ctx context.Context, query string, args ...any) ([]domain.Notification, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotifications(rows)
}

func scanNotifications(rows pgx.Rows) ([]domain.Notification, error) {
	var result []domain.Notification
	for rows.Next() {
		var note domain.Notification
		if err := rows.Scan(
			&note.ID,
			&note.UserID,
			&note.Message,
			&note.Link,
			&note.Read,
			&note.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, note)
	}
	return result, rows.Err()
}
