package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/garage-scheduler/internal/domain"
	"github.com/spec-kit/garage-scheduler/internal/events"
	"github.com/spec-kit/garage-scheduler/internal/repository"
	apperrors "github.com/spec-kit/garage-scheduler/pkg/util"
)

const unreadCountTTL = time.Minute

// NotificationService persists per-user notifications for domain events.
// Creation is strictly best-effort: a failed insert is logged and swallowed
// so the triggering lifecycle operation never fails or rolls back.
type NotificationService struct {
	notes      repository.NotificationRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	cache      *redis.Client
	logger     *zap.Logger
}

// NewNotificationService creates the service. cache may be nil.
func NewNotificationService(notes repository.NotificationRepository, users repository.UserRepository, dispatcher events.Dispatcher, cache *redis.Client, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notes:      notes,
		users:      users,
		dispatcher: dispatcher,
		cache:      cache,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to lifecycle events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventAppointmentBooked, n.handleBooked)
	n.dispatcher.Subscribe(events.EventAppointmentAssigned, n.handleAssigned)
	n.dispatcher.Subscribe(events.EventAppointmentCompleted, n.handleCompleted)
}

// ListAll returns every notification for the user, newest first.
func (n *NotificationService) ListAll(ctx context.Context, userID string) ([]domain.Notification, error) {
	notes, err := n.notes.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return notes, nil
}

// ListUnread returns unread notifications, newest first.
func (n *NotificationService) ListUnread(ctx context.Context, userID string) ([]domain.Notification, error) {
	notes, err := n.notes.ListUnreadByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return notes, nil
}

// UnreadCount returns the badge count, served from Redis when warm. A cache
// outage falls through to Postgres.
func (n *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	key := unreadKey(userID)
	if n.cache != nil {
		if val, err := n.cache.Get(ctx, key).Result(); err == nil {
			if count, convErr := strconv.Atoi(val); convErr == nil {
				return count, nil
			}
		}
	}

	count, err := n.notes.CountUnread(ctx, userID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	if n.cache != nil {
		if err := n.cache.Set(ctx, key, count, unreadCountTTL).Err(); err != nil {
			n.logger.Debug("unread count cache set failed", zap.Error(err))
		}
	}
	return count, nil
}

func (n *NotificationService) handleBooked(ctx context.Context, event events.Event) error {
	admin, err := n.users.FindAdmin(ctx)
	if err != nil {
		n.logger.Warn("admin user not found for booking notification",
			zap.String("appointment_id", event.AppointmentID), zap.Error(err))
		return nil
	}
	n.create(ctx, admin.ID, "New appointment booked!", "/appointments/list")
	return nil
}

func (n *NotificationService) handleAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AppointmentAssignedPayload)
	if !ok {
		n.logger.Warn("unexpected assigned payload", zap.String("appointment_id", event.AppointmentID))
		return nil
	}
	n.create(ctx, payload.MechanicID, "Admin assigned you to a new appointment!", "/appointments/mechanic/appointments")
	return nil
}

func (n *NotificationService) handleCompleted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AppointmentCompletedPayload)
	if !ok {
		n.logger.Warn("unexpected completed payload", zap.String("appointment_id", event.AppointmentID))
		return nil
	}
	n.create(ctx, payload.CustomerID,
		"Your appointment has been completed. Please pick up your vehicle. Thank you!",
		"/appointments/my")

	// A mechanic completing work also surfaces on the admin's board; an
	// admin completing on a mechanic's behalf already knows.
	if event.Actor.Role != domain.RoleAdmin {
		admin, err := n.users.FindAdmin(ctx)
		if err != nil {
			n.logger.Warn("admin user not found for completion notification",
				zap.String("appointment_id", event.AppointmentID), zap.Error(err))
			return nil
		}
		name := event.Actor.Name
		if name == "" {
			name = "a mechanic"
		}
		n.create(ctx, admin.ID, fmt.Sprintf("An appointment was completed by %s.", name), "/appointments/assigned")
	}
	return nil
}

func (n *NotificationService) create(ctx context.Context, userID, message, link string) {
	note := &domain.Notification{
		UserID:  userID,
		Message: message,
		Link:    link,
	}
	if err := n.notes.Create(ctx, note); err != nil {
		n.logger.Error("notification creation failed",
			zap.String("user_id", userID), zap.Error(err))
		return
	}
	if n.cache != nil {
		if err := n.cache.Del(ctx, unreadKey(userID)).Err(); err != nil {
			n.logger.Debug("unread count cache invalidation failed", zap.Error(err))
		}
	}
}

func unreadKey(userID string) string {
	return "notifications:unread:" + userID
}
