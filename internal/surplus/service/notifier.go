package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/surplus360/internal/surplus/domain"
	"github.com/aussiebroadwan/surplus360/internal/surplus/metrics"
	"github.com/aussiebroadwan/surplus360/internal/surplus/store"
	"github.com/aussiebroadwan/surplus360/pkg/idx"
	"github.com/aussiebroadwan/surplus360/pkg/slogx"
)

// Event is a domain occurrence addressed to one user. Detail fills the
// message template; Ref is the correlation id (a transaction id) for the
// kinds that carry one.
type Event struct {
	UserID int64
	Kind   domain.NotificationType
	Detail string
	Ref    string
}

type template struct {
	title    string
	message  func(e Event) string
	priority domain.NotificationPriority
	needsRef bool
}

var templates = map[domain.NotificationType]template{
	domain.NotificationTransactionUpdate: {
		title: "Transaction update",
		message: func(e Event) string {
			return fmt.Sprintf("Transaction %s is now %s.", e.Ref, orDefault(e.Detail, "updated"))
		},
		priority: domain.PriorityHigh,
		needsRef: true,
	},
	domain.NotificationNewRequest: {
		title: "New request",
		message: func(e Event) string {
			return fmt.Sprintf("You have a new request for %s.", orDefault(e.Detail, "one of your listings"))
		},
		priority: domain.PriorityNormal,
	},
	domain.NotificationSurplusMatch: {
		title: "Surplus match found",
		message: func(e Event) string {
			return fmt.Sprintf("A new listing matches your interests: %s.", orDefault(e.Detail, "see the marketplace"))
		},
		priority: domain.PriorityHigh,
	},
	domain.NotificationDeliveryUpdate: {
		title: "Delivery update",
		message: func(e Event) string {
			return fmt.Sprintf("Delivery for transaction %s: %s.", e.Ref, orDefault(e.Detail, "status changed"))
		},
		priority: domain.PriorityNormal,
		needsRef: true,
	},
	domain.NotificationSystem: {
		title: "System notice",
		message: func(e Event) string {
			return orDefault(e.Detail, "There is a new system notice.")
		},
		priority: domain.PriorityNormal,
	},
}

// NotificationService turns events into stored notifications and lets a
// user read and acknowledge their own.
type NotificationService struct {
	Store   store.Store
	Metrics *metrics.Metrics
	Now     func() time.Time
}

// Notify persists the notification for e using the template of its kind.
func (s *NotificationService) Notify(ctx context.Context, e Event) (domain.Notification, error) {
	tpl, ok := templates[e.Kind]
	if !ok {
		return domain.Notification{}, fieldError("type", "unknown notification type")
	}
	if e.UserID <= 0 {
		return domain.Notification{}, fieldError("userId", "is required")
	}
	e.Ref = strings.TrimSpace(e.Ref)
	e.Detail = strings.TrimSpace(e.Detail)
	if tpl.needsRef && e.Ref == "" {
		return domain.Notification{}, fieldError("ref", "is required for "+string(e.Kind))
	}

	if _, err := s.Store.Users().GetUserByID(ctx, e.UserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Notification{}, ErrNotFound
		}
		return domain.Notification{}, err
	}

	now := s.now()
	n := domain.Notification{
		ID:        idx.NewAt(now),
		UserID:    e.UserID,
		Type:      e.Kind,
		Title:     tpl.title,
		Message:   tpl.message(e),
		Priority:  tpl.priority,
		CreatedAt: now,
	}
	if tpl.needsRef {
		ref := e.Ref
		n.Data = &ref
	}

	if err := s.Store.Notifications().Save(ctx, n); err != nil {
		return domain.Notification{}, err
	}
	s.Metrics.NotificationCreated(string(n.Type))

	slogx.FromContext(ctx).Debug("notification created",
		slog.String("id", n.ID.String()),
		slog.Int64("user_id", n.UserID),
		slog.String("type", string(n.Type)),
	)
	return n, nil
}

func (s *NotificationService) NotifyTransactionUpdate(ctx context.Context, userID int64, transactionID, status string) (domain.Notification, error) {
	return s.Notify(ctx, Event{UserID: userID, Kind: domain.NotificationTransactionUpdate, Ref: transactionID, Detail: status})
}

func (s *NotificationService) NotifyNewRequest(ctx context.Context, userID int64, listingTitle string) (domain.Notification, error) {
	return s.Notify(ctx, Event{UserID: userID, Kind: domain.NotificationNewRequest, Detail: listingTitle})
}

func (s *NotificationService) NotifySurplusMatch(ctx context.Context, userID int64, listingTitle string) (domain.Notification, error) {
	return s.Notify(ctx, Event{UserID: userID, Kind: domain.NotificationSurplusMatch, Detail: listingTitle})
}

func (s *NotificationService) NotifyDeliveryUpdate(ctx context.Context, userID int64, transactionID, status string) (domain.Notification, error) {
	return s.Notify(ctx, Event{UserID: userID, Kind: domain.NotificationDeliveryUpdate, Ref: transactionID, Detail: status})
}

func (s *NotificationService) NotifySystem(ctx context.Context, userID int64, message string) (domain.Notification, error) {
	return s.Notify(ctx, Event{UserID: userID, Kind: domain.NotificationSystem, Detail: message})
}

func (s *NotificationService) CountUnread(ctx context.Context, userID int64) (int64, error) {
	return s.Store.Notifications().CountUnreadByUser(ctx, userID)
}

// Unread lists the user's unread notifications, newest first.
func (s *NotificationService) Unread(ctx context.Context, userID int64) ([]domain.Notification, error) {
	return s.Store.Notifications().FindByUserAndRead(ctx, userID, false)
}

// MarkAsRead marks one notification read. A notification that does not
// exist or belongs to another user is left alone and no error is returned.
func (s *NotificationService) MarkAsRead(ctx context.Context, id idx.ID, userID int64) error {
	n, err := s.Store.Notifications().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	if n.UserID != userID {
		slogx.FromContext(ctx).Debug("mark read ignored for foreign notification",
			slog.String("id", id.String()),
			slog.Int64("user_id", userID),
		)
		return nil
	}
	if n.Read {
		return nil
	}
	n.Read = true
	return s.Store.Notifications().Save(ctx, n)
}

// MarkAllAsRead marks every currently unread notification of the user read
// and returns how many were changed. Notifications arriving meanwhile may be
// missed.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID int64) (int, error) {
	unread, err := s.Store.Notifications().FindByUserAndRead(ctx, userID, false)
	if err != nil {
		return 0, err
	}
	if len(unread) == 0 {
		return 0, nil
	}
	for i := range unread {
		unread[i].Read = true
	}
	if err := s.Store.Notifications().SaveAll(ctx, unread); err != nil {
		return 0, err
	}
	return len(unread), nil
}

func (s *NotificationService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
