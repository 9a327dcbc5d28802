package domain

import (
	"time"

	"github.com/aussiebroadwan/surplus360/pkg/idx"
)

type NotificationType string

const (
	NotificationSurplusMatch      NotificationType = "SURPLUS_MATCH"
	NotificationTransactionUpdate NotificationType = "TRANSACTION_UPDATE"
	NotificationDeliveryUpdate    NotificationType = "DELIVERY_UPDATE"
	NotificationSystem            NotificationType = "SYSTEM"
	NotificationNewRequest        NotificationType = "NEW_REQUEST"
)

// Valid reports whether t is a known notification type.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationSurplusMatch, NotificationTransactionUpdate, NotificationDeliveryUpdate,
		NotificationSystem, NotificationNewRequest:
		return true
	}
	return false
}

type NotificationPriority string

const (
	PriorityNormal NotificationPriority = "NORMAL"
	PriorityHigh   NotificationPriority = "HIGH"
)

// Notification is addressed to exactly one user. Only Read ever changes.
type Notification struct {
	ID        idx.ID
	UserID    int64
	Type      NotificationType
	Title     string
	Message   string
	Data      *string
	Priority  NotificationPriority
	Read      bool
	CreatedAt time.Time
}
