package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/surplus360/internal/surplus/domain"
	"github.com/aussiebroadwan/surplus360/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNotify_Templates(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	u := seedUser(t, st, "alice", "alice@x.com", "secret1", true)
	svc := &NotificationService{Store: st}

	tests := []struct {
		name     string
		notify   func() (domain.Notification, error)
		kind     domain.NotificationType
		priority domain.NotificationPriority
		data     *string
	}{
		{
			name:     "transaction update",
			notify:   func() (domain.Notification, error) { return svc.NotifyTransactionUpdate(ctx, u.ID, "tx-42", "CONFIRMED") },
			kind:     domain.NotificationTransactionUpdate,
			priority: domain.PriorityHigh,
			data:     ptr("tx-42"),
		},
		{
			name:     "new request",
			notify:   func() (domain.Notification, error) { return svc.NotifyNewRequest(ctx, u.ID, "Apples") },
			kind:     domain.NotificationNewRequest,
			priority: domain.PriorityNormal,
		},
		{
			name:     "surplus match",
			notify:   func() (domain.Notification, error) { return svc.NotifySurplusMatch(ctx, u.ID, "Pears") },
			kind:     domain.NotificationSurplusMatch,
			priority: domain.PriorityHigh,
		},
		{
			name:     "delivery update",
			notify:   func() (domain.Notification, error) { return svc.NotifyDeliveryUpdate(ctx, u.ID, "tx-7", "IN_TRANSIT") },
			kind:     domain.NotificationDeliveryUpdate,
			priority: domain.PriorityNormal,
			data:     ptr("tx-7"),
		},
		{
			name:     "system",
			notify:   func() (domain.Notification, error) { return svc.NotifySystem(ctx, u.ID, "Maintenance tonight") },
			kind:     domain.NotificationSystem,
			priority: domain.PriorityNormal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := tt.notify()
			require.NoError(t, err)
			require.Equal(t, tt.kind, n.Type)
			require.Equal(t, tt.priority, n.Priority)
			require.Equal(t, tt.data, n.Data)
			require.False(t, n.Read)
			require.NotEmpty(t, n.Title)
			require.NotEmpty(t, n.Message)

			stored, err := st.Notifications().FindByID(ctx, n.ID)
			require.NoError(t, err)
			require.Equal(t, n.Message, stored.Message)
			require.Equal(t, tt.data, stored.Data)
		})
	}

	count, err := svc.CountUnread(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, int64(len(tests)), count)
}

func TestNotify_Rejects(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	u := seedUser(t, st, "alice", "alice@x.com", "secret1", true)
	svc := &NotificationService{Store: st}

	_, err := svc.Notify(ctx, Event{UserID: u.ID, Kind: "BOGUS"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Notify(ctx, Event{UserID: u.ID, Kind: domain.NotificationTransactionUpdate})
	require.ErrorIs(t, err, ErrValidation, "transaction id is required")

	_, err = svc.Notify(ctx, Event{Kind: domain.NotificationSystem})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Notify(ctx, Event{UserID: 4242, Kind: domain.NotificationSystem})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMarkAsRead_Ownership(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	alice := seedUser(t, st, "alice", "alice@x.com", "secret1", true)
	bob := seedUser(t, st, "bob", "bob@x.com", "secret1", true)
	svc := &NotificationService{Store: st}

	n, err := svc.NotifySystem(ctx, bob.ID, "hello bob")
	require.NoError(t, err)

	t.Run("foreign notification is a silent no-op", func(t *testing.T) {
		require.NoError(t, svc.MarkAsRead(ctx, n.ID, alice.ID))
		count, err := svc.CountUnread(ctx, bob.ID)
		require.NoError(t, err)
		require.Equal(t, int64(1), count)
	})

	t.Run("missing notification is a silent no-op", func(t *testing.T) {
		require.NoError(t, svc.MarkAsRead(ctx, idx.New(), bob.ID))
	})

	t.Run("owner marks read idempotently", func(t *testing.T) {
		require.NoError(t, svc.MarkAsRead(ctx, n.ID, bob.ID))
		require.NoError(t, svc.MarkAsRead(ctx, n.ID, bob.ID))
		count, err := svc.CountUnread(ctx, bob.ID)
		require.NoError(t, err)
		require.Zero(t, count)
	})
}

func TestMarkAllAsRead(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	alice := seedUser(t, st, "alice", "alice@x.com", "secret1", true)
	bob := seedUser(t, st, "bob", "bob@x.com", "secret1", true)

	clock := &testClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	svc := &NotificationService{Store: st, Now: func() time.Time {
		clock.Advance(time.Second)
		return clock.Now()
	}}

	for i := 0; i < 3; i++ {
		_, err := svc.NotifyNewRequest(ctx, alice.ID, "Apples")
		require.NoError(t, err)
	}
	_, err := svc.NotifySystem(ctx, bob.ID, "hi")
	require.NoError(t, err)

	unread, err := svc.Unread(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, unread, 3)
	require.True(t, unread[0].CreatedAt.After(unread[2].CreatedAt), "newest first")

	n, err := svc.MarkAllAsRead(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	count, err := svc.CountUnread(ctx, alice.ID)
	require.NoError(t, err)
	require.Zero(t, count)

	count, err = svc.CountUnread(ctx, bob.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count, "other users untouched")

	n, err = svc.MarkAllAsRead(ctx, alice.ID)
	require.NoError(t, err)
	require.Zero(t, n)
}

func ptr(s string) *string { return &s }
