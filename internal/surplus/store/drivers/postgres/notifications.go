package postgres

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/surplus360/internal/surplus/domain"
	"github.com/aussiebroadwan/surplus360/pkg/idx"
)

type notificationsRepo struct {
	db dbtx
}

const notificationColumns = `id, user_id, type, title, message, data, priority, read, created_at`

func scanNotification(row interface{ Scan(...any) error }) (domain.Notification, error) {
	var (
		n    domain.Notification
		id   string
		data sql.NullString
	)
	err := row.Scan(&id, &n.UserID, &n.Type, &n.Title, &n.Message, &data, &n.Priority, &n.Read, &n.CreatedAt)
	if err != nil {
		return domain.Notification{}, mapNotFound(err)
	}
	n.ID = idx.ID(id)
	n.Data = stringPtr(data)
	n.CreatedAt = n.CreatedAt.UTC()
	return n, nil
}

func (r *notificationsRepo) Save(ctx context.Context, n domain.Notification) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (`+notificationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET read = EXCLUDED.read`,
		n.ID.String(), n.UserID, string(n.Type), n.Title, n.Message,
		optionalString(n.Data), string(n.Priority), n.Read, n.CreatedAt.UTC(),
	)
	return err
}

func (r *notificationsRepo) SaveAll(ctx context.Context, ns []domain.Notification) error {
	for _, n := range ns {
		if err := r.Save(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

func (r *notificationsRepo) FindByID(ctx context.Context, id idx.ID) (domain.Notification, error) {
	return scanNotification(r.db.QueryRowContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id.String()))
}

func (r *notificationsRepo) FindByUserAndRead(ctx context.Context, userID int64, read bool) ([]domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+notificationColumns+` FROM notifications
		WHERE user_id = $1 AND read = $2
		ORDER BY created_at DESC, id DESC`, userID, read)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *notificationsRepo) CountUnreadByUser(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`, userID).Scan(&n)
	return n, err
}
