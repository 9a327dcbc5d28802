package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/aussiebroadwan/surplus360/internal/surplus/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, login, email, password_hash, first_name, last_name, lang_key,
	activated, activation_key, authorities, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var (
		u             domain.User
		activationKey sql.NullString
		authorities   string
	)
	err := row.Scan(
		&u.ID, &u.Login, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.LangKey,
		&u.Activated, &activationKey, &authorities, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.ActivationKey = activationKey.String
	u.Authorities = strings.Fields(authorities)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *usersRepo) GetUserByLogin(ctx context.Context, login string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE login = $1`, login))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
}

func (r *usersRepo) GetUserByActivationKey(ctx context.Context, keyHash string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE activation_key = $1`, keyHash))
}

func (r *usersRepo) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE login = $1)`, login).Scan(&exists)
	return exists, err
}

func (r *usersRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1))`, email).Scan(&exists)
	return exists, err
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (login, email, password_hash, first_name, last_name, lang_key,
			activated, activation_key, authorities, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		u.Login, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.LangKey,
		u.Activated, nullString(u.ActivationKey), strings.Join(u.Authorities, " "),
		u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		return domain.User{}, mapConstraint(err)
	}
	return u, nil
}

func (r *usersRepo) ActivateUser(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET activated = TRUE, activation_key = NULL, updated_at = $1 WHERE id = $2`,
		time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *usersRepo) DeleteNotActivatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM users WHERE activated = FALSE AND created_at < $1`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
