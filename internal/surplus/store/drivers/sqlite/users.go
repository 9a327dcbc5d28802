package sqlite

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
	u.ActivationKey = mapNullString(activationKey)
	u.Authorities = splitFields(authorities)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *usersRepo) GetUserByLogin(ctx context.Context, login string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE login = ?`, login))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower(?)`, email))
}

func (r *usersRepo) GetUserByActivationKey(ctx context.Context, keyHash string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE activation_key = ?`, keyHash))
}

func (r *usersRepo) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE login = ?)`, login).Scan(&exists)
	return exists, err
}

func (r *usersRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower(?))`, email).Scan(&exists)
	return exists, err
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (login, email, password_hash, first_name, last_name, lang_key,
			activated, activation_key, authorities, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Login, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.LangKey,
		u.Activated, mapStringNull(u.ActivationKey), strings.Join(u.Authorities, " "),
		u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapConstraint(err)
	}

	u.ID, err = res.LastInsertId()
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *usersRepo) ActivateUser(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET activated = 1, activation_key = NULL, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *usersRepo) DeleteNotActivatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM users WHERE activated = 0 AND created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}
