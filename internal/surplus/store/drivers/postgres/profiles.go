package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/surplus360/internal/surplus/domain"
)

type profilesRepo struct {
	db dbtx
}

func (r *profilesRepo) CreateProfile(ctx context.Context, p domain.Profile) (domain.Profile, error) {
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO profiles (user_id, phone, location, company_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		p.UserID, p.Phone, p.Location, p.CompanyName, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return domain.Profile{}, mapConstraint(err)
	}
	return p, nil
}

func (r *profilesRepo) GetProfileByUserID(ctx context.Context, userID int64) (domain.Profile, error) {
	var p domain.Profile
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, phone, location, company_name, created_at, updated_at
		FROM profiles WHERE user_id = $1`, userID,
	).Scan(&p.ID, &p.UserID, &p.Phone, &p.Location, &p.CompanyName, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Profile{}, mapNotFound(err)
	}
	return p, nil
}
