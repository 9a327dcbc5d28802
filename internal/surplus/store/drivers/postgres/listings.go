package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/aussiebroadwan/surplus360/internal/surplus/domain"
	"github.com/aussiebroadwan/surplus360/pkg/idx"
)

type listingsRepo struct {
	db dbtx
}

const listingColumns = `l.id, l.seller_id, u.login, l.title, l.description, l.tags, l.price_cents,
	l.currency, l.quantity, l.location, l.status, l.expires_at, l.created_at, l.updated_at`

func scanListing(row interface{ Scan(...any) error }) (domain.Listing, error) {
	var (
		l         domain.Listing
		id, tags  string
		expiresAt sql.NullTime
	)
	err := row.Scan(
		&id, &l.Seller.ID, &l.Seller.Login, &l.Title, &l.Description, &tags, &l.PriceCents,
		&l.Currency, &l.Quantity, &l.Location, &l.Status, &expiresAt, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return domain.Listing{}, mapNotFound(err)
	}
	l.ID = idx.ID(id)
	l.Tags = splitTags(tags)
	l.ExpiresAt = timePtr(expiresAt)
	l.CreatedAt = l.CreatedAt.UTC()
	l.UpdatedAt = l.UpdatedAt.UTC()
	return l, nil
}

func (r *listingsRepo) CreateListing(ctx context.Context, l domain.Listing) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO listings (id, seller_id, title, description, tags, price_cents, currency,
			quantity, location, status, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		l.ID.String(), l.Seller.ID, l.Title, l.Description, strings.Join(l.Tags, ","), l.PriceCents,
		l.Currency, l.Quantity, l.Location, string(l.Status), optionalTime(l.ExpiresAt),
		l.CreatedAt.UTC(), l.UpdatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *listingsRepo) GetListingByID(ctx context.Context, id idx.ID) (domain.Listing, error) {
	return scanListing(r.db.QueryRowContext(ctx, `
		SELECT `+listingColumns+`
		FROM listings l JOIN users u ON u.id = l.seller_id
		WHERE l.id = $1`, id.String()))
}

func likePattern(s string) string {
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}

func listingWhere(f domain.ListingFilter, p *params) string {
	var conds []string
	if f.Status != "" {
		conds = append(conds, `l.status = `+p.add(string(f.Status)))
	}
	if f.ActiveAt != nil {
		conds = append(conds, `(l.expires_at IS NULL OR l.expires_at > `+p.add(f.ActiveAt.UTC())+`)`)
	}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		ph := p.add(likePattern(kw))
		conds = append(conds, `(l.title ILIKE `+ph+` OR l.description ILIKE `+ph+` OR l.tags ILIKE `+ph+`)`)
	}
	if f.MinPrice != nil {
		conds = append(conds, `l.price_cents >= `+p.add(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		conds = append(conds, `l.price_cents <= `+p.add(*f.MaxPrice))
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		conds = append(conds, `l.location ILIKE `+p.add(likePattern(loc)))
	}

	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

func (r *listingsRepo) SearchListings(ctx context.Context, f domain.ListingFilter, limit, offset int) ([]domain.Listing, int64, error) {
	var p params
	where := listingWhere(f, &p)

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM listings l`+where, p...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return nil, 0, nil
	}

	query := `
		SELECT ` + listingColumns + `
		FROM listings l JOIN users u ON u.id = l.seller_id` + where + `
		ORDER BY l.created_at DESC, l.id DESC
		LIMIT ` + p.add(limit) + ` OFFSET ` + p.add(offset)

	rows, err := r.db.QueryContext(ctx, query, p...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, l)
	}
	return out, total, rows.Err()
}

func (r *listingsRepo) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE listings SET status = $1, updated_at = $2
		WHERE status = $3 AND expires_at IS NOT NULL AND expires_at <= $2`,
		string(domain.ListingExpired), now.UTC(), string(domain.ListingActive))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
