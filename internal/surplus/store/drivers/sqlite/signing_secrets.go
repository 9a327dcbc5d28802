package sqlite

import (
	"context"

	"github.com/aussiebroadwan/surplus360/internal/surplus/domain"
)

type signingSecretsRepo struct {
	db dbtx
}

func (r *signingSecretsRepo) GetLatestSigningSecret(ctx context.Context) (domain.SigningSecret, error) {
	var s domain.SigningSecret
	err := r.db.QueryRowContext(ctx, `
		SELECT id, secret_encrypted, created_at FROM signing_secrets
		ORDER BY created_at DESC, id DESC LIMIT 1`,
	).Scan(&s.ID, &s.SecretEncrypted, &s.CreatedAt)
	if err != nil {
		return domain.SigningSecret{}, mapNotFound(err)
	}
	return s, nil
}

func (r *signingSecretsRepo) CreateSigningSecret(ctx context.Context, s domain.SigningSecret) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO signing_secrets (id, secret_encrypted, created_at) VALUES (?, ?, ?)`,
		s.ID, s.SecretEncrypted, s.CreatedAt.UTC())
	return mapConstraint(err)
}
