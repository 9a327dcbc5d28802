package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/surplus360/internal/surplus/domain"
	"github.com/aussiebroadwan/surplus360/internal/surplus/store"
	"github.com/aussiebroadwan/surplus360/pkg/cryptox"
	"github.com/aussiebroadwan/surplus360/pkg/idx"
	"github.com/aussiebroadwan/surplus360/pkg/jwtx"
)

// secretSize is the length of generated HMAC secrets, one SHA-512 block.
const secretSize = 64

// InitCodec builds the token codec from the configured signing secret.
//
// Secret sources:
//   - SURPLUS_JWT_SECRET: a base64 secret shared by every replica.
//   - "ephemeral": a random secret held in memory. Every token becomes
//     invalid when the service restarts.
//   - "persistent": a secret sealed with the master key in the
//     signing_secrets table, generated on first start. Tokens survive
//     restarts.
func InitCodec(ctx context.Context, cfg Config, db store.Store, logger *slog.Logger) (*jwtx.Codec, error) {
	secret, err := loadSecret(ctx, cfg, db, logger)
	if err != nil {
		return nil, err
	}
	return jwtx.NewCodec(secret, jwtx.WithIssuer(cfg.Issuer))
}

func loadSecret(ctx context.Context, cfg Config, db store.Store, logger *slog.Logger) ([]byte, error) {
	if cfg.Secret != "" {
		secret, err := base64.StdEncoding.DecodeString(cfg.Secret)
		if err != nil {
			return nil, fmt.Errorf("decode configured secret: %w", err)
		}
		logger.Info("using configured signing secret", "issuer", cfg.Issuer)
		return secret, nil
	}

	switch cfg.SecretMode {
	case SecretModePersistent:
		if cfg.MasterKeyPath != "" {
			cryptox.SetMasterKeyPath(cfg.MasterKeyPath)
			logger.Info("master key path configured", "path", cfg.MasterKeyPath)
		}
		return persistentSecret(ctx, db.SigningSecrets(), logger)

	default:
		secret, err := newSecret()
		if err != nil {
			return nil, err
		}
		logger.Warn("generated ephemeral signing secret, existing tokens are now invalid")
		return secret, nil
	}
}

// persistentSecret opens the latest stored secret, creating one when the
// table is empty.
func persistentSecret(ctx context.Context, secrets store.SigningSecrets, logger *slog.Logger) ([]byte, error) {
	latest, err := secrets.GetLatestSigningSecret(ctx)
	switch {
	case err == nil:
		secret, err := cryptox.Open(latest.SecretEncrypted)
		if err != nil {
			return nil, fmt.Errorf("open signing secret %s: %w", latest.ID, err)
		}
		logger.Info("persistent signing secret loaded", "id", latest.ID, "created_at", latest.CreatedAt)
		return secret, nil

	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("load signing secret: %w", err)
	}

	secret, err := newSecret()
	if err != nil {
		return nil, err
	}
	sealed, err := cryptox.Seal(secret)
	if err != nil {
		return nil, fmt.Errorf("seal signing secret: %w", err)
	}

	rec := domain.SigningSecret{
		ID:              idx.New().String(),
		SecretEncrypted: sealed,
		CreatedAt:       time.Now().UTC(),
	}
	if err := secrets.CreateSigningSecret(ctx, rec); err != nil {
		return nil, fmt.Errorf("store signing secret: %w", err)
	}
	logger.Info("persistent signing secret generated", "id", rec.ID)
	return secret, nil
}

func newSecret() ([]byte, error) {
	secret := make([]byte, secretSize)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate signing secret: %w", err)
	}
	return secret, nil
}
