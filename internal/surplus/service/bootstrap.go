package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/surplus360/internal/surplus/domain"
	"github.com/aussiebroadwan/surplus360/internal/surplus/store"
	"github.com/aussiebroadwan/surplus360/pkg/cryptox"
	"github.com/aussiebroadwan/surplus360/pkg/slogx"
)

// AdminSeed describes the administrator created on first start.
type AdminSeed struct {
	Login    string
	Email    string
	Password string
}

// EnsureAdmin creates an activated account holding ROLE_USER and ROLE_ADMIN
// unless the login already exists. It reports whether an account was
// created. Existing accounts are never modified.
func (s *AccountService) EnsureAdmin(ctx context.Context, seed AdminSeed) (bool, error) {
	l := slogx.FromContext(ctx)

	in := RegisterInput{
		Login:    strings.ToLower(strings.TrimSpace(seed.Login)),
		Email:    strings.TrimSpace(seed.Email),
		Password: seed.Password,
	}
	if err := newValidationError(in.Validate()); err != nil {
		return false, err
	}

	if exists, err := s.Store.Users().ExistsByLogin(ctx, in.Login); err != nil {
		return false, err
	} else if exists {
		l.Debug("admin account already present", slog.String("login", in.Login))
		return false, nil
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return false, err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		created, err := tx.Users().CreateUser(ctx, domain.User{
			Login:        in.Login,
			Email:        in.Email,
			PasswordHash: hash,
			LangKey:      domain.DefaultLangKey,
			Activated:    true,
			Authorities:  []string{domain.RoleUser, domain.RoleAdmin},
		})
		if err != nil {
			return err
		}
		_, err = tx.Profiles().CreateProfile(ctx, domain.Profile{UserID: created.ID})
		return err
	})
	if err != nil {
		return false, err
	}

	l.Info("admin account created", slog.String("login", in.Login))
	return true, nil
}
