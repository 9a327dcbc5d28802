package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/surplus360/internal/surplus/domain"
	"github.com/aussiebroadwan/surplus360/internal/surplus/metrics"
	"github.com/aussiebroadwan/surplus360/internal/surplus/store"
	"github.com/aussiebroadwan/surplus360/pkg/cryptox"
	"github.com/aussiebroadwan/surplus360/pkg/jwtx"
	"github.com/aussiebroadwan/surplus360/pkg/slogx"
)

// TokenCodec is the part of jwtx.Codec the authenticator needs.
type TokenCodec interface {
	jwtx.Signer
	ValidateKind(token string, kind jwtx.TokenKind) (jwtx.Claims, error)
}

// AuthService verifies credentials and mints tokens. It never writes to
// the store.
type AuthService struct {
	Store   store.Store
	Codec   TokenCodec
	Metrics *metrics.Metrics

	SessionTTL    time.Duration
	RememberMeTTL time.Duration
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// Authenticate resolves identifier (email when it contains "@", login
// otherwise), checks the password and issues a session token. Unknown
// accounts and wrong passwords both yield ErrInvalidCredentials; an inactive
// account is only reported after the password matched.
func (s *AuthService) Authenticate(ctx context.Context, identifier, password string, rememberMe bool) (domain.SessionToken, error) {
	user, err := s.verify(ctx, identifier, password)
	if err != nil {
		return domain.SessionToken{}, err
	}

	ttl := s.ttl(s.SessionTTL, jwtx.DefaultSessionTTL)
	if rememberMe {
		ttl = s.ttl(s.RememberMeTTL, jwtx.DefaultRememberMeTTL)
	}

	token, claims, err := s.Codec.Issue(jwtx.KindSession, subjectFor(user), ttl)
	if err != nil {
		return domain.SessionToken{}, err
	}
	s.Metrics.TokenIssued(string(jwtx.KindSession))

	slogx.FromContext(ctx).Info("session issued",
		slog.String("login", user.Login),
		slog.Bool("remember_me", rememberMe),
	)
	return domain.SessionToken{Token: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// IssuePair performs the same checks as Authenticate and returns an access
// token with a refresh token.
func (s *AuthService) IssuePair(ctx context.Context, identifier, password string) (domain.TokenPair, error) {
	user, err := s.verify(ctx, identifier, password)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return s.issuePair(ctx, user)
}

// Refresh exchanges a refresh token for a new pair. The account must still
// exist and be activated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.Codec.ValidateKind(refreshToken, jwtx.KindRefresh)
	if err != nil {
		s.Metrics.TokenRejected(jwtx.Reason(err))
		l.Info("refresh token rejected", slog.String("reason", jwtx.Reason(err)))
		return domain.TokenPair{}, err
	}

	user, err := s.Store.Users().GetUserByLogin(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("refresh for unknown account", slog.String("login", claims.Subject))
			return domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.TokenPair{}, err
	}
	if claims.UserID != nil && *claims.UserID != user.ID {
		// Login was freed and taken by a new account
		l.Warn("refresh token user id mismatch", slog.String("login", user.Login))
		return domain.TokenPair{}, ErrInvalidCredentials
	}
	if !user.Activated {
		return domain.TokenPair{}, ErrNotActivated
	}

	return s.issuePair(ctx, user)
}

func (s *AuthService) issuePair(ctx context.Context, user domain.User) (domain.TokenPair, error) {
	accessTTL := s.ttl(s.AccessTTL, jwtx.DefaultAccessTokenTTL)
	sub := subjectFor(user)

	access, _, err := s.Codec.Issue(jwtx.KindAccess, sub, accessTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, _, err := s.Codec.Issue(jwtx.KindRefresh, sub, s.ttl(s.RefreshTTL, jwtx.DefaultRefreshTokenTTL))
	if err != nil {
		return domain.TokenPair{}, err
	}
	s.Metrics.TokenIssued(string(jwtx.KindAccess))
	s.Metrics.TokenIssued(string(jwtx.KindRefresh))

	slogx.FromContext(ctx).Info("token pair issued", slog.String("login", user.Login))
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresIn: accessTTL}, nil
}

// verify runs lookup, password check and activation check in that order.
func (s *AuthService) verify(ctx context.Context, identifier, password string) (domain.User, error) {
	l := slogx.FromContext(ctx)
	identifier = strings.TrimSpace(identifier)

	user, err := s.lookup(ctx, identifier)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.Metrics.AuthAttempt("error")
			l.Error("credential lookup failed", slog.Any("err", err))
			return domain.User{}, err
		}
		// Keep the unknown-account path as slow as a wrong password
		cryptox.SpendVerification(password)
		s.Metrics.AuthAttempt("invalid_credentials")
		l.Info("authentication failed", slog.String("identifier", identifier), slog.String("kind", "unknown_account"))
		return domain.User{}, ErrInvalidCredentials
	}

	if !cryptox.PasswordMatches(password, user.PasswordHash) {
		s.Metrics.AuthAttempt("invalid_credentials")
		l.Info("authentication failed", slog.String("identifier", identifier), slog.String("kind", "bad_password"))
		return domain.User{}, ErrInvalidCredentials
	}

	if !user.Activated {
		s.Metrics.AuthAttempt("not_activated")
		l.Info("authentication failed", slog.String("identifier", identifier), slog.String("kind", "not_activated"))
		return domain.User{}, ErrNotActivated
	}

	s.Metrics.AuthAttempt("ok")
	return user, nil
}

func (s *AuthService) lookup(ctx context.Context, identifier string) (domain.User, error) {
	if identifier == "" {
		return domain.User{}, store.ErrNotFound
	}
	if strings.Contains(identifier, "@") {
		return s.Store.Users().GetUserByEmail(ctx, identifier)
	}
	return s.Store.Users().GetUserByLogin(ctx, strings.ToLower(identifier))
}

func (s *AuthService) ttl(v, def time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return def
}

func subjectFor(u domain.User) jwtx.Subject {
	id := u.ID
	return jwtx.Subject{Login: u.Login, UserID: &id, Roles: u.Authorities}
}
