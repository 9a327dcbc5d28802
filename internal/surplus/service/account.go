package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aussiebroadwan/surplus360/internal/surplus/domain"
	"github.com/aussiebroadwan/surplus360/internal/surplus/store"
	"github.com/aussiebroadwan/surplus360/pkg/cryptox"
	"github.com/aussiebroadwan/surplus360/pkg/slogx"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"
)

// Logins may not contain "@" so that an identifier is never ambiguous
// between login and email.
var loginPattern = regexp.MustCompile(`^[_.A-Za-z0-9-]+$`)

// DefaultPhoneRegion is used to parse phone numbers without a country code.
const DefaultPhoneRegion = "AU"

type AccountService struct {
	Store store.Store

	// RequireActivation creates accounts inactive with an activation key.
	RequireActivation bool

	// PhoneRegion overrides DefaultPhoneRegion.
	PhoneRegion string
}

type RegisterInput struct {
	Login       string `json:"login"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	LangKey     string `json:"langKey"`
	Phone       string `json:"phone"`
	Location    string `json:"location"`
	CompanyName string `json:"companyName"`
}

func (in RegisterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Login, validation.Required, validation.Length(1, 50), validation.Match(loginPattern)),
		validation.Field(&in.Email, validation.Required, validation.Length(5, 254), is.Email),
		validation.Field(&in.Password, validation.Required, validation.Length(4, 100)),
		validation.Field(&in.FirstName, validation.Length(0, 50)),
		validation.Field(&in.LastName, validation.Length(0, 50)),
		validation.Field(&in.LangKey, validation.Length(2, 10)),
		validation.Field(&in.Location, validation.Length(0, 100)),
		validation.Field(&in.CompanyName, validation.Length(0, 100)),
	)
}

// Registration is the outcome of Register. ActivationKey is set only when
// activation is required; delivering it to the user is up to the caller.
type Registration struct {
	User          domain.User
	Profile       domain.Profile
	ActivationKey string
}

// Register creates a credential record and its profile in one transaction.
// A taken login or email yields an error wrapping ErrConflict and nothing
// is written.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (Registration, error) {
	l := slogx.FromContext(ctx)

	in.Login = strings.ToLower(strings.TrimSpace(in.Login))
	in.Email = strings.TrimSpace(in.Email)
	if err := newValidationError(in.Validate()); err != nil {
		return Registration{}, err
	}

	phone, err := s.normalizePhone(in.Phone)
	if err != nil {
		return Registration{}, err
	}

	users := s.Store.Users()
	if taken, err := users.ExistsByLogin(ctx, in.Login); err != nil {
		return Registration{}, err
	} else if taken {
		l.Info("registration rejected", slog.String("login", in.Login), slog.String("kind", "login_taken"))
		return Registration{}, ErrLoginAlreadyUsed
	}
	if taken, err := users.ExistsByEmail(ctx, in.Email); err != nil {
		return Registration{}, err
	} else if taken {
		l.Info("registration rejected", slog.String("login", in.Login), slog.String("kind", "email_taken"))
		return Registration{}, ErrEmailAlreadyUsed
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return Registration{}, err
	}

	user := domain.User{
		Login:        in.Login,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		LangKey:      in.LangKey,
		Activated:    !s.RequireActivation,
		Authorities:  []string{domain.RoleUser},
	}
	if user.LangKey == "" {
		user.LangKey = domain.DefaultLangKey
	}

	var out Registration
	if s.RequireActivation {
		key, fingerprint, err := cryptox.NewActivationKey()
		if err != nil {
			return Registration{}, err
		}
		out.ActivationKey = key
		user.ActivationKey = fingerprint
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		created, err := tx.Users().CreateUser(ctx, user)
		if err != nil {
			return err
		}
		profile, err := tx.Profiles().CreateProfile(ctx, domain.Profile{
			UserID:      created.ID,
			Phone:       phone,
			Location:    strings.TrimSpace(in.Location),
			CompanyName: strings.TrimSpace(in.CompanyName),
		})
		if err != nil {
			return err
		}
		out.User, out.Profile = created, profile
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost a race against a concurrent registration
			return Registration{}, fmt.Errorf("%w: login or email already used", ErrConflict)
		}
		return Registration{}, err
	}

	l.Info("account registered",
		slog.Int64("user_id", out.User.ID),
		slog.String("login", out.User.Login),
		slog.Bool("activated", out.User.Activated),
	)
	return out, nil
}

// Activate enables the account holding key.
func (s *AccountService) Activate(ctx context.Context, key string) (domain.User, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.User{}, ErrNotFound
	}

	var user domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().GetUserByActivationKey(ctx, cryptox.FingerprintToken(key))
		if err != nil {
			return err
		}
		if err := tx.Users().ActivateUser(ctx, u.ID); err != nil {
			return err
		}
		u.Activated, u.ActivationKey = true, ""
		user = u
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("account activated", slog.String("login", user.Login))
	return user, nil
}

// GetAccount loads the caller's own credential record.
func (s *AccountService) GetAccount(ctx context.Context, id domain.Identity) (domain.User, error) {
	u, err := s.Store.Users().GetUserByLogin(ctx, id.Login)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

// GetProfile loads the caller's profile.
func (s *AccountService) GetProfile(ctx context.Context, id domain.Identity) (domain.Profile, error) {
	p, err := s.Store.Profiles().GetProfileByUserID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Profile{}, ErrNotFound
		}
		return domain.Profile{}, err
	}
	return p, nil
}

// normalizePhone returns raw in E.164 form, or "" when raw is empty.
func (s *AccountService) normalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	region := s.PhoneRegion
	if region == "" {
		region = DefaultPhoneRegion
	}
	num, err := phonenumbers.Parse(raw, region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return "", fieldError("phone", "must be a valid phone number")
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
