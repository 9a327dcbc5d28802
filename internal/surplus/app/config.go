package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/surplus360/pkg/jwtx"
	"github.com/spf13/viper"
)

const (
	SecretModeEphemeral  = "ephemeral"
	SecretModePersistent = "persistent"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)

	DBDriver   string // sqlite or postgres (default: sqlite)
	DBURL      string // SQLite file or postgres DSN (default: surplus.db)
	PepperFile string // Password pepper file, created on first start (default: pepper)

	Issuer        string // iss claim of every token (default: surplus360)
	SecretMode    string // ephemeral or persistent (default: ephemeral)
	Secret        string // Optional: base64 HMAC secret, overrides SecretMode
	MasterKeyPath string // Optional: master key file sealing persisted secrets

	SessionTTL    time.Duration
	RememberMeTTL time.Duration
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	RequireActivation    bool   // New accounts start inactive (default: true)
	ExposeActivationKeys bool   // Return activation keys from POST /register (default: false)
	PhoneRegion          string // Region for phone numbers without a country code (default: AU)

	AdminLogin    string // Administrator seeded on start (default: admin)
	AdminEmail    string // (default: admin@surplus360.local)
	AdminPassword string // Optional: no administrator is seeded when empty
}

// envBindings maps config keys to the environment variables that set them.
var envBindings = map[string]string{
	"env":                   "ENV",
	"log.level":             "LOG_LEVEL",
	"log.format":            "LOG_FORMAT",
	"server.port":           "PORT",
	"server.shutdown_grace": "SHUTDOWN_GRACE_PERIOD",
	"housekeeping.interval": "HOUSEKEEPING_INTERVAL",

	"db.driver":   "SURPLUS_DB_DRIVER",
	"db.url":      "SURPLUS_DB_URL",
	"pepper_file": "SURPLUS_PEPPER_FILE",

	"jwt.issuer":          "SURPLUS_ISSUER",
	"jwt.secret_mode":     "SURPLUS_SECRET_MODE",
	"jwt.secret":          "SURPLUS_JWT_SECRET",
	"jwt.master_key_path": "SURPLUS_MASTER_KEY_PATH",
	"jwt.session_ttl":     "SURPLUS_SESSION_TTL",
	"jwt.remember_me_ttl": "SURPLUS_REMEMBER_ME_TTL",
	"jwt.access_ttl":      "SURPLUS_ACCESS_TTL",
	"jwt.refresh_ttl":     "SURPLUS_REFRESH_TTL",

	"account.require_activation":     "SURPLUS_REQUIRE_ACTIVATION",
	"account.expose_activation_keys": "SURPLUS_EXPOSE_ACTIVATION_KEYS",
	"account.phone_region":           "SURPLUS_PHONE_REGION",

	"admin.login":    "SURPLUS_ADMIN_LOGIN",
	"admin.email":    "SURPLUS_ADMIN_EMAIL",
	"admin.password": "SURPLUS_ADMIN_PASSWORD",
}

// LoadConfig reads surplus.yaml (from the working directory or ./configs)
// when present and lets the environment override it.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetConfigName("surplus")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	return loadConfig(v)
}

func loadConfig(v *viper.Viper) (Config, error) {
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		// No file: environment and defaults only
	}

	cfg := Config{
		Env:                  v.GetString("env"),
		LogLevel:             v.GetString("log.level"),
		LogFormat:            v.GetString("log.format"),
		Port:                 v.GetInt("server.port"),
		ShutdownGracePeriod:  v.GetDuration("server.shutdown_grace"),
		HousekeepingInterval: v.GetDuration("housekeeping.interval"),

		DBDriver:   strings.ToLower(v.GetString("db.driver")),
		DBURL:      v.GetString("db.url"),
		PepperFile: v.GetString("pepper_file"),

		Issuer:        v.GetString("jwt.issuer"),
		SecretMode:    strings.ToLower(v.GetString("jwt.secret_mode")),
		Secret:        v.GetString("jwt.secret"),
		MasterKeyPath: v.GetString("jwt.master_key_path"),
		SessionTTL:    v.GetDuration("jwt.session_ttl"),
		RememberMeTTL: v.GetDuration("jwt.remember_me_ttl"),
		AccessTTL:     v.GetDuration("jwt.access_ttl"),
		RefreshTTL:    v.GetDuration("jwt.refresh_ttl"),

		RequireActivation:    v.GetBool("account.require_activation"),
		ExposeActivationKeys: v.GetBool("account.expose_activation_keys"),
		PhoneRegion:          strings.ToUpper(v.GetString("account.phone_region")),

		AdminLogin:    v.GetString("admin.login"),
		AdminEmail:    v.GetString("admin.email"),
		AdminPassword: v.GetString("admin.password"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_grace", 10*time.Second)
	v.SetDefault("housekeeping.interval", time.Hour)

	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.url", "surplus.db")
	v.SetDefault("pepper_file", "pepper")

	v.SetDefault("jwt.issuer", "surplus360")
	v.SetDefault("jwt.secret_mode", SecretModeEphemeral)
	v.SetDefault("jwt.session_ttl", jwtx.DefaultSessionTTL)
	v.SetDefault("jwt.remember_me_ttl", jwtx.DefaultRememberMeTTL)
	v.SetDefault("jwt.access_ttl", jwtx.DefaultAccessTokenTTL)
	v.SetDefault("jwt.refresh_ttl", jwtx.DefaultRefreshTokenTTL)

	v.SetDefault("account.require_activation", true)
	v.SetDefault("account.expose_activation_keys", false)
	v.SetDefault("account.phone_region", "AU")

	v.SetDefault("admin.login", "admin")
	v.SetDefault("admin.email", "admin@surplus360.local")
}

// Validate rejects settings the application cannot start with.
func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unknown database driver %q", c.DBDriver)
	}
	switch c.SecretMode {
	case SecretModeEphemeral, SecretModePersistent:
	default:
		return fmt.Errorf("unknown secret mode %q", c.SecretMode)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	for name, ttl := range map[string]time.Duration{
		"session":     c.SessionTTL,
		"remember me": c.RememberMeTTL,
		"access":      c.AccessTTL,
		"refresh":     c.RefreshTTL,
	} {
		if ttl <= 0 {
			return fmt.Errorf("%s ttl must be positive", name)
		}
	}
	if c.Issuer == "" {
		return errors.New("issuer must not be empty")
	}
	return nil
}
