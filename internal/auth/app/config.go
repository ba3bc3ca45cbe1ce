package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/gallery/internal/auth/guard"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all environment-based configuration for the gallery auth
// service.
type Config struct {
	Env       string `env:"ENV" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	Port      int    `env:"PORT" envDefault:"8080"`

	// Algorithm selects the signing algorithm for the start-up key (EdDSA, ES256).
	Algorithm    string `env:"AUTH_ALGORITHM" envDefault:"EdDSA"`
	Issuer       string `env:"AUTH_ISSUER"`
	DatabaseFile string `env:"AUTH_DATABASE_FILE" envDefault:"gallery.db"`
	PepperFile   string `env:"AUTH_PEPPER_FILE" envDefault:"pepper"`

	LockoutScope    string        `env:"AUTH_LOCKOUT_SCOPE" envDefault:"global"`
	MaxAttempts     int           `env:"AUTH_MAX_ATTEMPTS" envDefault:"3"`
	LockoutDuration time.Duration `env:"AUTH_LOCKOUT_DURATION" envDefault:"10m"`
	LookupTimeout   time.Duration `env:"CREDENTIAL_LOOKUP_TIMEOUT" envDefault:"5s"`

	SecureCookies bool          `env:"AUTH_SECURE_COOKIES" envDefault:"false"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"30m"`

	// PolicyFile optionally replaces the built-in rule tables.
	PolicyFile string `env:"AUTH_POLICY_FILE"`

	// Bootstrap admin, created only while the user table is empty.
	BootstrapAdminUsername string `env:"AUTH_BOOTSTRAP_ADMIN_USERNAME"`
	BootstrapAdminPassword string `env:"AUTH_BOOTSTRAP_ADMIN_PASSWORD"`

	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"5m"`
	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
}

// LoadConfig reads configuration from the environment. A .env file in the
// working directory is loaded first when present.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// GuardConfig returns the lockout tuning.
func (c Config) GuardConfig() guard.Config {
	return guard.Config{MaxAttempts: c.MaxAttempts, LockDuration: c.LockoutDuration}
}

func (c Config) validate() error {
	switch c.Algorithm {
	case "EdDSA", "ES256":
	default:
		return fmt.Errorf("AUTH_ALGORITHM %q is not supported", c.Algorithm)
	}

	switch c.LockoutScope {
	case string(guard.ScopeGlobal), string(guard.ScopeIdentity):
	default:
		return fmt.Errorf("AUTH_LOCKOUT_SCOPE %q must be global or identity", c.LockoutScope)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT %d out of range", c.Port)
	}
	if c.MaxAttempts <= 0 {
		return errors.New("AUTH_MAX_ATTEMPTS must be positive")
	}
	if c.LockoutDuration <= 0 {
		return errors.New("AUTH_LOCKOUT_DURATION must be positive")
	}
	if (c.BootstrapAdminUsername == "") != (c.BootstrapAdminPassword == "") {
		return errors.New("AUTH_BOOTSTRAP_ADMIN_USERNAME and AUTH_BOOTSTRAP_ADMIN_PASSWORD must be set together")
	}
	return nil
}
