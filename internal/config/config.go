// Package config reads the process settings from the environment, optionally
// seeded by .env files.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type (
	// Seconds parses a whole number of seconds, anything that is not a
	// positive integer becomes zero. Values too large for time.Duration
	// are clamped to the largest whole number of seconds it holds.
	Seconds time.Duration

	Config struct {
		AuthType         string   `env:"AUTH_TYPE" envDefault:"none"`
		SessionDuration  Seconds  `env:"SESSION_DURATION" envDefault:"0"`
		SessionName      string   `env:"SESSION_NAME" envDefault:"session_id"`
		SessionStore     string   `env:"SESSION_STORE" envDefault:"memory"`
		SessionDBBackend string   `env:"SESSION_DB_BACKEND" envDefault:"sqlite"`
		Database         string   `env:"AUTHBOX_DB" envDefault:"authbox.db"`
		RedisURL         string   `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
		Host             string   `env:"API_HOST" envDefault:"0.0.0.0"`
		Port             int      `env:"API_PORT" envDefault:"5000"`
		LogLevel         string   `env:"LOG_LEVEL" envDefault:"info"`
		LogFormat        string   `env:"LOG_FORMAT" envDefault:"json"`
		PIIFields        []string `env:"PII_FIELDS" envSeparator:","`
	}
)

const (
	AuthNone       = "none"
	AuthBase       = "auth"
	AuthBasic      = "basic_auth"
	AuthSession    = "session_auth"
	AuthSessionExp = "session_exp_auth"
	AuthSessionDB  = "session_db_auth"
	StoreMemory    = "memory"
	StoreBigcache  = "bigcache"
	BackendSQLite  = "sqlite"
	BackendRedis   = "redis"
)

// maxSeconds is the longest duration time.Duration can hold
const maxSeconds = math.MaxInt64 / int64(time.Second)

var (
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

func (s *Seconds) UnmarshalText(text []byte) error {
	n, err := strconv.ParseInt(strings.TrimSpace(string(text)), 10, 64)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(strings.TrimSpace(string(text)), "-") {
		n = maxSeconds
	} else if err != nil || n < 0 {
		*s = 0
		return nil
	}
	if n > maxSeconds {
		n = maxSeconds
	}
	*s = Seconds(time.Duration(n) * time.Second)
	return nil
}

func (s Seconds) Duration() time.Duration {
	return time.Duration(s)
}

// Load reads envFiles (missing files are ignored) into the process
// environment and parses it. Variables already set win over file contents.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if f == "" {
			continue
		}
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("unable to load env file %v, cause %w", f, err)
		}
	}
	return parse(env.Options{})
}

// FromMap parses vars instead of the process environment.
func FromMap(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("unable to parse environment, cause %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.AuthType {
	case AuthNone, AuthBase, AuthBasic, AuthSession, AuthSessionExp, AuthSessionDB:
	default:
		return fmt.Errorf("%w: unknown AUTH_TYPE %q", ErrInvalidConfig, c.AuthType)
	}
	switch c.SessionStore {
	case StoreMemory, StoreBigcache:
	default:
		return fmt.Errorf("%w: unknown SESSION_STORE %q", ErrInvalidConfig, c.SessionStore)
	}
	switch c.SessionDBBackend {
	case BackendSQLite, BackendRedis:
	default:
		return fmt.Errorf("%w: unknown SESSION_DB_BACKEND %q", ErrInvalidConfig, c.SessionDBBackend)
	}
	if c.SessionName == "" {
		return fmt.Errorf("%w: SESSION_NAME cannot be empty", ErrInvalidConfig)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: API_PORT %v is out of range", ErrInvalidConfig, c.Port)
	}
	return nil
}

// EffectiveDuration is the lifetime sessions get under the configured
// strategy, session_auth never expires sessions.
func (c Config) EffectiveDuration() time.Duration {
	if c.AuthType == AuthSession {
		return 0
	}
	return c.SessionDuration.Duration()
}

func (c Config) Addr() string {
	return fmt.Sprintf("%v:%v", c.Host, c.Port)
}
