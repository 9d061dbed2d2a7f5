package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ferdiebergado/roomkit/internal/pkg/env"
	timex "github.com/ferdiebergado/roomkit/internal/pkg/time"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"
)

type App struct {
	Env      string `json:"env,omitempty" env:"ENV"`
	Key      string `json:"-" env:"APP_KEY"`
	URL      string `json:"url,omitempty" env:"APP_URL"`
	LogLevel string `json:"log_level,omitempty" env:"LOG_LEVEL"`
}

func (a *App) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("env", a.Env),
		slog.String("url", a.URL),
		slog.String("log_level", a.LogLevel),
	)
}

type Server struct {
	Port            int            `json:"port,omitempty" env:"PORT"`
	ReadTimeout     timex.Duration `json:"read_timeout,omitempty"`
	WriteTimeout    timex.Duration `json:"write_timeout,omitempty"`
	IdleTimeout     timex.Duration `json:"idle_timeout,omitempty"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout,omitempty"`
	MaxBodyBytes    int64          `json:"max_body_bytes,omitempty"`
}

type DB struct {
	Driver          string         `json:"driver,omitempty"`
	Host            string         `json:"host,omitempty" env:"DB_HOST"`
	Port            string         `json:"port,omitempty" env:"DB_PORT"`
	User            string         `json:"-" env:"DB_USER"`
	Pass            string         `json:"-" env:"DB_PASS"`
	Name            string         `json:"name,omitempty" env:"DB_NAME"`
	SSLMode         string         `json:"ssl_mode,omitempty" env:"DB_SSLMODE"`
	MaxOpenConns    int            `json:"max_open_conns,omitempty"`
	MaxIdleConns    int            `json:"max_idle_conns,omitempty"`
	ConnMaxIdleTime timex.Duration `json:"conn_max_idle_time,omitempty"`
	ConnMaxLifetime timex.Duration `json:"conn_max_lifetime,omitempty"`
	PingTimeout     timex.Duration `json:"ping_timeout,omitempty"`
}

func (d *DB) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("driver", d.Driver),
		slog.String("host", d.Host),
		slog.String("port", d.Port),
		slog.String("name", d.Name),
		slog.Int("max_open_conns", d.MaxOpenConns),
	)
}

type Redis struct {
	Addr         string         `json:"addr,omitempty" env:"REDIS_ADDR"`
	Password     string         `json:"-" env:"REDIS_PASSWORD"`
	DB           int            `json:"db,omitempty" env:"REDIS_DB"`
	PoolSize     int            `json:"pool_size,omitempty"`
	DialTimeout  timex.Duration `json:"dial_timeout,omitempty"`
	ReadTimeout  timex.Duration `json:"read_timeout,omitempty"`
	WriteTimeout timex.Duration `json:"write_timeout,omitempty"`
}

func (r *Redis) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", r.Addr),
		slog.Int("db", r.DB),
	)
}

type Session struct {
	CookieName string         `json:"cookie_name,omitempty"`
	TTL        timex.Duration `json:"ttl,omitempty" env:"SESSION_TTL"`
	IDLength   uint32         `json:"id_length,omitempty"`
}

type JWT struct {
	JTILength uint32 `json:"jti_length,omitempty"`
	Issuer    string `json:"issuer,omitempty"`
}

type Email struct {
	Templates string `json:"templates,omitempty"`
	Layout    string `json:"layout,omitempty"`
	Sender    string `json:"sender,omitempty" env:"EMAIL_SENDER"`
}

type SMTP struct {
	Host     string `json:"-" env:"SMTP_HOST"`
	Port     int    `json:"-" env:"SMTP_PORT"`
	User     string `json:"-" env:"SMTP_USER"`
	Password string `json:"-" env:"SMTP_PASS"`
}

type Argon2 struct {
	Memory     uint32 `json:"memory,omitempty"`
	Iterations uint32 `json:"iterations,omitempty"`
	Threads    uint8  `json:"threads,omitempty"`
	SaltLength uint32 `json:"salt_length,omitempty"`
	KeyLength  uint32 `json:"key_length,omitempty"`
}

type CORS struct {
	AllowedOrigins []string       `json:"allowed_origins,omitempty" env:"CORS_ALLOWED_ORIGINS"`
	AllowedMethods []string       `json:"allowed_methods,omitempty"`
	AllowedHeaders []string       `json:"allowed_headers,omitempty"`
	MaxAge         timex.Duration `json:"max_age,omitempty"`
}

type RateLimit struct {
	// Rate is the number of requests per second a single client may sustain.
	Rate  float64 `json:"rate,omitempty"`
	Burst int     `json:"burst,omitempty"`
	// TTL is how long an idle client keeps its limiter.
	TTL timex.Duration `json:"ttl,omitempty"`
	// TrustProxy keys clients on X-Real-IP or X-Forwarded-For. Enable only behind a reverse proxy that sets them.
	TrustProxy bool `json:"trust_proxy,omitempty" env:"TRUST_PROXY"`
}

type Verification struct {
	// SecretLength is the number of random bytes, hex encoded.
	SecretLength uint32 `json:"secret_length,omitempty"`
	// TTL of zero means secrets never expire.
	TTL timex.Duration `json:"ttl" env:"VERIFICATION_TTL"`
}

type Reset struct {
	TTL timex.Duration `json:"ttl,omitempty" env:"RESET_TTL"`
}

type Config struct {
	App          *App          `json:"app,omitempty"`
	Server       *Server       `json:"server,omitempty"`
	DB           *DB           `json:"db,omitempty"`
	Redis        *Redis        `json:"redis,omitempty"`
	Session      *Session      `json:"session,omitempty"`
	JWT          *JWT          `json:"jwt,omitempty"`
	Email        *Email        `json:"email,omitempty"`
	SMTP         *SMTP         `json:"-"`
	Argon2       *Argon2       `json:"argon2,omitempty"`
	CORS         *CORS         `json:"cors,omitempty"`
	RateLimit    *RateLimit    `json:"rate_limit,omitempty"`
	Verification *Verification `json:"verification,omitempty"`
	Reset        *Reset        `json:"reset,omitempty"`
}

func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("app", c.App),
		slog.Any("server", c.Server),
		slog.Any("db", c.DB),
		slog.Any("redis", c.Redis),
		slog.Any("session", c.Session),
		slog.Any("jwt", c.JWT),
		slog.Any("email", c.Email),
		slog.Any("argon2", c.Argon2),
		slog.Any("cors", c.CORS),
		slog.Any("rate_limit", c.RateLimit),
		slog.Any("verification", c.Verification),
		slog.Any("reset", c.Reset),
	)
}

var ErrMissingKey = errors.New("config: APP_KEY is not set")

// Load reads the json config at cfgFile and overrides it with environment variables.
func Load(cfgFile string) (*Config, error) {
	slog.Info("Loading config...")
	cfg, err := parseCfgFile(cfgFile)
	if err != nil {
		return nil, err
	}

	if err := env.OverrideStruct(cfg); err != nil {
		return nil, fmt.Errorf("override config with env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	slog.Info("Config loaded.", "config_file", cfgFile, slog.Any("config", cfg))
	return cfg, nil
}

func parseCfgFile(cfgFile string) (*Config, error) {
	cfgFile = filepath.Clean(cfgFile)
	configFile, err := os.ReadFile(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", cfgFile, err)
	}

	var cfg Config
	if err := json.Unmarshal(configFile, &cfg); err != nil {
		return nil, fmt.Errorf("decode json config %s: %w", cfgFile, err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.App == nil || c.App.Key == "" {
		return ErrMissingKey
	}

	c.App.URL = strings.TrimSuffix(c.App.URL, "/")
	if c.App.URL == "" {
		return errors.New("config: app url is not set")
	}

	if c.Verification != nil && c.Verification.TTL.Duration < 0 {
		return errors.New("config: verification ttl must not be negative")
	}

	return nil
}
