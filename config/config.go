// Package config loads application configuration from config/config.yaml,
// a .env file and EVENTADMIN_* environment variables.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

type ServerConfig struct {
	Addr         string `mapstructure:"addr"`
	Mode         string `mapstructure:"mode"`
	Env          string `mapstructure:"environment"`
	PublicURL    string `mapstructure:"public_url"`
	TemplatesDir string `mapstructure:"templates_dir"`
	StaticDir    string `mapstructure:"static_dir"`
}

// APIConfig points at the event-management REST backend.
type APIConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
}

type SessionConfig struct {
	Name   string `mapstructure:"name"`
	Secret string `mapstructure:"secret"`
	MaxAge int    `mapstructure:"max_age"`
	Secure bool   `mapstructure:"secure"`
}

type LogConfig struct {
	Dir string `mapstructure:"dir"`
}

type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

// DefaultSessionSecret is the development-only cookie secret.
const DefaultSessionSecret = "change-me-in-production"

var (
	ErrDefaultSecret     = errors.New("session.secret must be set in production (EVENTADMIN_SESSION_SECRET)")
	ErrHeartbeatInterval = errors.New("api.heartbeat_interval must be positive")
)

// IsProduction reports whether the server runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.public_url", "http://localhost:8080")
	v.SetDefault("server.templates_dir", "templates")
	v.SetDefault("server.static_dir", "static")

	v.SetDefault("api.base_url", "http://localhost:8000/api/")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("api.heartbeat_interval", 30*time.Second)

	v.SetDefault("session.name", "eventadmin")
	v.SetDefault("session.secret", DefaultSessionSecret)
	v.SetDefault("session.max_age", 86400*7)
	v.SetDefault("session.secure", false)

	v.SetDefault("log.dir", "logs")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", "EventAdmin")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "event-admin")
}

// LoadConfig builds a viper instance with defaults, the optional yaml file
// found under paths, and environment overrides. A missing file is not an
// error; a malformed one is.
func LoadConfig(paths ...string) (*viper.Viper, error) {
	// .env is optional and never overrides variables already exported.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if len(paths) == 0 {
		paths = []string{"./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("EVENTADMIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	return v, nil
}

// ParseConfig decodes v into a Config and normalizes the API base URL so
// relative endpoint paths resolve beneath it. Production refuses the
// default session secret.
func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	if c.API.BaseURL != "" && !strings.HasSuffix(c.API.BaseURL, "/") {
		c.API.BaseURL += "/"
	}
	if c.API.HeartbeatInterval <= 0 {
		return nil, ErrHeartbeatInterval
	}
	if c.IsProduction() && (c.Session.Secret == "" || c.Session.Secret == DefaultSessionSecret) {
		return nil, ErrDefaultSecret
	}
	return &c, nil
}

// Load is LoadConfig followed by ParseConfig.
func Load(paths ...string) (*Config, error) {
	v, err := LoadConfig(paths...)
	if err != nil {
		return nil, err
	}
	return ParseConfig(v)
}
