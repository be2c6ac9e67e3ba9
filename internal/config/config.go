package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Timer     TimerConfig     `yaml:"timer"`
	Journal   JournalConfig   `yaml:"journal"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// TimerConfig carries the engine's duration defaults. Zero values fall
// back to the engine's own defaults.
type TimerConfig struct {
	TickIntervalMS     int `yaml:"tick_interval_ms"`
	CountdownSeconds   int `yaml:"countdown_seconds"`
	CueFromSeconds     int `yaml:"cue_from_seconds"`
	DefaultRepSeconds  int `yaml:"default_rep_seconds"`
	DefaultWorkSeconds int `yaml:"default_work_seconds"`
	DefaultRestSeconds int `yaml:"default_rest_seconds"`
	MinRestSeconds     int `yaml:"min_rest_seconds"`
}

// TickInterval converts the configured tick cadence to a duration.
func (t TimerConfig) TickInterval() time.Duration {
	return time.Duration(t.TickIntervalMS) * time.Millisecond
}

// JournalConfig locates the local session flight-recorder database.
type JournalConfig struct {
	Dir string `yaml:"dir"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Env vars use the prefix SHREDLY_ and underscore-separated
// paths:
//
//	SHREDLY_SERVER_HOST, SHREDLY_SERVER_PORT,
//	SHREDLY_DB_HOST, SHREDLY_DB_PORT, SHREDLY_DB_NAME,
//	SHREDLY_DB_USER, SHREDLY_DB_PASSWORD, SHREDLY_DB_SSLMODE,
//	SHREDLY_AUTH_API_KEY, SHREDLY_JOURNAL_DIR
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SHREDLY_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SHREDLY_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("SHREDLY_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("SHREDLY_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("SHREDLY_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("SHREDLY_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("SHREDLY_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("SHREDLY_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("SHREDLY_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("SHREDLY_JOURNAL_DIR"); v != "" {
		cfg.Journal.Dir = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Timer.TickIntervalMS < 0 {
		return fmt.Errorf("timer.tick_interval_ms must not be negative")
	}
	return nil
}
