// Package config loads server configuration from an optional YAML file and
// ATTEND_* environment variables, env taking precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/clockwork/attendance-engine/attendance"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	DB     DBConfig     `mapstructure:"db"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Port         int      `mapstructure:"port"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type DBConfig struct {
	// Path to the SQLite database file; ":memory:" for ephemeral runs.
	Path string `mapstructure:"path"`
}

// AuthConfig is the static allow-list: only these user ids may invoke the
// API. Empty means open access (development).
type AuthConfig struct {
	AuthorizedIDs []int64 `mapstructure:"authorized_ids"`
}

type LogConfig struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `mapstructure:"level"`
	// Development switches to the human-readable console encoder.
	Development bool `mapstructure:"development"`
}

// Load reads configuration. path may name a YAML file; when empty, only
// defaults and environment variables apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allow_origins", []string{"http://localhost:5173"})
	v.SetDefault("db.path", "attendance.db")
	v.SetDefault("auth.authorized_ids", []int64{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	v.SetEnvPrefix("ATTEND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Authorized reports whether the user id is on the allow-list. An empty
// list authorizes everyone.
func (c *AuthConfig) Authorized(id attendance.UserID) bool {
	if len(c.AuthorizedIDs) == 0 {
		return true
	}
	for _, a := range c.AuthorizedIDs {
		if attendance.UserID(a) == id {
			return true
		}
	}
	return false
}
