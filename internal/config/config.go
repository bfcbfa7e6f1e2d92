// Package config loads the harbor server configuration from a TOML file,
// applying defaults for anything unset.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/harborcms/harbor/pkg/errors"
)

// Config is the full server configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Mongo  MongoConfig  `toml:"mongo"`
	Redis  RedisConfig  `toml:"redis"`
}

// ServerConfig configures the HTTP frontend.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `toml:"addr"`
	// DefaultOrganization scopes requests that carry no organization header.
	DefaultOrganization string `toml:"default_organization"`
}

// MongoConfig configures the content backend. An empty URI runs the server
// against the in-memory demo dataset.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// RedisConfig configures the resolution cache. An empty URL disables
// caching.
type RedisConfig struct {
	URL       string `toml:"url"`
	KeyPrefix string `toml:"key_prefix"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:                ":8080",
			DefaultOrganization: "org-demo",
		},
		Mongo: MongoConfig{
			Database: "harbor",
		},
	}
}

// Load reads a TOML config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidConfig, "read config file")
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidConfig, "parse config file")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr must not be empty")
	}
	if c.Server.DefaultOrganization == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.default_organization must not be empty")
	}
	if c.Mongo.URI != "" && c.Mongo.Database == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "mongo.database required when mongo.uri is set")
	}
	return nil
}
