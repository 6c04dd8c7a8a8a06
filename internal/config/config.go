// Package config provides configuration management for the keiba-ev ticket engine.
package config

import (
	"fmt"
	"time"

	"github.com/yourusername/keiba-ev/internal/betting"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Betting  BettingConfig  `mapstructure:"betting" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache" validate:"required"`
	History  HistoryConfig  `mapstructure:"history" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// BettingConfig represents stake rules and field limits
type BettingConfig struct {
	MinStake  int `mapstructure:"min_stake" validate:"required,stakeunit"`
	StakeUnit int `mapstructure:"stake_unit" validate:"required,stakeunit"`
	MaxHorses int `mapstructure:"max_horses" validate:"required,min=2,max=28"`
}

// CacheConfig represents the combination cache configuration
type CacheConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	TTLSeconds int  `mapstructure:"ttl_seconds" validate:"required,gt=0"`
	MaxSize    int  `mapstructure:"max_size" validate:"required,gt=0"`
}

// HistoryConfig represents purchase history storage configuration. Path is
// the SQLite database file used by the sqlite backend.
type HistoryConfig struct {
	Backend string `mapstructure:"backend" validate:"required,backend"`
	Path    string `mapstructure:"path"`
	Limit   int    `mapstructure:"limit" validate:"required,gt=0"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
}

// MetricsConfig represents metrics export configuration. Metrics are written
// in the Prometheus text format to Textfile for a node exporter to collect.
type MetricsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Textfile string `mapstructure:"textfile"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// UsesPostgres reports whether purchase history is stored in PostgreSQL
func (c *Config) UsesPostgres() bool {
	return c.History.Backend == HistoryBackendPostgres
}

// UsesSQLite reports whether purchase history is stored in a local SQLite file
func (c *Config) UsesSQLite() bool {
	return c.History.Backend == HistoryBackendSQLite
}

// StakeRules converts the betting section into engine stake rules
func (c *Config) StakeRules() betting.StakeRules {
	return betting.StakeRules{
		MinStake:  c.Betting.MinStake,
		StakeUnit: c.Betting.StakeUnit,
	}
}

// CacheTTL returns the cache TTL as a duration
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
