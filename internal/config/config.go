// Package config loads, interpolates, and validates the lattice
// configuration file.
package config

import (
	"time"
)

// Config is the root configuration for the lattice platform.
type Config struct {
	Graph     GraphConfig     `mapstructure:"graph" yaml:"graph" validate:"required"`
	Safety    SafetyConfig    `mapstructure:"safety" yaml:"safety"`
	Analytics AnalyticsConfig `mapstructure:"analytics" yaml:"analytics"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics" yaml:"metrics"`
}

// GraphConfig contains graph engine connection settings.
type GraphConfig struct {
	URI               string        `mapstructure:"uri" yaml:"uri" validate:"required"`
	Username          string        `mapstructure:"username" yaml:"username" validate:"required"`
	Password          string        `mapstructure:"password" yaml:"password" validate:"required"`
	Database          string        `mapstructure:"database" yaml:"database"`
	MaxConnections    int           `mapstructure:"max_connections" yaml:"max_connections" validate:"min=1,max=500"`
	ConnectionTimeout time.Duration `mapstructure:"connection_timeout" yaml:"connection_timeout" validate:"min=1s"`
	QueryTimeout      time.Duration `mapstructure:"query_timeout" yaml:"query_timeout" validate:"min=1s"`
}

// SafetyConfig contains query gateway settings.
type SafetyConfig struct {
	// CatalogPath points at an external schema catalog file. Empty means
	// the embedded default catalog.
	CatalogPath string `mapstructure:"catalog_path" yaml:"catalog_path"`
	// RelationshipInference rewrites abstract relationship patterns into
	// their concrete path expansions before validation.
	RelationshipInference bool `mapstructure:"relationship_inference" yaml:"relationship_inference"`
}

// AnalyticsConfig contains analytics orchestration settings.
type AnalyticsConfig struct {
	ProjectionName string   `mapstructure:"projection_name" yaml:"projection_name" validate:"required"`
	DefaultLimit   int      `mapstructure:"default_limit" yaml:"default_limit" validate:"min=1,max=1000"`
	MinSimilarity  float64  `mapstructure:"min_similarity" yaml:"min_similarity" validate:"min=0,max=1"`
	DefaultKinds   []string `mapstructure:"default_kinds" yaml:"default_kinds"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=json text"`
}

// MetricsConfig contains Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	Port    int  `mapstructure:"port" yaml:"port" validate:"min=0,max=65535"`
}
