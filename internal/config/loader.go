package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"github.com/scholarnet-ai/lattice/internal/types"
)

// Loader handles loading configuration from files.
type Loader interface {
	Load(path string) (*Config, error)
	LoadWithDefaults(path string) (*Config, error)
}

// viperLoader implements Loader using Viper.
type viperLoader struct {
	validator Validator
}

// NewLoader creates a new Loader instance.
func NewLoader(validator Validator) Loader {
	return &viperLoader{
		validator: validator,
	}
}

// Load loads configuration from the specified file path. Defaults fill
// fields the file omits; ${VAR_NAME} references in string values are
// interpolated from the environment before validation.
func (l *viperLoader) Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, types.WrapError(types.CONFIG_LOAD_FAILED,
			"failed to read config file", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, types.WrapError(types.CONFIG_PARSE_FAILED,
			"failed to unmarshal config", err)
	}

	interpolate(&cfg)

	if err := l.validator.Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadWithDefaults loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration.
func (l *viperLoader) LoadWithDefaults(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := l.validator.Validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return l.Load(path)
}

// setDefaults seeds viper so a partial file still unmarshals into a
// complete Config.
func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()

	v.SetDefault("graph.uri", defaults.Graph.URI)
	v.SetDefault("graph.username", defaults.Graph.Username)
	v.SetDefault("graph.password", defaults.Graph.Password)
	v.SetDefault("graph.database", defaults.Graph.Database)
	v.SetDefault("graph.max_connections", defaults.Graph.MaxConnections)
	v.SetDefault("graph.connection_timeout", defaults.Graph.ConnectionTimeout)
	v.SetDefault("graph.query_timeout", defaults.Graph.QueryTimeout)

	v.SetDefault("safety.catalog_path", defaults.Safety.CatalogPath)
	v.SetDefault("safety.relationship_inference", defaults.Safety.RelationshipInference)

	v.SetDefault("analytics.projection_name", defaults.Analytics.ProjectionName)
	v.SetDefault("analytics.default_limit", defaults.Analytics.DefaultLimit)
	v.SetDefault("analytics.min_similarity", defaults.Analytics.MinSimilarity)
	v.SetDefault("analytics.default_kinds", defaults.Analytics.DefaultKinds)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)

	v.SetDefault("metrics.enabled", defaults.Metrics.Enabled)
	v.SetDefault("metrics.port", defaults.Metrics.Port)
}

// interpolate applies ${VAR_NAME} environment interpolation to the string
// fields where secrets and host names typically live.
func interpolate(cfg *Config) {
	cfg.Graph.URI = interpolateString(cfg.Graph.URI)
	cfg.Graph.Username = interpolateString(cfg.Graph.Username)
	cfg.Graph.Password = interpolateString(cfg.Graph.Password)
	cfg.Graph.Database = interpolateString(cfg.Graph.Database)
	cfg.Safety.CatalogPath = interpolateString(cfg.Safety.CatalogPath)
	cfg.Analytics.ProjectionName = interpolateString(cfg.Analytics.ProjectionName)
	cfg.Logging.Level = interpolateString(cfg.Logging.Level)
	cfg.Logging.Format = interpolateString(cfg.Logging.Format)
}

var envVarRE = regexp.MustCompile(`\$\{([^}]+)\}`)

// interpolateString replaces ${VAR_NAME} with environment variable values.
// Unset variables leave the reference in place.
func interpolateString(s string) string {
	return envVarRE.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if envValue := os.Getenv(varName); envValue != "" {
			return envValue
		}
		return match
	})
}

// Path returns the default config file location, honoring LATTICE_CONFIG.
func Path() string {
	if p := os.Getenv("LATTICE_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "lattice.yaml"
	}
	return fmt.Sprintf("%s/.lattice/config.yaml", home)
}
