package config

import (
	"time"
)

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Graph: GraphConfig{
			URI:               "bolt://localhost:7687",
			Username:          "neo4j",
			Password:          "password",
			Database:          "neo4j",
			MaxConnections:    50,
			ConnectionTimeout: 30 * time.Second,
			QueryTimeout:      30 * time.Second,
		},
		Safety: SafetyConfig{
			CatalogPath:           "",
			RelationshipInference: true,
		},
		Analytics: AnalyticsConfig{
			ProjectionName: "research_network",
			DefaultLimit:   20,
			MinSimilarity:  0.1,
			DefaultKinds:   []string{"comprehensive", "community", "centrality"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
		},
	}
}
