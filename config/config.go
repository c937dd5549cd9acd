// Package config loads the service configuration from JSON or YAML
// files with optional environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/prepsched/prepsched/core/plan"
	"github.com/prepsched/prepsched/infra/calendar"
	"github.com/prepsched/prepsched/infra/store"
)

// MetricsConfig defines settings for the metrics sinks.
type MetricsConfig struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *MetricsConfig) SetDefaults() {
	if c.PrometheusPort == "" {
		c.PrometheusPort = ":9090"
	}
}

// Config is the root configuration of the service.
type Config struct {
	Planner  plan.Config     `json:"planner"`
	Metrics  MetricsConfig   `json:"metrics"`
	Calendar calendar.Config `json:"calendar"`
	Store    store.Config    `json:"store"`
}

// Load reads the configuration file at path. Environment variables
// prefixed with PREP_ override file values, with "__" separating nested
// keys (PREP_PLANNER__TARGET_HOURS=35).
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("PREP_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "prep_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Planner.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Calendar.SetDefaults()
	cfg.Store.SetDefaults()
	if err := cfg.Planner.Validate(); err != nil {
		return nil, fmt.Errorf("planner config: %w", err)
	}
	if err := cfg.Store.Validate(); err != nil {
		return nil, fmt.Errorf("store config: %w", err)
	}
	return &cfg, nil
}
