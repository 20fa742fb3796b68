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

	"github.com/xeniter/romygo/core/metrics"
	"github.com/xeniter/romygo/core/schedule"
	"github.com/xeniter/romygo/infra/mqtt"
)

// Config is the full daemon configuration tree as loaded from the file
// given on the command line.
type Config struct {
	Robot     RobotConfig     `json:"robot"`
	Discovery DiscoveryConfig `json:"discovery"`
	Watcher   WatcherConfig   `json:"watcher"`
	API       APIConfig       `json:"api"`
	Metrics   metrics.Config  `json:"metrics"`
	MQTT      mqtt.Config     `json:"mqtt"`
	History   HistoryConfig   `json:"history"`
	Schedule  schedule.Config `json:"schedule"`
	Sentry    SentryConfig    `json:"sentry"`
}

func parserFor(path string) (koanf.Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
}

// Load reads the configuration file at path, applies ROMY_* environment
// overrides, fills defaults and validates every section.
func Load(path string) (*Config, error) {
	parser, err := parserFor(path)
	if err != nil {
		return nil, err
	}
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides, e.g. ROMY_ROBOT__PASSWORD.
	if err := k.Load(env.Provider("ROMY_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "romy_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Robot.SetDefaults()
	cfg.Discovery.SetDefaults()
	cfg.API.SetDefaults()
	cfg.History.SetDefaults()
	if err := cfg.Robot.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Discovery.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.History.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Schedule.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Sentry.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
