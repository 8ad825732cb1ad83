package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/graft/internal/logging"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/registry"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// FileNames are the config files looked up by Find, in order.
var FileNames = []string{".graft.yaml", ".graft.yml", ".graft.json"}

// DefaultDebounce is the quiet period the file watcher waits for before syncing.
const DefaultDebounce = 150 * time.Millisecond

// RuleConfig declares a template generator rule.
type RuleConfig struct {
	Name     string `mapstructure:"name" json:"name"`
	Pattern  string `mapstructure:"pattern" json:"pattern"`
	Template string `mapstructure:"template" json:"template"`
}

// Config holds the project settings.
type Config struct {
	Marker        string               `mapstructure:"marker" json:"marker"`
	RegionName    string               `mapstructure:"region_name" json:"region_name"`
	OrphanPolicy  domain.OrphanPolicy  `mapstructure:"orphan_policy" json:"orphan_policy"`
	NoMatchPolicy domain.NoMatchPolicy `mapstructure:"no_match_policy" json:"no_match_policy"`
	HistoryLimit  int                  `mapstructure:"history_limit" json:"history_limit"`
	Debounce      time.Duration        `mapstructure:"debounce" json:"debounce"`
	LogLevel      string               `mapstructure:"log_level" json:"log_level"`
	LogFormat     string               `mapstructure:"log_format" json:"log_format"`
	Generators    []RuleConfig         `mapstructure:"generators" json:"generators"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	conv := domain.DefaultConventions()
	return Config{
		Marker:        conv.Marker,
		RegionName:    conv.RegionName,
		OrphanPolicy:  domain.OrphanKeep,
		NoMatchPolicy: domain.NoMatchPreserve,
		HistoryLimit:  256,
		Debounce:      DefaultDebounce,
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// Find returns the first config file present in dir, or "" if there is none.
func Find(dir string) string {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Load reads a YAML or JSON config file. A missing file yields Default().
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	raw := make(map[string]any)
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	cfg, err := Decode(raw)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// Decode applies raw settings over Default() and validates the result.
func Decode(raw map[string]any) (Config, error) {
	cfg := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.TextUnmarshallerHookFunc(),
		),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &cfg,
	})
	if err != nil {
		return Config{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings that decoding cannot.
func (c Config) Validate() error {
	if err := c.Conventions().Validate(); err != nil {
		return err
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("history_limit must be positive, got %d", c.HistoryLimit)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative, got %s", c.Debounce)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.LogFormat)
	}
	seen := make(map[string]bool)
	for i, rule := range c.Generators {
		if rule.Name == "" {
			return fmt.Errorf("generators[%d]: name is required", i)
		}
		if seen[rule.Name] {
			return fmt.Errorf("generators[%d]: duplicate name %q", i, rule.Name)
		}
		seen[rule.Name] = true
	}
	return nil
}

// Conventions returns the marker and region name.
func (c Config) Conventions() domain.Conventions {
	return domain.Conventions{Marker: c.Marker, RegionName: c.RegionName}
}

// Registry builds the generator: the built-in rules followed by the configured template rules.
func (c Config) Registry(logger *slog.Logger) (*registry.Registry, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	reg := registry.Default(registry.WithLogger(logger))
	for _, rc := range c.Generators {
		rule, err := registry.TemplateRule(rc.Name, rc.Pattern, rc.Template)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(rule); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Logger creates the logger described by LogLevel and LogFormat, writing to stderr.
func (c Config) Logger() *slog.Logger {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	if c.LogFormat == "json" {
		return logging.NewJSON(os.Stderr, level)
	}
	return logging.New(level)
}
