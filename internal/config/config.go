package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"prospectflow/internal/model"
)

const (
	appDir    = "prospectflow"
	envPrefix = "PROSPECTFLOW"
	// EnvConfig overrides the config file location.
	EnvConfig = "PROSPECTFLOW_CONFIG"
)

// Store manages the runtime configuration for the tracker.
type Store struct {
	path   string
	Config Data
}

// Data represents persisted user preferences.
type Data struct {
	Name     string      `mapstructure:"name"`
	Timezone string      `mapstructure:"timezone"`
	Storage  StorageData `mapstructure:"storage"`
	Log      LogData     `mapstructure:"log"`
	Stats    StatsData   `mapstructure:"stats"`
}

// StorageData locates the persisted document.
type StorageData struct {
	Path string `mapstructure:"path"`
	Key  string `mapstructure:"key"`
}

// LogData configures the log file.
type LogData struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// StatsData holds the counter trigger table.
type StatsData struct {
	Triggers []model.StatTrigger `mapstructure:"triggers"`
}

// Load reads the config from the default location, or from PROSPECTFLOW_CONFIG
// when set, creating defaults if needed. Env vars prefixed PROSPECTFLOW_
// override file values.
func Load() (*Store, error) {
	cfgPath := os.Getenv(EnvConfig)
	if cfgPath == "" {
		dir, err := resolveDir()
		if err != nil {
			return nil, err
		}
		cfgPath = filepath.Join(dir, "config.json")
	}
	return LoadFrom(cfgPath)
}

// LoadFrom reads the config at path, writing defaults there first when the
// file does not exist.
func LoadFrom(cfgPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	v := newViper(filepath.Dir(cfgPath))
	v.SetConfigFile(cfgPath)

	if _, err := os.Stat(cfgPath); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config: %w", err)
		}
		if err := v.WriteConfigAs(cfgPath); err != nil {
			return nil, fmt.Errorf("write config: %w", err)
		}
	} else if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	var cfg Data
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Timezone == "" {
		cfg.Timezone = defaultTimezone()
	}
	if cfg.Name == "" {
		cfg.Name = defaultName()
	}
	if len(cfg.Stats.Triggers) == 0 {
		cfg.Stats.Triggers = model.DefaultStatTriggers()
	}

	return &Store{path: cfgPath, Config: cfg}, nil
}

func newViper(dir string) *viper.Viper {
	v := viper.New()

	v.SetDefault("name", defaultName())
	v.SetDefault("timezone", defaultTimezone())
	v.SetDefault("storage.path", filepath.Join(dir, "prospectflow.db"))
	v.SetDefault("storage.key", "prospectFlowDB")
	v.SetDefault("log.path", filepath.Join(dir, "prospectflow.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("stats.triggers", triggerMaps(model.DefaultStatTriggers()))

	v.SetConfigType("json")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Save writes the current config values to disk.
func (s *Store) Save() error {
	if s == nil {
		return errors.New("nil config store")
	}
	v := viper.New()
	v.SetConfigType("json")
	v.Set("name", s.Config.Name)
	v.Set("timezone", s.Config.Timezone)
	v.Set("storage.path", s.Config.Storage.Path)
	v.Set("storage.key", s.Config.Storage.Key)
	v.Set("log.path", s.Config.Log.Path)
	v.Set("log.level", s.Config.Log.Level)
	v.Set("stats.triggers", triggerMaps(s.Config.Stats.Triggers))

	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Path returns the config file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func triggerMaps(triggers []model.StatTrigger) []map[string]any {
	out := make([]map[string]any, 0, len(triggers))
	for _, t := range triggers {
		out = append(out, map[string]any{
			"axis":    string(t.Axis),
			"value":   t.Value,
			"counter": string(t.Counter),
		})
	}
	return out
}

func resolveDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		base = os.Getenv("HOME")
		if base == "" {
			return "", fmt.Errorf("cannot resolve config directory: %w", err)
		}
	}
	return filepath.Join(base, appDir), nil
}

func defaultName() string {
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	if runtime.GOOS == "windows" {
		if name := os.Getenv("USERNAME"); name != "" {
			return name
		}
	}
	return "Sales Rep"
}

func defaultTimezone() string {
	if locName := time.Now().Location().String(); locName != "Local" && locName != "" {
		return locName
	}
	return "UTC"
}

// Location returns the configured timezone Location, defaulting to UTC on error.
func (s *Store) Location() *time.Location {
	if s == nil {
		return time.UTC
	}
	if loc, err := time.LoadLocation(s.Config.Timezone); err == nil {
		return loc
	}
	return time.UTC
}
