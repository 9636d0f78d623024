// Package config loads lunch-line settings from defaults, a YAML config file,
// a .env file, LUNCH_LINE_* environment variables and command flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pfrederiksen/lunch-line/internal/filter"
	"github.com/pfrederiksen/lunch-line/internal/logger"
	"github.com/pfrederiksen/lunch-line/internal/menu"
	"github.com/pfrederiksen/lunch-line/internal/publisher"
)

const (
	Name      = "lunch-line"
	EnvPrefix = "LUNCH_LINE"
	EnvFile   = ".env"

	DefaultDataDir      = "~/.local/share/lunch-line"
	DefaultFormat       = "text"
	DefaultCalendarName = "School Meals"
)

// Formats lists the accepted output formats
var Formats = []string{"text", "json", "yaml"}

// Config holds resolved settings
type Config struct {
	MenuURL      string   `mapstructure:"menu_url" yaml:"menu_url" json:"menu_url"`
	DataDir      string   `mapstructure:"data_dir" yaml:"data_dir" json:"data_dir"`
	Format       string   `mapstructure:"format" yaml:"format" json:"format"`
	CalendarName string   `mapstructure:"calendar_name" yaml:"calendar_name" json:"calendar_name"`
	ICSPath      string   `mapstructure:"ics_path" yaml:"ics_path" json:"ics_path"`
	LogLevel     string   `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Meals        []string `mapstructure:"meals" yaml:"meals" json:"meals"`
	WeekdaysOnly bool     `mapstructure:"weekdays_only" yaml:"weekdays_only" json:"weekdays_only"`
	// Notify lists the notification targets publish announces new meals to
	Notify []string `mapstructure:"notify" yaml:"notify" json:"notify"`
}

// Options selects the files Load reads. Empty fields use the defaults.
type Options struct {
	// ConfigFile is an explicit config path; it must exist
	ConfigFile string
	// EnvFile is an explicit .env path; it must exist
	EnvFile string
	// SearchPaths replaces the config directories searched when ConfigFile is empty
	SearchPaths []string
}

// NewViper returns a viper instance with defaults and environment binding.
// Flags may be bound to it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("menu_url", "")
	v.SetDefault("data_dir", DefaultDataDir)
	v.SetDefault("format", DefaultFormat)
	v.SetDefault("calendar_name", DefaultCalendarName)
	v.SetDefault("ics_path", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("meals", []string{})
	v.SetDefault("weekdays_only", false)
	v.SetDefault("notify", []string{})

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the .env file and config file into v and returns the validated
// settings.
func Load(v *viper.Viper, opts Options) (*Config, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
		for _, dir := range searchPaths(opts.SearchPaths) {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else {
		logger.Debug("Using config file", logger.Fields{"path": v.ConfigFileUsed()})
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadEnvFile loads variables that are not already set in the environment.
// A missing default .env file is not an error.
func loadEnvFile(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("loading env file: %w", err)
		}
		return nil
	}

	if err := godotenv.Load(EnvFile); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("loading env file: %w", err)
		}
	}
	return nil
}

func searchPaths(custom []string) []string {
	if len(custom) > 0 {
		return custom
	}
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", Name))
	}
	return paths
}

// Validate checks the settings that have a fixed set of values
func (c *Config) Validate() error {
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	valid := false
	for _, f := range Formats {
		if c.Format == f {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid format %q (use %s)", c.Format, strings.Join(Formats, ", "))
	}

	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	if _, err := c.MealList(); err != nil {
		return err
	}

	if _, err := c.NotifyTargets(); err != nil {
		return err
	}

	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}

	return nil
}

// MealList returns the configured meals as menu.Meal values
func (c *Config) MealList() ([]menu.Meal, error) {
	return filter.ParseMeals(strings.Join(c.Meals, ","))
}

// NotifyTargets returns the configured notification targets, normalized and
// deduplicated.
func (c *Config) NotifyTargets() ([]string, error) {
	var targets []string
	seen := make(map[string]bool)
	for _, entry := range c.Notify {
		for _, part := range strings.Split(entry, ",") {
			target := strings.ToLower(strings.TrimSpace(part))
			if target == "" || seen[target] {
				continue
			}
			if !isTarget(target) {
				return nil, fmt.Errorf("invalid notify target %q (use %s)", part, strings.Join(publisher.Targets, ", "))
			}
			seen[target] = true
			targets = append(targets, target)
		}
	}
	return targets, nil
}

func isTarget(s string) bool {
	for _, t := range publisher.Targets {
		if s == t {
			return true
		}
	}
	return false
}

// Level returns the configured log level
func (c *Config) Level() logger.Level {
	level, _ := logger.ParseLevel(c.LogLevel)
	return level
}
