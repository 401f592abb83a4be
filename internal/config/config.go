// Package config manages cellkit configuration from files and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/klytics/cellkit/internal/address"
)

// Config holds the application configuration.
type Config struct {
	// Document is the workbook written to when a command names none.
	Document string `mapstructure:"document"`
	Notation string `mapstructure:"notation"`
	Sheet    int    `mapstructure:"sheet"`
	Audit    struct {
		Enabled bool   `mapstructure:"enabled"`
		Path    string `mapstructure:"path"`
	} `mapstructure:"audit"`
	Watch struct {
		DebounceMs int `mapstructure:"debounce_ms"`
	} `mapstructure:"watch"`
	Output struct {
		Color bool `mapstructure:"color"`
	} `mapstructure:"output"`
}

// AddressNotation returns the configured default notation.
func (c *Config) AddressNotation() address.Notation {
	return address.ParseNotation(c.Notation)
}

// Issue is a problem found by Validate.
type Issue struct {
	Key      string `json:"key"`
	Severity string `json:"severity"` // "error", "warning"
	Message  string `json:"message"`
	Fix      string `json:"fix,omitempty"`
}

// Load reads ~/.cellkit/config.yaml and CELLKIT_* environment variables.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir())

	setDefaults()

	viper.SetEnvPrefix("CELLKIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file (non-fatal if missing)
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("could not decode configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("document", "")
	viper.SetDefault("notation", "a1")
	viper.SetDefault("sheet", 1)
	viper.SetDefault("audit.enabled", false)
	viper.SetDefault("audit.path", filepath.Join(configDir(), "audit.log"))
	viper.SetDefault("watch.debounce_ms", 500)
	viper.SetDefault("output.color", true)
}

// Set stores a value and writes the config file.
func Set(key, value string) error {
	viper.Set(key, value)
	return Save()
}

// Get returns a value as a string.
func Get(key string) string {
	return viper.GetString(key)
}

// Save writes the current settings to Path().
func Save() error {
	dir := configDir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}
	if err := viper.WriteConfigAs(Path()); err != nil {
		return fmt.Errorf("could not write config: %w", err)
	}
	return nil
}

// Reset deletes the config file and restores defaults.
func Reset() error {
	if err := os.Remove(Path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not delete config: %w", err)
	}
	viper.Reset()
	_, err := Load()
	return err
}

// Path returns the config file location.
func Path() string {
	return filepath.Join(configDir(), "config.yaml")
}

// Validate checks the loaded settings.
func Validate() []Issue {
	var issues []Issue

	switch n := strings.ToLower(viper.GetString("notation")); n {
	case "a1", "r1c1":
	default:
		issues = append(issues, Issue{
			Key:      "notation",
			Severity: "error",
			Message:  fmt.Sprintf("notation %q is not a1 or r1c1 — addresses will be read as A1", n),
			Fix:      "cellkit config set notation a1",
		})
	}

	if s := viper.GetInt("sheet"); s < 1 {
		issues = append(issues, Issue{
			Key:      "sheet",
			Severity: "error",
			Message:  fmt.Sprintf("sheet %d is invalid — sheets are numbered from 1", s),
			Fix:      "cellkit config set sheet 1",
		})
	}

	if doc := viper.GetString("document"); doc == "" {
		issues = append(issues, Issue{
			Key:      "document",
			Severity: "warning",
			Message:  "no default document — commands will need --doc",
			Fix:      "cellkit config set document /path/to/book.xlsx",
		})
	} else if _, err := os.Stat(doc); err != nil {
		issues = append(issues, Issue{
			Key:      "document",
			Severity: "warning",
			Message:  fmt.Sprintf("default document %s is not readable: %v", doc, err),
			Fix:      "cellkit book new " + doc,
		})
	}

	return issues
}

// Show renders the settings for humans.
func Show() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Config: %s\n\n", Path())

	sb.WriteString("Writing\n")
	doc := viper.GetString("document")
	if doc == "" {
		doc = "(not set)"
	}
	fmt.Fprintf(&sb, "  document:  %s\n", doc)
	fmt.Fprintf(&sb, "  notation:  %s\n", viper.GetString("notation"))
	fmt.Fprintf(&sb, "  sheet:     %d\n", viper.GetInt("sheet"))
	sb.WriteString("\n")

	sb.WriteString("Audit\n")
	fmt.Fprintf(&sb, "  enabled:   %t\n", viper.GetBool("audit.enabled"))
	fmt.Fprintf(&sb, "  path:      %s\n", viper.GetString("audit.path"))
	sb.WriteString("\n")

	sb.WriteString("Watch\n")
	fmt.Fprintf(&sb, "  debounce:  %dms\n", viper.GetInt("watch.debounce_ms"))

	return sb.String()
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cellkit"
	}
	return filepath.Join(home, ".cellkit")
}
