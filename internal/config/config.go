// Package config parses ntfy.toml plugin configuration.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up by Load.
const FileName = "ntfy.toml"

// DefaultAccentColor is the default console accent color (indigo).
const DefaultAccentColor = "#7D56F4"

// DefaultPort is the HTTPS port; it is omitted from the endpoint URL.
const DefaultPort = 443

var (
	// hexColorRe matches a 6-digit hex color string like "#7D56F4".
	hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

	// topicRe is the unreserved URL path set. Topics are sent unencoded.
	topicRe = regexp.MustCompile(`^[A-Za-z0-9._~-]+$`)
)

// Config is the top-level ntfy.toml configuration.
type Config struct {
	Ntfy    NtfyConfig    `toml:"ntfy_module"`
	Log     LogConfig     `toml:"log"`
	Metrics MetricsConfig `toml:"metrics"`
	History HistoryConfig `toml:"history"`
	Console ConsoleConfig `toml:"console"`
}

// NtfyConfig is the [ntfy_module] section, mirroring the printer.cfg section
// of the firmware extension.
type NtfyConfig struct {
	Server  string `toml:"server" env:"NTFY_SERVER"`
	Port    int    `toml:"port" env:"NTFY_PORT"`
	Token   string `toml:"token" env:"NTFY_TOKEN"`
	Topic   string `toml:"topic" env:"NTFY_TOPIC"`
	Title   string `toml:"title" env:"NTFY_TITLE"`
	Link    string `toml:"link" env:"NTFY_LINK"`
	Verbose bool   `toml:"verbose" env:"NTFY_VERBOSE"`
}

// LogConfig controls the diagnostic logger.
type LogConfig struct {
	Level string `toml:"level" env:"NTFY_LOG_LEVEL"`
	Path  string `toml:"path" env:"NTFY_LOG_PATH"` // empty = stderr
}

// MetricsConfig controls the Prometheus Pushgateway export.
type MetricsConfig struct {
	PushgatewayURL string `toml:"pushgateway_url" env:"NTFY_PUSHGATEWAY_URL"`
	Job            string `toml:"job"`
}

// HistoryConfig controls the JSONL delivery history.
type HistoryConfig struct {
	Enabled   bool   `toml:"enabled" env:"NTFY_HISTORY"`
	Dir       string `toml:"dir"`
	Retention int    `toml:"retention"` // number of session files to keep; 0 = unlimited
}

// ConsoleConfig controls the interactive console appearance.
type ConsoleConfig struct {
	AccentColor string `toml:"accent_color"`
}

// ConfigurationError reports a missing or invalid configuration value.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Validate checks the [ntfy_module] section. Every issue is returned as a
// *ConfigurationError, joined together.
func (c NtfyConfig) Validate() error {
	var errs []error

	switch {
	case c.Server == "":
		errs = append(errs, &ConfigurationError{Field: "ntfy_module.server", Reason: "must not be empty"})
	case strings.Contains(c.Server, "://") || strings.ContainsAny(c.Server, "/ \t\r\n"):
		errs = append(errs, &ConfigurationError{Field: "ntfy_module.server", Reason: "must be a bare hostname (no scheme or path)"})
	case strings.Contains(c.Server, ":") && net.ParseIP(c.Server) == nil:
		errs = append(errs, &ConfigurationError{Field: "ntfy_module.server", Reason: "must not include a port (use ntfy_module.port)"})
	}

	switch {
	case c.Topic == "":
		errs = append(errs, &ConfigurationError{Field: "ntfy_module.topic", Reason: "must not be empty"})
	case !topicRe.MatchString(c.Topic):
		errs = append(errs, &ConfigurationError{Field: "ntfy_module.topic", Reason: "must contain only URL path-safe characters [A-Za-z0-9._~-]"})
	}

	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, &ConfigurationError{Field: "ntfy_module.port", Reason: "must be between 0 and 65535"})
	}

	// The link is sent unchanged as the Click header, so any URI scheme
	// (mailto:, geo:, app links) is allowed.
	if strings.IndexFunc(c.Link, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }) >= 0 {
		errs = append(errs, &ConfigurationError{Field: "ntfy_module.link", Reason: "must not contain whitespace or control characters"})
	}

	return errors.Join(errs...)
}

// Validate checks the configuration for issues that would cause confusing
// runtime failures. It returns all found issues joined together.
func (c *Config) Validate() error {
	errs := []error{c.Ntfy.Validate()}

	if c.Console.AccentColor != "" && !hexColorRe.MatchString(c.Console.AccentColor) {
		errs = append(errs, fmt.Errorf("console.accent_color must be a hex color (e.g. \"#7D56F4\")"))
	}
	if c.History.Retention < 0 {
		errs = append(errs, fmt.Errorf("history.retention must be >= 0 (0 = unlimited)"))
	}
	if c.History.Enabled && c.History.Dir == "" {
		errs = append(errs, fmt.Errorf("history.dir must be set when history.enabled is true"))
	}
	if c.Metrics.PushgatewayURL != "" {
		u, parseErr := url.ParseRequestURI(c.Metrics.PushgatewayURL)
		if parseErr != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Errorf("metrics.pushgateway_url must be a valid http or https URL"))
		}
	}

	return errors.Join(errs...)
}

// Defaults returns a Config with the extension's defaults. Topic has no
// default and must be configured.
func Defaults() Config {
	return Config{
		Ntfy: NtfyConfig{
			Server: "ntfy.sh",
			Port:   DefaultPort,
			Title:  "Klipper Notification",
		},
		Log: LogConfig{
			Level: "warn",
		},
		Metrics: MetricsConfig{
			Job: "klipper_ntfy",
		},
		History: HistoryConfig{
			Enabled:   false,
			Dir:       filepath.Join(".ntfy", "history"),
			Retention: 20,
		},
		Console: ConsoleConfig{
			AccentColor: DefaultAccentColor,
		},
	}
}

// Load reads ntfy.toml from the given path. If path is empty, it walks up
// from the current working directory looking for ntfy.toml. Environment
// overrides (and a .env file next to the config) are applied after decoding,
// then the result is validated so a broken setup fails at load time.
func Load(path string) (*Config, error) {
	if path == "" {
		found, err := findConfig()
		if err != nil {
			return nil, err
		}
		path = found
	}

	cfg := Defaults()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config: unknown keys in %s: %s (possible typos?)", path, joinKeys(keys))
	}

	es, err := LoadEnvSet(filepath.Join(filepath.Dir(path), ".env"))
	if err != nil {
		return nil, err
	}
	if err := ApplyEnv(&cfg, es); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	return &cfg, nil
}

// joinKeys formats a slice of key names for display.
func joinKeys(keys []string) string {
	return strings.Join(keys, ", ")
}

// findConfig walks up from the current directory looking for ntfy.toml.
func findConfig() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("config: get working directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("config: %s not found (searched up from %s)", FileName, dir)
		}
		dir = parent
	}
}
