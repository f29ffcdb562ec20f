// Package config loads the dashboard settings from defaults, an optional
// YAML file, LEADFLOW_* environment variables and command-line flags, in
// that order of precedence (flags win).
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/harveywai/leadflow/pkg/database"
	"github.com/harveywai/leadflow/pkg/leadapi"
)

// Config holds the dashboard settings. The refresh interval is fixed and
// deliberately absent.
type Config struct {
	APIBaseURL     string        `yaml:"api_base_url"`
	ListenAddr     string        `yaml:"listen_addr"`
	JournalDSN     string        `yaml:"journal_dsn"`
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// AlertWebhook receives a POST when the backend goes offline, recovers
	// or switches integration mode. Empty disables alerts.
	AlertWebhook string `yaml:"alert_webhook"`
	AlertSecret  string `yaml:"alert_secret"`
}

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Default returns the built-in settings.
func Default() Config {
	return Config{
		APIBaseURL:     leadapi.DefaultBaseURL,
		ListenAddr:     ":8080",
		JournalDSN:     database.DefaultDSN,
		RequestTimeout: leadapi.DefaultTimeout,
	}
}

// Flags are the command-line overrides registered by RegisterFlags.
type Flags struct {
	ConfigPath string
	APIBaseURL string
	ListenAddr string
	JournalDSN string
	Timeout    time.Duration
	Alert      string

	set *pflag.FlagSet
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{set: fs}
	fs.StringVarP(&f.ConfigPath, "config", "c", "", "path to a YAML configuration file")
	fs.StringVar(&f.APIBaseURL, "api", "", "lead backend base URL (default "+leadapi.DefaultBaseURL+")")
	fs.StringVar(&f.ListenAddr, "addr", "", "dashboard listen address (default :8080)")
	fs.StringVar(&f.JournalDSN, "journal", "", "SQLite DSN for the sync journal (default in-memory)")
	fs.DurationVar(&f.Timeout, "timeout", 0, "timeout for each backend request (default 10s)")
	fs.StringVar(&f.Alert, "alert-webhook", "", "webhook URL notified about backend status changes")
	return f
}

// Load resolves the configuration. flags may be nil.
func Load(flags *Flags) (Config, error) {
	cfg := Default()

	path := os.Getenv("LEADFLOW_CONFIG")
	if flags != nil && flags.ConfigPath != "" {
		path = flags.ConfigPath
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	flags.apply(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("LEADFLOW_API_BASE_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("LEADFLOW_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("LEADFLOW_JOURNAL_DSN"); v != "" {
		cfg.JournalDSN = v
	}
	if v := os.Getenv("LEADFLOW_ALERT_WEBHOOK"); v != "" {
		cfg.AlertWebhook = v
	}
	if v := os.Getenv("LEADFLOW_ALERT_SECRET"); v != "" {
		cfg.AlertSecret = v
	}
	if v := os.Getenv("LEADFLOW_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: LEADFLOW_REQUEST_TIMEOUT: %v", ErrInvalidConfig, err)
		}
		cfg.RequestTimeout = d
	}
	return nil
}

// apply copies the flags the user actually passed.
func (f *Flags) apply(cfg *Config) {
	if f == nil || f.set == nil {
		return
	}
	if f.set.Changed("api") {
		cfg.APIBaseURL = f.APIBaseURL
	}
	if f.set.Changed("addr") {
		cfg.ListenAddr = f.ListenAddr
	}
	if f.set.Changed("journal") {
		cfg.JournalDSN = f.JournalDSN
	}
	if f.set.Changed("timeout") {
		cfg.RequestTimeout = f.Timeout
	}
	if f.set.Changed("alert-webhook") {
		cfg.AlertWebhook = f.Alert
	}
}

// Validate checks that the backend and alert URLs are absolute http(s) and
// the timeout is positive.
func (c Config) Validate() error {
	if !isHTTPURL(c.APIBaseURL) {
		return fmt.Errorf("%w: api base URL %q must be an absolute http(s) URL", ErrInvalidConfig, c.APIBaseURL)
	}
	if c.AlertWebhook != "" && !isHTTPURL(c.AlertWebhook) {
		return fmt.Errorf("%w: alert webhook %q must be an absolute http(s) URL", ErrInvalidConfig, c.AlertWebhook)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive, got %s", ErrInvalidConfig, c.RequestTimeout)
	}
	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	return err == nil && u.Host != "" && (u.Scheme == "http" || u.Scheme == "https")
}
