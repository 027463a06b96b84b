package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"listharvest/internal/harvest"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by LoadFromEnv.
const EnvPrefix = "LISTHARVEST_"

// Config holds all configuration options for a harvest run
type Config struct {
	// Browser launch and navigation
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// Harvest loop tuning and page selectors
	Harvest HarvestConfig `yaml:"harvest" json:"harvest"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// BrowserConfig holds browser-specific configuration
type BrowserConfig struct {
	Headless        bool          `yaml:"headless" json:"headless"`
	Proxy           string        `yaml:"proxy" json:"proxy"`
	Stealth         bool          `yaml:"stealth" json:"stealth"`
	UserAgent       string        `yaml:"user_agent" json:"user_agent"`
	NavigateTimeout time.Duration `yaml:"navigate_timeout" json:"navigate_timeout"`
	WaitFor         string        `yaml:"wait_for" json:"wait_for"`
	WaitTarget      string        `yaml:"wait_target" json:"wait_target"`
}

// HarvestConfig mirrors harvest.Options in file form
type HarvestConfig struct {
	ContainerTimeout   time.Duration     `yaml:"container_timeout" json:"container_timeout"`
	GrowthTimeout      time.Duration     `yaml:"growth_timeout" json:"growth_timeout"`
	MaxAttempts        int               `yaml:"max_attempts" json:"max_attempts"`
	SettleDelay        time.Duration     `yaml:"settle_delay" json:"settle_delay"`
	FallbackMultiplier int               `yaml:"fallback_multiplier" json:"fallback_multiplier"`
	StatusPattern      string            `yaml:"status_pattern" json:"status_pattern"`
	Selectors          harvest.Selectors `yaml:"selectors" json:"selectors"`
}

// OutputConfig holds output configuration
type OutputConfig struct {
	Format string `yaml:"format" json:"format"`
	File   string `yaml:"file" json:"file"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	opts := harvest.DefaultOptions()
	return &Config{
		Browser: BrowserConfig{
			Headless:        true,
			Stealth:         true,
			NavigateTimeout: 60 * time.Second,
			WaitFor:         "load",
		},
		Harvest: HarvestConfig{
			ContainerTimeout:   opts.ContainerTimeout,
			GrowthTimeout:      opts.GrowthTimeout,
			MaxAttempts:        opts.MaxAttempts,
			SettleDelay:        opts.SettleDelay,
			FallbackMultiplier: opts.FallbackMultiplier,
			StatusPattern:      opts.StatusPattern,
			Selectors:          opts.Selectors,
		},
		Output: OutputConfig{
			Format: "text",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromFile loads configuration from a YAML file. An empty path looks in
// the default locations and is not an error when nothing is found.
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

func findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".listharvest.yaml",
		".listharvest.yml",
		filepath.Join(home, ".config", "listharvest", "config.yaml"),
		filepath.Join(home, ".config", "listharvest", "config.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// LoadFromEnv overrides fields from LISTHARVEST_* environment variables.
func (c *Config) LoadFromEnv() error {
	var errs []error

	if v := getenv("PROXY"); v != "" {
		c.Browser.Proxy = v
	}
	if v := getenv("USER_AGENT"); v != "" {
		c.Browser.UserAgent = v
	}
	if v := getenv("HEADLESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sHEADLESS: %w", EnvPrefix, err))
		} else {
			c.Browser.Headless = b
		}
	}
	if v := getenv("STEALTH"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sSTEALTH: %w", EnvPrefix, err))
		} else {
			c.Browser.Stealth = b
		}
	}
	if v := getenv("NAVIGATE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sNAVIGATE_TIMEOUT: %w", EnvPrefix, err))
		} else {
			c.Browser.NavigateTimeout = d
		}
	}

	if v := getenv("MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sMAX_ATTEMPTS: %w", EnvPrefix, err))
		} else {
			c.Harvest.MaxAttempts = n
		}
	}
	if v := getenv("GROWTH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sGROWTH_TIMEOUT: %w", EnvPrefix, err))
		} else {
			c.Harvest.GrowthTimeout = d
		}
	}

	if v := getenv("FORMAT"); v != "" {
		c.Output.Format = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := getenv("LOG_FILE"); v != "" {
		c.Logging.File = v
	}

	return errors.Join(errs...)
}

func getenv(name string) string {
	return strings.TrimSpace(os.Getenv(EnvPrefix + name))
}

// HarvestOptions converts the harvest section to harvest.Options.
func (c *Config) HarvestOptions() harvest.Options {
	return harvest.Options{
		ContainerTimeout:   c.Harvest.ContainerTimeout,
		GrowthTimeout:      c.Harvest.GrowthTimeout,
		MaxAttempts:        c.Harvest.MaxAttempts,
		SettleDelay:        c.Harvest.SettleDelay,
		FallbackMultiplier: c.Harvest.FallbackMultiplier,
		StatusPattern:      c.Harvest.StatusPattern,
		Selectors:          c.Harvest.Selectors,
	}
}

var (
	validFormats    = map[string]bool{"html": true, "text": true, "markdown": true, "json": true, "csv": true}
	validStrategies = map[string]bool{"load": true, "element": true, "time": true}
	validLogLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "disabled": true}
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Browser.NavigateTimeout <= 0 {
		errs = append(errs, errors.New("navigate timeout must be positive"))
	}
	if !validStrategies[c.Browser.WaitFor] {
		errs = append(errs, fmt.Errorf("invalid wait strategy: %s", c.Browser.WaitFor))
	}
	if (c.Browser.WaitFor == "element" || c.Browser.WaitFor == "time") && c.Browser.WaitTarget == "" {
		errs = append(errs, fmt.Errorf("wait target is required when using '%s' wait strategy", c.Browser.WaitFor))
	}
	if c.Browser.WaitFor == "time" && c.Browser.WaitTarget != "" {
		if _, err := strconv.Atoi(c.Browser.WaitTarget); err != nil {
			errs = append(errs, fmt.Errorf("wait target must be milliseconds for 'time' strategy: %s", c.Browser.WaitTarget))
		}
	}

	if _, err := harvest.New(c.HarvestOptions(), nil); err != nil {
		errs = append(errs, err)
	}

	if !validFormats[c.Output.Format] {
		errs = append(errs, fmt.Errorf("invalid output format: %s", c.Output.Format))
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level: %s", c.Logging.Level))
	}

	return errors.Join(errs...)
}

// Load builds a configuration from defaults, an optional .env file, the YAML
// file at path and the environment, in increasing order of precedence.
// Command line flags are applied by the caller, which then calls Validate.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load(".env")

	cfg := DefaultConfig()

	if err := cfg.LoadFromFile(path); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := cfg.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return cfg, nil
}
