package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Mode        string `yaml:"mode"`         // DRY_RUN or LIVE
	AccountsEnv string `yaml:"accounts_env"` // env var holding the credential string
	Browser     struct {
		Headless  bool   `yaml:"headless"`
		UserAgent string `yaml:"user_agent"`
	} `yaml:"browser"`
	ScreenshotDir string `yaml:"screenshot_dir"`
	Notify        struct {
		// Relay routes one-time-code requests through the external
		// relay channel instead of prompting on the console.
		Relay bool `yaml:"relay"`
	} `yaml:"notify"`
	Timeouts struct {
		PageLoadSeconds int `yaml:"page_load_seconds"`
		ElementSeconds  int `yaml:"element_seconds"`
		ProbeSeconds    int `yaml:"probe_seconds"`
		ShortSeconds    int `yaml:"short_seconds"`
		SettleSeconds   int `yaml:"settle_seconds"`
		CodeSeconds     int `yaml:"code_seconds"`
	} `yaml:"timeouts"`
}

func (c *Config) Validate() error {
	if c.Mode != "DRY_RUN" && c.Mode != "LIVE" {
		return fmt.Errorf("invalid mode '%s': must be 'DRY_RUN' or 'LIVE'", c.Mode)
	}
	if c.AccountsEnv == "" {
		return fmt.Errorf("accounts_env cannot be empty")
	}
	if c.Timeouts.CodeSeconds <= 0 {
		return fmt.Errorf("timeouts.code_seconds must be positive, got %d", c.Timeouts.CodeSeconds)
	}
	return nil
}

func applyDefaults(c *Config) {
	if c.Mode == "" {
		c.Mode = "DRY_RUN"
	}
	if c.AccountsEnv == "" {
		c.AccountsEnv = "WELLSFARGO"
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = "."
	}
	if c.Timeouts.PageLoadSeconds == 0 {
		c.Timeouts.PageLoadSeconds = 20
	}
	if c.Timeouts.ElementSeconds == 0 {
		c.Timeouts.ElementSeconds = 10
	}
	if c.Timeouts.ProbeSeconds == 0 {
		c.Timeouts.ProbeSeconds = 5
	}
	if c.Timeouts.ShortSeconds == 0 {
		c.Timeouts.ShortSeconds = 3
	}
	if c.Timeouts.SettleSeconds == 0 {
		c.Timeouts.SettleSeconds = 1
	}
	if c.Timeouts.CodeSeconds == 0 {
		c.Timeouts.CodeSeconds = 300
	}
}

// LoadConfig reads the yaml config. A missing file is fine; the tool
// can run on env vars and defaults alone.
func LoadConfig(path string) (*Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// defaults only
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}
