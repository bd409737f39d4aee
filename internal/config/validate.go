package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if strings.TrimSpace(c.Paths.RacesFile) == "" {
		return errors.New("paths.races_file must be set")
	}
	return nil
}

func (c *Config) validateFetch() error {
	if !strings.HasPrefix(c.Fetch.BaseURL, "http://") && !strings.HasPrefix(c.Fetch.BaseURL, "https://") {
		return fmt.Errorf("fetch.base_url must be an http(s) URL, got %q", c.Fetch.BaseURL)
	}
	if c.Fetch.DelaySeconds < 0 {
		return errors.New("fetch.delay_seconds must be >= 0")
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		return errors.New("fetch.timeout_seconds must be positive")
	}
	return nil
}
