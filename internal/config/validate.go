package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable. Amazon credentials are
// deliberately not required here: resolution degrades per-series when the
// primary lookup source is unconfigured, and Rakuten can serve searches.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.SiteDataPath) == "" {
		return errors.New("paths.site_data_path must be set")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	return ensurePositiveMap(map[string]int{
		"pipeline.max_new_per_run":    c.Pipeline.MaxNewPerRun,
		"pipeline.request_delay_ms":   c.Pipeline.RequestDelayMS,
		"pipeline.retry_max_attempts": c.Pipeline.RetryMaxAttempts,
		"lookup_cache.ttl_days":       c.LookupCache.TTLDays,
	})
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
