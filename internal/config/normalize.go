package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAmazon()
	c.normalizeRakuten()
	if err := c.normalizeLookupCache(); err != nil {
		return err
	}
	c.normalizePipeline()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.SiteDataPath, err = expandPath(c.Paths.SiteDataPath); err != nil {
		return fmt.Errorf("paths.site_data_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.SeedsPath) == "" {
		c.Paths.SeedsPath = defaultSeedsPath
	}
	if c.Paths.SeedsPath, err = expandPath(c.Paths.SeedsPath); err != nil {
		return fmt.Errorf("paths.seeds_path: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAmazon() {
	c.Amazon.AccessKey = strings.TrimSpace(c.Amazon.AccessKey)
	if c.Amazon.AccessKey == "" {
		if value, ok := os.LookupEnv("PAAPI_ACCESS_KEY"); ok {
			c.Amazon.AccessKey = strings.TrimSpace(value)
		}
	}
	c.Amazon.SecretKey = strings.TrimSpace(c.Amazon.SecretKey)
	if c.Amazon.SecretKey == "" {
		if value, ok := os.LookupEnv("PAAPI_SECRET_KEY"); ok {
			c.Amazon.SecretKey = strings.TrimSpace(value)
		}
	}
	c.Amazon.PartnerTag = strings.TrimSpace(c.Amazon.PartnerTag)
	if c.Amazon.PartnerTag == "" {
		if value, ok := os.LookupEnv("PAAPI_PARTNER_TAG"); ok {
			c.Amazon.PartnerTag = strings.TrimSpace(value)
		}
	}
	c.Amazon.Host = strings.TrimSpace(c.Amazon.Host)
	if c.Amazon.Host == "" {
		c.Amazon.Host = defaultAmazonHost
	}
	c.Amazon.Region = strings.TrimSpace(c.Amazon.Region)
	if c.Amazon.Region == "" {
		c.Amazon.Region = defaultAmazonRegion
	}
	c.Amazon.Marketplace = strings.TrimSpace(c.Amazon.Marketplace)
	if c.Amazon.Marketplace == "" {
		c.Amazon.Marketplace = defaultAmazonMarket
	}
}

func (c *Config) normalizeRakuten() {
	c.Rakuten.ApplicationID = strings.TrimSpace(c.Rakuten.ApplicationID)
	if c.Rakuten.ApplicationID == "" {
		if value, ok := os.LookupEnv("RAKUTEN_APPLICATION_ID"); ok {
			c.Rakuten.ApplicationID = strings.TrimSpace(value)
		}
	}
	c.Rakuten.AffiliateID = strings.TrimSpace(c.Rakuten.AffiliateID)
}

func (c *Config) normalizeLookupCache() error {
	var err error
	if strings.TrimSpace(c.LookupCache.Path) == "" {
		c.LookupCache.Path = defaultLookupCachePath()
	}
	if c.LookupCache.Path, err = expandPath(c.LookupCache.Path); err != nil {
		return fmt.Errorf("lookup_cache.path: %w", err)
	}
	if c.LookupCache.TTLDays <= 0 {
		c.LookupCache.TTLDays = defaultCacheTTLDays
	}
	return nil
}

func (c *Config) normalizePipeline() {
	if c.Pipeline.MaxNewPerRun <= 0 {
		c.Pipeline.MaxNewPerRun = defaultMaxNewPerRun
	}
	if c.Pipeline.RequestDelayMS <= 0 {
		c.Pipeline.RequestDelayMS = defaultRequestDelayMS
	}
	if c.Pipeline.RetryMaxAttempts <= 0 {
		c.Pipeline.RetryMaxAttempts = defaultRetryMaxAttempts
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
