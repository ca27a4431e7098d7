package config

const (
	defaultDataDir          = "~/.local/share/hondana/data"
	defaultSiteDataPath     = "~/.local/share/hondana/site/books.json"
	defaultSeedsPath        = "~/.local/share/hondana/data/seeds.json"
	defaultLogDir           = "~/.local/share/hondana/logs"
	defaultAmazonHost       = "webservices.amazon.co.jp"
	defaultAmazonRegion     = "us-west-2"
	defaultAmazonMarket     = "www.amazon.co.jp"
	defaultMaxNewPerRun     = 30
	defaultRequestDelayMS   = 1100
	defaultRetryMaxAttempts = 4
	defaultCacheTTLDays     = 30
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:      defaultDataDir,
			SiteDataPath: defaultSiteDataPath,
			SeedsPath:    defaultSeedsPath,
			LogDir:       defaultLogDir,
		},
		Amazon: Amazon{
			Host:        defaultAmazonHost,
			Region:      defaultAmazonRegion,
			Marketplace: defaultAmazonMarket,
		},
		Enrichment: Enrichment{
			OpenBDEnabled:  true,
			AniListEnabled: true,
		},
		Pipeline: Pipeline{
			MaxNewPerRun:     defaultMaxNewPerRun,
			RequestDelayMS:   defaultRequestDelayMS,
			RetryMaxAttempts: defaultRetryMaxAttempts,
		},
		LookupCache: LookupCache{
			Enabled: true,
			Path:    defaultLookupCachePath(),
			TTLDays: defaultCacheTTLDays,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
