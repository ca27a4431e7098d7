package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and file location configuration.
type Paths struct {
	DataDir      string `toml:"data_dir"`
	SiteDataPath string `toml:"site_data_path"`
	SeedsPath    string `toml:"seeds_path"`
	LogDir       string `toml:"log_dir"`
}

// Amazon contains credentials for the Product Advertising API.
type Amazon struct {
	AccessKey   string `toml:"access_key"`
	SecretKey   string `toml:"secret_key"`
	PartnerTag  string `toml:"partner_tag"`
	Host        string `toml:"host"`
	Region      string `toml:"region"`
	Marketplace string `toml:"marketplace"`
}

// Configured reports whether all required PA-API credentials are present.
func (a Amazon) Configured() bool {
	return a.AccessKey != "" && a.SecretKey != "" && a.PartnerTag != ""
}

// Rakuten contains credentials for the Rakuten Books API.
type Rakuten struct {
	ApplicationID string `toml:"application_id"`
	AffiliateID   string `toml:"affiliate_id"`
}

// Configured reports whether the Rakuten application ID is present.
func (r Rakuten) Configured() bool {
	return r.ApplicationID != ""
}

// Enrichment toggles the supplementary metadata sources.
type Enrichment struct {
	OpenBDEnabled  bool `toml:"openbd_enabled"`
	AniListEnabled bool `toml:"anilist_enabled"`
}

// Pipeline contains resolution run tuning.
type Pipeline struct {
	MaxNewPerRun     int `toml:"max_new_per_run"`
	RequestDelayMS   int `toml:"request_delay_ms"`
	RetryMaxAttempts int `toml:"retry_max_attempts"`
}

// LookupCache contains configuration for the identifier lookup cache.
type LookupCache struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
	TTLDays int    `toml:"ttl_days"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for hondana.
//
// Configuration sections by subsystem:
//   - Paths: data directory, site output, seeds file, log directory
//   - Amazon: Product Advertising API credentials
//   - Rakuten: Rakuten Books API credentials (search fallback)
//   - Enrichment: openBD and AniList source toggles
//   - Pipeline: per-run limits, pacing, and retry budget
//   - LookupCache: persistent identifier lookup cache
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	Amazon      Amazon      `toml:"amazon"`
	Rakuten     Rakuten     `toml:"rakuten"`
	Enrichment  Enrichment  `toml:"enrichment"`
	Pipeline    Pipeline    `toml:"pipeline"`
	LookupCache LookupCache `toml:"lookup_cache"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/hondana/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/hondana/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("hondana.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for pipeline runs.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.DataDir, c.Paths.LogDir, filepath.Dir(c.Paths.SiteDataPath)}
	if c.LookupCache.Enabled && strings.TrimSpace(c.LookupCache.Path) != "" {
		dirs = append(dirs, filepath.Dir(c.LookupCache.Path))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultLookupCachePath() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "hondana", "lookups.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/hondana/lookups.db"
	}
	return filepath.Join(home, ".cache", "hondana", "lookups.db")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
