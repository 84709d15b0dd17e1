package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultNavigationTimeout bounds one headless page load. Themes that
	// inject content from script can take a while to settle, so this is
	// generous; a page that misses it is skipped, not fatal.
	DefaultNavigationTimeout = 30 * time.Second

	// DefaultPageDelay is the pause between page fetches. This is a
	// politeness setting so a mirror pass does not hammer the origin.
	DefaultPageDelay = 500 * time.Millisecond

	// DefaultAssetConcurrency is the number of parallel asset downloads.
	// Assets are small and independent, so a few workers speed up the
	// drain phase without stressing the origin the way parallel page
	// renders would.
	DefaultAssetConcurrency = 4

	// DefaultUserAgent presents a realistic desktop browser. Some themes
	// serve reduced markup to unknown agents, which would end up in the
	// mirror.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36"

	// DefaultOutputDir is where the mirror tree is written when no
	// directory is given.
	DefaultOutputDir = "mirror"

	// AppName is the application name used for XDG directory paths.
	AppName = "sitemirror"
)

// Config holds all configuration options for a mirror run.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., FetchConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// RootURL is the site to mirror. A missing scheme is treated as https.
	RootURL string

	// OutputDir is the directory the mirror tree is written to.
	OutputDir string

	// NavigationTimeout bounds each page load in the headless browser.
	NavigationTimeout time.Duration

	// PageDelay is the pause between consecutive page fetches.
	PageDelay time.Duration

	// AssetConcurrency is the number of parallel asset downloads.
	AssetConcurrency int

	// UserAgent is sent with every browser navigation and HTTP request.
	UserAgent string

	// NoRender disables the headless browser and falls back to plain HTTP
	// fetching. Faster, but script-injected content is lost.
	NoRender bool

	// ExcludePatterns are URL path substrings to skip during discovery,
	// in addition to the built-in dynamic-endpoint exclusions.
	ExcludePatterns []string

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .sitemirror in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds site-specific configurations loaded from the
	// config file. Populated by LoadConfigFile.
	SiteConfigs *File

	// JSONReport enables JSON report output instead of human-readable
	// format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// DBDir is the directory path for storing the SQLite run-history
	// database. When empty, runs are not persisted.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether to save run results to the database.
	// Automatically true when DBDir is configured.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, delay).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		OutputDir:         DefaultOutputDir,
		NavigationTimeout: DefaultNavigationTimeout,
		PageDelay:         DefaultPageDelay,
		AssetConcurrency:  DefaultAssetConcurrency,
		UserAgent:         DefaultUserAgent,
	}
}

// XDGDataDir returns the XDG data directory for sitemirror.
// On Linux: ~/.local/share/sitemirror
// On macOS: ~/Library/Application Support/sitemirror
// On Windows: %LOCALAPPDATA%\sitemirror
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for sitemirror.
// On Linux: ~/.config/sitemirror
// On macOS: ~/Library/Application Support/sitemirror
// On Windows: %APPDATA%\sitemirror
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any work begins.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.RootURL == "" {
		return ErrNoTarget
	}

	if c.OutputDir == "" {
		return ErrNoOutputDir
	}

	if c.NavigationTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.PageDelay < 0 {
		return ErrInvalidDelay
	}

	if c.AssetConcurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}

// ApplySiteConfig overlays per-site settings from the loaded config file
// onto this Config. Site keys are matched by the site's host name.
func (c *Config) ApplySiteConfig(host string) {
	if c.SiteConfigs == nil {
		return
	}

	site := c.SiteConfigs.GetSiteConfig(host)
	if site.UserAgent != "" {
		c.UserAgent = site.UserAgent
	}
	if site.PageDelay > 0 {
		c.PageDelay = time.Duration(site.PageDelay)
	}
	if site.NoRender {
		c.NoRender = true
	}
	if len(site.ExcludePatterns) > 0 {
		c.ExcludePatterns = append(c.ExcludePatterns, site.ExcludePatterns...)
	}
}
