package config

import (
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values can use human-readable
// strings like "500ms" or "2s". Plain integers are accepted as nanoseconds
// for compatibility with time.Duration's native representation.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
		return nil
	}

	var n int64
	if err := value.Decode(&n); err != nil {
		return err
	}
	*d = Duration(n)
	return nil
}

// SiteConfig holds site-specific configuration for a single host.
// This allows customizing mirror behavior per site in a shared config file.
type SiteConfig struct {
	// UserAgent overrides the global user agent for this site.
	UserAgent string `yaml:"userAgent,omitempty"`

	// PageDelay overrides the global politeness delay for this site.
	PageDelay Duration `yaml:"pageDelay,omitempty"`

	// NoRender disables headless rendering for this site. Useful for
	// fully static sites where plain HTTP is faster and sufficient.
	NoRender bool `yaml:"noRender,omitempty"`

	// ExcludePatterns are URL path patterns to skip during discovery,
	// in addition to the built-in dynamic-endpoint exclusions.
	ExcludePatterns []string `yaml:"excludePatterns,omitempty"`
}

// File represents the structure of the .sitemirror configuration file.
type File struct {
	// Sites maps host names to their site-specific configurations
	// (e.g., "example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a specific host.
// It merges the site-specific configuration with defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults

	if siteConfig, ok := cf.Sites[host]; ok {
		if siteConfig.UserAgent != "" {
			result.UserAgent = siteConfig.UserAgent
		}
		if siteConfig.PageDelay > 0 {
			result.PageDelay = siteConfig.PageDelay
		}
		if siteConfig.NoRender {
			result.NoRender = true
		}
		if len(siteConfig.ExcludePatterns) > 0 {
			result.ExcludePatterns = siteConfig.ExcludePatterns
		}
	}

	return result
}
