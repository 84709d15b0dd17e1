// Package config provides configuration structures and utilities for the
// site mirrorer. It defines the main options for discovery, rendering,
// asset downloading, and report generation preferences.
package config
