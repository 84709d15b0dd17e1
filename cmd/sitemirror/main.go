// Package main provides the entry point for the sitemirror CLI.
//
// sitemirror mirrors a rendered website into a self-contained static tree
// that works from the local filesystem, with no web server and no network.
//
// Usage:
//
//	sitemirror mirror https://example.com
//	sitemirror history example.com
//
// See --help for all available options.
package main

// main is the entry point for sitemirror.
func main() {
	Execute()
}
