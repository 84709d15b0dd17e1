// Package fetch loads pages and returns their rendered HTML.
//
// The primary implementation drives a headless Chrome instance and waits
// for network idle before serializing the DOM, because themes frequently
// inject menus and images from client-side script after the initial HTML
// parse. A plain HTTP fetcher exists for static sites and for tests, where
// spawning a browser is wasteful.
package fetch
