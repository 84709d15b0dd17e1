// Package rewrite mutates a rendered page so every internal reference
// points into the mirror tree instead of at the origin server.
//
// The engine sanitizes the document, then walks every element carrying a
// reference attribute, resolves the attribute against the page URL, and
// replaces same-site references with relative paths. Asset references
// encountered along the way are collected for the download phase. Each
// attribute is rewritten from its own original value only, so traversal
// order never changes the result.
package rewrite
