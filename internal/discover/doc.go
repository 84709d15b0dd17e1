// Package discover builds the set of in-scope page URLs for a mirror run.
//
// Discovery has two phases. The sitemap phase probes conventional sitemap
// locations under the root and walks sitemap-index documents recursively.
// The link phase renders the homepage once and collects its internal links.
// Link extraction deliberately stops at the homepage: pages reachable only
// through links on deeper pages, and absent from every sitemap, are a known
// coverage gap, accepted to keep run time bounded.
package discover
