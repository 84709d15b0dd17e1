// Package pathmap converts URLs into the filesystem namespace of a mirror.
//
// It contains the two purely computational pieces of the pipeline: the path
// resolver, which turns an absolute target URL plus the URL of the page
// referencing it into a relative href, and the asset classifier, which
// decides whether a discovered URL is a page (own directory plus index.html)
// or an asset (downloaded verbatim), filtering out dynamic endpoints that
// cannot be mirrored as static files.
//
// Design decision: Resolver and classifier live in one package because they
// share the extension tables; keeping those tables in one place is what
// guarantees the resolver and the classifier never disagree about whether a
// URL gets an "index.html" suffix.
package pathmap
