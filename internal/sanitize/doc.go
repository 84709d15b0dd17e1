// Package sanitize strips interactive cruft from rendered pages before they
// are written to the mirror.
//
// It removes cookie-consent and GDPR banner subtrees using keyword
// heuristics and neutralizes forms so the static copy never posts back to
// the origin server. Banner detection is best effort and tolerates false
// positives; the only hard guarantee is that the html and body elements
// survive sanitization.
package sanitize
