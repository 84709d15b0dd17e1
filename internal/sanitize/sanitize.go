package sanitize

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Sanitizer applies the banner-removal and form-neutralization passes to a
// parsed document. The zero value is not usable; construct with New.
type Sanitizer struct {
	consentKeywords []string
	actionKeywords  []string
}

// New creates a Sanitizer with the default keyword tables.
func New() *Sanitizer {
	return &Sanitizer{
		consentKeywords: consentKeywords,
		actionKeywords:  actionKeywords,
	}
}

// Apply mutates the document tree rooted at root in place. It is idempotent:
// a second pass over already sanitized output changes nothing.
func (s *Sanitizer) Apply(root *html.Node) {
	doc := goquery.NewDocumentFromNode(root)
	s.removeBanners(doc)
	s.neutralizeForms(doc)
}

// removeBanners deletes every subtree matched by either banner heuristic.
// Matches are collected first and removed afterwards so the traversal never
// walks a detached node. The html and body elements are never removed, even
// when a heuristic matches them.
func (s *Sanitizer) removeBanners(doc *goquery.Document) {
	var matched []*goquery.Selection

	doc.Find("body *").Each(func(_ int, sel *goquery.Selection) {
		node := sel.Get(0)
		if node == nil || node.Type != html.ElementNode {
			return
		}
		switch node.Data {
		case "html", "body", "script", "style", "noscript":
			return
		}
		if s.matchesAttributeHeuristic(sel) || s.matchesTextHeuristic(sel) {
			matched = append(matched, sel)
		}
	})

	for _, sel := range matched {
		sel.Remove()
	}
}

// matchesAttributeHeuristic reports whether any identifying attribute
// carries consent vocabulary.
func (s *Sanitizer) matchesAttributeHeuristic(sel *goquery.Selection) bool {
	for _, attr := range bannerAttributes {
		value, ok := sel.Attr(attr)
		if !ok {
			continue
		}
		if containsAny(strings.ToLower(value), s.consentKeywords) {
			return true
		}
	}
	return false
}

// matchesTextHeuristic reports whether the element's visible text pairs a
// consent keyword with an action keyword, and the element either overlays
// the page or its text is short enough to plausibly be a dialog.
func (s *Sanitizer) matchesTextHeuristic(sel *goquery.Selection) bool {
	text := strings.ToLower(strings.TrimSpace(sel.Text()))
	if text == "" {
		return false
	}
	if !containsAny(text, s.consentKeywords) || !containsAny(text, s.actionKeywords) {
		return false
	}
	return isOverlayPositioned(sel) || len(text) < maxBannerTextLength
}

// neutralizeForms clears every form's action, forces the method to GET, and
// downgrades submit controls to plain buttons. The mirrored origin server no
// longer exists, so any submission would fail or leak data elsewhere.
func (s *Sanitizer) neutralizeForms(doc *goquery.Document) {
	doc.Find("form").Each(func(_ int, form *goquery.Selection) {
		form.SetAttr("action", "")
		form.SetAttr("method", "get")
		form.Find(`input[type="submit"]`).SetAttr("type", "button")
		form.Find(`button[type="submit"]`).SetAttr("type", "button")
	})
}

// isOverlayPositioned reports whether the inline style pins the element with
// fixed, absolute, or sticky positioning. Stylesheet-driven positioning is
// invisible here; the text-length bound covers that case.
func isOverlayPositioned(sel *goquery.Selection) bool {
	style, ok := sel.Attr("style")
	if !ok {
		return false
	}
	style = strings.ToLower(style)
	for _, pos := range overlayPositions {
		if strings.Contains(style, "position:"+pos) || strings.Contains(style, "position: "+pos) {
			return true
		}
	}
	return false
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
