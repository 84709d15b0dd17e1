package sanitize

// The banner heuristics are data driven so the keyword lists can grow
// without touching the traversal logic.

// consentKeywords match cookie and privacy vocabulary in attributes or
// visible text. Includes German equivalents because consent banners are
// frequently localized.
var consentKeywords = []string{
	"cookie",
	"gdpr",
	"privacy",
	"consent",
	"tracking",
	"analytics",
	"datenschutz",
	"einwilligung",
	"dsgvo",
}

// actionKeywords match the button vocabulary of a consent dialog. An
// element's text must pair a consent keyword with an action keyword before
// the text heuristic fires, which keeps ordinary privacy-policy prose alive.
var actionKeywords = []string{
	"accept",
	"decline",
	"agree",
	"reject",
	"manage",
	"configure",
	"akzeptieren",
	"ablehnen",
	"zustimmen",
	"verwalten",
	"einstellungen",
}

// overlayPositions are the CSS position values that pin an element over the
// page content, the way consent dialogs are displayed.
var overlayPositions = []string{
	"fixed",
	"absolute",
	"sticky",
}

// bannerAttributes are the element attributes inspected by the
// attribute-based heuristic.
var bannerAttributes = []string{
	"id",
	"class",
	"role",
	"aria-label",
}

// maxBannerTextLength bounds the text heuristic for elements that are not
// overlay positioned. A consent dialog is short; an article that merely
// mentions cookies is not.
const maxBannerTextLength = 1000
