package assets

import (
	"net/url"
	"regexp"
	"strings"
)

// cssURLPattern matches url(...) references in stylesheet text, with or
// without quotes.
var cssURLPattern = regexp.MustCompile(`url\(['"]?(.*?)['"]?\)`)

// processCSS rewrites same-site url() references in a downloaded stylesheet
// and registers each referenced asset for download. References resolve
// against the stylesheet's own source URL, not against any page, and the
// rewritten paths are relative to the stylesheet's own output location.
// Registration extends the set currently being drained; that is the point.
func (d *Downloader) processCSS(cssSourceURL, cssLocalPath string, body []byte) []byte {
	base, err := url.Parse(cssSourceURL)
	if err != nil {
		return body
	}

	return cssURLPattern.ReplaceAllFunc(body, func(match []byte) []byte {
		ref := cssURLPattern.FindSubmatch(match)
		if ref == nil {
			return match
		}

		raw := strings.TrimSpace(string(ref[1]))
		if raw == "" || strings.HasPrefix(raw, "data:") || strings.HasPrefix(raw, "#") {
			return match
		}

		refURL, err := url.Parse(raw)
		if err != nil {
			return match
		}
		absolute := base.ResolveReference(refURL).String()

		if !d.classifier.IsValidAsset(absolute) {
			return match
		}

		if d.registry.Add(absolute) {
			d.logger.Debug("asset registered from stylesheet",
				"stylesheet", cssSourceURL,
				"asset", absolute,
			)
		}

		relative := relativeToCSS(cssLocalPath, LocalPath(absolute))
		return []byte("url('" + relative + "')")
	})
}

// relativeToCSS computes the path of an asset relative to the directory the
// stylesheet itself is written to.
func relativeToCSS(cssLocalPath, assetLocalPath string) string {
	depth := strings.Count(cssLocalPath, "/")
	if depth == 0 {
		return "./" + assetLocalPath
	}
	return strings.Repeat("../", depth) + assetLocalPath
}
