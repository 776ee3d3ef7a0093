package csrf

import (
	"net/url"
	"regexp"
	"strings"
)

var absoluteOrSchemeRelative = regexp.MustCompile(`^(//|http:|https:)`)

// OriginClassifier decides whether a request URL targets the page's own origin.
type OriginClassifier struct {
	origin         string // scheme://host[:port]
	schemeRelative string // //host[:port]
}

func NewOriginClassifier(page *url.URL) *OriginClassifier {
	sr := "//" + page.Host
	return &OriginClassifier{
		origin:         page.Scheme + ":" + sr,
		schemeRelative: sr,
	}
}

// IsSafeOrigin reports true for absolute or scheme-relative URLs pointing at the
// page origin, and for every URL that is neither (relative paths are trusted).
func (o *OriginClassifier) IsSafeOrigin(rawURL string) bool {
	if matchesOrigin(rawURL, o.origin) || matchesOrigin(rawURL, o.schemeRelative) {
		return true
	}
	return !absoluteOrSchemeRelative.MatchString(rawURL)
}

func matchesOrigin(u, origin string) bool {
	return u == origin || strings.HasPrefix(u, origin+"/")
}
