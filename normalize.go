package postvault

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	brTagRE    = regexp.MustCompile(`(?i)<br\s*/?>`)
	anyTagRE   = regexp.MustCompile(`<[^>]+>`)
	newlinesRE = regexp.MustCompile(`\n{3,}`)
)

// entityReplacer decodes the fixed entity set that appears in platform
// markup. Deliberately not a general-purpose HTML decoder: the set is part
// of the pipeline's observable behavior.
var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&#x27;", "'",
	"&nbsp;", " ",
)

// CanonicalURL reduces a URL to its canonical form: scheme, host, and path
// only, with query string and fragment discarded. The operation is
// idempotent. Unparsable input is returned trimmed but otherwise unchanged.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}
	return u.Scheme + "://" + u.Host + u.Path
}

// CleanText converts a fragment of markup into plain text: line-break tags
// become newlines, remaining tags are stripped, the fixed entity set is
// decoded, and runs of three or more newlines collapse to exactly two.
func CleanText(markup string) string {
	s := brTagRE.ReplaceAllString(markup, "\n")
	s = anyTagRE.ReplaceAllString(s, "")
	s = entityReplacer.Replace(s)
	s = newlinesRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
