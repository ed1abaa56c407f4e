package extract

import (
	"regexp"
	"strings"

	"github.com/koomastudio/postvault"
)

var (
	ogTitleAuthorRE   = regexp.MustCompile(`\|\s*([^|]+?)\s*$`)
	onPlatformRE      = regexp.MustCompile(`(?i)^(.+?)\s+on\s+` + platformName)
	profileHrefRE     = regexp.MustCompile(`(?i)^https://[^/]*linkedin\.com/in/`)
	postHrefRE        = regexp.MustCompile(`^https://www\.linkedin\.com/(?:feed/update|posts)/`)
	carouselItemRE    = regexp.MustCompile(`(?i)<li[^>]*class="[^"]*bg-color-background`)
)

// candidateFromEmbedPage reads a candidate out of a fetched embed page.
// Returns nil when no non-trivial content can be found.
func candidateFromEmbedPage(src postvault.DocumentSource, embedURL string) *postvault.Candidate {
	content := embedContent(src)
	if content == "" {
		return nil
	}

	return &postvault.Candidate{
		Content:    content,
		AuthorName: embedAuthorName(src),
		AuthorURL:  embedAuthorURL(src),
		PostURL:    embedPostURL(src),
		EmbedURL:   embedURL,
		MediaType:  mediaTypeFromMarkup(src.Markup()),
		CoverImage: metaProperty(src, "og:image"),
	}
}

// embedContent reads post text in priority order: the attributed content
// block, the commentary element, the OpenGraph description, and finally the
// generic description meta. The first non-trivial hit wins.
func embedContent(src postvault.DocumentSource) string {
	for _, selector := range []string{
		"p.attributed-text-segment-list__content",
		`p[data-test-id="main-feed-activity-embed-card__commentary"]`,
	} {
		if nodes := src.Select(selector); len(nodes) > 0 {
			if cleaned := postvault.CleanText(nodes[0].Markup()); len(cleaned) > minContentLength {
				return cleaned
			}
		}
	}

	if desc := metaProperty(src, "og:description"); len(desc) > minContentLength {
		return desc
	}
	if desc := metaName(src, "description"); len(desc) > minContentLength {
		return desc
	}
	return ""
}

// embedAuthorName prefers the tracking-attributed author link, then falls
// back to parsing the OpenGraph title: "<text> | <author>" first, then
// "<author> on <platform>".
func embedAuthorName(src postvault.DocumentSource) string {
	if nodes := src.Select(`a[data-tracking-control-name="public_post_embed_feed-actor-name"]`); len(nodes) > 0 {
		if name := strings.TrimSpace(nodes[0].Text()); name != "" {
			return name
		}
	}
	return authorFromEmbedTitle(metaProperty(src, "og:title"))
}

func authorFromEmbedTitle(title string) string {
	if title == "" {
		return ""
	}
	if m := ogTitleAuthorRE.FindStringSubmatch(title); m != nil {
		return strings.TrimSpace(m[1])
	}
	return authorFromPlatformTitle(title)
}

// authorFromPlatformTitle parses the "<author> on <platform>" title shape.
func authorFromPlatformTitle(title string) string {
	if m := onPlatformRE.FindStringSubmatch(title); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// embedAuthorURL returns the first link matching the profile path shape,
// canonicalized. Country subdomains (id.linkedin.com) are accepted.
func embedAuthorURL(src postvault.DocumentSource) string {
	return firstLink(src, profileHrefRE)
}

// embedPostURL returns the first link matching the feed/update or posts path
// shape found anywhere on the page, canonicalized.
func embedPostURL(src postvault.DocumentSource) string {
	return firstLink(src, postHrefRE)
}

func firstLink(src postvault.DocumentSource, re *regexp.Regexp) string {
	for _, node := range src.Select("a[href]") {
		href, _ := node.Attr("href")
		if re.MatchString(href) {
			return postvault.CanonicalURL(href)
		}
	}
	return ""
}

// metaProperty returns the content of a <meta property=...> tag.
func metaProperty(src postvault.DocumentSource, property string) string {
	return metaContent(src, `meta[property="`+property+`"]`)
}

// metaName returns the content of a <meta name=...> tag.
func metaName(src postvault.DocumentSource, name string) string {
	return metaContent(src, `meta[name="`+name+`"]`)
}

func metaContent(src postvault.DocumentSource, selector string) string {
	nodes := src.Select(selector)
	if len(nodes) == 0 {
		return ""
	}
	content, _ := nodes[0].Attr("content")
	return strings.TrimSpace(content)
}
