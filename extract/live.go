package extract

import (
	"strconv"
	"strings"

	"github.com/koomastudio/postvault"
)

// maxAncestorClimb bounds the search for an activity identifier attribute on
// the post element's ancestors.
const maxAncestorClimb = 4

// ExtractDocument runs the live-document strategies against an already
// available document, such as a post fragment captured in the page. No
// outbound fetch is performed. Returns (nil, nil) when no content can be
// derived.
func (e *Extractor) ExtractDocument(src postvault.DocumentSource) (*postvault.Candidate, error) {
	content := liveContent(src)
	if content == "" {
		return nil, nil
	}

	c := &postvault.Candidate{
		Content:    content,
		MediaType:  mediaTypeFromDocument(src),
		CoverImage: liveCoverImage(src),
		Strategy:   postvault.StrategyLiveDocument,
	}

	actor := liveActorLink(src)
	c.AuthorName = liveAuthorName(src, actor)
	if actor != nil {
		if href, ok := actor.Attr("href"); ok {
			c.AuthorURL = postvault.CanonicalURL(absoluteURL(href))
		}
	}

	c.PostURL, c.EmbedURL = livePostURL(src)
	return c, nil
}

// liveContent prefers the attributed text blocks; if absent, collects the
// visible description spans. Multiple segments join with newlines.
func liveContent(src postvault.DocumentSource) string {
	segments := src.Select(".attributed-text-segment-list__content")
	if len(segments) == 0 {
		segments = src.Select(".feed-shared-update-v2__description span[dir]")
	}

	var parts []string
	for _, seg := range segments {
		if text := strings.TrimSpace(seg.Text()); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}

// liveActorLink resolves the author link via three selector alternatives in
// priority order.
func liveActorLink(src postvault.DocumentSource) postvault.Node {
	for _, selector := range []string{
		"a.update-components-actor__meta-link",
		".feed-shared-actor__container-link",
		"a[href*='/in/']",
	} {
		if nodes := src.Select(selector); len(nodes) > 0 {
			return nodes[0]
		}
	}
	return nil
}

// liveAuthorName prefers a dedicated name element near the actor link, then
// the first visible text node inside the link itself.
func liveAuthorName(src postvault.DocumentSource, actor postvault.Node) string {
	for _, selector := range []string{
		".public_post_embed_feed-actor-name",
		".update-components-actor__name span[aria-hidden='true']",
		".update-components-actor__name",
		".feed-shared-actor__name",
	} {
		if nodes := src.Select(selector); len(nodes) > 0 {
			if name := strings.TrimSpace(nodes[0].Text()); name != "" {
				return name
			}
		}
	}

	if actor == nil {
		return ""
	}
	if spans := actor.Select("span[aria-hidden='true']"); len(spans) > 0 {
		if name := strings.TrimSpace(spans[0].Text()); name != "" {
			return name
		}
	}
	return strings.TrimSpace(actor.Text())
}

// livePostURL resolves the canonical post URL and embed URL through three
// tiers, each short-circuiting on first success: an activity identifier
// attribute on the post element or its ancestors, a descendant link bearing
// an activity identifier, and finally a timestamp/permalink anchor.
func livePostURL(src postvault.DocumentSource) (postURL, embedURL string) {
	// Tier 1: data-urn/data-id on the post element or up to 4 ancestors.
	if node := livePostElement(src); node != nil {
		if urn, ok := climbActivityURN(node); ok {
			return updateURLBase + urn, embedURLBase + urn
		}
	}

	// Tier 2: any descendant link whose href carries an activity URN.
	for _, link := range src.Select("a[href*='activity']") {
		href, _ := link.Attr("href")
		if urn, ok := activityURN(href); ok {
			return updateURLBase + urn, embedURLBase + urn
		}
	}

	// Tier 3: timestamp/permalink anchor, canonicalized.
	for _, selector := range []string{
		"a[href*='/feed/update/']",
		"a.app-aware-link[href*='/posts/']",
		"a:has(time)",
	} {
		if nodes := src.Select(selector); len(nodes) > 0 {
			href, _ := nodes[0].Attr("href")
			clean := postvault.CanonicalURL(absoluteURL(href))
			if urn, ok := activityURN(clean); ok {
				return updateURLBase + urn, embedURLBase + urn
			}
			return clean, ""
		}
	}

	return "", ""
}

// livePostElement locates the post container within the document.
func livePostElement(src postvault.DocumentSource) postvault.Node {
	for _, selector := range []string{"[data-urn]", "[data-id]", ".feed-shared-update-v2", "article"} {
		if nodes := src.Select(selector); len(nodes) > 0 {
			return nodes[0]
		}
	}
	return nil
}

// climbActivityURN walks the node and its ancestors looking for an activity
// identifier attribute.
func climbActivityURN(node postvault.Node) (string, bool) {
	v, ok := postvault.ClimbAttr(node, maxAncestorClimb, func(v string) bool {
		return strings.Contains(v, "activity")
	}, "data-urn", "data-id")
	if !ok {
		return "", false
	}
	return activityURN(v)
}

// liveCoverImage scans images in document order, skipping inline data URIs
// and declared-width-1 tracking pixels; widths of 0 (unknown) or above 80
// qualify.
func liveCoverImage(src postvault.DocumentSource) string {
	for _, img := range src.Select("img") {
		imgSrc, _ := img.Attr("src")
		if imgSrc == "" || strings.Contains(imgSrc, "data:") {
			continue
		}
		w := 0
		if ws, ok := img.Attr("width"); ok {
			w, _ = strconv.Atoi(ws)
		}
		if w == 1 {
			continue
		}
		if w == 0 || w > 80 {
			return imgSrc
		}
	}
	return ""
}

// absoluteURL resolves a platform-relative path to an absolute URL.
func absoluteURL(href string) string {
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	return "https://" + platformHost + href
}
