// Package extract turns the supported input shapes into post candidates.
// It runs ordered, first-match-wins strategy chains: a live document is read
// through selector tiers, while pasted inputs (embed snippets, embed URLs,
// feed/update URLs, bare post links) trigger at most one outbound fetch of
// the corresponding embed page. Failure at any point is soft: the extractor
// reports "no candidate" rather than an error so callers can fall back to
// manual entry.
package extract

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/koomastudio/postvault"
	"golang.org/x/sync/singleflight"
)

// Fetch budgets per strategy tier.
const (
	// EmbedFetchTimeout bounds the single outbound fetch of an embed page.
	EmbedFetchTimeout = 15 * time.Second

	// PostFetchTimeout bounds the metadata-only fetch of a bare post URL.
	PostFetchTimeout = 10 * time.Second
)

// minContentLength is the shortest content hit a strategy accepts; anything
// at or below it is treated as trivial and the chain continues.
const minContentLength = 10

// Platform URL shapes.
const (
	platformHost  = "www.linkedin.com"
	platformName  = "LinkedIn"
	embedURLBase  = "https://www.linkedin.com/embed/feed/update/"
	updateURLBase = "https://www.linkedin.com/feed/update/"
)

var (
	embedSnippetRE = regexp.MustCompile(`(?i)src=["']([^"']*linkedin\.com/embed/[^"']*)["']`)
	urnRE          = regexp.MustCompile(`urn:li:\w+:\d+`)
	activityURNRE  = regexp.MustCompile(`urn:li:activity:(\d+)`)
	collapsedRE    = regexp.MustCompile(`[?&]collapsed=\d+`)
)

// ParseFunc parses fetched markup into a queryable source.
type ParseFunc func(markup string) (postvault.DocumentSource, error)

// Ensure Extractor implements postvault.Extractor at compile time.
var _ postvault.Extractor = (*Extractor)(nil)

// Extractor implements postvault.Extractor. Strategy tiers run strictly
// sequentially with a single outstanding fetch; concurrent extractions of
// the same URL share one fetch.
type Extractor struct {
	// Fetcher performs outbound page fetches.
	Fetcher postvault.Fetcher

	// Parse turns fetched markup into a DocumentSource.
	Parse ParseFunc

	// Limiter, if set, paces outbound fetches per host.
	Limiter *HostLimiter

	group singleflight.Group
}

// New creates an Extractor with the given fetcher and parser.
func New(fetcher postvault.Fetcher, parse ParseFunc) *Extractor {
	return &Extractor{Fetcher: fetcher, Parse: parse}
}

// ExtractInput runs the pasted-input strategy chain, stopping at the first
// strategy that matches the input's shape. Returns (nil, nil) when no
// strategy matches or the matched strategy fails softly.
func (e *Extractor) ExtractInput(ctx context.Context, input string) (*postvault.Candidate, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, postvault.Errorf(postvault.EINVALID, "extraction input required")
	}

	// 1. Embed snippet: lift the embed URL out of the iframe markup.
	if m := embedSnippetRE.FindStringSubmatch(trimmed); m != nil {
		return e.fromEmbedURL(ctx, m[1], postvault.StrategyEmbedSnippet)
	}

	// 2. Direct embed URL.
	if strings.Contains(trimmed, "linkedin.com/embed/") {
		return e.fromEmbedURL(ctx, trimmed, postvault.StrategyEmbedURL)
	}

	// 3. Feed/update URL: convert the activity URN to its embed page.
	if strings.Contains(trimmed, "linkedin.com/") && strings.Contains(trimmed, "feed/update/") {
		if urn := urnRE.FindString(trimmed); urn != "" {
			return e.fromEmbedURL(ctx, embedURLBase+urn, postvault.StrategyFeedUpdateURL)
		}
	}

	// 4. Generic post URL ("copy link"): OpenGraph metadata only.
	if strings.Contains(trimmed, "linkedin.com/") && strings.Contains(trimmed, "/posts/") {
		return e.fromPostURL(ctx, trimmed)
	}

	return nil, nil
}

// fromEmbedURL fetches the expanded embed page and extracts a candidate from
// its markup. Any fetch or parse failure, including timeout, is soft.
func (e *Extractor) fromEmbedURL(ctx context.Context, rawEmbedURL string, strategy postvault.Strategy) (*postvault.Candidate, error) {
	expanded := expandEmbedURL(rawEmbedURL)

	src, ok := e.fetchSource(ctx, expanded, EmbedFetchTimeout)
	if !ok {
		return nil, nil
	}

	c := candidateFromEmbedPage(src, expanded)
	if c == nil {
		return nil, nil
	}
	c.Strategy = strategy
	return c, nil
}

// fromPostURL fetches only the page's OpenGraph metadata.
func (e *Extractor) fromPostURL(ctx context.Context, rawURL string) (*postvault.Candidate, error) {
	cleanURL := postvault.CanonicalURL(rawURL)

	src, ok := e.fetchSource(ctx, cleanURL, PostFetchTimeout)
	if !ok {
		return nil, nil
	}

	ogTitle := metaProperty(src, "og:title")
	ogDesc := metaProperty(src, "og:description")
	ogImage := metaProperty(src, "og:image")

	content := ogDesc
	if content == "" {
		content = ogTitle
	}
	if content == "" {
		return nil, nil
	}

	return &postvault.Candidate{
		Content:    content,
		AuthorName: authorFromPlatformTitle(ogTitle),
		PostURL:    cleanURL,
		CoverImage: ogImage,
		MediaType:  postvault.MediaTypeNone,
		Strategy:   postvault.StrategyPostURL,
	}, nil
}

// fetchSource fetches url within the timeout and parses the result.
// Concurrent calls for the same URL collapse into a single fetch. The false
// return covers every failure mode: timeout, non-success status, parse error.
func (e *Extractor) fetchSource(ctx context.Context, fetchURL string, timeout time.Duration) (postvault.DocumentSource, bool) {
	if e.Limiter != nil {
		if u, err := url.Parse(fetchURL); err == nil {
			if err := e.Limiter.Wait(ctx, u.Host); err != nil {
				return nil, false
			}
		}
	}

	markup, err, _ := e.group.Do(fetchURL, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return e.Fetcher.Fetch(fetchCtx, fetchURL)
	})
	if err != nil {
		return nil, false
	}

	src, err := e.Parse(markup.(string))
	if err != nil {
		return nil, false
	}
	return src, true
}

// expandEmbedURL strips the collapsed display flag from an embed URL so the
// server renders the page with full, untruncated text.
func expandEmbedURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return collapsedRE.ReplaceAllString(rawURL, "")
	}
	q := u.Query()
	q.Del("collapsed")
	u.RawQuery = q.Encode()
	return u.String()
}

// activityURN extracts a normalized activity URN from s, if present.
func activityURN(s string) (string, bool) {
	m := activityURNRE.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return "urn:li:activity:" + m[1], true
}
