package postvault

import "context"

// Strategy identifies which extraction strategy produced a candidate.
type Strategy string

// Extraction strategies, in the order the extractor attempts them.
const (
	StrategyLiveDocument  Strategy = "live_document"
	StrategyEmbedSnippet  Strategy = "embed_snippet"
	StrategyEmbedURL      Strategy = "embed_url"
	StrategyFeedUpdateURL Strategy = "feed_update_url"
	StrategyPostURL       Strategy = "post_url"
)

// Candidate holds the fields extracted from a single source before
// normalization into a canonical Post. All fields are optional; a candidate
// is created fresh per extraction attempt and never persisted directly.
type Candidate struct {
	Content    string    `json:"content,omitempty"`
	AuthorName string    `json:"authorName,omitempty"`
	AuthorURL  string    `json:"authorUrl,omitempty"`
	PostURL    string    `json:"postUrl,omitempty"`
	EmbedURL   string    `json:"embedUrl,omitempty"`
	MediaType  MediaType `json:"mediaType,omitempty"`
	CoverImage string    `json:"coverImage,omitempty"`

	// Strategy records the candidate's provenance.
	Strategy Strategy `json:"strategy,omitempty"`
}

// Post converts a candidate into an unsaved canonical post.
func (c *Candidate) Post() *Post {
	return &Post{
		Content:    c.Content,
		AuthorName: c.AuthorName,
		AuthorURL:  c.AuthorURL,
		PostURL:    c.PostURL,
		EmbedURL:   c.EmbedURL,
		MediaType:  c.MediaType,
		CoverImage: c.CoverImage,
	}
}

// Extractor produces candidates from the supported input shapes.
//
// Extraction failure is a normal outcome, not an error: both methods return
// (nil, nil) when no content could be derived, so callers can offer a
// manual-entry path. Errors are reserved for malformed inputs.
type Extractor interface {
	// ExtractInput runs the ordered strategy chain against a pasted input:
	// an embed snippet, a direct embed URL, a feed/update URL, or a bare
	// post link. Strategies that require an outbound fetch fail softly on
	// timeout or a non-success status.
	ExtractInput(ctx context.Context, input string) (*Candidate, error)

	// ExtractDocument runs the live-document strategies against an already
	// available document, such as a post fragment captured in the page.
	// No outbound fetch is performed.
	ExtractDocument(src DocumentSource) (*Candidate, error)
}
