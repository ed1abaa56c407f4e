package postvault

import (
	"context"
	"time"
)

// MediaType classifies the media attached to a post. It is a closed
// enumeration; unrecognized signals map to MediaTypeNone, never an error.
type MediaType string

// MediaType values.
const (
	MediaTypeNone     MediaType = ""
	MediaTypePhoto    MediaType = "photo"
	MediaTypeVideo    MediaType = "video"
	MediaTypeCarousel MediaType = "carousel"
)

// ParseMediaType maps a raw string onto the closed MediaType enumeration.
// Anything outside the enumeration yields MediaTypeNone.
func ParseMediaType(s string) MediaType {
	switch MediaType(s) {
	case MediaTypePhoto, MediaTypeVideo, MediaTypeCarousel:
		return MediaType(s)
	}
	return MediaTypeNone
}

// Post represents a canonical captured post. A post is stored once and shared
// across every user who saves it; the PostURL, when present, is unique and
// acts as the deduplication key. Rows are effectively immutable after
// creation (first-write-wins).
type Post struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	AuthorName string    `json:"authorName,omitempty"`
	AuthorURL  string    `json:"authorUrl,omitempty"`
	PostURL    string    `json:"postUrl,omitempty"`
	EmbedURL   string    `json:"embedUrl,omitempty"`
	MediaType  MediaType `json:"mediaType,omitempty"`
	CoverImage string    `json:"coverImage,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Validate returns an error if the post contains invalid fields.
func (p *Post) Validate() error {
	if p.Content == "" {
		return Errorf(EINVALID, "post content required")
	}
	if ParseMediaType(string(p.MediaType)) != p.MediaType {
		return Errorf(EINVALID, "unknown media type %q", p.MediaType)
	}
	return nil
}

// PostService represents a service for managing canonical posts.
type PostService interface {
	// ResolvePost resolves a post to its canonical identity.
	//
	// When post.PostURL is set and a row with the same URL already exists,
	// the stored row wins: *post is overwritten with the stored version and
	// created is false. Otherwise a new row is inserted and created is true.
	// Concurrent calls with the same URL converge on exactly one row.
	ResolvePost(ctx context.Context, post *Post) (created bool, err error)

	// FindPostByID retrieves a post by ID.
	// Returns ENOTFOUND if the post does not exist.
	FindPostByID(ctx context.Context, id string) (*Post, error)

	// FindPostByURL retrieves a post by its canonical URL.
	// Returns ENOTFOUND if no post has that URL.
	FindPostByURL(ctx context.Context, url string) (*Post, error)
}
