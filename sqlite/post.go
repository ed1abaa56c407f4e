package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/koomastudio/postvault"
)

// Compile-time interface verification.
var _ postvault.PostService = (*PostService)(nil)

// PostService implements postvault.PostService using SQLite.
type PostService struct {
	db *DB
}

// NewPostService creates a new PostService.
func NewPostService(db *DB) *PostService {
	return &PostService{db: db}
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, xxhash.Sum64String(content))
	return hex.EncodeToString(b)
}

// ResolvePost resolves a post to its canonical identity.
//
// Posts with a URL are deduplicated on it: the insert is a no-op when a row
// with the same URL exists, and *post is overwritten with the stored row.
// The conflict is resolved inside SQLite, so concurrent calls with the same
// URL converge on exactly one row. Posts without a URL always insert.
func (s *PostService) ResolvePost(ctx context.Context, post *postvault.Post) (bool, error) {
	if err := post.Validate(); err != nil {
		return false, err
	}

	post.ID = uuid.New().String()
	post.CreatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (id, content, content_hash, author_name, author_url, post_url, embed_url, media_type, cover_image, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(post_url) DO NOTHING
	`, post.ID, post.Content, hashContent(post.Content), post.AuthorName, post.AuthorURL,
		nullString(post.PostURL), post.EmbedURL, string(post.MediaType), post.CoverImage,
		formatTime(post.CreatedAt))
	if err != nil {
		return false, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}

	// The URL is already taken; the stored row wins.
	stored, err := s.FindPostByURL(ctx, post.PostURL)
	if err != nil {
		return false, err
	}
	*post = *stored
	return false, nil
}

// FindPostByID retrieves a post by ID.
func (s *PostService) FindPostByID(ctx context.Context, id string) (*postvault.Post, error) {
	return s.findPost(ctx, "id = ?", id)
}

// FindPostByURL retrieves a post by its canonical URL.
func (s *PostService) FindPostByURL(ctx context.Context, url string) (*postvault.Post, error) {
	return s.findPost(ctx, "post_url = ?", url)
}

func (s *PostService) findPost(ctx context.Context, where string, arg any) (*postvault.Post, error) {
	var post postvault.Post
	var postURL sql.NullString
	var mediaType, createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, content, author_name, author_url, post_url, embed_url, media_type, cover_image, created_at
		FROM posts
		WHERE `+where,
		arg).Scan(&post.ID, &post.Content, &post.AuthorName, &post.AuthorURL,
		&postURL, &post.EmbedURL, &mediaType, &post.CoverImage, &createdAt)

	if err == sql.ErrNoRows {
		return nil, postvault.Errorf(postvault.ENOTFOUND, "post not found")
	}
	if err != nil {
		return nil, err
	}

	post.PostURL = postURL.String
	post.MediaType = postvault.ParseMediaType(mediaType)

	post.CreatedAt, err = parseRFC3339(createdAt, "created_at")
	if err != nil {
		return nil, err
	}

	return &post, nil
}
