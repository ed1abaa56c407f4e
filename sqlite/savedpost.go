package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/koomastudio/postvault"
)

// Compile-time interface verification.
var _ postvault.SavedPostService = (*SavedPostService)(nil)

// SavedPostService implements postvault.SavedPostService using SQLite.
type SavedPostService struct {
	db *DB
}

// NewSavedPostService creates a new SavedPostService.
func NewSavedPostService(db *DB) *SavedPostService {
	return &SavedPostService{db: db}
}

// CreateSavedPost saves a post into the user's library, optionally linking
// it into collections. The row and its collection links commit together.
func (s *SavedPostService) CreateSavedPost(ctx context.Context, saved *postvault.SavedPost, collectionIDs []string) error {
	if err := saved.Validate(); err != nil {
		return err
	}

	saved.ID = uuid.New().String()
	saved.CreatedAt = time.Now().UTC()

	tags, err := marshalTags(saved.Tags)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO saved_posts (id, user_id, post_id, tags, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, saved.ID, saved.UserID, saved.PostID, tags, saved.Notes, formatTime(saved.CreatedAt)); err != nil {
		return err
	}

	if err := linkCollections(ctx, tx, saved.ID, saved.UserID, collectionIDs); err != nil {
		return err
	}

	return tx.Commit()
}

// linkCollections inserts collection links for a saved post. Ownership is
// checked via the INSERT ... SELECT: a collection belonging to another user
// matches no row, which is reported as EINVALID rather than silently skipped.
func linkCollections(ctx context.Context, tx *sql.Tx, savedPostID, userID string, collectionIDs []string) error {
	for _, collectionID := range collectionIDs {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO saved_post_collections (saved_post_id, collection_id)
			SELECT ?, id FROM collections WHERE id = ? AND user_id = ?
		`, savedPostID, collectionID, userID)
		if err != nil {
			return err
		}

		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return postvault.Errorf(postvault.EINVALID, "unknown collection %q", collectionID)
		}
	}
	return nil
}

// FindSavedPostByID retrieves one of the user's saved posts.
func (s *SavedPostService) FindSavedPostByID(ctx context.Context, userID, id string) (*postvault.SavedPost, error) {
	saved, err := s.scanSavedPost(s.db.QueryRowContext(ctx,
		selectSavedPost+" WHERE sp.id = ? AND sp.user_id = ?", id, userID))
	if err == sql.ErrNoRows {
		return nil, postvault.Errorf(postvault.ENOTFOUND, "saved post not found")
	}
	if err != nil {
		return nil, err
	}

	if saved.Collections, err = s.findPostCollections(ctx, saved.ID); err != nil {
		return nil, err
	}

	return saved, nil
}

// FindSavedPosts retrieves the user's saved posts matching the filter,
// most recent first.
func (s *SavedPostService) FindSavedPosts(ctx context.Context, userID string, filter postvault.SavedPostFilter) ([]*postvault.SavedPost, error) {
	var query strings.Builder
	var args []any

	query.WriteString(selectSavedPost)
	query.WriteString(" WHERE sp.user_id = ?")
	args = append(args, userID)

	if filter.CollectionID != nil {
		query.WriteString(" AND sp.id IN (SELECT saved_post_id FROM saved_post_collections WHERE collection_id = ?)")
		args = append(args, *filter.CollectionID)
	}
	if filter.Search != "" {
		query.WriteString(" AND (p.content LIKE ? OR p.author_name LIKE ? OR sp.tags LIKE ? OR sp.notes LIKE ?)")
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern, pattern, pattern)
	}

	query.WriteString(" ORDER BY sp.created_at DESC, sp.id")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var saves []*postvault.SavedPost
	for rows.Next() {
		saved, err := s.scanSavedPost(rows)
		if err != nil {
			return nil, err
		}
		saves = append(saves, saved)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, saved := range saves {
		if saved.Collections, err = s.findPostCollections(ctx, saved.ID); err != nil {
			return nil, err
		}
	}

	return saves, nil
}

// UpdateSavedPost updates tags, notes, or collection links.
func (s *SavedPostService) UpdateSavedPost(ctx context.Context, userID, id string, upd postvault.SavedPostUpdate) (*postvault.SavedPost, error) {
	saved, err := s.FindSavedPostByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if upd.Tags != nil {
		saved.Tags = *upd.Tags
	}
	if upd.Notes != nil {
		saved.Notes = *upd.Notes
	}

	tags, err := marshalTags(saved.Tags)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE saved_posts SET tags = ?, notes = ? WHERE id = ? AND user_id = ?
	`, tags, saved.Notes, id, userID); err != nil {
		return nil, err
	}

	if upd.CollectionIDs != nil {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM saved_post_collections WHERE saved_post_id = ?", id); err != nil {
			return nil, err
		}
		if err := linkCollections(ctx, tx, id, userID, *upd.CollectionIDs); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	if saved.Collections, err = s.findPostCollections(ctx, id); err != nil {
		return nil, err
	}

	return saved, nil
}

// DeleteSavedPost removes a saved post from the user's library. The
// underlying canonical post is retained.
func (s *SavedPostService) DeleteSavedPost(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM saved_posts WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return postvault.Errorf(postvault.ENOTFOUND, "saved post not found")
	}

	return nil
}

const selectSavedPost = `
	SELECT sp.id, sp.user_id, sp.post_id, sp.tags, sp.notes, sp.created_at,
	       p.id, p.content, p.author_name, p.author_url, p.post_url, p.embed_url, p.media_type, p.cover_image, p.created_at
	FROM saved_posts sp
	JOIN posts p ON p.id = sp.post_id`

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func (s *SavedPostService) scanSavedPost(row scanner) (*postvault.SavedPost, error) {
	var saved postvault.SavedPost
	var post postvault.Post
	var tags, savedAt, mediaType, postAt string
	var postURL sql.NullString

	if err := row.Scan(&saved.ID, &saved.UserID, &saved.PostID, &tags, &saved.Notes, &savedAt,
		&post.ID, &post.Content, &post.AuthorName, &post.AuthorURL, &postURL,
		&post.EmbedURL, &mediaType, &post.CoverImage, &postAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tags), &saved.Tags); err != nil {
		return nil, fmt.Errorf("failed to parse tags: %w", err)
	}

	var err error
	if saved.CreatedAt, err = parseRFC3339(savedAt, "created_at"); err != nil {
		return nil, err
	}

	post.PostURL = postURL.String
	post.MediaType = postvault.ParseMediaType(mediaType)
	if post.CreatedAt, err = parseRFC3339(postAt, "post created_at"); err != nil {
		return nil, err
	}

	saved.Post = &post
	return &saved, nil
}

func (s *SavedPostService) findPostCollections(ctx context.Context, savedPostID string) ([]*postvault.Collection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.user_id, c.name, c.created_at
		FROM collections c
		JOIN saved_post_collections spc ON spc.collection_id = c.id
		WHERE spc.saved_post_id = ?
		ORDER BY c.name
	`, savedPostID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collections []*postvault.Collection
	for rows.Next() {
		var c postvault.Collection
		var createdAt string
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &createdAt); err != nil {
			return nil, err
		}
		if c.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		collections = append(collections, &c)
	}

	return collections, rows.Err()
}

// marshalTags renders tags as a JSON array, never null.
func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to encode tags: %w", err)
	}
	return string(b), nil
}
