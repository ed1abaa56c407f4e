package postvault

import (
	"context"
	"time"
)

// SavedPost represents one save event: a user's link to a canonical post,
// with the user's own tags and notes attached. Many saved posts can
// reference the same Post; deleting a saved post never deletes the Post.
type SavedPost struct {
	ID     string   `json:"id"`
	UserID string   `json:"userId"`
	PostID string   `json:"postId"`
	Tags   []string `json:"tags"`
	Notes  string   `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`

	// Post is the referenced canonical post, populated on reads.
	Post *Post `json:"post,omitempty"`

	// Collections the saved post belongs to, populated on reads.
	Collections []*Collection `json:"collections,omitempty"`
}

// Validate returns an error if the saved post contains invalid fields.
func (s *SavedPost) Validate() error {
	if s.UserID == "" {
		return Errorf(EINVALID, "saved post user ID required")
	}
	if s.PostID == "" {
		return Errorf(EINVALID, "saved post post ID required")
	}
	return nil
}

// SavedPostFilter represents a filter for FindSavedPosts.
type SavedPostFilter struct {
	// CollectionID restricts results to one collection.
	CollectionID *string `json:"collectionId"`

	// Search is a case-insensitive substring match over post content,
	// author name, tags, and notes.
	Search string `json:"search"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// SavedPostUpdate represents fields that can be updated on a saved post.
// Nil fields are left unchanged.
type SavedPostUpdate struct {
	Tags  *[]string `json:"tags"`
	Notes *string   `json:"notes"`

	// CollectionIDs, when set, replaces the saved post's collection links.
	CollectionIDs *[]string `json:"collectionIds"`
}

// SavedPostService represents a service for managing a user's library.
// All operations are scoped to the owning user.
type SavedPostService interface {
	// CreateSavedPost saves a post into the user's library, optionally
	// linking it into collections.
	CreateSavedPost(ctx context.Context, saved *SavedPost, collectionIDs []string) error

	// FindSavedPostByID retrieves one of the user's saved posts.
	// Returns ENOTFOUND if it does not exist or belongs to another user.
	FindSavedPostByID(ctx context.Context, userID, id string) (*SavedPost, error)

	// FindSavedPosts retrieves the user's saved posts matching the filter,
	// most recent first.
	FindSavedPosts(ctx context.Context, userID string, filter SavedPostFilter) ([]*SavedPost, error)

	// UpdateSavedPost updates tags, notes, or collection links.
	// Returns ENOTFOUND if the saved post does not exist or belongs to
	// another user.
	UpdateSavedPost(ctx context.Context, userID, id string, upd SavedPostUpdate) (*SavedPost, error)

	// DeleteSavedPost removes a saved post from the user's library. The
	// underlying canonical post is retained.
	DeleteSavedPost(ctx context.Context, userID, id string) error
}
