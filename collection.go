package postvault

import (
	"context"
	"time"
)

// Collection represents a user-defined grouping of saved posts.
type Collection struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate returns an error if the collection contains invalid fields.
func (c *Collection) Validate() error {
	if c.UserID == "" {
		return Errorf(EINVALID, "collection user ID required")
	}
	if c.Name == "" {
		return Errorf(EINVALID, "collection name required")
	}
	return nil
}

// CollectionService represents a service for managing collections.
type CollectionService interface {
	// CreateCollection creates a new collection for the user.
	CreateCollection(ctx context.Context, collection *Collection) error

	// FindCollections retrieves all of the user's collections by name.
	FindCollections(ctx context.Context, userID string) ([]*Collection, error)

	// DeleteCollection removes a collection. Saved posts linked to it are
	// kept; only the links are removed.
	// Returns ENOTFOUND if the collection does not exist or belongs to
	// another user.
	DeleteCollection(ctx context.Context, userID, id string) error
}
