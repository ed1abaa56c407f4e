package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/koomastudio/postvault"
)

// Compile-time interface verification.
var _ postvault.CollectionService = (*CollectionService)(nil)

// CollectionService implements postvault.CollectionService using SQLite.
type CollectionService struct {
	db *DB
}

// NewCollectionService creates a new CollectionService.
func NewCollectionService(db *DB) *CollectionService {
	return &CollectionService{db: db}
}

// CreateCollection creates a new collection for the user.
func (s *CollectionService) CreateCollection(ctx context.Context, collection *postvault.Collection) error {
	if err := collection.Validate(); err != nil {
		return err
	}

	collection.ID = uuid.New().String()
	collection.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (id, user_id, name, created_at)
		VALUES (?, ?, ?, ?)
	`, collection.ID, collection.UserID, collection.Name, formatTime(collection.CreatedAt))

	return err
}

// FindCollections retrieves all of the user's collections by name.
func (s *CollectionService) FindCollections(ctx context.Context, userID string) ([]*postvault.Collection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, created_at
		FROM collections
		WHERE user_id = ?
		ORDER BY name
	`, userID)
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

// DeleteCollection removes a collection. Links from saved posts cascade;
// the saved posts themselves are untouched.
func (s *CollectionService) DeleteCollection(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM collections WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return postvault.Errorf(postvault.ENOTFOUND, "collection not found")
	}

	return nil
}
