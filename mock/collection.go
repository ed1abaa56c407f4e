package mock

import (
	"context"

	"github.com/koomastudio/postvault"
)

var _ postvault.CollectionService = (*CollectionService)(nil)

// CollectionService is a mock implementation of postvault.CollectionService.
type CollectionService struct {
	CreateCollectionFn func(ctx context.Context, collection *postvault.Collection) error
	FindCollectionsFn  func(ctx context.Context, userID string) ([]*postvault.Collection, error)
	DeleteCollectionFn func(ctx context.Context, userID, id string) error
}

func (s *CollectionService) CreateCollection(ctx context.Context, collection *postvault.Collection) error {
	return s.CreateCollectionFn(ctx, collection)
}

func (s *CollectionService) FindCollections(ctx context.Context, userID string) ([]*postvault.Collection, error) {
	return s.FindCollectionsFn(ctx, userID)
}

func (s *CollectionService) DeleteCollection(ctx context.Context, userID, id string) error {
	return s.DeleteCollectionFn(ctx, userID, id)
}
