package mock

import (
	"context"

	"github.com/koomastudio/postvault"
)

var _ postvault.SavedPostService = (*SavedPostService)(nil)

// SavedPostService is a mock implementation of postvault.SavedPostService.
type SavedPostService struct {
	CreateSavedPostFn   func(ctx context.Context, saved *postvault.SavedPost, collectionIDs []string) error
	FindSavedPostByIDFn func(ctx context.Context, userID, id string) (*postvault.SavedPost, error)
	FindSavedPostsFn    func(ctx context.Context, userID string, filter postvault.SavedPostFilter) ([]*postvault.SavedPost, error)
	UpdateSavedPostFn   func(ctx context.Context, userID, id string, upd postvault.SavedPostUpdate) (*postvault.SavedPost, error)
	DeleteSavedPostFn   func(ctx context.Context, userID, id string) error
}

func (s *SavedPostService) CreateSavedPost(ctx context.Context, saved *postvault.SavedPost, collectionIDs []string) error {
	return s.CreateSavedPostFn(ctx, saved, collectionIDs)
}

func (s *SavedPostService) FindSavedPostByID(ctx context.Context, userID, id string) (*postvault.SavedPost, error) {
	return s.FindSavedPostByIDFn(ctx, userID, id)
}

func (s *SavedPostService) FindSavedPosts(ctx context.Context, userID string, filter postvault.SavedPostFilter) ([]*postvault.SavedPost, error) {
	return s.FindSavedPostsFn(ctx, userID, filter)
}

func (s *SavedPostService) UpdateSavedPost(ctx context.Context, userID, id string, upd postvault.SavedPostUpdate) (*postvault.SavedPost, error) {
	return s.UpdateSavedPostFn(ctx, userID, id, upd)
}

func (s *SavedPostService) DeleteSavedPost(ctx context.Context, userID, id string) error {
	return s.DeleteSavedPostFn(ctx, userID, id)
}
