package mock

import (
	"context"

	"github.com/koomastudio/postvault"
)

var _ postvault.PostService = (*PostService)(nil)

// PostService is a mock implementation of postvault.PostService.
type PostService struct {
	ResolvePostFn   func(ctx context.Context, post *postvault.Post) (bool, error)
	FindPostByIDFn  func(ctx context.Context, id string) (*postvault.Post, error)
	FindPostByURLFn func(ctx context.Context, url string) (*postvault.Post, error)
}

func (s *PostService) ResolvePost(ctx context.Context, post *postvault.Post) (bool, error) {
	return s.ResolvePostFn(ctx, post)
}

func (s *PostService) FindPostByID(ctx context.Context, id string) (*postvault.Post, error) {
	return s.FindPostByIDFn(ctx, id)
}

func (s *PostService) FindPostByURL(ctx context.Context, url string) (*postvault.Post, error) {
	return s.FindPostByURLFn(ctx, url)
}
