package main_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/koomastudio/postvault"
	main "github.com/koomastudio/postvault/cmd/postvault"
	"github.com/koomastudio/postvault/ingest"
	"github.com/koomastudio/postvault/mock"
)

func newSaveDeps(svc *ingest.Service) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: stderr,
		Ingest: svc,
	}, stdout, stderr
}

func newSaveService() *ingest.Service {
	svc := ingest.NewService()
	svc.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	svc.UserService = &mock.UserService{
		FindUserByIDFn: func(_ context.Context, id string) (*postvault.User, error) {
			return &postvault.User{ID: id, Tier: postvault.TierStandard}, nil
		},
		ConsumeSaveQuotaFn: func(_ context.Context, _ string, _ time.Time) error { return nil },
	}
	svc.PostService = &mock.PostService{
		ResolvePostFn: func(_ context.Context, post *postvault.Post) (bool, error) {
			post.ID = "post-1"
			return true, nil
		},
	}
	svc.SavedPostService = &mock.SavedPostService{
		CreateSavedPostFn: func(_ context.Context, saved *postvault.SavedPost, _ []string) error {
			saved.ID = "saved-1"
			return nil
		},
	}
	svc.Extractor = &mock.Extractor{
		ExtractInputFn: func(_ context.Context, _ string) (*postvault.Candidate, error) {
			return &postvault.Candidate{
				Content:    "Shipping fast means owning your test suite.",
				AuthorName: "Jane Doe",
				PostURL:    "https://www.linkedin.com/posts/jane-doe_thoughts-42",
				Strategy:   postvault.StrategyPostURL,
			}, nil
		},
	}
	return svc
}

func TestSaveCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("saves and reports the new post", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newSaveDeps(newSaveService())
		cmd := &main.SaveCmd{
			Input: "https://www.linkedin.com/posts/jane-doe_thoughts-42",
			User:  "user-1",
			Tags:  []string{"golang"},
		}
		require.NoError(t, cmd.Run(deps))

		output := stdout.String()
		assert.Contains(t, output, "Saved post saved-1")
		assert.Contains(t, output, "Jane Doe")
		assert.Contains(t, output, "https://www.linkedin.com/posts/jane-doe_thoughts-42")
	})

	t.Run("reports deduplication", func(t *testing.T) {
		t.Parallel()

		svc := newSaveService()
		svc.PostService = &mock.PostService{
			ResolvePostFn: func(_ context.Context, post *postvault.Post) (bool, error) {
				post.ID = "post-1"
				return false, nil
			},
		}

		deps, stdout, _ := newSaveDeps(svc)
		cmd := &main.SaveCmd{Input: "https://www.linkedin.com/posts/jane-doe_thoughts-42", User: "user-1"}
		require.NoError(t, cmd.Run(deps))

		assert.Contains(t, stdout.String(), "already captured")
	})

	t.Run("quota exhaustion prints a hint", func(t *testing.T) {
		t.Parallel()

		svc := newSaveService()
		svc.UserService = &mock.UserService{
			FindUserByIDFn: func(_ context.Context, id string) (*postvault.User, error) {
				return &postvault.User{ID: id, Tier: postvault.TierStandard}, nil
			},
			ConsumeSaveQuotaFn: func(_ context.Context, _ string, _ time.Time) error {
				return postvault.Errorf(postvault.EQUOTA, "monthly save limit of 10 reached")
			},
		}

		deps, _, stderr := newSaveDeps(svc)
		cmd := &main.SaveCmd{Input: "https://www.linkedin.com/posts/jane-doe_thoughts-42", User: "user-1"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, postvault.EQUOTA, postvault.ErrorCode(err))
		assert.Contains(t, stderr.String(), "resets 30 days")
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()

		svc := newSaveService()
		svc.UserService = &mock.UserService{
			FindUserByIDFn: func(_ context.Context, _ string) (*postvault.User, error) {
				return nil, postvault.Errorf(postvault.ENOTFOUND, "user not found")
			},
		}

		deps, _, stderr := newSaveDeps(svc)
		cmd := &main.SaveCmd{Input: "x", User: "missing"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, postvault.ENOTFOUND, postvault.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
	})
}
