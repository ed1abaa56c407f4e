package ingest_test

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
	"github.com/koomastudio/postvault/bloom"
	"github.com/koomastudio/postvault/goquery"
	"github.com/koomastudio/postvault/ingest"
	"github.com/koomastudio/postvault/mock"
)

func newTestService() *ingest.Service {
	s := ingest.NewService()
	s.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.Now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	s.Parse = func(markup string) (postvault.DocumentSource, error) {
		src, err := goquery.NewSource(markup)
		if err != nil {
			return nil, err
		}
		return src, nil
	}

	s.TokenService = &mock.TokenService{
		AuthenticateTokenFn: func(ctx context.Context, raw string) (*postvault.User, error) {
			if raw != "good-token" {
				return nil, postvault.Errorf(postvault.EUNAUTHORIZED, "invalid credential")
			}
			return &postvault.User{ID: "user-1", Tier: postvault.TierStandard}, nil
		},
	}
	s.UserService = &mock.UserService{
		ConsumeSaveQuotaFn: func(ctx context.Context, userID string, now time.Time) error {
			return nil
		},
	}
	s.PostService = &mock.PostService{
		ResolvePostFn: func(ctx context.Context, post *postvault.Post) (bool, error) {
			post.ID = "post-1"
			return true, nil
		},
	}
	s.SavedPostService = &mock.SavedPostService{
		CreateSavedPostFn: func(ctx context.Context, saved *postvault.SavedPost, collectionIDs []string) error {
			saved.ID = "saved-1"
			return nil
		},
	}
	s.Extractor = &mock.Extractor{
		ExtractInputFn: func(ctx context.Context, input string) (*postvault.Candidate, error) {
			return &postvault.Candidate{
				Content:  "Extracted content.",
				PostURL:  "https://www.linkedin.com/posts/jane-doe_thoughts-42",
				Strategy: postvault.StrategyPostURL,
			}, nil
		},
	}
	s.Limiter = &mock.RateLimiter{
		AllowFn: func(key string) bool { return true },
	}
	return s
}

func TestService_Save(t *testing.T) {
	t.Parallel()

	t.Run("saves extracted post", func(t *testing.T) {
		t.Parallel()

		s := newTestService()
		var gotCollections []string
		s.SavedPostService = &mock.SavedPostService{
			CreateSavedPostFn: func(ctx context.Context, saved *postvault.SavedPost, collectionIDs []string) error {
				saved.ID = "saved-1"
				gotCollections = collectionIDs
				return nil
			},
		}

		result, err := s.Save(context.Background(), ingest.SaveRequest{
			Credential:    "good-token",
			Input:         "https://www.linkedin.com/posts/jane-doe_thoughts-42",
			Tags:          []string{"golang"},
			Notes:         "worth rereading",
			CollectionIDs: []string{"coll-1"},
		})
		require.NoError(t, err)

		assert.True(t, result.Created)
		assert.Equal(t, postvault.StrategyPostURL, result.Strategy)
		assert.Equal(t, "saved-1", result.SavedPost.ID)
		assert.Equal(t, "user-1", result.SavedPost.UserID)
		assert.Equal(t, "post-1", result.SavedPost.PostID)
		assert.Equal(t, []string{"golang"}, result.SavedPost.Tags)
		assert.Equal(t, "worth rereading", result.SavedPost.Notes)
		assert.Equal(t, []string{"coll-1"}, gotCollections)
		require.NotNil(t, result.SavedPost.Post)
		assert.Equal(t, "Extracted content.", result.SavedPost.Post.Content)
	})

	t.Run("rejects bad credential before anything else", func(t *testing.T) {
		t.Parallel()

		s := newTestService()
		s.Limiter = &mock.RateLimiter{
			AllowFn: func(key string) bool {
				t.Error("limiter should not run for unauthenticated requests")
				return true
			},
		}

		_, err := s.Save(context.Background(), ingest.SaveRequest{Credential: "bad", Input: "x"})
		assert.Equal(t, postvault.EUNAUTHORIZED, postvault.ErrorCode(err))
	})

	t.Run("rate limit applies before extraction", func(t *testing.T) {
		t.Parallel()

		s := newTestService()
		s.Limiter = &mock.RateLimiter{
			AllowFn: func(key string) bool {
				assert.Equal(t, postvault.HashCredential("good-token"), key)
				return false
			},
		}
		s.Extractor = &mock.Extractor{
			ExtractInputFn: func(ctx context.Context, input string) (*postvault.Candidate, error) {
				t.Error("extractor should not run when rate limited")
				return nil, nil
			},
		}

		_, err := s.Save(context.Background(), ingest.SaveRequest{Credential: "good-token", Input: "x"})
		assert.Equal(t, postvault.ERATELIMIT, postvault.ErrorCode(err))
	})

	t.Run("extraction failure reports EINVALID", func(t *testing.T) {
		t.Parallel()

		s := newTestService()
		s.Extractor = &mock.Extractor{
			ExtractInputFn: func(ctx context.Context, input string) (*postvault.Candidate, error) {
				return nil, nil
			},
		}

		_, err := s.Save(context.Background(), ingest.SaveRequest{Credential: "good-token", Input: "gibberish"})
		assert.Equal(t, postvault.EINVALID, postvault.ErrorCode(err))
	})

	t.Run("quota exhaustion stops the save", func(t *testing.T) {
		t.Parallel()

		s := newTestService()
		s.UserService = &mock.UserService{
			ConsumeSaveQuotaFn: func(ctx context.Context, userID string, now time.Time) error {
				return postvault.Errorf(postvault.EQUOTA, "monthly save limit reached")
			},
		}
		s.PostService = &mock.PostService{
			ResolvePostFn: func(ctx context.Context, post *postvault.Post) (bool, error) {
				t.Error("post should not be resolved when quota is exhausted")
				return false, nil
			},
		}

		_, err := s.Save(context.Background(), ingest.SaveRequest{Credential: "good-token", Input: "x"})
		assert.Equal(t, postvault.EQUOTA, postvault.ErrorCode(err))
	})

	t.Run("pro tier skips the quota", func(t *testing.T) {
		t.Parallel()

		s := newTestService()
		s.TokenService = &mock.TokenService{
			AuthenticateTokenFn: func(ctx context.Context, raw string) (*postvault.User, error) {
				return &postvault.User{ID: "user-1", Tier: postvault.TierPro}, nil
			},
		}
		s.UserService = &mock.UserService{
			ConsumeSaveQuotaFn: func(ctx context.Context, userID string, now time.Time) error {
				t.Error("quota should not be consumed for pro users")
				return nil
			},
		}

		_, err := s.Save(context.Background(), ingest.SaveRequest{Credential: "good-token", Input: "x"})
		require.NoError(t, err)
	})

	t.Run("lapsed pro is charged quota", func(t *testing.T) {
		t.Parallel()

		s := newTestService()
		periodEnd := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
		s.TokenService = &mock.TokenService{
			AuthenticateTokenFn: func(ctx context.Context, raw string) (*postvault.User, error) {
				return &postvault.User{ID: "user-1", Tier: postvault.TierPro, SubscriptionPeriodEnd: &periodEnd}, nil
			},
		}
		consumed := false
		s.UserService = &mock.UserService{
			ConsumeSaveQuotaFn: func(ctx context.Context, userID string, now time.Time) error {
				consumed = true
				return nil
			},
		}

		_, err := s.Save(context.Background(), ingest.SaveRequest{Credential: "good-token", Input: "x"})
		require.NoError(t, err)
		assert.True(t, consumed)
	})

	t.Run("captured markup goes through the document path", func(t *testing.T) {
		t.Parallel()

		s := newTestService()
		s.Extractor = &mock.Extractor{
			ExtractDocumentFn: func(src postvault.DocumentSource) (*postvault.Candidate, error) {
				require.NotNil(t, src)
				return &postvault.Candidate{Content: "From the page.", Strategy: postvault.StrategyLiveDocument}, nil
			},
		}

		result, err := s.Save(context.Background(), ingest.SaveRequest{
			Credential: "good-token",
			Markup:     `<div class="feed-shared-update-v2"><p>From the page.</p></div>`,
		})
		require.NoError(t, err)
		assert.Equal(t, postvault.StrategyLiveDocument, result.Strategy)
	})

	t.Run("manual entry is cleaned and canonicalized", func(t *testing.T) {
		t.Parallel()

		s := newTestService()
		var resolved *postvault.Post
		s.PostService = &mock.PostService{
			ResolvePostFn: func(ctx context.Context, post *postvault.Post) (bool, error) {
				post.ID = "post-1"
				resolved = post
				return true, nil
			},
		}

		result, err := s.Save(context.Background(), ingest.SaveRequest{
			Credential: "good-token",
			Manual: &postvault.Candidate{
				Content: "Typed by &amp; hand.<br>Second line.",
				PostURL: "https://www.linkedin.com/posts/jane-doe_manual-1?utm_source=share",
			},
		})
		require.NoError(t, err)

		assert.Empty(t, result.Strategy)
		require.NotNil(t, resolved)
		assert.Equal(t, "Typed by & hand.\nSecond line.", resolved.Content)
		assert.Equal(t, "https://www.linkedin.com/posts/jane-doe_manual-1", resolved.PostURL)
	})

	t.Run("manual entry without content is invalid", func(t *testing.T) {
		t.Parallel()

		s := newTestService()
		_, err := s.Save(context.Background(), ingest.SaveRequest{
			Credential: "good-token",
			Manual:     &postvault.Candidate{Content: "   "},
		})
		assert.Equal(t, postvault.EINVALID, postvault.ErrorCode(err))
	})

	t.Run("empty request is invalid", func(t *testing.T) {
		t.Parallel()

		s := newTestService()
		_, err := s.Save(context.Background(), ingest.SaveRequest{Credential: "good-token"})
		assert.Equal(t, postvault.EINVALID, postvault.ErrorCode(err))
	})

	t.Run("duplicate content without URL is logged, not rejected", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		s := newTestService()
		s.Logger = slog.New(slog.NewTextHandler(&buf, nil))
		s.Duplicates = bloom.NewFilter(1000, 0.01)
		s.Extractor = &mock.Extractor{
			ExtractInputFn: func(ctx context.Context, input string) (*postvault.Candidate, error) {
				return &postvault.Candidate{Content: "Same body, no link."}, nil
			},
		}

		ctx := context.Background()
		req := ingest.SaveRequest{Credential: "good-token", Input: "fragment"}

		_, err := s.Save(ctx, req)
		require.NoError(t, err)
		assert.NotContains(t, buf.String(), "possible duplicate content")

		_, err = s.Save(ctx, req)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "possible duplicate content")
	})
}

func TestService_SaveForUser(t *testing.T) {
	t.Parallel()

	t.Run("skips credential checks but keeps the quota", func(t *testing.T) {
		t.Parallel()

		s := newTestService()
		s.TokenService = &mock.TokenService{
			AuthenticateTokenFn: func(ctx context.Context, raw string) (*postvault.User, error) {
				t.Error("SaveForUser must not authenticate a credential")
				return nil, nil
			},
		}
		s.Limiter = &mock.RateLimiter{
			AllowFn: func(key string) bool {
				t.Error("SaveForUser must not count against a limiter")
				return false
			},
		}
		consumed := false
		s.UserService = &mock.UserService{
			FindUserByIDFn: func(ctx context.Context, id string) (*postvault.User, error) {
				assert.Equal(t, "user-1", id)
				return &postvault.User{ID: id, Tier: postvault.TierStandard}, nil
			},
			ConsumeSaveQuotaFn: func(ctx context.Context, userID string, now time.Time) error {
				consumed = true
				return nil
			},
		}

		result, err := s.SaveForUser(context.Background(), "user-1", ingest.SaveRequest{Input: "x"})
		require.NoError(t, err)
		assert.True(t, consumed)
		assert.Equal(t, "user-1", result.SavedPost.UserID)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()

		s := newTestService()
		s.UserService = &mock.UserService{
			FindUserByIDFn: func(ctx context.Context, id string) (*postvault.User, error) {
				return nil, postvault.Errorf(postvault.ENOTFOUND, "user not found")
			},
		}

		_, err := s.SaveForUser(context.Background(), "missing", ingest.SaveRequest{Input: "x"})
		assert.Equal(t, postvault.ENOTFOUND, postvault.ErrorCode(err))
	})
}

func TestService_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts without writing", func(t *testing.T) {
		t.Parallel()

		s := newTestService()
		s.PostService = &mock.PostService{
			ResolvePostFn: func(ctx context.Context, post *postvault.Post) (bool, error) {
				t.Error("extract must not persist anything")
				return false, nil
			},
		}

		candidate, err := s.Extract(context.Background(), ingest.ExtractRequest{
			Credential: "good-token",
			Input:      "https://www.linkedin.com/posts/jane-doe_thoughts-42",
		})
		require.NoError(t, err)
		require.NotNil(t, candidate)
		assert.Equal(t, "Extracted content.", candidate.Content)
	})

	t.Run("credential, when present, is rate limited", func(t *testing.T) {
		t.Parallel()

		s := newTestService()
		s.Limiter = &mock.RateLimiter{AllowFn: func(key string) bool { return false }}

		_, err := s.Extract(context.Background(), ingest.ExtractRequest{Credential: "good-token", Input: "x"})
		assert.Equal(t, postvault.ERATELIMIT, postvault.ErrorCode(err))
	})

	t.Run("anonymous extraction skips auth and rate limit", func(t *testing.T) {
		t.Parallel()

		s := newTestService()
		s.TokenService = &mock.TokenService{
			AuthenticateTokenFn: func(ctx context.Context, raw string) (*postvault.User, error) {
				t.Error("anonymous extraction must not authenticate")
				return nil, nil
			},
		}
		s.Limiter = &mock.RateLimiter{
			AllowFn: func(key string) bool {
				t.Error("anonymous extraction must not count against a limiter")
				return false
			},
		}

		candidate, err := s.Extract(context.Background(), ingest.ExtractRequest{Input: "x"})
		require.NoError(t, err)
		assert.NotNil(t, candidate)
	})

	t.Run("soft failure passes through", func(t *testing.T) {
		t.Parallel()

		s := newTestService()
		s.Extractor = &mock.Extractor{
			ExtractInputFn: func(ctx context.Context, input string) (*postvault.Candidate, error) {
				return nil, nil
			},
		}

		candidate, err := s.Extract(context.Background(), ingest.ExtractRequest{Credential: "good-token", Input: "x"})
		require.NoError(t, err)
		assert.Nil(t, candidate)
	})
}

func TestService_Quota(t *testing.T) {
	t.Parallel()

	t.Run("reports the credential owner's allowance", func(t *testing.T) {
		t.Parallel()

		s := newTestService()
		s.UserService = &mock.UserService{
			SaveQuotaFn: func(ctx context.Context, userID string, now time.Time) (*postvault.QuotaStatus, error) {
				assert.Equal(t, "user-1", userID)
				return &postvault.QuotaStatus{Tier: postvault.TierStandard, Used: 3, Remaining: 7, Limit: 10}, nil
			},
		}

		status, err := s.Quota(context.Background(), "good-token")
		require.NoError(t, err)
		assert.Equal(t, 7, status.Remaining)
	})

	t.Run("rejects bad credential", func(t *testing.T) {
		t.Parallel()

		s := newTestService()
		_, err := s.Quota(context.Background(), "bad")
		assert.Equal(t, postvault.EUNAUTHORIZED, postvault.ErrorCode(err))
	})
}
