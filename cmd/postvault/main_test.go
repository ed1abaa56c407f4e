package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/koomastudio/postvault"
	main "github.com/koomastudio/postvault/cmd/postvault"
	"github.com/koomastudio/postvault/mock"
)

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("no arguments shows help and errors", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), nil, stdout, stderr)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
		assert.Contains(t, stdout.String(), "Usage:")
	})

	t.Run("help flag succeeds", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"--help"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Usage:")
	})

	t.Run("unknown command errors", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.DBPath = ":memory:"

		err := m.Run(context.Background(), []string{"frobnicate"}, &bytes.Buffer{}, &bytes.Buffer{})
		require.Error(t, err)
	})

	t.Run("list runs end to end against an empty database", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.DBPath = ":memory:"
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"list", "--user", "user-1"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No saved posts")
	})

	t.Run("extract --browser fetches through the browser fetcher", func(t *testing.T) {
		t.Parallel()

		fetched := false
		m := main.NewMain()
		m.DBPath = ":memory:"
		m.NewBrowserFetcher = func() (postvault.Fetcher, error) {
			return &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					fetched = true
					return `<html><head>
						<meta property="og:title" content="Jane Doe on LinkedIn: hello"/>
						<meta property="og:description" content="Rendered by the browser"/>
					</head></html>`, nil
				},
			}, nil
		}
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(),
			[]string{"extract", "--browser", "https://www.linkedin.com/posts/jane-doe_activity-7012"},
			stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.True(t, fetched)
		assert.Contains(t, stdout.String(), "Rendered by the browser")
	})

	t.Run("extract without --browser never starts a browser", func(t *testing.T) {
		t.Parallel()

		started := false
		m := main.NewMain()
		m.DBPath = ":memory:"
		m.NewBrowserFetcher = func() (postvault.Fetcher, error) {
			started = true
			return nil, errors.New("should not be called")
		}

		// Plain text matches no strategy, so no fetch of any kind happens.
		err := m.Run(context.Background(), []string{"extract", "just some text"},
			&bytes.Buffer{}, &bytes.Buffer{})

		assert.Equal(t, postvault.ENOTFOUND, postvault.ErrorCode(err))
		assert.False(t, started)
	})

	t.Run("browser start failure surfaces a hint", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.DBPath = ":memory:"
		m.NewBrowserFetcher = func() (postvault.Fetcher, error) {
			return nil, errors.New("no browser found")
		}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(),
			[]string{"extract", "--browser", "https://www.linkedin.com/posts/jane-doe_activity-7012"},
			&bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to start browser")
		assert.Contains(t, stderr.String(), "Chrome")
	})

	t.Run("wires services against a file-backed database", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.DBPath = t.TempDir() + "/postvault.db"

		err := m.Run(context.Background(), []string{"list", "--user", "user-1"}, &bytes.Buffer{}, &bytes.Buffer{})

		require.NoError(t, err)
		require.NotNil(t, m.UserService)
		require.NotNil(t, m.PostService)
		require.NotNil(t, m.SavedPostService)
		require.NotNil(t, m.TokenService)
	})
}
