package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/koomastudio/postvault"
	"github.com/koomastudio/postvault/sqlite"
)

func TestCollectionService_CreateCollection(t *testing.T) {
	t.Parallel()

	t.Run("creates collection with generated ID", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewCollectionService(db)
		user := createTestUser(t, db)

		c := &postvault.Collection{UserID: user.ID, Name: "Reading"}
		require.NoError(t, svc.CreateCollection(context.Background(), c))

		assert.NotEmpty(t, c.ID)
		assert.False(t, c.CreatedAt.IsZero())
	})

	t.Run("returns error for missing name", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewCollectionService(db)
		user := createTestUser(t, db)

		err := svc.CreateCollection(context.Background(), &postvault.Collection{UserID: user.ID})
		require.Error(t, err)
		assert.Equal(t, postvault.EINVALID, postvault.ErrorCode(err))
	})
}

func TestCollectionService_FindCollections(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := sqlite.NewCollectionService(db)
	user := createTestUser(t, db)
	other := createTestUser(t, db)
	ctx := context.Background()

	for _, name := range []string{"Reading", "Archive"} {
		require.NoError(t, svc.CreateCollection(ctx, &postvault.Collection{UserID: user.ID, Name: name}))
	}
	require.NoError(t, svc.CreateCollection(ctx, &postvault.Collection{UserID: other.ID, Name: "Theirs"}))

	collections, err := svc.FindCollections(ctx, user.ID)
	require.NoError(t, err)

	require.Len(t, collections, 2)
	assert.Equal(t, "Archive", collections[0].Name)
	assert.Equal(t, "Reading", collections[1].Name)
}

func TestCollectionService_DeleteCollection(t *testing.T) {
	t.Parallel()

	t.Run("deleting keeps linked saved posts", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewCollectionService(db)
		savedSvc := sqlite.NewSavedPostService(db)
		user := createTestUser(t, db)
		post := createTestPost(t, db, "https://www.linkedin.com/posts/jane-doe_coll-del-1")
		ctx := context.Background()

		c := &postvault.Collection{UserID: user.ID, Name: "Reading"}
		require.NoError(t, svc.CreateCollection(ctx, c))

		saved := &postvault.SavedPost{UserID: user.ID, PostID: post.ID}
		require.NoError(t, savedSvc.CreateSavedPost(ctx, saved, []string{c.ID}))

		require.NoError(t, svc.DeleteCollection(ctx, user.ID, c.ID))

		found, err := savedSvc.FindSavedPostByID(ctx, user.ID, saved.ID)
		require.NoError(t, err)
		assert.Empty(t, found.Collections)
	})

	t.Run("returns ENOTFOUND for another user's collection", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewCollectionService(db)
		user := createTestUser(t, db)
		other := createTestUser(t, db)
		ctx := context.Background()

		c := &postvault.Collection{UserID: user.ID, Name: "Mine"}
		require.NoError(t, svc.CreateCollection(ctx, c))

		err := svc.DeleteCollection(ctx, other.ID, c.ID)
		assert.Equal(t, postvault.ENOTFOUND, postvault.ErrorCode(err))
	})
}
