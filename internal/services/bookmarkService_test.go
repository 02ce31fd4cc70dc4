package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookmarker/internal/models"
)

func strPtr(s string) *string { return &s }

func newBookmarkFixture(t *testing.T) (BookmarkService, *memBookmarkRepo, *memFolderRepo, primitive.ObjectID) {
	t.Helper()
	bookmarks := &memBookmarkRepo{}
	folders := &memFolderRepo{}
	return NewBookmarkService(bookmarks, folders), bookmarks, folders, primitive.NewObjectID()
}

func TestAddBookmark(t *testing.T) {
	svc, repo, folders, userID := newBookmarkFixture(t)
	ctx := context.Background()

	t.Run("stores trimmed fields", func(t *testing.T) {
		bm, err := svc.AddBookmark(ctx, userID, models.AddBookmarkRequestBody{
			Title:       " Go ",
			URL:         " https://go.dev ",
			Description: "The Go site",
		})
		require.NoError(t, err)
		assert.False(t, bm.ID.IsZero())
		assert.Equal(t, "Go", bm.Title)
		assert.Equal(t, "https://go.dev", bm.URL)
		assert.Nil(t, bm.FolderID)
		assert.False(t, bm.CreatedAt.IsZero())
		assert.Len(t, repo.bookmarks, 1)
	})

	t.Run("requires title and url", func(t *testing.T) {
		_, err := svc.AddBookmark(ctx, userID, models.AddBookmarkRequestBody{Title: "  ", URL: "https://x.example"})
		assert.ErrorIs(t, err, ErrInvalidBookmark)
	})

	t.Run("folder must belong to the user", func(t *testing.T) {
		other, err := folders.Create(ctx, &models.Folder{UserID: primitive.NewObjectID(), Name: "Theirs"})
		require.NoError(t, err)

		_, err = svc.AddBookmark(ctx, userID, models.AddBookmarkRequestBody{
			Title: "A", URL: "https://a.example", FolderID: strPtr(other.ID.Hex()),
		})
		assert.ErrorIs(t, err, ErrFolderNotFound)

		_, err = svc.AddBookmark(ctx, userID, models.AddBookmarkRequestBody{
			Title: "A", URL: "https://a.example", FolderID: strPtr("nope"),
		})
		assert.ErrorIs(t, err, ErrFolderNotFound)
	})

	t.Run("into own folder", func(t *testing.T) {
		mine, err := folders.Create(ctx, &models.Folder{UserID: userID, Name: "Mine"})
		require.NoError(t, err)

		bm, err := svc.AddBookmark(ctx, userID, models.AddBookmarkRequestBody{
			Title: "B", URL: "https://b.example", FolderID: strPtr(mine.ID.Hex()),
		})
		require.NoError(t, err)
		require.NotNil(t, bm.FolderID)
		assert.Equal(t, mine.ID, *bm.FolderID)
	})
}

func TestGetBookmarks(t *testing.T) {
	svc, repo, _, userID := newBookmarkFixture(t)
	ctx := context.Background()
	folderID := primitive.NewObjectID()
	base := time.Now().UTC()

	for i := 0; i < 25; i++ {
		bm := &models.Bookmark{UserID: userID, Title: "t", URL: "u", CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if i%5 == 0 {
			bm.FolderID = &folderID
		}
		_, err := repo.Create(ctx, bm)
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, &models.Bookmark{UserID: primitive.NewObjectID(), Title: "x", URL: "y"})
	require.NoError(t, err)

	all, err := svc.GetBookmarks(ctx, userID, nil, 0)
	require.NoError(t, err)
	assert.Len(t, all, 25)
	assert.True(t, all[0].CreatedAt.After(all[1].CreatedAt))

	page1, err := svc.GetBookmarks(ctx, userID, nil, 1)
	require.NoError(t, err)
	assert.Len(t, page1, int(BookmarksPageSize))

	page2, err := svc.GetBookmarks(ctx, userID, nil, 2)
	require.NoError(t, err)
	assert.Len(t, page2, 5)

	inFolder, err := svc.GetBookmarks(ctx, userID, &folderID, 0)
	require.NoError(t, err)
	assert.Len(t, inFolder, 5)
}

func TestUpdateBookmark(t *testing.T) {
	svc, repo, _, userID := newBookmarkFixture(t)
	ctx := context.Background()

	bm, err := repo.Create(ctx, &models.Bookmark{UserID: userID, Title: "Old", URL: "https://old.example", Description: "keep"})
	require.NoError(t, err)

	updated, err := svc.UpdateBookmark(ctx, userID, bm.ID, models.UpdateBookmarkRequestBody{Title: strPtr("New Title")})
	require.NoError(t, err)
	assert.Equal(t, "New Title", updated.Title)
	assert.Equal(t, "new title", updated.TitleKey)
	assert.Equal(t, "https://old.example", updated.URL)
	assert.Equal(t, "keep", updated.Description)

	_, err = svc.UpdateBookmark(ctx, userID, bm.ID, models.UpdateBookmarkRequestBody{})
	assert.ErrorIs(t, err, ErrNoUpdateFields)

	_, err = svc.UpdateBookmark(ctx, userID, bm.ID, models.UpdateBookmarkRequestBody{URL: strPtr(" ")})
	assert.ErrorIs(t, err, ErrInvalidBookmark)

	_, err = svc.UpdateBookmark(ctx, primitive.NewObjectID(), bm.ID, models.UpdateBookmarkRequestBody{Title: strPtr("x")})
	assert.ErrorIs(t, err, ErrBookmarkNotFound)
}

func TestMoveBookmark(t *testing.T) {
	svc, repo, folders, userID := newBookmarkFixture(t)
	ctx := context.Background()

	folder, err := folders.Create(ctx, &models.Folder{UserID: userID, Name: "Reading"})
	require.NoError(t, err)
	bm, err := repo.Create(ctx, &models.Bookmark{UserID: userID, Title: "A", URL: "https://a.example"})
	require.NoError(t, err)

	moved, err := svc.MoveBookmark(ctx, userID, bm.ID, &folder.ID)
	require.NoError(t, err)
	require.NotNil(t, moved.FolderID)
	assert.Equal(t, folder.ID, *moved.FolderID)

	out, err := svc.MoveBookmark(ctx, userID, bm.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, out.FolderID)

	missing := primitive.NewObjectID()
	_, err = svc.MoveBookmark(ctx, userID, bm.ID, &missing)
	assert.ErrorIs(t, err, ErrFolderNotFound)
}

func TestGetAndDeleteBookmark(t *testing.T) {
	svc, repo, _, userID := newBookmarkFixture(t)
	ctx := context.Background()

	bm, err := repo.Create(ctx, &models.Bookmark{UserID: userID, Title: "A", URL: "https://a.example"})
	require.NoError(t, err)

	found, err := svc.GetBookmarkByID(ctx, userID, bm.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", found.Title)

	_, err = svc.GetBookmarkByID(ctx, primitive.NewObjectID(), bm.ID)
	assert.ErrorIs(t, err, ErrBookmarkNotFound)

	assert.ErrorIs(t, svc.DeleteBookmark(ctx, primitive.NewObjectID(), bm.ID), ErrBookmarkNotFound)
	require.NoError(t, svc.DeleteBookmark(ctx, userID, bm.ID))
	assert.ErrorIs(t, svc.DeleteBookmark(ctx, userID, bm.ID), ErrBookmarkNotFound)
}
