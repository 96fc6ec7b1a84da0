package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/academy_server/internal/model"
	"github.com/qs3c/academy_server/internal/testutil"
)

func TestNewsRepository_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewNewsRepository(db)
	news := &model.News{
		Title:       "Tournament",
		Category:    "events",
		Content:     "<p>Saturday</p>",
		PublishedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(news))

	found, err := repo.GetByID(news.ID)
	require.NoError(t, err)
	assert.Equal(t, model.NewsStatusDraft, found.Status)
	assert.False(t, found.IsBreaking)
}

func TestNewsRepository_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewNewsRepository(db)
	now := time.Now().UTC()
	testutil.TestNews(t, db, testutil.WithCategory("events"), testutil.WithPublishedAt(now.Add(-2*time.Hour)))
	latest := testutil.TestNews(t, db, testutil.WithCategory("announcements"), testutil.WithPublishedAt(now))
	testutil.TestNews(t, db, testutil.WithNewsStatus(model.NewsStatusDraft))

	t.Run("all including drafts", func(t *testing.T) {
		items, err := repo.List("", "")
		require.NoError(t, err)
		assert.Len(t, items, 3)
	})

	t.Run("by category", func(t *testing.T) {
		items, err := repo.List("announcements", "")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, latest.ID, items[0].ID)
	})

	t.Run("published only", func(t *testing.T) {
		items, err := repo.ListPublished()
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})
}

func TestNewsRepository_UpdateImageAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewNewsRepository(db)
	news := testutil.TestNews(t, db)

	require.NoError(t, repo.UpdateImage(news.ID, "https://cdn.example.com/news/a.png"))
	found, err := repo.GetByID(news.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/news/a.png", found.Image)

	require.NoError(t, repo.Delete(news.ID))
	_, err = repo.GetByID(news.ID)
	assert.Error(t, err)
}
