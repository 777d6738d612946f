package article

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SergeyParamoshkin/news/internal/model"
)

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	a := &model.Article{Title: "kept", Likes: []string{"u1"}}
	require.NoError(t, store.Insert(ctx, a))
	require.NotEmpty(t, a.ID)

	a.Title = "caller edit"
	got, err := store.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "kept", got.Title)

	got.Likes[0] = "u2"
	got.Comments = append(got.Comments, model.Comment{Text: "sneaky"})
	again, err := store.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, again.Likes)
	assert.Empty(t, again.Comments)
}

func TestMemoryStoreConcurrentMutations(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	a := &model.Article{Title: "hot"}
	require.NoError(t, store.Insert(ctx, a))

	const workers = 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.IncrementViews(ctx, a.ID, time.Now())
			assert.NoError(t, err)
			_, err = store.AppendComment(ctx, a.ID, model.Comment{User: "u", Text: "hi", CreatedAt: time.Now()})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, workers, got.Views)
	assert.Len(t, got.Comments, workers)
}

func TestMemoryStoreMutationsStampUpdatedAt(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := &model.Article{Title: "t", CreatedAt: created, UpdatedAt: created}
	require.NoError(t, store.Insert(ctx, a))

	later := created.Add(time.Hour)
	got, err := store.IncrementViews(ctx, a.ID, later)
	require.NoError(t, err)
	assert.Equal(t, later, got.UpdatedAt)
	assert.Equal(t, created, got.CreatedAt)
}

func TestMemoryStoreReferences(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	c, err := store.Category(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, c)

	require.NoError(t, store.UpsertUser(ctx, &model.User{ID: "u1", Name: "One"}))
	users, err := store.Users(ctx, []string{"u1", "u2", "u1"})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, "One", users["u1"].Name)

	assert.ErrorIs(t, store.Delete(ctx, "missing"), model.ErrNotFound)
}

func TestTextScore(t *testing.T) {
	a := &model.Article{Title: "Go news", Excerpt: "all about GO", Content: "gopher"}

	assert.Equal(t, 3, textScore(a, searchTerms("go")))
	assert.Equal(t, 0, textScore(a, searchTerms("rust")))
	assert.Equal(t, 4, textScore(a, searchTerms("  GO   news ")))
}
