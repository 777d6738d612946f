//go:build integration

package article

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SergeyParamoshkin/news/internal/model"
)

func newMongoStore(t *testing.T) *MongoStore {
	t.Helper()

	uri := os.Getenv("NEWS_MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := "news_test_" + primitive.NewObjectID().Hex()
	store, err := ConnectMongo(ctx, uri, db)
	require.NoError(t, err)
	require.NoError(t, store.EnsureIndexes(ctx))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = store.client.Database(db).Drop(ctx)
		_ = store.Close(ctx)
	})

	return store
}

func TestMongoStoreLifecycle(t *testing.T) {
	store := newMongoStore(t)
	svc := NewService(store)
	ctx := context.Background()

	require.NoError(t, store.UpsertCategory(ctx, &model.Category{ID: "technology", Name: "Technology"}))
	require.NoError(t, store.UpsertUser(ctx, &model.User{ID: authorID, Name: "Ada"}))

	in := validArticle("Quantum Computing Milestone Achieved")
	in.Featured = true
	a, err := svc.Create(ctx, in, authorID)
	require.NoError(t, err)
	_, err = svc.Create(ctx, validArticle("Market wrap"), authorID)
	require.NoError(t, err)

	page, err := svc.List(ctx, model.ListQuery{Search: "quantum"})
	require.NoError(t, err)
	require.Len(t, page.News, 1)
	assert.Equal(t, a.ID, page.News[0].ID)

	featured, err := svc.GetFeatured(ctx)
	require.NoError(t, err)
	assert.Len(t, featured, 1)

	d, err := svc.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, d.Views)
	require.NotNil(t, d.Author)
	assert.Equal(t, "Ada", d.Author.Name)

	likes, err := svc.ToggleLike(ctx, a.ID, readerID)
	require.NoError(t, err)
	assert.Equal(t, []string{readerID}, likes)
	likes, err = svc.ToggleLike(ctx, a.ID, readerID)
	require.NoError(t, err)
	assert.Empty(t, likes)

	_, err = svc.AddComment(ctx, a.ID, readerID, "first")
	require.NoError(t, err)
	comments, err := svc.AddComment(ctx, a.ID, authorID, "second")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[1].Text)

	_, err = svc.Update(ctx, a.ID, reader, model.ArticlePatch{Title: strPtr("x")})
	assert.ErrorIs(t, err, model.ErrUnauthorized)

	require.NoError(t, svc.Delete(ctx, a.ID, author))
	_, err = store.Get(ctx, a.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "not-hex", admin), model.ErrNotFound)
}
