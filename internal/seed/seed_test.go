package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SergeyParamoshkin/news/internal/article"
	"github.com/SergeyParamoshkin/news/internal/model"
)

func TestLoadIntoMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := article.NewMemoryStore()

	res, err := Load(ctx, store, true)
	require.NoError(t, err)
	assert.Equal(t, Result{Categories: 5, Users: 9, Articles: 8}, res)

	featured, err := store.Featured(ctx, article.FeaturedLimit)
	require.NoError(t, err)
	require.Len(t, featured, 4)
	assert.Equal(t, "The Future of AI: What's Next in 2024", featured[0].Title, "newest first")

	svc := article.NewService(store)
	page, err := svc.List(ctx, model.ListQuery{Search: "quantum"})
	require.NoError(t, err)
	require.Len(t, page.News, 1)
	assert.Equal(t, "Quantum Computing Milestone Achieved", page.News[0].Title)

	detail, err := svc.GetByID(ctx, page.News[0].ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Category)
	assert.Equal(t, "Technology", detail.Category.Name)
	require.NotNil(t, detail.Author)
	assert.Equal(t, "Dr. Robert Kim", detail.Author.Name)
	assert.EqualValues(t, 4201, detail.Views)
}

func TestReloadWithDrop(t *testing.T) {
	ctx := context.Background()
	store := article.NewMemoryStore()

	_, err := Load(ctx, store, false)
	require.NoError(t, err)
	_, err = Load(ctx, store, true)
	require.NoError(t, err)

	_, total, err := store.List(ctx, article.NormalizeQuery(model.ListQuery{}))
	require.NoError(t, err)
	assert.EqualValues(t, 8, total)

	_, err = Load(ctx, store, false)
	require.NoError(t, err)
	_, total, err = store.List(ctx, article.NormalizeQuery(model.ListQuery{}))
	require.NoError(t, err)
	assert.EqualValues(t, 16, total, "without drop fixtures are appended")
}

type appendOnly struct{ inserted int }

func (*appendOnly) UpsertCategory(context.Context, *model.Category) error { return nil }
func (*appendOnly) UpsertUser(context.Context, *model.User) error { return nil }
func (s *appendOnly) Insert(context.Context, *model.Article) error {
	s.inserted++

	return nil
}

func TestDropUnsupported(t *testing.T) {
	target := &appendOnly{}

	_, err := Load(context.Background(), target, true)
	assert.ErrorIs(t, err, ErrCannotDrop)
	assert.Zero(t, target.inserted)
}

func TestArticlesAreFreshCopies(t *testing.T) {
	a := Articles()
	a[0].Title = "changed"

	assert.NotEqual(t, "changed", Articles()[0].Title)
}

func TestFixtureAuthorsExist(t *testing.T) {
	known := map[string]bool{}
	for _, u := range Users {
		known[u.ID] = true
	}
	cats := map[string]bool{}
	for _, c := range Categories {
		cats[c.ID] = true
	}

	for _, a := range Articles() {
		assert.True(t, known[a.Author], "author of %q", a.Title)
		assert.True(t, cats[a.Category], "category of %q", a.Title)
	}
}
