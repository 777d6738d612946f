package article

import (
	"context"
	"time"

	"github.com/SergeyParamoshkin/news/internal/model"
)

// Store persists articles and resolves the references they hold. Mutations act
// on a single document; nothing spans documents.
type Store interface {
	// List returns one page of matching articles and the total match count.
	List(ctx context.Context, q model.ListQuery) ([]*model.Article, int64, error)
	Featured(ctx context.Context, limit int) ([]*model.Article, error)
	ByCategory(ctx context.Context, categoryID string) ([]*model.Article, error)
	Get(ctx context.Context, id string) (*model.Article, error)
	Insert(ctx context.Context, a *model.Article) error
	Update(ctx context.Context, id string, patch model.ArticlePatch, now time.Time) (*model.Article, error)
	Delete(ctx context.Context, id string) error
	// IncrementViews bumps views by one and returns the article after the bump.
	IncrementViews(ctx context.Context, id string, now time.Time) (*model.Article, error)
	// ToggleLike adds userID to likes or removes it when present.
	ToggleLike(ctx context.Context, id, userID string, now time.Time) ([]string, error)
	AppendComment(ctx context.Context, id string, c model.Comment) ([]model.Comment, error)

	Category(ctx context.Context, id string) (*model.Category, error)
	// Users resolves the given ids; unknown ids are absent from the result.
	Users(ctx context.Context, ids []string) (map[string]*model.User, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
