package article

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SergeyParamoshkin/news/internal/model"
	"github.com/SergeyParamoshkin/news/internal/user"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// FeaturedLimit caps GetFeatured.
	FeaturedLimit = 5
)

// fieldMessages are the client-facing messages for required fields.
var fieldMessages = map[string]string{
	"title":    "Title is required",
	"excerpt":  "Excerpt is required",
	"content":  "Content is required",
	"category": "Category is required",
	"image":    "Image URL is required",
	"text":     "Text is required",
}

// Service implements the article operations on top of a Store.
type Service struct {
	store    Store
	validate *validator.Validate
	now      func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		validate: validator.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// List returns one page of articles, newest first, or by relevance when
// q.Search is set.
func (s *Service) List(ctx context.Context, q model.ListQuery) (*model.Page, error) {
	q = NormalizeQuery(q)

	news, total, err := s.store.List(ctx, q)
	if err != nil {
		return nil, err
	}

	return &model.Page{
		News:        news,
		CurrentPage: q.Page,
		TotalPages:  int(math.Ceil(float64(total) / float64(q.Limit))),
		TotalNews:   total,
	}, nil
}

// NormalizeQuery applies default and capped paging values.
func NormalizeQuery(q model.ListQuery) model.ListQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	q.Category = strings.TrimSpace(q.Category)
	q.Search = strings.TrimSpace(q.Search)

	return q
}

func (s *Service) GetFeatured(ctx context.Context) ([]*model.Article, error) {
	return s.store.Featured(ctx, FeaturedLimit)
}

func (s *Service) GetByCategory(ctx context.Context, categoryID string) ([]*model.Article, error) {
	return s.store.ByCategory(ctx, categoryID)
}

// GetByID counts a view and returns the article with its references resolved.
func (s *Service) GetByID(ctx context.Context, id string) (*model.ArticleDetail, error) {
	a, err := s.store.IncrementViews(ctx, id, s.now())
	if err != nil {
		return nil, err
	}

	return s.populate(ctx, a)
}

// Create validates in and stores a new article authored by authorID. Any
// author supplied by the client never reaches this point.
func (s *Service) Create(ctx context.Context, in model.NewArticle, authorID string) (*model.Article, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Excerpt = strings.TrimSpace(in.Excerpt)
	in.Content = strings.TrimSpace(in.Content)
	in.Category = strings.TrimSpace(in.Category)
	in.Image = strings.TrimSpace(in.Image)

	if err := s.check(in); err != nil {
		return nil, err
	}

	now := s.now()
	a := &model.Article{
		Title:     in.Title,
		Excerpt:   in.Excerpt,
		Content:   in.Content,
		Category:  in.Category,
		Author:    authorID,
		Image:     in.Image,
		Featured:  in.Featured,
		Likes:     []string{},
		Comments:  []model.Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Insert(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

// Update applies patch to article id when the caller is its author or an admin.
func (s *Service) Update(ctx context.Context, id string, caller user.Identity, patch model.ArticlePatch) (*model.Article, error) {
	a, err := s.authorize(ctx, id, caller)
	if err != nil {
		return nil, err
	}

	patch = trimPatch(patch)
	if err := s.check(patch); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return a, nil
	}

	return s.store.Update(ctx, id, patch, s.now())
}

// Delete removes article id when the caller is its author or an admin.
func (s *Service) Delete(ctx context.Context, id string, caller user.Identity) error {
	if _, err := s.authorize(ctx, id, caller); err != nil {
		return err
	}

	return s.store.Delete(ctx, id)
}

// IncrementView counts a view and returns the new total.
func (s *Service) IncrementView(ctx context.Context, id string) (int64, error) {
	a, err := s.store.IncrementViews(ctx, id, s.now())
	if err != nil {
		return 0, err
	}

	return a.Views, nil
}

// ToggleLike flips userID's like on article id and returns the resulting likes.
func (s *Service) ToggleLike(ctx context.Context, id, userID string) ([]string, error) {
	return s.store.ToggleLike(ctx, id, userID, s.now())
}

// AddComment appends a comment by userID to the end of the article's comments.
func (s *Service) AddComment(ctx context.Context, id, userID, text string) ([]model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &model.ValidationError{Fields: []model.FieldError{{Field: "text", Message: fieldMessages["text"]}}}
	}

	return s.store.AppendComment(ctx, id, model.Comment{
		User:      userID,
		Text:      text,
		CreatedAt: s.now(),
	})
}

func (s *Service) authorize(ctx context.Context, id string, caller user.Identity) (*model.Article, error) {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanModify(a.Author) {
		return nil, model.ErrUnauthorized
	}

	return a, nil
}

func (s *Service) populate(ctx context.Context, a *model.Article) (*model.ArticleDetail, error) {
	category, err := s.store.Category(ctx, a.Category)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(a.Comments)+1)
	ids = append(ids, a.Author)
	for _, c := range a.Comments {
		ids = append(ids, c.User)
	}
	users, err := s.store.Users(ctx, ids)
	if err != nil {
		return nil, err
	}

	d := &model.ArticleDetail{
		Article:  a,
		Category: category,
		Author:   users[a.Author],
		Comments: make([]model.CommentDetail, 0, len(a.Comments)),
	}
	for _, c := range a.Comments {
		d.Comments = append(d.Comments, model.CommentDetail{
			ID:        c.ID,
			User:      users[c.User],
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}

	return d, nil
}

// check runs struct validation and turns failures into a ValidationError.
func (s *Service) check(v interface{}) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &model.ValidationError{}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		msg, ok := fieldMessages[field]
		if !ok {
			msg = field + " is invalid"
		}
		out.Fields = append(out.Fields, model.FieldError{Field: field, Message: msg})
	}

	return out
}

func trimPatch(p model.ArticlePatch) model.ArticlePatch {
	trim := func(v *string) *string {
		if v == nil {
			return nil
		}
		t := strings.TrimSpace(*v)

		return &t
	}

	p.Title = trim(p.Title)
	p.Excerpt = trim(p.Excerpt)
	p.Content = trim(p.Content)
	p.Category = trim(p.Category)
	p.Image = trim(p.Image)

	return p
}
