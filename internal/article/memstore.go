package article

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SergeyParamoshkin/news/internal/model"
)

// MemoryStore keeps everything in process memory. It backs tests and the
// "memory" store mode of the server.
type MemoryStore struct {
	mu         sync.RWMutex
	articles   map[string]*model.Article
	categories map[string]*model.Category
	users      map[string]*model.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		articles:   map[string]*model.Article{},
		categories: map[string]*model.Category{},
		users:      map[string]*model.User{},
	}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) List(_ context.Context, q model.ListQuery) ([]*model.Article, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	terms := searchTerms(q.Search)
	scores := map[string]int{}

	var matched []*model.Article
	for _, a := range s.articles {
		if q.Category != "" && a.Category != q.Category {
			continue
		}
		if len(terms) > 0 {
			score := textScore(a, terms)
			if score == 0 {
				continue
			}
			scores[a.ID] = score
		}
		matched = append(matched, a)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if si, sj := scores[matched[i].ID], scores[matched[j].ID]; si != sj {
			return si > sj
		}

		return newer(matched[i], matched[j])
	})

	total := int64(len(matched))
	skip := q.Skip()
	if skip >= len(matched) {
		return []*model.Article{}, total, nil
	}
	end := skip + q.Limit
	if end > len(matched) {
		end = len(matched)
	}

	return cloneAll(matched[skip:end]), total, nil
}

func (s *MemoryStore) Featured(_ context.Context, limit int) ([]*model.Article, error) {
	out := s.filterSorted(func(a *model.Article) bool { return a.Featured })
	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (s *MemoryStore) ByCategory(_ context.Context, categoryID string) ([]*model.Article, error) {
	return s.filterSorted(func(a *model.Article) bool { return a.Category == categoryID }), nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*model.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.articles[id]
	if !ok {
		return nil, model.ErrNotFound
	}

	return a.Clone(), nil
}

func (s *MemoryStore) Insert(_ context.Context, a *model.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = primitive.NewObjectID().Hex()
	}
	if a.Likes == nil {
		a.Likes = []string{}
	}
	if a.Comments == nil {
		a.Comments = []model.Comment{}
	}
	s.articles[a.ID] = a.Clone()

	return nil
}

func (s *MemoryStore) Update(_ context.Context, id string, patch model.ArticlePatch, now time.Time) (*model.Article, error) {
	return s.mutate(id, now, func(a *model.Article) {
		patch.Apply(a)
	})
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.articles[id]; !ok {
		return model.ErrNotFound
	}
	delete(s.articles, id)

	return nil
}

func (s *MemoryStore) IncrementViews(_ context.Context, id string, now time.Time) (*model.Article, error) {
	return s.mutate(id, now, func(a *model.Article) {
		a.Views++
	})
}

func (s *MemoryStore) ToggleLike(_ context.Context, id, userID string, now time.Time) ([]string, error) {
	a, err := s.mutate(id, now, func(a *model.Article) {
		for i, u := range a.Likes {
			if u == userID {
				a.Likes = append(a.Likes[:i], a.Likes[i+1:]...)

				return
			}
		}
		a.Likes = append(a.Likes, userID)
	})
	if err != nil {
		return nil, err
	}

	return a.Likes, nil
}

func (s *MemoryStore) AppendComment(_ context.Context, id string, c model.Comment) ([]model.Comment, error) {
	a, err := s.mutate(id, c.CreatedAt, func(a *model.Article) {
		if c.ID == "" {
			c.ID = primitive.NewObjectID().Hex()
		}
		a.Comments = append(a.Comments, c)
	})
	if err != nil {
		return nil, err
	}

	return a.Comments, nil
}

func (s *MemoryStore) Category(_ context.Context, id string) (*model.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return nil, nil
	}
	cp := *c

	return &cp, nil
}

func (s *MemoryStore) Users(_ context.Context, ids []string) (map[string]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]*model.User, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			cp := *u
			out[id] = &cp
		}
	}

	return out, nil
}

func (s *MemoryStore) UpsertCategory(_ context.Context, c *model.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *c
	s.categories[c.ID] = &cp

	return nil
}

func (s *MemoryStore) UpsertUser(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *u
	s.users[u.ID] = &cp

	return nil
}

// DropNews removes every article, keeping categories and users.
func (s *MemoryStore) DropNews(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.articles = map[string]*model.Article{}

	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close(context.Context) error { return nil }

// mutate runs fn on the stored article under the write lock and stamps updatedAt.
func (s *MemoryStore) mutate(id string, now time.Time, fn func(a *model.Article)) (*model.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	fn(a)
	a.UpdatedAt = now

	return a.Clone(), nil
}

func (s *MemoryStore) filterSorted(keep func(a *model.Article) bool) []*model.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*model.Article{}
	for _, a := range s.articles {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i], out[j]) })

	return cloneAll(out)
}

func newer(a, b *model.Article) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}

	return a.ID > b.ID
}

func cloneAll(in []*model.Article) []*model.Article {
	out := make([]*model.Article, 0, len(in))
	for _, a := range in {
		out = append(out, a.Clone())
	}

	return out
}

func searchTerms(search string) []string {
	return strings.Fields(strings.ToLower(search))
}

// textScore counts term occurrences over the text-indexed fields.
func textScore(a *model.Article, terms []string) int {
	text := strings.ToLower(a.Title + "\n" + a.Excerpt + "\n" + a.Content)
	score := 0
	for _, t := range terms {
		score += strings.Count(text, t)
	}

	return score
}
