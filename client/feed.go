package client

import (
	"context"
	"strings"
	"sync"

	"github.com/SergeyParamoshkin/news/internal/model"
)

// AllCategories disables the category filter.
const AllCategories = "all"

// Feed holds the page last fetched from the server. Filtering works on that
// page only and never goes back to the server. Likes marked here live for
// the lifetime of the Feed and are not sent anywhere.
type Feed struct {
	client *Client
	limit  int

	mu    sync.RWMutex
	page  *Page
	liked map[string]struct{}
}

func NewFeed(c *Client, limit int) *Feed {
	return &Feed{
		client: c,
		limit:  limit,
		page:   &Page{News: []model.Article{}},
		liked:  map[string]struct{}{},
	}
}

// Load fetches page n. On failure the previously loaded page stays.
func (f *Feed) Load(ctx context.Context, n int) error {
	p, err := f.client.ListNews(ctx, n, f.limit)
	if err != nil {
		return err
	}
	if p.News == nil {
		p.News = []model.Article{}
	}

	f.mu.Lock()
	f.page = p
	f.mu.Unlock()

	return nil
}

// Page returns the loaded page.
func (f *Feed) Page() Page {
	f.mu.RLock()
	defer f.mu.RUnlock()

	p := *f.page
	p.News = append([]model.Article{}, f.page.News...)

	return p
}

// Visible returns the loaded articles in category whose title or excerpt
// contains search, ignoring case. An empty category or AllCategories matches
// everything, as does an empty search.
func (f *Feed) Visible(category, search string) []model.Article {
	f.mu.RLock()
	defer f.mu.RUnlock()

	search = strings.ToLower(search)
	out := []model.Article{}
	for _, a := range f.page.News {
		if category != "" && category != AllCategories && a.Category != category {
			continue
		}
		if !strings.Contains(strings.ToLower(a.Title), search) &&
			!strings.Contains(strings.ToLower(a.Excerpt), search) {
			continue
		}
		out = append(out, a)
	}

	return out
}

// Featured returns the featured articles of the loaded page, unfiltered.
func (f *Feed) Featured() []model.Article {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := []model.Article{}
	for _, a := range f.page.News {
		if a.Featured {
			out = append(out, a)
		}
	}

	return out
}

// Regular is Visible without the featured articles.
func (f *Feed) Regular(category, search string) []model.Article {
	out := []model.Article{}
	for _, a := range f.Visible(category, search) {
		if !a.Featured {
			out = append(out, a)
		}
	}

	return out
}

// ToggleLiked flips the local like on id and reports whether it is now liked.
func (f *Feed) ToggleLiked(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.liked[id]; ok {
		delete(f.liked, id)

		return false
	}
	f.liked[id] = struct{}{}

	return true
}

func (f *Feed) Liked(id string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	_, ok := f.liked[id]

	return ok
}
