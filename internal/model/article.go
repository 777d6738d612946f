package model

import "time"

// Article data model. Every user reference (Author, Likes, Comment.User) is the
// user's id as carried in the access token.
type Article struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Excerpt   string    `json:"excerpt"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Author    string    `json:"author"`
	Image     string    `json:"image"`
	Featured  bool      `json:"featured"`
	Views     int64     `json:"views"`
	Likes     []string  `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Comment struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// HasLike reports whether userID is in the article's likes.
func (a *Article) HasLike(userID string) bool {
	for _, id := range a.Likes {
		if id == userID {
			return true
		}
	}

	return false
}

// Clone returns a deep copy so callers never share slices with a store.
func (a *Article) Clone() *Article {
	c := *a
	c.Likes = append([]string{}, a.Likes...)
	c.Comments = append([]Comment{}, a.Comments...)

	return &c
}

// NewArticle holds the caller-supplied fields of a create request.
type NewArticle struct {
	Title    string `validate:"required"`
	Excerpt  string `validate:"required"`
	Content  string `validate:"required"`
	Category string `validate:"required"`
	Image    string `validate:"required"`
	Featured bool
}

// ArticlePatch is the allow-list of fields an update may touch. Nil means
// "leave as is".
type ArticlePatch struct {
	Title    *string `validate:"omitnil,min=1"`
	Excerpt  *string `validate:"omitnil,min=1"`
	Content  *string `validate:"omitnil,min=1"`
	Category *string `validate:"omitnil,min=1"`
	Image    *string `validate:"omitnil,min=1"`
	Featured *bool
}

// Empty reports whether the patch changes nothing.
func (p ArticlePatch) Empty() bool {
	return p.Title == nil && p.Excerpt == nil && p.Content == nil &&
		p.Category == nil && p.Image == nil && p.Featured == nil
}

// Apply copies the provided fields onto a.
func (p ArticlePatch) Apply(a *Article) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Excerpt != nil {
		a.Excerpt = *p.Excerpt
	}
	if p.Content != nil {
		a.Content = *p.Content
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.Image != nil {
		a.Image = *p.Image
	}
	if p.Featured != nil {
		a.Featured = *p.Featured
	}
}

// ListQuery selects one page of articles.
type ListQuery struct {
	Page     int
	Limit    int
	Category string
	Search   string
}

// Skip is the number of matched documents before the page.
func (q ListQuery) Skip() int {
	return (q.Page - 1) * q.Limit
}

// Page is one page of a List result.
type Page struct {
	News        []*Article
	CurrentPage int
	TotalPages  int
	TotalNews   int64
}
