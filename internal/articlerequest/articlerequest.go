package articlerequest

import (
	"encoding/json"
	"net/http"

	"github.com/SergeyParamoshkin/news/internal/model"
)

// ArticleRequest is the request payload for creating an article.
//
// Fields the server owns are decoded into Protected* so that whatever the
// client sends for them is dropped in Bind.
type ArticleRequest struct {
	Title    string `json:"title"`
	Excerpt  string `json:"excerpt"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Image    string `json:"image"`
	Featured bool   `json:"featured"`

	ProtectedID     json.RawMessage `json:"id,omitempty"`
	ProtectedAuthor json.RawMessage `json:"author,omitempty"`
}

func (a *ArticleRequest) Bind(r *http.Request) error {
	a.ProtectedID = nil
	a.ProtectedAuthor = nil

	return nil
}

func (a *ArticleRequest) NewArticle() model.NewArticle {
	return model.NewArticle{
		Title:    a.Title,
		Excerpt:  a.Excerpt,
		Content:  a.Content,
		Category: a.Category,
		Image:    a.Image,
		Featured: a.Featured,
	}
}

// PatchRequest is the request payload for PUT and PATCH. Only the listed
// fields can change; a missing field keeps its stored value.
type PatchRequest struct {
	Title    *string `json:"title"`
	Excerpt  *string `json:"excerpt"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
	Image    *string `json:"image"`
	Featured *bool   `json:"featured"`

	ProtectedID        json.RawMessage `json:"id,omitempty"`
	ProtectedAuthor    json.RawMessage `json:"author,omitempty"`
	ProtectedCreatedAt json.RawMessage `json:"createdAt,omitempty"`
	ProtectedViews     json.RawMessage `json:"views,omitempty"`
	ProtectedLikes     json.RawMessage `json:"likes,omitempty"`
	ProtectedComments  json.RawMessage `json:"comments,omitempty"`
}

func (p *PatchRequest) Bind(r *http.Request) error {
	p.ProtectedID = nil
	p.ProtectedAuthor = nil
	p.ProtectedCreatedAt = nil
	p.ProtectedViews = nil
	p.ProtectedLikes = nil
	p.ProtectedComments = nil

	return nil
}

func (p *PatchRequest) Patch() model.ArticlePatch {
	return model.ArticlePatch{
		Title:    p.Title,
		Excerpt:  p.Excerpt,
		Content:  p.Content,
		Category: p.Category,
		Image:    p.Image,
		Featured: p.Featured,
	}
}

// CommentRequest is the request payload for adding a comment.
type CommentRequest struct {
	Text string `json:"text"`
}

func (c *CommentRequest) Bind(r *http.Request) error {
	return nil
}
