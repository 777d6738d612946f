package articleresponse

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/news/internal/model"
	"github.com/SergeyParamoshkin/news/internal/userpayload"
)

// ArticleResponse is the response payload for the Article data model.
//
// In the ArticleResponse object, first a Render() is called on itself,
// then the next field, and so on, all the way down the tree.
type ArticleResponse struct {
	*model.Article
}

func NewArticleListResponse(articles []*model.Article) []render.Renderer {
	list := []render.Renderer{}
	for _, article := range articles {
		list = append(list, NewArticleResponse(article))
	}

	return list
}

func NewArticleResponse(article *model.Article) *ArticleResponse {
	return &ArticleResponse{Article: article}
}

func (rd *ArticleResponse) Render(w http.ResponseWriter, r *http.Request) error {
	// empty collections go out as [] rather than null
	if rd.Likes == nil {
		rd.Likes = []string{}
	}
	if rd.Comments == nil {
		rd.Comments = []model.Comment{}
	}

	return nil
}

// PageResponse is one page of the article listing.
type PageResponse struct {
	News        []*ArticleResponse `json:"news"`
	CurrentPage int                `json:"currentPage"`
	TotalPages  int                `json:"totalPages"`
	TotalNews   int64              `json:"totalNews"`
}

func NewPageResponse(p *model.Page) *PageResponse {
	resp := &PageResponse{
		News:        make([]*ArticleResponse, 0, len(p.News)),
		CurrentPage: p.CurrentPage,
		TotalPages:  p.TotalPages,
		TotalNews:   p.TotalNews,
	}
	for _, a := range p.News {
		resp.News = append(resp.News, NewArticleResponse(a))
	}

	return resp
}

func (rd *PageResponse) Render(w http.ResponseWriter, r *http.Request) error {
	for _, a := range rd.News {
		if err := a.Render(w, r); err != nil {
			return err
		}
	}

	return nil
}

// DetailResponse is a single article with category, author and comment
// authors resolved.
type DetailResponse struct {
	*model.Article

	Category *model.Category          `json:"category"`
	Author   *userpayload.UserPayload `json:"author"`
	Comments []*CommentResponse       `json:"comments"`
}

func NewDetailResponse(d *model.ArticleDetail) *DetailResponse {
	resp := &DetailResponse{
		Article:  d.Article,
		Category: d.Category,
		Author:   userpayload.NewUserPayloadResponse(d.Author),
		Comments: make([]*CommentResponse, 0, len(d.Comments)),
	}
	for _, c := range d.Comments {
		resp.Comments = append(resp.Comments, &CommentResponse{
			ID:        c.ID,
			User:      userpayload.NewUserPayloadResponse(c.User),
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}

	return resp
}

func (rd *DetailResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if rd.Likes == nil {
		rd.Likes = []string{}
	}

	return nil
}

// CommentResponse is one comment. User is either a resolved user or the raw
// user id, depending on the route.
type CommentResponse struct {
	ID        string      `json:"id"`
	User      interface{} `json:"user"`
	Text      string      `json:"text"`
	CreatedAt time.Time   `json:"createdAt"`
}

func NewCommentListResponse(comments []model.Comment) []render.Renderer {
	list := []render.Renderer{}
	for _, c := range comments {
		list = append(list, &CommentResponse{ID: c.ID, User: c.User, Text: c.Text, CreatedAt: c.CreatedAt})
	}

	return list
}

func (rd *CommentResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type ViewsResponse struct {
	Views int64 `json:"views"`
}

func (rd *ViewsResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type LikesResponse struct {
	Likes []string `json:"likes"`
}

func (rd *LikesResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if rd.Likes == nil {
		rd.Likes = []string{}
	}

	return nil
}

type MessageResponse struct {
	Message string `json:"message"`
}

func (rd *MessageResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
