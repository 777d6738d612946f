package article

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/news/internal/articlerequest"
	"github.com/SergeyParamoshkin/news/internal/articleresponse"
	"github.com/SergeyParamoshkin/news/internal/auth"
	"github.com/SergeyParamoshkin/news/internal/errresponse"
	"github.com/SergeyParamoshkin/news/internal/logging"
	"github.com/SergeyParamoshkin/news/internal/metrics"
	"github.com/SergeyParamoshkin/news/internal/model"
	"github.com/SergeyParamoshkin/news/internal/user"
)

// API maps the news HTTP routes onto Service operations.
type API struct {
	service *Service
	metrics *metrics.Metrics
	writes  []func(http.Handler) http.Handler
}

// NewAPI builds the handlers. m may be nil. writes wrap the authenticated
// write routes only, after the caller is known; reads and view counting
// never pass through them.
func NewAPI(service *Service, m *metrics.Metrics, writes ...func(http.Handler) http.Handler) *API {
	return &API{service: service, metrics: m, writes: writes}
}

// Routes returns the /api/news router. Identity must already be resolved by
// auth.Authenticator.Verifier further up the chain.
func (a *API) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", a.ListArticles)                           // GET /api/news?page=&limit=&category=&search=
	r.With(a.authorized()...).Post("/", a.CreateArticle) // POST /api/news
	r.Get("/featured", a.ListFeatured)                   // GET /api/news/featured
	r.Get("/category/{categoryID}", a.ListByCategory)    // GET /api/news/category/technology

	r.Route("/{articleID}", func(r chi.Router) {
		r.Use(ArticleCtx)
		r.Get("/", a.GetArticle)       // GET /api/news/123
		r.Post("/view", a.ViewArticle) // POST /api/news/123/view

		r.Group(func(r chi.Router) {
			r.Use(a.authorized()...)
			r.Put("/", a.UpdateArticle)      // PUT /api/news/123
			r.Patch("/", a.UpdateArticle)    // PATCH /api/news/123
			r.Delete("/", a.DeleteArticle)   // DELETE /api/news/123
			r.Post("/like", a.ToggleLike)    // POST /api/news/123/like
			r.Post("/comment", a.AddComment) // POST /api/news/123/comment
		})
	})

	return r
}

func (a *API) authorized() []func(http.Handler) http.Handler {
	return append([]func(http.Handler) http.Handler{auth.RequireUser}, a.writes...)
}

// ListArticles returns one page of articles. page and limit fall back to
// their defaults when missing or not numbers.
func (a *API) ListArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	result, err := a.service.List(r.Context(), model.ListQuery{
		Page:     page,
		Limit:    limit,
		Category: q.Get("category"),
		Search:   q.Get("search"),
	})
	if err != nil {
		a.fail(w, r, err)

		return
	}

	a.respond(w, r, articleresponse.NewPageResponse(result))
}

func (a *API) ListFeatured(w http.ResponseWriter, r *http.Request) {
	news, err := a.service.GetFeatured(r.Context())
	if err != nil {
		a.fail(w, r, err)

		return
	}

	a.respondList(w, r, articleresponse.NewArticleListResponse(news))
}

func (a *API) ListByCategory(w http.ResponseWriter, r *http.Request) {
	news, err := a.service.GetByCategory(r.Context(), chi.URLParam(r, "categoryID"))
	if err != nil {
		a.fail(w, r, err)

		return
	}

	a.respondList(w, r, articleresponse.NewArticleListResponse(news))
}

// GetArticle returns the article with its references resolved and counts
// the read as a view.
func (a *API) GetArticle(w http.ResponseWriter, r *http.Request) {
	detail, err := a.service.GetByID(r.Context(), IDFromContext(r.Context()))
	if err != nil {
		a.fail(w, r, err)

		return
	}
	a.metrics.Event(r.Context(), metrics.EventView)

	a.respond(w, r, articleresponse.NewDetailResponse(detail))
}

// CreateArticle persists the posted Article and returns it
// back to the client as an acknowledgement.
func (a *API) CreateArticle(w http.ResponseWriter, r *http.Request) {
	data := &articlerequest.ArticleRequest{}
	if err := render.Bind(r, data); err != nil {
		a.respond(w, r, errresponse.ErrInvalidRequest(err))

		return
	}

	caller, _ := user.FromContext(r.Context())
	created, err := a.service.Create(r.Context(), data.NewArticle(), caller.ID)
	if err != nil {
		a.fail(w, r, err)

		return
	}
	a.metrics.Event(r.Context(), metrics.EventCreate)

	render.Status(r, http.StatusCreated)
	a.respond(w, r, articleresponse.NewArticleResponse(created))
}

// UpdateArticle applies a partial update. PUT and PATCH behave the same.
func (a *API) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	data := &articlerequest.PatchRequest{}
	if err := render.Bind(r, data); err != nil {
		a.respond(w, r, errresponse.ErrInvalidRequest(err))

		return
	}

	caller, _ := user.FromContext(r.Context())
	updated, err := a.service.Update(r.Context(), IDFromContext(r.Context()), caller, data.Patch())
	if err != nil {
		a.fail(w, r, err)

		return
	}
	a.metrics.Event(r.Context(), metrics.EventUpdate)

	a.respond(w, r, articleresponse.NewArticleResponse(updated))
}

// DeleteArticle removes an existing Article from our persistent store.
func (a *API) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	caller, _ := user.FromContext(r.Context())
	if err := a.service.Delete(r.Context(), IDFromContext(r.Context()), caller); err != nil {
		a.fail(w, r, err)

		return
	}
	a.metrics.Event(r.Context(), metrics.EventDelete)

	a.respond(w, r, &articleresponse.MessageResponse{Message: "News deleted"})
}

func (a *API) ViewArticle(w http.ResponseWriter, r *http.Request) {
	views, err := a.service.IncrementView(r.Context(), IDFromContext(r.Context()))
	if err != nil {
		a.fail(w, r, err)

		return
	}
	a.metrics.Event(r.Context(), metrics.EventView)

	a.respond(w, r, &articleresponse.ViewsResponse{Views: views})
}

func (a *API) ToggleLike(w http.ResponseWriter, r *http.Request) {
	caller, _ := user.FromContext(r.Context())
	likes, err := a.service.ToggleLike(r.Context(), IDFromContext(r.Context()), caller.ID)
	if err != nil {
		a.fail(w, r, err)

		return
	}
	a.metrics.Event(r.Context(), metrics.EventLike)

	a.respond(w, r, &articleresponse.LikesResponse{Likes: likes})
}

func (a *API) AddComment(w http.ResponseWriter, r *http.Request) {
	data := &articlerequest.CommentRequest{}
	if err := render.Bind(r, data); err != nil {
		a.respond(w, r, errresponse.ErrInvalidRequest(err))

		return
	}

	caller, _ := user.FromContext(r.Context())
	comments, err := a.service.AddComment(r.Context(), IDFromContext(r.Context()), caller.ID, data.Text)
	if err != nil {
		a.fail(w, r, err)

		return
	}
	a.metrics.Event(r.Context(), metrics.EventComment)

	a.respondList(w, r, articleresponse.NewCommentListResponse(comments))
}

// fail translates an operation error. Internal failures are logged with
// their cause; the client only sees a generic message.
func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	resp := errresponse.From(err)
	if resp.Internal() {
		logging.FromContext(r.Context()).Errorw("news operation failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}

	a.respond(w, r, resp)
}

func (a *API) respond(w http.ResponseWriter, r *http.Request, v render.Renderer) {
	if err := render.Render(w, r, v); err != nil {
		logging.FromContext(r.Context()).Errorw("render response", "error", err)
	}
}

func (a *API) respondList(w http.ResponseWriter, r *http.Request, l []render.Renderer) {
	if err := render.RenderList(w, r, l); err != nil {
		logging.FromContext(r.Context()).Errorw("render response", "error", err)
	}
}
