package article

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SergeyParamoshkin/news/internal/errresponse"
	"github.com/SergeyParamoshkin/news/internal/logging"
)

type ctxKey int

const articleIDKey ctxKey = iota

// ArticleCtx middleware checks the {articleID} URL parameter and puts it on
// the request context. An id that cannot name an article stops here with a
// 404. The document itself is loaded by the handler, since reading one may
// count a view.
func ArticleCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		articleID := chi.URLParam(r, "articleID")
		if !primitive.IsValidObjectID(articleID) {
			if err := render.Render(w, r, errresponse.ErrNotFound); err != nil {
				logging.FromContext(r.Context()).Errorw("render not found", "error", err)
			}

			return
		}

		ctx := context.WithValue(r.Context(), articleIDKey, articleID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IDFromContext returns the id stored by ArticleCtx.
func IDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(articleIDKey).(string)

	return id
}
