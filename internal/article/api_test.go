package article

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SergeyParamoshkin/news/internal/auth"
	"github.com/SergeyParamoshkin/news/internal/model"
	"github.com/SergeyParamoshkin/news/internal/user"
)

const missingID = "65f1c0de00000000000000ff"

type apiFixture struct {
	t       *testing.T
	handler http.Handler
	store   *MemoryStore
	authn   *auth.Authenticator
	tokens  map[string]string
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	svc, store := newTestService(t)
	authn := auth.New("test-secret")

	r := chi.NewRouter()
	r.Use(authn.Verifier)
	r.Mount("/api/news", NewAPI(svc, nil).Routes())

	f := &apiFixture{t: t, handler: r, store: store, authn: authn, tokens: map[string]string{}}
	for _, id := range []user.Identity{author, reader, admin} {
		tok, err := authn.Issue(id, time.Hour)
		require.NoError(t, err)
		f.tokens[id.ID] = tok
	}

	return f
}

// do sends a request as the user with the given id; an empty id is anonymous.
func (f *apiFixture) do(method, path, as, body string) *httptest.ResponseRecorder {
	f.t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if as != "" {
		req.Header.Set("Authorization", "Bearer "+f.tokens[as])
	}

	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)

	return w
}

func (f *apiFixture) create(title string) *model.Article {
	f.t.Helper()

	body := `{"title":"` + title + `","excerpt":"e","content":"c","category":"technology","image":"https://example.com/i.jpg"}`
	w := f.do(http.MethodPost, "/api/news", authorID, body)
	require.Equal(f.t, http.StatusCreated, w.Code, w.Body.String())

	var a model.Article
	require.NoError(f.t, json.Unmarshal(w.Body.Bytes(), &a))

	return &a
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestAPICreate(t *testing.T) {
	f := newAPIFixture(t)

	body := `{"id":"65f1c0de0000000000000bad","author":"65f1c0de0000000000000bad",
		"title":"Launch","excerpt":"e","content":"c","category":"technology","image":"https://example.com/i.jpg","featured":true}`
	w := f.do(http.MethodPost, "/api/news", authorID, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got model.Article
	decode(t, w, &got)
	assert.Equal(t, authorID, got.Author, "client author is ignored")
	assert.NotEqual(t, "65f1c0de0000000000000bad", got.ID)
	assert.True(t, got.Featured)
	assert.NotNil(t, got.Likes)
	assert.NotNil(t, got.Comments)
}

func TestAPICreateRejects(t *testing.T) {
	f := newAPIFixture(t)

	tests := []struct {
		name   string
		as     string
		body   string
		status int
	}{
		{"anonymous", "", `{"title":"x"}`, http.StatusUnauthorized},
		{"missing title", authorID, `{"excerpt":"e","content":"c","category":"technology","image":"i"}`, http.StatusBadRequest},
		{"broken json", authorID, `{"title":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(http.MethodPost, "/api/news", tt.as, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	w := f.do(http.MethodPost, "/api/news", authorID, `{"title":"  ","excerpt":"e","content":"c","category":"technology","image":"i"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Errors []model.FieldError `json:"errors"`
	}
	decode(t, w, &resp)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "title", resp.Errors[0].Field)
	assert.Equal(t, "Title is required", resp.Errors[0].Message)
	assert.Empty(t, f.store.articles)
}

func TestAPIStaleToken(t *testing.T) {
	f := newAPIFixture(t)
	a := f.create("still public")

	expired, err := f.authn.Issue(user.Identity{ID: authorID, Role: user.RoleAuthor}, -time.Minute)
	require.NoError(t, err)

	send := func(method, path, token string) int {
		req := httptest.NewRequest(method, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		f.handler.ServeHTTP(w, req)

		return w.Code
	}

	for _, token := range []string{expired, "not-a-token"} {
		assert.Equal(t, http.StatusOK, send(http.MethodGet, "/api/news", token))
		assert.Equal(t, http.StatusOK, send(http.MethodGet, "/api/news/featured", token))
		assert.Equal(t, http.StatusOK, send(http.MethodGet, "/api/news/"+a.ID, token))
		assert.Equal(t, http.StatusOK, send(http.MethodPost, "/api/news/"+a.ID+"/view", token))
		assert.Equal(t, http.StatusUnauthorized, send(http.MethodPost, "/api/news/"+a.ID+"/like", token))
		assert.Equal(t, http.StatusUnauthorized, send(http.MethodDelete, "/api/news/"+a.ID, token))
	}
}

func TestAPIList(t *testing.T) {
	f := newAPIFixture(t)
	for _, title := range []string{"alpha", "Quantum leap", "gamma"} {
		f.create(title)
	}

	var page struct {
		News        []model.Article `json:"news"`
		CurrentPage int             `json:"currentPage"`
		TotalPages  int             `json:"totalPages"`
		TotalNews   int64           `json:"totalNews"`
	}

	w := f.do(http.MethodGet, "/api/news?page=1&limit=2", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &page)
	assert.Len(t, page.News, 2)
	assert.Equal(t, "gamma", page.News[0].Title)
	assert.Equal(t, 2, page.TotalPages)
	assert.EqualValues(t, 3, page.TotalNews)

	w = f.do(http.MethodGet, "/api/news?page=abc&limit=-4", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &page)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Len(t, page.News, 3)

	w = f.do(http.MethodGet, "/api/news?search=quantum", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &page)
	require.Len(t, page.News, 1)
	assert.Equal(t, "Quantum leap", page.News[0].Title)

	w = f.do(http.MethodGet, "/api/news?page=50", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"news":[]`)
}

func TestAPIFeaturedAndCategory(t *testing.T) {
	f := newAPIFixture(t)
	f.create("one")

	w := f.do(http.MethodGet, "/api/news/featured", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = f.do(http.MethodGet, "/api/news/category/technology", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []model.Article
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "one", list[0].Title)
}

func TestAPIGetDetail(t *testing.T) {
	f := newAPIFixture(t)
	a := f.create("detailed")

	w := f.do(http.MethodPost, "/api/news/"+a.ID+"/comment", readerID, `{"text":"great read"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(http.MethodGet, "/api/news/"+a.ID, "", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got struct {
		ID       string         `json:"id"`
		Views    int64          `json:"views"`
		Category model.Category `json:"category"`
		Author   struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"author"`
		Comments []struct {
			Text string `json:"text"`
			User struct {
				Name string `json:"name"`
			} `json:"user"`
		} `json:"comments"`
	}
	decode(t, w, &got)
	assert.Equal(t, a.ID, got.ID)
	assert.EqualValues(t, 1, got.Views)
	assert.Equal(t, "Technology", got.Category.Name)
	assert.Equal(t, "bg-purple-500", got.Category.Color)
	assert.Equal(t, "Ada", got.Author.Name)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "Bob", got.Comments[0].User.Name)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/news/"+missingID, "", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/news/not-an-id", "", "").Code)
}

func TestAPIUpdate(t *testing.T) {
	f := newAPIFixture(t)
	a := f.create("before")

	w := f.do(http.MethodPut, "/api/news/"+a.ID, readerID, `{"title":"stolen"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	stored, err := f.store.Get(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "before", stored.Title)

	w = f.do(http.MethodPut, "/api/news/"+a.ID, "", `{"title":"anon"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(http.MethodPatch, "/api/news/"+a.ID, authorID,
		`{"title":"after","views":999,"author":"65f1c0de0000000000000bad","likes":["x"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got model.Article
	decode(t, w, &got)
	assert.Equal(t, "after", got.Title)
	assert.Zero(t, got.Views)
	assert.Equal(t, authorID, got.Author)
	assert.Empty(t, got.Likes)

	w = f.do(http.MethodPut, "/api/news/"+a.ID, adminID, `{"excerpt":"desk edit"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodPut, "/api/news/"+a.ID, authorID, `{"image":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPut, "/api/news/"+missingID, adminID, `{"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPIDelete(t *testing.T) {
	f := newAPIFixture(t)
	a := f.create("short lived")

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodDelete, "/api/news/"+a.ID, readerID, "").Code)

	w := f.do(http.MethodDelete, "/api/news/"+a.ID, authorID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"News deleted"}`, w.Body.String())

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodDelete, "/api/news/"+a.ID, authorID, "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/news/"+a.ID, "", "").Code)
}

func TestAPIViewLikeComment(t *testing.T) {
	f := newAPIFixture(t)
	a := f.create("engaging")

	w := f.do(http.MethodPost, "/api/news/"+a.ID+"/view", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"views":1}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/api/news/"+a.ID+"/like", "", "").Code)

	w = f.do(http.MethodPost, "/api/news/"+a.ID+"/like", readerID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"likes":["`+readerID+`"]}`, w.Body.String())

	w = f.do(http.MethodPost, "/api/news/"+a.ID+"/like", readerID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"likes":[]}`, w.Body.String())

	f.do(http.MethodPost, "/api/news/"+a.ID+"/comment", readerID, `{"text":"first"}`)
	w = f.do(http.MethodPost, "/api/news/"+a.ID+"/comment", authorID, `{"text":"second"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var comments []model.Comment
	decode(t, w, &comments)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, readerID, comments[0].User)
	assert.Equal(t, "second", comments[1].Text)

	w = f.do(http.MethodPost, "/api/news/"+a.ID+"/comment", readerID, `{"text":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPost, "/api/news/"+missingID+"/view", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
