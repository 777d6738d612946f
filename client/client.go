package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/SergeyParamoshkin/news/internal/model"
)

type Client struct {
	http.Client
	Addr string
}

// Page is one page of the article listing as served by GET /api/news.
type Page struct {
	News        []model.Article `json:"news"`
	CurrentPage int             `json:"currentPage"`
	TotalPages  int             `json:"totalPages"`
	TotalNews   int64           `json:"totalNews"`
}

// StatusError is returned for any non-2xx answer.
type StatusError struct {
	StatusCode int
	Status     string `json:"status"`
	Message    string `json:"error"`
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("news: %d %s: %s", e.StatusCode, e.Status, e.Message)
	}

	return fmt.Sprintf("news: %d %s", e.StatusCode, e.Status)
}

func (c *Client) Ping(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Addr+"/ping", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), err
}

// ListNews fetches one page, newest first. Zero page or limit leaves the
// choice to the server.
func (c *Client) ListNews(ctx context.Context, page, limit int) (*Page, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var p Page
	if err := c.getJSON(ctx, "/api/news", q, &p); err != nil {
		return nil, err
	}

	return &p, nil
}

// Featured fetches the newest featured articles.
func (c *Client) Featured(ctx context.Context) ([]model.Article, error) {
	var news []model.Article
	if err := c.getJSON(ctx, "/api/news/featured", nil, &news); err != nil {
		return nil, err
	}

	return news, nil
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, v interface{}) error {
	u := c.Addr + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &StatusError{StatusCode: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(serr)
		if serr.Status == "" {
			serr.Status = http.StatusText(resp.StatusCode)
		}

		return serr
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	return nil
}
