package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Article es un articulo tal como lo devuelve la API de noticias.
type Article struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

// Client define el acceso a la API de busqueda de noticias.
type Client interface {
	TopBusinessHeadlines(ctx context.Context) ([]Article, error)
	Search(ctx context.Context, keywords []string, from time.Time) ([]Article, error)
}

// HTTPClient implementa Client contra un endpoint con la forma de NewsAPI.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	if baseURL == "" {
		baseURL = "https://newsapi.org"
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// TopBusinessHeadlines devuelve los titulares de negocios del momento.
func (c *HTTPClient) TopBusinessHeadlines(ctx context.Context) ([]Article, error) {
	params := url.Values{}
	params.Set("category", "business")
	params.Set("apiKey", c.apiKey)
	return c.fetch(ctx, "/v2/top-headlines", params)
}

// Search busca articulos que mencionen alguna de las keywords desde la fecha dada.
func (c *HTTPClient) Search(ctx context.Context, keywords []string, from time.Time) ([]Article, error) {
	params := url.Values{}
	params.Set("q", strings.Join(keywords, " OR "))
	params.Set("from", from.Format("2006-01-02"))
	params.Set("sortBy", "publishedAt")
	params.Set("apiKey", c.apiKey)
	return c.fetch(ctx, "/v2/everything", params)
}

func (c *HTTPClient) fetch(ctx context.Context, path string, params url.Values) ([]Article, error) {
	endpoint := c.baseURL + path + "?" + params.Encode()

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(500 * time.Millisecond):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("do request: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("news http error: status=%d", resp.StatusCode)
			continue
		}
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("news http error: status=%d body=%s", resp.StatusCode, string(body))
		}

		var sr searchResponse
		if err := json.Unmarshal(body, &sr); err != nil {
			return nil, fmt.Errorf("unmarshal response: %w", err)
		}
		return sr.Articles, nil
	}
	return nil, lastErr
}

type searchResponse struct {
	Articles []Article `json:"articles"`
}
