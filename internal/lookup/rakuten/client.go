// Package rakuten is a thin Rakuten Books search client used as the
// fallback lookup source when PA-API credentials are absent. Payloads are
// normalized to lookup.Item at this boundary.
package rakuten

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"hondana/internal/lookup"
	"hondana/internal/services"
)

const (
	defaultBaseURL     = "https://app.rakuten.co.jp/services/api/BooksBook/Search/20170404"
	defaultHTTPTimeout = 10 * time.Second
)

// Client queries the Rakuten Books API.
type Client struct {
	applicationID string
	baseURL       string
	httpClient    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the API endpoint (used in tests).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if strings.TrimSpace(baseURL) != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// New creates a Rakuten Books client.
func New(applicationID string, opts ...Option) *Client {
	client := &Client{
		applicationID: strings.TrimSpace(applicationID),
		baseURL:       defaultBaseURL,
		httpClient:    &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Name identifies this vendor in traces.
func (c *Client) Name() string { return "rakuten" }

var _ lookup.Client = (*Client)(nil)

type booksResponse struct {
	Items []struct {
		Item struct {
			Title          string `json:"title"`
			ISBN           string `json:"isbn"`
			LargeImageURL  string `json:"largeImageUrl"`
			MediumImageURL string `json:"mediumImageUrl"`
		} `json:"Item"`
	} `json:"Items"`
}

// ByIdentifier fetches a single book by ISBN. Rakuten has no ASIN concept;
// ASIN-shaped identifiers report not found so the resolver falls through.
func (c *Client) ByIdentifier(ctx context.Context, id string) (*lookup.Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, services.Wrap(services.ErrNotFound, "rakuten", "isbn lookup", "empty identifier", nil)
	}
	if !isISBN(id) {
		return nil, services.Wrap(services.ErrNotFound, "rakuten", "isbn lookup", "identifier is not an isbn: "+id, nil)
	}
	items, err := c.query(ctx, url.Values{"isbn": []string{id}})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "rakuten", "isbn lookup", "no book for "+id, nil)
	}
	return &items[0], nil
}

// Search runs a title keyword query.
func (c *Client) Search(ctx context.Context, query string) ([]lookup.Item, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	return c.query(ctx, url.Values{"title": []string{query}})
}

func (c *Client) query(ctx context.Context, params url.Values) ([]lookup.Item, error) {
	if c.applicationID == "" {
		return nil, services.Wrap(services.ErrConfiguration, "rakuten", "query", "application id not configured", nil)
	}

	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse rakuten url: %w", err)
	}
	params.Set("applicationId", c.applicationID)
	params.Set("hits", strconv.Itoa(lookup.MaxSearchResults))
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build rakuten request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "rakuten", "query", "execute request", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, services.Wrap(services.ErrThrottled, "rakuten", "query", fmt.Sprintf("http %d", resp.StatusCode), nil)
	default:
		return nil, services.Wrap(services.ErrTransient, "rakuten", "query", fmt.Sprintf("http %d", resp.StatusCode), nil)
	}

	var payload booksResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, services.Wrap(services.ErrNotFound, "rakuten", "query", "decode response", err)
	}

	items := make([]lookup.Item, 0, len(payload.Items))
	for _, entry := range payload.Items {
		item := lookup.Item{
			Title:  strings.TrimSpace(entry.Item.Title),
			ISBN13: normalizeISBN13(entry.Item.ISBN),
			Image:  strings.TrimSpace(entry.Item.MediumImageURL),
		}
		if item.Image == "" {
			item.Image = strings.TrimSpace(entry.Item.LargeImageURL)
		}
		if item.Title == "" {
			continue
		}
		items = append(items, item)
		if len(items) == lookup.MaxSearchResults {
			break
		}
	}
	return items, nil
}

func isISBN(id string) bool {
	if len(id) != 10 && len(id) != 13 {
		return false
	}
	for i, r := range id {
		if r >= '0' && r <= '9' {
			continue
		}
		// ISBN-10 check digit may be X.
		if len(id) == 10 && i == 9 && (r == 'X' || r == 'x') {
			continue
		}
		return false
	}
	return true
}

func normalizeISBN13(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), "-", "")
	if len(s) != 13 {
		return ""
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return s
}
