// Package openbd is a thin client for the openBD bibliographic API, used
// to fill publisher, release date, and description on confirmed series.
package openbd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"hondana/internal/services"
)

const (
	defaultBaseURL     = "https://api.openbd.jp/v1"
	defaultHTTPTimeout = 10 * time.Second
)

// Book is the normalized openBD payload for one ISBN.
type Book struct {
	Publisher   string
	PubDate     string // date-only, YYYY-MM-DD
	Description string
	Cover       string
}

// Client queries openBD. No credentials are required.
type Client struct {
	baseURL    string
	httpClient *http.Client
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

// New creates an openBD client.
func New(opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type entry struct {
	Summary struct {
		Publisher string `json:"publisher"`
		Pubdate   string `json:"pubdate"`
		Cover     string `json:"cover"`
	} `json:"summary"`
	Onix struct {
		CollateralDetail struct {
			TextContent []struct {
				TextType string `json:"TextType"`
				Text     string `json:"Text"`
			} `json:"TextContent"`
		} `json:"CollateralDetail"`
	} `json:"onix"`
}

// ByISBN fetches the book record for an ISBN-13.
func (c *Client) ByISBN(ctx context.Context, isbn13 string) (*Book, error) {
	isbn13 = strings.TrimSpace(isbn13)
	if isbn13 == "" {
		return nil, services.Wrap(services.ErrNotFound, "openbd", "get", "empty isbn", nil)
	}

	endpoint := c.baseURL + "/get?isbn=" + url.QueryEscape(isbn13)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build openbd request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "openbd", "get", "execute request", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, services.Wrap(services.ErrThrottled, "openbd", "get", fmt.Sprintf("http %d", resp.StatusCode), nil)
	default:
		return nil, services.Wrap(services.ErrTransient, "openbd", "get", fmt.Sprintf("http %d", resp.StatusCode), nil)
	}

	// openBD answers with one array slot per requested ISBN; unknown ISBNs
	// come back as JSON null.
	var entries []*entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, services.Wrap(services.ErrNotFound, "openbd", "get", "decode response", err)
	}
	if len(entries) == 0 || entries[0] == nil {
		return nil, services.Wrap(services.ErrNotFound, "openbd", "get", "no record for "+isbn13, nil)
	}

	raw := entries[0]
	book := &Book{
		Publisher: strings.TrimSpace(raw.Summary.Publisher),
		PubDate:   normalizePubdate(raw.Summary.Pubdate),
		Cover:     strings.TrimSpace(raw.Summary.Cover),
	}
	// TextType 03 is the long description; 02 is the short one. Prefer 03
	// regardless of payload order.
	for _, text := range raw.Onix.CollateralDetail.TextContent {
		if text.TextType == "03" {
			book.Description = strings.TrimSpace(text.Text)
			break
		}
		if text.TextType == "02" && book.Description == "" {
			book.Description = strings.TrimSpace(text.Text)
		}
	}
	return book, nil
}

var pubdatePattern = regexp.MustCompile(`^(\d{4})-?(\d{2})?-?(\d{2})?$`)

// normalizePubdate converts openBD pubdate variants (YYYYMMDD, YYYY-MM,
// YYYY) to date-only YYYY-MM-DD, defaulting missing parts to 01.
func normalizePubdate(raw string) string {
	m := pubdatePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return ""
	}
	month, day := m[2], m[3]
	if month == "" {
		month = "01"
	}
	if day == "" {
		day = "01"
	}
	return m[1] + "-" + month + "-" + day
}
