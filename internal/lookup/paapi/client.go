package paapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hondana/internal/lookup"
	"hondana/internal/services"
)

const (
	defaultHost        = "webservices.amazon.co.jp"
	defaultRegion      = "us-west-2"
	defaultMarketplace = "www.amazon.co.jp"
	defaultHTTPTimeout = 15 * time.Second

	targetGetItems    = "com.amazon.paapi5.v1.ProductAdvertisingAPIv1.GetItems"
	targetSearchItems = "com.amazon.paapi5.v1.ProductAdvertisingAPIv1.SearchItems"
)

// Config captures the credentials and endpoint settings for PA-API calls.
type Config struct {
	AccessKey   string
	SecretKey   string
	PartnerTag  string
	Host        string
	Region      string
	Marketplace string
}

// Client talks to the Product Advertising API. A zero-credential client is
// constructible but every call reports services.ErrConfiguration, which the
// resolver surfaces as a todo reason instead of silently skipping the path.
type Client struct {
	cfg        Config
	httpClient *http.Client
	now        func() time.Time
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithClock overrides request timestamping (used for signing tests).
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a PA-API client.
func New(cfg Config, opts ...Option) *Client {
	if strings.TrimSpace(cfg.Host) == "" {
		cfg.Host = defaultHost
	}
	if strings.TrimSpace(cfg.Region) == "" {
		cfg.Region = defaultRegion
	}
	if strings.TrimSpace(cfg.Marketplace) == "" {
		cfg.Marketplace = defaultMarketplace
	}
	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Name identifies this vendor in traces.
func (c *Client) Name() string { return "paapi" }

var _ lookup.Client = (*Client)(nil)

func (c *Client) configured() bool {
	return strings.TrimSpace(c.cfg.AccessKey) != "" &&
		strings.TrimSpace(c.cfg.SecretKey) != "" &&
		strings.TrimSpace(c.cfg.PartnerTag) != ""
}

var itemResources = []string{
	"ItemInfo.Title",
	"ItemInfo.ExternalIds",
	"ItemInfo.ByLineInfo",
	"Images.Primary.Medium",
}

// ByIdentifier fetches a single item by ASIN or ISBN via GetItems.
func (c *Client) ByIdentifier(ctx context.Context, id string) (*lookup.Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, services.Wrap(services.ErrNotFound, "paapi", "get items", "empty identifier", nil)
	}
	if !c.configured() {
		return nil, services.Wrap(services.ErrConfiguration, "paapi", "get items", "credentials not configured", nil)
	}

	payload := getItemsRequest{
		ItemIds:     []string{id},
		ItemIdType:  itemIDType(id),
		Resources:   itemResources,
		PartnerTag:  c.cfg.PartnerTag,
		PartnerType: "Associates",
		Marketplace: c.cfg.Marketplace,
	}
	var decoded getItemsResponse
	if err := c.post(ctx, "/paapi5/getitems", targetGetItems, payload, &decoded); err != nil {
		return nil, err
	}
	items := decoded.ItemsResult.Items
	if len(items) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "paapi", "get items", "no item for "+id, nil)
	}
	normalized := normalizeItem(items[0])
	return &normalized, nil
}

// Search runs a keyword query against the Books index via SearchItems.
func (c *Client) Search(ctx context.Context, query string) ([]lookup.Item, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if !c.configured() {
		return nil, services.Wrap(services.ErrConfiguration, "paapi", "search items", "credentials not configured", nil)
	}

	payload := searchItemsRequest{
		Keywords:    query,
		SearchIndex: "Books",
		ItemCount:   lookup.MaxSearchResults,
		Resources:   itemResources,
		PartnerTag:  c.cfg.PartnerTag,
		PartnerType: "Associates",
		Marketplace: c.cfg.Marketplace,
	}
	var decoded searchItemsResponse
	if err := c.post(ctx, "/paapi5/searchitems", targetSearchItems, payload, &decoded); err != nil {
		return nil, err
	}
	results := decoded.SearchResult.Items
	if len(results) > lookup.MaxSearchResults {
		results = results[:lookup.MaxSearchResults]
	}
	items := make([]lookup.Item, 0, len(results))
	for _, raw := range results {
		items = append(items, normalizeItem(raw))
	}
	return items, nil
}

func (c *Client) post(ctx context.Context, path, target string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal paapi payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://"+c.cfg.Host+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build paapi request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Content-Encoding", "amz-1.0")
	req.Header.Set("X-Amz-Target", target)
	signRequest(req, body, c.cfg, path, c.now().UTC())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransient, "paapi", "request", "execute", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return services.Wrap(services.ErrThrottled, "paapi", "request", fmt.Sprintf("http %d", resp.StatusCode), nil)
	case resp.StatusCode == http.StatusNotFound:
		return services.Wrap(services.ErrNotFound, "paapi", "request", "http 404", nil)
	default:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return services.Wrap(services.ErrTransient, "paapi", "request",
			fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		// Malformed vendor payloads degrade to not-found for this call.
		return services.Wrap(services.ErrNotFound, "paapi", "request", "decode response", err)
	}
	return nil
}

// itemIDType distinguishes ASIN from ISBN identifiers. PA-API needs the
// type declared; ASINs are ten characters and carry letters, ISBN-10 values
// are ten digits (with an optional X check digit) and ISBN-13 thirteen.
func itemIDType(id string) string {
	digits := 0
	for _, r := range id {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	switch {
	case len(id) == 13 && digits == 13:
		return "ISBN"
	case len(id) == 10 && digits >= 9:
		return "ISBN"
	default:
		return "ASIN"
	}
}
