// Package anilist is a thin AniList GraphQL client used to fill genres,
// tags, staff, and the romaji title lane on confirmed series.
package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"hondana/internal/services"
)

const (
	defaultBaseURL     = "https://graphql.anilist.co"
	defaultHTTPTimeout = 10 * time.Second
)

// mediaQuery is the single query this client issues: the best manga match
// for a native-script search term.
const mediaQuery = `query ($search: String) {
  Media(search: $search, type: MANGA) {
    title { romaji english native }
    genres
    tags { name rank }
    staff(perPage: 4) {
      edges { role node { name { full native } } }
    }
  }
}`

// Media is the normalized AniList payload for one series.
type Media struct {
	TitleRomaji  string
	TitleEnglish string
	Genres       []string
	Tags         []string
	Staff        []string
}

// Client queries the AniList GraphQL API. No credentials are required.
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

// New creates an AniList client.
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

type graphqlRequest struct {
	Query     string            `json:"query"`
	Variables map[string]string `json:"variables"`
}

type graphqlResponse struct {
	Data struct {
		Media *struct {
			Title struct {
				Romaji  string `json:"romaji"`
				English string `json:"english"`
				Native  string `json:"native"`
			} `json:"title"`
			Genres []string `json:"genres"`
			Tags   []struct {
				Name string `json:"name"`
				Rank int    `json:"rank"`
			} `json:"tags"`
			Staff struct {
				Edges []struct {
					Role string `json:"role"`
					Node struct {
						Name struct {
							Full   string `json:"full"`
							Native string `json:"native"`
						} `json:"name"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"staff"`
		} `json:"Media"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// SearchManga fetches the best manga match for a series key.
func (c *Client) SearchManga(ctx context.Context, search string) (*Media, error) {
	search = strings.TrimSpace(search)
	if search == "" {
		return nil, services.Wrap(services.ErrNotFound, "anilist", "search", "empty search term", nil)
	}

	body, err := json.Marshal(graphqlRequest{
		Query:     mediaQuery,
		Variables: map[string]string{"search": search},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal anilist payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build anilist request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "anilist", "search", "execute request", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, services.Wrap(services.ErrThrottled, "anilist", "search", fmt.Sprintf("http %d", resp.StatusCode), nil)
	case resp.StatusCode == http.StatusNotFound:
		return nil, services.Wrap(services.ErrNotFound, "anilist", "search", "http 404", nil)
	default:
		return nil, services.Wrap(services.ErrTransient, "anilist", "search", fmt.Sprintf("http %d", resp.StatusCode), nil)
	}

	var decoded graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, services.Wrap(services.ErrNotFound, "anilist", "search", "decode response", err)
	}
	if decoded.Data.Media == nil {
		return nil, services.Wrap(services.ErrNotFound, "anilist", "search", "no media for "+search, nil)
	}

	raw := decoded.Data.Media
	media := &Media{
		TitleRomaji:  strings.TrimSpace(raw.Title.Romaji),
		TitleEnglish: strings.TrimSpace(raw.Title.English),
		Genres:       raw.Genres,
	}
	for _, tag := range raw.Tags {
		if tag.Name != "" {
			media.Tags = append(media.Tags, tag.Name)
		}
	}
	for _, edge := range raw.Staff.Edges {
		name := edge.Node.Name.Native
		if name == "" {
			name = edge.Node.Name.Full
		}
		if name == "" {
			continue
		}
		if edge.Role != "" {
			name = name + " (" + edge.Role + ")"
		}
		media.Staff = append(media.Staff, name)
	}
	return media, nil
}
