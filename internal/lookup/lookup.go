package lookup

import "context"

// Item is the normalized candidate shape every vendor client produces.
type Item struct {
	Title  string
	ISBN13 string
	ASIN   string
	Image  string
}

// MaxSearchResults bounds how many items a Search call may return.
const MaxSearchResults = 10

// Client is a catalog lookup collaborator. Errors returned by both calls
// are classified with the services sentinels: ErrConfiguration when the
// client lacks credentials, ErrNotFound when nothing matched (including
// malformed vendor payloads), ErrThrottled for transient rate limiting,
// ErrTransient for other retryable transport failures.
type Client interface {
	// Name identifies the vendor in traces and source tags.
	Name() string
	// ByIdentifier fetches a single item by ASIN or ISBN.
	ByIdentifier(ctx context.Context, id string) (*Item, error)
	// Search runs a keyword query and returns up to MaxSearchResults items.
	Search(ctx context.Context, query string) ([]Item, error)
}
