package paapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hondana/internal/services"
)

const getItemsPayload = `{
  "ItemsResult": {"Items": [
    {
      "ASIN": "B07D5XH2YQ",
      "ItemInfo": {
        "Title": {"DisplayValue": "極主夫道 1巻"},
        "ExternalIds": {
          "ISBNs": {"DisplayValues": ["4107720497"]},
          "EANs": {"DisplayValues": ["978-4-10-772049-8"]}
        }
      },
      "Images": {"Primary": {"Medium": {"URL": "https://img.example/m.jpg"}}}
    }
  ]}
}`

func testConfig() Config {
	return Config{AccessKey: "ak", SecretKey: "sk", PartnerTag: "tag-22"}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewTLSServer(handler)
	t.Cleanup(server.Close)
	cfg := testConfig()
	cfg.Host = server.Listener.Addr().String()
	return New(cfg, WithHTTPClient(server.Client()))
}

func TestByIdentifierNormalizesItem(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Amz-Target") != targetGetItems {
			t.Errorf("target = %q", r.Header.Get("X-Amz-Target"))
		}
		if r.Header.Get("Authorization") == "" {
			t.Error("request not signed")
		}
		var req getItemsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.ItemIdType != "ASIN" || len(req.ItemIds) != 1 || req.ItemIds[0] != "B07D5XH2YQ" {
			t.Errorf("request = %+v", req)
		}
		w.Write([]byte(getItemsPayload))
	})

	item, err := client.ByIdentifier(context.Background(), "B07D5XH2YQ")
	if err != nil {
		t.Fatalf("ByIdentifier failed: %v", err)
	}
	if item.Title != "極主夫道 1巻" || item.ASIN != "B07D5XH2YQ" {
		t.Fatalf("item = %+v", item)
	}
	// The hyphenated EAN wins and is normalized to bare digits.
	if item.ISBN13 != "9784107720498" {
		t.Fatalf("isbn13 = %q", item.ISBN13)
	}
	if item.Image != "https://img.example/m.jpg" {
		t.Fatalf("image = %q", item.Image)
	}
}

func TestByIdentifierDeclaresISBNType(t *testing.T) {
	var gotType string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req getItemsRequest
		json.NewDecoder(r.Body).Decode(&req)
		gotType = req.ItemIdType
		w.Write([]byte(getItemsPayload))
	})

	if _, err := client.ByIdentifier(context.Background(), "9784107720498"); err != nil {
		t.Fatalf("ByIdentifier failed: %v", err)
	}
	if gotType != "ISBN" {
		t.Fatalf("ItemIdType = %q, want ISBN", gotType)
	}
}

func TestUnconfiguredClientReportsConfiguration(t *testing.T) {
	client := New(Config{})

	if _, err := client.ByIdentifier(context.Background(), "B07D5XH2YQ"); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("ByIdentifier error = %v", err)
	}
	if _, err := client.Search(context.Background(), "極主夫道"); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("Search error = %v", err)
	}
}

func TestThrottledStatusMapsToThrottled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.ByIdentifier(context.Background(), "B07D5XH2YQ")
	if !errors.Is(err, services.ErrThrottled) {
		t.Fatalf("expected throttled, got %v", err)
	}
	if !services.Retryable(err) {
		t.Fatal("throttled errors must be retryable")
	}
}

func TestEmptyResultIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ItemsResult": {"Items": []}}`))
	})

	_, err := client.ByIdentifier(context.Background(), "B000000000")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestItemIDType(t *testing.T) {
	cases := map[string]string{
		"B07D5XH2YQ":    "ASIN",
		"9784107720498": "ISBN",
		"4107720497":    "ISBN",
		"410772049X":    "ISBN",
	}
	for id, want := range cases {
		if got := itemIDType(id); got != want {
			t.Errorf("itemIDType(%q) = %q, want %q", id, got, want)
		}
	}
}
