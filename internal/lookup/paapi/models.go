package paapi

import (
	"strings"

	"hondana/internal/lookup"
)

type getItemsRequest struct {
	ItemIds     []string `json:"ItemIds"`
	ItemIdType  string   `json:"ItemIdType"`
	Resources   []string `json:"Resources"`
	PartnerTag  string   `json:"PartnerTag"`
	PartnerType string   `json:"PartnerType"`
	Marketplace string   `json:"Marketplace"`
}

type searchItemsRequest struct {
	Keywords    string   `json:"Keywords"`
	SearchIndex string   `json:"SearchIndex"`
	ItemCount   int      `json:"ItemCount"`
	Resources   []string `json:"Resources"`
	PartnerTag  string   `json:"PartnerTag"`
	PartnerType string   `json:"PartnerType"`
	Marketplace string   `json:"Marketplace"`
}

type getItemsResponse struct {
	ItemsResult struct {
		Items []rawItem `json:"Items"`
	} `json:"ItemsResult"`
}

type searchItemsResponse struct {
	SearchResult struct {
		Items []rawItem `json:"Items"`
	} `json:"SearchResult"`
}

type rawItem struct {
	ASIN     string `json:"ASIN"`
	ItemInfo struct {
		Title struct {
			DisplayValue string `json:"DisplayValue"`
		} `json:"Title"`
		ExternalIds struct {
			ISBNs struct {
				DisplayValues []string `json:"DisplayValues"`
			} `json:"ISBNs"`
			EANs struct {
				DisplayValues []string `json:"DisplayValues"`
			} `json:"EANs"`
		} `json:"ExternalIds"`
	} `json:"ItemInfo"`
	Images struct {
		Primary struct {
			Medium struct {
				URL string `json:"URL"`
			} `json:"Medium"`
		} `json:"Primary"`
	} `json:"Images"`
}

// normalizeItem flattens the PA-API item shape into lookup.Item. The
// thirteen-digit identifier is taken from EANs first (always ISBN-13 form),
// then from any thirteen-digit ISBN display value.
func normalizeItem(raw rawItem) lookup.Item {
	item := lookup.Item{
		Title: strings.TrimSpace(raw.ItemInfo.Title.DisplayValue),
		ASIN:  strings.TrimSpace(raw.ASIN),
		Image: strings.TrimSpace(raw.Images.Primary.Medium.URL),
	}
	for _, ean := range raw.ItemInfo.ExternalIds.EANs.DisplayValues {
		if normalized := normalizeISBN13(ean); normalized != "" {
			item.ISBN13 = normalized
			break
		}
	}
	if item.ISBN13 == "" {
		for _, isbn := range raw.ItemInfo.ExternalIds.ISBNs.DisplayValues {
			if normalized := normalizeISBN13(isbn); normalized != "" {
				item.ISBN13 = normalized
				break
			}
		}
	}
	return item
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
