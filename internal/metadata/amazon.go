package metadata

import "strings"

const amazonDPBase = "https://www.amazon.co.jp/dp/"

// AmazonDPURL builds the canonical product-page URL for a volume, preferring
// ASIN, then ISBN-10, then an ISBN-10 derived from the ISBN-13. Returns ""
// when no usable identifier exists.
func AmazonDPURL(asin, isbn10, isbn13 string) string {
	if id := strings.TrimSpace(asin); id != "" {
		return amazonDPBase + id
	}
	if id := strings.TrimSpace(isbn10); id != "" {
		return amazonDPBase + id
	}
	if id := ISBN13To10(isbn13); id != "" {
		return amazonDPBase + id
	}
	return ""
}

// ISBN13To10 converts a 978-prefixed ISBN-13 to its ISBN-10 form. Other
// prefixes (979) have no ISBN-10 equivalent and yield "".
func ISBN13To10(isbn13 string) string {
	s := strings.ReplaceAll(strings.TrimSpace(isbn13), "-", "")
	if len(s) != 13 || !strings.HasPrefix(s, "978") {
		return ""
	}
	body := s[3:12]
	sum := 0
	for i, r := range body {
		if r < '0' || r > '9' {
			return ""
		}
		sum += (10 - i) * int(r-'0')
	}
	check := (11 - sum%11) % 11
	if check == 10 {
		return body + "X"
	}
	return body + string(rune('0'+check))
}
