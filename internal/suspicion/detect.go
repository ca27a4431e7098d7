package suspicion

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"hondana/internal/title"
)

// Reason tags explaining why a title was flagged. The tag records which
// separator class sat in front of the volume marker, or that a high-risk
// keyword followed it.
const (
	ReasonTilde        = "tilde_before_volume_marker"
	ReasonColon        = "colon_before_volume_marker"
	ReasonQuoteBracket = "quote_bracket_before_volume_marker"
	ReasonDash         = "dash_before_volume_marker"
	ReasonLongText     = "long_text_before_volume_marker"
	ReasonText         = "text_before_volume_marker"
	ReasonKeyword      = "suspicious_keyword"
)

// Result is the detector verdict for one title.
type Result struct {
	Suspicious bool
	Reason     string
}

const longTextRunes = 8

var (
	tildeRunes        = "~〜～"
	colonRunes        = ":：;；"
	dashRunes         = "-‐‑–—−ｰ"
	quoteBracketRunes = "「」『』()（）[]［］【】〈〉《》<>\"'“”‘’"
	middleDotRunes    = "・·•"
)

// highRiskKeywords are terms that co-occur with non-mainline editions even
// when the volume marker itself parses cleanly. Catalog search APIs do not
// reject these on their own, so a hit routes the match to review.
var highRiskKeywords = []string{
	"アンソロジー",
	"anthology",
	"記念",
	"限定版",
	"限定",
	"特装",
	"キャラクターブック",
	"キャラブック",
	"ファンブック",
	"ガイドブック",
	"公式ブック",
}

// Detect decides whether the title/series match is suspicious. A title whose
// series key is absent is not suspicious here; that case is rejected
// elsewhere. A title with no volume marker after the series name is likewise
// left to the mainline checks.
func Detect(t, seriesKey string) Result {
	_, keyEnd := title.SeriesNameIndex(t, seriesKey)
	if keyEnd < 0 {
		return Result{}
	}
	after := title.FoldedLower(t)[keyEnd:]

	markerStart, markerEnd := title.FindVolumeMarkerFolded(after)
	if markerStart < 0 {
		return Result{}
	}

	pre := after[:markerStart]
	if residual := stripSeparators(pre); residual != "" {
		return Result{Suspicious: true, Reason: classifyPre(pre, residual)}
	}

	post := after[markerEnd:]
	for _, keyword := range highRiskKeywords {
		if strings.Contains(post, keyword) {
			return Result{Suspicious: true, Reason: ReasonKeyword}
		}
	}
	return Result{}
}

// stripSeparators removes whitespace and common separator punctuation from
// the pre-volume span. Whatever remains is real free text.
func stripSeparators(pre string) string {
	var b strings.Builder
	for _, r := range pre {
		if unicode.IsSpace(r) || isSeparator(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isSeparator(r rune) bool {
	return strings.ContainsRune(tildeRunes, r) ||
		strings.ContainsRune(colonRunes, r) ||
		strings.ContainsRune(dashRunes, r) ||
		strings.ContainsRune(quoteBracketRunes, r) ||
		strings.ContainsRune(middleDotRunes, r)
}

// classifyPre picks the reason tag by which separator class appeared in the
// pre-volume span, falling back to residual length and then the generic tag.
func classifyPre(pre, residual string) string {
	switch {
	case strings.ContainsAny(pre, tildeRunes):
		return ReasonTilde
	case strings.ContainsAny(pre, colonRunes):
		return ReasonColon
	case strings.ContainsAny(pre, quoteBracketRunes):
		return ReasonQuoteBracket
	case strings.ContainsAny(pre, dashRunes):
		return ReasonDash
	case utf8.RuneCountInString(residual) >= longTextRunes:
		return ReasonLongText
	default:
		return ReasonText
	}
}
