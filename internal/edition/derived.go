package edition

import (
	"regexp"

	"hondana/internal/title"
)

// derivedDef maps a keyword-family pattern to its label. Patterns run
// against the width-folded, lower-cased title. The label feeds resolution
// traces; classification itself only cares that some family matched.
type derivedDef struct {
	label   string
	pattern string
}

// derivedDefs is the single source of truth for derived-edition families.
// This is a deny list, checked independently of volume-marker status: a
// boxed set labeled "1" is still derived, and derived always disqualifies.
var derivedDefs = []derivedDef{
	{"box set", `全\s*巻|全\s*[0-9]+\s*巻|セット|ボックス|\bbox\b`},
	{"fan/guide book", `ファンブック|ガイドブック|ガイド|公式|設定資料|キャラクターブック|データブック|解説本`},
	{"spin-off", `外伝|スピンオフ|番外編|アンソロジー|\bspin\s*-?\s*off\b`},
	{"novelization", `小説版|ノベライズ|ノベルズ|\bnovel\b`},
	{"recolor/selection", `フルカラー|カラー版|セレクション|傑作選|総集編|新装版|完全版`},
	{"language/deluxe edition", `バイリンガル|英語版|豪華版|愛蔵版|デラックス|特装版|限定版`},
	{"serialized single chapter", `分冊|単話|話売り|第\s*[0-9]+\s*話`},
	{"poster/art book", `ポスター|イラスト集|画集|アートブック|ビジュアルブック|原画集`},
}

var derivedPatterns = func() []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(derivedDefs))
	for i, def := range derivedDefs {
		compiled[i] = regexp.MustCompile(def.pattern)
	}
	return compiled
}()

// IsDerivedEdition reports whether the title matches any derived-release
// keyword family.
func IsDerivedEdition(t string) bool {
	label, _ := DerivedEditionLabel(t)
	return label != ""
}

// DerivedEditionLabel returns the label of the first keyword family the
// title matches, for diagnostics. ("", false) when no family matches.
func DerivedEditionLabel(t string) (string, bool) {
	folded := title.FoldedLower(t)
	for i, pattern := range derivedPatterns {
		if pattern.MatchString(folded) {
			return derivedDefs[i].label, true
		}
	}
	return "", false
}
