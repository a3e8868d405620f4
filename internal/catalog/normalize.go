package catalog

import (
	"maps"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slashSpacing = regexp.MustCompile(`\s*/\s*`)
	nonKeyChars  = regexp.MustCompile(`[^a-z0-9 ]+`)
)

// Normalizer maps raw category strings to canonical display labels.
// It is safe for concurrent use once built.
type Normalizer struct {
	exact    map[string]string
	stripped map[string]string
}

// NewNormalizer indexes table. Every label is also indexed under its own
// normalized forms, so normalizing a label yields the label itself. Keys are
// indexed in sorted order; when two of them clean to the same form, the
// lexically smaller one wins.
func NewNormalizer(table Table) *Normalizer {
	n := &Normalizer{
		exact:    make(map[string]string, len(table)*2),
		stripped: make(map[string]string, len(table)*2),
	}
	for _, raw := range slices.Sorted(maps.Keys(table)) {
		n.index(raw, table[raw])
	}
	for _, label := range slices.Sorted(maps.Values(table)) {
		n.index(label, label)
	}
	return n
}

func (n *Normalizer) index(key, label string) {
	k := cleanCategory(key)
	if k == "" {
		return
	}
	if _, ok := n.exact[k]; !ok {
		n.exact[k] = label
	}
	if s := stripCategory(k); s != "" {
		if _, ok := n.stripped[s]; !ok {
			n.stripped[s] = label
		}
	}
}

// Normalize returns the display label for raw. It never fails: empty input
// yields FallbackGenre and unknown categories are title-cased.
func (n *Normalizer) Normalize(raw string) string {
	cleaned := cleanCategory(raw)
	if cleaned == "" {
		return FallbackGenre
	}
	if label, ok := n.exact[cleaned]; ok {
		return label
	}
	if s := stripCategory(cleaned); s != "" {
		if label, ok := n.stripped[s]; ok {
			return label
		}
	}
	return titleCase(cleaned)
}

// cleanCategory lower-cases, trims, collapses whitespace and puts single
// spaces around slashes.
func cleanCategory(s string) string {
	s = strings.ToLower(s)
	s = slashSpacing.ReplaceAllString(s, " / ")
	return strings.Join(strings.Fields(s), " ")
}

// stripCategory folds accents and drops everything outside [a-z0-9 ].
func stripCategory(s string) string {
	// A chain keeps per-call buffers, so it is not shared between callers.
	foldAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(foldAccents, s)
	if err != nil {
		folded = s
	}
	folded = nonKeyChars.ReplaceAllString(folded, "")
	return strings.Join(strings.Fields(folded), " ")
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
