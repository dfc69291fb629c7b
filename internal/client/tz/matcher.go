package tz

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// MaxSuggestions bounds every Suggest result.
const MaxSuggestions = 25

// Aliases are always offered, even when the host catalog lacks them.
var Aliases = []string{"Asia/Kolkata", "Asia/Calcutta", "Asia/Dhaka", "Asia/Karachi"}

type candidate struct {
	name   string
	folded string
}

// Matcher answers substring queries over an immutable zone list.
type Matcher struct {
	candidates []candidate
}

// NewMatcher builds a matcher over zones plus Aliases. Duplicates are
// dropped and the list is put in English collation order once.
func NewMatcher(zones []string) *Matcher {
	seen := make(map[string]struct{}, len(zones)+len(Aliases))
	names := make([]string, 0, len(zones)+len(Aliases))
	for _, z := range append(append([]string(nil), zones...), Aliases...) {
		if z == "" {
			continue
		}
		if _, ok := seen[z]; ok {
			continue
		}
		seen[z] = struct{}{}
		names = append(names, z)
	}

	col := collate.New(language.English)
	sort.SliceStable(names, func(i, j int) bool {
		if c := col.CompareString(names[i], names[j]); c != 0 {
			return c < 0
		}
		return names[i] < names[j]
	})

	fold := cases.Fold()
	m := &Matcher{candidates: make([]candidate, len(names))}
	for i, n := range names {
		m.candidates[i] = candidate{name: n, folded: fold.String(n)}
	}
	return m
}

// Suggest returns up to MaxSuggestions zones containing q, ignoring case,
// in collation order. An empty q matches everything; q is not trimmed, so a
// blank query matches nothing.
func (m *Matcher) Suggest(q string) []string {
	needle := cases.Fold().String(q)

	out := make([]string, 0, MaxSuggestions)
	for _, c := range m.candidates {
		if !strings.Contains(c.folded, needle) {
			continue
		}
		out = append(out, c.name)
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}

// Len reports the size of the candidate set.
func (m *Matcher) Len() int {
	return len(m.candidates)
}
