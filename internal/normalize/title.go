package normalize

import (
	"regexp"
	"strings"
)

var (
	parenRe = regexp.MustCompile(`\([^)]*\)`)
	punctRe = regexp.MustCompile(`[^\p{L}\p{N} ]+`)
)

// editionSuffixes are trailing qualifiers that vary across storefronts for
// the same game. Longer phrases first so "game of the year edition" is not
// left half-stripped by "edition" alone.
var editionSuffixes = []string{
	"game of the year edition",
	"definitive edition",
	"enhanced edition",
	"complete edition",
	"standard edition",
	"ultimate edition",
	"deluxe edition",
	"goty edition",
	"remastered",
	"edition",
}

// MatchKey derives the normalized title form used for duplicate grouping:
// lowercased, parenthetical qualifiers and punctuation stripped, edition
// suffixes removed, whitespace collapsed. Deterministic and
// source-independent.
func MatchKey(title string) string {
	s := strings.ToLower(title)
	s = parenRe.ReplaceAllString(s, " ")
	s = punctRe.ReplaceAllString(s, " ")
	s = strings.Join(strings.Fields(s), " ")

	stripped := stripEditionSuffix(s)
	if stripped == "" {
		// The whole title was an edition phrase; keep it rather than
		// matching everything against the empty key.
		return s
	}
	return stripped
}

func stripEditionSuffix(s string) string {
	for changed := true; changed; {
		changed = false
		for _, suffix := range editionSuffixes {
			// A title that IS an edition phrase keeps it.
			if s == suffix {
				return s
			}
			if strings.HasSuffix(s, " "+suffix) {
				s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
				// Restart so longer phrases match before their tails.
				changed = true
				break
			}
		}
	}
	return s
}
