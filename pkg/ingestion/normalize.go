package ingestion

import (
	"regexp"
	"strings"
)

var (
	multiSpaceRe = regexp.MustCompile(`\s+`)
	htmlTagRe    = regexp.MustCompile(`</?\w+>`)

	pzaRe          = regexp.MustCompile(`\bpza\b`)
	granelRe       = regexp.MustCompile(`\bgranel\b`)
	hundredGramsRe = regexp.MustCompile(`\b100\s?gr?s?\b`)
	oneKiloRe      = regexp.MustCompile(`\b1\s?kg\b`)
)

// normalizeText lowercases a value, strips HTML tags, drops commas and
// dots and collapses whitespace runs.
func normalizeText(s string) string {
	s = strings.TrimSpace(s)
	s = multiSpaceRe.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ToLower(s)
	s = htmlTagRe.ReplaceAllString(s, "")
	return s
}

// packageUnit derives the unit of sale from a normalized description.
// Bulk markers mean kilograms, everything else sells by unit.
func packageUnit(desc string) string {
	switch {
	case granelRe.MatchString(desc),
		hundredGramsRe.MatchString(desc),
		oneKiloRe.MatchString(desc):
		return "kg"
	case desc == "un", pzaRe.MatchString(desc):
		return "un"
	default:
		return "un"
	}
}

// joinCategories joins non-empty category levels root first.
func joinCategories(sep string, levels ...string) string {
	parts := make([]string, 0, len(levels))
	for _, l := range levels {
		if l != "" {
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, sep)
}
