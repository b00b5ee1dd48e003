package ruleset

import (
	"regexp"
	"strings"

	"github.com/cloudflare/ahocorasick"
	"github.com/modsentry/spamscan/internal/engine"
)

// watchedKeywords builds the potentially-bad keyword check. The watched
// list is large and grows over time, so a single Aho-Corasick pass finds
// candidate literals first; each candidate is then confirmed with a
// word-boundary regexp so a keyword inside a longer word does not fire.
func watchedKeywords(words []string) engine.CheckFunc {
	lowered := make([]string, len(words))
	confirm := make([]*regexp.Regexp, len(words))
	for i, w := range words {
		lowered[i] = strings.ToLower(w)
		confirm[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(w) + `\b`)
	}
	matcher := ahocorasick.NewStringMatcher(lowered)

	return func(text, site, username string) (bool, string) {
		for _, hit := range matcher.Match([]byte(strings.ToLower(text))) {
			if span := confirm[hit].FindStringIndex(text); span != nil {
				return true, positionWhy(text, span)
			}
		}
		return false, ""
	}
}
