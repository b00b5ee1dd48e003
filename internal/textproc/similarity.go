package textproc

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// SimilarThreshold is the ratio at which two strings are considered the
// same name in different clothes (username vs. linked domain).
const SimilarThreshold = 0.95

// SimilarAnswerThreshold is the looser ratio for answer-vs-answer bodies.
const SimilarAnswerThreshold = 0.7

// SimilarRatio returns a case-insensitive sequence-similarity ratio in
// [0, 1], where 1 means identical.
func SimilarRatio(a, b string) float64 {
	return difflib.NewMatcher(
		strings.Split(strings.ToLower(a), ""),
		strings.Split(strings.ToLower(b), ""),
	).Ratio()
}

// SimilarityToName extracts every link from text and scores its domain
// against name under four whitespace/hyphen-insensitive variants, returning
// the best ratio observed. Scanning stops early once a variant reaches
// SimilarThreshold; the maximum cannot grow past that point in any way the
// caller distinguishes.
func SimilarityToName(text, name string) float64 {
	nameNoSpace := strings.ReplaceAll(name, " ", "")
	nameNoHyphen := strings.ReplaceAll(name, "-", "")
	nameBare := strings.ReplaceAll(nameNoSpace, "-", "")

	best := 0.0
	for _, link := range ExtractLinks(text) {
		domain := Domain(link, false)
		domainNoHyphen := strings.ReplaceAll(domain, "-", "")

		for _, r := range [4]float64{
			SimilarRatio(domain, name),
			SimilarRatio(domain, nameNoSpace),
			SimilarRatio(domainNoHyphen, nameNoHyphen),
			SimilarRatio(domainNoHyphen, nameBare),
		} {
			if r > best {
				best = r
			}
		}
		if best >= SimilarThreshold {
			break
		}
	}
	return best
}
