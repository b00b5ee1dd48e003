package detectors

import (
	"fmt"

	"github.com/modsentry/spamscan/internal/engine"
	"github.com/modsentry/spamscan/internal/textproc"
)

// SimilarAnswer flags an answer whose prose nearly duplicates another
// answer on the same question, the fingerprint of copy-paste link spam.
// Markup and URLs are stripped first so two copies differ only if their
// actual text does.
func SimilarAnswer(p *engine.Post) engine.PostMatch {
	if p.Parent == nil {
		return engine.NoMatch
	}
	body := textproc.StripTagsAndURLs(p.Body)
	for _, other := range p.Siblings {
		if other.ID == p.ID {
			continue
		}
		ratio := textproc.SimilarRatio(body, textproc.StripTagsAndURLs(other.Body))
		if ratio >= textproc.SimilarAnswerThreshold {
			return engine.PostMatch{
				Field:       engine.FieldBody,
				Explanation: fmt.Sprintf("Answer similar to answer %d, ratio %v", other.ID, ratio),
			}
		}
	}
	return engine.NoMatch
}
