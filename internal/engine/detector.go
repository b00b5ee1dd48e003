package engine

import "regexp"

// CheckFunc is a procedural detector: a pure function of one field's text
// plus site/username context. The username is supplied regardless of which
// field is under test; checks needing more cross-field context must use the
// whole-post variant instead.
type CheckFunc func(text, site, username string) (hit bool, explanation string)

// WholePostFunc is a whole-post detector: a pure function of the entire
// post, including parent and sibling answers. It runs once per rule,
// independent of per-field flags.
type WholePostFunc func(p *Post) PostMatch

// PostMatch is the discriminated result of a whole-post detector: which
// field (if any) the hit is attributed to, plus the explanation.
type PostMatch struct {
	Field       Field
	Explanation string
}

// NoMatch is the zero PostMatch, returned when a whole-post detector finds
// nothing.
var NoMatch = PostMatch{Field: FieldNone}

// DetectorKind tags the three detector variants.
type DetectorKind int

const (
	KindPattern DetectorKind = iota
	KindCheck
	KindWholePost
)

// Detector is the tagged union of the three detector variants. Exactly one
// payload is set, according to Kind; the engine dispatches with an
// exhaustive switch rather than dynamic method lookup, since each variant
// has a different call shape.
type Detector struct {
	kind      DetectorKind
	pattern   *regexp.Regexp
	check     CheckFunc
	wholePost WholePostFunc
}

// Pattern wraps a compiled expression as a detector. Compilation happens
// once at rule-set load; an invalid pattern never reaches the engine.
func Pattern(re *regexp.Regexp) Detector {
	return Detector{kind: KindPattern, pattern: re}
}

// Check wraps a procedural function as a detector.
func Check(fn CheckFunc) Detector {
	return Detector{kind: KindCheck, check: fn}
}

// WholePost wraps a whole-post function as a detector.
func WholePost(fn WholePostFunc) Detector {
	return Detector{kind: KindWholePost, wholePost: fn}
}

// Kind returns the variant tag.
func (d Detector) Kind() DetectorKind {
	return d.kind
}
