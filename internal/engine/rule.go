package engine

// ScopeMode selects how a rule's site set is interpreted.
type ScopeMode int

const (
	// AllExcept applies the rule everywhere except the listed sites.
	AllExcept ScopeMode = iota
	// Only applies the rule exclusively on the listed sites.
	Only
)

// SiteScope is the site-applicability half of a rule's gate.
type SiteScope struct {
	Mode  ScopeMode
	Sites map[string]struct{}
}

// Scope builds a SiteScope from a mode and site list.
func Scope(mode ScopeMode, sites ...string) SiteScope {
	set := make(map[string]struct{}, len(sites))
	for _, s := range sites {
		set[s] = struct{}{}
	}
	return SiteScope{Mode: mode, Sites: set}
}

// Everywhere is shorthand for an AllExcept scope with an empty set.
func Everywhere() SiteScope {
	return SiteScope{Mode: AllExcept}
}

// Match reports whether the scope covers site. The single XOR expression
// covers both modes: AllExcept fires when the site is NOT listed, Only
// fires when it IS.
func (s SiteScope) Match(site string) bool {
	_, listed := s.Sites[site]
	return (s.Mode == AllExcept) != listed
}

// Rule binds one detector to its targets and its gate.
type Rule struct {
	// Reason is the verdict template; "{}" is replaced with the matched
	// field name ("title", "body"/"answer", "username").
	Reason   string
	Detector Detector

	Scope    SiteScope
	MaxRep   int // rule ignores authors above this reputation
	MaxScore int // rule ignores posts above this score

	Title    bool
	Body     bool
	Username bool

	// BodySummary allows the rule to run on truncated preview bodies.
	BodySummary bool
	// ExcludeAnswers / ExcludeQuestions carve post types out of body
	// matching. Zero values mean the rule applies to both, which is the
	// common case.
	ExcludeAnswers   bool
	ExcludeQuestions bool

	// StripCode substitutes code blocks with a placeholder before any
	// detector sees the body.
	StripCode bool
}

// applies is the gate: site scope, reputation ceiling, score ceiling. It is
// evaluated strictly before the detector; a gated-out rule's detector never
// runs.
func (r *Rule) applies(p *Post) bool {
	return r.Scope.Match(p.Site) && p.OwnerRep <= r.MaxRep && p.Score <= r.MaxScore
}

// bodyApplies layers the body-only gates on top: summary bodies need an
// opt-in, and the answer/question carve-outs apply to body matching only.
func (r *Rule) bodyApplies(p *Post) bool {
	if p.BodyIsSummary && !r.BodySummary {
		return false
	}
	if p.IsAnswer && r.ExcludeAnswers {
		return false
	}
	if !p.IsAnswer && r.ExcludeQuestions {
		return false
	}
	return true
}
