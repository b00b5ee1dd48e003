package engine

import (
	"context"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/modsentry/spamscan/internal/metrics"
	"github.com/modsentry/spamscan/internal/textproc"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ScanEngine evaluates an ordered, immutable rule set against posts. The
// rule set and its compiled patterns are read-only after construction, so a
// single engine may scan different posts from many goroutines.
type ScanEngine struct {
	rules  []Rule
	logger *zap.Logger
}

// NewScanEngine creates an engine over the given rules.
func NewScanEngine(rules []Rule, logger *zap.Logger) *ScanEngine {
	return &ScanEngine{rules: rules, logger: logger}
}

// scanState accumulates matches while one post moves through the rule set.
// Explanation lines are bucketed per field so the final trail has a fixed
// order no matter which rules fired first.
type scanState struct {
	reasons  []string
	title    []string
	body     []string
	username []string
}

// Scan evaluates every rule against post and aggregates the verdict.
// Evaluation of one post is sequential; rules are independent and a failure
// inside one detector never disturbs the rest.
func (e *ScanEngine) Scan(post *Post) Verdict {
	start := time.Now()

	var st scanState
	for i := range e.rules {
		e.applyRule(&e.rules[i], post, &st)
	}

	verdict := Verdict{
		Reasons: dedupeSorted(st.reasons),
		Why:     joinWhy(st),
	}

	metrics.PostsScanned.Inc()
	if verdict.Spam() {
		metrics.PostsFlagged.Inc()
	}
	metrics.ScanLatency.Observe(time.Since(start).Seconds())

	return verdict
}

// ScanAll evaluates posts concurrently. Verdicts are returned in input
// order; the only error is the context's, and partial verdicts for posts
// scanned before cancellation are kept.
func (e *ScanEngine) ScanAll(ctx context.Context, posts []*Post) ([]Verdict, error) {
	verdicts := make([]Verdict, len(posts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range posts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			verdicts[i] = e.Scan(p)
			return nil
		})
	}
	err := g.Wait()
	return verdicts, err
}

// applyRule gates, dispatches and records one rule. Panics inside a
// detector are recovered here: the rule is treated as no-match, counted,
// and evaluation of the remaining rules continues undisturbed.
func (e *ScanEngine) applyRule(r *Rule, p *Post, st *scanState) {
	defer func() {
		if rec := recover(); rec != nil {
			metrics.DetectorPanics.Inc()
			e.logger.Error("detector panic recovered, treating as no match",
				zap.String("reason", r.Reason),
				zap.String("site", p.Site),
				zap.Any("panic", rec),
			)
		}
	}()

	if !r.applies(p) {
		return
	}

	body := textproc.StripInvisible(p.Body)
	if r.StripCode {
		body = textproc.SubstituteCodeBlocks(body)
	}

	switch r.Detector.Kind() {
	case KindPattern:
		e.applyPattern(r, p, body, st)
	case KindCheck:
		e.applyCheck(r, p, body, st)
	case KindWholePost:
		e.applyWholePost(r, p, st)
	}
}

func (e *ScanEngine) applyPattern(r *Rule, p *Post, body string, st *scanState) {
	re := r.Detector.pattern

	if r.Title {
		if spans := re.FindAllStringIndex(p.Title, -1); len(spans) > 0 {
			st.title = append(st.title, patternWhy("Title", p.Title, spans))
			st.addReason(r.Reason, "title")
		}
	}
	if r.Username {
		if spans := re.FindAllStringIndex(p.Username, -1); len(spans) > 0 {
			st.username = append(st.username, patternWhy("Username", p.Username, spans))
			st.addReason(r.Reason, "username")
		}
	}
	if r.Body && r.bodyApplies(p) {
		if spans := re.FindAllStringIndex(body, -1); len(spans) > 0 {
			st.body = append(st.body, patternWhy("Body", body, spans))
			st.addReason(r.Reason, bodyFieldName(p))
		}
	}
}

func (e *ScanEngine) applyCheck(r *Rule, p *Post, body string, st *scanState) {
	check := r.Detector.check

	if r.Title {
		if hit, why := check(p.Title, p.Site, p.Username); hit {
			st.title = append(st.title, "Title - "+why)
			st.addReason(r.Reason, "title")
		}
	}
	if r.Username {
		if hit, why := check(p.Username, p.Site, p.Username); hit {
			st.username = append(st.username, "Username - "+why)
			st.addReason(r.Reason, "username")
		}
	}
	if r.Body && r.bodyApplies(p) {
		if hit, why := check(body, p.Site, p.Username); hit {
			st.body = append(st.body, "Post - "+why)
			st.addReason(r.Reason, bodyFieldName(p))
		}
	}
}

func (e *ScanEngine) applyWholePost(r *Rule, p *Post, st *scanState) {
	m := r.Detector.wholePost(p)
	switch m.Field {
	case FieldTitle:
		st.title = append(st.title, "Title - "+m.Explanation)
		st.addReason(r.Reason, "title")
	case FieldUsername:
		st.username = append(st.username, "Username - "+m.Explanation)
		st.addReason(r.Reason, "username")
	case FieldBody:
		st.body = append(st.body, "Post - "+m.Explanation)
		st.addReason(r.Reason, "body")
	case FieldNone:
		// no match
	}
}

// addReason substitutes the field name into the rule's template.
func (st *scanState) addReason(template, field string) {
	reason := strings.ReplaceAll(template, "{}", field)
	st.reasons = append(st.reasons, reason)
	metrics.RuleHits.WithLabelValues(template).Inc()
}

// bodyFieldName is what body hits are reported as: answers read better as
// "answer" than "body" in posted reports.
func bodyFieldName(p *Post) string {
	if p.IsAnswer {
		return "answer"
	}
	return "body"
}

// dedupeSorted collapses exact-duplicate reasons and sorts ascending.
func dedupeSorted(reasons []string) []string {
	if len(reasons) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(reasons))
	out := make([]string, 0, len(reasons))
	for _, r := range reasons {
		if _, dup := set[r]; dup {
			continue
		}
		set[r] = struct{}{}
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// joinWhy concatenates the explanation buckets in fixed order: title, body,
// username.
func joinWhy(st scanState) string {
	lines := make([]string, 0, len(st.title)+len(st.body)+len(st.username))
	for _, bucket := range [][]string{st.title, st.body, st.username} {
		for _, l := range bucket {
			if l != "" {
				lines = append(lines, l)
			}
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
