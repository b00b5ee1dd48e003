package engine

import (
	"context"
	"reflect"
	"regexp"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func alwaysHit(text, site, username string) (bool, string) {
	return true, "always"
}

func neverHit(text, site, username string) (bool, string) {
	return false, ""
}

func basicPost() *Post {
	return &Post{
		Title:    "spam title",
		Body:     "<p>spam body</p>",
		Username: "spammer",
		Site:     "example.stackexchange.com",
		OwnerRep: 1,
		Score:    0,
	}
}

func TestSiteScope_Match_TruthTable(t *testing.T) {
	tests := []struct {
		name   string
		mode   ScopeMode
		listed bool
		want   bool
	}{
		{"all-except, site not listed", AllExcept, false, true},
		{"all-except, site listed", AllExcept, true, false},
		{"only, site not listed", Only, false, false},
		{"only, site listed", Only, true, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			scope := Scope(tc.mode)
			if tc.listed {
				scope = Scope(tc.mode, "siteA")
			}
			if got := scope.Match("siteA"); got != tc.want {
				t.Errorf("Match = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRule_ExcludedSiteNeverFires(t *testing.T) {
	// Scenario: mode=all-except with the post's own site listed. The rule
	// must stay silent regardless of reputation, score or content.
	rule := Rule{
		Reason:   "bad keyword in {}",
		Detector: Check(alwaysHit),
		Scope:    Scope(AllExcept, "siteA"),
		MaxRep:   1_000_000,
		MaxScore: 1_000_000,
		Title:    true,
		Body:     true,
		Username: true,
	}
	eng := NewScanEngine([]Rule{rule}, zap.NewNop())

	p := basicPost()
	p.Site = "siteA"
	p.OwnerRep = 0
	p.Score = -5

	if v := eng.Scan(p); v.Spam() {
		t.Errorf("rule fired on excluded site: %v", v.Reasons)
	}
}

func TestRule_ReputationCeiling(t *testing.T) {
	rule := Rule{
		Reason:   "bad keyword in {}",
		Detector: Check(alwaysHit),
		Scope:    Everywhere(),
		MaxRep:   4,
		MaxScore: 100,
		Body:     true,
	}
	eng := NewScanEngine([]Rule{rule}, zap.NewNop())

	p := basicPost()
	p.OwnerRep = 4
	if v := eng.Scan(p); !v.Spam() {
		t.Error("rule should fire at the reputation ceiling")
	}

	p.OwnerRep = 5
	if v := eng.Scan(p); v.Spam() {
		t.Error("rule fired above the reputation ceiling")
	}
}

func TestRule_ScoreCeiling(t *testing.T) {
	rule := Rule{
		Reason:   "bad keyword in {}",
		Detector: Check(alwaysHit),
		Scope:    Everywhere(),
		MaxRep:   100,
		MaxScore: 1,
		Body:     true,
	}
	eng := NewScanEngine([]Rule{rule}, zap.NewNop())

	p := basicPost()
	p.Score = 2
	if v := eng.Scan(p); v.Spam() {
		t.Error("rule fired above the score ceiling")
	}
}

func TestScan_GateRunsBeforeDetector(t *testing.T) {
	called := false
	rule := Rule{
		Reason: "r {}",
		Detector: Check(func(text, site, username string) (bool, string) {
			called = true
			return true, "x"
		}),
		Scope: Scope(Only, "othersite"),
		Title: true, Body: true, Username: true,
		MaxRep: 100, MaxScore: 100,
	}
	eng := NewScanEngine([]Rule{rule}, zap.NewNop())

	eng.Scan(basicPost())
	if called {
		t.Error("detector ran for a gated-out rule")
	}
}

func TestScan_ReasonsDedupedAndSorted(t *testing.T) {
	rules := []Rule{
		{
			Reason:   "bad keyword in {}",
			Detector: Pattern(regexp.MustCompile(`spam`)),
			Scope:    Everywhere(),
			MaxRep:   100, MaxScore: 100,
			Title: true, Body: true, Username: true,
		},
		{
			// Second rule with the same template; title hits collapse.
			Reason:   "bad keyword in {}",
			Detector: Pattern(regexp.MustCompile(`title`)),
			Scope:    Everywhere(),
			MaxRep:   100, MaxScore: 100,
			Title: true,
		},
	}
	eng := NewScanEngine(rules, zap.NewNop())

	p := basicPost()
	first := eng.Scan(p)
	second := eng.Scan(p)

	if !reflect.DeepEqual(first.Reasons, second.Reasons) {
		t.Errorf("scans disagree: %v vs %v", first.Reasons, second.Reasons)
	}
	want := []string{"bad keyword in body", "bad keyword in title", "bad keyword in username"}
	if !reflect.DeepEqual(first.Reasons, want) {
		t.Errorf("Reasons = %v, want %v", first.Reasons, want)
	}
	if first.Why != second.Why {
		t.Errorf("why trails disagree:\n%s\n---\n%s", first.Why, second.Why)
	}
}

func TestScan_PanicIsolation(t *testing.T) {
	rules := []Rule{
		{
			Reason: "panicky {}",
			Detector: Check(func(text, site, username string) (bool, string) {
				panic("detector blew up")
			}),
			Scope:  Everywhere(),
			MaxRep: 100, MaxScore: 100,
			Body: true,
		},
		{
			Reason:   "healthy {}",
			Detector: Check(alwaysHit),
			Scope:    Everywhere(),
			MaxRep:   100, MaxScore: 100,
			Body: true,
		},
	}
	eng := NewScanEngine(rules, zap.NewNop())

	v := eng.Scan(basicPost())
	if !reflect.DeepEqual(v.Reasons, []string{"healthy body"}) {
		t.Errorf("Reasons = %v, want only the healthy rule", v.Reasons)
	}
}

func TestScan_BodySummaryGate(t *testing.T) {
	rule := Rule{
		Reason:   "r {}",
		Detector: Check(alwaysHit),
		Scope:    Everywhere(),
		MaxRep:   100, MaxScore: 100,
		Body: true,
	}
	eng := NewScanEngine([]Rule{rule}, zap.NewNop())

	p := basicPost()
	p.BodyIsSummary = true
	if v := eng.Scan(p); v.Spam() {
		t.Error("rule without BodySummary fired on a summary body")
	}

	allowed := rule
	allowed.BodySummary = true
	eng = NewScanEngine([]Rule{allowed}, zap.NewNop())
	if v := eng.Scan(p); !v.Spam() {
		t.Error("rule with BodySummary should fire on a summary body")
	}
}

func TestScan_AnswerQuestionGates(t *testing.T) {
	base := Rule{
		Reason:   "r {}",
		Detector: Check(alwaysHit),
		Scope:    Everywhere(),
		MaxRep:   100, MaxScore: 100,
		Body: true,
	}

	question := basicPost()
	answer := basicPost()
	answer.IsAnswer = true

	noAnswers := base
	noAnswers.ExcludeAnswers = true
	eng := NewScanEngine([]Rule{noAnswers}, zap.NewNop())
	if eng.Scan(answer).Spam() {
		t.Error("ExcludeAnswers rule fired on an answer body")
	}
	if !eng.Scan(question).Spam() {
		t.Error("ExcludeAnswers rule should still fire on a question body")
	}

	noQuestions := base
	noQuestions.ExcludeQuestions = true
	eng = NewScanEngine([]Rule{noQuestions}, zap.NewNop())
	if eng.Scan(question).Spam() {
		t.Error("ExcludeQuestions rule fired on a question body")
	}
	if !eng.Scan(answer).Spam() {
		t.Error("ExcludeQuestions rule should still fire on an answer body")
	}
}

func TestScan_AnswerBodyReportedAsAnswer(t *testing.T) {
	rule := Rule{
		Reason:   "bad keyword in {}",
		Detector: Pattern(regexp.MustCompile(`spam`)),
		Scope:    Everywhere(),
		MaxRep:   100, MaxScore: 100,
		Body: true,
	}
	eng := NewScanEngine([]Rule{rule}, zap.NewNop())

	p := basicPost()
	p.IsAnswer = true
	v := eng.Scan(p)
	if !reflect.DeepEqual(v.Reasons, []string{"bad keyword in answer"}) {
		t.Errorf("Reasons = %v, want [bad keyword in answer]", v.Reasons)
	}
}

func TestScan_StripCodeBlocks(t *testing.T) {
	rule := Rule{
		Reason:   "bad keyword in {}",
		Detector: Pattern(regexp.MustCompile(`secretword`)),
		Scope:    Everywhere(),
		MaxRep:   100, MaxScore: 100,
		Body:      true,
		StripCode: true,
	}
	eng := NewScanEngine([]Rule{rule}, zap.NewNop())

	p := basicPost()
	p.Body = "<p>fine</p><code>secretword</code>"
	if v := eng.Scan(p); v.Spam() {
		t.Error("pattern matched inside a substituted code block")
	}

	p.Body = "<p>secretword</p><code>x</code>"
	if v := eng.Scan(p); !v.Spam() {
		t.Error("pattern should match outside code blocks")
	}
}

func TestScan_InvisibleCharactersStripped(t *testing.T) {
	rule := Rule{
		Reason:   "bad keyword in {}",
		Detector: Pattern(regexp.MustCompile(`cheap`)),
		Scope:    Everywhere(),
		MaxRep:   100, MaxScore: 100,
		Body: true,
	}
	eng := NewScanEngine([]Rule{rule}, zap.NewNop())

	p := basicPost()
	p.Body = "c\u200bhe\u00adap pills"
	if v := eng.Scan(p); !v.Spam() {
		t.Error("invisible characters defeated the pattern")
	}
}

func TestScan_PatternExplanationFormat(t *testing.T) {
	rule := Rule{
		Reason:   "bad keyword in {}",
		Detector: Pattern(regexp.MustCompile(`Viagra`)),
		Scope:    Everywhere(),
		MaxRep:   100, MaxScore: 100,
		Title: true,
	}
	eng := NewScanEngine([]Rule{rule}, zap.NewNop())

	p := basicPost()
	p.Title = "what is this Viagra?"
	v := eng.Scan(p)
	want := "Title - Position 14-20: Viagra"
	if v.Why != want {
		t.Errorf("Why = %q, want %q", v.Why, want)
	}
}

func TestScan_WhyBucketOrderFixed(t *testing.T) {
	// Username rule listed first, title rule second; the trail must still
	// come out title, body, username.
	rules := []Rule{
		{
			Reason:   "u {}",
			Detector: Pattern(regexp.MustCompile(`spammer`)),
			Scope:    Everywhere(),
			MaxRep:   100, MaxScore: 100,
			Username: true,
		},
		{
			Reason:   "b {}",
			Detector: Pattern(regexp.MustCompile(`body`)),
			Scope:    Everywhere(),
			MaxRep:   100, MaxScore: 100,
			Body: true,
		},
		{
			Reason:   "t {}",
			Detector: Pattern(regexp.MustCompile(`title`)),
			Scope:    Everywhere(),
			MaxRep:   100, MaxScore: 100,
			Title: true,
		},
	}
	eng := NewScanEngine(rules, zap.NewNop())

	v := eng.Scan(basicPost())
	lines := strings.Split(v.Why, "\n")
	if len(lines) != 3 ||
		!strings.HasPrefix(lines[0], "Title - ") ||
		!strings.HasPrefix(lines[1], "Body - ") ||
		!strings.HasPrefix(lines[2], "Username - ") {
		t.Errorf("unexpected bucket order:\n%s", v.Why)
	}
}

func TestScan_WholePostDispatch(t *testing.T) {
	rule := Rule{
		Reason: "answer similar to existing answer on post",
		Detector: WholePost(func(p *Post) PostMatch {
			if len(p.Siblings) > 0 {
				return PostMatch{Field: FieldBody, Explanation: "Answer similar to answer 42, ratio 0.8"}
			}
			return NoMatch
		}),
		Scope:  Everywhere(),
		MaxRep: 100, MaxScore: 100,
	}
	eng := NewScanEngine([]Rule{rule}, zap.NewNop())

	p := basicPost()
	if v := eng.Scan(p); v.Spam() {
		t.Error("whole-post rule fired without siblings")
	}

	p.Siblings = []*Post{basicPost()}
	v := eng.Scan(p)
	if !v.Spam() {
		t.Fatal("whole-post rule should fire with siblings")
	}
	if v.Why != "Post - Answer similar to answer 42, ratio 0.8" {
		t.Errorf("Why = %q", v.Why)
	}
}

func TestScanAll_OrderPreserved(t *testing.T) {
	rule := Rule{
		Reason:   "bad keyword in {}",
		Detector: Pattern(regexp.MustCompile(`flagme`)),
		Scope:    Everywhere(),
		MaxRep:   100, MaxScore: 100,
		Body: true,
	}
	eng := NewScanEngine([]Rule{rule}, zap.NewNop())

	posts := make([]*Post, 20)
	for i := range posts {
		posts[i] = basicPost()
		if i%2 == 0 {
			posts[i].Body = "please flagme now"
		}
	}

	verdicts, err := eng.ScanAll(context.Background(), posts)
	if err != nil {
		t.Fatalf("ScanAll: %v", err)
	}
	for i, v := range verdicts {
		if want := i%2 == 0; v.Spam() != want {
			t.Errorf("post %d: Spam = %v, want %v", i, v.Spam(), want)
		}
	}
}
