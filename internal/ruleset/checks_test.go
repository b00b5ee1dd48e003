package ruleset

import (
	"regexp"
	"strings"
	"testing"
)

func TestCheckOf_Vetoes(t *testing.T) {
	serum := checkOf(patternCheck{
		re:   regexp.MustCompile(`(?i)serum`),
		left: regexp.MustCompile(`(?i)truth $`),
	})
	if hit, _ := serum("the truth serum in the novel", "example.com", "u"); hit {
		t.Error("left veto ignored")
	}
	hit, why := serum("best face serum ever", "example.com", "u")
	if !hit {
		t.Fatal("expected hit without veto context")
	}
	if why != "Position 11-16: serum" {
		t.Errorf("why = %q", why)
	}

	dotted := checkOf(patternCheck{
		re:   regexp.MustCompile(`(?i)\b[a-z]\.+[a-z]\.+[a-z]\.+[a-z]\.+[a-z]\b`),
		self: regexp.MustCompile(`(?i)^s.m.a.r.t`),
	})
	if hit, _ := dotted("s.m.a.r.t goals", "example.com", "u"); hit {
		t.Error("self veto ignored")
	}
	if hit, _ := dotted("v.i.a.g.r.a here", "example.com", "u"); !hit {
		t.Error("expected hit for dotted obfuscation")
	}

	quoted := checkOf(patternCheck{
		re:    regexp.MustCompile(`\d{5}`),
		right: regexp.MustCompile(`^"`),
	})
	if hit, _ := quoted(`id="12345" in markup`, "example.com", "u"); hit {
		t.Error("right veto ignored")
	}
	if hit, _ := quoted(`number 12345 plain`, "example.com", "u"); !hit {
		t.Error("expected hit without right context")
	}
}

func TestTitleComboKeywords(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"Watch Free HD Movies Online Now", true},
		{"Best movies about online banking", false},
		{"Packers and Movers Pune", true},
		{"We offer the best essay service", true},
		{"What discounts can we offer customers", false},
		{"payday loan without a credit check", true},
		{"Watch episode 12 with english sub", true},
		{"How do I parse a config file", false},
	}
	for _, tt := range tests {
		hit, _ := titleComboKeywords(tt.title, "example.com", "u")
		if hit != tt.want {
			t.Errorf("%q: hit = %v, want %v", tt.title, hit, tt.want)
		}
	}
}

func TestNumbersOnlyTitle(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"12345", true},
		{"123-456 !!", true},
		{"12 monkeys", false},
		{"???", false},
		{"", false},
	}
	for _, tt := range tests {
		hit, _ := numbersOnlyTitle(tt.title, "example.com", "u")
		if hit != tt.want {
			t.Errorf("%q: hit = %v, want %v", tt.title, hit, tt.want)
		}
	}
}

func TestOneRuneTitle(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"aaaaaa", true},
		{"гггг", true},
		{"a", false},
		{"ab", false},
		{"aab", false},
	}
	for _, tt := range tests {
		hit, _ := oneRuneTitle(tt.title, "example.com", "u")
		if hit != tt.want {
			t.Errorf("%q: hit = %v, want %v", tt.title, hit, tt.want)
		}
	}
}

func TestRepeatedURLAtEnd(t *testing.T) {
	const url = "http://spam-pitch.example.com/deal"
	filler := strings.Repeat("padding text ", 30)
	body := `<p>Check <a href="` + url + `" rel="nofollow">this great offer</a> today. ` +
		filler + `</p> <p><a href="` + url + `" rel="nofollow">` + url + `</a></p>`

	hit, why := repeatedURLAtEnd(body, "example.com", "u")
	if !hit {
		t.Fatal("expected hit for trailing self-labeled repeat")
	}
	if !strings.Contains(why, url) {
		t.Errorf("why = %q", why)
	}

	short := `<p><a href="` + url + `" rel="nofollow">x</a> y <a href="` + url +
		`" rel="nofollow">` + url + `</a></p>`
	if hit, _ := repeatedURLAtEnd(short, "example.com", "u"); hit {
		t.Error("repeat within a short post must not fire")
	}

	labeled := `<p>Intro <a href="` + url + `" rel="nofollow">first</a>. ` + filler +
		`</p> <p><a href="` + url + `" rel="nofollow">click here</a></p>`
	if hit, _ := repeatedURLAtEnd(labeled, "example.com", "u"); hit {
		t.Error("trailing link with prose label must not fire")
	}
}

func TestNestedBlockquoteLink(t *testing.T) {
	const url = "http://promo.example.org/"
	nested := strings.Repeat("<blockquote>\n", 6) +
		`<p><a href="` + url + `" rel="nofollow">` + url + `</a></p>` + "\n</blockquote>"

	hit, why := nestedBlockquoteLink(nested, "example.com", "u")
	if !hit {
		t.Fatal("expected hit for self-labeled link in nested quotes")
	}
	if !strings.Contains(why, url) {
		t.Errorf("why = %q", why)
	}

	labeled := strings.Repeat("<blockquote>\n", 6) +
		`<p><a href="` + url + `" rel="nofollow">source</a></p>` + "\n</blockquote>"
	if hit, _ := nestedBlockquoteLink(labeled, "example.com", "u"); hit {
		t.Error("quoted link with a prose label must not fire")
	}

	shallow := strings.Repeat("<blockquote>\n", 2) +
		`<p><a href="` + url + `" rel="nofollow">` + url + `</a></p>` + "\n</blockquote>"
	if hit, _ := nestedBlockquoteLink(shallow, "example.com", "u"); hit {
		t.Error("two quote levels must not fire")
	}
}
