package textproc

import (
	"strings"
	"testing"
)

func TestStripInvisible(t *testing.T) {
	in := "c\u00adh\u200be\u200ca\u00adp"
	if got := StripInvisible(in); got != "cheap" {
		t.Errorf("StripInvisible(%q) = %q, want %q", in, got, "cheap")
	}
}

func TestStripInvisible_PlainTextUntouched(t *testing.T) {
	in := "nothing hidden here"
	if got := StripInvisible(in); got != in {
		t.Errorf("StripInvisible changed clean text: %q", got)
	}
}

func TestSubstituteCodeBlocks(t *testing.T) {
	in := "<p>intro</p><pre>x = 1\ny = 2</pre><p>outro</p><code>inline</code>"
	got := SubstituteCodeBlocks(in)
	if strings.Contains(got, "x = 1") || strings.Contains(got, "inline") {
		t.Errorf("code content survived substitution: %q", got)
	}
	if want := 2; strings.Count(got, CodePlaceholder) != want {
		t.Errorf("expected %d placeholders, got %q", want, got)
	}
}

func TestExtractLinks(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "plain link",
			in:   "visit http://example.com today",
			want: []string{"http://example.com"},
		},
		{
			name: "trailing punctuation trimmed",
			in:   "see https://example.com/page.",
			want: []string{"https://example.com/page"},
		},
		{
			name: "malformed protocol repaired",
			in:   "go to httl://spam.example.net now",
			want: []string{"http://spam.example.net"},
		},
		{
			name: "duplicates collapse",
			in:   "http://a.example.org and http://a.example.org again",
			want: []string{"http://a.example.org"},
		},
		{
			name: "private addresses excluded",
			in:   "http://192.168.1.1/admin and http://127.0.0.1/ and http://10.0.0.2/x",
			want: nil,
		},
		{
			name: "public address kept",
			in:   "http://93.184.216.34/index",
			want: []string{"http://93.184.216.34/index"},
		},
		{
			name: "no links",
			in:   "just words, no URLs at all",
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractLinks(tc.in)
			if len(got) != len(tc.want) {
				t.Fatalf("ExtractLinks(%q) = %v, want %v", tc.in, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("link %d: got %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestDomain(t *testing.T) {
	tests := []struct {
		link string
		full bool
		want string
	}{
		{"http://sub.example.co.uk/page", false, "example"},
		{"http://sub.example.co.uk/page", true, "example.co.uk"},
		{"http://johnsmith.com", false, "johnsmith"},
		{"https://www.example.com/a/b", true, "example.com"},
	}

	for _, tc := range tests {
		if got := Domain(tc.link, tc.full); got != tc.want {
			t.Errorf("Domain(%q, %v) = %q, want %q", tc.link, tc.full, got, tc.want)
		}
	}
}

func TestDomain_NeverEmpty(t *testing.T) {
	// Resolution must be total: any non-empty input yields a non-empty
	// string, no matter how low-quality.
	inputs := []string{
		"http://sub.example.co.uk/page",
		"http://weird.notarealtld",
		"complete.garbage.here",
		"garbage",
		"http://a.b.c.d.invalidsuffix/path",
	}
	for _, in := range inputs {
		if got := Domain(in, false); got == "" {
			t.Errorf("Domain(%q, false) returned empty string", in)
		}
		if got := Domain(in, true); got == "" {
			t.Errorf("Domain(%q, true) returned empty string", in)
		}
	}
}

func TestSimilarRatio(t *testing.T) {
	if r := SimilarRatio("JohnSmith", "johnsmith"); r != 1.0 {
		t.Errorf("case-insensitive identical strings: ratio %v, want 1.0", r)
	}
	if r := SimilarRatio("abcdef", "uvwxyz"); r > 0.2 {
		t.Errorf("unrelated strings: ratio %v, want near 0", r)
	}
}

func TestSimilarityToName_SpaceStrippedMatch(t *testing.T) {
	body := `check out my site <a href="http://johnsmith.com">here</a>`
	if r := SimilarityToName(body, "John Smith"); r < SimilarThreshold {
		t.Errorf("SimilarityToName = %v, want >= %v", r, SimilarThreshold)
	}
}

func TestSimilarityToName_NoLinks(t *testing.T) {
	if r := SimilarityToName("no links here", "John Smith"); r != 0 {
		t.Errorf("SimilarityToName with no links = %v, want 0", r)
	}
}

func TestStripTagsAndURLs(t *testing.T) {
	in := `<p>hello <a href="http://example.com">world</a></p>`
	got := StripTagsAndURLs(in)
	if strings.Contains(got, "<") || strings.Contains(got, "example.com") {
		t.Errorf("tags or URLs survived: %q", got)
	}
	if !strings.Contains(got, "hello") || !strings.Contains(got, "world") {
		t.Errorf("prose lost: %q", got)
	}
}
