package detectors

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestLinkAtEnd(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"bare promo link at end", `Great post! <a href="http://spamsite.com/">http://spamsite.com/</a>`, true},
		{"image host at end", `See screenshot <a href="http://imgur.com/abc">http://imgur.com/</a>`, false},
		{"link mid-post", `<a href="http://spamsite.com/">http://spamsite.com/</a> explains the solution in detail`, false},
		{"no link", "just text", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, _ := LinkAtEnd(tt.text, "example.com", "user")
			if hit != tt.want {
				t.Errorf("hit = %v, want %v", hit, tt.want)
			}
		})
	}
}

func TestNonEnglishLink(t *testing.T) {
	cyrillic := `try this <a href="http://example.org" rel="nofollow">мойсайт</a>`
	if hit, _ := NonEnglishLink(cyrillic, "example.com", "user"); !hit {
		t.Error("expected hit for Cyrillic anchor text")
	}

	english := `try this <a href="http://example.org" rel="nofollow">my site</a>`
	if hit, _ := NonEnglishLink(english, "example.com", "user"); hit {
		t.Error("false positive on English anchor text")
	}

	long := cyrillic + strings.Repeat(" detailed explanation of the actual answer", 20)
	if hit, _ := NonEnglishLink(long, "example.com", "user"); hit {
		t.Error("long answers are out of scope")
	}
}

func TestKeywordLink(t *testing.T) {
	promo := `Thanks for sharing! <a href="http://cheapdeals.example.net/offer">here</a>`
	hit, why := KeywordLink(promo, "example.com", "user")
	if !hit {
		t.Fatal("expected hit for thank-you plus promoted link")
	}
	if !strings.Contains(why, "Thanks for sharing") {
		t.Errorf("explanation should carry the keyword: %q", why)
	}

	network := `Thanks for sharing! <a href="https://superuser.stackexchange.com/q/1">here</a>`
	if hit, _ := KeywordLink(network, "example.com", "user"); hit {
		t.Error("network links are exempt")
	}

	praise := `Nice article, thanks! <a href="http://myblog.example.net/">blog</a>`
	if hit, _ := KeywordLink(praise, "example.com", "user"); !hit {
		t.Error("expected hit for praise plus thanks plus link")
	}
}

func TestBadLinkText(t *testing.T) {
	check := BadLinkText([]string{"Delhi", "Mumbai"})

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"city service", `<a href="http://x.example.com" rel="nofollow">packers and movers in Delhi</a>`, true},
		{"business support", `<a href="http://x.example.com" rel="nofollow">microsoft support number</a>`, true},
		{"essay mill", `<a href="http://x.example.com" rel="nofollow">cheap essay writing service</a>`, true},
		{"ordinary anchor", `<a href="http://x.example.com" rel="nofollow">the relevant documentation</a>`, false},
		{"no links", "nothing here", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, _ := check(tt.text, "example.com", "user")
			if hit != tt.want {
				t.Errorf("hit = %v, want %v", hit, tt.want)
			}
		})
	}
}

func TestBadPatternInURL(t *testing.T) {
	hit, why := BadPatternInURL(`<a href="http://product-reviews-canada/">click</a>`, "example.com", "user")
	if !hit {
		t.Fatal("expected hit for review-scam fragment")
	}
	if !strings.Contains(why, "Bad fragment in link") {
		t.Errorf("why = %q", why)
	}

	exempt := `<a href="https://superuser.com/questions/tagged/tech-support/">on-site link</a>`
	if hit, _ := BadPatternInURL(exempt, "example.com", "user"); hit {
		t.Error("network URLs are exempt")
	}
}

func TestUsernameSimilarWebsite(t *testing.T) {
	body := `Check out <a href="http://johnsmith.com">my site</a> for more`
	if hit, _ := UsernameSimilarWebsite(body, "example.com", "John Smith"); !hit {
		t.Error("expected hit when linked domain matches username")
	}
	if hit, _ := UsernameSimilarWebsite(body, "example.com", "Quite Different Person"); hit {
		t.Error("false positive for unrelated username")
	}
}

type fakeNS struct {
	servers map[string][]string
	err     error
}

func (f *fakeNS) Nameservers(ctx context.Context, domain string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.servers[domain], nil
}

func TestBadNSForDomain(t *testing.T) {
	body := `see <a href="http://spamdomain.com/page">this</a>`

	check := BadNSForDomain(&fakeNS{servers: map[string][]string{
		"spamdomain.com": {"dns1.namecheaphosting.com.", "dns2.namecheaphosting.com."},
	}}, zap.NewNop())
	hit, why := check(body, "example.com", "user")
	if !hit {
		t.Fatal("expected hit for flagged nameserver")
	}
	if !strings.Contains(why, "spamdomain.com NS suspicious") {
		t.Errorf("why = %q", why)
	}

	clean := BadNSForDomain(&fakeNS{servers: map[string][]string{
		"spamdomain.com": {"ns1.ordinaryhost.net."},
	}}, zap.NewNop())
	if hit, _ := clean(body, "example.com", "user"); hit {
		t.Error("false positive for ordinary nameserver")
	}

	broken := BadNSForDomain(&fakeNS{err: errors.New("resolver down")}, zap.NewNop())
	if hit, _ := broken(body, "example.com", "user"); hit {
		t.Error("lookup failures must fail open")
	}
}
