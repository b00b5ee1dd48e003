package detectors

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/modsentry/spamscan/internal/engine"
	"github.com/modsentry/spamscan/internal/lookup"
	"github.com/modsentry/spamscan/internal/metrics"
	"github.com/modsentry/spamscan/internal/textproc"
)

var (
	closingTagRe = regexp.MustCompile(`</strong>|</em>|</p>`)
	fontTagRe    = regexp.MustCompile(`</?strong>|</?em>`)
	anchorTextRe = regexp.MustCompile(`nofollow(?: noreferrer)?">([^<]*)</a>`)
	hrefLinkRe   = regexp.MustCompile(`(?i)<a href="https?://\S+`)

	endLinkRe = regexp.MustCompile(`(?i)https?://(?:[.A-Za-z0-9-]*/?[.A-Za-z0-9-]*/?|plus\.google\.com/` +
		`[\w/]*|www\.pinterest\.com/pin/[\d/]*)</a>\s*$`)

	// Hosts that show up in legitimate links all the time: image hosts,
	// pastebins, the network's own sites. A link to one of these is never
	// spam evidence on its own.
	benignHostRe = regexp.MustCompile(`(?i)upload|\b(imgur|yfrog|gfycat|tinypic|sendvid|ctrlv|prntscr|gyazo|youtu\.?be|` +
		`stackexchange|superuser|past[ie].*|dropbox|microsoft|newegg|cnet|regex101|` +
		`google|localhost|ubuntu|getbootstrap|` +
		`jsfiddle\.net|codepen\.io)\b`)
	benignShortHostRe = regexp.MustCompile(`(?i)upload|\b(imgur|yfrog|gfycat|tinypic|sendvid|ctrlv|prntscr|gyazo|youtu\.?be|` +
		`stackexchange|superuser|past[ie].*|dropbox|microsoft|newegg|cnet|google|` +
		`localhost|ubuntu)\b`)

	praiseRe = regexp.MustCompile(`(?i)\b(nice|good|interesting|helpful|great|amazing) (article|blog|post|information)\b|` +
		`very useful`)
	thanksRe       = regexp.MustCompile(`(?i)\b(appreciate|than(k|ks|x))\b`)
	thanksPhraseRe = regexp.MustCompile(`(?i)\b(I really appreciate|many thanks|thanks a lot|thank you (very|for)|` +
		`than(ks|x) for (sharing|this|your)|dear forum members|(very (informative|useful)|` +
		`stumbled upon (your|this)|wonderful|visit my) (blog|site|website))\b`)

	businessNameRe = regexp.MustCompile(`(?i)(^| )(airlines?|apple|AVG|BT|netflix|dell|Delta|epson|facebook|gmail|google|hotmail|hp|` +
		`lexmark|mcafee|microsoft|norton|out[l1]ook|quickbooks|sage|windows?|yahoo)($| )`)
	supportWordRe = regexp.MustCompile(`(?i)(^| )(customer|care|helpline|reservation|phone|recovery|service|support|contact|` +
		`tech|technical|telephone|number)($| )`)

	seSiteLinkRe = regexp.MustCompile(`^https?://(?:(?:[a-z]+\.)stackoverflow\.com|(?:askubuntu|superuser|serverfault)\.com|` +
		`mathoverflow\.net|(?:[a-z]+\.)*stackexchange\.com)`)
	badURLFragHrefRe = regexp.MustCompile(`<a href="([^"]*-(?:reviews?(?:-(?:canada|(?:and|or)-scam))?|support)/?)"`)
	badURLFragTextRe = regexp.MustCompile(`<a href="[^"]*"(?:\s+"[^"]*")*>([^<]*-(?:reviews?(?:-(?:canada|(?:and|or)-scam))?|support)/?)</a>`)
)

// maskAllowedGoogle hides plus.google.com from the benign-host patterns.
// Profile links on plus.google are a spam staple, so they must not get the
// free pass the bare "google" entry grants.
func maskAllowedGoogle(s string) string {
	return strings.ReplaceAll(s, "plus.google", "")
}

// LinkAtEnd flags posts that close with a bare link, the classic drive-by
// signature answer.
func LinkAtEnd(text, site, username string) (bool, string) {
	s := closingTagRe.ReplaceAllString(text, "")
	m := endLinkRe.FindString(s)
	if m == "" || benignHostRe.MatchString(maskAllowedGoogle(m)) {
		return false, ""
	}
	return true, fmt.Sprintf("Link at end: %s", m)
}

// NonEnglishLink flags short answers whose anchor text is not in a Latin
// alphabet, a common SEO-spam pattern.
func NonEnglishLink(text, site, username string) (bool, string) {
	if utf8.RuneCountInString(text) >= 600 {
		return false, ""
	}
	for _, m := range anchorTextRe.FindAllStringSubmatch(text, -1) {
		linkText := m[1]
		var wordChars, nonLatin int
		for _, r := range linkText {
			if !isWordRune(r) {
				continue
			}
			wordChars++
			if !isASCIIWordRune(r) {
				nonLatin++
			}
		}
		if wordChars >= 1 && ((wordChars <= 20 && nonLatin >= 1) || float64(nonLatin) >= 0.05*float64(wordChars)) {
			return true, fmt.Sprintf("Non-English link text: *%s*", linkText)
		}
	}
	return false, ""
}

// KeywordLink flags short answers pairing a thank-you or praise phrase with
// a promoted link.
func KeywordLink(text, site, username string) (bool, string) {
	if utf8.RuneCountInString(text) > 400 {
		return false, ""
	}
	link := hrefLinkRe.FindString(text)
	if link == "" || benignShortHostRe.MatchString(maskAllowedGoogle(link)) {
		return false, ""
	}
	if kw := thanksPhraseRe.FindString(text); kw != "" {
		return true, fmt.Sprintf("Keyword *%s* with link %s", kw, link)
	}
	thanks := thanksRe.FindString(text)
	praise := praiseRe.FindString(text)
	if thanks != "" && praise != "" {
		return true, fmt.Sprintf("Keywords *%s*, *%s* with link %s", thanks, praise, link)
	}
	return false, ""
}

// BadLinkText builds the suspicious-anchor-text check. The city list feeds
// the localized escort/service patterns.
func BadLinkText(cities []string) engine.CheckFunc {
	city := alternation(cities)
	keywordRe := regexp.MustCompile(`(?is)\b(buy|cheap) |live[ -]?stream|` +
		`\bmake (money|\$)|` +
		`\b(porno?|(whole)?sale|coins|replica|luxury|essays?|in ` + city + `)\b|` +
		`\b` + city + `(?:\b.{1,20}\b)?(service|escort|call girls?)|` +
		`(best|make|full|hd|software|cell|data)[\w ]{1,20}(online|service|company|repair|recovery)|` +
		`\b(writing service|essay (writing|tips))`)

	return func(text, site, username string) (bool, string) {
		s := fontTagRe.ReplaceAllString(text, "")
		for _, m := range anchorTextRe.FindAllStringSubmatch(s, -1) {
			linkText := m[1]
			if kw := keywordRe.FindString(linkText); kw != "" {
				return true, fmt.Sprintf("Bad keyword *%s* in link text", strings.TrimSpace(kw))
			}
			business := businessNameRe.FindString(linkText)
			support := supportWordRe.FindString(linkText)
			if business != "" && support != "" {
				return true, fmt.Sprintf("Bad keywords *%s*, *%s* in link text",
					strings.TrimSpace(business), strings.TrimSpace(support))
			}
		}
		return false, ""
	}
}

// BadPatternInURL flags tech-support and product-review URL fragments, in
// either the href or the link text. Links into the network itself are
// exempt.
func BadPatternInURL(text, site, username string) (bool, string) {
	var frags []string
	for _, re := range []*regexp.Regexp{badURLFragHrefRe, badURLFragTextRe} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if seSiteLinkRe.MatchString(m[1]) {
				continue
			}
			frags = append(frags, m[1])
		}
	}
	if len(frags) > 0 {
		return true, fmt.Sprintf("Bad fragment in link %s", strings.Join(frags, ", "))
	}
	return false, ""
}

// UsernameSimilarWebsite flags posts linking a site whose domain is nearly
// the author's username.
func UsernameSimilarWebsite(text, site, username string) (bool, string) {
	if textproc.SimilarityToName(text, username) >= textproc.SimilarThreshold {
		return true, "Username similar to website"
	}
	return false, ""
}

// BadNSForDomain builds the nameserver check: every linked domain is
// resolved and flagged if it is parked on a hoster favored by spammers.
// Lookup failures are logged and skipped; DNS trouble must never block a
// scan.
func BadNSForDomain(resolver lookup.NSResolver, logger *zap.Logger) engine.CheckFunc {
	return func(text, site, username string) (bool, string) {
		seen := make(map[string]struct{})
		for _, link := range textproc.ExtractLinks(text) {
			domain := textproc.Domain(link, true)
			if _, dup := seen[domain]; dup {
				continue
			}
			seen[domain] = struct{}{}
			if !textproc.HasKnownSuffix(domain) {
				logger.Debug("domain has no recognized suffix, skipping", zap.String("domain", domain))
				continue
			}
			servers, err := resolver.Nameservers(context.Background(), domain)
			if err != nil {
				metrics.LookupFailures.WithLabelValues("dns").Inc()
				logger.Warn("ns lookup failed", zap.String("domain", domain), zap.Error(err))
				continue
			}
			for _, server := range servers {
				if strings.HasSuffix(server, ".namecheaphosting.com.") {
					return true, fmt.Sprintf("%s NS suspicious %s", domain, strings.Join(servers, ","))
				}
			}
		}
		return false, ""
	}
}

// alternation joins literals into a non-capturing, case-insensitive-safe
// regexp group.
func alternation(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return "(?:" + strings.Join(quoted, "|") + ")"
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isASCIIWordRune(r rune) bool {
	return r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
