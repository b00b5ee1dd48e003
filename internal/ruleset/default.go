package ruleset

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/modsentry/spamscan/internal/engine"
	"github.com/modsentry/spamscan/internal/engine/detectors"
	"github.com/modsentry/spamscan/internal/lookup"
)

// Lookups are the external collaborators the procedural rules need.
type Lookups struct {
	Phone  lookup.PhoneChecker
	NS     lookup.NSResolver
	Logger *zap.Logger
}

// Site groups that several rules share.
var (
	// Sites where SEO spam concentrates; the health and trailing-link rules
	// are scoped to these because elsewhere the same words are on topic.
	seoTargetSites = []string{
		"stackoverflow.com", "superuser.com", "askubuntu.com", "drupal.stackexchange.com",
		"meta.stackexchange.com", "security.stackexchange.com", "webapps.stackexchange.com",
		"apple.stackexchange.com", "graphicdesign.stackexchange.com", "workplace.stackexchange.com",
		"patents.stackexchange.com", "money.stackexchange.com", "gaming.stackexchange.com",
		"arduino.stackexchange.com",
	}
	linkAtEndSites = []string{
		"superuser.com", "askubuntu.com", "drupal.stackexchange.com", "meta.stackexchange.com",
		"security.stackexchange.com", "patents.stackexchange.com", "money.stackexchange.com",
		"gaming.stackexchange.com", "arduino.stackexchange.com", "workplace.stackexchange.com",
	}
	healthSites = []string{
		"fitness.stackexchange.com", "biology.stackexchange.com", "health.stackexchange.com",
		"skeptics.stackexchange.com", "bicycles.stackexchange.com",
	}
	nonLatinExemptSites = []string{
		"stackoverflow.com", "ja.stackoverflow.com", "pt.stackoverflow.com", "es.stackoverflow.com",
		"islam.stackexchange.com", "japanese.stackexchange.com", "anime.stackexchange.com",
		"hinduism.stackexchange.com", "judaism.stackexchange.com", "buddhism.stackexchange.com",
		"chinese.stackexchange.com", "french.stackexchange.com", "spanish.stackexchange.com",
		"portuguese.stackexchange.com", "codegolf.stackexchange.com", "korean.stackexchange.com",
		"ukrainian.stackexchange.com",
	}
	nonLatinLinkExemptSites = []string{
		"ja.stackoverflow.com", "ru.stackoverflow.com", "rus.stackexchange.com", "islam.stackexchange.com",
		"japanese.stackexchange.com", "hinduism.stackexchange.com", "judaism.stackexchange.com",
		"buddhism.stackexchange.com", "chinese.stackexchange.com", "russian.stackexchange.com",
		"codegolf.stackexchange.com", "korean.stackexchange.com", "ukrainian.stackexchange.com",
	}
	nonEnglishLinkExemptSites = []string{
		"pt.stackoverflow.com", "es.stackoverflow.com", "ja.stackoverflow.com", "ru.stackoverflow.com",
		"rus.stackexchange.com", "islam.stackexchange.com", "japanese.stackexchange.com",
		"hinduism.stackexchange.com", "judaism.stackexchange.com", "buddhism.stackexchange.com",
		"chinese.stackexchange.com", "russian.stackexchange.com", "french.stackexchange.com",
		"portuguese.stackexchange.com", "spanish.stackexchange.com", "codegolf.stackexchange.com",
		"korean.stackexchange.com", "esperanto.stackexchange.com", "ukrainian.stackexchange.com",
	}
	urlTitleExemptSites = []string{
		"stackoverflow.com", "pt.stackoverflow.com", "ru.stackoverflow.com", "es.stackoverflow.com",
		"ja.stackoverflow.com", "superuser.com", "askubuntu.com", "serverfault.com",
		"unix.stackexchange.com", "webmasters.stackexchange.com",
	}
	localizedSOSites = []string{
		"pt.stackoverflow.com", "ru.stackoverflow.com", "es.stackoverflow.com", "rus.stackexchange.com",
	}
)

const shortenerHosts = `goo\.gl|bit\.ly|bit\.do|tinyurl\.com|fb\.me|cl\.ly|t\.co|is\.gd|j\.mp|tr\.im|ow\.ly|` +
	`wp\.me|alturl\.com|tiny\.cc|9nl\.me|post\.ly|dyo\.gs|bfy\.tw|amzn\.to|adf\.ly|adfoc\.us|` +
	`surl\.cn\.com|clkmein\.com|bluenik\.com|rurl\.us|adyou\.co`

// catalog accumulates rules, stopping at the first compile failure so a bad
// pattern is reported against the rule that owns it.
type catalog struct {
	lists map[string][]string
	rules []engine.Rule
	err   error
}

func (b *catalog) pattern(src string, r engine.Rule) {
	if b.err != nil {
		return
	}
	re, err := CompilePattern(src, b.lists)
	if err != nil {
		b.err = fmt.Errorf("rule %q: %w", r.Reason, err)
		return
	}
	r.Detector = engine.Pattern(re)
	b.rules = append(b.rules, r)
}

func (b *catalog) check(fn engine.CheckFunc, r engine.Rule) {
	if b.err != nil {
		return
	}
	r.Detector = engine.Check(fn)
	b.rules = append(b.rules, r)
}

func (b *catalog) wholePost(fn engine.WholePostFunc, r engine.Rule) {
	if b.err != nil {
		return
	}
	r.Detector = engine.WholePost(fn)
	b.rules = append(b.rules, r)
}

// Default compiles the standard rule catalog against content. Rule order is
// stable so the reason lists in logs stay comparable across runs.
func Default(c *Content, deps Lookups) ([]engine.Rule, error) {
	b := &catalog{lists: c.lists()}

	// Bad keywords.
	b.pattern(`(?is)\b(?:`+strings.Join(c.BadKeywords, "|")+`)\b|`+strings.Join(c.BadKeywordsUnbounded, "|"),
		engine.Rule{Reason: "bad keyword in {}", Scope: engine.Everywhere(),
			Title: true, Body: true, Username: true, BodySummary: true, MaxRep: 4, MaxScore: 1})
	b.check(watchedKeywords(c.WatchedKeywords),
		engine.Rule{Reason: "potentially bad keyword in {}", Scope: engine.Everywhere(),
			Title: true, Body: true, Username: true, BodySummary: true, MaxRep: 30, MaxScore: 1})
	b.check(detectors.ProductName,
		engine.Rule{Reason: "pattern-matching product name in {}", Scope: engine.Everywhere(),
			Title: true, Body: true, StripCode: true, BodySummary: true, ExcludeAnswers: true,
			MaxRep: 4, MaxScore: 1})
	b.check(detectors.PharmaTitle,
		engine.Rule{Reason: "Pattern-matching title", Scope: engine.Everywhere(),
			Title: true, ExcludeAnswers: true, MaxRep: 1, MaxScore: 1})
	b.pattern(`(?is)^.{0,200}\bgratis\b$`,
		engine.Rule{Reason: "bad keyword in {}",
			Scope: engine.Scope(engine.AllExcept, "softwarerecs.stackexchange.com"),
			Title: true, Body: true, BodySummary: true, MaxRep: 11, MaxScore: 0})
	b.check(titleComboKeywords,
		engine.Rule{Reason: "bad keyword in {}", Scope: engine.Everywhere(),
			Title: true, Username: true, MaxRep: 1, MaxScore: 0})
	b.check(checkOf(patternCheck{
		re:   regexp.MustCompile(`(?i)\b[a-z]\.+[a-z]\.+[a-z]\.+[a-z]\.+[a-z]\b`),
		self: regexp.MustCompile(`(?i)^s.m.a.r.t`),
	}), engine.Rule{Reason: "bad keyword in {}", Scope: engine.Everywhere(),
		Title: true, MaxRep: 1, MaxScore: 0})
	b.pattern(`(?i)[\w\s]{0,20}help(?: a)?(?: weak)? postgraduate student(?: to)? write(?: a)? book\??`,
		engine.Rule{Reason: "bad keyword in {}", Scope: engine.Everywhere(),
			Title: true, MaxRep: 20, MaxScore: 2})
	b.check(detectors.Eltima,
		engine.Rule{Reason: "bad keyword in {}", Scope: engine.Everywhere(),
			Body: true, MaxRep: 50, MaxScore: 0})
	b.check(detectors.CustomerService,
		engine.Rule{Reason: "bad keyword in {}", Scope: engine.Everywhere(),
			Title: true, Body: true, ExcludeQuestions: true, MaxRep: 1, MaxScore: 0})
	b.pattern(`(?i)\b((beauty|skin|health|face|eye)[- ]?(serum|therapy|hydration|tip|renewal|shop|store|lyft|`+
		`product|strateg(y|ies)|gel|lotion|cream|treatment|method|school|expert)|fat ?burn(er|ing)?|`+
		`muscle|testo ?[sx]\w*|body ?build(er|ing)|wrinkle|probiotic|acne|peni(s|le)|erection)s?\b|`+
		`(beauty|skin) care\b`,
		engine.Rule{Reason: "bad keyword in {}",
			Scope: engine.Scope(engine.AllExcept, "fitness.stackexchange.com", "biology.stackexchange.com",
				"health.stackexchange.com", "skeptics.stackexchange.com", "robotics.stackexchange.com"),
			Title: true, MaxRep: 1, MaxScore: 0})
	b.check(detectors.Health,
		engine.Rule{Reason: "bad keyword in {}", Scope: engine.Scope(engine.Only, seoTargetSites...),
			Title: true, MaxRep: 1, MaxScore: 0})
	b.check(checkOf(
		patternCheck{re: regexp.MustCompile(`(?is)virility|diet ?(plan|pill)|(pro)?derma[a-su-z ]\w|` +
			`loo?s[es] ?weight|erectile|\bherpes\b|colon ?(detox|clean)|\bpenis\b`)},
		patternCheck{
			re:   regexp.MustCompile(`(?is)(fat|weight)[ -]?(loo?s[es]|reduction)`),
			left: regexp.MustCompile(`(?i)dead[ -]?$`),
		},
	), engine.Rule{Reason: "bad keyword in {}",
		Scope: engine.Scope(engine.AllExcept, "fitness.stackexchange.com", "biology.stackexchange.com",
			"health.stackexchange.com", "skeptics.stackexchange.com", "bicycles.stackexchange.com",
			"islam.stackexchange.com", "pets.stackexchange.com"),
		Title: true, Body: true, StripCode: true, BodySummary: true, MaxRep: 1, MaxScore: 0})
	b.pattern(`\p{Hangul}.*\p{Hangul}.*\p{Hangul}`,
		engine.Rule{Reason: "Korean character in {}",
			Scope: engine.Scope(engine.AllExcept, "korean.stackexchange.com"),
			Title: true, MaxRep: 1, MaxScore: 0})
	b.pattern(`\p{Han}.*\p{Han}.*\p{Han}`,
		engine.Rule{Reason: "Chinese character in {}",
			Scope: engine.Scope(engine.AllExcept, "chinese.stackexchange.com",
				"japanese.stackexchange.com", "ja.stackoverflow.com"),
			Title: true, MaxRep: 1, MaxScore: 0})
	b.pattern(`\p{Devanagari}`,
		engine.Rule{Reason: "Hindi character in {}",
			Scope: engine.Scope(engine.AllExcept, "hinduism.stackexchange.com"),
			Title: true, MaxRep: 1, MaxScore: 0})
	b.pattern(`(?i)^[a-z0-9_\W]*[a-z]{3}[a-z0-9_\W]*$`,
		engine.Rule{Reason: "English text in {} on a localized site",
			Scope: engine.Scope(engine.Only, "rus.stackexchange.com"),
			Title: true, Body: true, StripCode: true, MaxRep: 1, MaxScore: 0})
	b.pattern(`roof repair`,
		engine.Rule{Reason: "bad keyword in {}",
			Scope: engine.Scope(engine.AllExcept, "diy.stackexchange.com",
				"outdoors.stackexchange.com", "mechanics.stackexchange.com"),
			Title: true, Body: true, StripCode: true, BodySummary: true, MaxRep: 11, MaxScore: 0})
	b.check(checkOf(
		patternCheck{re: regexp.MustCompile(`(?i)serum`), left: regexp.MustCompile(`(?i)truth $`)},
		patternCheck{re: regexp.MustCompile(`(?i)\bsupplements\b`), left: regexp.MustCompile(`(?i)to $`)},
	), engine.Rule{Reason: "bad keyword in {}", Scope: engine.Scope(engine.Only, seoTargetSites...),
		Title: true, Body: true, StripCode: true, BodySummary: true, MaxRep: 1, MaxScore: 0})
	b.check(detectors.MostlyNonLatin,
		engine.Rule{Reason: "mostly non-Latin {}",
			Scope: engine.Scope(engine.AllExcept, nonLatinExemptSites...),
			Title: true, Body: true, StripCode: true, BodySummary: true, MaxRep: 1, MaxScore: 0})
	b.check(detectors.MostlyNonLatin,
		engine.Rule{Reason: "mostly non-Latin {}", Scope: engine.Scope(engine.Only, "stackoverflow.com"),
			Body: true, StripCode: true, BodySummary: true, ExcludeQuestions: true, MaxRep: 1, MaxScore: 0})
	b.pattern(`Son of (David|man)`,
		engine.Rule{Reason: "bad keyword in {}", Scope: engine.Scope(engine.Only, "scifi.stackexchange.com"),
			Username: true, MaxRep: 1, MaxScore: 0})
	b.pattern(`holocaust\W(witnesses|belie(f|vers?)|denier)`,
		engine.Rule{Reason: "bad keyword in {}",
			Scope: engine.Scope(engine.Only, "skeptics.stackexchange.com", "history.stackexchange.com"),
			Title: true, Body: true, MaxRep: 1, MaxScore: 0})
	b.check(detectors.Troll,
		engine.Rule{Reason: "potential troll victim",
			Scope: engine.Scope(engine.Only, "judaism.stackexchange.com"),
			Body:  true, MaxRep: 11, MaxScore: 1})

	// Suspicious links.
	b.pattern(`(?i)(?:`+strings.Join(c.BlacklistedWebsites, "|")+`)`,
		engine.Rule{Reason: "blacklisted website in {}", Scope: engine.Everywhere(),
			Title: true, Body: true, BodySummary: true, MaxRep: 50, MaxScore: 5})
	b.checkPattern(`(?i)(?:`+strings.Join(c.PatternWebsites, "|")+`|(?:`+
		strings.Join(c.BadKeywordsUnbounded, "|")+`)[\w-]*?\.(co|net|org|in(\W|fo)|us|blogspot|wordpress))`,
		regexp.MustCompile(`^[^>]*<`),
		engine.Rule{Reason: "pattern-matching website in {}", Scope: engine.Everywhere(),
			Title: true, Body: true, StripCode: true, BodySummary: true, MaxRep: 1, MaxScore: 1})
	b.check(detectors.BadLinkText(c.Cities),
		engine.Rule{Reason: "bad keyword in link text in {}", Scope: engine.Everywhere(),
			Body: true, StripCode: true, MaxRep: 1, MaxScore: 0})
	b.check(detectors.BadPatternInURL,
		engine.Rule{Reason: "bad pattern in URL {}", Scope: engine.Everywhere(),
			Body: true, StripCode: true, BodySummary: true, MaxRep: 1, MaxScore: 0})
	b.check(detectors.BadNSForDomain(deps.NS, deps.Logger),
		engine.Rule{Reason: "bad NS for domain in {}", Scope: engine.Everywhere(),
			Title: true, Body: true, StripCode: true, BodySummary: true, MaxRep: 1, MaxScore: 0})
	b.pattern(`(?i)([\w-]{6}|shop)(australia|brazil|canada|denmark|france|india|mexico|norway|pakistan|`+
		`spain|sweden)\w{0,4}\.(com|net)`,
		engine.Rule{Reason: "pattern-matching website in {}",
			Scope: engine.Scope(engine.AllExcept, "travel.stackexchange.com", "expatriates.stackexchange.com"),
			Title: true, Body: true, Username: true, BodySummary: true, MaxRep: 1, MaxScore: 0})
	b.pattern(`(?i)http\S*\.(ir|pk|tk)[/"<]`,
		engine.Rule{Reason: "pattern-matching website in {}", Scope: engine.Everywhere(),
			Title: true, Body: true, Username: true, BodySummary: true, ExcludeQuestions: true,
			MaxRep: 1, MaxScore: 0})
	b.check(checkOf(patternCheck{
		re:   regexp.MustCompile(`(?i)(bodybuilding|workout|fitness|diet|perfecthealth|muscle|nutrition|prostate)[\w-]*?\.(com|co\.|net|org|info|in\W)`),
		self: regexp.MustCompile(`(?i)^fitnesse`),
	}), engine.Rule{Reason: "pattern-matching website in {}",
		Scope: engine.Scope(engine.AllExcept, healthSites...),
		Title: true, Body: true, Username: true, BodySummary: true, MaxRep: 4, MaxScore: 2})
	b.check(checkOf(patternCheck{
		re:    regexp.MustCompile(`(?is)(>>>+|==\s*>>+|====|===>+|==>>+|= = =|(Read More|Click Here) \W{2,20}).{0,20}http`),
		right: regexp.MustCompile(`(?s)^://i\.stack\.imgur\.com|^.{201,}`),
	}), engine.Rule{Reason: "link following arrow in {}", Scope: engine.Everywhere(),
		Title: true, Body: true, Username: true, StripCode: true, ExcludeAnswers: true,
		MaxRep: 11, MaxScore: 0})
	b.check(detectors.LinkAtEnd,
		engine.Rule{Reason: "link at end of {}", Scope: engine.Scope(engine.Only, linkAtEndSites...),
			Body: true, ExcludeAnswers: true, MaxRep: 1, MaxScore: 0})
	b.pattern(`(?is)^.{0,350}<a href="https?://(?:(?:www\.)?[\w-]+\.(?:blogspot\.|wordpress\.|co\.)?\w{2,4}`+
		`/?\w{0,2}/?|(?:plus\.google|www\.facebook)\.com/[\w/]+)"[^<]*</a>(?:</strong>)?\W*</p>\s*$`+
		`|\[/url\]\W*</p>\s*$`,
		engine.Rule{Reason: "link at end of {}",
			Scope: engine.Scope(engine.AllExcept, "raspberrypi.stackexchange.com", "softwarerecs.stackexchange.com"),
			Body:  true, ExcludeQuestions: true, MaxRep: 1, MaxScore: 0})
	b.check(repeatedURLAtEnd,
		engine.Rule{Reason: "repeated URL at end of long post", Scope: engine.Everywhere(),
			Body: true, StripCode: true, MaxRep: 1, MaxScore: 0})
	b.check(detectors.KeywordLink,
		engine.Rule{Reason: "bad keyword with a link in {}", Scope: engine.Everywhere(),
			Body: true, ExcludeQuestions: true, MaxRep: 1, MaxScore: 0})
	b.pattern(`(?is)\w{3}\.tk(?:</strong>)?\W*</p>\s*$`,
		engine.Rule{Reason: "pattern-matching website in {}", Scope: engine.Everywhere(),
			Body: true, ExcludeQuestions: true, MaxRep: 1, MaxScore: 0})
	b.pattern(`(?is)^.{0,350}\w{6}\.(com|co\.uk)(?:</strong>)?\W*</p>\s*$`,
		engine.Rule{Reason: "link at end of {}", Scope: engine.Everywhere(),
			Body: true, ExcludeQuestions: true, MaxRep: 1, MaxScore: 0})
	b.pattern(`(?is)://(`+shortenerHosts+`)/.{0,200}$`,
		engine.Rule{Reason: "shortened URL in {}",
			Scope: engine.Scope(engine.AllExcept, "superuser.com", "askubuntu.com"),
			Body:  true, StripCode: true, ExcludeAnswers: true, MaxRep: 1, MaxScore: 0})
	b.pattern(`(?is)://(`+shortenerHosts+`)/`,
		engine.Rule{Reason: "shortened URL in {}",
			Scope: engine.Scope(engine.AllExcept, "codegolf.stackexchange.com"),
			Body:  true, StripCode: true, ExcludeQuestions: true, MaxRep: 1, MaxScore: 0})
	b.pattern(`>[^0-9A-Za-z<'"]{3,}</a>`,
		engine.Rule{Reason: "non-Latin link in {}",
			Scope: engine.Scope(engine.AllExcept, nonLatinLinkExemptSites...),
			Body:  true, StripCode: true, ExcludeQuestions: true, MaxRep: 1, MaxScore: 0})
	b.check(detectors.NonEnglishLink,
		engine.Rule{Reason: "non-English link in {}",
			Scope: engine.Scope(engine.AllExcept, nonEnglishLinkExemptSites...),
			Body:  true, StripCode: true, ExcludeQuestions: true, MaxRep: 1, MaxScore: 0})
	b.pattern(`(?i)\w<a href="[^"]+" rel="nofollow( noreferrer)?">.</a>\w`,
		engine.Rule{Reason: "one-character link in {}", Scope: engine.Everywhere(),
			Body: true, StripCode: true, MaxRep: 11, MaxScore: 1})
	b.check(checkOf(patternCheck{
		re:   regexp.MustCompile(`(?i)rel="nofollow( noreferrer)?">\W+</a>`),
		self: regexp.MustCompile(`(?i)^rel="nofollow( noreferrer)?">><>`),
	}), engine.Rule{Reason: "linked punctuation in {}",
		Scope: engine.Scope(engine.AllExcept, "codegolf.stackexchange.com"),
		Body:  true, StripCode: true, ExcludeQuestions: true, MaxRep: 11, MaxScore: 1})
	b.check(checkOf(
		patternCheck{
			re:   regexp.MustCompile(`(?i)https?://[a-zA-Z0-9_.-]+\.[a-zA-Z]{2,4}`),
			self: regexp.MustCompile(`(?i)^https?://(www\.)?(example|domain)\.(com|net|org)`),
		},
		patternCheck{re: regexp.MustCompile(`(?i)\w{3,}\.(com|net)\b.*\w{3,}\.(com|net)\b`)},
	), engine.Rule{Reason: "URL in title",
		Scope: engine.Scope(engine.AllExcept, urlTitleExemptSites...),
		Title: true, MaxRep: 11, MaxScore: 0})
	b.check(checkOf(patternCheck{
		re:   regexp.MustCompile(`(?i)^https?://[a-zA-Z0-9_.-]+\.[a-zA-Z]{2,4}(/\S*)?$`),
		self: regexp.MustCompile(`(?i)^https?://(www\.)?(example|domain)\.(com|net|org)`),
	}), engine.Rule{Reason: "URL-only title",
		Scope: engine.Scope(engine.Only, urlTitleExemptSites...),
		Title: true, MaxRep: 11, MaxScore: 0})

	// Suspicious contact information.
	b.check(detectors.PhoneNumber(deps.Phone),
		engine.Rule{Reason: "phone number detected in {}",
			Scope: engine.Scope(engine.AllExcept, "patents.stackexchange.com",
				"math.stackexchange.com", "mathoverflow.net"),
			Title: true, StripCode: true, MaxRep: 1, MaxScore: 0})
	b.pattern(`(?s)^.{0,250}\b1 ?[-(. ]8\d{2}[-). ] ?\d{3}[-. ]\d{4}\b`,
		engine.Rule{Reason: "phone number detected in {}",
			Scope: engine.Scope(engine.AllExcept, "math.stackexchange.com"),
			Body:  true, StripCode: true, BodySummary: true, MaxRep: 1, MaxScore: 0})
	b.check(detectors.Email,
		engine.Rule{Reason: "email in {}",
			Scope: engine.Scope(engine.Only, "biology.stackexchange.com", "bitcoin.stackexchange.com",
				"ell.stackexchange.com", "english.stackexchange.com", "expatriates.stackexchange.com",
				"gaming.stackexchange.com", "health.stackexchange.com", "money.stackexchange.com",
				"parenting.stackexchange.com", "rpg.stackexchange.com", "scifi.stackexchange.com",
				"travel.stackexchange.com", "worldbuilding.stackexchange.com"),
			Title: true, Body: true, StripCode: true, ExcludeQuestions: true, MaxRep: 1, MaxScore: 0})
	b.check(detectors.EmailNearEnd,
		engine.Rule{Reason: "email in {}",
			Scope: engine.Scope(engine.Only, "money.stackexchange.com", "travel.stackexchange.com",
				"gamedev.stackexchange.com", "gaming.stackexchange.com"),
			Title: true, Body: true, StripCode: true, ExcludeAnswers: true, MaxRep: 1, MaxScore: 0})
	b.check(detectors.KeywordEmail,
		engine.Rule{Reason: "bad keyword with email in {}", Scope: engine.Everywhere(),
			Title: true, Body: true, StripCode: true, MaxRep: 1, MaxScore: 0})
	b.check(detectors.PatternEmail,
		engine.Rule{Reason: "pattern-matching email in {}", Scope: engine.Everywhere(),
			Title: true, Body: true, StripCode: true, MaxRep: 1, MaxScore: 0})
	b.check(checkOf(
		patternCheck{
			re:    regexp.MustCompile(`(?i)Q{1,2}(?:(?:[vw]|[^a-z0-9])\D{0,8})?\d{5}[.-]?\d{4,5}`),
			left:  regexp.MustCompile(`(?i)[a-z0-9]$`),
			right: regexp.MustCompile(`^["\d]`),
		},
		patternCheck{re: regexp.MustCompile(`(?i)\bICQ[ :]{0,5}\d{9}\b`)},
		patternCheck{re: regexp.MustCompile(`(?i)\bwh?atsapp?[ :]{0,5}\d{10}`)},
	), engine.Rule{Reason: "messaging number in {}", Scope: engine.Everywhere(),
		Title: true, Body: true, StripCode: true, MaxRep: 1, MaxScore: 0})

	// Trolling.
	b.check(detectors.Offensive,
		engine.Rule{Reason: "offensive {} detected", Scope: engine.Everywhere(),
			Title: true, Body: true, StripCode: true, BodySummary: true, MaxRep: 101, MaxScore: 2})
	b.check(checkOf(
		patternCheck{re: regexp.MustCompile(`(?i)\bfuck`)},
		patternCheck{
			re:   regexp.MustCompile(`(?i)fuck(ers?|ing)?\b`),
			left: regexp.MustCompile(`(?i)brain$`),
		},
	), engine.Rule{Reason: "offensive {} detected", Scope: engine.Everywhere(),
		Title: true, StripCode: true, MaxRep: 101, MaxScore: 5})
	b.pattern(`(?i)^<p>[a-z]+</p>\s*$`,
		engine.Rule{Reason: "no whitespace in {}",
			Scope: engine.Scope(engine.AllExcept, "codegolf.stackexchange.com", "puzzling.stackexchange.com"),
			Body:  true, MaxRep: 1, MaxScore: 0})
	b.check(numbersOnlyTitle,
		engine.Rule{Reason: "numbers-only title",
			Scope: engine.Scope(engine.AllExcept, "math.stackexchange.com"),
			Title: true, MaxRep: 50, MaxScore: 0})
	b.check(detectors.FewCharacters,
		engine.Rule{Reason: "few unique characters in {}",
			Scope: engine.Scope(engine.AllExcept, localizedSOSites...),
			Body:  true, MaxRep: 10000, MaxScore: 1000000})
	b.check(detectors.RepeatingCharacters,
		engine.Rule{Reason: "repeating characters in {}",
			Scope: engine.Scope(engine.AllExcept, append([]string{"chinese.stackexchange.com"}, localizedSOSites...)...),
			Title: true, Body: true, StripCode: true, MaxRep: 1000000, MaxScore: 1000000})
	b.check(detectors.RepeatedWords,
		engine.Rule{Reason: "repeating words in {}", Scope: engine.Everywhere(),
			Title: true, Body: true, StripCode: true, MaxRep: 11, MaxScore: 0})
	b.check(oneRuneTitle,
		engine.Rule{Reason: "{} has only one unique char", Scope: engine.Everywhere(),
			Title: true, StripCode: true, MaxRep: 1000000, MaxScore: 1000000})
	b.pattern(`(?i)\b(erica|jeff|er1ca|spam|moderator)\b`,
		engine.Rule{Reason: "bad keyword in {}",
			Scope: engine.Scope(engine.Only, "parenting.stackexchange.com"),
			Body:  true, BodySummary: true, MaxRep: 50, MaxScore: 0})
	b.pattern(`(?i)kangaroos`,
		engine.Rule{Reason: "bad keyword in {}",
			Scope: engine.Scope(engine.Only, "academia.stackexchange.com"),
			Title: true, Body: true, MaxRep: 1, MaxScore: 0})
	b.pattern(`(?i)<a href="[^"]{0,25}\.xyz"( rel="nofollow( noreferrer)?")?>.{0,15}google.{0,15}</a>`,
		engine.Rule{Reason: `non-Google "google search" link in {}`, Scope: engine.Everywhere(),
			Body: true, StripCode: true, MaxRep: 1, MaxScore: 0})
	b.pattern(`<img src="[^"]+"( alt="[^"]+")?>`,
		engine.Rule{Reason: "image by low-rep user",
			Scope: engine.Scope(engine.Only, "academia.stackexchange.com"),
			Body:  true, StripCode: true, MaxRep: 1, MaxScore: 0})
	b.check(nestedBlockquoteLink,
		engine.Rule{Reason: "link inside deeply nested blockquotes", Scope: engine.Everywhere(),
			Body: true, StripCode: true, MaxRep: 1, MaxScore: 0})
	b.check(detectors.MostlyDots,
		engine.Rule{Reason: "mostly dots in {}",
			Scope: engine.Scope(engine.AllExcept, "codegolf.stackexchange.com"),
			Title: true, Body: true, StripCode: true, MaxRep: 50, MaxScore: 0})

	// Other.
	b.pattern(`(?i)(?:`+strings.Join(c.BlacklistedUsernames, "|")+`)`,
		engine.Rule{Reason: "blacklisted username", Scope: engine.Everywhere(),
			Username: true, MaxRep: 1, MaxScore: 0})
	b.pattern(`(?i)^jeff$`,
		engine.Rule{Reason: "blacklisted username",
			Scope:    engine.Scope(engine.Only, "parenting.stackexchange.com"),
			Username: true, MaxRep: 1, MaxScore: 0})
	b.check(detectors.UsernameSimilarWebsite,
		engine.Rule{Reason: "username similar to website in {}", Scope: engine.Everywhere(),
			Body: true, BodySummary: true, ExcludeQuestions: true, MaxRep: 50, MaxScore: 0})
	b.wholePost(detectors.SimilarAnswer,
		engine.Rule{Reason: "answer similar to existing answer on post",
			Scope:  engine.Scope(engine.AllExcept, "codegolf.stackexchange.com"),
			MaxRep: 50, MaxScore: 0})
	b.check(detectors.CharacterUtilization,
		engine.Rule{Reason: "single character over used in post",
			Scope: engine.Scope(engine.Only, "judaism.stackexchange.com"),
			Body:  true, BodySummary: true, MaxRep: 20, MaxScore: 0})

	return b.rules, b.err
}

// checkPattern compiles src like pattern but attaches a right-context veto,
// for sources that need the anchor-text exclusion.
func (b *catalog) checkPattern(src string, right *regexp.Regexp, r engine.Rule) {
	if b.err != nil {
		return
	}
	re, err := CompilePattern(src, b.lists)
	if err != nil {
		b.err = fmt.Errorf("rule %q: %w", r.Reason, err)
		return
	}
	r.Detector = engine.Check(checkOf(patternCheck{re: re, right: right}))
	b.rules = append(b.rules, r)
}
