package detectors

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/modsentry/spamscan/internal/engine"
	"github.com/modsentry/spamscan/internal/lookup"
)

var (
	// Technical vocabulary that coexists with long digit strings: versions,
	// error values, IP addresses. Any of these disqualifies the whole post.
	phoneVocabRe      = regexp.MustCompile(`(?i)\b(address(es)?|run[- ]?time|error|value|server|hostname|timestamp|warning|code|(sp)?exception|version|chrome|1234567)\b`)
	phoneNoiseRe      = regexp.MustCompile(`[^A-Za-z0-9\s"',]`)
	phoneCandidateRe  = regexp.MustCompile(`\d{2}\s?\d{8,11}|\d\s{0,2}\d{3}\s{0,2}\d{3}\s{0,2}\d{4}|8\d{2}\s{0,2}\d{3}\s{0,2}\d{4}`)
	phoneJunkPrefixRe = regexp.MustCompile(`^21474(672[56]|8364)|^192168`)

	// Letter-for-digit substitutions undo the usual obfuscations.
	phoneDigitReplacer = strings.NewReplacer(
		"O", "0", "o", "0",
		"S", "5", "s", "5",
		"I", "1", "i", "1",
	)

	csDeobfuscateRe = regexp.MustCompile(`[^A-Za-z0-9\s]`)
	csPhraseRe      = regexp.MustCompile(`(tech(nical)? support)|((support|service|contact|help(line)?) (telephone|phone|number))`)
	csBusinessRe    = regexp.MustCompile(`(?i)\b(airlines?|apple|AVG|BT|netflix|dell|Delta|epson|facebook|gmail|google|hotmail|hp|` +
		`lexmark|mcafee|microsoft|norton|out[l1]ook|quickbooks|sage|windows?|yahoo)\b`)
	csDigitRe   = regexp.MustCompile(`\d`)
	csKeywordRe = regexp.MustCompile(`(?i)\b(customer|help|care|helpline|reservation|phone|recovery|service|support|` +
		`contact|tech|technical|telephone|number)\b`)

	csSupportSites = map[string]struct{}{
		"askubuntu.com":               {},
		"webapps.stackexchange.com":   {},
		"webmasters.stackexchange.com": {},
	}

	keCodeRe    = regexp.MustCompile(`<pre>|<code>`)
	keKeywordRe = regexp.MustCompile(`(?i)\b(training|we (will )?(offer|develop|provide)|sell|invest(or|ing|ment)|credit|` +
		`money|quality|legit|interest(ed)?|guarantee|rent|crack|opportunity|fundraising|campaign|` +
		`career|employment|candidate|loan|lover|husband|wife|marriage|illuminati|brotherhood|` +
		`(join|contact) (me|us|him)|reach (us|him)|spell(caster)?|doctor|cancer|krebs|` +
		`(cheat|hack)(er|ing)?|spying|passport|seaman|scam|pics|vampire|bless(ed)?|atm|miracle|` +
		`cure|testimony|kidney|hospital|wetting)s?\b| Dr\.? |\$ ?[0-9,.]{4}|@qq\.com|` +
		`\b(герпес|муж|жена|доктор|болезн)`)
	keEmailRe          = regexp.MustCompile(`\b[A-Za-z0-9_.%+-]+@[A-Za-z0-9_.%+-]+\.[A-Za-z]{2,4}\b`)
	keObfuscatedRe     = regexp.MustCompile(`\b[A-Za-z0-9_.%+-]+ *@ *(g *mail|yahoo) *\. *com\b`)
	placeholderHostRe  = regexp.MustCompile(`^(example|domain|site|foo|\dx)\.[A-Za-z]{2,4}`)

	peEmailRe = regexp.MustCompile(`\b(dr|[a-z0-9_.%+-]*` +
		`(loan|hack|financ|fund|spell|temple|herbal|spiritual|atm|heal|priest|classes|investment))[a-z0-9_.%+-]*` +
		`@[a-z0-9_.%+-]+\.[a-z]{2,4}\b`)
)

// PhoneNumber builds the call-center check. Candidate digit strings are
// deobfuscated, screened against known junk prefixes and then validated as
// dialable numbers by checker.
func PhoneNumber(checker lookup.PhoneChecker) engine.CheckFunc {
	return func(text, site, username string) (bool, string) {
		if phoneVocabRe.MatchString(text) {
			return false, ""
		}
		s := phoneDigitReplacer.Replace(phoneNoiseRe.ReplaceAllString(text, ""))
		for _, span := range phoneCandidateRe.FindAllStringIndex(s, -1) {
			// Candidates embedded in a longer digit run are IDs or hashes,
			// not numbers anyone dials.
			if digitAdjacent(s, span[0], span[1]) {
				continue
			}
			candidate := s[span[0]:span[1]]
			if phoneJunkPrefixRe.MatchString(candidate) {
				// Integer limits and 192.168 addresses with the dots eaten
				// by deobfuscation. Trusting anything else in this post
				// would be a coin flip, so bail entirely.
				return false, ""
			}
			if checker.IsValidNumber(candidate) {
				return true, fmt.Sprintf("Phone number: %s", candidate)
			}
		}
		return false, ""
	}
}

func digitAdjacent(s string, start, end int) bool {
	return (start > 0 && isASCIIDigit(s[start-1])) || (end < len(s) && isASCIIDigit(s[end]))
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// CustomerService scores the beginning of a title or body against the
// "call BigCorp support now" scam template.
func CustomerService(text, site, username string) (bool, string) {
	rs := []rune(text)
	if len(rs) > 300 {
		rs = rs[:300] // the opening pitch is all the signal; rest is padding
	}
	s := csDeobfuscateRe.ReplaceAllString(strings.ToLower(string(rs)), "")

	if phrase := csPhraseRe.FindString(s); phrase != "" {
		if _, ok := csSupportSites[site]; ok {
			return true, fmt.Sprintf("Key phrase: *%s*", phrase)
		}
	}

	business := csBusinessRe.FindString(s)
	if business == "" || len(csDigitRe.FindAllString(s, -1)) < 5 {
		return false, ""
	}
	keywords := csKeywordRe.FindAllString(s, -1)
	distinct := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		distinct[k] = struct{}{}
	}
	if len(distinct) >= 2 {
		return true, fmt.Sprintf("Scam aimed at *%s* customers. Keywords: *%s*", business, strings.Join(keywords, ", "))
	}
	return false, ""
}

// KeywordEmail flags posts that pair a scam keyword with a contact email,
// or carry a spaced-out obfuscated one.
func KeywordEmail(text, site, username string) (bool, string) {
	if keCodeRe.MatchString(text) && site == "stackoverflow.com" {
		return false, ""
	}
	keyword := keKeywordRe.FindString(text)
	email := findEmail(keEmailRe, text)
	if keyword != "" && email != "" {
		return true, fmt.Sprintf("Keyword *%s* with email %s", keyword, email)
	}
	if email == "" {
		if obfuscated := findEmail(keObfuscatedRe, text); obfuscated != "" {
			return true, fmt.Sprintf("Obfuscated email %s", obfuscated)
		}
	}
	return false, ""
}

// Email flags any plain contact email.
func Email(text, site, username string) (bool, string) {
	if email := findEmail(keEmailRe, text); email != "" {
		return true, fmt.Sprintf("Email %s", email)
	}
	return false, ""
}

// EmailNearEnd flags an email in the closing lines of a post, where the
// call to action lives.
func EmailNearEnd(text, site, username string) (bool, string) {
	for _, span := range findEmailSpans(keEmailRe, text) {
		if utf8.RuneCountInString(text[span[1]:]) <= 100 {
			return true, fmt.Sprintf("Email %s", text[span[0]:span[1]])
		}
	}
	return false, ""
}

// PatternEmail flags addresses whose local part is itself a scam pitch
// (drloanfunds@, spiritualtemple@, ...), no keyword context needed.
func PatternEmail(text, site, username string) (bool, string) {
	if email := findEmail(peEmailRe, strings.ToLower(text)); email != "" {
		return true, fmt.Sprintf("Pattern-matching email %s", email)
	}
	return false, ""
}

// findEmailSpans returns the matches of re that are not part of an HTML
// attribute or URL (preceded by =, # or /) and whose host is not one of the
// documentation placeholders.
func findEmailSpans(re *regexp.Regexp, s string) [][]int {
	var out [][]int
	for _, span := range re.FindAllStringIndex(s, -1) {
		if span[0] > 0 {
			switch s[span[0]-1] {
			case '=', '#', '/':
				continue
			}
		}
		m := s[span[0]:span[1]]
		if at := strings.IndexByte(m, '@'); at >= 0 && placeholderHostRe.MatchString(strings.TrimLeft(m[at+1:], " ")) {
			continue
		}
		out = append(out, span)
	}
	return out
}

func findEmail(re *regexp.Regexp, s string) string {
	if spans := findEmailSpans(re, s); len(spans) > 0 {
		return s[spans[0][0]:spans[0][1]]
	}
	return ""
}
