package ruleset

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/modsentry/spamscan/internal/engine"
)

// patternCheck is a pattern clause plus the context vetoes that cannot be
// expressed inline (the regexp engine has no lookaround). A match survives
// only if none of the veto expressions fire.
type patternCheck struct {
	re    *regexp.Regexp
	left  *regexp.Regexp // anchored $: veto when it matches the text before the match
	self  *regexp.Regexp // anchored ^: veto when it matches the matched text
	right *regexp.Regexp // anchored ^: veto when it matches the text after the match
}

// checkOf turns clauses into a procedural detector. Clauses are tried in
// order; the first surviving match wins and is reported with its character
// positions, the same shape plain pattern rules produce.
func checkOf(clauses ...patternCheck) engine.CheckFunc {
	return func(text, site, username string) (bool, string) {
		for _, c := range clauses {
			for _, span := range c.re.FindAllStringIndex(text, -1) {
				if c.left != nil && c.left.MatchString(text[:span[0]]) {
					continue
				}
				if c.self != nil && c.self.MatchString(text[span[0]:span[1]]) {
					continue
				}
				if c.right != nil && c.right.MatchString(text[span[1]:]) {
					continue
				}
				return true, positionWhy(text, span)
			}
		}
		return false, ""
	}
}

func positionWhy(text string, span []int) string {
	start := utf8.RuneCountInString(text[:span[0]])
	end := utf8.RuneCountInString(text[:span[1]])
	return fmt.Sprintf("Position %d-%d: %s", start+1, end+1, text[span[0]:span[1]])
}

var (
	comboMovieRe      = regexp.MustCompile(`(?i)movies?\b`)
	comboOnlineHDRe   = regexp.MustCompile(`(?i)\b(online|hd)\b`)
	comboFreeFullRe   = regexp.MustCompile(`(?i)free|full|unlimited`)
	comboProductRe    = regexp.MustCompile(`(?i)products?\b`)
	comboAcaiRe       = regexp.MustCompile(`(?i)\b(acai|kisn)\b`)
	comboCareRe       = regexp.MustCompile(`(?i)care`)
	comboPackerRe     = regexp.MustCompile(`(?i)packer`)
	comboMoverRe      = regexp.MustCompile(`(?i)mover`)
	comboPlainRe      = regexp.MustCompile(`(?i)(online|certification).*?training|\bvs\b.*\b(live|vivo)\b|` +
		`payday loan|смотреть.*онлайн|watch\b.{0,50}(online|episode|free)|episode.{0,50}\bsub\b`)
	weOfferRe     = regexp.MustCompile(`(?i)\bwe offer\b`)
	weOfferVetoRe = regexp.MustCompile(`(?i)(can |uld )$`)
)

// titleComboKeywords covers the free-movie / miracle-product / moving-firm
// title templates: combinations of words that are individually harmless.
func titleComboKeywords(text, site, username string) (bool, string) {
	if span := comboMovieRe.FindStringIndex(text); span != nil &&
		comboOnlineHDRe.MatchString(text) && comboFreeFullRe.MatchString(text) {
		return true, positionWhy(text, span)
	}
	if span := comboProductRe.FindStringIndex(text); span != nil &&
		comboAcaiRe.MatchString(text) && comboCareRe.MatchString(text) {
		return true, positionWhy(text, span)
	}
	if span := comboMoverRe.FindStringIndex(text); span != nil && comboPackerRe.MatchString(text) {
		return true, positionWhy(text, span)
	}
	if span := comboPlainRe.FindStringIndex(text); span != nil {
		return true, positionWhy(text, span)
	}
	for _, span := range weOfferRe.FindAllStringIndex(text, -1) {
		if !weOfferVetoRe.MatchString(text[:span[0]]) {
			return true, positionWhy(text, span)
		}
	}
	return false, ""
}

var nonLetterTitleRe = regexp.MustCompile(`^[^\p{L}]*$`)

// numbersOnlyTitle flags titles with digits but not a single letter in any
// script.
func numbersOnlyTitle(text, site, username string) (bool, string) {
	if nonLetterTitleRe.MatchString(text) && strings.ContainsAny(text, "0123456789") {
		return true, positionWhy(text, []int{0, len(text)})
	}
	return false, ""
}

// oneRuneTitle flags titles made of a single repeated character.
func oneRuneTitle(text, site, username string) (bool, string) {
	rs := []rune(text)
	if len(rs) < 2 {
		return false, ""
	}
	for _, r := range rs[1:] {
		if r != rs[0] {
			return false, ""
		}
	}
	return true, positionWhy(text, []int{0, len(text)})
}

var trailingSelfLinkRe = regexp.MustCompile(`(?s)<a href="(?:http://%20)?([^"]+)" rel="nofollow(?: noreferrer)?">` +
	`(?:http://%20)?([^<]+)</a>(?:</strong>)?\W*</p>\s*$`)

// repeatedURLAtEnd flags long posts that close with a self-labeled copy of
// a link already planted hundreds of characters earlier.
func repeatedURLAtEnd(text, site, username string) (bool, string) {
	m := trailingSelfLinkRe.FindStringSubmatchIndex(text)
	if m == nil {
		return false, ""
	}
	href := text[m[2]:m[3]]
	label := text[m[4]:m[5]]
	if href != label {
		return false, ""
	}
	first := strings.Index(text, `<a href="`+href+`"`)
	if first < 0 || m[0]-first < 300 {
		return false, ""
	}
	return true, fmt.Sprintf("URL %s repeated at end of post", href)
}

var nestedQuoteLinkRe = regexp.MustCompile(`(?:<blockquote>\s*){6}<p><a href="([^<>]+)"[^<>]*>([^<]*)</a>\s*</p>\s*</blockquote>`)

// nestedBlockquoteLink flags a self-labeled link buried under six levels of
// blockquote, a formatting trick that hides spam from skimming reviewers.
func nestedBlockquoteLink(text, site, username string) (bool, string) {
	for _, m := range nestedQuoteLinkRe.FindAllStringSubmatch(text, -1) {
		if m[1] == m[2] {
			return true, fmt.Sprintf("Link %s inside deeply nested blockquotes", m[1])
		}
	}
	return false, ""
}
