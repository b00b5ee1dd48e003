package detectors

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	healthCapitalRe = regexp.MustCompile(`\b[A-Z][a-z]`)
	healthOrganRe   = regexp.MustCompile(`(?i)\b(colon|skin|muscle|bicep|fac(e|ial)|eye|brain|IQ|mind|head|hair|peni(s|le)|` +
		`breast|body|joint|belly|digest\w*)s?\b`)
	healthConditionRe = regexp.MustCompile(`(?i)\b(weight|constipat(ed|ion)|dysfunction|swollen|sensitive|wrinkle|aging|` +
		`suffer|acne|pimple|dry|clog(ged)?|inflam(ed|mation)|fat|age|pound)s?\b`)
	healthGoalRe = regexp.MustCompile(`(?i)\b(supple|build|los[es]|power|burn|erection|tone(d)|rip(ped)?|bulk|get rid|mood)s?\b|` +
		`\b(diminish|look|reduc|beaut|renew|young|youth|lift|eliminat|enhance|energ|shred|` +
		`health|improve|enlarge|remov|vital|slim|lean|boost|str[oe]ng)`)
	healthRemedyRe = regexp.MustCompile(`(?i)\b(remed(y|ie)|serum|cleans?(e|er|ing)|care|(pro)?biotic|herbal|lotion|cream|` +
		`gel|cure|drug|formula|recipe|regimen|solution|therapy|hydration|soap|treatment|supplement|` +
		`diet|moist\w*|injection|potion|ingredient|aid|exercise|eat(ing)?)s?\b`)
	healthBoastRe = regexp.MustCompile(`(?i)\b(most|best|simple|top|pro|real|mirac(le|ulous)|secrets?|organic|natural|perfect|` +
		`ideal|fantastic|incredible|ultimate|important|reliable|critical|amazing|fast|good)\b|` +
		`\b(super|hyper|advantag|benefi|effect|great|valu|eas[iy])`)
	healthOtherRe = regexp.MustCompile(`(?i)\b(product|thing|item|review|advi[cs]e|myth|make use|your?|really|work|tip|shop|` +
		`store|method|expert|instant|buy|fact|consum(e|ption)|baby|male|female|men|women|grow|` +
		`idea|suggest\w*|issue)s?\b`)
	// Apple's framework, not a spam goal; drop it so the goal pattern
	// cannot hit its "health" prefix.
	healthKitRe = regexp.MustCompile(`(?i)healthkit`)

	pharmaTitleRe = regexp.MustCompile(`^what is this (?:[A-Z]|http://)`)
)

var baseProductKeywords = []string{
	"Testo?", "Dermapholia", "Garcinia", "Cambogia", "Aurora", "Kamasutra", "HL-?12", "NeuroFuse",
	"Junivive", "Apexatropin", "Gain", "Allure", "Nuvella", "Trimgenix", "Satin", "Prodroxatone",
	"Elite", "Force", "Exceptional", "Enhance(ment)?", "Nitro", "Max", "Boost", "E?xtreme", "Grow",
	"Deep", "Male", "Pro", "Advanced", "Monster", "Divine", "Royale", "Angele", "Trinity", "Andro",
	"Pure", "Skin", "Sea", "Muscle", "Ascend", "Youth", "Hyper(tone)?", "Hydroluxe", "Booster",
	"Serum", "Supplement", "Fuel", "Cream",
}

// Fragments too common in math vocabulary to use there.
var extraProductKeywords = []string{"E?X[tl\\d]?", "Alpha", "Plus", "Prime", "Formula"}

var (
	productRe3, productRe2         = productPatterns(append(append([]string(nil), baseProductKeywords...), extraProductKeywords...))
	productMathRe3, productMathRe2 = productPatterns(baseProductKeywords)
)

func productPatterns(keywords []string) (three, two *regexp.Regexp) {
	alt := strings.Join(keywords, "|")
	three = regexp.MustCompile(fmt.Sprintf(`(?i)\b((%[1]s)[ -](%[1]s)[ -](%[1]s))\b`, alt))
	two = regexp.MustCompile(fmt.Sprintf(`(?i)\b((%[1]s)[ -](%[1]s))\b`, alt))
	return three, two
}

// Health scores a title against the health-spam template: a body part, a
// complaint, a promised fix and superlatives to taste. Single keywords are
// everywhere in legitimate posts, so only the combination counts.
func Health(text, site, username string) (bool, string) {
	rs := []rune(text)
	if len(rs) > 200 {
		rs = rs[:200]
	}
	s := string(rs)
	scrubbed := healthKitRe.ReplaceAllString(s, "")

	capitalized := 0
	if len(healthCapitalRe.FindAllString(s, -1)) >= 5 {
		capitalized = 1
	}
	organ := healthOrganRe.FindString(s)
	condition := healthConditionRe.FindString(s)
	goal := healthGoalRe.FindString(scrubbed)
	remedy := healthRemedyRe.FindString(s)
	boast := healthBoastRe.FindString(s)
	other := healthOtherRe.FindString(s)

	score := 4*presence(organ) + 2*presence(condition) + 2*presence(goal) + 2*presence(remedy) +
		presence(boast) + presence(other) + capitalized
	if score >= 8 {
		var words []string
		for _, w := range []string{organ, condition, goal, remedy, boast, other} {
			if w != "" {
				words = append(words, w)
			}
		}
		return true, fmt.Sprintf("Health-themed spam (score %d). Keywords: *%s*", score, strings.ToLower(strings.Join(words, ", ")))
	}
	return false, ""
}

func presence(match string) int {
	if match != "" {
		return 1
	}
	return 0
}

// ProductName flags supplement-style invented product names: three brandish
// keywords in a row once, or two in a row twice with no word reused.
func ProductName(text, site, username string) (bool, string) {
	three, two := productRe3, productRe2
	if site == "math.stackexchange.com" || site == "mathoverflow.net" {
		three, two = productMathRe3, productMathRe2
	}
	if m := three.FindAllStringSubmatch(text, -1); len(m) >= 1 && allMatchWordsUnique(m) {
		return true, fmt.Sprintf("Pattern-matching product name *%s*", m[0][1])
	}
	if m := two.FindAllStringSubmatch(text, -1); len(m) >= 2 && allMatchWordsUnique(m) {
		return true, fmt.Sprintf("Pattern-matching product name *%s*", m[0][1])
	}
	return false, ""
}

// allMatchWordsUnique reports whether no keyword appears twice across the
// matches; "Muscle Muscle Muscle" headings are usually someone quoting spam,
// not posting it.
func allMatchWordsUnique(matches [][]string) bool {
	seen := make(map[string]struct{})
	n := 0
	for _, m := range matches {
		for _, w := range m[2:] {
			seen[w] = struct{}{}
			n++
		}
	}
	return len(seen) == n
}

// PharmaTitle flags the "what is this ProductName?" question template.
func PharmaTitle(text, site, username string) (bool, string) {
	if pharmaTitleRe.MatchString(text) {
		return true, `Title starts with "what is this"`
	}
	return false, ""
}
