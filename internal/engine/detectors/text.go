package detectors

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/modsentry/spamscan/internal/textproc"
)

const characterUseRatio = 0.42

var (
	wordSplitRe  = regexp.MustCompile(`[\s.,;!/()\[\]+_-]`)
	paraTagRe    = regexp.MustCompile(`</?p>`)
	bareURLRe    = regexp.MustCompile(`http[^"]*`)
	codeMarkerRe = regexp.MustCompile(`<pre>|<code>`)
	urlFragRe    = regexp.MustCompile(`http\S*`)
	eltimaRe     = regexp.MustCompile(`(?i)\beltima`)

	offensiveRe = regexp.MustCompile(`(?is)\b(ur mom|(yo)?u suck|8={3,}D|nigg[aeu][rh]?|(ass ?|a|a-)hole|fag(got)?|` +
		`daf[au][qk]|(mother|mutha)?fuc?k+(a|ing?|e?(r|d)| off+| y(ou|e)(rself)?| u+|tard)?|shit(t?er|head)|` +
		`you scum|dickhead|pedo|whore|cunt|cocksucker|ejaculated?|jerk off|cummies|butthurt|queef|` +
		`(private|pussy) show|lesbo|bitche?s?|(eat|suck)\b.{0,20}\b dick|dee[sz]e? nut[sz])s?\b`)
	// The esolang is the one legitimate use of the word; drop it before the
	// offensive pattern runs.
	brainfuckRe = regexp.MustCompile(`(?i)brainfuc?k`)
)

// RepeatedWords flags posts where one word is repeated back to back at
// least six times and the streak covers a fifth of the post.
func RepeatedWords(text, site, username string) (bool, string) {
	total := utf8.RuneCountInString(text)
	streak := 0
	prev := ""
	for _, word := range wordSplitRe.Split(text, -1) {
		if word == "" {
			continue
		}
		if word == prev && isAlpha(word) && utf8.RuneCountInString(word) > 1 {
			streak++
		} else {
			streak = 0
		}
		prev = word
		if streak >= 5 && float64(streak*utf8.RuneCountInString(word)) >= 0.2*float64(total) {
			return true, fmt.Sprintf("Repeated word: *%s*", word)
		}
	}
	return false, ""
}

// FewCharacters flags bodies built from a tiny alphabet, which is what
// keyboard-mash and "fffffff" posts look like.
func FewCharacters(text, site, username string) (bool, string) {
	s := strings.TrimRightFunc(paraTagRe.ReplaceAllString(text, ""), unicode.IsSpace)
	uniques := make(map[rune]struct{})
	length := 0
	for _, r := range s {
		uniques[r] = struct{}{}
		length++
	}
	u := len(uniques)
	if (length >= 30 && u <= 6) || (length >= 100 && u <= 15) {
		// TeX-heavy math posts legitimately reuse a handful of symbols.
		if u >= 5 && u <= 15 && site == "math.stackexchange.com" {
			return false, ""
		}
		return true, fmt.Sprintf("Contains %d unique characters", u)
	}
	return false, ""
}

// RepeatingCharacters flags short posts where runs of a single repeated
// character make up a fifth of the text.
func RepeatingCharacters(text, site, username string) (bool, string) {
	s := bareURLRe.ReplaceAllString(text, "")
	n := utf8.RuneCountInString(s)
	if n == 0 || n >= 300 || codeMarkerRe.MatchString(s) {
		return false, ""
	}
	runs, matched := repeatRuns([]rune(s))
	if 100*matched/n >= 20 {
		return true, fmt.Sprintf("Repeated character: *%s*", runs)
	}
	return false, ""
}

// repeatRuns collects runs of 11+ identical runes, skipping characters that
// repeat legitimately (whitespace, digits, ellipsis dots, markdown noise).
func repeatRuns(rs []rune) (string, int) {
	var b strings.Builder
	total := 0
	for i := 0; i < len(rs); {
		j := i + 1
		for j < len(rs) && rs[j] == rs[i] {
			j++
		}
		if j-i >= 11 && !repeatExempt(rs[i]) {
			b.WriteString(string(rs[i:j]))
			total += j - i
		}
		i = j
	}
	return b.String(), total
}

func repeatExempt(r rune) bool {
	if unicode.IsSpace(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case '_', '\u200b', '\u200c', '.', ',', '?', '!', '=', '~', '*', '/', '-':
		return true
	}
	return false
}

// MostlyNonLatin flags posts whose prose is mostly outside the Latin and
// Cyrillic scripts.
func MostlyNonLatin(text, site, username string) (bool, string) {
	s := urlFragRe.ReplaceAllString(text, "")
	var wordChars, nonLatin int
	for _, r := range s {
		if r != '_' && !unicode.IsLetter(r) {
			continue
		}
		wordChars++
		if !unicode.Is(unicode.Latin, r) && !unicode.Is(unicode.Cyrillic, r) {
			nonLatin++
		}
	}
	if float64(nonLatin) > 0.4*float64(wordChars) {
		return true, fmt.Sprintf("Text contains %d non-Latin characters out of %d", nonLatin, wordChars)
	}
	return false, ""
}

// CharacterUtilization flags posts dominated by a single character.
func CharacterUtilization(text, site, username string) (bool, string) {
	counts := make(map[rune]int)
	total := 0
	for _, r := range text {
		counts[r]++
		total++
	}
	if total == 0 {
		return false, ""
	}
	var topChar rune
	top := 0
	for r, c := range counts {
		if c > top {
			top = c
			topChar = r
		}
	}
	if float64(top)/float64(total) > characterUseRatio {
		return true, fmt.Sprintf("The `%c` character appears in a high percentage of the post", topChar)
	}
	return false, ""
}

// MostlyDots flags posts that are 40%+ dots once markup and URLs are gone.
func MostlyDots(text, site, username string) (bool, string) {
	body := textproc.StripTagsAndURLs(text)
	length := utf8.RuneCountInString(body)
	dots := strings.Count(body, ".")
	if length > 0 && float64(dots)/float64(length) >= 0.4 {
		return true, fmt.Sprintf("Post contains %d dots out of %d characters", dots, length)
	}
	return false, ""
}

// Offensive flags posts where slurs and insults are at least 1.5% of the
// text by character count.
func Offensive(text, site, username string) (bool, string) {
	if text == "" {
		return false, ""
	}
	matches := offensiveRe.FindAllString(brainfuckRe.ReplaceAllString(text, ""), -1)
	matched := 0
	for _, m := range matches {
		matched += utf8.RuneCountInString(m)
	}
	if 1000*matched/utf8.RuneCountInString(text) >= 15 {
		plural := ""
		if len(matches) > 1 {
			plural = "s"
		}
		return true, fmt.Sprintf("Offensive keyword%s: *%s*", plural, strings.Join(matches, ", "))
	}
	return false, ""
}

// Eltima flags short posts pushing the eltima product line.
func Eltima(text, site, username string) (bool, string) {
	if eltimaRe.MatchString(text) && utf8.RuneCountInString(text) <= 750 {
		return true, "Bad keyword *eltima* and body length under 750 chars"
	}
	return false, ""
}

// Troll matches a persistent troll's signature phrase regardless of the
// spacing tricks used to disguise it.
func Troll(text, site, username string) (bool, string) {
	s := strings.ReplaceAll(strings.ToLower(text), " ", "")
	if strings.Contains(s, "mevaqeshthereforehasnoshareintheworldtocome") {
		return true, "Post matches pattern from a known troll"
	}
	return false, ""
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}
