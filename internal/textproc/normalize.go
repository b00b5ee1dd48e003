package textproc

import (
	"regexp"
	"strings"
)

// CodePlaceholder replaces code blocks before detectors run. Keeping the
// placeholder non-trivial avoids tripping the degenerate-text detectors on
// posts that are mostly code.
const CodePlaceholder = "<pre><code>placeholder for omitted code/код block</pre></code>"

var (
	preBlockRe  = regexp.MustCompile(`(?s)<pre>.*?</pre>`)
	codeBlockRe = regexp.MustCompile(`(?s)<code>.*?</code>`)
	markupTagRe = regexp.MustCompile(`</?.+?>`)
	bareProtoRe = regexp.MustCompile(`\w+?://`)
)

// invisibleReplacer drops soft hyphens and zero-width (non-)joiners, which
// spammers sprinkle into keywords to dodge literal matching.
var invisibleReplacer = strings.NewReplacer(
	"\u00ad", "", // soft hyphen
	"\u200b", "", // zero-width space
	"\u200c", "", // zero-width non-joiner
)

// StripInvisible removes invisible formatting characters from s.
func StripInvisible(s string) string {
	return invisibleReplacer.Replace(s)
}

// SubstituteCodeBlocks replaces <pre> and <code> spans with a fixed
// placeholder. The substitution is lossy: offsets inside replaced regions
// do not survive, and detectors must not assume they do.
func SubstituteCodeBlocks(s string) string {
	s = preBlockRe.ReplaceAllString(s, CodePlaceholder)
	return codeBlockRe.ReplaceAllString(s, CodePlaceholder)
}

// StripTagsAndURLs removes URLs, markup tags and bare scheme fragments,
// leaving only the prose of a post body.
func StripTagsAndURLs(s string) string {
	s = urlRe.ReplaceAllString(s, "")
	return bareProtoRe.ReplaceAllString(markupTagRe.ReplaceAllString(s, ""), "")
}
