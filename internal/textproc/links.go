package textproc

import (
	"net/netip"
	"regexp"
	"strings"
)

// Spammers frequently mistype the scheme when pasting their own links; the
// detectors still want to see those URLs. Repairs are literal substring
// replacements, applied before scanning.
var malformedProtocols = [][2]string{
	{"httl://", "http://"},
}

// urlRe recognizes scheme-prefixed URLs with either an IPv4-literal host or
// a dotted domain name ending in a plausible TLD, an optional port and an
// optional path. RE2 has no lookaround, so reserved IPv4 ranges are filtered
// afterwards in ExtractLinks rather than excluded in the expression.
var urlRe = regexp.MustCompile(
	`(?i)(?:https?|ftp)://(?:\S+(?::\S*)?@)?` +
		`(?:\d{1,3}(?:\.\d{1,3}){3}` +
		`|(?:[\p{L}\d](?:[\p{L}\d-]*[\p{L}\d])?\.)+[\p{L}]{2,})` +
		`(?::\d{2,5})?(?:/\S*)?`)

var ipv4HostRe = regexp.MustCompile(`^(?i)(?:https?|ftp)://(?:\S+(?::\S*)?@)?(\d{1,3}(?:\.\d{1,3}){3})`)

// ExtractLinks returns the distinct URL-shaped substrings of a post body.
// A single trailing non-alphanumeric character is trimmed from each match,
// since sentence punctuation routinely follows a pasted URL.
func ExtractLinks(s string) []string {
	for _, p := range malformedProtocols {
		s = strings.ReplaceAll(s, p[0], p[1])
	}

	seen := make(map[string]struct{})
	var links []string
	for _, m := range urlRe.FindAllString(s, -1) {
		if !isTailAlnum(m) {
			m = m[:len(m)-1]
		}
		if reservedIPv4Host(m) {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		links = append(links, m)
	}
	return links
}

func isTailAlnum(s string) bool {
	if s == "" {
		return false
	}
	c := s[len(s)-1]
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// reservedIPv4Host reports whether the link's host is a private, loopback,
// link-local or otherwise non-routable IPv4 literal.
func reservedIPv4Host(link string) bool {
	m := ipv4HostRe.FindStringSubmatch(link)
	if m == nil {
		return false
	}
	addr, err := netip.ParseAddr(m[1])
	if err != nil {
		return true // 999.1.2.3 and friends are not links either
	}
	return addr.IsPrivate() || addr.IsLoopback() || addr.IsLinkLocalUnicast() ||
		addr.IsMulticast() || addr.IsUnspecified()
}
