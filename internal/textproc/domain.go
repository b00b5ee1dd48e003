package textproc

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Domain resolves a URL to a comparable domain name. With full=false it
// returns the bare registrable label ("example" for sub.example.co.uk);
// with full=true it keeps the public suffix ("example.co.uk").
//
// Resolution has three tiers: a public-suffix-aware parse, a retry with the
// unrecognized host fragment swapped for a generic scheme, and finally a
// purely structural split of the URL path. It never fails; the worst case
// is a low-quality string, which is what the similarity checks want anyway.
func Domain(link string, full bool) string {
	if d, ok := suffixAwareDomain(link, full); ok {
		return d
	}

	// The host has a suffix the public-suffix list does not know. Replace it
	// with a generic scheme and try once more; crude, but it rescues links
	// whose "TLD" is actually a mangled path fragment.
	if host := hostOf(link); host != "" {
		retry := strings.Replace(link, host, "http", 1)
		if d, ok := suffixAwareDomain(retry, full); ok {
			return d
		}
	}

	return structuralDomain(link, full)
}

// suffixAwareDomain attempts tier-one resolution against the public suffix
// list. ok is false when the host's suffix is not an ICANN-recognized TLD.
func suffixAwareDomain(link string, full bool) (string, bool) {
	host := hostOf(link)
	if host == "" {
		return "", false
	}
	suffix, icann := publicsuffix.PublicSuffix(host)
	if !icann {
		return "", false
	}
	etld1, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", false
	}
	if full {
		return etld1, true
	}
	return strings.TrimSuffix(etld1, "."+suffix), true
}

// HasKnownSuffix reports whether domain ends in an ICANN-listed public
// suffix. Lookup-based detectors use it to skip the low-quality strings the
// structural fallback can produce.
func HasKnownSuffix(domain string) bool {
	_, icann := publicsuffix.PublicSuffix(domain)
	return icann
}

// hostOf extracts the hostname, tolerating scheme-less input.
func hostOf(link string) string {
	if !strings.Contains(link, "://") {
		link = "http://" + link
	}
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// structuralDomain is the last-resort heuristic: split the parsed path on
// dots and pick the second-to-last-ish segment. Returns something non-empty
// for any non-empty input.
func structuralDomain(link string, full bool) string {
	raw := link
	if u, err := url.Parse(link); err == nil {
		switch {
		case u.Path != "":
			raw = strings.TrimPrefix(u.Path, "/")
		case u.Host != "":
			raw = u.Host
		}
	}
	if raw == "" {
		raw = link
	}

	parts := strings.Split(raw, ".")
	if len(parts) >= 3 {
		if full {
			return strings.Join(parts[1:], ".")
		}
		return parts[1]
	}
	if full {
		return raw
	}
	return parts[0]
}
