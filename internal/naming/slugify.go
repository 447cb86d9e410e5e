package naming

import (
	"hash/fnv"
	"regexp"
	"strings"
	"unicode/utf8"
)

// SlugifyOptions controls how pull request titles become branch-safe slugs.
type SlugifyOptions struct {
	CollapseDashes     bool // Collapse runs of dashes into one
	HashLength         int  // Length of the hash suffix added when truncating
	Lowercase          bool
	MaxLength          int // 0 means no limit
	ReplaceNonAlphaNum bool
	TrimDashes         bool
}

var (
	nonAlphaNumRegex     = regexp.MustCompile(`[^a-zA-Z0-9]+`)
	consecutiveDashRegex = regexp.MustCompile(`-{2,}`)
)

// Slugify turns input into a slug. When the slug exceeds MaxLength it is cut
// and suffixed with a hash of the untouched input, so distinct long titles
// stay distinct.
func Slugify(input string, opts SlugifyOptions) string {
	slug := input
	if opts.Lowercase {
		slug = strings.ToLower(slug)
	}
	if opts.ReplaceNonAlphaNum {
		slug = nonAlphaNumRegex.ReplaceAllString(slug, "-")
	}
	if opts.CollapseDashes {
		slug = consecutiveDashRegex.ReplaceAllString(slug, "-")
	}
	if opts.TrimDashes {
		slug = strings.Trim(slug, "-")
	}

	if slug == "" || opts.MaxLength <= 0 || len(slug) <= opts.MaxLength {
		return slug
	}
	return truncateWithHash(slug, computeHash(input, opts.HashLength), opts.MaxLength)
}

// computeHash returns length base36 characters of the FNV-64a hash of input.
func computeHash(input string, length int) string {
	if length <= 0 {
		return ""
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(input))
	v := h.Sum64()

	const digits = "0123456789abcdefghijklmnopqrstuvwxyz"
	out := make([]byte, length)
	for i := range out {
		out[i] = digits[v%36]
		v /= 36
	}
	return string(out)
}

// truncateWithHash keeps as much of slug as fits in maxLength next to "-<hash>".
// Cuts never split a UTF-8 sequence.
func truncateWithHash(slug, hash string, maxLength int) string {
	if hash == "" {
		return strings.TrimRight(cutBytes(slug, maxLength), "-")
	}

	prefix := strings.TrimRight(cutBytes(slug, maxLength-len(hash)-1), "-")
	if prefix == "" {
		return cutBytes(hash, maxLength)
	}
	return prefix + "-" + hash
}

// cutBytes returns the longest prefix of s that is at most n bytes and valid UTF-8.
func cutBytes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
