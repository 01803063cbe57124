package gitversioning

import (
	"strings"

	"github.com/blang/semver"
)

// Segment classes in ascending order. Qualifiers rank below a release,
// except sp. Numeric zero and an absent segment both count as a release.
var qualifierRanks = map[string]int{
	"dev":       1,
	"alpha":     2,
	"a":         2,
	"beta":      3,
	"b":         3,
	"milestone": 4,
	"m":         4,
	"rc":        5,
	"cr":        5,
	"snapshot":  6,
	"":          8,
	"ga":        8,
	"final":     8,
	"release":   8,
	"sp":        9,
}

const (
	unknownQualifierRank = 7
	releaseRank          = 8
	numberRank           = 10
)

// padding stands in for segments missing from the shorter version.
var padding = segment{numeric: true}

// CompareVersions orders two version-like strings, returning -1, 0 or 1.
//
// Both strings are split into numeric and qualifier segments. The leading
// numeric segments are compared first, padded with zeros, then the rest
// segment by segment: numbers compare numerically, a positive number
// outranks any qualifier and a missing segment counts as a release.
// Qualifiers are case insensitive. A leading "v" before a digit is ignored.
// Plain semantic versions without pre-release or build parts are ordered
// by semver directly, which yields the same result.
func CompareVersions(a, b string) int {
	a, b = trimVersionPrefix(a), trimVersionPrefix(b)

	if va, err := semver.Parse(a); err == nil && len(va.Pre) == 0 && len(va.Build) == 0 {
		if vb, err := semver.Parse(b); err == nil && len(vb.Pre) == 0 && len(vb.Build) == 0 {
			return va.Compare(vb)
		}
	}

	ra, qa := splitRelease(splitSegments(a))
	rb, qb := splitRelease(splitSegments(b))
	if c := compareSegments(ra, rb); c != 0 {
		return c
	}
	return compareSegments(qa, qb)
}

// splitRelease separates the leading numeric segments from the qualifier
// part, so 1.0-rc1 and 1.0.0-rc1 line up at the qualifier.
func splitRelease(segments []segment) (release, rest []segment) {
	i := 0
	for i < len(segments) && segments[i].numeric {
		i++
	}
	return segments[:i], segments[i:]
}

func compareSegments(a, b []segment) int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		x, y := padding, padding
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		if c := x.compare(y); c != 0 {
			return c
		}
	}
	return 0
}

// MaxVersion returns the candidate with the highest version once prefix is
// stripped. Equal versions are broken by the lexically smallest name, so the
// result does not depend on the order of candidates.
func MaxVersion(candidates []string, prefix string) string {
	d := RefDescriptor{Prefix: prefix}
	var best string
	for i, candidate := range candidates {
		if i == 0 {
			best = candidate
			continue
		}
		c := CompareVersions(d.StripPrefix(candidate), d.StripPrefix(best))
		if c > 0 || (c == 0 && candidate < best) {
			best = candidate
		}
	}
	return best
}

func trimVersionPrefix(version string) string {
	if len(version) > 1 && (version[0] == 'v' || version[0] == 'V') && isDigit(rune(version[1])) {
		return version[1:]
	}
	return version
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

type segment struct {
	numeric bool
	// digits without leading zeros for numeric segments, lower case otherwise
	value string
}

func splitSegments(version string) []segment {
	var segments []segment
	var current strings.Builder
	currentDigit := false

	flush := func() {
		if current.Len() == 0 {
			return
		}
		s := current.String()
		current.Reset()
		if currentDigit {
			s = strings.TrimLeft(s, "0")
			segments = append(segments, segment{numeric: true, value: s})
			return
		}
		segments = append(segments, segment{value: strings.ToLower(s)})
	}

	for _, r := range version {
		switch {
		case r == '.' || r == '-' || r == '_' || r == '+':
			flush()
		case isDigit(r):
			if !currentDigit {
				flush()
			}
			currentDigit = true
			current.WriteRune(r)
		default:
			if currentDigit {
				flush()
			}
			currentDigit = false
			current.WriteRune(r)
		}
	}
	flush()
	return segments
}

func (s segment) compare(o segment) int {
	cs, co := s.class(), o.class()
	if cs != co {
		return sign(cs - co)
	}
	switch cs {
	case numberRank:
		return compareDigits(s.value, o.value)
	case unknownQualifierRank:
		return strings.Compare(s.value, o.value)
	}
	return 0
}

// class maps a segment onto the ordered classes above; segments of
// different classes never compare equal.
func (s segment) class() int {
	if s.numeric {
		if s.value == "" {
			return releaseRank
		}
		return numberRank
	}
	if r, ok := qualifierRanks[s.value]; ok {
		return r
	}
	return unknownQualifierRank
}

// compareDigits compares two digit strings without leading zeros, so any
// length of number is supported.
func compareDigits(a, b string) int {
	if len(a) != len(b) {
		return sign(len(a) - len(b))
	}
	return strings.Compare(a, b)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
