package calllog

import (
	"regexp"
	"strings"
	"unicode"
)

var tagExp = regexp.MustCompile(`(?:【(.*?)】|\[(.*?)\])(.*)`)

// SplitTag extracts the site and person name from a "【site】name" or
// "[site]name" cell. Untagged text yields an empty site and the input
// text as name.
func SplitTag(s string) (site, name string) {
	m := tagExp.FindStringSubmatch(s)
	if m == nil {
		return "", s
	}
	site = m[1]
	if site == "" {
		site = m[2]
	}
	return strings.TrimSpace(site), strings.TrimSpace(m[3])
}

// NormalizeName removes all whitespace, including full-width spaces, so that
// "玉腰　千恵" and "玉腰千恵" compare equal.
func NormalizeName(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// Answered reports whether name stands for a valid answered call, which is
// the case unless it contains one of the configured exclusion keywords. An
// empty name is a missing value and never counts as answered.
func (c *Config) Answered(name string) bool {
	if name == "" {
		return false
	}
	for _, kw := range c.ExcludeKeywords {
		if strings.Contains(name, kw) {
			return false
		}
	}
	return true
}
