// Package textutil holds the text normalization shared by the structure
// recovery stages.
package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	hyphenatedLineEnd = regexp.MustCompile(`\pL-$`)
	whitespaceRun     = regexp.MustCompile(`\s+`)
	lastWord          = regexp.MustCompile(`(\pL+)-$`)
)

// compoundPrefixes keep their hyphen before a lowercase continuation.
var compoundPrefixes = map[string]bool{
	"self":  true,
	"multi": true,
	"non":   true,
	"inter": true,
	"cross": true,
}

// invalidXMLRune reports runes that XML 1.0 text cannot carry, plus the C1
// control range.
func invalidXMLRune(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return false
	case r < 0x20:
		return true
	case r >= 0x7f && r <= 0x9f:
		return true
	case r == 0xfffe || r == 0xffff:
		return true
	case r >= 0xd800 && r <= 0xdfff:
		return true
	}
	return false
}

// Sanitize returns s in NFC form with invalid UTF-8 replaced and every
// character illegal in XML text removed. It never fails.
func Sanitize(s string) string {
	if s == "" {
		return s
	}
	s = strings.ToValidUTF8(s, "�")
	t := transform.Chain(norm.NFC, runes.Remove(runes.Predicate(invalidXMLRune)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.Map(func(r rune) rune {
			if invalidXMLRune(r) {
				return -1
			}
			return r
		}, s)
	}
	return out
}

// CollapseSpace trims s and reduces every whitespace run to one space.
func CollapseSpace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// JoinLines concatenates wrapped lines into one logical text. A word broken
// with a hyphen at a line end is rejoined: the hyphen is dropped when the
// next line continues in lowercase and kept otherwise. A known compound
// prefix such as "multi-" always keeps it.
func JoinLines(lines []string) string {
	var sb strings.Builder
	for i := 0; i < len(lines); i++ {
		cur := strings.TrimSpace(lines[i])
		if cur == "" {
			continue
		}
		if i+1 < len(lines) && hyphenatedLineEnd.MatchString(cur) {
			next := strings.TrimSpace(lines[i+1])
			switch {
			case next == "":
			case startsLower(next) && !compoundPrefix(cur):
				cur = cur[:len(cur)-1] + next
				i++
			default:
				// Capitalised continuation: a real compound such as
				// "Secretary-General".
				cur += next
				i++
			}
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(cur)
	}
	return CollapseSpace(sb.String())
}

func compoundPrefix(s string) bool {
	m := lastWord.FindStringSubmatch(s)
	return m != nil && compoundPrefixes[strings.ToLower(m[1])]
}

func startsLower(s string) bool {
	for _, r := range s {
		return unicode.IsLower(r)
	}
	return false
}

// IsBlank reports whether s holds only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
