package doctree

import (
	"fmt"
	"regexp"
	"strings"
)

// Element identifiers follow the AKN naming convention: a local name
// ("para_3") prefixed by its parent's eId and "__". Every function here is
// pure, so ids do not depend on traversal order.

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9]`)
	slugRepeat  = regexp.MustCompile(`_+`)
)

// Slug converts text to an eId fragment.
func Slug(s string) string {
	s = strings.ToLower(s)
	s = slugInvalid.ReplaceAllString(s, "_")
	s = slugRepeat.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 50 {
		s = strings.TrimRight(s[:50], "_")
	}
	return s
}

// DocumentID returns e.g. "res_2".
func DocumentID(kind DocKind, number int) string {
	return fmt.Sprintf("%s_%d", kind.Abbrev(), number)
}

func withOccurrence(base string, occurrence int) string {
	if occurrence > 1 {
		return fmt.Sprintf("%s_%d", base, occurrence)
	}
	return base
}

// RecitalsID returns "recs_<keyword>"; occurrence > 1 disambiguates a
// repeated keyword within the same preamble.
func RecitalsID(keyword string, occurrence int) string {
	return withOccurrence("recs_"+Slug(keyword), occurrence)
}

// RecitalID returns "<group>__rec_<n>", n counting from 1 within the group.
func RecitalID(groupID string, n int) string {
	return fmt.Sprintf("%s__rec_%d", groupID, n)
}

// SectionID returns "hcont_<keyword>", or "hcont_unlabeled" for the
// fallback section.
func SectionID(keyword string, occurrence int) string {
	if keyword == "" {
		return withOccurrence("hcont_unlabeled", occurrence)
	}
	return withOccurrence("hcont_"+Slug(keyword), occurrence)
}

// ParagraphID returns "<section>__para_<n>". Number 0 is the unnumbered
// lead-in paragraph.
func ParagraphID(sectionID string, number int) string {
	if number == 0 {
		return sectionID + "__para_unnumbered"
	}
	return fmt.Sprintf("%s__para_%d", sectionID, number)
}

// ListID returns "<paragraph>__list_1".
func ListID(paragraphID string) string {
	return paragraphID + "__list_1"
}

// PointID returns "<paragraph>__point_<n>-<m>" for decimal items and
// "<paragraph>__point_<letter>" for lettered ones.
func PointID(paragraphID string, parent int, label string, style ListStyle) string {
	if style == StyleDecimal {
		return fmt.Sprintf("%s__point_%d-%s", paragraphID, parent, label)
	}
	return fmt.Sprintf("%s__point_%s", paragraphID, label)
}

// ComponentID returns the collection component id, e.g. "cmp_res_2".
func ComponentID(documentID string) string {
	return "cmp_" + documentID
}
