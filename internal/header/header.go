// Package header removes running page headers and footers such as
// "Res. 2 / 21" without touching paragraph numbers.
package header

import (
	"fmt"
	"regexp"

	"github.com/dgallion1/akngest/internal/doctree"
	"github.com/dgallion1/akngest/internal/textutil"
)

// DefaultWindow is how many lines at the top (and bottom) of a page are
// searched for the doc-reference line.
const DefaultWindow = 5

var pageNumberOnly = regexp.MustCompile(`^\s*\d{1,3}\s*$`)

// RefPattern matches the running-header reference of one document,
// e.g. "Res. 2" or "Res. 2 / 21", but not "Res. 21".
func RefPattern(kind doctree.DocKind, number int) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`^\s*%s\s*%d\b`, regexp.QuoteMeta(kind.RefPrefix()), number))
}

// StripPage removes the doc-reference line and the lines adjacent to it
// that hold only a page number or nothing. Any other line is kept, so a
// paragraph number separated from the header by text survives.
func StripPage(lines []doctree.RawLine, ref *regexp.Regexp, window int) []doctree.RawLine {
	if window <= 0 {
		window = DefaultWindow
	}
	idx, footer := locate(lines, ref, window)
	if idx < 0 {
		return lines
	}

	skip := map[int]bool{idx: true}
	if footer {
		// Blank lines trailing a footer.
		for j := idx + 1; j < len(lines); j++ {
			if textutil.IsBlank(lines[j].Text) {
				skip[j] = true
			}
		}
	} else {
		// Blank lines leading a header.
		for j := 0; j < idx; j++ {
			if textutil.IsBlank(lines[j].Text) {
				skip[j] = true
			}
		}
	}
	for _, adj := range []int{idx - 1, idx + 1} {
		if adj < 0 || adj >= len(lines) {
			continue
		}
		if pageNumberOnly.MatchString(lines[adj].Text) || textutil.IsBlank(lines[adj].Text) {
			skip[adj] = true
		}
	}

	out := make([]doctree.RawLine, 0, len(lines)-len(skip))
	for i, ln := range lines {
		if !skip[i] {
			out = append(out, ln)
		}
	}
	return out
}

// locate returns the index of the first reference line within the header
// window, falling back to the footer window.
func locate(lines []doctree.RawLine, ref *regexp.Regexp, window int) (int, bool) {
	for i := 0; i < len(lines) && i < window; i++ {
		if ref.MatchString(lines[i].Text) {
			return i, false
		}
	}
	start := len(lines) - window
	if start < window {
		start = window
	}
	for i := len(lines) - 1; i >= start; i-- {
		if ref.MatchString(lines[i].Text) {
			return i, true
		}
	}
	return -1, false
}

// Strip cleans every page inside an entry's range with that entry's
// reference pattern. Pages outside all ranges are returned unchanged.
func Strip(pages []doctree.Page, entries []doctree.TOCEntry, window int) []doctree.Page {
	out := make([]doctree.Page, len(pages))
	copy(out, pages)

	for _, e := range entries {
		ref := RefPattern(e.Kind, e.Number)
		for i := range out {
			p := out[i].Number
			if p < e.StartPage || p > e.EndPage {
				continue
			}
			out[i].Lines = StripPage(out[i].Lines, ref, window)
		}
	}
	return out
}
