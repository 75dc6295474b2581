// Package segment slices the cleaned page stream into one flat line list
// per TOC entry.
package segment

import (
	"fmt"

	"github.com/dgallion1/akngest/internal/doctree"
)

// Segment is the flattened line sequence of one document. Lines keep their
// original page numbers; nothing downstream depends on page structure.
type Segment struct {
	Entry doctree.TOCEntry
	Lines []doctree.RawLine
}

// Split maps every entry to the lines of pages StartPage..EndPage.
func Split(pages []doctree.Page, entries []doctree.TOCEntry) ([]Segment, error) {
	if len(pages) == 0 {
		return nil, &doctree.StructureError{Op: "segment", Reason: "empty page stream"}
	}
	byNumber := make(map[int]int, len(pages))
	for i, p := range pages {
		byNumber[p.Number] = i
	}
	first, last := pages[0].Number, pages[len(pages)-1].Number

	out := make([]Segment, 0, len(entries))
	for _, e := range entries {
		if e.StartPage < first || e.EndPage > last || e.StartPage > e.EndPage {
			return nil, &doctree.StructureError{
				Op:     "segment",
				Page:   e.StartPage,
				Reason: fmt.Sprintf("%s page range %d-%d outside %d-%d", e.Ref(), e.StartPage, e.EndPage, first, last),
			}
		}
		seg := Segment{Entry: e}
		for n := e.StartPage; n <= e.EndPage; n++ {
			i, ok := byNumber[n]
			if !ok {
				return nil, &doctree.StructureError{
					Op:     "segment",
					Page:   n,
					Reason: fmt.Sprintf("%s references missing page %d", e.Ref(), n),
				}
			}
			seg.Lines = append(seg.Lines, pages[i].Lines...)
		}
		out = append(out, seg)
	}
	return out, nil
}

// Pages returns the distinct page numbers the segment's lines came from.
func (s Segment) Pages() []int {
	var pages []int
	for _, ln := range s.Lines {
		if len(pages) == 0 || pages[len(pages)-1] != ln.Page {
			pages = append(pages, ln.Page)
		}
	}
	return pages
}
