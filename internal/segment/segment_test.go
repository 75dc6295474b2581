package segment

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/dgallion1/akngest/internal/doctree"
)

func numberedPages(n int) []doctree.Page {
	pages := make([]doctree.Page, n)
	for i := range pages {
		num := i + 1
		pages[i] = doctree.Page{Number: num, Lines: []doctree.RawLine{
			{Text: fmt.Sprintf("page %d line a", num), Page: num},
			{Text: fmt.Sprintf("page %d line b", num), Page: num},
		}}
	}
	return pages
}

func TestSplit_TwoDocumentsMatchPageSlices(t *testing.T) {
	pages := numberedPages(10)
	entries := []doctree.TOCEntry{
		{Kind: doctree.Decision, Number: 5, StartPage: 1, EndPage: 3},
		{Kind: doctree.Resolution, Number: 2, StartPage: 4, EndPage: 10},
	}
	segs, err := Split(pages, entries)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}
	if got := segs[0].Pages(); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("decision pages = %v", got)
	}
	if got := segs[1].Pages(); !reflect.DeepEqual(got, []int{4, 5, 6, 7, 8, 9, 10}) {
		t.Errorf("resolution pages = %v", got)
	}
	if len(segs[0].Lines) != 6 || len(segs[1].Lines) != 14 {
		t.Errorf("line counts = %d, %d", len(segs[0].Lines), len(segs[1].Lines))
	}
	if segs[1].Lines[0].Text != "page 4 line a" {
		t.Errorf("first resolution line = %q", segs[1].Lines[0].Text)
	}
}

func TestSplit_OutOfBounds(t *testing.T) {
	entries := []doctree.TOCEntry{{Kind: doctree.Resolution, Number: 2, StartPage: 4, EndPage: 12}}
	_, err := Split(numberedPages(10), entries)
	var se *doctree.StructureError
	if !errors.As(err, &se) {
		t.Fatalf("expected StructureError, got %v", err)
	}
	if se.Op != "segment" {
		t.Errorf("op = %q", se.Op)
	}
}

func TestSplit_MissingPage(t *testing.T) {
	pages := numberedPages(5)
	pages = append(pages[:2], pages[3:]...)
	entries := []doctree.TOCEntry{{Kind: doctree.Resolution, Number: 2, StartPage: 1, EndPage: 5}}
	_, err := Split(pages, entries)
	var se *doctree.StructureError
	if !errors.As(err, &se) {
		t.Fatalf("expected StructureError, got %v", err)
	}
	if se.Page != 3 {
		t.Errorf("page = %d, want 3", se.Page)
	}
}
