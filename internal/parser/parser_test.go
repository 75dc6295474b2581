package parser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dgallion1/akngest/internal/doctree"
	"github.com/fumiama/go-docx"
	pdflib "github.com/ledongthuc/pdf"
)

type line struct {
	page   int
	text   string
	italic bool
}

func flatten(pages []doctree.Page) []line {
	var out []line
	for _, p := range pages {
		for _, l := range p.Lines {
			out = append(out, line{l.Page, l.Text, l.Italic})
		}
	}
	return out
}

func assertLines(t *testing.T, pages []doctree.Page, want []line) {
	t.Helper()
	for i, p := range pages {
		if p.Number != i+1 {
			t.Fatalf("page[%d] numbered %d", i, p.Number)
		}
	}
	got := flatten(pages)
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line[%d]: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestForFile_Dispatch(t *testing.T) {
	for _, name := range []string{"a.pdf", "a.TXT", "a.csv", "a.docx", "a.html", "a.htm", "a.md"} {
		if _, err := ForFile(name); err != nil {
			t.Errorf("%s: %v", name, err)
		}
		if !IsSupportedExtension(name) {
			t.Errorf("%s should be supported", name)
		}
	}
	if _, err := ForFile("a.xls"); err == nil {
		t.Error("expected error for .xls")
	}
	if IsSupportedExtension("a.xls") {
		t.Error(".xls should not be supported")
	}
}

func TestTextParser_FormFeedPages(t *testing.T) {
	input := "CONTENTS\nResolution 2 ... 5\n\fRESOLUTION 2\n\n   considering\f\fthat the forum"
	pages, err := (&TextParser{}).Parse(strings.NewReader(input), "acts.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 4 {
		t.Fatalf("expected 4 pages, got %d", len(pages))
	}
	if len(pages[2].Lines) != 0 {
		t.Errorf("expected empty page 3, got %+v", pages[2].Lines)
	}
	assertLines(t, pages, []line{
		{1, "CONTENTS", false},
		{1, "Resolution 2 ... 5", false},
		{2, "RESOLUTION 2", false},
		{2, "   considering", false},
		{4, "that the forum", false},
	})
}

func TestTextParser_EmptyInput(t *testing.T) {
	pages, err := (&TextParser{}).Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 1 || len(pages[0].Lines) != 0 {
		t.Fatalf("expected one empty page, got %+v", pages)
	}
}

func TestCSVParser_Rows(t *testing.T) {
	input := "page,italic,text\n1,false,RESOLUTION 2\n1,true,considering\n3,,\"that the forum, as noted\"\n"
	pages, err := (&CSVParser{}).Parse(strings.NewReader(input), "lines.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(pages))
	}
	assertLines(t, pages, []line{
		{1, "RESOLUTION 2", false},
		{1, "considering", true},
		{3, "that the forum, as noted", false},
	})
}

func TestCSVParser_Rejects(t *testing.T) {
	for name, input := range map[string]string{
		"bad page":   "x,false,text\n",
		"decreasing": "2,false,a\n1,false,b\n",
		"bad flag":   "1,maybe,a\n",
		"columns":    "1,a\n",
	} {
		if _, err := (&CSVParser{}).Parse(strings.NewReader(input), "x.csv"); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestHTMLParser_PagesAndItalic(t *testing.T) {
	input := `<html><head><title>x</title><style>p{}</style></head><body>
<div class="page"><p>RESOLUTION 2 (REV. DUBAI, 2018)</p><p><i>considering</i></p>
<p>a) that the forum<br>is useful;</p></div>
<div class="page"><p><em>resolves</em> that</p></div>
<hr>
<p>1 to <b>continue</b></p>
</body></html>`
	pages, err := (&HTMLParser{}).Parse(strings.NewReader(input), "acts.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(pages))
	}
	assertLines(t, pages, []line{
		{1, "RESOLUTION 2 (REV. DUBAI, 2018)", false},
		{1, "considering", true},
		{1, "a) that the forum", false},
		{1, "is useful;", false},
		{2, "resolves that", false},
		{3, "1 to continue", false},
	})
}

func TestMarkdownParser_PagesAndItalic(t *testing.T) {
	input := "RESOLUTION 2\n\n*considering*\n\na) that the forum\nis useful;\n\n---\n\n_resolves_\n\n1) to continue\n"
	pages, err := (&MarkdownParser{}).Parse(strings.NewReader(input), "acts.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	assertLines(t, pages, []line{
		{1, "RESOLUTION 2", false},
		{1, "considering", true},
		{1, "a) that the forum", false},
		{1, "is useful;", false},
		{2, "resolves", true},
		{2, "1) to continue", false},
	})
}

func TestLinesFromGlyphs_GroupsRows(t *testing.T) {
	glyph := func(s string, x, y float64, font string) pdflib.Text {
		return pdflib.Text{S: s, X: x, Y: y, W: 5, FontSize: 10, Font: font}
	}
	glyphs := []pdflib.Text{
		// Second line, out of order on purpose.
		glyph("b", 25, 680.5, "Times-Roman"),
		glyph("a", 10, 681, "Times-Roman"),
		// Top line: italic keyword.
		glyph("n", 15, 700, "Times-Italic"),
		glyph("o", 10, 700, "Times-Italic"),
		glyph(" ", 20, 700, "Times-Roman"),
		// Blank row.
		glyph(" ", 10, 650, "Times-Roman"),
	}
	lines := linesFromGlyphs(glyphs, 7)
	want := []doctree.RawLine{
		{Text: "on", Page: 7, Italic: true},
		{Text: "a b", Page: 7},
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %+v", len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line[%d]: expected %+v, got %+v", i, want[i], lines[i])
		}
	}
}

func TestPDFParser_RejectsGarbage(t *testing.T) {
	if _, err := (&PDFParser{}).Parse(strings.NewReader("not a pdf"), "x.pdf"); err == nil {
		t.Fatal("expected error")
	}
}

func TestDOCXParser_PageBreaksAndItalic(t *testing.T) {
	w := docx.New().WithDefaultTheme()
	w.AddParagraph().AddText("RESOLUTION 2")
	w.AddParagraph().AddText("considering").Italic()
	w.AddParagraph().AddPageBreaks()
	p := w.AddParagraph()
	p.AddText("1 that ")
	p.AddText("the forum").Italic()

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		t.Fatalf("write docx: %v", err)
	}
	pages, err := (&DOCXParser{}).Parse(&buf, "acts.docx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	assertLines(t, pages, []line{
		{1, "RESOLUTION 2", false},
		{1, "considering", true},
		{2, "1 that the forum", false},
	})
}
