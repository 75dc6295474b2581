package parser

import (
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/dgallion1/akngest/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF files. It tries the Go library first,
// then falls back to pdftotext if available.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) ([]doctree.Page, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "akngest-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	pages, err := extractPDFPages(tmpPath)
	if (err != nil || !hasLines(pages)) && p.FallbackPdftotext {
		var text string
		text, err = extractPdftotext(tmpPath)
		if err == nil {
			pages = pagesFromText(text)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text from %s: %w", filename, err)
	}
	return pages, nil
}

func extractPDFPages(path string) (pages []doctree.Page, err error) {
	// The content stream interpreter panics on malformed input.
	defer func() {
		if rec := recover(); rec != nil {
			pages, err = nil, fmt.Errorf("read pdf: %v", rec)
		}
	}()

	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		pg := doctree.Page{Number: i}
		page := reader.Page(i)
		if !page.V.IsNull() {
			pg.Lines = linesFromGlyphs(page.Content().Text, i)
		}
		pages = append(pages, pg)
	}
	return pages, nil
}

// rowTolerance is the baseline distance, in points, under which two glyphs
// share a line.
const rowTolerance = 2.0

// linesFromGlyphs groups positioned glyphs into lines, top to bottom. A line
// is italic when every visible glyph is set in an italic or oblique font.
func linesFromGlyphs(glyphs []pdflib.Text, page int) []doctree.RawLine {
	type row struct {
		y      float64
		glyphs []pdflib.Text
	}
	var rows []*row
	for _, g := range glyphs {
		var dst *row
		for _, r := range rows {
			if math.Abs(r.y-g.Y) <= rowTolerance {
				dst = r
				break
			}
		}
		if dst == nil {
			dst = &row{y: g.Y}
			rows = append(rows, dst)
		}
		dst.glyphs = append(dst.glyphs, g)
	}
	// PDF y grows upwards.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })

	var lines []doctree.RawLine
	for _, r := range rows {
		sort.SliceStable(r.glyphs, func(i, j int) bool { return r.glyphs[i].X < r.glyphs[j].X })
		var b strings.Builder
		italic, visible := true, 0
		for i, g := range r.glyphs {
			if i > 0 {
				prev := r.glyphs[i-1]
				gap := g.X - (prev.X + prev.W)
				if gap > 0.25*math.Max(g.FontSize, 1) && !strings.HasSuffix(b.String(), " ") && g.S != " " {
					b.WriteByte(' ')
				}
			}
			b.WriteString(g.S)
			if strings.TrimSpace(g.S) != "" {
				visible++
				if !isItalicFont(g.Font) {
					italic = false
				}
			}
		}
		text := strings.TrimSpace(b.String())
		if text == "" {
			continue
		}
		lines = append(lines, doctree.RawLine{Text: text, Page: page, Italic: italic && visible > 0})
	}
	return lines
}

func isItalicFont(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "italic") || strings.Contains(n, "oblique")
}

func hasLines(pages []doctree.Page) bool {
	for _, p := range pages {
		if len(p.Lines) > 0 {
			return true
		}
	}
	return false
}

func extractPdftotext(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}
