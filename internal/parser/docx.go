package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgallion1/akngest/internal/doctree"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Each paragraph is a line; an explicit
// page break starts a new page.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) ([]doctree.Page, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "akngest-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, int64(size))
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var pg pager
	pg.next()
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		docxParagraph(&pg, para)
	}
	return pg.result(), nil
}

// docxParagraph adds the paragraph's text as one line, split at line
// breaks. Text after a page break lands on the next page. A line is italic when
// every run carrying text is italic.
func docxParagraph(pg *pager, para *docx.Paragraph) {
	var buf strings.Builder
	italic, runs := true, 0
	flush := func() {
		pg.add(strings.TrimSpace(buf.String()), italic && runs > 0)
		buf.Reset()
		italic, runs = true, 0
	}

	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			switch v := rc.(type) {
			case *docx.Text:
				if strings.TrimSpace(v.Text) != "" {
					runs++
					if run.RunProperties == nil || run.RunProperties.Italic == nil {
						italic = false
					}
				}
				buf.WriteString(v.Text)
			case *docx.Tab:
				buf.WriteByte(' ')
			case *docx.BarterRabbet:
				flush()
				if v.Type == "page" {
					pg.next()
				}
			}
		}
	}
	flush()
}
