// Package parser turns source files into pages of raw lines for structure
// recovery.
package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/akngest/internal/doctree"
)

// Parser converts raw document bytes into numbered pages of lines.
type Parser interface {
	Parse(r io.Reader, filename string) ([]doctree.Page, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// pager accumulates lines into 1-based, contiguous pages.
type pager struct {
	pages []doctree.Page
}

func (p *pager) cur() *doctree.Page {
	if len(p.pages) == 0 {
		p.next()
	}
	return &p.pages[len(p.pages)-1]
}

// next opens a new page.
func (p *pager) next() {
	p.pages = append(p.pages, doctree.Page{Number: len(p.pages) + 1})
}

// add appends a line to the current page. Blank lines are dropped.
func (p *pager) add(text string, italic bool) {
	text = strings.TrimRight(text, " \t\r")
	if strings.TrimSpace(text) == "" {
		return
	}
	pg := p.cur()
	pg.Lines = append(pg.Lines, doctree.RawLine{Text: text, Page: pg.Number, Italic: italic})
}

// result drops a trailing empty page left by a final break.
func (p *pager) result() []doctree.Page {
	n := len(p.pages)
	if n > 1 && len(p.pages[n-1].Lines) == 0 {
		p.pages = p.pages[:n-1]
	}
	return p.pages
}
