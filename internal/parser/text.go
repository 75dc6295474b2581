package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/akngest/internal/doctree"
)

// TextParser handles plain text, typically pdftotext output. A form feed
// starts a new page. Plain text carries no italic information.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) ([]doctree.Page, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var pg pager
	pg.next()
	for scanner.Scan() {
		parts := strings.Split(scanner.Text(), "\f")
		for i, part := range parts {
			if i > 0 {
				pg.next()
			}
			pg.add(part, false)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return pg.result(), nil
}

// pagesFromText splits form-feed separated text into pages.
func pagesFromText(text string) []doctree.Page {
	pages, _ := (&TextParser{}).Parse(strings.NewReader(text), "")
	return pages
}
