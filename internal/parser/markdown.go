package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/akngest/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. A thematic break
// starts a new page and every source line of a block is a line. A line whose
// visible text is all emphasis is italic.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) ([]doctree.Page, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	w := &mdWalker{src: src, italic: true}
	w.pg.next()
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		w.block(n, "")
	}
	w.flush()
	return w.pg.result(), nil
}

type mdWalker struct {
	pg     pager
	src    []byte
	line   strings.Builder
	italic bool
	runs   int
}

func (w *mdWalker) flush() {
	w.pg.add(strings.TrimSpace(w.line.String()), w.italic && w.runs > 0)
	w.line.Reset()
	w.italic, w.runs = true, 0
}

func (w *mdWalker) text(s string, italic bool) {
	if strings.TrimSpace(s) != "" {
		w.runs++
		if !italic {
			w.italic = false
		}
	}
	w.line.WriteString(s)
}

// block emits the lines of a block node. prefix restores an ordered list
// marker, since "1) that" in the source parses as a list item.
func (w *mdWalker) block(n ast.Node, prefix string) {
	switch v := n.(type) {
	case *ast.ThematicBreak:
		w.flush()
		if len(w.pg.cur().Lines) > 0 {
			w.pg.next()
		}
		return
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			w.pg.add(string(seg.Value(w.src)), false)
		}
		return
	case *ast.List:
		num := v.Start
		for item := v.FirstChild(); item != nil; item = item.NextSibling() {
			marker := ""
			if v.IsOrdered() {
				marker = fmt.Sprintf("%d%c ", num, v.Marker)
				num++
			}
			w.block(item, marker)
		}
		return
	}

	if fc := n.FirstChild(); fc != nil && fc.Type() == ast.TypeInline {
		w.flush()
		if prefix != "" {
			w.text(prefix, false)
		}
		w.inline(n, false)
		w.flush()
		return
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		w.block(c, prefix)
		prefix = ""
	}
}

func (w *mdWalker) inline(n ast.Node, italic bool) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			w.text(string(v.Segment.Value(w.src)), italic)
			if v.SoftLineBreak() || v.HardLineBreak() {
				w.flush()
			}
		case *ast.String:
			w.text(string(v.Value), italic)
		case *ast.Emphasis:
			w.inline(v, italic || v.Level == 1)
		case *ast.AutoLink:
			w.text(string(v.Label(w.src)), italic)
		case *ast.RawHTML:
		default:
			w.inline(c, italic)
		}
	}
}
