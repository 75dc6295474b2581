package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/akngest/internal/doctree"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. Block elements and <br> end lines; <hr>
// and elements with class "page" start a new page; text inside <i> or <em>
// is italic.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) ([]doctree.Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	w := &htmlWalker{italic: true}
	w.pg.next()

	// Find <body> or use whole document.
	if body := findBody(doc); body != nil {
		w.walk(body, false)
	} else {
		w.walk(doc, false)
	}
	w.flush()
	return w.pg.result(), nil
}

type htmlWalker struct {
	pg     pager
	line   strings.Builder
	italic bool // every visible run so far is italic
	runs   int
}

func (w *htmlWalker) flush() {
	w.pg.add(strings.Join(strings.Fields(w.line.String()), " "), w.italic && w.runs > 0)
	w.line.Reset()
	w.italic, w.runs = true, 0
}

func (w *htmlWalker) breakPage() {
	w.flush()
	if len(w.pg.cur().Lines) > 0 {
		w.pg.next()
	}
}

func (w *htmlWalker) walk(n *html.Node, italic bool) {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) != "" {
			w.runs++
			if !italic {
				w.italic = false
			}
		}
		w.line.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "head", "nav":
			return
		case "br":
			w.flush()
			return
		case "hr":
			w.breakPage()
			return
		case "i", "em":
			italic = true
		}
		if hasClass(n, "page") {
			w.breakPage()
		}
	}

	block := n.Type == html.ElementNode && isBlock(n.Data)
	if block {
		w.flush()
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c, italic)
	}
	if block {
		w.flush()
	}
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "li", "td", "th", "tr", "blockquote", "pre", "section", "article",
		"h1", "h2", "h3", "h4", "h5", "h6":
		return true
	}
	return false
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" {
			for _, c := range strings.Fields(a.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
