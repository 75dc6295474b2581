// Package preview renders a Collection as Markdown and as a browsable HTML
// page.
package preview

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"

	"github.com/dgallion1/akngest/internal/akn"
	"github.com/dgallion1/akngest/internal/doctree"
)

var md = goldmark.New(goldmark.WithParserOptions(parser.WithAttribute()))

// escaper backslash-escapes the ASCII punctuation Markdown gives meaning to,
// so recovered text never turns into markup.
var escaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", `*`, `\*`, `_`, `\_`, `{`, `\{`, `}`, `\}`,
	`[`, `\[`, `]`, `\]`, `<`, `\<`, `>`, `\>`, `(`, `\(`, `)`, `\)`,
	`#`, `\#`, `+`, `\+`, `-`, `\-`, `.`, `\.`, `!`, `\!`, `|`, `\|`, `&`, `\&`,
)

func esc(s string) string { return escaper.Replace(s) }

// Heading is the display heading of a document, e.g.
// "RESOLUTION 2 (REV. DUBAI, 2018)".
func Heading(d *doctree.Document) string {
	h := strings.ToUpper(d.Kind.String()) + " " + strconv.Itoa(d.Number)
	if d.Revision != "" {
		h += " (" + d.Revision + ")"
	}
	return h
}

// Title is the page title of a collection.
func Title(c *doctree.Collection) string {
	conf := c.Conference
	return fmt.Sprintf("Final Acts of the %s (%s, %d)", conf.Name, conf.Location, conf.Year)
}

// Markdown renders the collection. A collection of one document renders that
// document alone, without the contents list.
func Markdown(c *doctree.Collection) string {
	var b strings.Builder
	if len(c.Documents) == 1 {
		writeDocument(&b, c.Documents[0], 1)
		return b.String()
	}

	fmt.Fprintf(&b, "# %s\n\n", esc(Title(c)))
	b.WriteString("## Documents in this collection\n\n")
	if len(c.Documents) == 0 {
		b.WriteString("\\(No documents\\)\n\n")
	}
	part := ""
	for _, d := range c.Documents {
		if d.Part != part && d.Part != "" {
			part = d.Part
			fmt.Fprintf(&b, "\n**%s**\n\n", esc(part))
		}
		fmt.Fprintf(&b, "- [%s](#%s)\n", esc(Heading(d)), d.ID)
	}
	b.WriteString("\n")
	for _, d := range c.Documents {
		writeDocument(&b, d, 2)
	}
	return b.String()
}

func writeDocument(b *strings.Builder, d *doctree.Document, level int) {
	h := strings.Repeat("#", level)
	fmt.Fprintf(b, "%s %s {#%s}\n\n", h, esc(Heading(d)), d.ID)
	if d.Title != "" {
		fmt.Fprintf(b, "*%s*\n\n", esc(d.Title))
	}

	fmt.Fprintf(b, "%s# Preamble\n\n", h)
	if d.Preamble.EnactingFormula == "" && len(d.Preamble.Groups) == 0 {
		b.WriteString("\\(No preamble extracted\\)\n\n")
	}
	if f := d.Preamble.EnactingFormula; f != "" {
		fmt.Fprintf(b, "%s\n\n", esc(f))
	}
	for _, g := range d.Preamble.Groups {
		fmt.Fprintf(b, "%s## *%s*\n\n", h, esc(g.Keyword))
		for _, r := range g.Recitals {
			b.WriteString("- ")
			if r.Label != "" {
				fmt.Fprintf(b, "**%s** ", esc(r.Label))
			}
			fmt.Fprintf(b, "%s\n", esc(r.Text))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(b, "%s# Main Body\n\n", h)
	if len(d.Sections) == 0 {
		b.WriteString("\\(No operative content extracted\\)\n\n")
	}
	for _, sec := range d.Sections {
		if sec.Keyword != "" {
			fmt.Fprintf(b, "%s## *%s*\n\n", h, esc(sec.Keyword))
		}
		for _, p := range sec.Paragraphs {
			if p.Number > 0 {
				fmt.Fprintf(b, "**%d** ", p.Number)
			}
			fmt.Fprintf(b, "%s\n\n", esc(p.Text))
			for _, sp := range p.SubParagraphs {
				fmt.Fprintf(b, "- **%s** %s\n", esc(sp.DisplayLabel(p.Number)), esc(sp.Text))
			}
			if len(p.SubParagraphs) > 0 {
				b.WriteString("\n")
			}
		}
	}

	if len(d.Annexes) > 0 {
		fmt.Fprintf(b, "%s# Annexes\n\n", h)
		for i, a := range d.Annexes {
			title := a.Title
			if title == "" {
				title = fmt.Sprintf("Annex %d", i+1)
			}
			fmt.Fprintf(b, "%s## %s\n\n%s\n\n", h, esc(title), esc(a.Text))
		}
	}
}

var page = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    :root { color-scheme: light dark; }
    body { font-family: Segoe UI, Arial, sans-serif; line-height: 1.55; max-width: 1050px; margin: 2rem auto; padding: 0 1rem; }
    h2 { margin-top: 2rem; border-bottom: 1px solid #9994; padding-bottom: 0.35rem; }
    ul { padding-left: 1.4rem; }
    li { margin-bottom: 0.35rem; }
    .source { margin-top: 2.25rem; padding-top: 1rem; border-top: 1px solid #9994; font-size: 0.92rem; opacity: 0.85; }
  </style>
</head>
<body>
{{.Body}}
{{if .Source}}<p class="source">Source: {{.Source}}</p>{{end}}
</body>
</html>
`))

// RenderHTML writes a standalone HTML page for the collection. source labels
// the input it came from and may be empty.
func RenderHTML(w io.Writer, c *doctree.Collection, source string) error {
	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(c)), &body); err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	title := Title(c)
	if len(c.Documents) == 1 {
		title = Heading(c.Documents[0])
	}
	return page.Execute(w, struct {
		Title  string
		Body   template.HTML
		Source string
	}{title, template.HTML(body.String()), source})
}

// RenderXML decodes AKN markup and renders it.
func RenderXML(w io.Writer, r io.Reader, source string) error {
	c, err := akn.Decode(r)
	if err != nil {
		return err
	}
	return RenderHTML(w, c, source)
}
