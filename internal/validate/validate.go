// Package validate checks assembled documents against the model's
// invariants before they are serialized.
package validate

import (
	"fmt"
	"strconv"

	"github.com/dgallion1/akngest/internal/classify"
	"github.com/dgallion1/akngest/internal/doctree"
	"github.com/dgallion1/akngest/internal/textutil"
)

// Problem is one violated invariant.
type Problem struct {
	DocumentID string
	ElementID  string
	Reason     string
}

func (p Problem) Error() string {
	if p.ElementID == "" {
		return fmt.Sprintf("%s: %s", p.DocumentID, p.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", p.DocumentID, p.ElementID, p.Reason)
}

type checker struct {
	doc      *doctree.Document
	table    *classify.Table
	ids      map[string]bool
	problems []Problem
}

func (c *checker) fail(element, format string, args ...any) {
	c.problems = append(c.problems, Problem{
		DocumentID: c.doc.ID,
		ElementID:  element,
		Reason:     fmt.Sprintf(format, args...),
	})
}

func (c *checker) id(id string) {
	if id == "" {
		c.fail("", "element without id")
		return
	}
	if c.ids[id] {
		c.fail(id, "duplicate id")
	}
	c.ids[id] = true
}

func (c *checker) text(element, s string) {
	if textutil.Sanitize(s) != s {
		c.fail(element, "text is not sanitized")
	}
}

func (c *checker) keyword(element, kw string, want classify.Category) {
	if kw == "" && want == classify.Operative {
		return
	}
	got, ok := c.table.Category(kw)
	if !ok {
		c.fail(element, "keyword %q is not in the keyword table", kw)
		return
	}
	if got != want {
		c.fail(element, "keyword %q is %s, used as %s", kw, got, want)
	}
}

// Document returns every invariant d violates. A nil table means
// classify.DefaultTable().
func Document(d *doctree.Document, table *classify.Table) []Problem {
	if d == nil {
		return []Problem{{Reason: "nil document"}}
	}
	if table == nil {
		table = classify.DefaultTable()
	}
	c := &checker{doc: d, table: table, ids: make(map[string]bool)}

	if want := doctree.DocumentID(d.Kind, d.Number); d.ID != want {
		c.fail("", "id %q does not match %s %d", d.ID, d.Kind, d.Number)
	}
	if d.Number <= 0 {
		c.fail("", "document number %d is not positive", d.Number)
	}
	c.text("title", d.Title)
	c.text("formula_1", d.Preamble.EnactingFormula)

	for _, g := range d.Preamble.Groups {
		c.id(g.ID)
		c.keyword(g.ID, g.Keyword, classify.Preamble)
		for i, r := range g.Recitals {
			c.id(r.ID)
			c.text(r.ID, r.Text)
			if r.Sequence != i+1 {
				c.fail(r.ID, "sequence %d at position %d", r.Sequence, i+1)
			}
		}
	}

	for _, sec := range d.Sections {
		c.id(sec.ID)
		c.keyword(sec.ID, sec.Keyword, classify.Operative)
		last := -1
		for i, p := range sec.Paragraphs {
			c.id(p.ID)
			c.text(p.ID, p.Text)
			if p.Number == 0 && i > 0 {
				c.fail(p.ID, "unnumbered paragraph after numbered ones")
			}
			if p.Number <= last {
				c.fail(p.ID, "paragraph number %d does not increase after %d", p.Number, last)
			}
			last = p.Number
			c.subParagraphs(p)
		}
	}

	for i, a := range d.Annexes {
		c.text("att_"+strconv.Itoa(i+1), a.Text)
	}
	return c.problems
}

func (c *checker) subParagraphs(p doctree.Paragraph) {
	if len(p.SubParagraphs) == 0 {
		return
	}
	c.id(doctree.ListID(p.ID))
	style := p.SubParagraphs[0].Style
	for i, sp := range p.SubParagraphs {
		c.id(sp.ID)
		c.text(sp.ID, sp.Text)
		if sp.Style != style {
			c.fail(sp.ID, "%s item in a %s list", sp.Style, style)
			continue
		}
		var want string
		switch style {
		case doctree.StyleDecimal:
			want = strconv.Itoa(i + 1)
		case doctree.StyleLettered:
			want = string(rune('a' + i))
		default:
			c.fail(sp.ID, "item without numbering style")
			continue
		}
		if sp.NumberLabel != want {
			c.fail(sp.ID, "label %q, want %q", sp.NumberLabel, want)
		}
	}
}

// Err folds problems into one error, or nil when there are none.
func Err(problems []Problem) error {
	if len(problems) == 0 {
		return nil
	}
	if len(problems) == 1 {
		return problems[0]
	}
	return fmt.Errorf("%w (and %d more)", problems[0], len(problems)-1)
}
