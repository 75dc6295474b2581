// Package paragraph splits operative sections into numbered paragraphs and
// their sub-paragraphs, and recital groups into lettered recitals.
package paragraph

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dgallion1/akngest/internal/doctree"
	"github.com/dgallion1/akngest/internal/textutil"
)

// Policy decides what happens to a paragraph number that does not follow
// its predecessor.
type Policy int

const (
	// Strict accepts only last+1 (starting at 1). Anything else stays body
	// text and is reported.
	Strict Policy = iota
	// Increasing accepts any number greater than the last and reports gaps.
	// Non-increasing numbers stay body text.
	Increasing
)

func (p Policy) String() string {
	if p == Increasing {
		return "increasing"
	}
	return "strict"
}

// ParsePolicy maps a configuration value to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return Strict, nil
	case "increasing":
		return Increasing, nil
	}
	return Strict, fmt.Errorf("unknown paragraph policy %q (want strict or increasing)", s)
}

// Draft is a paragraph before ids are assigned.
type Draft struct {
	Number int // 0 for unnumbered lead-in text
	Text   string
	Style  doctree.ListStyle
	Subs   []SubDraft
}

// SubDraft is a sub-paragraph before ids are assigned.
type SubDraft struct {
	Label string // "1" for 1.1, "a" for a)
	Style doctree.ListStyle
	Text  string
}

var (
	// "1.", "1)", "1" alone, or "10 that ..."; never "1.1".
	paragraphStart = regexp.MustCompile(`^\s*(\d{1,3})(?:[.)](?:\s+(.*?))?|\s+(\p{Ll}.*?))?\s*$`)
	decimalItem    = regexp.MustCompile(`^\s*(\d{1,3})\.(\d{1,2})\.?(?:\s+(.*?))?\s*$`)
	letteredItem   = regexp.MustCompile(`^\s*\(?([a-z])\)(?:\s+(.*?))?\s*$`)
)

type span struct {
	number int
	page   int
	lines  []string
}

// Segment runs both passes over the lines of one operative section.
func Segment(lines []doctree.RawLine, policy Policy) ([]Draft, []doctree.ClassificationWarning) {
	var warnings []doctree.ClassificationWarning
	spans := []span{{number: 0}}
	last := 0

	for _, ln := range lines {
		text := strings.TrimSpace(ln.Text)
		if text == "" {
			continue
		}
		m := paragraphStart.FindStringSubmatch(text)
		if m == nil {
			cur := &spans[len(spans)-1]
			cur.lines = append(cur.lines, text)
			continue
		}
		n, _ := strconv.Atoi(m[1])
		rest := m[2] + m[3]

		accept, w := decide(policy, last, n)
		if w != "" {
			warnings = append(warnings, doctree.ClassificationWarning{
				Kind:   doctree.WarnParagraphSequence,
				Page:   ln.Page,
				Line:   text,
				Reason: w,
			})
		}
		if !accept {
			cur := &spans[len(spans)-1]
			cur.lines = append(cur.lines, text)
			continue
		}
		last = n
		sp := span{number: n, page: ln.Page}
		if rest != "" {
			sp.lines = append(sp.lines, rest)
		}
		spans = append(spans, sp)
	}

	var drafts []Draft
	for i, sp := range spans {
		if i == 0 && len(sp.lines) == 0 {
			continue
		}
		d, w := splitSubs(sp)
		warnings = append(warnings, w...)
		drafts = append(drafts, d)
	}
	return drafts, warnings
}

// decide applies the numbering policy. It returns whether n opens a new
// paragraph and, when the number is suspicious, a warning reason.
func decide(policy Policy, last, n int) (bool, string) {
	expected := last + 1
	if n == expected {
		return true, ""
	}
	if n <= last {
		return false, fmt.Sprintf("paragraph number %d does not follow %d; kept as body text", n, last)
	}
	if policy == Increasing {
		return true, fmt.Sprintf("paragraph number %d skips from %d", n, last)
	}
	return false, fmt.Sprintf("paragraph number %d out of sequence after %d; kept as body text", n, last)
}

// splitSubs is pass two. The first sub-item found fixes the numbering style
// of the paragraph; items of the other style, or out of sequence, stay in
// the text of the current item.
func splitSubs(sp span) (Draft, []doctree.ClassificationWarning) {
	d := Draft{Number: sp.number}
	var (
		warnings []doctree.ClassificationWarning
		head     []string
		items    [][]string
	)
	appendText := func(s string) {
		if len(items) == 0 {
			head = append(head, s)
			return
		}
		items[len(items)-1] = append(items[len(items)-1], s)
	}

	for _, text := range sp.lines {
		label, rest, style := subItem(text, sp.number, d.Style, len(d.Subs))
		if style == doctree.StyleNone {
			if d.Style != doctree.StyleNone && otherStyle(text, sp.number, d.Style) {
				warnings = append(warnings, doctree.ClassificationWarning{
					Kind:   doctree.WarnSubParagraphStyle,
					Page:   sp.page,
					Line:   text,
					Reason: fmt.Sprintf("paragraph %d uses %s items; line kept as body text", sp.number, d.Style),
				})
			}
			appendText(text)
			continue
		}
		d.Style = style
		d.Subs = append(d.Subs, SubDraft{Label: label, Style: style})
		items = append(items, nil)
		if rest != "" {
			items[len(items)-1] = append(items[len(items)-1], rest)
		}
	}

	d.Text = textutil.JoinLines(head)
	for i := range d.Subs {
		d.Subs[i].Text = textutil.JoinLines(items[i])
	}
	return d, warnings
}

// subItem reports whether text opens the next sub-item under the locked
// style (or either style when none is locked yet).
func subItem(text string, parent int, locked doctree.ListStyle, count int) (string, string, doctree.ListStyle) {
	if locked != doctree.StyleLettered && parent > 0 {
		if m := decimalItem.FindStringSubmatch(text); m != nil {
			p, _ := strconv.Atoi(m[1])
			s, _ := strconv.Atoi(m[2])
			if p == parent && s == count+1 {
				return m[2], m[3], doctree.StyleDecimal
			}
		}
	}
	if locked != doctree.StyleDecimal {
		if m := letteredItem.FindStringSubmatch(text); m != nil {
			if m[1][0] == byte('a'+count) {
				return m[1], m[2], doctree.StyleLettered
			}
		}
	}
	return "", "", doctree.StyleNone
}

func otherStyle(text string, parent int, locked doctree.ListStyle) bool {
	switch locked {
	case doctree.StyleLettered:
		return decimalItem.MatchString(text)
	case doctree.StyleDecimal:
		return letteredItem.MatchString(text)
	}
	return false
}

// Recital is a recital before ids are assigned.
type Recital struct {
	Label string // "a)", or empty for intro text
	Text  string
}

// Recitals splits a recital group on sequential lettered labels. Text before
// the first label becomes an unlabeled intro recital; a group without
// labels is a single recital.
func Recitals(lines []doctree.RawLine) []Recital {
	var (
		out     []Recital
		intro   []string
		current []string
		labels  []string
	)
	for _, ln := range lines {
		text := strings.TrimSpace(ln.Text)
		if text == "" {
			continue
		}
		if m := letteredItem.FindStringSubmatch(text); m != nil && m[1][0] == byte('a'+len(labels)) {
			if len(labels) > 0 {
				out = append(out, Recital{Label: labels[len(labels)-1], Text: textutil.JoinLines(current)})
			}
			labels = append(labels, m[1]+")")
			current = nil
			if m[2] != "" {
				current = append(current, m[2])
			}
			continue
		}
		if len(labels) == 0 {
			intro = append(intro, text)
		} else {
			current = append(current, text)
		}
	}
	if len(labels) > 0 {
		out = append(out, Recital{Label: labels[len(labels)-1], Text: textutil.JoinLines(current)})
	}
	if len(intro) > 0 {
		out = append([]Recital{{Text: textutil.JoinLines(intro)}}, out...)
	}
	return out
}
