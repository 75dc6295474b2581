// Package classify splits a document's lines into enacting formula, recital
// groups, operative sections and annexes.
package classify

import (
	"regexp"
	"strings"

	"github.com/dgallion1/akngest/internal/doctree"
	"github.com/dgallion1/akngest/internal/textutil"
)

// State is the position of the scanner within a document.
type State int

const (
	BeforePreamble State = iota
	InRecitalGroup
	InOperativeSection
	InAnnex
)

func (s State) String() string {
	switch s {
	case BeforePreamble:
		return "before_preamble"
	case InRecitalGroup:
		return "in_recital_group"
	case InOperativeSection:
		return "in_operative_section"
	case InAnnex:
		return "in_annex"
	default:
		return "unknown"
	}
}

// Block is a keyword and the lines it governs.
type Block struct {
	Keyword string
	Lines   []doctree.RawLine
}

// AnnexBlock is an annex heading and its flat text lines.
type AnnexBlock struct {
	Title string
	Lines []doctree.RawLine
}

// Result is the classified layout of one document.
type Result struct {
	Heading   []doctree.RawLine
	Formula   []doctree.RawLine
	Recitals  []Block
	Operative []Block // Keyword "" marks the unlabeled fallback section
	Annexes   []AnnexBlock
}

var (
	docHeading    = regexp.MustCompile(`^\s*(RESOLUTION|DECISION|RECOMMENDATION)\s+\d+`)
	formulaOpener = regexp.MustCompile(`(?i)^\s*the\s+(?:\S+\s+){0,3}(conference|assembly|council)\b`)
	annexUpper    = regexp.MustCompile(`^\s*(ANNEX|APPENDIX|ATTACHMENT)\b`)
	annexMixed    = regexp.MustCompile(`(?i)^\s*(annex|appendix|attachment)(?:\s+[0-9a-z]{1,4})?(?:\s+(?:to|of)\s+(?:resolution|decision|recommendation)\s+\d+(?:\s*\([^)]*\))?)?\s*(?:[:.–—-]\s*\S.*)?$`)
	firstNumbered = regexp.MustCompile(`^\s*1(?:[.)](?:\s|$)|\s*$|\s+\p{Ll})`)
)

// IsAnnexHeading reports whether a line opens an annex. A line ending in a
// clause separator continues a sentence and is never a heading.
func IsAnnexHeading(text string) bool {
	text = strings.TrimSpace(text)
	if strings.HasSuffix(text, ";") || strings.HasSuffix(text, ",") {
		return false
	}
	return annexUpper.MatchString(text) || annexMixed.MatchString(text)
}

// machine carries the scanner state between lines.
type machine struct {
	table *Table
	state State
	pre   []doctree.RawLine
	res   Result

	prevText    string
	prevKeyword bool
	seenLine    bool
}

// afterBreak reports whether the previous non-blank line closed a clause, so
// a keyword at the start of the current line begins a new group.
func (m *machine) afterBreak() bool {
	if !m.seenLine || m.prevKeyword {
		return true
	}
	return strings.ContainsAny(m.prevText[len(m.prevText)-1:], ".,;:")
}

// annexHeading applies IsAnnexHeading with the layout of the line. Outside
// an annex a mixed-case heading must be italic or follow a clause break, so
// a wrapped cross-reference in a paragraph stays body text.
func (m *machine) annexHeading(ln doctree.RawLine, text string) bool {
	if !IsAnnexHeading(text) {
		return false
	}
	if annexUpper.MatchString(text) || m.state == InAnnex || ln.Italic {
		return true
	}
	return m.afterBreak()
}

func (m *machine) appendLine(ln doctree.RawLine) {
	switch m.state {
	case BeforePreamble:
		m.pre = append(m.pre, ln)
	case InRecitalGroup:
		b := &m.res.Recitals[len(m.res.Recitals)-1]
		b.Lines = append(b.Lines, ln)
	case InOperativeSection:
		b := &m.res.Operative[len(m.res.Operative)-1]
		b.Lines = append(b.Lines, ln)
	case InAnnex:
		a := &m.res.Annexes[len(m.res.Annexes)-1]
		a.Lines = append(a.Lines, ln)
	}
}

// step advances the machine by one line. Transitions happen only on a
// keyword match or an annex heading.
func (m *machine) step(ln doctree.RawLine) {
	text := strings.TrimSpace(ln.Text)
	if text == "" {
		return
	}
	defer func() { m.prevText, m.seenLine = text, true }()

	if m.annexHeading(ln, text) {
		m.state = InAnnex
		m.res.Annexes = append(m.res.Annexes, AnnexBlock{Title: textutil.CollapseSpace(text)})
		m.prevKeyword = true
		return
	}

	if m.state != InAnnex {
		if match, ok := m.table.Match(ln, m.afterBreak()); ok {
			switch {
			case match.Keyword.Category == Operative:
				m.state = InOperativeSection
				m.res.Operative = append(m.res.Operative, Block{Keyword: match.Keyword.Text})
				m.openWith(match, ln)
				return
			case m.state != InOperativeSection:
				// Preamble keywords only open groups before the operative
				// part; afterwards they are ordinary body text.
				m.state = InRecitalGroup
				m.res.Recitals = append(m.res.Recitals, Block{Keyword: match.Keyword.Text})
				m.openWith(match, ln)
				return
			}
		}
	}

	m.prevKeyword = false
	m.appendLine(ln)
}

func (m *machine) openWith(match Match, ln doctree.RawLine) {
	m.prevKeyword = true
	if match.Rest != "" {
		m.appendLine(doctree.RawLine{Text: match.Rest, Page: ln.Page})
		m.prevKeyword = false
	}
}

// Classify scans the lines of one document. Warnings carry no document id;
// the caller fills it in.
func Classify(lines []doctree.RawLine, table *Table) (Result, []doctree.ClassificationWarning) {
	if table == nil {
		table = DefaultTable()
	}
	m := &machine{table: table}
	for _, ln := range lines {
		m.step(ln)
	}

	var warnings []doctree.ClassificationWarning
	m.res.Heading, m.res.Formula = splitHeading(m.pre)

	if len(m.res.Operative) == 0 {
		warnings = append(warnings, doctree.ClassificationWarning{
			Kind:   doctree.WarnNoOperativeKeyword,
			Reason: "no operative keyword found; remainder treated as one unlabeled section",
		})
		m.res.fallbackSection()
	}
	return m.res, warnings
}

// splitHeading separates the document heading block from the enacting
// formula. The formula starts at the last line that opens like "The
// Plenipotentiary Conference ..."; without such a line only the leading
// kind/number line is dropped.
func splitHeading(pre []doctree.RawLine) (heading, formula []doctree.RawLine) {
	opener := -1
	for i, ln := range pre {
		if formulaOpener.MatchString(ln.Text) {
			opener = i
		}
	}
	if opener >= 0 {
		return pre[:opener], pre[opener:]
	}
	i := 0
	for i < len(pre) && docHeading.MatchString(pre[i].Text) {
		i++
	}
	return pre[:i], pre[i:]
}

// fallbackSection builds the unlabeled operative section. Without recital
// groups the formula ends at its first line closing with "," or ":" and the
// rest of the pre-keyword text becomes the section. With recital groups the
// last group is split at its first line numbered 1.
func (r *Result) fallbackSection() {
	if len(r.Recitals) == 0 {
		end := -1
		for i, ln := range r.Formula {
			t := strings.TrimSpace(ln.Text)
			if strings.HasSuffix(t, ",") || strings.HasSuffix(t, ":") {
				end = i
				break
			}
		}
		if end < 0 || end+1 >= len(r.Formula) {
			return
		}
		body := r.Formula[end+1:]
		r.Formula = r.Formula[:end+1]
		r.Operative = append(r.Operative, Block{Lines: body})
		return
	}

	last := &r.Recitals[len(r.Recitals)-1]
	for i, ln := range last.Lines {
		if firstNumbered.MatchString(ln.Text) {
			r.Operative = append(r.Operative, Block{Lines: last.Lines[i:]})
			last.Lines = last.Lines[:i]
			return
		}
	}
}
