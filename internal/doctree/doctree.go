package doctree

import (
	"fmt"
	"strings"
)

// DocKind identifies the type of a deliberative document.
type DocKind int

const (
	KindUnknown DocKind = iota
	Decision
	Resolution
	Recommendation
)

func (k DocKind) String() string {
	switch k {
	case Decision:
		return "Decision"
	case Resolution:
		return "Resolution"
	case Recommendation:
		return "Recommendation"
	default:
		return "Unknown"
	}
}

// Abbrev is the three-letter form used in ids and IRIs ("res", "dec", "rec").
func (k DocKind) Abbrev() string {
	switch k {
	case Decision:
		return "dec"
	case Resolution:
		return "res"
	case Recommendation:
		return "rec"
	default:
		return "doc"
	}
}

// RefPrefix is the running-header form, e.g. "Res.".
func (k DocKind) RefPrefix() string {
	switch k {
	case Decision:
		return "Dec."
	case Resolution:
		return "Res."
	case Recommendation:
		return "Rec."
	default:
		return ""
	}
}

// ParseDocKind maps a TOC word (any case) to a DocKind.
func ParseDocKind(s string) (DocKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DECISION":
		return Decision, nil
	case "RESOLUTION":
		return Resolution, nil
	case "RECOMMENDATION":
		return Recommendation, nil
	}
	return KindUnknown, fmt.Errorf("unknown document kind %q", s)
}

// RawLine is a single line of text as delivered by a line source.
type RawLine struct {
	Text   string
	Page   int
	Italic bool
}

// Page is an ordered sequence of lines. Numbers are 1-based and contiguous.
type Page struct {
	Number int
	Lines  []RawLine
}

// TOCEntry describes one document listed in the table of contents.
type TOCEntry struct {
	Kind      DocKind
	Number    int
	Revision  string // e.g. "REV. DUBAI, 2018"; empty for new texts
	Title     string
	Part      string // e.g. "DECISIONS"
	StartPage int
	EndPage   int
}

// ID returns the document identifier, e.g. "res_2".
func (e TOCEntry) ID() string {
	return DocumentID(e.Kind, e.Number)
}

// Ref returns the running-header reference, e.g. "Res. 2".
func (e TOCEntry) Ref() string {
	return fmt.Sprintf("%s %d", e.Kind.RefPrefix(), e.Number)
}

// ListStyle is the numbering style of sub-paragraphs within one paragraph.
type ListStyle int

const (
	StyleNone ListStyle = iota
	StyleDecimal
	StyleLettered
)

func (s ListStyle) String() string {
	switch s {
	case StyleDecimal:
		return "decimal"
	case StyleLettered:
		return "lettered"
	default:
		return "none"
	}
}

// Recital is a single considering/noting/recalling clause.
type Recital struct {
	ID           string
	GroupKeyword string
	Sequence     int    // 1-based position within its group
	Label        string // "a)", "b)", or empty for intro text
	Text         string
}

// RecitalGroup is a keyword and the recitals that follow it.
type RecitalGroup struct {
	ID       string
	Keyword  string
	Recitals []Recital
}

// Preamble holds the enacting formula and recital groups of a document.
type Preamble struct {
	EnactingFormula string
	Groups          []RecitalGroup
}

// SubParagraph is a decimal ("1.1") or lettered ("a)") item within a paragraph.
type SubParagraph struct {
	ID          string
	NumberLabel string // "1" for 1.1, "a" for a)
	Style       ListStyle
	Text        string
}

// DisplayLabel returns the label as printed, e.g. "1.2" or "b)".
func (s SubParagraph) DisplayLabel(parent int) string {
	if s.Style == StyleDecimal {
		return fmt.Sprintf("%d.%s", parent, s.NumberLabel)
	}
	return s.NumberLabel + ")"
}

// Paragraph is a numbered operative paragraph. Number 0 is the unnumbered
// lead-in text of a section.
type Paragraph struct {
	ID            string
	Number        int
	Text          string
	SubParagraphs []SubParagraph
}

// OperativeSection groups the paragraphs following one operative keyword.
// An empty Keyword marks the unlabeled fallback section.
type OperativeSection struct {
	ID         string
	Keyword    string
	Paragraphs []Paragraph
}

// Annex is flat annex text.
type Annex struct {
	Title string
	Text  string
}

// Document is one resolution, decision or recommendation.
type Document struct {
	ID        string
	Kind      DocKind
	Number    int
	Revision  string
	Title     string
	Part      string
	StartPage int
	EndPage   int
	Preamble  Preamble
	Sections  []OperativeSection
	Annexes   []Annex
}

// Conference carries the metadata of the issuing conference.
type Conference struct {
	Name     string // "Plenipotentiary Conference"
	Location string // "Dubai"
	Year     int
	Date     string // adoption date, YYYY-MM-DD
	Actor    string // "itu-pp"
}

// DefaultConference describes PP-18.
func DefaultConference() Conference {
	return Conference{
		Name:     "Plenipotentiary Conference",
		Location: "Dubai",
		Year:     2018,
		Date:     "2018-11-15",
		Actor:    "itu-pp",
	}
}

// Collection is the root artifact: every document in TOC order.
type Collection struct {
	Conference Conference
	Documents  []*Document
}

// Parts returns the distinct part names in first-seen order.
func (c *Collection) Parts() []string {
	seen := make(map[string]bool)
	var parts []string
	for _, d := range c.Documents {
		if !seen[d.Part] {
			seen[d.Part] = true
			parts = append(parts, d.Part)
		}
	}
	return parts
}

// Document looks up a document by id.
func (c *Collection) Document(id string) *Document {
	for _, d := range c.Documents {
		if d.ID == id {
			return d
		}
	}
	return nil
}
