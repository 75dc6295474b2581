package classify

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/akngest/internal/doctree"
)

// Category tells preamble keywords from operative ones.
type Category int

const (
	Preamble Category = iota + 1
	Operative
)

func (c Category) String() string {
	switch c {
	case Preamble:
		return "preamble"
	case Operative:
		return "operative"
	default:
		return "unknown"
	}
}

// Keyword is one curated keyword.
type Keyword struct {
	Text     string
	Category Category
}

// DefaultPreambleKeywords is the curated ITU preamble list.
var DefaultPreambleKeywords = []string{
	"considering further", "considering",
	"noting with satisfaction", "noting with concern", "noting further", "noting",
	"recalling further", "recalling",
	"recognizing further", "recognizing",
	"bearing in mind",
	"having examined", "having considered", "having regard", "having reviewed",
	"taking into account", "taking note",
	"aware", "conscious", "convinced", "concerned", "deeply concerned",
	"emphasizing", "affirming", "reaffirming", "acknowledging", "appreciating", "welcoming",
	"mindful", "determined", "expressing", "stressing", "underlining", "observing", "encouraged",
}

// DefaultOperativeKeywords is the curated ITU operative list.
var DefaultOperativeKeywords = []string{
	"resolves further", "resolves",
	"decides further", "decides",
	"instructs the Secretary-General", "instructs the Director", "instructs the ITU Council",
	"instructs the Council", "instructs the General Secretariat", "instructs",
	"further instructs the Secretary-General", "further instructs the Director",
	"further instructs the ITU Council", "further instructs the Council", "further instructs",
	"invites Member States", "invites Sector Members", "invites the Secretary-General",
	"invites the Director", "invites the ITU Council", "invites the Council", "invites",
	"requests the Secretary-General", "requests the Director", "requests the Council", "requests",
	"urges Member States", "urges",
	"encourages Member States", "encourages",
	"calls upon",
	"recommends",
	"authorizes the Secretary-General", "authorizes",
	"charges the Council", "charges",
	"appeals to",
}

// Table is an immutable keyword lookup sorted longest-first, so a specific
// phrase ("instructs the Secretary-General") always wins over its prefix
// ("instructs"). It is safe for concurrent use.
type Table struct {
	entries []Keyword
	index   map[string]Category
}

// NewTable builds a table from the two keyword sets. Duplicates are dropped;
// a keyword listed in both sets keeps its preamble category.
func NewTable(preamble, operative []string) *Table {
	t := &Table{index: make(map[string]Category)}
	add := func(words []string, c Category) {
		for _, w := range words {
			w = strings.Join(strings.Fields(w), " ")
			if w == "" {
				continue
			}
			key := strings.ToLower(w)
			if _, dup := t.index[key]; dup {
				continue
			}
			t.index[key] = c
			t.entries = append(t.entries, Keyword{Text: w, Category: c})
		}
	}
	add(preamble, Preamble)
	add(operative, Operative)

	sort.SliceStable(t.entries, func(i, j int) bool {
		a, b := t.entries[i].Text, t.entries[j].Text
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return strings.ToLower(a) < strings.ToLower(b)
	})
	return t
}

var defaultTable = NewTable(DefaultPreambleKeywords, DefaultOperativeKeywords)

// DefaultTable returns the shared table built from the curated lists.
func DefaultTable() *Table { return defaultTable }

// Keywords returns the entries in match order.
func (t *Table) Keywords() []Keyword {
	out := make([]Keyword, len(t.entries))
	copy(out, t.entries)
	return out
}

// Category reports the category of a keyword, matched case-insensitively.
func (t *Table) Category(keyword string) (Category, bool) {
	c, ok := t.index[strings.ToLower(keyword)]
	return c, ok
}

// Len returns the number of keywords.
func (t *Table) Len() int { return len(t.entries) }

// Match is a keyword recognized at the start of a line.
type Match struct {
	Keyword  Keyword
	Rest     string // text following the keyword on the same line
	Isolated bool   // keyword stands alone on its line
}

// Match reports the longest keyword that opens the line. The match is
// accepted when the keyword stands alone, when the line is italic, or when
// afterBreak says the previous line closed a clause; otherwise a keyword
// that merely starts a wrapped line of body text would split the section.
func (t *Table) Match(ln doctree.RawLine, afterBreak bool) (Match, bool) {
	text := normalizeForMatch(ln.Text)
	if text == "" {
		return Match{}, false
	}
	for _, kw := range t.entries {
		n := len(kw.Text)
		if len(text) < n || !strings.EqualFold(text[:n], kw.Text) {
			continue
		}
		if n < len(text) {
			r, _ := utf8.DecodeRuneInString(text[n:])
			if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
				continue
			}
		}
		rest := strings.TrimSpace(strings.TrimLeft(text[n:], " ,:;"))
		m := Match{Keyword: kw, Rest: rest, Isolated: strings.Trim(rest, ".") == ""}
		if m.Isolated || ln.Italic || afterBreak {
			return m, true
		}
		return Match{}, false
	}
	return Match{}, false
}

var dashReplacer = strings.NewReplacer("\u2010", "-", "\u2011", "-", "\u2012", "-", "\u2013", "-", "\u2014", "-", "\u00a0", " ")

func normalizeForMatch(s string) string {
	return strings.Join(strings.Fields(dashReplacer.Replace(s)), " ")
}

// tableFile is the YAML shape accepted by LoadTable.
type tableFile struct {
	// Replace discards the curated lists instead of extending them.
	Replace   bool     `yaml:"replace"`
	Preamble  []string `yaml:"preamble"`
	Operative []string `yaml:"operative"`
}

// LoadTable reads a YAML keyword file and returns the resulting table.
func LoadTable(r io.Reader) (*Table, error) {
	var f tableFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode keyword file: %w", err)
	}
	if f.Replace {
		if len(f.Preamble) == 0 || len(f.Operative) == 0 {
			return nil, fmt.Errorf("keyword file with replace: true must list preamble and operative keywords")
		}
		return NewTable(f.Preamble, f.Operative), nil
	}
	pre := append(append([]string{}, DefaultPreambleKeywords...), f.Preamble...)
	op := append(append([]string{}, DefaultOperativeKeywords...), f.Operative...)
	return NewTable(pre, op), nil
}

// WriteYAML writes the table as a keyword file with replace: true, so that
// LoadTable of the output yields the same table.
func (t *Table) WriteYAML(w io.Writer) error {
	f := tableFile{Replace: true}
	for _, k := range t.entries {
		switch k.Category {
		case Preamble:
			f.Preamble = append(f.Preamble, k.Text)
		case Operative:
			f.Operative = append(f.Operative, k.Text)
		}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode keyword file: %w", err)
	}
	return enc.Close()
}
