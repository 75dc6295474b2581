// Package toc locates the embedded table of contents and turns it into
// ordered document page ranges.
package toc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dgallion1/akngest/internal/doctree"
	"github.com/dgallion1/akngest/internal/textutil"
)

// Options tunes TOC detection.
type Options struct {
	// PageOffset is added to every printed page number to obtain the
	// stream page number.
	PageOffset int
	// MaxScanPages bounds the search for the TOC heading.
	MaxScanPages int
	// Heading overrides the TOC heading pattern.
	Heading *regexp.Regexp
	// MaxWrap is the number of continuation lines an entry may span.
	MaxWrap int
}

// DefaultOptions returns the settings used for ITU Final Acts.
func DefaultOptions() Options {
	return Options{MaxScanPages: 40, MaxWrap: 4}
}

var (
	defaultHeading = regexp.MustCompile(`(?i)^\s*(table\s+of\s+)?contents\s*$`)
	contHeading    = regexp.MustCompile(`(?i)^\s*(table\s+of\s+)?contents\b`)
	entryStart     = regexp.MustCompile(`^\s*(RESOLUTION|DECISION|RECOMMENDATION)\s+(\d+)\b\s*(.*)$`)
	partLine       = regexp.MustCompile(`^\s*PART\s+([IVXLC]+)\s*[–—-]\s*(.*?)\s*$`)
	pageTail       = regexp.MustCompile(`^(.*?)(?:\s*[.…]{2,}\s*|\s+)(\d{1,4})\s*$`)
	pageOnly       = regexp.MustCompile(`^\s*[.…]*\s*(\d{1,4})\s*$`)
	revisionPrefix = regexp.MustCompile(`^\(([^)]+)\)\s*`)
	leadingDash    = regexp.MustCompile(`^[–—-]\s*`)
	trailingDots   = regexp.MustCompile(`[\s.…]+$`)
)

type rawEntry struct {
	kind    doctree.DocKind
	number  int
	text    []string
	printed int
	part    string
	page    int
	line    string
}

// Parse locates the TOC block and returns its entries with page ranges.
func Parse(pages []doctree.Page, opts Options) ([]doctree.TOCEntry, error) {
	if len(pages) == 0 {
		return nil, &doctree.StructureError{Op: "toc", Reason: "empty page stream"}
	}
	if opts.MaxScanPages <= 0 {
		opts.MaxScanPages = 40
	}
	if opts.MaxWrap <= 0 {
		opts.MaxWrap = 4
	}
	heading := opts.Heading
	if heading == nil {
		heading = defaultHeading
	}

	pageIdx, lineIdx := findHeading(pages, heading, opts.MaxScanPages)
	if pageIdx < 0 {
		return nil, &doctree.StructureError{Op: "toc", Reason: "table of contents not found"}
	}

	part := ""
	first, part, err := parseBlock(pages[pageIdx].Lines[lineIdx+1:], pages[pageIdx].Number, part, opts.MaxWrap)
	if err != nil {
		return nil, err
	}
	raw := first

	// Following pages belong to the TOC while they carry complete entries or
	// repeat the contents heading. A body page opening with a document
	// heading has neither.
	for i := pageIdx + 1; i < len(pages); i++ {
		entries, nextPart, err := parseBlock(pages[i].Lines, pages[i].Number, part, opts.MaxWrap)
		if len(entries) == 0 && !continuesTOC(pages[i]) {
			break
		}
		if err != nil {
			return nil, err
		}
		raw = append(raw, entries...)
		part = nextPart
	}

	if len(raw) == 0 {
		return nil, &doctree.StructureError{Op: "toc", Page: pages[pageIdx].Number, Reason: "table of contents has no entries"}
	}

	return resolveRanges(raw, pages, opts.PageOffset)
}

// continuesTOC reports whether the page opens with a repeated contents
// heading such as "Table of contents (cont.)".
func continuesTOC(page doctree.Page) bool {
	for _, ln := range page.Lines {
		if textutil.IsBlank(ln.Text) {
			continue
		}
		return contHeading.MatchString(ln.Text)
	}
	return false
}

func findHeading(pages []doctree.Page, heading *regexp.Regexp, limit int) (int, int) {
	for i := 0; i < len(pages) && i < limit; i++ {
		for j, ln := range pages[i].Lines {
			if heading.MatchString(ln.Text) {
				return i, j
			}
		}
	}
	return -1, -1
}

// parseBlock extracts entries from one page of TOC lines. It returns the
// complete entries and the part in effect at the end of the page. An entry
// whose page number never appears yields a StructureError; scanning goes on
// past it so the caller still sees the complete entries of the page.
func parseBlock(lines []doctree.RawLine, page int, part string, maxWrap int) ([]*rawEntry, string, error) {
	var (
		out      []*rawEntry
		pending  *rawEntry
		wrapped  int
		firstErr error
	)

	missing := func(e *rawEntry) {
		if firstErr == nil {
			firstErr = &doctree.StructureError{
				Op:     "toc",
				Page:   e.page,
				Reason: fmt.Sprintf("entry %q is missing a page number", strings.TrimSpace(e.line)),
			}
		}
	}

	for _, ln := range lines {
		text := strings.TrimSpace(ln.Text)
		if text == "" {
			continue
		}

		if m := partLine.FindStringSubmatch(text); m != nil {
			if pending != nil {
				missing(pending)
				pending = nil
			}
			part = textutil.CollapseSpace(m[2])
			continue
		}

		if m := entryStart.FindStringSubmatch(text); m != nil {
			if pending != nil {
				missing(pending)
				pending = nil
			}
			kind, err := doctree.ParseDocKind(m[1])
			if err != nil {
				continue
			}
			n, _ := strconv.Atoi(m[2])
			e := &rawEntry{kind: kind, number: n, part: part, page: page, line: text}
			if rest := strings.TrimSpace(m[3]); rest != "" {
				e.text = append(e.text, rest)
			}
			if e.takePageTail() {
				out = append(out, e)
				continue
			}
			pending, wrapped = e, 0
			continue
		}

		if pending == nil {
			// Running headers, column captions, roman page numbers.
			continue
		}

		if m := pageOnly.FindStringSubmatch(text); m != nil {
			pending.printed, _ = strconv.Atoi(m[1])
			out = append(out, pending)
			pending = nil
			continue
		}

		wrapped++
		if wrapped > maxWrap {
			missing(pending)
			pending = nil
			continue
		}
		pending.text = append(pending.text, text)
		if pending.takePageTail() {
			out = append(out, pending)
			pending = nil
		}
	}

	if pending != nil {
		missing(pending)
	}
	return out, part, firstErr
}

// takePageTail moves a trailing page number from the last text line into
// printed. It reports whether the entry is now complete.
func (r *rawEntry) takePageTail() bool {
	if len(r.text) == 0 {
		return false
	}
	last := r.text[len(r.text)-1]
	m := pageTail.FindStringSubmatch(last)
	if m == nil {
		return false
	}
	r.printed, _ = strconv.Atoi(m[2])
	r.text[len(r.text)-1] = m[1]
	return true
}

func (r *rawEntry) entry() doctree.TOCEntry {
	joined := textutil.CollapseSpace(strings.Join(r.text, " "))
	e := doctree.TOCEntry{Kind: r.kind, Number: r.number, Part: r.part}
	if m := revisionPrefix.FindStringSubmatch(joined); m != nil {
		e.Revision = strings.TrimSpace(m[1])
		joined = joined[len(m[0]):]
	}
	joined = leadingDash.ReplaceAllString(joined, "")
	e.Title = strings.TrimSpace(trailingDots.ReplaceAllString(joined, ""))
	return e
}

// resolveRanges maps printed pages to stream pages and derives end pages.
func resolveRanges(raw []*rawEntry, pages []doctree.Page, offset int) ([]doctree.TOCEntry, error) {
	firstPage := pages[0].Number
	finalPage := pages[len(pages)-1].Number

	entries := make([]doctree.TOCEntry, len(raw))
	for i, r := range raw {
		e := r.entry()
		e.StartPage = r.printed + offset
		if e.StartPage < firstPage || e.StartPage > finalPage {
			return nil, &doctree.StructureError{
				Op:     "toc",
				Page:   r.page,
				Reason: fmt.Sprintf("%s starts on page %d, outside pages %d-%d", e.Ref(), e.StartPage, firstPage, finalPage),
			}
		}
		if i > 0 && e.StartPage <= entries[i-1].StartPage {
			return nil, &doctree.StructureError{
				Op:   "toc",
				Page: r.page,
				Reason: fmt.Sprintf("inconsistent order: %s starts on page %d, not after %s on page %d",
					e.Ref(), e.StartPage, entries[i-1].Ref(), entries[i-1].StartPage),
			}
		}
		entries[i] = e
	}

	for i := range entries {
		if i+1 < len(entries) {
			entries[i].EndPage = entries[i+1].StartPage - 1
		} else {
			entries[i].EndPage = finalPage
		}
	}
	return entries, nil
}
