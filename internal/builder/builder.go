// Package builder assembles typed Documents from segmented line lists.
package builder

import (
	"context"
	"fmt"
	"sync"

	"github.com/dgallion1/akngest/internal/classify"
	"github.com/dgallion1/akngest/internal/doctree"
	"github.com/dgallion1/akngest/internal/paragraph"
	"github.com/dgallion1/akngest/internal/segment"
	"github.com/dgallion1/akngest/internal/textutil"
)

// Options controls document assembly.
type Options struct {
	Table  *classify.Table // nil means classify.DefaultTable()
	Policy paragraph.Policy
}

// Build assembles one document. Warnings carry the document id. An
// *doctree.AssemblyError is returned when the segment holds no text.
func Build(seg segment.Segment, opts Options) (*doctree.Document, []doctree.ClassificationWarning, error) {
	e := seg.Entry
	id := e.ID()
	if !hasText(seg.Lines) {
		return nil, nil, &doctree.AssemblyError{DocumentID: id, Reason: "segment has no text"}
	}

	res, warnings := classify.Classify(seg.Lines, opts.Table)

	doc := &doctree.Document{
		ID:        id,
		Kind:      e.Kind,
		Number:    e.Number,
		Revision:  textutil.Sanitize(e.Revision),
		Title:     textutil.Sanitize(e.Title),
		Part:      textutil.Sanitize(e.Part),
		StartPage: e.StartPage,
		EndPage:   e.EndPage,
	}
	doc.Preamble.EnactingFormula = joinSanitized(res.Formula)

	groupSeen := make(map[string]int)
	for _, b := range res.Recitals {
		slug := doctree.Slug(b.Keyword)
		groupSeen[slug]++
		g := doctree.RecitalGroup{
			ID:      doctree.RecitalsID(b.Keyword, groupSeen[slug]),
			Keyword: textutil.Sanitize(b.Keyword),
		}
		for i, r := range paragraph.Recitals(b.Lines) {
			g.Recitals = append(g.Recitals, doctree.Recital{
				ID:           doctree.RecitalID(g.ID, i+1),
				GroupKeyword: g.Keyword,
				Sequence:     i + 1,
				Label:        r.Label,
				Text:         textutil.Sanitize(r.Text),
			})
		}
		doc.Preamble.Groups = append(doc.Preamble.Groups, g)
	}

	sectionSeen := make(map[string]int)
	for _, b := range res.Operative {
		slug := doctree.Slug(b.Keyword)
		sectionSeen[slug]++
		sec := doctree.OperativeSection{
			ID:      doctree.SectionID(b.Keyword, sectionSeen[slug]),
			Keyword: textutil.Sanitize(b.Keyword),
		}
		drafts, w := paragraph.Segment(b.Lines, opts.Policy)
		warnings = append(warnings, w...)
		if len(drafts) == 0 {
			warnings = append(warnings, doctree.ClassificationWarning{
				Kind:   doctree.WarnEmptySection,
				Line:   b.Keyword,
				Reason: "operative section has no text",
			})
		}
		for _, d := range drafts {
			sec.Paragraphs = append(sec.Paragraphs, paragraphFrom(sec.ID, d))
		}
		doc.Sections = append(doc.Sections, sec)
	}

	for _, a := range res.Annexes {
		doc.Annexes = append(doc.Annexes, doctree.Annex{
			Title: textutil.Sanitize(a.Title),
			Text:  joinSanitized(a.Lines),
		})
	}

	for i := range warnings {
		warnings[i].DocumentID = id
		warnings[i].Line = textutil.Sanitize(warnings[i].Line)
	}
	return doc, warnings, nil
}

func paragraphFrom(sectionID string, d paragraph.Draft) doctree.Paragraph {
	p := doctree.Paragraph{
		ID:     doctree.ParagraphID(sectionID, d.Number),
		Number: d.Number,
		Text:   textutil.Sanitize(d.Text),
	}
	for _, s := range d.Subs {
		p.SubParagraphs = append(p.SubParagraphs, doctree.SubParagraph{
			ID:          doctree.PointID(p.ID, d.Number, s.Label, s.Style),
			NumberLabel: s.Label,
			Style:       s.Style,
			Text:        textutil.Sanitize(s.Text),
		})
	}
	return p
}

func hasText(lines []doctree.RawLine) bool {
	for _, ln := range lines {
		if !textutil.IsBlank(ln.Text) {
			return true
		}
	}
	return false
}

func joinSanitized(lines []doctree.RawLine) string {
	texts := make([]string, len(lines))
	for i, ln := range lines {
		texts[i] = ln.Text
	}
	return textutil.Sanitize(textutil.JoinLines(texts))
}

// Result is the outcome of a batch build. Documents keep TOC order; a
// document that failed to assemble is absent and listed in Failures.
type Result struct {
	Documents []*doctree.Document
	Warnings  []doctree.ClassificationWarning
	Failures  []*doctree.AssemblyError
}

type buildOutput struct {
	doc      *doctree.Document
	warnings []doctree.ClassificationWarning
	err      *doctree.AssemblyError
}

// BuildAll assembles every segment with at most workers goroutines. Segments
// are independent, so an AssemblyError only removes its own document.
// Segments not started before ctx is cancelled are reported as failures.
func BuildAll(ctx context.Context, segs []segment.Segment, opts Options, workers int) Result {
	if workers < 1 {
		workers = 1
	}
	if opts.Table == nil {
		opts.Table = classify.DefaultTable()
	}

	outputs := make([]buildOutput, len(segs))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, seg := range segs {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			outputs[i].err = &doctree.AssemblyError{DocumentID: seg.Entry.ID(), Reason: ctx.Err().Error()}
			continue
		}
		wg.Add(1)
		go func(i int, seg segment.Segment) {
			defer wg.Done()
			defer func() { <-sem }()
			outputs[i] = buildOne(seg, opts)
		}(i, seg)
	}
	wg.Wait()

	var res Result
	for _, o := range outputs {
		res.Warnings = append(res.Warnings, o.warnings...)
		if o.err != nil {
			res.Failures = append(res.Failures, o.err)
			continue
		}
		res.Documents = append(res.Documents, o.doc)
	}
	return res
}

// buildOne turns a panic in one document into that document's failure.
func buildOne(seg segment.Segment, opts Options) (out buildOutput) {
	defer func() {
		if r := recover(); r != nil {
			out = buildOutput{err: &doctree.AssemblyError{
				DocumentID: seg.Entry.ID(),
				Reason:     fmt.Sprintf("panic: %v", r),
			}}
		}
	}()
	doc, warnings, err := Build(seg, opts)
	if err != nil {
		ae, ok := err.(*doctree.AssemblyError)
		if !ok {
			ae = &doctree.AssemblyError{DocumentID: seg.Entry.ID(), Reason: err.Error()}
		}
		return buildOutput{warnings: warnings, err: ae}
	}
	return buildOutput{doc: doc, warnings: warnings}
}

// Summary counts what a batch produced.
type Summary struct {
	Documents     int `json:"documents"`
	Failed        int `json:"failed"`
	RecitalGroups int `json:"recital_groups"`
	Recitals      int `json:"recitals"`
	Sections      int `json:"sections"`
	Paragraphs    int `json:"paragraphs"`
	SubParagraphs int `json:"sub_paragraphs"`
	Annexes       int `json:"annexes"`
	Warnings      int `json:"warnings"`
}

// Summary computes the counts for r.
func (r Result) Summary() Summary {
	s := Summary{
		Documents: len(r.Documents),
		Failed:    len(r.Failures),
		Warnings:  len(r.Warnings),
	}
	for _, d := range r.Documents {
		s.Add(d)
	}
	return s
}

// Add counts the elements of one document.
func (s *Summary) Add(d *doctree.Document) {
	s.RecitalGroups += len(d.Preamble.Groups)
	for _, g := range d.Preamble.Groups {
		s.Recitals += len(g.Recitals)
	}
	s.Sections += len(d.Sections)
	for _, sec := range d.Sections {
		s.Paragraphs += len(sec.Paragraphs)
		for _, p := range sec.Paragraphs {
			s.SubParagraphs += len(p.SubParagraphs)
		}
	}
	s.Annexes += len(d.Annexes)
}

// Collection wraps the built documents with conference metadata.
func (r Result) Collection(conf doctree.Conference) *doctree.Collection {
	return &doctree.Collection{Conference: conf, Documents: r.Documents}
}
