// Package convert runs structure recovery end to end: table of contents,
// header stripping, segmentation, assembly and validation.
package convert

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dgallion1/akngest/internal/akn"
	"github.com/dgallion1/akngest/internal/builder"
	"github.com/dgallion1/akngest/internal/classify"
	"github.com/dgallion1/akngest/internal/config"
	"github.com/dgallion1/akngest/internal/doctree"
	"github.com/dgallion1/akngest/internal/header"
	"github.com/dgallion1/akngest/internal/paragraph"
	"github.com/dgallion1/akngest/internal/parser"
	"github.com/dgallion1/akngest/internal/segment"
	"github.com/dgallion1/akngest/internal/stats"
	"github.com/dgallion1/akngest/internal/toc"
	"github.com/dgallion1/akngest/internal/validate"
)

// Options configures a run.
type Options struct {
	TOC          toc.Options
	HeaderWindow int
	Build        builder.Options
	// Workers bounds concurrent document assembly.
	Workers    int
	Conference doctree.Conference
	// PDFFallback lets the PDF parser shell out to pdftotext.
	PDFFallback bool
}

// DefaultOptions returns the settings for the PP-18 Final Acts.
func DefaultOptions() Options {
	return Options{
		TOC:          toc.DefaultOptions(),
		HeaderWindow: header.DefaultWindow,
		Build:        builder.Options{Table: classify.DefaultTable(), Policy: paragraph.Strict},
		Workers:      8,
		Conference:   doctree.DefaultConference(),
	}
}

// FromConfig builds Options from the environment configuration, loading the
// keyword file when one is set.
func FromConfig(cfg config.Config) (Options, error) {
	opts := DefaultOptions()
	opts.TOC.PageOffset = cfg.TOCPageOffset
	opts.HeaderWindow = cfg.HeaderWindow
	opts.Workers = cfg.BuildConcurrency
	opts.Conference = cfg.Conference
	opts.PDFFallback = cfg.PDFFallbackPdftotext

	policy, err := paragraph.ParsePolicy(cfg.ParagraphPolicy)
	if err != nil {
		return opts, err
	}
	opts.Build.Policy = policy

	if cfg.KeywordsFile != "" {
		table, err := LoadKeywords(cfg.KeywordsFile)
		if err != nil {
			return opts, err
		}
		opts.Build.Table = table
	}
	return opts, nil
}

// LoadKeywords reads a YAML keyword file.
func LoadKeywords(path string) (*classify.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open keyword file: %w", err)
	}
	defer f.Close()
	return classify.LoadTable(f)
}

// Structured is the page stream cut into per-document segments.
type Structured struct {
	Entries  []doctree.TOCEntry
	Segments []segment.Segment
}

// Structure locates the documents. Any error is a *doctree.StructureError
// and aborts the run.
func Structure(pages []doctree.Page, opts Options) (*Structured, error) {
	entries, err := toc.Parse(pages, opts.TOC)
	if err != nil {
		return nil, fmt.Errorf("structure: %w", err)
	}
	clean := header.Strip(pages, entries, opts.HeaderWindow)
	segs, err := segment.Split(clean, entries)
	if err != nil {
		return nil, fmt.Errorf("structure: %w", err)
	}
	return &Structured{Entries: entries, Segments: segs}, nil
}

// Result is the outcome of a run.
type Result struct {
	Collection *doctree.Collection
	Entries    []doctree.TOCEntry
	Warnings   []doctree.ClassificationWarning
	Failures   []*doctree.AssemblyError
	Summary    builder.Summary
	// Timings holds stage durations keyed by stats stage name.
	Timings map[string]time.Duration
}

// Assemble builds and validates every segment. A document that fails
// validation is dropped and reported as an AssemblyError.
func Assemble(ctx context.Context, st *Structured, opts Options, log *slog.Logger) *Result {
	br := builder.BuildAll(ctx, st.Segments, opts.Build, opts.Workers)

	table := opts.Build.Table
	if table == nil {
		table = classify.DefaultTable()
	}
	kept := br.Documents[:0]
	for _, d := range br.Documents {
		if err := validate.Err(validate.Document(d, table)); err != nil {
			br.Failures = append(br.Failures, &doctree.AssemblyError{DocumentID: d.ID, Reason: err.Error()})
			continue
		}
		kept = append(kept, d)
	}
	br.Documents = kept

	res := &Result{
		Collection: br.Collection(opts.Conference),
		Entries:    st.Entries,
		Warnings:   br.Warnings,
		Failures:   br.Failures,
		Summary:    br.Summary(),
		Timings:    make(map[string]time.Duration),
	}

	for _, w := range res.Warnings {
		log.Warn("classification warning", "document", w.DocumentID, "kind", string(w.Kind), "page", w.Page, "reason", w.Reason)
	}
	for _, f := range res.Failures {
		log.Error("document failed", "document", f.DocumentID, "reason", f.Reason)
	}
	s := res.Summary
	log.Info("conversion summary",
		"documents", s.Documents, "failed", s.Failed,
		"recitals", s.Recitals, "sections", s.Sections,
		"paragraphs", s.Paragraphs, "sub_paragraphs", s.SubParagraphs,
		"warnings", s.Warnings)
	return res
}

// Run converts a page stream. It fails only with a StructureError or when
// ctx is cancelled; per-document problems are in the Result.
func Run(ctx context.Context, pages []doctree.Page, opts Options, log *slog.Logger) (*Result, error) {
	start := time.Now()
	st, err := Structure(pages, opts)
	if err != nil {
		return nil, err
	}
	structured := time.Now()

	res := Assemble(ctx, st, opts, log)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}
	res.Timings[stats.StageStructure] = structured.Sub(start)
	res.Timings[stats.StageBuild] = time.Since(structured)
	return res, nil
}

// Parse reads a source file into pages with the parser for its extension.
func Parse(r io.Reader, filename string, opts Options) ([]doctree.Page, error) {
	p, err := parser.ForFile(filename)
	if err != nil {
		return nil, err
	}
	if pp, ok := p.(*parser.PDFParser); ok {
		pp.FallbackPdftotext = opts.PDFFallback
	}
	pages, err := p.Parse(r, filename)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(filename), err)
	}
	return pages, nil
}

// ConvertFile parses the file at path and runs the conversion.
func ConvertFile(ctx context.Context, path string, opts Options, log *slog.Logger) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	start := time.Now()
	pages, err := Parse(f, path, opts)
	if err != nil {
		return nil, err
	}
	parsed := time.Since(start)

	res, err := Run(ctx, pages, opts, log.With("file", filepath.Base(path)))
	if err != nil {
		return nil, err
	}
	res.Timings[stats.StageParse] = parsed
	return res, nil
}

// WriteOutputs writes the collection file into dir and, when individual is
// set, one statement file per document. It returns the written paths.
func WriteOutputs(dir string, res *Result, individual bool, opts akn.Options) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	data, err := akn.MarshalCollection(res.Collection, opts)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, akn.CollectionFilename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write collection: %w", err)
	}
	written := []string{path}

	if !individual {
		return written, nil
	}
	for _, d := range res.Collection.Documents {
		data, err := akn.MarshalDocument(d, res.Collection.Conference, opts)
		if err != nil {
			return written, fmt.Errorf("%s: %w", d.ID, err)
		}
		path := filepath.Join(dir, akn.DocumentFilename(d))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", d.ID, err)
		}
		written = append(written, path)
	}
	return written, nil
}
