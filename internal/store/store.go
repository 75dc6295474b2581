// Package store keeps a history of conversion runs and the documents each
// produced.
package store

import (
	"context"
	"time"

	"github.com/dgallion1/akngest/internal/builder"
	"github.com/dgallion1/akngest/internal/doctree"
)

// Run statuses.
const (
	RunCompleted = "completed"
	RunPartial   = "partial"
	RunFailed    = "failed"
)

// Run is one conversion of one source file.
type Run struct {
	ID          string          `json:"id"`
	Source      string          `json:"source"`
	ContentHash string          `json:"content_hash,omitempty"`
	Status      string          `json:"status"`
	Error       string          `json:"error,omitempty"`
	Summary     builder.Summary `json:"summary"`
	StartedAt   time.Time       `json:"started_at"`
	FinishedAt  time.Time       `json:"finished_at"`
}

// DocumentRecord is the outcome for one TOC entry of a run.
type DocumentRecord struct {
	RunID      string `json:"run_id"`
	DocumentID string `json:"document_id"`
	Title      string `json:"title,omitempty"`
	Part       string `json:"part,omitempty"`
	OK         bool   `json:"ok"`
	Reason     string `json:"reason,omitempty"`
	Warnings   int    `json:"warnings"`
}

// History persists runs.
type History interface {
	// SaveRun upserts the run and replaces its document records.
	SaveRun(ctx context.Context, run Run, docs []DocumentRecord) error

	// GetRun returns a run and its documents, or (nil, nil, nil) if unknown.
	GetRun(ctx context.Context, id string) (*Run, []DocumentRecord, error)

	// ListRuns returns the most recent runs first.
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	Close() error
}

// Records lists built documents then failures, with per-document warning
// counts.
func Records(runID string, docs []*doctree.Document, failures []*doctree.AssemblyError, warnings []doctree.ClassificationWarning) []DocumentRecord {
	perDoc := make(map[string]int)
	for _, w := range warnings {
		perDoc[w.DocumentID]++
	}
	out := make([]DocumentRecord, 0, len(docs)+len(failures))
	for _, d := range docs {
		out = append(out, DocumentRecord{
			RunID: runID, DocumentID: d.ID, Title: d.Title, Part: d.Part,
			OK: true, Warnings: perDoc[d.ID],
		})
	}
	for _, f := range failures {
		out = append(out, DocumentRecord{
			RunID: runID, DocumentID: f.DocumentID,
			Reason: f.Reason, Warnings: perDoc[f.DocumentID],
		})
	}
	return out
}

// StatusFor derives a run status from its outcome.
func StatusFor(documents, failed int) string {
	switch {
	case documents == 0:
		return RunFailed
	case failed > 0:
		return RunPartial
	default:
		return RunCompleted
	}
}
