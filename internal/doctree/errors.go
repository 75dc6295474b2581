package doctree

import "fmt"

// StructureError means document boundaries could not be established.
// It aborts the whole run.
type StructureError struct {
	Op     string // "toc", "segment"
	Page   int    // 0 if not tied to a page
	Reason string
}

func (e *StructureError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("%s: page %d: %s", e.Op, e.Page, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// AssemblyError means a single document could not be built.
// Other documents in the batch are unaffected.
type AssemblyError struct {
	DocumentID string
	Reason     string
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("assemble %s: %s", e.DocumentID, e.Reason)
}

// WarningKind classifies non-fatal conditions.
type WarningKind string

const (
	WarnNoOperativeKeyword WarningKind = "no_operative_keyword"
	WarnParagraphSequence  WarningKind = "paragraph_sequence"
	WarnSubParagraphStyle  WarningKind = "subparagraph_style"
	WarnEmptySection       WarningKind = "empty_section"
)

// ClassificationWarning records a recovered ambiguity.
type ClassificationWarning struct {
	DocumentID string      `json:"document_id,omitempty"`
	Kind       WarningKind `json:"kind"`
	Page       int         `json:"page,omitempty"`
	Line       string      `json:"line,omitempty"`
	Reason     string      `json:"reason"`
}

func (w ClassificationWarning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("%s: %s (page %d): %s", w.DocumentID, w.Kind, w.Page, w.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", w.DocumentID, w.Kind, w.Reason)
}
