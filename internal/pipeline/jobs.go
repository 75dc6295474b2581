package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/akngest/internal/builder"
	"github.com/dgallion1/akngest/internal/convert"
	"github.com/dgallion1/akngest/internal/doctree"
)

// JobStatus represents the state of a conversion job.
type JobStatus string

const (
	StatusQueued      JobStatus = "queued"
	StatusParsing     JobStatus = "parsing"
	StatusStructuring JobStatus = "structuring"
	StatusBuilding    JobStatus = "building"
	StatusSerializing JobStatus = "serializing"
	StatusPublishing  JobStatus = "publishing"
	StatusCompleted   JobStatus = "completed"
	StatusFailed      JobStatus = "failed"
	StatusPartial     JobStatus = "partial"
)

// Done reports whether the status is terminal.
func (s JobStatus) Done() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusPartial
}

// Job tracks the state of a single source file conversion.
type Job struct {
	mu sync.Mutex

	ID       string    `json:"job_id"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData      []byte
	result        *convert.Result
	collectionXML []byte
	documentXML   map[string][]byte
	errors        []string
}

// Progress tracks processing progress.
type Progress struct {
	Pages     int      `json:"pages"`
	Entries   int      `json:"entries"`
	Documents int      `json:"documents"`
	Failed    int      `json:"failed"`
	Warnings  int      `json:"warnings"`
	Published int      `json:"published"`
	Errors    []string `json:"errors"`
}

// NewJob creates a queued job for an uploaded file.
func NewJob(filename string, data []byte) *Job {
	now := time.Now()
	return &Job{
		ID:        generateULID(),
		Status:    StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		CreatedAt: now,
		UpdatedAt: now,
		fileData:  data,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// CurrentStatus returns the status under the job lock.
func (j *Job) CurrentStatus() JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.Status
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetPages records how many pages the parser produced.
func (j *Job) SetPages(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Pages = n
	j.UpdatedAt = time.Now()
}

// SetEntries records how many TOC entries were found.
func (j *Job) SetEntries(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Entries = n
	j.UpdatedAt = time.Now()
}

// IncrPublished atomically increments the published document count.
func (j *Job) IncrPublished() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Published++
	j.UpdatedAt = time.Now()
}

// SetResult stores the conversion result and its counts.
func (j *Job) SetResult(res *convert.Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = res
	j.Progress.Documents = res.Summary.Documents
	j.Progress.Failed = res.Summary.Failed
	j.Progress.Warnings = res.Summary.Warnings
	j.UpdatedAt = time.Now()
}

// Result returns the conversion result, or nil before the build phase.
func (j *Job) Result() *convert.Result {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// SetMarkup stores the serialized collection and per-document statements.
func (j *Job) SetMarkup(collection []byte, documents map[string][]byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.collectionXML = collection
	j.documentXML = documents
	j.UpdatedAt = time.Now()
}

// CollectionXML returns the serialized collection, or nil.
func (j *Job) CollectionXML() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.collectionXML
}

// DocumentXML returns the serialized statement of one document.
func (j *Job) DocumentXML(id string) ([]byte, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	b, ok := j.documentXML[id]
	return b, ok
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string                          `json:"job_id"`
	Status      JobStatus                       `json:"status"`
	Phase       string                          `json:"phase"`
	Filename    string                          `json:"filename"`
	ContentHash string                          `json:"content_hash,omitempty"`
	Progress    Progress                        `json:"progress"`
	Summary     *builder.Summary                `json:"summary,omitempty"`
	Warnings    []doctree.ClassificationWarning `json:"warnings,omitempty"`
	Failures    []DocumentFailure               `json:"failures,omitempty"`
	CreatedAt   time.Time                       `json:"created_at"`
	UpdatedAt   time.Time                       `json:"updated_at"`
}

// DocumentFailure is the JSON form of an AssemblyError.
type DocumentFailure struct {
	DocumentID string `json:"document_id"`
	Reason     string `json:"reason"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.Progress.Errors...)
	progress := j.Progress
	progress.Errors = errs

	snap := JobSnapshot{
		ID:          j.ID,
		Status:      j.Status,
		Phase:       j.Phase,
		Filename:    j.Filename,
		ContentHash: j.ContentHash,
		Progress:    progress,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
	if res := j.result; res != nil {
		s := res.Summary
		snap.Summary = &s
		snap.Warnings = res.Warnings
		for _, f := range res.Failures {
			snap.Failures = append(snap.Failures, DocumentFailure{DocumentID: f.DocumentID, Reason: f.Reason})
		}
	}
	return snap
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
