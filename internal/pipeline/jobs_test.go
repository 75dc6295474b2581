package pipeline

import (
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/akngest/internal/builder"
	"github.com/dgallion1/akngest/internal/convert"
	"github.com/dgallion1/akngest/internal/doctree"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_EmptyInput(t *testing.T) {
	h := ContentHashHex([]byte{})
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if h != want {
		t.Errorf("expected hash %q, got %q", want, h)
	}
}

func TestNewJob_Queued(t *testing.T) {
	job := NewJob("acts.pdf", []byte("x"))
	if len(job.ID) != 26 {
		t.Errorf("expected 26-char ULID, got %q", job.ID)
	}
	if job.Status != StatusQueued || string(job.FileData()) != "x" {
		t.Errorf("unexpected job %+v", job.Snapshot())
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{ID: "test-1", Status: StatusQueued, UpdatedAt: time.Now()}

	for _, status := range []JobStatus{
		StatusParsing, StatusStructuring, StatusBuilding,
		StatusSerializing, StatusPublishing, StatusCompleted,
	} {
		before := job.UpdatedAt
		time.Sleep(time.Millisecond)
		job.SetStatus(status, string(status))

		if job.CurrentStatus() != status {
			t.Errorf("expected status %q, got %q", status, job.Status)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", status)
		}
	}
	if !job.CurrentStatus().Done() {
		t.Error("completed should be terminal")
	}
	if StatusBuilding.Done() {
		t.Error("building should not be terminal")
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("publish res_2 failed")
	job.AddError("publish dec_5 failed")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "publish res_2 failed" {
		t.Errorf("unexpected first error %q", snap.Progress.Errors[0])
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	snap := (&Job{ID: "snap-test"}).Snapshot()
	if snap.Progress.Errors == nil || len(snap.Progress.Errors) != 0 {
		t.Errorf("expected empty non-nil errors, got %#v", snap.Progress.Errors)
	}
	if snap.Summary != nil {
		t.Error("expected no summary before build")
	}
}

func TestJob_SnapshotCarriesResult(t *testing.T) {
	job := &Job{ID: "res-test"}
	job.SetResult(&convert.Result{
		Collection: &doctree.Collection{},
		Warnings:   []doctree.ClassificationWarning{{DocumentID: "res_2", Kind: doctree.WarnEmptySection}},
		Failures:   []*doctree.AssemblyError{{DocumentID: "dec_5", Reason: "segment has no text"}},
		Summary:    builder.Summary{Documents: 3, Failed: 1, Warnings: 1},
	})
	job.IncrPublished()

	snap := job.Snapshot()
	if snap.Progress.Documents != 3 || snap.Progress.Failed != 1 || snap.Progress.Published != 1 {
		t.Errorf("progress = %+v", snap.Progress)
	}
	if snap.Summary == nil || snap.Summary.Documents != 3 {
		t.Fatalf("summary = %+v", snap.Summary)
	}
	if len(snap.Failures) != 1 || snap.Failures[0].DocumentID != "dec_5" {
		t.Errorf("failures = %+v", snap.Failures)
	}
}

func TestJob_Markup(t *testing.T) {
	job := &Job{ID: "xml-test"}
	job.SetMarkup([]byte("<c/>"), map[string][]byte{"res_2": []byte("<s/>")})
	if string(job.CollectionXML()) != "<c/>" {
		t.Errorf("collection = %q", job.CollectionXML())
	}
	if b, ok := job.DocumentXML("res_2"); !ok || string(b) != "<s/>" {
		t.Errorf("document = %q %v", b, ok)
	}
	if _, ok := job.DocumentXML("dec_5"); ok {
		t.Error("unexpected document")
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	store.Put(&Job{ID: "store-1", UpdatedAt: time.Now()})
	if got := store.Get("store-1"); got == nil || got.ID != "store-1" {
		t.Fatalf("expected to get job back, got %v", got)
	}
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)
	store.Put(&Job{ID: "old", UpdatedAt: time.Now()})

	time.Sleep(100 * time.Millisecond)
	store.Put(&Job{ID: "new", UpdatedAt: time.Now()})
	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestGenerateULID_SortsInCreationOrder(t *testing.T) {
	prev := ""
	for i := 0; i < 200; i++ {
		id := generateULID()
		if len(id) != 26 {
			t.Fatalf("bad length %q", id)
		}
		if strings.Trim(id, crockford) != "" {
			t.Fatalf("non-crockford character in %q", id)
		}
		if id <= prev {
			t.Fatalf("%q not after %q", id, prev)
		}
		prev = id
	}
}

func TestEncode_KnownValue(t *testing.T) {
	var b [16]byte
	b[15] = 31
	if got := encode(b); got != "0000000000000000000000000Z" {
		t.Errorf("encode = %q", got)
	}
	for i := range b {
		b[i] = 0xff
	}
	if got := encode(b); got != "7ZZZZZZZZZZZZZZZZZZZZZZZZZ" {
		t.Errorf("encode = %q", got)
	}
}
