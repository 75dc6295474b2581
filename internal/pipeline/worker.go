package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/dgallion1/akngest/internal/akn"
	"github.com/dgallion1/akngest/internal/convert"
	"github.com/dgallion1/akngest/internal/doctree"
	"github.com/dgallion1/akngest/internal/pathstore"
	"github.com/dgallion1/akngest/internal/stats"
	"github.com/dgallion1/akngest/internal/store"
)

// Publisher is the part of the pathstore client the worker needs.
type Publisher interface {
	PutNode(ctx context.Context, key string, req pathstore.NodeRequest) error
	PutLink(ctx context.Context, req pathstore.LinkRequest) error
}

// Worker processes a single conversion job.
type Worker struct {
	publisher Publisher // nil disables publishing
	history   store.History
	latency   *stats.Latency
	log       *slog.Logger
	opts      convert.Options
}

func NewWorker(publisher Publisher, history store.History, latency *stats.Latency, log *slog.Logger, opts convert.Options) *Worker {
	return &Worker{
		publisher: publisher,
		history:   history,
		latency:   latency,
		log:       log,
		opts:      opts,
	}
}

// Process runs the full conversion pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	start := time.Now()
	defer func() { w.latency.Time(stats.StageTotal, start) }()

	var res *convert.Result
	fail := func(phase string, err error) {
		log.Error("conversion failed", "phase", phase, "error", err)
		job.AddError(fmt.Sprintf("%s: %s", phase, err))
		job.SetStatus(StatusFailed, phase)
		w.record(ctx, job, res, start, err)
	}

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	data := job.FileData()
	job.ContentHash = ContentHashHex(data)
	t := time.Now()
	pages, err := convert.Parse(bytes.NewReader(data), job.Filename, w.opts)
	if err != nil {
		fail("parsing", err)
		return
	}
	w.latency.Time(stats.StageParse, t)
	job.SetPages(len(pages))
	// The source bytes are no longer needed.
	job.SetFileData(nil)

	// Phase 2: Structure
	job.SetStatus(StatusStructuring, "structuring")
	t = time.Now()
	st, err := convert.Structure(pages, w.opts)
	if err != nil {
		fail("structuring", err)
		return
	}
	w.latency.Time(stats.StageStructure, t)
	job.SetEntries(len(st.Entries))
	log.Info("document boundaries found", "pages", len(pages), "entries", len(st.Entries))

	// Phase 3: Build
	job.SetStatus(StatusBuilding, "building")
	t = time.Now()
	res = convert.Assemble(ctx, st, w.opts, log)
	if err := ctx.Err(); err != nil {
		fail("building", err)
		return
	}
	w.latency.Time(stats.StageBuild, t)
	job.SetResult(res)
	if len(res.Collection.Documents) == 0 {
		fail("building", errors.New("no document could be assembled"))
		return
	}

	// Phase 4: Serialize
	job.SetStatus(StatusSerializing, "serializing")
	t = time.Now()
	aknOpts := akn.Options{Generated: job.CreatedAt}
	collection, err := akn.MarshalCollection(res.Collection, aknOpts)
	if err != nil {
		fail("serializing", err)
		return
	}
	documents := make(map[string][]byte, len(res.Collection.Documents))
	for _, d := range res.Collection.Documents {
		b, err := akn.MarshalDocument(d, res.Collection.Conference, aknOpts)
		if err != nil {
			fail("serializing", fmt.Errorf("%s: %w", d.ID, err))
			return
		}
		documents[d.ID] = b
	}
	job.SetMarkup(collection, documents)
	w.latency.Time(stats.StageSerialize, t)

	// Phase 5: Publish
	publishErrors := 0
	if w.publisher != nil {
		job.SetStatus(StatusPublishing, "publishing")
		t = time.Now()
		publishErrors = w.publish(ctx, log, job, res.Collection, documents)
		w.latency.Time(stats.StagePublish, t)
	}

	if len(res.Failures) > 0 || publishErrors > 0 {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
	log.Info("conversion complete", "documents", len(res.Collection.Documents), "failed", len(res.Failures), "publish_errors", publishErrors)
	w.record(ctx, job, res, start, nil)
}

// PublishPrefix is the pathstore key under which a conference's documents
// are published, e.g. "akn/itu-pp/2018-11-15".
func PublishPrefix(conf doctree.Conference) string {
	return path.Join("akn", conf.Actor, conf.Date)
}

// publish writes every statement and then the collection node, linking the
// collection to each document. It returns the number of failed writes.
func (w *Worker) publish(ctx context.Context, log *slog.Logger, job *Job, c *doctree.Collection, documents map[string][]byte) int {
	prefix := PublishPrefix(c.Conference)
	source := "akngest:" + job.ID
	failed := 0
	var published []string

	for _, d := range c.Documents {
		key := path.Join(prefix, d.ID)
		err := withRetry(ctx, log, "put "+key, func() error {
			return w.publisher.PutNode(ctx, key, pathstore.NodeRequest{
				Value: map[string]any{
					"frbr_work":    akn.WorkIRI(c.Conference, d),
					"document_id":  d.ID,
					"title":        d.Title,
					"part":         d.Part,
					"content_hash": job.ContentHash,
					"xml":          string(documents[d.ID]),
				},
				Source: source,
			})
		})
		if err != nil {
			log.Error("publish failed", "document", d.ID, "error", err)
			job.AddError(fmt.Sprintf("publish %s: %s", d.ID, err))
			failed++
			continue
		}
		job.IncrPublished()
		published = append(published, d.ID)
	}

	collKey := path.Join(prefix, "final_acts")
	err := withRetry(ctx, log, "put "+collKey, func() error {
		return w.publisher.PutNode(ctx, collKey, pathstore.NodeRequest{
			Value: map[string]any{
				"frbr_work":    akn.CollectionIRI(c.Conference),
				"documents":    published,
				"filename":     job.Filename,
				"content_hash": job.ContentHash,
				"created_at":   job.CreatedAt.Format(time.RFC3339),
			},
			Source: source,
		})
	})
	if err != nil {
		log.Error("collection publish failed", "error", err)
		job.AddError(fmt.Sprintf("publish collection: %s", err))
		return failed + 1
	}

	for _, id := range published {
		link := pathstore.LinkRequest{From: collKey, To: path.Join(prefix, id), Weight: 1, Summary: "component"}
		if err := withRetry(ctx, log, "link "+id, func() error { return w.publisher.PutLink(ctx, link) }); err != nil {
			log.Warn("component link failed", "document", id, "error", err)
		}
	}
	return failed
}

// record saves the run to the history store, if any.
func (w *Worker) record(ctx context.Context, job *Job, res *convert.Result, start time.Time, runErr error) {
	if w.history == nil {
		return
	}
	run := store.Run{
		ID:          job.ID,
		Source:      job.Filename,
		ContentHash: job.ContentHash,
		Status:      string(job.CurrentStatus()),
		StartedAt:   start,
		FinishedAt:  time.Now(),
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	var docs []store.DocumentRecord
	if res != nil {
		run.Summary = res.Summary
		docs = store.Records(job.ID, res.Collection.Documents, res.Failures, res.Warnings)
	}
	if err := w.history.SaveRun(context.WithoutCancel(ctx), run, docs); err != nil {
		w.log.Warn("history write failed", "job_id", job.ID, "error", err)
	}
}
