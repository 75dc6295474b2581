package api

import (
	"bytes"
	"net/http"

	"github.com/dgallion1/akngest/internal/akn"
	"github.com/dgallion1/akngest/internal/doctree"
	"github.com/dgallion1/akngest/internal/pipeline"
	"github.com/dgallion1/akngest/internal/preview"
	"github.com/go-chi/chi/v5"
)

// finishedJob resolves the job in the URL and reports whether it has
// produced a result. It writes the error response itself.
func (s *Server) finishedJob(w http.ResponseWriter, r *http.Request) (*pipeline.Job, bool) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return nil, false
	}
	status := job.CurrentStatus()
	if !status.Done() {
		jsonError(w, "job is still "+string(status), http.StatusConflict)
		return nil, false
	}
	if job.CollectionXML() == nil {
		jsonError(w, "job produced no markup", http.StatusNotFound)
		return nil, false
	}
	return job, true
}

func (s *Server) handleCollectionXML(w http.ResponseWriter, r *http.Request) {
	job, ok := s.finishedJob(w, r)
	if !ok {
		return
	}
	writeXML(w, akn.CollectionFilename, job.CollectionXML())
}

func (s *Server) handleDocumentXML(w http.ResponseWriter, r *http.Request) {
	job, ok := s.finishedJob(w, r)
	if !ok {
		return
	}
	docID := chi.URLParam(r, "docID")
	data, ok := job.DocumentXML(docID)
	if !ok {
		jsonError(w, "document not found: "+docID, http.StatusNotFound)
		return
	}
	writeXML(w, docID+".xml", data)
}

// handlePreview renders the job's collection as HTML, or as Markdown with
// ?format=markdown. ?document=<id> narrows it to one document.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	job, ok := s.finishedJob(w, r)
	if !ok {
		return
	}
	res := job.Result()
	c := res.Collection
	if id := r.URL.Query().Get("document"); id != "" {
		d := c.Document(id)
		if d == nil {
			jsonError(w, "document not found: "+id, http.StatusNotFound)
			return
		}
		c = &doctree.Collection{Conference: c.Conference, Documents: []*doctree.Document{d}}
	}

	switch r.URL.Query().Get("format") {
	case "", "html":
		var buf bytes.Buffer
		if err := preview.RenderHTML(&buf, c, job.Filename); err != nil {
			s.log.Error("preview render failed", "job_id", job.ID, "error", err)
			jsonError(w, "render failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(buf.Bytes())
	case "markdown", "md":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(preview.Markdown(c)))
	default:
		jsonError(w, "unknown format", http.StatusBadRequest)
	}
}

func writeXML(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/akn+xml")
	w.Header().Set("Content-Disposition", `inline; filename="`+filename+`"`)
	w.Write(data)
}
