package api

import (
	"net/http"
	"path"
	"strings"

	"github.com/dgallion1/akngest/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

const collectionNode = "final_acts"

func (s *Server) publishPrefix() string {
	return pipeline.PublishPrefix(s.cfg.Conference)
}

// handleListPublished lists the statements published for the configured
// conference.
func (s *Server) handleListPublished(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		jsonError(w, "publishing is disabled", http.StatusServiceUnavailable)
		return
	}

	prefix := s.publishPrefix()
	children, err := s.catalog.ListChildren(r.Context(), prefix, 500)
	if err != nil {
		jsonError(w, "failed to list documents: "+err.Error(), http.StatusBadGateway)
		return
	}

	docs := []map[string]any{}
	for _, child := range children {
		id := strings.TrimPrefix(child.Key, prefix+"/")
		if id == collectionNode || strings.Contains(id, "/") {
			continue
		}
		entry := map[string]any{"document_id": id, "key": child.Key}
		if m, ok := child.Value.(map[string]any); ok {
			entry["title"] = m["title"]
			entry["part"] = m["part"]
			entry["frbr_work"] = m["frbr_work"]
		}
		docs = append(docs, entry)
	}

	writeJSON(w, http.StatusOK, map[string]any{"prefix": prefix, "documents": docs})
}

// handleGetPublished returns the published statement. ?format=xml returns
// the stored markup itself.
func (s *Server) handleGetPublished(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		jsonError(w, "publishing is disabled", http.StatusServiceUnavailable)
		return
	}
	docID := chi.URLParam(r, "docID")
	node, err := s.catalog.GetNode(r.Context(), path.Join(s.publishPrefix(), docID))
	if err != nil {
		jsonError(w, "failed to read document: "+err.Error(), http.StatusBadGateway)
		return
	}
	if node == nil {
		jsonError(w, "document not found: "+docID, http.StatusNotFound)
		return
	}

	if r.URL.Query().Get("format") == "xml" {
		m, _ := node.Value.(map[string]any)
		markup, _ := m["xml"].(string)
		if markup == "" {
			jsonError(w, "document has no markup", http.StatusNotFound)
			return
		}
		writeXML(w, docID+".xml", []byte(markup))
		return
	}
	writeJSON(w, http.StatusOK, node)
}

// handleDeletePublished removes one published statement. Deleting the
// collection node removes every statement under the prefix.
func (s *Server) handleDeletePublished(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		jsonError(w, "publishing is disabled", http.StatusServiceUnavailable)
		return
	}
	docID := chi.URLParam(r, "docID")
	ctx := r.Context()

	key := path.Join(s.publishPrefix(), docID)
	recursive := false
	if docID == collectionNode {
		key = s.publishPrefix()
		recursive = true
	}
	if err := s.catalog.DeleteNode(ctx, key, recursive); err != nil {
		jsonError(w, "failed to delete: "+err.Error(), http.StatusBadGateway)
		return
	}
	s.log.Info("published document deleted", "key", key, "recursive", recursive)
	writeJSON(w, http.StatusOK, map[string]any{"deleted": key, "recursive": recursive})
}
