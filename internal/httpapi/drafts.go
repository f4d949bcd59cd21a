package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/stammerchat/stammer/internal/draft"
)

func (s *Server) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	var d draft.Draft
	if err := decodeJSON(r, &d); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(d.UserID) == "" {
		d.UserID = "anonymous"
	}
	if strings.TrimSpace(d.Name) == "" {
		respondError(w, http.StatusBadRequest, "invalid_draft", "draft name is required")
		return
	}

	s.metrics.DraftStoreQueries.WithLabelValues("save").Inc()
	saved, err := s.drafts.Save(r.Context(), d)
	if err != nil {
		s.metrics.DraftStoreErrors.WithLabelValues("save").Inc()
		respondError(w, http.StatusInternalServerError, "draft_save_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.metrics.DraftStoreQueries.WithLabelValues("get").Inc()
	d, err := s.drafts.Get(r.Context(), id)
	if errors.Is(err, draft.ErrNotFound) {
		respondError(w, http.StatusNotFound, "draft_not_found", "no draft with that id")
		return
	}
	if err != nil {
		s.metrics.DraftStoreErrors.WithLabelValues("get").Inc()
		respondError(w, http.StatusInternalServerError, "draft_get_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, d)
}

func (s *Server) handleListDrafts(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	s.metrics.DraftStoreQueries.WithLabelValues("list").Inc()
	drafts, err := s.drafts.List(r.Context(), userID, limit)
	if err != nil {
		s.metrics.DraftStoreErrors.WithLabelValues("list").Inc()
		respondError(w, http.StatusInternalServerError, "draft_list_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"drafts": drafts})
}

func (s *Server) handleDeleteDraft(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.metrics.DraftStoreQueries.WithLabelValues("delete").Inc()
	err := s.drafts.Delete(r.Context(), id)
	if errors.Is(err, draft.ErrNotFound) {
		respondError(w, http.StatusNotFound, "draft_not_found", "no draft with that id")
		return
	}
	if err != nil {
		s.metrics.DraftStoreErrors.WithLabelValues("delete").Inc()
		respondError(w, http.StatusInternalServerError, "draft_delete_failed", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
