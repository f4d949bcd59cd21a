package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/stammerchat/stammer/internal/chunk"
	"github.com/stammerchat/stammer/internal/config"
	"github.com/stammerchat/stammer/internal/draft"
	"github.com/stammerchat/stammer/internal/observability"
	"github.com/stammerchat/stammer/internal/session"
	"github.com/stammerchat/stammer/internal/stutter"
)

type Server struct {
	cfg      config.Config
	sessions *session.Manager
	drafts   draft.Store
	metrics  *observability.Metrics
	upgrader websocket.Upgrader
}

func New(cfg config.Config, sessions *session.Manager, drafts draft.Store, metrics *observability.Metrics) *Server {
	return &Server{
		cfg:      cfg,
		sessions: sessions,
		drafts:   drafts,
		metrics:  metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Default: only allow browser websocket connections from the
				// same origin, so another site cannot drive a composer's
				// preview session if the service is exposed beyond localhost.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Get("/v1/presets", s.handleListPresets)
	r.Post("/v1/compose", s.handleCompose)
	r.Post("/v1/chunks", s.handleChunks)

	r.Post("/v1/preview/session", s.handleCreateSession)
	r.Post("/v1/preview/session/{id}/end", s.handleEndSession)
	r.Get("/v1/preview/ws", s.handlePreviewWS)

	r.Post("/v1/drafts", s.handleSaveDraft)
	r.Get("/v1/drafts", s.handleListDrafts)
	r.Get("/v1/drafts/{id}", s.handleGetDraft)
	r.Delete("/v1/drafts/{id}", s.handleDeleteDraft)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"draft_store": s.draftStoreMode(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":      "ready",
		"draft_store": s.draftStoreMode(),
	})
}

func (s *Server) draftStoreMode() string {
	if _, ok := s.drafts.(*draft.InMemoryStore); ok {
		return "memory"
	}
	return "postgres"
}

type composeRequest struct {
	Text          string               `json:"text"`
	Settings      *stutter.RawSettings `json:"settings,omitempty"`
	MaxChunkChars int                  `json:"max_chunk_chars,omitempty"`
}

type composeResponse struct {
	Output string   `json:"output"`
	Chunks []string `json:"chunks"`
}

func (s *Server) handleCompose(w http.ResponseWriter, r *http.Request) {
	var req composeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	start := time.Now()
	resp := s.compose(req)
	s.metrics.ObserveCompose("http", "ok", time.Since(start), len(resp.Chunks))
	respondJSON(w, http.StatusOK, resp)
}

// compose runs one text through the engine and splitter with defaults
// filled in from config.
func (s *Server) compose(req composeRequest) composeResponse {
	settings := stutter.RawSettings{Preset: s.cfg.DefaultPreset}
	if req.Settings != nil {
		settings = *req.Settings
	}
	maxChars := req.MaxChunkChars
	if maxChars <= 0 {
		maxChars = s.cfg.DefaultMaxChunkChars
	}

	output := stutter.Transform(req.Text, settings)
	return composeResponse{
		Output: output,
		Chunks: chunk.SplitWithMarkers(output, maxChars),
	}
}

type chunksRequest struct {
	Text          string `json:"text"`
	MaxChunkChars int    `json:"max_chunk_chars,omitempty"`
}

func (s *Server) handleChunks(w http.ResponseWriter, r *http.Request) {
	var req chunksRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	maxChars := req.MaxChunkChars
	if maxChars <= 0 {
		maxChars = s.cfg.DefaultMaxChunkChars
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"chunks": chunk.SplitWithMarkers(req.Text, maxChars),
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req session.CreateRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		req.UserID = "anonymous"
	}
	if req.Settings.Preset == "" {
		req.Settings.Preset = s.cfg.DefaultPreset
	}
	if req.MaxChunkChars <= 0 {
		req.MaxChunkChars = s.cfg.DefaultMaxChunkChars
	}

	sess := s.sessions.Create(req.UserID, req.Settings, req.MaxChunkChars)
	s.metrics.ActiveSessions.Set(float64(s.sessions.ActiveCount()))
	s.metrics.SessionEvents.WithLabelValues("created").Inc()

	respondJSON(w, http.StatusCreated, session.CreateResponse{
		SessionID:       sess.ID,
		UserID:          sess.UserID,
		Status:          sess.Status,
		MaxChunkChars:   sess.MaxChunkChars,
		StartedAt:       sess.StartedAt,
		LastActivityAt:  sess.LastActivityAt,
		InactivityTTLMS: s.cfg.SessionInactivityTimeout.Milliseconds(),
	})
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if strings.TrimSpace(id) == "" {
		respondError(w, http.StatusBadRequest, "invalid_session_id", "missing session id")
		return
	}

	sess, err := s.sessions.End(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}
	s.metrics.ActiveSessions.Set(float64(s.sessions.ActiveCount()))
	s.metrics.SessionEvents.WithLabelValues("ended").Inc()
	respondJSON(w, http.StatusOK, sess)
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, msg string) {
	respondJSON(w, status, errorResponse{Error: msg, Code: code})
}
