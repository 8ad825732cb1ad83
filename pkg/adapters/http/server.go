package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/graft"
	"github.com/aretw0/graft/internal/logging"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/session"
	"github.com/go-chi/chi/v5"
)

// Documents is the view of the attached documents the server reads from.
// *session.Manager implements it.
type Documents interface {
	Documents() []string
	WithDocument(id string, fn func(session.Attached) error) error
}

// DocumentStatus is the JSON summary of one document.
type DocumentStatus struct {
	ID          string         `json:"id"`
	Version     domain.Version `json:"version"`
	Blocks      int            `json:"blocks"`
	Settled     bool           `json:"settled"`
	NeedsRescan bool           `json:"needs_rescan"`
}

// Server exposes engine status over HTTP.
type Server struct {
	Documents Documents
	Streams   *StreamManager
	metrics   http.Handler
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics mounts h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a server over docs.
func NewServer(docs Documents, opts ...Option) *Server {
	s := &Server{
		Documents: docs,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	return s
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	r.Get("/events", s.SubscribeEvents)
	r.Route("/documents", func(r chi.Router) {
		r.Get("/", s.ListDocuments)
		r.Get("/{id}", s.GetDocument)
		r.Get("/{id}/blocks", s.GetBlocks)
		r.Post("/{id}/rescan", s.Rescan)
	})
	return r
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{
		"app":     "graft",
		"version": strings.TrimSpace(graft.Version),
	})
}

// ListDocuments handles the GET /documents request.
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ids := s.Documents.Documents()
	out := make([]DocumentStatus, 0, len(ids))
	for _, id := range ids {
		status, err := s.status(id)
		if errors.Is(err, domain.ErrDocumentNotFound) {
			// Released between listing and reading.
			continue
		}
		if err != nil {
			s.fail(w, err)
			return
		}
		out = append(out, status)
	}
	writeJSON(w, s.logger, http.StatusOK, out)
}

// GetDocument handles the GET /documents/{id} request.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	status, err := s.status(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, status)
}

// GetBlocks handles the GET /documents/{id}/blocks request.
func (s *Server) GetBlocks(w http.ResponseWriter, r *http.Request) {
	var blocks []domain.BlockInfo
	err := s.Documents.WithDocument(chi.URLParam(r, "id"), func(a session.Attached) error {
		blocks = a.Blocks()
		return nil
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, blocks)
}

// Rescan handles the POST /documents/{id}/rescan request.
func (s *Server) Rescan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var status DocumentStatus
	err := s.Documents.WithDocument(id, func(a session.Attached) error {
		if err := a.Rescan(); err != nil {
			return err
		}
		status = statusOf(id, a)
		return nil
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, status)
}

func (s *Server) status(id string) (DocumentStatus, error) {
	var status DocumentStatus
	err := s.Documents.WithDocument(id, func(a session.Attached) error {
		status = statusOf(id, a)
		return nil
	})
	return status, err
}

func statusOf(id string, a session.Attached) DocumentStatus {
	return DocumentStatus{
		ID:          id,
		Version:     a.Document().Current().Version(),
		Blocks:      len(a.Blocks()),
		Settled:     a.Settled(),
		NeedsRescan: a.NeedsRescan(),
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	if errors.Is(err, domain.ErrDocumentNotFound) {
		code = http.StatusNotFound
	} else {
		s.logger.Error("Request failed", "err", err)
	}
	writeJSON(w, s.logger, code, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "err", err)
	}
}

// SubscribeEvents handles the GET /events request (SSE). The optional
// document query parameter limits the stream to one document.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	topic := r.URL.Query().Get("document")
	if topic == "" {
		topic = AllDocuments
	}
	ch, cancel := s.Streams.Subscribe(topic)
	defer cancel()

	s.logger.Info("SSE: Client subscribed", "topic", topic)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: Client disconnected", "topic", topic)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
