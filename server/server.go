package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/s0up4200/getjson/students"
)

const shutdownTimeout = 5 * time.Second

// Config holds the demo server settings
type Config struct {
	Addr           string
	AllowedOrigins []string
	// RateLimit is requests per second; zero disables limiting
	RateLimit float64
	RateBurst int
}

// Server serves the students API
type Server struct {
	cfg    Config
	repo   *students.Repository
	logger zerolog.Logger
	router chi.Router
}

// New creates a server over repo
func New(cfg Config, repo *students.Repository, logger zerolog.Logger) (*Server, error) {
	if repo == nil {
		return nil, fmt.Errorf("student repository is required")
	}
	if cfg.RateLimit < 0 || cfg.RateBurst < 0 {
		return nil, fmt.Errorf("rate limit and burst must not be negative")
	}

	s := &Server{
		cfg:    cfg,
		repo:   repo,
		logger: logger,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}).Handler)

	r.Use(requestLogging(s.logger))

	if s.cfg.RateLimit > 0 {
		burst := s.cfg.RateBurst
		if burst == 0 {
			burst = 1
		}
		r.Use(rateLimit(s.cfg.RateLimit, burst))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, http.StatusNotFound, fmt.Sprintf("no route for %s", r.URL.Path))
	})

	r.Get("/api/students", s.handleListStudents)
	r.Get("/api/students/{id}", s.handleGetStudent)

	return r
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.Addr).Msg("Students API listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info().Msg("Shutting down students API")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	all, err := s.repo.GetAll(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list students")
		writeProblem(w, http.StatusInternalServerError, "failed to list students")
		return
	}

	items := make([]students.StudentListItem, 0, len(all))
	for _, st := range all {
		items = append(items, st.ToListItem(selfURL(r, st.ID)))
	}

	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeProblem(w, http.StatusNotFound, "student id must be a GUID")
		return
	}

	st, err := s.repo.GetByID(r.Context(), id)
	if errors.Is(err, students.ErrStudentNotFound) {
		writeProblem(w, http.StatusNotFound, fmt.Sprintf("student %s does not exist", id))
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Str("id", id.String()).Msg("Failed to get student")
		writeProblem(w, http.StatusInternalServerError, "failed to get student")
		return
	}

	writeJSON(w, http.StatusOK, st.ToDetails())
}

// selfURL builds the absolute detail URL for a student as seen by the caller
func selfURL(r *http.Request, id uuid.UUID) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	// only the two schemes a proxy may legitimately report
	switch proto := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto"))); proto {
	case "http", "https":
		scheme = proto
	}
	return fmt.Sprintf("%s://%s/api/students/%s", scheme, r.Host, id)
}

// problem is an RFC 7807 error body
type problem struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(problem{
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	})
}
