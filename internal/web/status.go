// Package web exposes the hangman server's status over HTTP.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/dcrodman/hangman/internal/core/data"
	"github.com/dcrodman/hangman/internal/server"
)

const (
	defaultResultLimit = 20
	maxResultLimit     = 500
	shutdownTimeout    = 5 * time.Second
)

// StatsSource reports the game server's live counters.
type StatsSource interface {
	Stats() server.Stats
}

// Server serves the status endpoints. DB may be nil, in which case the result
// endpoints report that no database is configured.
type Server struct {
	Stats  StatsSource
	DB     *gorm.DB
	Logger *logrus.Logger

	r *chi.Mux
}

// New builds the router for the status endpoints.
func New(stats StatsSource, db *gorm.DB, logger *logrus.Logger) *Server {
	s := &Server{Stats: stats, DB: db, Logger: logger, r: chi.NewRouter()}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))

	s.r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/status", s.handleStatus)
	s.r.Route("/results", func(r chi.Router) {
		r.Get("/", s.handleResults)
		r.Get("/summary", s.handleSummary)
	})

	return s
}

// Handler returns the router, mostly for tests.
func (s *Server) Handler() http.Handler { return s.r }

// Start serves HTTP on port until ctx is cancelled.
func (s *Server) Start(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.Logger.Warnf("error shutting down status server: %v", err)
		}
	}()

	s.Logger.Infof("status API listening on port %d", port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("status server failed: %w", err)
	}
	return nil
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Stats.Stats())
}

type result struct {
	SessionID  string    `json:"session_id"`
	RemoteAddr string    `json:"remote_addr"`
	Word       string    `json:"word"`
	Outcome    string    `json:"outcome"`
	Guessed    string    `json:"guessed"`
	Incorrect  string    `json:"incorrect"`
	Remaining  int       `json:"remaining"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "no database configured")
		return
	}

	limit := defaultResultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxResultLimit)
	}

	records, err := data.FindRecentGameRecords(s.DB, limit)
	if err != nil {
		s.Logger.Errorf("error loading results: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load results")
		return
	}

	results := make([]result, 0, len(records))
	for _, rec := range records {
		results = append(results, result{
			SessionID:  rec.SessionID,
			RemoteAddr: rec.RemoteAddr,
			Word:       rec.Word,
			Outcome:    rec.Outcome,
			Guessed:    rec.Guessed,
			Incorrect:  rec.Incorrect,
			Remaining:  rec.Remaining,
			StartedAt:  rec.StartedAt,
			EndedAt:    rec.EndedAt,
		})
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "no database configured")
		return
	}

	counts, err := data.CountOutcomes(s.DB)
	if err != nil {
		s.Logger.Errorf("error counting outcomes: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to count outcomes")
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
