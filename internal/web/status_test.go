package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dcrodman/hangman/internal/core/data"
	"github.com/dcrodman/hangman/internal/server"
)

type fixedStats server.Stats

func (f fixedStats) Stats() server.Stats { return server.Stats(f) }

func newTestServer(t *testing.T, db *gorm.DB) *Server {
	t.Helper()
	logger, _ := test.NewNullLogger()
	return New(fixedStats{Active: 2, Capacity: 3, Accepted: 5, Won: 1, Lost: 1, Aborted: 1}, db, logger)
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func setUpDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := data.Open(data.EngineSQLite, filepath.Join(t.TempDir(), "web.db"), "", false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = data.Close(db) })

	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, outcome := range []string{"won", "lost", "won"} {
		require.NoError(t, data.CreateGameRecord(db, &data.GameRecord{
			SessionID: string(rune('a' + i)),
			Word:      "cat",
			Outcome:   outcome,
			StartedAt: start,
			EndedAt:   start.Add(time.Duration(i) * time.Minute),
		}))
	}
	return db
}

func TestHealthz(t *testing.T) {
	rec := get(t, newTestServer(t, nil), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestStatus(t *testing.T) {
	rec := get(t, newTestServer(t, nil), "/status")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var stats server.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, server.Stats{Active: 2, Capacity: 3, Accepted: 5, Won: 1, Lost: 1, Aborted: 1}, stats)
}

func TestResults_NoDatabase(t *testing.T) {
	s := newTestServer(t, nil)

	for _, target := range []string{"/results", "/results/summary"} {
		rec := get(t, s, target)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, target)
	}
}

func TestResults(t *testing.T) {
	s := newTestServer(t, setUpDatabase(t))

	rec := get(t, s, "/results?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var results []result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "c", results[0].SessionID)
	assert.Equal(t, "b", results[1].SessionID)

	rec = get(t, s, "/results")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	assert.Len(t, results, 3)
}

func TestResults_BadLimit(t *testing.T) {
	s := newTestServer(t, setUpDatabase(t))

	for _, limit := range []string{"0", "-1", "ten"} {
		rec := get(t, s, "/results?limit="+limit)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", limit)
	}
}

func TestResultsSummary(t *testing.T) {
	rec := get(t, newTestServer(t, setUpDatabase(t)), "/results/summary")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"won":2,"lost":1}`, rec.Body.String())
}
