package data

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func generateRecord(i int, outcome string) *GameRecord {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &GameRecord{
		SessionID:  fmt.Sprintf("session-%d", i),
		RemoteAddr: "127.0.0.1",
		Word:       "cat",
		Outcome:    outcome,
		Guessed:    "cxat",
		Incorrect:  "x",
		Remaining:  5,
		StartedAt:  start,
		EndedAt:    start.Add(time.Duration(i) * time.Minute),
	}
}

func TestCreateGameRecord(t *testing.T) {
	db := setUpDatabase(t)

	record := generateRecord(1, "won")
	if err := CreateGameRecord(db, record); err != nil {
		t.Fatalf("CreateGameRecord() returned an unexpected error: %v", err)
	}
	if record.ID == 0 {
		t.Error("expected CreateGameRecord() to assign an ID")
	}

	got, err := FindGameRecordBySessionID(db, "session-1")
	if err != nil {
		t.Fatalf("FindGameRecordBySessionID() returned an unexpected error: %v", err)
	}
	if diff := cmp.Diff(record, got, cmpopts.EquateApproxTime(time.Second)); diff != "" {
		t.Errorf("stored record did not match; diff:\n%s", diff)
	}
}

func TestCreateGameRecord_DuplicateSession(t *testing.T) {
	db := setUpDatabase(t)

	if err := CreateGameRecord(db, generateRecord(1, "won")); err != nil {
		t.Fatalf("CreateGameRecord() returned an unexpected error: %v", err)
	}
	if err := CreateGameRecord(db, generateRecord(1, "lost")); err == nil {
		t.Error("expected a second record for the same session to be rejected")
	}
}

func TestFindGameRecordBySessionID_NotFound(t *testing.T) {
	db := setUpDatabase(t)

	got, err := FindGameRecordBySessionID(db, "missing")
	if err != nil || got != nil {
		t.Errorf("expected (nil, nil) for a missing session, got (%v, %v)", got, err)
	}
}

func TestFindRecentGameRecords(t *testing.T) {
	db := setUpDatabase(t)
	for i := 1; i <= 5; i++ {
		if err := CreateGameRecord(db, generateRecord(i, "won")); err != nil {
			t.Fatalf("error seeding record: %v", err)
		}
	}

	records, err := FindRecentGameRecords(db, 3)
	if err != nil {
		t.Fatalf("FindRecentGameRecords() returned an unexpected error: %v", err)
	}

	var got []string
	for _, r := range records {
		got = append(got, r.SessionID)
	}
	want := []string{"session-5", "session-4", "session-3"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FindRecentGameRecords() returned the wrong records; diff:\n%s", diff)
	}
}

func TestCountOutcomes(t *testing.T) {
	db := setUpDatabase(t)
	outcomes := []string{"won", "lost", "won", "aborted", "won"}
	for i, o := range outcomes {
		if err := CreateGameRecord(db, generateRecord(i, o)); err != nil {
			t.Fatalf("error seeding record: %v", err)
		}
	}

	counts, err := CountOutcomes(db)
	if err != nil {
		t.Fatalf("CountOutcomes() returned an unexpected error: %v", err)
	}
	want := map[string]int64{"won": 3, "lost": 1, "aborted": 1}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Errorf("CountOutcomes() returned the wrong counts; diff:\n%s", diff)
	}
}
