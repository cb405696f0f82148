package server

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/dcrodman/hangman/internal/core/data"
	"github.com/dcrodman/hangman/internal/game"
)

// Recorder persists finished games off the event loop. A nil *Recorder discards
// everything it is given.
type Recorder struct {
	db      *gorm.DB
	logger  *logrus.Logger
	records chan data.GameRecord
	done    chan struct{}
}

func NewRecorder(db *gorm.DB, logger *logrus.Logger, buffer int) *Recorder {
	return &Recorder{
		db:      db,
		logger:  logger,
		records: make(chan data.GameRecord, buffer),
		done:    make(chan struct{}),
	}
}

// Record queues the outcome of a session without blocking. Records are dropped
// when the queue is full.
func (r *Recorder) Record(summary game.Summary, remoteAddr string) {
	if r == nil {
		return
	}

	record := data.GameRecord{
		SessionID:  summary.ID.String(),
		RemoteAddr: remoteAddr,
		Word:       summary.Target,
		Outcome:    summary.State.String(),
		Guessed:    summary.Guessed,
		Incorrect:  summary.Incorrect,
		Remaining:  summary.Remaining,
		StartedAt:  summary.StartedAt,
		EndedAt:    summary.EndedAt,
	}

	select {
	case r.records <- record:
	default:
		r.logger.Warnf("result queue full, dropping record for session %s", record.SessionID)
	}
}

// Run writes queued records until ctx is cancelled, then flushes whatever is left.
func (r *Recorder) Run(ctx context.Context) {
	defer close(r.done)

	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case record := <-r.records:
					r.write(record)
				default:
					return
				}
			}
		case record := <-r.records:
			r.write(record)
		}
	}
}

// Wait blocks until Run has returned.
func (r *Recorder) Wait() {
	<-r.done
}

func (r *Recorder) write(record data.GameRecord) {
	if err := data.CreateGameRecord(r.db, &record); err != nil {
		r.logger.Errorf("error recording session %s: %v", record.SessionID, err)
	}
}
