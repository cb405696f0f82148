package data

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// GameRecord is the outcome of one finished session.
type GameRecord struct {
	ID         uint64 `gorm:"primaryKey"`
	SessionID  string `gorm:"uniqueIndex; not null"`
	RemoteAddr string
	Word       string `gorm:"not null"`
	Outcome    string `gorm:"index; not null"`
	Guessed    string
	Incorrect  string
	Remaining  int
	StartedAt  time.Time
	EndedAt    time.Time `gorm:"index"`
}

// CreateGameRecord persists the GameRecord to the database.
func CreateGameRecord(db *gorm.DB, record *GameRecord) error {
	return db.Create(record).Error
}

// FindGameRecordBySessionID returns the record for a session, or nil if
// there is no match.
func FindGameRecordBySessionID(db *gorm.DB, sessionID string) (*GameRecord, error) {
	var record GameRecord
	err := db.Where("session_id = ?", sessionID).First(&record).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &record, nil
}

// FindRecentGameRecords returns up to limit records, most recently finished first.
func FindRecentGameRecords(db *gorm.DB, limit int) ([]GameRecord, error) {
	var records []GameRecord
	err := db.Order("ended_at desc").Order("id desc").Limit(limit).Find(&records).Error
	return records, err
}

// CountOutcomes returns the number of recorded games per outcome.
func CountOutcomes(db *gorm.DB) (map[string]int64, error) {
	var rows []struct {
		Outcome string
		Count   int64
	}
	err := db.Model(&GameRecord{}).
		Select("outcome, count(*) as count").
		Group("outcome").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Outcome] = r.Count
	}
	return counts, nil
}
