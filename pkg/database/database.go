package database

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/harveywai/leadflow/pkg/dashboard"
	"github.com/harveywai/leadflow/pkg/render"
)

// DefaultDSN keeps the journal in memory; it is gone when the process exits.
const DefaultDSN = ":memory:"

// MaxRecords is how many sync records the journal keeps.
const MaxRecords = 100

// ErrDatabaseNotInitialized is returned when a nil journal is used.
var ErrDatabaseNotInitialized = errors.New("database not initialized")

// SyncRecord is one finished dashboard load cycle.
type SyncRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Generation uint64    `gorm:"index" json:"generation"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
	LeadCount  int       `json:"lead_count"`
	Live       bool      `json:"live"`
	Error      string    `json:"error"`
	Stale      bool      `json:"stale"`
	CreatedAt  time.Time `json:"created_at"`
}

// Entry converts the record for the analytics view.
func (r SyncRecord) Entry() render.SyncEntry {
	return render.SyncEntry{
		Generation: r.Generation,
		StartedAt:  r.StartedAt,
		Duration:   time.Duration(r.DurationMS) * time.Millisecond,
		LeadCount:  r.LeadCount,
		Error:      r.Error,
		Stale:      r.Stale,
	}
}

// Journal is the sync history store.
type Journal struct {
	db *gorm.DB
}

// Open connects to the SQLite database at dsn and migrates the schema.
// An empty dsn selects DefaultDSN.
func Open(dsn string) (*Journal, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sync journal: %w", err)
	}

	// Every pooled connection to ":memory:" would get its own empty database.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sync journal pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&SyncRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate sync journal: %w", err)
	}

	log.Printf("sync journal initialized (%s)", dsn)
	return &Journal{db: db}, nil
}

// Close releases the database connection.
func (j *Journal) Close() error {
	if j == nil {
		return ErrDatabaseNotInitialized
	}
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Record stores a load outcome and prunes the journal to MaxRecords.
func (j *Journal) Record(o dashboard.Outcome) error {
	if j == nil {
		return ErrDatabaseNotInitialized
	}

	rec := SyncRecord{
		Generation: o.Generation,
		StartedAt:  o.StartedAt,
		DurationMS: o.Duration.Milliseconds(),
		LeadCount:  o.LeadCount,
		Live:       o.Live,
		Stale:      o.Stale,
	}
	if o.Err != nil {
		rec.Error = o.Err.Error()
	}

	if err := j.db.Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to record sync: %w", err)
	}

	cutoff := j.db.Model(&SyncRecord{}).Select("id").Order("id desc").Limit(MaxRecords)
	if err := j.db.Where("id NOT IN (?)", cutoff).Delete(&SyncRecord{}).Error; err != nil {
		return fmt.Errorf("failed to prune sync journal: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (j *Journal) Recent(limit int) ([]SyncRecord, error) {
	if j == nil {
		return nil, ErrDatabaseNotInitialized
	}

	var records []SyncRecord
	if err := j.db.Order("id desc").Limit(limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list sync records: %w", err)
	}
	return records, nil
}

// Entries returns the newest limit records ready for rendering. Errors are
// logged and yield an empty history.
func (j *Journal) Entries(limit int) []render.SyncEntry {
	records, err := j.Recent(limit)
	if err != nil {
		log.Printf("warning: could not read sync journal: %v", err)
		return nil
	}
	out := make([]render.SyncEntry, 0, len(records))
	for _, r := range records {
		out = append(out, r.Entry())
	}
	return out
}
