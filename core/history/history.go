package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Run is one recorded sync invocation.
type Run struct {
	// ID is assigned when the run starts.
	ID string `gorm:"primaryKey" json:"id"`
	// Kind is the sync bucket: events, contacts, acl or all.
	Kind   string `gorm:"index" json:"kind"`
	DryRun bool   `json:"dry_run"`

	Inserts int `json:"inserts"`
	Updates int `json:"updates"`
	Deletes int `json:"deletes"`
	Failed  int `json:"failed"`

	// Error holds the combined error text when the run did not fully
	// succeed.
	Error string `json:"error,omitempty"`

	StartedAt  time.Time `gorm:"index" json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// NewRun starts a run record with a fresh id.
func NewRun(kind string, dryRun bool) Run {
	return Run{
		ID:        uuid.NewString(),
		Kind:      kind,
		DryRun:    dryRun,
		StartedAt: time.Now(),
	}
}

// Store persists run records in a local sqlite database. It is convenience
// state only; the remote services stay the single source of truth the sync
// reads.
type Store struct {
	db *gorm.DB
}

// Open opens (and migrates) the history database at the configured path.
func Open(cfg Config) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening history store %s: %w", cfg.Path, err)
	}
	if err := db.AutoMigrate(&Run{}); err != nil {
		return nil, fmt.Errorf("migrating history store: %w", err)
	}
	return &Store{db: db}, nil
}

// Record finalizes and saves a run. A nil store drops the record, so
// callers with history disabled need no branching.
func (s *Store) Record(ctx context.Context, run Run) error {
	if s == nil {
		return nil
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now()
	}
	return s.db.WithContext(ctx).Create(&run).Error
}

// List returns up to limit runs, most recent first.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if s == nil {
		return nil, nil
	}
	var runs []Run
	err := s.db.WithContext(ctx).
		Order("started_at desc").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}
