package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a run id is unknown.
var ErrNotFound = errors.New("run not found")

// Repository stores upload runs.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRepository creates a repository on db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// Migrate creates or updates the journal table.
func (r *Repository) Migrate() error {
	if err := r.db.AutoMigrate(&Run{}); err != nil {
		return fmt.Errorf("failed to migrate upload runs: %w", err)
	}
	return nil
}

// Start records a new running upload and fills in its id and start time.
func (r *Repository) Start(ctx context.Context, run *Run) error {
	run.ID = uuid.NewString()
	run.Status = StatusRunning
	run.StartedAt = r.now().UTC()
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// Finish stores the outcome of a run.
func (r *Repository) Finish(ctx context.Context, id string, out Outcome) error {
	finished := r.now().UTC()
	status := StatusSucceeded
	errText := ""
	if out.Err != nil {
		status = StatusFailed
		errText = out.Err.Error()
	}

	res := r.db.WithContext(ctx).Model(&Run{}).Where("id = ?", id).Updates(map[string]any{
		"status":      status,
		"files":       out.Files,
		"bytes":       out.Bytes,
		"conflicts":   out.Conflicts,
		"skipped":     out.Skipped,
		"error":       errText,
		"finished_at": finished,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to finish run %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns the most recent runs first.
func (r *Repository) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []Run
	err := r.db.WithContext(ctx).Order("started_at DESC").Limit(limit).Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// Get returns a single run.
func (r *Repository) Get(ctx context.Context, id string) (*Run, error) {
	var run Run
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}
	return &run, nil
}
