package history

import "time"

// Run statuses.
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Run is one directory upload recorded in the journal.
type Run struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	Source     string     `gorm:"size:1024" json:"source"`
	Container  string     `gorm:"size:255;index" json:"container"`
	Prefix     string     `gorm:"size:1024" json:"prefix"`
	Provider   string     `gorm:"size:32" json:"provider"`
	Status     string     `gorm:"size:16;index" json:"status"`
	Files      int        `json:"files"`
	Bytes      int64      `json:"bytes"`
	Conflicts  int        `json:"conflicts"`
	Skipped    int        `json:"skipped"`
	Error      string     `gorm:"type:text" json:"error,omitempty"`
	StartedAt  time.Time  `gorm:"index" json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// TableName overrides the gorm table name.
func (Run) TableName() string {
	return "upload_runs"
}

// Outcome is the final state written by Finish.
type Outcome struct {
	Files     int
	Bytes     int64
	Conflicts int
	Skipped   int
	Err       error
}
