package domain

import (
	"time"

	"github.com/google/uuid"
)

// Schedule is a user's daily auto-search configuration. At most one exists
// per user; the enabled flag must stay in sync with the trigger registry.
type Schedule struct {
	UserID         uuid.UUID  `json:"user_id"`
	Keywords       string     `json:"keywords"`
	Location       string     `json:"location"`
	Platforms      []string   `json:"platforms"`
	ResultsPerSite int        `json:"results_per_site"`
	HoursOld       int        `json:"hours_old"`
	AutoPipeline   bool       `json:"auto_pipeline"`
	RunTime        string     `json:"run_time"` // "HH:MM", UTC
	Enabled        bool       `json:"enabled"`
	LastRun        *time.Time `json:"last_run"`
}

