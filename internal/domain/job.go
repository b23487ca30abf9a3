package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus tracks a job through the application pipeline.
type JobStatus string

const (
	StatusQueued         JobStatus = "queued"
	StatusScoring        JobStatus = "scoring"
	StatusBelowThreshold JobStatus = "below_threshold"
	StatusTailoring      JobStatus = "tailoring"
	StatusEmailing       JobStatus = "emailing"
	StatusScored         JobStatus = "scored"
	StatusEmailed        JobStatus = "emailed"
	StatusError          JobStatus = "error"
)

// Job is one (resume, posting) pairing and its audit trail. Input fields are
// set at creation; the pipeline fields are only ever written by the pipeline
// that owns the job.
type Job struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`

	Title          string `json:"title"`
	Company        string `json:"company"`
	URL            string `json:"url"`
	Platform       string `json:"platform"`
	Location       string `json:"location"`
	DatePosted     string `json:"date_posted"`
	Resume         string `json:"resume"`
	JobDescription string `json:"job_description"`
	ApplicantName  string `json:"applicant_name"`
	RecipientEmail string `json:"recipient_email"`

	Status            JobStatus `json:"status"`
	MatchScore        *int      `json:"match_score"`
	Reasoning         *string   `json:"reasoning"`
	MissingSkills     []string  `json:"missing_skills"`
	ResumeSuggestions *string   `json:"resume_suggestions"`
	CoverLetter       *string   `json:"cover_letter"`
	Error             *string   `json:"error"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JobUpdate is a partial update of the mutable pipeline fields. Nil fields are
// left untouched, so concurrent stages only write what they own.
type JobUpdate struct {
	Status            *JobStatus
	MatchScore        *int
	Reasoning         *string
	MissingSkills     []string
	ResumeSuggestions *string
	CoverLetter       *string
	Error             *string
}

// Apply merges the update into the job and bumps UpdatedAt.
func (j *Job) Apply(u JobUpdate, now time.Time) {
	if u.Status != nil {
		j.Status = *u.Status
	}
	if u.MatchScore != nil {
		j.MatchScore = u.MatchScore
	}
	if u.Reasoning != nil {
		j.Reasoning = u.Reasoning
	}
	if u.MissingSkills != nil {
		j.MissingSkills = u.MissingSkills
	}
	if u.ResumeSuggestions != nil {
		j.ResumeSuggestions = u.ResumeSuggestions
	}
	if u.CoverLetter != nil {
		j.CoverLetter = u.CoverLetter
	}
	if u.Error != nil {
		j.Error = u.Error
	}
	j.UpdatedAt = now
}

// ValidTransition reports whether moving from one status to another follows
// the pipeline's forward-only edges. The error state is reachable from any
// active stage and, like the other terminal states, has no outgoing edges.
func ValidTransition(from, to JobStatus) bool {
	switch from {
	case StatusQueued:
		return to == StatusScoring
	case StatusScoring:
		return to == StatusBelowThreshold || to == StatusTailoring || to == StatusScored || to == StatusError
	case StatusTailoring:
		return to == StatusEmailing || to == StatusError
	case StatusEmailing:
		return to == StatusEmailed || to == StatusScored || to == StatusError
	default:
		return false
	}
}

// TerminalStatus reports whether a job in this status is done for good.
func TerminalStatus(s JobStatus) bool {
	switch s {
	case StatusBelowThreshold, StatusScored, StatusEmailed, StatusError:
		return true
	}
	return false
}
