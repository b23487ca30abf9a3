package usecase

import "fmt"

// Stage names recorded on failed jobs.
const (
	StageScoring   = "Scoring"
	StageTailoring = "Tailoring"
	StageEmail     = "Email"
)

// StageError tags a failure with the pipeline stage it happened in. The
// rendered form ("Scoring: ...") is what lands in the job record's error
// field.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
