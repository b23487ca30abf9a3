package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidTransition(t *testing.T) {
	cases := []struct {
		name string
		from JobStatus
		to   JobStatus
		ok   bool
	}{
		{"queued to scoring", StatusQueued, StatusScoring, true},
		{"scoring to tailoring", StatusScoring, StatusTailoring, true},
		{"scoring to below threshold", StatusScoring, StatusBelowThreshold, true},
		{"scoring to scored (score-only run)", StatusScoring, StatusScored, true},
		{"scoring to error", StatusScoring, StatusError, true},
		{"tailoring to emailing", StatusTailoring, StatusEmailing, true},
		{"tailoring to error", StatusTailoring, StatusError, true},
		{"emailing to emailed", StatusEmailing, StatusEmailed, true},
		{"emailing to scored (send skipped)", StatusEmailing, StatusScored, true},
		{"emailing to error", StatusEmailing, StatusError, true},

		{"no skipping the gate", StatusQueued, StatusTailoring, false},
		{"no regressing to queued", StatusScoring, StatusQueued, false},
		{"no regressing from emailing", StatusEmailing, StatusScoring, false},
		{"error is terminal", StatusError, StatusScoring, false},
		{"emailed is terminal", StatusEmailed, StatusEmailing, false},
		{"below threshold is terminal", StatusBelowThreshold, StatusTailoring, false},
		{"scored is terminal", StatusScored, StatusEmailing, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.ok, ValidTransition(tc.from, tc.to))
		})
	}
}

func TestTerminalStatus(t *testing.T) {
	for _, s := range []JobStatus{StatusBelowThreshold, StatusScored, StatusEmailed, StatusError} {
		assert.True(t, TerminalStatus(s), "expected %s to be terminal", s)
	}
	for _, s := range []JobStatus{StatusQueued, StatusScoring, StatusTailoring, StatusEmailing} {
		assert.False(t, TerminalStatus(s), "expected %s to be active", s)
	}
}

func TestApplyMergesOnlyProvidedFields(t *testing.T) {
	score := 82
	reasoning := "strong overlap"
	job := &Job{
		Status:    StatusScoring,
		Reasoning: nil,
	}

	now := time.Now().UTC()
	job.Apply(JobUpdate{MatchScore: &score, Reasoning: &reasoning}, now)

	require.NotNil(t, job.MatchScore)
	assert.Equal(t, 82, *job.MatchScore)
	assert.Equal(t, "strong overlap", *job.Reasoning)
	assert.Equal(t, StatusScoring, job.Status, "status must stay untouched when not in the update")
	assert.Nil(t, job.CoverLetter)
	assert.Equal(t, now, job.UpdatedAt)
}

func TestApplyIsIdempotent(t *testing.T) {
	score := 90
	status := StatusTailoring
	upd := JobUpdate{Status: &status, MatchScore: &score, MissingSkills: []string{"Go", "Kubernetes"}}

	a := &Job{Status: StatusScoring}
	b := &Job{Status: StatusScoring}

	t0 := time.Now().UTC()
	a.Apply(upd, t0)
	b.Apply(upd, t0)
	b.Apply(upd, t0.Add(time.Second))

	// Applying the same update twice must leave every field equal aside
	// from the updated-at bump.
	b.UpdatedAt = a.UpdatedAt
	assert.Equal(t, a, b)
}
