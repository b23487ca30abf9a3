package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultMatchThreshold is the score gate applied until a user configures
// their own.
const DefaultMatchThreshold = 75

type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	HashedPassword string    `json:"-"`
	MatchThreshold int       `json:"match_threshold"`
	ResumeText     string    `json:"-"`
	ResumeFilename string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// HasResume reports whether the user has uploaded a resume.
func (u *User) HasResume() bool {
	return u.ResumeText != ""
}

// ClampThreshold forces a threshold into the valid 0..100 range.
func ClampThreshold(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
