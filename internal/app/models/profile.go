package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/icon"
)

// Gender is the self-reported gender on a profile.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Valid reports whether g is one of the known gender values.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Profile defines the pseudonymous user profile based on the 'profiles'
// table. Created once at first login; never mutated or deleted. The
// student_id column carries a unique constraint (profiles_student_id_key),
// which is the only arbitration for two devices racing on the same ID.
type Profile struct {
	ID        uuid.UUID `json:"id" db:"id"`
	StudentID string    `json:"student_id" db:"student_id"`
	Nickname  string    `json:"nickname" db:"nickname"`
	Gender    Gender    `json:"gender" db:"gender"`
	Icon      icon.Icon `json:"icon" db:"icon"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
