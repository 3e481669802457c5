package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/AngelaEmileJose/KNU-Link/internal/app/models"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/icon"
)

// RegisterProfileRequest creates a new pseudonymous profile. The gender
// field is optional and defaults to "male" when unset, matching the
// onboarding wizard's register step.
type RegisterProfileRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	Nickname  string `json:"nickname" binding:"required"`
	Gender    string `json:"gender" binding:"omitempty,oneof=male female other"`
	Icon      string `json:"icon" binding:"required"`
}

// ProfileResponse is the wire form of a profile.
type ProfileResponse struct {
	ID        uuid.UUID `json:"id"`
	StudentID string    `json:"student_id"`
	Nickname  string    `json:"nickname"`
	Gender    string    `json:"gender"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
}

// NewProfileResponse maps a profile model to its wire form.
func NewProfileResponse(p *models.Profile) ProfileResponse {
	return ProfileResponse{
		ID:        p.ID,
		StudentID: p.StudentID,
		Nickname:  p.Nickname,
		Gender:    string(p.Gender),
		Icon:      p.Icon.String(),
		CreatedAt: p.CreatedAt,
	}
}

// Model converts the response back into a profile model. The client-side
// session store round-trips profiles through this form.
func (r ProfileResponse) Model() *models.Profile {
	return &models.Profile{
		ID:        r.ID,
		StudentID: r.StudentID,
		Nickname:  r.Nickname,
		Gender:    models.Gender(r.Gender),
		Icon:      icon.Parse(r.Icon),
		CreatedAt: r.CreatedAt,
	}
}
