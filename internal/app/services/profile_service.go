package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/AngelaEmileJose/KNU-Link/internal/app/models"
	"github.com/AngelaEmileJose/KNU-Link/internal/app/models/dto"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/apperrors"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/icon"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/realtime"
)

// ProfileService defines the interface for profile operations
type ProfileService interface {
	Lookup(ctx context.Context, studentID string) (*models.Profile, error)
	Register(ctx context.Context, req *dto.RegisterProfileRequest) (*models.Profile, error)
}

// profileServiceImpl implements ProfileService
type profileServiceImpl struct {
	profiles  ProfileStore
	publisher ChangePublisher
	logger    zerolog.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(profiles ProfileStore, publisher ChangePublisher, logger zerolog.Logger) ProfileService {
	return &profileServiceImpl{
		profiles:  profiles,
		publisher: publisher,
		logger:    logger,
	}
}

// Lookup finds the profile registered under a student ID. Looking up the
// same ID twice always yields the same profile; the student_id unique
// constraint makes the result at most one row.
func (s *profileServiceImpl) Lookup(ctx context.Context, studentID string) (*models.Profile, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, apperrors.NewBadRequestError("student ID is required")
	}

	return s.profiles.GetByStudentID(ctx, studentID)
}

// Register creates a new pseudonymous profile. Gender defaults to male when
// unset. A duplicate student ID surfaces as Conflict rather than silently
// producing a second row; arbitration between racing devices is entirely
// the store's uniqueness constraint.
func (s *profileServiceImpl) Register(ctx context.Context, req *dto.RegisterProfileRequest) (*models.Profile, error) {
	studentID := strings.TrimSpace(req.StudentID)
	nickname := strings.TrimSpace(req.Nickname)
	if studentID == "" || nickname == "" {
		return nil, apperrors.NewBadRequestError("student ID and nickname are required")
	}

	gender := models.Gender(req.Gender)
	if gender == "" {
		gender = models.GenderMale
	}
	if !gender.Valid() {
		return nil, apperrors.NewBadRequestError("unknown gender value")
	}

	profile := &models.Profile{
		StudentID: studentID,
		Nickname:  nickname,
		Gender:    gender,
		Icon:      icon.Parse(req.Icon),
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("profileID", profile.ID.String()).
		Msg("Profile registered")

	s.publisher.PublishChange(realtime.TableProfiles, realtime.OpInsert, profile)

	return profile, nil
}
