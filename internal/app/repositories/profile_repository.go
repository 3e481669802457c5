package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AngelaEmileJose/KNU-Link/internal/app/models"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/apperrors"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/dberrors"
)

// ProfileStudentIDConstraint is the unique constraint guarding one profile
// per student ID. It is the only arbitration for concurrent registration.
const ProfileStudentIDConstraint = "profiles_student_id_key"

// ProfileRepository handles database operations for profiles
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create inserts a new profile, letting the database generate the id.
// A duplicate student ID returns apperrors.ErrStudentIDAlreadyExists.
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (student_id, nickname, gender, icon)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		profile.StudentID,
		profile.Nickname,
		profile.Gender,
		profile.Icon,
	).Scan(&profile.ID, &profile.CreatedAt)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, ProfileStudentIDConstraint) {
			return apperrors.ErrStudentIDAlreadyExists
		}
		return fmt.Errorf("error creating profile: %w", err)
	}

	return nil
}

// GetByStudentID retrieves the profile registered under a student ID. The
// unique constraint guarantees at most one row; an empty result returns
// apperrors.ErrProfileNotFound.
func (r *ProfileRepository) GetByStudentID(ctx context.Context, studentID string) (*models.Profile, error) {
	query := `
		SELECT id, student_id, nickname, gender, icon, created_at
		FROM profiles
		WHERE student_id = $1
	`

	var profile models.Profile
	err := r.db.QueryRow(ctx, query, studentID).Scan(
		&profile.ID,
		&profile.StudentID,
		&profile.Nickname,
		&profile.Gender,
		&profile.Icon,
		&profile.CreatedAt,
	)

	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("error retrieving profile: %w", err)
	}

	return &profile, nil
}

// GetByID retrieves a profile by its server-generated identifier.
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	query := `
		SELECT id, student_id, nickname, gender, icon, created_at
		FROM profiles
		WHERE id = $1
	`

	var profile models.Profile
	err := r.db.QueryRow(ctx, query, id).Scan(
		&profile.ID,
		&profile.StudentID,
		&profile.Nickname,
		&profile.Gender,
		&profile.Icon,
		&profile.CreatedAt,
	)

	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("error retrieving profile: %w", err)
	}

	return &profile, nil
}
