package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AngelaEmileJose/KNU-Link/internal/app/models"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/apperrors"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/dberrors"
)

// ParticipationPairConstraint is the unique constraint enforcing at most one
// participation row per (user, post) pair.
const ParticipationPairConstraint = "participations_user_id_post_id_key"

// ParticipationRepository handles database operations for participations
type ParticipationRepository struct {
	db *pgxpool.Pool
}

// NewParticipationRepository creates a new ParticipationRepository
func NewParticipationRepository(db *pgxpool.Pool) *ParticipationRepository {
	return &ParticipationRepository{db: db}
}

// Create inserts a participation edge. Clients call this without checking
// whether the row already exists; a duplicate pair returns
// apperrors.ErrAlreadyJoined, which callers swallow as "already joined".
func (r *ParticipationRepository) Create(ctx context.Context, participation *models.Participation) error {
	query := `
		INSERT INTO participations (user_id, post_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		participation.UserID,
		participation.PostID,
	).Scan(&participation.ID, &participation.CreatedAt)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, ParticipationPairConstraint) {
			return apperrors.ErrAlreadyJoined
		}
		return fmt.Errorf("error creating participation: %w", err)
	}

	return nil
}
