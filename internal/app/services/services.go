package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AngelaEmileJose/KNU-Link/internal/app/models"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/realtime"
)

// Services defined in this package:
// - ProfileService: pseudonymous registration and student-ID lookup
// - PostService: the activity feed, post creation and the expiration sweep
// - ChatService: per-post message rooms and participation tracking

// The store interfaces below are what each service depends on; the concrete
// pgx repositories satisfy them, and tests substitute in-memory fakes.

// ProfileStore is the persistence surface for profiles.
type ProfileStore interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByStudentID(ctx context.Context, studentID string) (*models.Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

// PostStore is the persistence surface for activity posts.
type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	ListActive(ctx context.Context, category models.Category, now time.Time) ([]*models.Post, error)
	ListJoinedByUser(ctx context.Context, userID uuid.UUID) ([]*models.Post, error)
	DeleteExpired(ctx context.Context, now time.Time) ([]*models.Post, error)
}

// ParticipationStore is the persistence surface for participations.
type ParticipationStore interface {
	Create(ctx context.Context, participation *models.Participation) error
}

// MessageStore is the persistence surface for chat messages.
type MessageStore interface {
	Create(ctx context.Context, message *models.Message) error
	ListByPost(ctx context.Context, postID int64) ([]*models.Message, error)
}

// ChangePublisher receives a row-change notification after every successful
// write. The realtime hub implements it.
type ChangePublisher interface {
	PublishChange(table string, op realtime.Operation, record interface{})
}
