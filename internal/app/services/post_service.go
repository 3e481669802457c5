package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/AngelaEmileJose/KNU-Link/internal/app/models"
	"github.com/AngelaEmileJose/KNU-Link/internal/app/models/dto"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/apperrors"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/realtime"
)

// PostService defines the interface for feed operations
type PostService interface {
	ListActive(ctx context.Context, category models.Category) ([]*models.Post, error)
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	Create(ctx context.Context, req *dto.CreatePostRequest) (*models.Post, error)
	ListJoined(ctx context.Context, userID uuid.UUID) ([]*models.Post, error)
	CleanupExpired(ctx context.Context) (int, error)
}

// postServiceImpl implements PostService
type postServiceImpl struct {
	posts     PostStore
	profiles  ProfileStore
	publisher ChangePublisher
	logger    zerolog.Logger
	now       func() time.Time
}

// NewPostService creates a new PostService
func NewPostService(posts PostStore, profiles ProfileStore, publisher ChangePublisher, logger zerolog.Logger) PostService {
	return &postServiceImpl{
		posts:     posts,
		profiles:  profiles,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// ListActive returns the feed: non-expired posts, newest first, optionally
// narrowed to one category. Expired posts never appear regardless of the
// sweep's timing, because the read itself excludes them.
func (s *postServiceImpl) ListActive(ctx context.Context, category models.Category) ([]*models.Post, error) {
	if category != "" && category != models.CategoryAll && !category.Valid() {
		return nil, apperrors.NewBadRequestError("unknown category value")
	}

	return s.posts.ListActive(ctx, category, s.now())
}

// GetByID retrieves a single post.
func (s *postServiceImpl) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	return s.posts.GetByID(ctx, id)
}

// Create publishes a new activity. The author's nickname and icon are
// snapshotted from their profile here and never updated afterwards.
func (s *postServiceImpl) Create(ctx context.Context, req *dto.CreatePostRequest) (*models.Post, error) {
	activity := strings.TrimSpace(req.Activity)
	if activity == "" || strings.TrimSpace(req.Time) == "" {
		return nil, apperrors.NewBadRequestError("activity and time are required")
	}

	author, err := s.profiles.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:         author.ID,
		Nickname:       author.Nickname,
		Icon:           author.Icon,
		Activity:       activity,
		Category:       models.Category(req.Category),
		Time:           req.Time,
		Location:       req.Location,
		ExpirationDate: req.ExpirationDate,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("postID", post.ID).
		Str("category", string(post.Category)).
		Msg("Post created")

	s.publisher.PublishChange(realtime.TablePosts, realtime.OpInsert, post)

	return post, nil
}

// ListJoined returns the posts whose chatrooms the user has entered.
func (s *postServiceImpl) ListJoined(ctx context.Context, userID uuid.UUID) ([]*models.Post, error) {
	return s.posts.ListJoinedByUser(ctx, userID)
}

// CleanupExpired deletes posts past their expiration date and publishes a
// DELETE change per removed row, so feeds refetch and drop them.
func (s *postServiceImpl) CleanupExpired(ctx context.Context) (int, error) {
	deleted, err := s.posts.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}

	for _, post := range deleted {
		s.publisher.PublishChange(realtime.TablePosts, realtime.OpDelete, post)
	}

	if len(deleted) > 0 {
		s.logger.Info().
			Int("count", len(deleted)).
			Msg("Cleaned up expired posts")
	}

	return len(deleted), nil
}
