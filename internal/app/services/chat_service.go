package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/AngelaEmileJose/KNU-Link/internal/app/models"
	"github.com/AngelaEmileJose/KNU-Link/internal/app/models/dto"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/apperrors"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/icon"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/realtime"
)

// ChatService defines the interface for chatroom operations
type ChatService interface {
	Messages(ctx context.Context, postID int64) ([]*models.Message, error)
	Send(ctx context.Context, postID int64, req *dto.SendMessageRequest) (*models.Message, error)
	Join(ctx context.Context, postID int64, userID uuid.UUID) error
}

// chatServiceImpl implements ChatService
type chatServiceImpl struct {
	messages       MessageStore
	participations ParticipationStore
	posts          PostStore
	publisher      ChangePublisher
	logger         zerolog.Logger
}

// NewChatService creates a new ChatService
func NewChatService(
	messages MessageStore,
	participations ParticipationStore,
	posts PostStore,
	publisher ChangePublisher,
	logger zerolog.Logger,
) ChatService {
	return &chatServiceImpl{
		messages:       messages,
		participations: participations,
		posts:          posts,
		publisher:      publisher,
		logger:         logger,
	}
}

// Messages returns a post's full message log in created_at ascending order.
// The post must exist; a missing post is NotFound, never an empty room.
func (s *chatServiceImpl) Messages(ctx context.Context, postID int64) ([]*models.Message, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	return s.messages.ListByPost(ctx, postID)
}

// Send appends an immutable message to a post's room and publishes the
// insert on the messages change feed. Every connected room member,
// including the sender, receives the message through that feed.
func (s *chatServiceImpl) Send(ctx context.Context, postID int64, req *dto.SendMessageRequest) (*models.Message, error) {
	text := strings.TrimSpace(req.Message)
	if text == "" {
		return nil, apperrors.NewBadRequestError("message text is required")
	}

	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	message := &models.Message{
		PostID:   postID,
		UserID:   req.UserID,
		Nickname: req.Nickname,
		Icon:     icon.Parse(req.Icon),
		Message:  text,
	}

	if err := s.messages.Create(ctx, message); err != nil {
		return nil, err
	}

	s.publisher.PublishChange(realtime.TableMessages, realtime.OpInsert, message)

	return message, nil
}

// Join records that the user entered the post's chatroom. A duplicate
// (user, post) pair returns apperrors.ErrAlreadyJoined; callers decide
// whether that is worth surfacing (it never is, for the primary flows).
func (s *chatServiceImpl) Join(ctx context.Context, postID int64, userID uuid.UUID) error {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return err
	}

	participation := &models.Participation{
		UserID: userID,
		PostID: postID,
	}

	if err := s.participations.Create(ctx, participation); err != nil {
		return err
	}

	s.logger.Debug().
		Int64("postID", postID).
		Str("userID", userID.String()).
		Msg("Participation recorded")

	s.publisher.PublishChange(realtime.TableParticipations, realtime.OpInsert, participation)

	return nil
}
