// Package api is the HTTP deployment wiring for the client controllers:
// a store client speaking the REST surface and a WebSocket change-feed
// subscriber. Error statuses map back onto the apperrors classes so the
// controllers' conflict and not-found handling works identically against
// the live backend and the in-memory test fakes.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/AngelaEmileJose/KNU-Link/internal/app/models"
	"github.com/AngelaEmileJose/KNU-Link/internal/app/models/dto"
	"github.com/AngelaEmileJose/KNU-Link/internal/client/feed"
	"github.com/AngelaEmileJose/KNU-Link/internal/client/onboarding"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/apperrors"
)

// Client calls the REST API. It implements the store interfaces of the
// feed, chat, and onboarding controllers.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient creates a store client for the API at baseURL, e.g.
// "http://localhost:8080".
func NewClient(baseURL string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger.With().Str("component", "api-client").Logger(),
	}
}

// envelope mirrors dto.APIResponse with the payload left raw for the
// caller to decode.
type envelope struct {
	Success bool             `json:"success"`
	Data    json.RawMessage  `json:"data"`
	Error   *dto.ErrorDetail `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("api: failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("api: failed to decode response: %w", err)
	}

	if resp.StatusCode >= 400 || !env.Success {
		return c.classify(resp.StatusCode, env.Error)
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("api: failed to decode payload: %w", err)
		}
	}
	return nil
}

// classify maps an error response to the apperrors taxonomy: 404 is the
// NotFound class, 409 the Conflict class, anything else a surfaced
// failure.
func (c *Client) classify(status int, detail *dto.ErrorDetail) error {
	message := "request failed"
	if detail != nil && detail.Message != "" {
		message = detail.Message
	}

	switch status {
	case http.StatusNotFound:
		return apperrors.NewNotFoundError(message)
	case http.StatusConflict:
		return apperrors.NewConflictError(message)
	case http.StatusBadRequest:
		return apperrors.NewBadRequestError(message)
	default:
		return fmt.Errorf("api: %s (status %d)", message, status)
	}
}

// ProfileByStudentID implements onboarding.Store.
func (c *Client) ProfileByStudentID(ctx context.Context, studentID string) (*models.Profile, error) {
	var resp dto.ProfileResponse
	path := "/api/v1/profiles/" + url.PathEscape(studentID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Model(), nil
}

// RegisterProfile implements onboarding.Store.
func (c *Client) RegisterProfile(ctx context.Context, input onboarding.RegisterInput) (*models.Profile, error) {
	req := dto.RegisterProfileRequest{
		StudentID: input.StudentID,
		Nickname:  input.Nickname,
		Gender:    string(input.Gender),
		Icon:      input.Icon.String(),
	}

	var resp dto.ProfileResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/profiles", req, &resp); err != nil {
		return nil, err
	}
	return resp.Model(), nil
}

// ListActivePosts implements feed.Store.
func (c *Client) ListActivePosts(ctx context.Context, category models.Category) ([]models.Post, error) {
	path := "/api/v1/posts"
	if category != "" && category != models.CategoryAll {
		path += "?category=" + url.QueryEscape(string(category))
	}

	var posts []models.Post
	if err := c.do(ctx, http.MethodGet, path, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost implements chat.Store.
func (c *Client) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodGet, "/api/v1/posts/"+strconv.FormatInt(id, 10), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// CreatePost implements feed.Store.
func (c *Client) CreatePost(ctx context.Context, userID uuid.UUID, input feed.CreatePostInput) (*models.Post, error) {
	req := dto.CreatePostRequest{
		UserID:         userID,
		Activity:       input.Activity,
		Category:       string(input.Category),
		Time:           input.Time,
		Location:       input.Location,
		ExpirationDate: input.ExpirationDate,
	}

	var post models.Post
	if err := c.do(ctx, http.MethodPost, "/api/v1/posts", req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// JoinPost implements feed.Store and chat.Store. A duplicate join comes
// back as a Conflict-class error for the caller to swallow.
func (c *Client) JoinPost(ctx context.Context, postID int64, userID uuid.UUID) error {
	path := "/api/v1/posts/" + strconv.FormatInt(postID, 10) + "/participations"
	return c.do(ctx, http.MethodPost, path, dto.JoinPostRequest{UserID: userID}, nil)
}

// ListMessages implements chat.Store.
func (c *Client) ListMessages(ctx context.Context, postID int64) ([]models.Message, error) {
	path := "/api/v1/posts/" + strconv.FormatInt(postID, 10) + "/messages"

	var messages []models.Message
	if err := c.do(ctx, http.MethodGet, path, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage implements chat.Store. The sender's nickname and icon ride
// along as the denormalized snapshot stored on the message row.
func (c *Client) SendMessage(ctx context.Context, postID int64, sender *models.Profile, text string) (*models.Message, error) {
	req := dto.SendMessageRequest{
		UserID:   sender.ID,
		Nickname: sender.Nickname,
		Icon:     sender.Icon.String(),
		Message:  text,
	}

	var message models.Message
	path := "/api/v1/posts/" + strconv.FormatInt(postID, 10) + "/messages"
	if err := c.do(ctx, http.MethodPost, path, req, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

// JoinedPosts returns the posts whose chatrooms the student has entered,
// backing the "my chats" listing.
func (c *Client) JoinedPosts(ctx context.Context, studentID string) ([]models.Post, error) {
	path := "/api/v1/profiles/" + url.PathEscape(studentID) + "/joined"

	var posts []models.Post
	if err := c.do(ctx, http.MethodGet, path, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
