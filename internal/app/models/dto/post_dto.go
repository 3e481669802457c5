package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreatePostRequest publishes a new activity to the feed. Nickname and icon
// are not part of the request; the server snapshots them from the author's
// profile at creation time.
type CreatePostRequest struct {
	UserID         uuid.UUID  `json:"user_id" binding:"required"`
	Activity       string     `json:"activity" binding:"required"`
	Category       string     `json:"category" binding:"required,oneof=social study sports food other"`
	Time           string     `json:"time" binding:"required"`
	Location       *string    `json:"location,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

// ListPostsRequest filters the feed query.
type ListPostsRequest struct {
	Category string `form:"category" binding:"omitempty,oneof=all social study sports food other"`
}

// JoinPostRequest records a participation for the calling user.
type JoinPostRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}
