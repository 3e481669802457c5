package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/icon"
)

// Message represents a chat message in a post's room, based on the
// 'messages' table. Nickname and icon are snapshots taken at send time.
// Messages are immutable and strictly ordered by created_at ascending
// within a post.
type Message struct {
	ID        int64     `json:"id" db:"id"`
	PostID    int64     `json:"post_id" db:"post_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Nickname  string    `json:"nickname" db:"nickname"`
	Icon      icon.Icon `json:"icon" db:"icon"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
