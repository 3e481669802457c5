package dto

import "github.com/google/uuid"

// SendMessageRequest posts a chat message into a post's room. Nickname and
// icon are snapshots supplied by the sender's session at send time, matching
// the denormalized message rows.
type SendMessageRequest struct {
	UserID   uuid.UUID `json:"user_id" binding:"required"`
	Nickname string    `json:"nickname" binding:"required"`
	Icon     string    `json:"icon" binding:"required"`
	Message  string    `json:"message" binding:"required"`
}
