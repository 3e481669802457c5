package models

import (
	"time"

	"github.com/google/uuid"
)

// Participation records that a user has entered a post's chatroom, based on
// the 'participations' table. The (user_id, post_id) pair carries a unique
// constraint (participations_user_id_post_id_key); clients insert without a
// pre-check and treat the resulting Conflict as "already joined".
// Append-only: rows are never updated or deleted.
type Participation struct {
	ID        int64     `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	PostID    int64     `json:"post_id" db:"post_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
