package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/icon"
)

// Category classifies an activity post.
type Category string

const (
	CategorySocial Category = "social"
	CategoryStudy  Category = "study"
	CategorySports Category = "sports"
	CategoryFood   Category = "food"
	CategoryOther  Category = "other"

	// CategoryAll is not a stored value; it widens a feed query to every
	// category.
	CategoryAll Category = "all"
)

// Valid reports whether c is a storable category value.
func (c Category) Valid() bool {
	switch c {
	case CategorySocial, CategoryStudy, CategorySports, CategoryFood, CategoryOther:
		return true
	}
	return false
}

// Post represents an activity announcement based on the 'posts' table.
// Nickname and icon are copied from the author's profile at creation time
// and intentionally do not track later profile state (anonymity snapshot).
// There is no update path: a post is created, read, and eventually deleted
// by the expiration sweep.
type Post struct {
	ID             int64      `json:"id" db:"id"`
	UserID         uuid.UUID  `json:"user_id" db:"user_id"`
	Nickname       string     `json:"nickname" db:"nickname"`
	Icon           icon.Icon  `json:"icon" db:"icon"`
	Activity       string     `json:"activity" db:"activity"`
	Category       Category   `json:"category" db:"category"`
	Time           string     `json:"time" db:"time"`
	Location       *string    `json:"location,omitempty" db:"location"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty" db:"expiration_date"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// Active reports whether the post has not expired as of now. A nil
// expiration date means the post never expires.
func (p *Post) Active(now time.Time) bool {
	return p.ExpirationDate == nil || p.ExpirationDate.After(now)
}
