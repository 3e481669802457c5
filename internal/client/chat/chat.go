// Package chat implements a per-post chatroom: the ordered message list,
// the send path with draft preservation, and the participation side effect
// of entering a room. New messages arrive only through the change-feed
// subscription, so a sent message appears exactly once with no speculative
// local append.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/AngelaEmileJose/KNU-Link/internal/app/models"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/apperrors"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/realtime"
)

// ErrNoUser is returned by Send when no signed-in user backs the room.
var ErrNoUser = fmt.Errorf("chat: no signed-in user")

// Store is the persistence surface the chatroom needs.
type Store interface {
	// GetPost returns the post, or a NotFound-class error when absent.
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	// ListMessages returns the room's messages in created_at ascending order.
	ListMessages(ctx context.Context, postID int64) ([]models.Message, error)
	// SendMessage appends a message carrying the sender's profile snapshot.
	SendMessage(ctx context.Context, postID int64, sender *models.Profile, text string) (*models.Message, error)
	// JoinPost records a participation. Duplicate joins return a Conflict.
	JoinPost(ctx context.Context, postID int64, userID uuid.UUID) error
}

// Controller owns the state of one mounted chatroom view.
type Controller struct {
	store  Store
	rt     realtime.Subscriber
	user   *models.Profile
	logger zerolog.Logger

	mu       sync.Mutex
	post     *models.Post
	messages []models.Message
	draft    string
	sub      realtime.Subscription
	watching sync.WaitGroup
}

// NewController creates a chat controller for the signed-in user.
func NewController(store Store, rt realtime.Subscriber, user *models.Profile, logger zerolog.Logger) *Controller {
	return &Controller{
		store:  store,
		rt:     rt,
		user:   user,
		logger: logger.With().Str("component", "chat").Logger(),
	}
}

// Open loads the room: post lookup, message history, participation, and
// the filtered message subscription. A NotFound error from the post lookup
// is returned as-is so the view can render its not-found state.
func (c *Controller) Open(ctx context.Context, postID int64) error {
	post, err := c.store.GetPost(ctx, postID)
	if err != nil {
		return err
	}

	history, err := c.store.ListMessages(ctx, postID)
	if err != nil {
		return err
	}

	// Entering the room registers participation. Already-joined conflicts
	// and any other failure here are side effects: log, never surface.
	if c.user != nil {
		if err := c.store.JoinPost(ctx, postID, c.user.ID); err != nil {
			if apperrors.IsConflict(err) {
				c.logger.Debug().Int64("postId", postID).Msg("Already joined post")
			} else {
				c.logger.Warn().Err(err).Int64("postId", postID).Msg("Failed to record participation")
			}
		}
	}

	filter := &realtime.Filter{Column: "post_id", Value: strconv.FormatInt(postID, 10)}
	sub, err := c.rt.Subscribe(realtime.TableMessages, []realtime.Operation{realtime.OpInsert}, filter)
	if err != nil {
		return fmt.Errorf("chat: failed to subscribe to messages: %w", err)
	}

	c.mu.Lock()
	c.post = post
	c.messages = history
	c.sub = sub
	c.mu.Unlock()

	c.watching.Add(1)
	go func() {
		defer c.watching.Done()
		for event := range sub.Events() {
			c.appendEvent(event)
		}
	}()

	return nil
}

// appendEvent merges one INSERT event into the message list. The feed is
// chronological and in-order per subscription, so the merge is a plain
// append with no re-sort.
func (c *Controller) appendEvent(event realtime.Event) {
	var message models.Message
	if err := json.Unmarshal(event.Record, &message); err != nil {
		c.logger.Warn().Err(err).Msg("Discarding undecodable message event")
		return
	}

	c.mu.Lock()
	c.messages = append(c.messages, message)
	c.mu.Unlock()
}

// Post returns the loaded post, nil before a successful Open.
func (c *Controller) Post() *models.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.post
}

// Messages returns a snapshot of the room's messages in display order.
func (c *Controller) Messages() []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// SetDraft replaces the input box contents.
func (c *Controller) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = text
}

// Draft returns the current input box contents.
func (c *Controller) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Send submits the current draft. The input clears immediately; if the
// store write fails, the draft is restored so the user keeps what they
// typed, the error is reported, and nothing is retried. The sent message
// is not appended locally: it arrives back through the subscription like
// everyone else's.
func (c *Controller) Send(ctx context.Context) error {
	c.mu.Lock()
	text := strings.TrimSpace(c.draft)
	if text == "" {
		c.mu.Unlock()
		return nil
	}
	if c.user == nil {
		c.mu.Unlock()
		return ErrNoUser
	}
	if c.post == nil {
		c.mu.Unlock()
		return apperrors.ErrPostNotFound
	}
	original := c.draft
	postID := c.post.ID
	c.draft = ""
	c.mu.Unlock()

	if _, err := c.store.SendMessage(ctx, postID, c.user, text); err != nil {
		c.mu.Lock()
		c.draft = original
		c.mu.Unlock()
		return err
	}
	return nil
}

// Close unsubscribes from the change feed before the view tears down.
func (c *Controller) Close() {
	c.mu.Lock()
	sub := c.sub
	c.sub = nil
	c.mu.Unlock()

	if sub != nil {
		sub.Close()
	}
	c.watching.Wait()
}
