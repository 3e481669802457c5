// Package feed implements the swipeable activity feed: an ordered list of
// active posts, a cursor over that list, a category filter, and the swipe
// gesture interpreter. The list refetches in full on every posts change
// event, trading efficiency for correctness under edits, category switches,
// and expirations.
package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/AngelaEmileJose/KNU-Link/internal/app/models"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/apperrors"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/realtime"
)

// CreatePostInput carries the user-entered fields of a new post. The
// author's nickname and icon are snapshotted server-side from the profile.
type CreatePostInput struct {
	Activity       string
	Category       models.Category
	Time           string
	Location       *string
	ExpirationDate *time.Time
}

// Store is the persistence surface the feed needs.
type Store interface {
	// ListActivePosts returns active posts for the category (CategoryAll
	// widens to every category), newest first.
	ListActivePosts(ctx context.Context, category models.Category) ([]models.Post, error)
	// JoinPost records a participation. Duplicate joins return a Conflict.
	JoinPost(ctx context.Context, postID int64, userID uuid.UUID) error
	// CreatePost publishes a new activity post for the user.
	CreatePost(ctx context.Context, userID uuid.UUID, input CreatePostInput) (*models.Post, error)
}

// Controller owns the feed state for one mounted feed view.
type Controller struct {
	store  Store
	rt     realtime.Subscriber
	user   *models.Profile
	logger zerolog.Logger
	now    func() time.Time

	mu       sync.Mutex
	posts    []models.Post
	cursor   int
	category models.Category
	swiper   Swiper
	sub      realtime.Subscription
	watching sync.WaitGroup
}

// NewController creates a feed controller for the signed-in user.
func NewController(store Store, rt realtime.Subscriber, user *models.Profile, logger zerolog.Logger) *Controller {
	return &Controller{
		store:    store,
		rt:       rt,
		user:     user,
		logger:   logger.With().Str("component", "feed").Logger(),
		now:      time.Now,
		category: models.CategoryAll,
	}
}

// Open loads the feed and subscribes to posts changes. Every change event
// triggers a full refetch.
func (c *Controller) Open(ctx context.Context) error {
	if err := c.reload(ctx); err != nil {
		return err
	}

	sub, err := c.rt.Subscribe(realtime.TablePosts, nil, nil)
	if err != nil {
		return fmt.Errorf("feed: failed to subscribe to posts changes: %w", err)
	}

	c.mu.Lock()
	c.sub = sub
	c.mu.Unlock()

	c.watching.Add(1)
	go func() {
		defer c.watching.Done()
		for range sub.Events() {
			if err := c.reload(context.Background()); err != nil {
				c.logger.Warn().Err(err).Msg("Feed refetch after change event failed")
			}
		}
	}()

	return nil
}

// reload fetches the filtered post list and drops any post whose
// expiration has passed by local read time. The cursor is clamped so a
// shrinking list never strands it past the end.
func (c *Controller) reload(ctx context.Context) error {
	c.mu.Lock()
	category := c.category
	c.mu.Unlock()

	fetched, err := c.store.ListActivePosts(ctx, category)
	if err != nil {
		return err
	}

	now := c.now()
	active := make([]models.Post, 0, len(fetched))
	for _, post := range fetched {
		if post.Active(now) {
			active = append(active, post)
		}
	}

	c.mu.Lock()
	c.posts = active
	if c.cursor > len(active) {
		c.cursor = len(active)
	}
	c.mu.Unlock()
	return nil
}

// Posts returns a snapshot of the loaded post list.
func (c *Controller) Posts() []models.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Post, len(c.posts))
	copy(out, c.posts)
	return out
}

// Cursor returns the zero-based index of the current card.
func (c *Controller) Cursor() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

// Current returns the post under the cursor, or false when the feed is
// exhausted.
func (c *Controller) Current() (models.Post, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cursor >= len(c.posts) {
		return models.Post{}, false
	}
	return c.posts[c.cursor], true
}

// Exhausted reports whether the cursor has passed the last post. The view
// renders a terminal "all caught up" state offering create-new or Restart.
func (c *Controller) Exhausted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor >= len(c.posts)
}

// Category returns the active category filter.
func (c *Controller) Category() models.Category {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.category
}

// SetCategory switches the filter, resets the cursor to the first card,
// and reloads.
func (c *Controller) SetCategory(ctx context.Context, category models.Category) error {
	if category != models.CategoryAll && !category.Valid() {
		return apperrors.NewBadRequestError("invalid category filter")
	}

	c.mu.Lock()
	c.category = category
	c.cursor = 0
	c.swiper.Reset()
	c.mu.Unlock()

	return c.reload(ctx)
}

// Restart rewinds the exhausted feed back to the first card.
func (c *Controller) Restart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cursor = 0
	c.swiper.Reset()
}

// PointerDown begins a drag on the top card.
func (c *Controller) PointerDown(x float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.swiper.PointerDown(x)
}

// PointerMove updates the drag offset.
func (c *Controller) PointerMove(x float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.swiper.PointerMove(x)
}

// Offset returns the current drag offset for rendering.
func (c *Controller) Offset() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.swiper.Offset()
}

// PointerUp releases the drag and dispatches any committed direction. A
// right commit returns the joined post so the view can navigate to its
// chatroom; a left commit or an uncommitted release returns nil.
func (c *Controller) PointerUp(ctx context.Context) (Direction, *models.Post) {
	c.mu.Lock()
	dir := c.swiper.PointerUp()
	c.mu.Unlock()
	return dir, c.dispatch(ctx, dir)
}

// Skip commits a left swipe without pointer input.
func (c *Controller) Skip(ctx context.Context) {
	c.mu.Lock()
	dir := c.swiper.Skip()
	c.mu.Unlock()
	c.dispatch(ctx, dir)
}

// Join commits a right swipe without pointer input and returns the joined
// post for navigation, or nil when the feed is exhausted.
func (c *Controller) Join(ctx context.Context) *models.Post {
	c.mu.Lock()
	dir := c.swiper.Join()
	c.mu.Unlock()
	return c.dispatch(ctx, dir)
}

func (c *Controller) dispatch(ctx context.Context, dir Direction) *models.Post {
	switch dir {
	case DirectionLeft:
		c.commitLeft()
		return nil
	case DirectionRight:
		return c.commitRight(ctx)
	default:
		return nil
	}
}

// commitLeft advances the cursor unless the current card is the last one,
// then clears the committed direction. Persisted state is never touched.
func (c *Controller) commitLeft() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cursor < len(c.posts)-1 {
		c.cursor++
	}
	c.swiper.Reset()
}

// commitRight joins the current post's chatroom and returns the post so
// the view navigates there. The cursor stays put since navigation leaves
// the feed. A Conflict means already joined and is logged, not surfaced;
// any other join failure is a background side effect and must not block
// the navigation either.
func (c *Controller) commitRight(ctx context.Context) *models.Post {
	c.mu.Lock()
	if c.cursor >= len(c.posts) {
		c.swiper.Reset()
		c.mu.Unlock()
		return nil
	}
	post := c.posts[c.cursor]
	c.swiper.Reset()
	c.mu.Unlock()

	if err := c.store.JoinPost(ctx, post.ID, c.user.ID); err != nil {
		if apperrors.IsConflict(err) {
			c.logger.Debug().Int64("postId", post.ID).Msg("Already joined post")
		} else {
			c.logger.Warn().Err(err).Int64("postId", post.ID).Msg("Failed to record participation")
		}
	}
	return &post
}

// CreatePost publishes a new activity for the signed-in user. The list
// updates through the posts subscription rather than a local insert.
func (c *Controller) CreatePost(ctx context.Context, input CreatePostInput) (*models.Post, error) {
	return c.store.CreatePost(ctx, c.user.ID, input)
}

// Close unsubscribes from the change feed before the view tears down, so
// no event lands in stale state.
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
