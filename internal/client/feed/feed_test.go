package feed

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/AngelaEmileJose/KNU-Link/internal/app/models"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/apperrors"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/realtime"
)

type fakeStore struct {
	mu        sync.Mutex
	posts     []models.Post
	joins     map[string]int
	joinErr   error
	listCalls chan struct{}
}

func newFakeStore(posts ...models.Post) *fakeStore {
	return &fakeStore{
		posts:     posts,
		joins:     make(map[string]int),
		listCalls: make(chan struct{}, 16),
	}
}

func (f *fakeStore) ListActivePosts(ctx context.Context, category models.Category) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Post
	for _, post := range f.posts {
		if category == "" || category == models.CategoryAll || post.Category == category {
			out = append(out, post)
		}
	}

	select {
	case f.listCalls <- struct{}{}:
	default:
	}
	return out, nil
}

func (f *fakeStore) JoinPost(ctx context.Context, postID int64, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.joinErr != nil {
		return f.joinErr
	}

	key := fmt.Sprintf("%d:%s", postID, userID)
	if f.joins[key] > 0 {
		return apperrors.NewConflictError("already joined")
	}
	f.joins[key]++
	return nil
}

func (f *fakeStore) CreatePost(ctx context.Context, userID uuid.UUID, input CreatePostInput) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	post := models.Post{
		ID:             int64(len(f.posts) + 1),
		UserID:         userID,
		Activity:       input.Activity,
		Category:       input.Category,
		Time:           input.Time,
		Location:       input.Location,
		ExpirationDate: input.ExpirationDate,
		CreatedAt:      time.Now(),
	}
	f.posts = append(f.posts, post)
	return &post, nil
}

func (f *fakeStore) joinCount(postID int64, userID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.joins[fmt.Sprintf("%d:%s", postID, userID)]
}

func (f *fakeStore) setPosts(posts []models.Post) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts = posts
}

func makePost(id int64, category models.Category) models.Post {
	return models.Post{
		ID:       id,
		UserID:   uuid.New(),
		Nickname: "Fox",
		Activity: fmt.Sprintf("activity %d", id),
		Category: category,
		Time:     "tonight",
	}
}

func testUser() *models.Profile {
	return &models.Profile{ID: uuid.New(), StudentID: "202400001", Nickname: "Fox"}
}

func openFeed(t *testing.T, store *fakeStore) (*Controller, *realtime.Hub) {
	t.Helper()

	hub := realtime.NewHub(16, zerolog.Nop())
	ctrl := NewController(store, hub, testUser(), zerolog.Nop())
	if err := ctrl.Open(context.Background()); err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(ctrl.Close)
	return ctrl, hub
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestFeedLoadExcludesExpiredPosts(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	expired := makePost(1, models.CategorySocial)
	expired.ExpirationDate = &past
	alive := makePost(2, models.CategorySocial)
	alive.ExpirationDate = &future
	forever := makePost(3, models.CategorySocial)

	ctrl, _ := openFeed(t, newFakeStore(expired, alive, forever))

	posts := ctrl.Posts()
	if len(posts) != 2 {
		t.Fatalf("Posts() returned %d posts, want 2", len(posts))
	}
	for _, post := range posts {
		if post.ID == 1 {
			t.Errorf("expired post %d appeared in the feed", post.ID)
		}
	}
}

func TestFeedCategorySwitchResetsCursor(t *testing.T) {
	store := newFakeStore(
		makePost(1, models.CategorySocial),
		makePost(2, models.CategoryStudy),
		makePost(3, models.CategoryFood),
		makePost(4, models.CategoryStudy),
		makePost(5, models.CategorySports),
	)
	ctrl, _ := openFeed(t, store)

	ctx := context.Background()
	ctrl.Skip(ctx)
	ctrl.Skip(ctx)
	if ctrl.Cursor() != 2 {
		t.Fatalf("Cursor() = %d after two skips, want 2", ctrl.Cursor())
	}

	if err := ctrl.SetCategory(ctx, models.CategoryStudy); err != nil {
		t.Fatalf("SetCategory() failed: %v", err)
	}

	if got := len(ctrl.Posts()); got != 2 {
		t.Errorf("Posts() length = %d after study filter, want 2", got)
	}
	if ctrl.Cursor() != 0 {
		t.Errorf("Cursor() = %d after category switch, want 0", ctrl.Cursor())
	}
}

func TestFeedCommitLeftAdvancesWithoutWrites(t *testing.T) {
	store := newFakeStore(
		makePost(1, models.CategorySocial),
		makePost(2, models.CategorySocial),
	)
	ctrl, _ := openFeed(t, store)
	ctx := context.Background()

	ctrl.Skip(ctx)
	if ctrl.Cursor() != 1 {
		t.Errorf("Cursor() = %d after skip, want 1", ctrl.Cursor())
	}

	// Skipping the last card holds position rather than running past it.
	ctrl.Skip(ctx)
	if ctrl.Cursor() != 1 {
		t.Errorf("Cursor() = %d after skipping last card, want 1", ctrl.Cursor())
	}

	store.mu.Lock()
	joined := len(store.joins)
	store.mu.Unlock()
	if joined != 0 {
		t.Errorf("skip recorded %d participations, want 0", joined)
	}
}

func TestFeedCommitRightJoinsOnce(t *testing.T) {
	store := newFakeStore(makePost(7, models.CategorySocial))
	ctrl, _ := openFeed(t, store)
	ctx := context.Background()

	first := ctrl.Join(ctx)
	if first == nil || first.ID != 7 {
		t.Fatalf("Join() = %v, want post 7", first)
	}
	if ctrl.Cursor() != 0 {
		t.Errorf("Cursor() = %d after join, want 0 (navigation leaves the feed)", ctrl.Cursor())
	}

	// A second commit for the same pair hits the conflict path; it is
	// swallowed and navigation still happens.
	second := ctrl.Join(ctx)
	if second == nil || second.ID != 7 {
		t.Fatalf("repeat Join() = %v, want post 7", second)
	}

	user := ctrl.user
	if got := store.joinCount(7, user.ID); got != 1 {
		t.Errorf("participation count = %d, want exactly 1", got)
	}
}

func TestFeedPointerGestureJoin(t *testing.T) {
	store := newFakeStore(makePost(3, models.CategorySocial))
	ctrl, _ := openFeed(t, store)
	ctx := context.Background()

	ctrl.PointerDown(100)
	ctrl.PointerMove(260)
	dir, post := ctrl.PointerUp(ctx)

	if dir != DirectionRight {
		t.Fatalf("PointerUp() direction = %v, want DirectionRight", dir)
	}
	if post == nil || post.ID != 3 {
		t.Fatalf("PointerUp() post = %v, want post 3", post)
	}
	if got := store.joinCount(3, ctrl.user.ID); got != 1 {
		t.Errorf("participation count = %d, want 1", got)
	}
}

func TestFeedShortDragDoesNotCommit(t *testing.T) {
	store := newFakeStore(
		makePost(1, models.CategorySocial),
		makePost(2, models.CategorySocial),
	)
	ctrl, _ := openFeed(t, store)

	ctrl.PointerDown(100)
	ctrl.PointerMove(150)
	dir, post := ctrl.PointerUp(context.Background())

	if dir != DirectionNone || post != nil {
		t.Errorf("PointerUp() = (%v, %v), want (DirectionNone, nil)", dir, post)
	}
	if ctrl.Cursor() != 0 {
		t.Errorf("Cursor() = %d, want 0", ctrl.Cursor())
	}
}

func TestFeedRefetchOnChangeEvent(t *testing.T) {
	store := newFakeStore(makePost(1, models.CategorySocial))
	ctrl, hub := openFeed(t, store)

	// Drain the signal from the initial load.
	<-store.listCalls

	newPost := makePost(2, models.CategoryStudy)
	store.setPosts([]models.Post{makePost(1, models.CategorySocial), newPost})
	hub.PublishChange(realtime.TablePosts, realtime.OpInsert, newPost)

	waitFor(t, "feed refetch", func() bool {
		return len(ctrl.Posts()) == 2
	})
}

func TestFeedExhaustionAndRestart(t *testing.T) {
	store := newFakeStore(makePost(1, models.CategorySocial))
	ctrl, _ := openFeed(t, store)
	ctx := context.Background()

	if ctrl.Exhausted() {
		t.Fatal("Exhausted() = true with one unseen post")
	}

	// The single post is the last card, so the cursor stays and the feed
	// only exhausts once the list shrinks under it.
	ctrl.Skip(ctx)
	if _, ok := ctrl.Current(); !ok {
		t.Fatal("Current() empty while a post remains")
	}

	store.setPosts(nil)
	if err := ctrl.SetCategory(ctx, models.CategoryAll); err != nil {
		t.Fatalf("SetCategory() failed: %v", err)
	}
	if !ctrl.Exhausted() {
		t.Error("Exhausted() = false with an empty list")
	}

	store.setPosts([]models.Post{makePost(1, models.CategorySocial), makePost(2, models.CategorySocial)})
	if err := ctrl.SetCategory(ctx, models.CategoryAll); err != nil {
		t.Fatalf("SetCategory() failed: %v", err)
	}
	ctrl.Skip(ctx)
	ctrl.Restart()
	if ctrl.Cursor() != 0 {
		t.Errorf("Cursor() = %d after Restart, want 0", ctrl.Cursor())
	}
}

func TestFeedCloseUnsubscribes(t *testing.T) {
	store := newFakeStore(makePost(1, models.CategorySocial))
	hub := realtime.NewHub(16, zerolog.Nop())
	ctrl := NewController(store, hub, testUser(), zerolog.Nop())
	if err := ctrl.Open(context.Background()); err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	if got := hub.SubscriberCount(realtime.TablePosts); got != 1 {
		t.Fatalf("SubscriberCount() = %d after Open, want 1", got)
	}

	ctrl.Close()
	if got := hub.SubscriberCount(realtime.TablePosts); got != 0 {
		t.Errorf("SubscriberCount() = %d after Close, want 0", got)
	}
}
