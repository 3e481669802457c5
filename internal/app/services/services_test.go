package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AngelaEmileJose/KNU-Link/internal/app/models"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/apperrors"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/realtime"
)

// In-memory store fakes shared by the service tests. They enforce the same
// uniqueness and not-found semantics as the pgx repositories.

type fakeProfiles struct {
	mu          sync.Mutex
	byStudentID map[string]*models.Profile
	byID        map[uuid.UUID]*models.Profile
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{
		byStudentID: make(map[string]*models.Profile),
		byID:        make(map[uuid.UUID]*models.Profile),
	}
}

func (f *fakeProfiles) Create(ctx context.Context, profile *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.byStudentID[profile.StudentID]; exists {
		return apperrors.ErrStudentIDAlreadyExists
	}
	profile.ID = uuid.New()
	profile.CreatedAt = time.Now()
	f.byStudentID[profile.StudentID] = profile
	f.byID[profile.ID] = profile
	return nil
}

func (f *fakeProfiles) GetByStudentID(ctx context.Context, studentID string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	profile, ok := f.byStudentID[studentID]
	if !ok {
		return nil, apperrors.ErrProfileNotFound
	}
	return profile, nil
}

func (f *fakeProfiles) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	profile, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrProfileNotFound
	}
	return profile, nil
}

type fakePosts struct {
	mu      sync.Mutex
	posts   []*models.Post
	nextID  int64
	listErr error
}

func (f *fakePosts) Create(ctx context.Context, post *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	post.ID = f.nextID
	post.CreatedAt = time.Now()
	f.posts = append(f.posts, post)
	return nil
}

func (f *fakePosts) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, post := range f.posts {
		if post.ID == id {
			return post, nil
		}
	}
	return nil, apperrors.ErrPostNotFound
}

func (f *fakePosts) ListActive(ctx context.Context, category models.Category, now time.Time) ([]*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listErr != nil {
		return nil, f.listErr
	}

	var out []*models.Post
	for _, post := range f.posts {
		if !post.Active(now) {
			continue
		}
		if category != "" && category != models.CategoryAll && post.Category != category {
			continue
		}
		out = append(out, post)
	}
	return out, nil
}

func (f *fakePosts) ListJoinedByUser(ctx context.Context, userID uuid.UUID) ([]*models.Post, error) {
	return nil, nil
}

func (f *fakePosts) DeleteExpired(ctx context.Context, now time.Time) ([]*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var deleted, kept []*models.Post
	for _, post := range f.posts {
		if post.Active(now) {
			kept = append(kept, post)
		} else {
			deleted = append(deleted, post)
		}
	}
	f.posts = kept
	return deleted, nil
}

type fakeParticipations struct {
	mu    sync.Mutex
	pairs map[string]bool
}

func newFakeParticipations() *fakeParticipations {
	return &fakeParticipations{pairs: make(map[string]bool)}
}

func (f *fakeParticipations) Create(ctx context.Context, participation *models.Participation) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := fmt.Sprintf("%s:%d", participation.UserID, participation.PostID)
	if f.pairs[key] {
		return apperrors.ErrAlreadyJoined
	}
	f.pairs[key] = true
	return nil
}

type fakeMessages struct {
	mu        sync.Mutex
	messages  []*models.Message
	nextID    int64
	createErr error
}

func (f *fakeMessages) Create(ctx context.Context, message *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	message.ID = f.nextID
	message.CreatedAt = time.Now()
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeMessages) ListByPost(ctx context.Context, postID int64) ([]*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*models.Message
	for _, message := range f.messages {
		if message.PostID == postID {
			out = append(out, message)
		}
	}
	return out, nil
}

// capturePublisher records every change notification a service emits.
type capturePublisher struct {
	mu     sync.Mutex
	events []capturedEvent
}

type capturedEvent struct {
	table string
	op    realtime.Operation
}

func (c *capturePublisher) PublishChange(table string, op realtime.Operation, record interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, capturedEvent{table: table, op: op})
}

func (c *capturePublisher) published(table string, op realtime.Operation) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, event := range c.events {
		if event.table == table && event.op == op {
			count++
		}
	}
	return count
}
