package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/AngelaEmileJose/KNU-Link/internal/app/models"
	"github.com/AngelaEmileJose/KNU-Link/internal/app/models/dto"
	"github.com/AngelaEmileJose/KNU-Link/internal/client/onboarding"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/apperrors"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/icon"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/realtime"
)

func respond(t *testing.T, w http.ResponseWriter, status int, body dto.APIResponse) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

func TestClientErrorClassification(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		wantNotFound bool
		wantConflict bool
	}{
		{"404 is NotFound", http.StatusNotFound, true, false},
		{"409 is Conflict", http.StatusConflict, false, true},
		{"500 is neither", http.StatusInternalServerError, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				respond(t, w, tt.status, dto.NewErrorResponse(
					dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "nope")))
			}))
			defer server.Close()

			client := NewClient(server.URL, zerolog.Nop())
			_, err := client.GetPost(context.Background(), 1)
			if err == nil {
				t.Fatal("GetPost() succeeded against an error response")
			}
			if got := apperrors.IsNotFound(err); got != tt.wantNotFound {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.wantNotFound)
			}
			if got := apperrors.IsConflict(err); got != tt.wantConflict {
				t.Errorf("IsConflict() = %v, want %v", got, tt.wantConflict)
			}
		})
	}
}

func TestClientProfileLookup(t *testing.T) {
	id := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/profiles/202400001" {
			t.Errorf("path = %q, want /api/v1/profiles/202400001", r.URL.Path)
		}
		respond(t, w, http.StatusOK, dto.NewSuccessResponse(dto.ProfileResponse{
			ID:        id,
			StudentID: "202400001",
			Nickname:  "Fox",
			Gender:    "male",
			Icon:      "/mascot-fox.png",
			CreatedAt: time.Now(),
		}))
	}))
	defer server.Close()

	client := NewClient(server.URL, zerolog.Nop())
	profile, err := client.ProfileByStudentID(context.Background(), "202400001")
	if err != nil {
		t.Fatalf("ProfileByStudentID() failed: %v", err)
	}

	if profile.ID != id || profile.Nickname != "Fox" || profile.Gender != models.GenderMale {
		t.Errorf("profile = %+v, want the served row", profile)
	}
	if !profile.Icon.IsMascot() {
		t.Error("icon classification lost on the wire")
	}
}

func TestClientRegisterProfileBody(t *testing.T) {
	var received dto.RegisterProfileRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/profiles" {
			t.Errorf("request = %s %s, want POST /api/v1/profiles", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		respond(t, w, http.StatusCreated, dto.NewSuccessResponse(dto.ProfileResponse{
			ID:        uuid.New(),
			StudentID: received.StudentID,
			Nickname:  received.Nickname,
			Gender:    received.Gender,
			Icon:      received.Icon,
		}))
	}))
	defer server.Close()

	client := NewClient(server.URL, zerolog.Nop())
	_, err := client.RegisterProfile(context.Background(), onboarding.RegisterInput{
		StudentID: "202400001",
		Nickname:  "Fox",
		Gender:    models.GenderMale,
		Icon:      icon.Emoji("🦊"),
	})
	if err != nil {
		t.Fatalf("RegisterProfile() failed: %v", err)
	}

	if received.StudentID != "202400001" || received.Icon != "🦊" || received.Gender != "male" {
		t.Errorf("server received %+v, want the register input", received)
	}
}

func TestClientJoinPost(t *testing.T) {
	userID := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/posts/7/participations" {
			t.Errorf("path = %q, want /api/v1/posts/7/participations", r.URL.Path)
		}
		var req dto.JoinPostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req.UserID != userID {
			t.Errorf("UserID = %v, want %v", req.UserID, userID)
		}
		respond(t, w, http.StatusCreated, dto.NewSuccessResponse(nil))
	}))
	defer server.Close()

	client := NewClient(server.URL, zerolog.Nop())
	if err := client.JoinPost(context.Background(), 7, userID); err != nil {
		t.Fatalf("JoinPost() failed: %v", err)
	}
}

func TestClientListActivePostsQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("category"); got != "study" {
			t.Errorf("category query = %q, want study", got)
		}
		respond(t, w, http.StatusOK, dto.NewSuccessResponse([]models.Post{
			{ID: 1, Activity: "study group", Category: models.CategoryStudy, Time: "3pm"},
		}))
	}))
	defer server.Close()

	client := NewClient(server.URL, zerolog.Nop())
	posts, err := client.ListActivePosts(context.Background(), models.CategoryStudy)
	if err != nil {
		t.Fatalf("ListActivePosts() failed: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != 1 {
		t.Errorf("posts = %v, want the served post", posts)
	}
}

func TestRealtimeClientEndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)

	hub := realtime.NewHub(16, zerolog.Nop())
	handler := realtime.NewHandler(hub, zerolog.Nop())

	router := gin.New()
	router.GET("/api/v1/realtime", handler.HandleConnection)
	server := httptest.NewServer(router)
	defer server.Close()

	rt := NewRealtimeClient(server.URL, zerolog.Nop())
	sub, err := rt.Subscribe(realtime.TableMessages, []realtime.Operation{realtime.OpInsert},
		&realtime.Filter{Column: "post_id", Value: "1"})
	if err != nil {
		t.Fatalf("Subscribe() failed: %v", err)
	}
	defer sub.Close()

	// Wait until the server side registered the subscription before
	// publishing.
	deadline := time.Now().Add(2 * time.Second)
	for hub.SubscriberCount(realtime.TableMessages) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if hub.SubscriberCount(realtime.TableMessages) == 0 {
		t.Fatal("server never registered the subscription")
	}

	hub.PublishChange(realtime.TableMessages, realtime.OpInsert,
		models.Message{ID: 42, PostID: 2, Message: "other room"})
	hub.PublishChange(realtime.TableMessages, realtime.OpInsert,
		models.Message{ID: 43, PostID: 1, Message: "this room"})

	select {
	case event, ok := <-sub.Events():
		if !ok {
			t.Fatal("events channel closed before delivery")
		}
		var message models.Message
		if err := json.Unmarshal(event.Record, &message); err != nil {
			t.Fatalf("failed to decode event: %v", err)
		}
		if message.ID != 43 {
			t.Errorf("received message %d, want 43 (filter must exclude other rooms)", message.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the event")
	}

	sub.Close()
	select {
	case _, ok := <-sub.Events():
		if ok {
			t.Error("received an event after Close")
		}
	case <-time.After(2 * time.Second):
		t.Error("events channel did not close after Close")
	}
}
