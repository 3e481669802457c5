package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/AngelaEmileJose/KNU-Link/internal/app/models"
	"github.com/AngelaEmileJose/KNU-Link/internal/app/models/dto"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/apperrors"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/realtime"
)

func newProfileService() (ProfileService, *fakeProfiles, *capturePublisher) {
	profiles := newFakeProfiles()
	publisher := &capturePublisher{}
	return NewProfileService(profiles, publisher, zerolog.Nop()), profiles, publisher
}

func TestProfileRegister(t *testing.T) {
	svc, _, publisher := newProfileService()
	ctx := context.Background()

	profile, err := svc.Register(ctx, &dto.RegisterProfileRequest{
		StudentID: " 202400001 ",
		Nickname:  " Fox ",
		Gender:    "",
		Icon:      "🦊",
	})
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	if profile.StudentID != "202400001" || profile.Nickname != "Fox" {
		t.Errorf("profile = %+v, want trimmed 202400001/Fox", profile)
	}
	if profile.Gender != models.GenderMale {
		t.Errorf("Gender = %v, want default male", profile.Gender)
	}
	if profile.Icon.String() != "🦊" || profile.Icon.IsMascot() {
		t.Errorf("Icon = %q (mascot=%v), want emoji 🦊", profile.Icon.String(), profile.Icon.IsMascot())
	}
	if got := publisher.published(realtime.TableProfiles, realtime.OpInsert); got != 1 {
		t.Errorf("published %d profiles INSERT events, want 1", got)
	}
}

func TestProfileRegisterDuplicateIsConflict(t *testing.T) {
	svc, _, _ := newProfileService()
	ctx := context.Background()

	req := &dto.RegisterProfileRequest{StudentID: "202400001", Nickname: "Fox", Icon: "🦊"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("first Register() failed: %v", err)
	}

	_, err := svc.Register(ctx, &dto.RegisterProfileRequest{StudentID: "202400001", Nickname: "Bear", Icon: "🐻"})
	if err == nil {
		t.Fatal("duplicate Register() succeeded")
	}
	if !apperrors.IsConflict(err) {
		t.Errorf("duplicate Register() error = %v, want Conflict class", err)
	}
}

func TestProfileRegisterValidation(t *testing.T) {
	svc, _, publisher := newProfileService()
	ctx := context.Background()

	tests := []struct {
		name string
		req  dto.RegisterProfileRequest
	}{
		{"blank student id", dto.RegisterProfileRequest{StudentID: "  ", Nickname: "Fox", Icon: "🦊"}},
		{"blank nickname", dto.RegisterProfileRequest{StudentID: "202400001", Nickname: " ", Icon: "🦊"}},
		{"unknown gender", dto.RegisterProfileRequest{StudentID: "202400001", Nickname: "Fox", Gender: "robot", Icon: "🦊"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, &tt.req); err == nil {
				t.Error("Register() accepted an invalid request")
			}
		})
	}

	if got := publisher.published(realtime.TableProfiles, realtime.OpInsert); got != 0 {
		t.Errorf("published %d events for rejected requests, want 0", got)
	}
}

func TestProfileLookupIdempotent(t *testing.T) {
	svc, _, _ := newProfileService()
	ctx := context.Background()

	created, err := svc.Register(ctx, &dto.RegisterProfileRequest{StudentID: "202400001", Nickname: "Fox", Icon: "🦊"})
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	first, err := svc.Lookup(ctx, "202400001")
	if err != nil {
		t.Fatalf("first Lookup() failed: %v", err)
	}
	second, err := svc.Lookup(ctx, "202400001")
	if err != nil {
		t.Fatalf("second Lookup() failed: %v", err)
	}

	if first.ID != created.ID || second.ID != created.ID {
		t.Errorf("lookups returned IDs %v and %v, want %v both times", first.ID, second.ID, created.ID)
	}
}

func TestProfileLookupMissing(t *testing.T) {
	svc, _, _ := newProfileService()

	_, err := svc.Lookup(context.Background(), "999999999")
	if !apperrors.IsNotFound(err) {
		t.Errorf("Lookup() error = %v, want NotFound class", err)
	}

	if _, err := svc.Lookup(context.Background(), "  "); err == nil {
		t.Error("Lookup() accepted a blank student ID")
	}
}
