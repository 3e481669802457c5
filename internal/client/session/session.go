// Package session holds the signed-in profile snapshot on the device. The
// snapshot is written once at registration or login and read at each view
// mount; external changes to the backing storage are not observed.
package session

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/AngelaEmileJose/KNU-Link/internal/app/models"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/apperrors"
)

// ErrNotSignedIn is returned by Hydrate when no profile snapshot exists.
// Callers treat it as a redirect-to-onboarding signal, never as a fault.
var ErrNotSignedIn = fmt.Errorf("session: not signed in")

// profileKey is the storage key the profile snapshot lives under.
const profileKey = "knulink.user"

// Storage is synchronous device-local key/value storage.
type Storage interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// Session is the injected session context: hydrate at mount, sign in at
// registration or login, sign out at logout.
type Session struct {
	storage Storage
	logger  zerolog.Logger

	user *models.Profile
}

// New creates a session backed by the given storage.
func New(storage Storage, logger zerolog.Logger) *Session {
	return &Session{storage: storage, logger: logger}
}

// Hydrate loads the profile snapshot from storage. Returns ErrNotSignedIn
// when no snapshot exists, or a decode error when the stored value is
// corrupt (the snapshot is removed in that case so the next mount starts
// clean).
func (s *Session) Hydrate() (*models.Profile, error) {
	raw, ok := s.storage.Get(profileKey)
	if !ok || raw == "" {
		return nil, ErrNotSignedIn
	}

	var user models.Profile
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn().Err(err).Msg("Discarding corrupt session snapshot")
		if rmErr := s.storage.Remove(profileKey); rmErr != nil {
			s.logger.Error().Err(rmErr).Msg("Failed to remove corrupt session snapshot")
		}
		return nil, apperrors.NewBadRequestError("session snapshot is corrupt")
	}

	s.user = &user
	return s.user, nil
}

// SignIn persists the profile snapshot and makes it the current user.
func (s *Session) SignIn(user *models.Profile) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session: failed to encode profile: %w", err)
	}
	if err := s.storage.Set(profileKey, string(data)); err != nil {
		return fmt.Errorf("session: failed to persist profile: %w", err)
	}
	s.user = user
	return nil
}

// SignOut clears the snapshot.
func (s *Session) SignOut() error {
	s.user = nil
	if err := s.storage.Remove(profileKey); err != nil {
		return fmt.Errorf("session: failed to clear profile: %w", err)
	}
	return nil
}

// Current returns the in-memory user set by the last Hydrate or SignIn,
// or nil when signed out.
func (s *Session) Current() *models.Profile {
	return s.user
}
