// Package onboarding implements the multi-step registration wizard:
// student ID lookup, nickname and gender entry, icon selection, and the
// welcome-back short-circuit for returning students.
package onboarding

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/AngelaEmileJose/KNU-Link/internal/app/models"
	"github.com/AngelaEmileJose/KNU-Link/internal/client/session"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/apperrors"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/icon"
)

// WelcomeBackDelay is how long the welcome-back screen shows before the
// view redirects to the feed.
const WelcomeBackDelay = 2 * time.Second

// Step is the wizard's current screen.
type Step int

const (
	StepStudentID Step = iota
	StepRegister
	StepSelectIcon
	// StepWelcomeBack greets a returning student, then redirects after
	// WelcomeBackDelay.
	StepWelcomeBack
	// StepDone means the session is signed in and the view moves to the feed.
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepStudentID:
		return "studentId"
	case StepRegister:
		return "register"
	case StepSelectIcon:
		return "selectIcon"
	case StepWelcomeBack:
		return "welcomeBack"
	case StepDone:
		return "done"
	default:
		return "unknown"
	}
}

// RegisterInput carries the fields of a new profile row.
type RegisterInput struct {
	StudentID string
	Nickname  string
	Gender    models.Gender
	Icon      icon.Icon
}

// Store is the persistence surface the wizard needs.
type Store interface {
	// ProfileByStudentID returns the profile, or a NotFound-class error.
	ProfileByStudentID(ctx context.Context, studentID string) (*models.Profile, error)
	// RegisterProfile creates a profile row. A duplicate student ID returns
	// a Conflict-class error.
	RegisterProfile(ctx context.Context, input RegisterInput) (*models.Profile, error)
}

// Wizard drives the onboarding flow. A store error keeps the wizard on its
// current step with the error exposed through Err; the loading flag gates
// re-submission while a request is in flight.
type Wizard struct {
	store   Store
	session *session.Session
	logger  zerolog.Logger

	step      Step
	loading   bool
	lastErr   error
	studentID string
	nickname  string
	gender    models.Gender
	profile   *models.Profile
}

// NewWizard creates a wizard starting at the student ID step.
func NewWizard(store Store, sess *session.Session, logger zerolog.Logger) *Wizard {
	return &Wizard{
		store:   store,
		session: sess,
		logger:  logger.With().Str("component", "onboarding").Logger(),
		step:    StepStudentID,
	}
}

// Step returns the wizard's current step.
func (w *Wizard) Step() Step { return w.step }

// Err returns the error from the last failed submission, nil otherwise.
func (w *Wizard) Err() error { return w.lastErr }

// Loading reports whether a submission is in flight.
func (w *Wizard) Loading() bool { return w.loading }

// Profile returns the signed-in profile once the wizard reaches
// StepWelcomeBack or StepDone.
func (w *Wizard) Profile() *models.Profile { return w.profile }

// SubmitStudentID looks the student ID up. An existing profile signs in
// and short-circuits to welcome-back; an unknown ID moves to registration.
func (w *Wizard) SubmitStudentID(ctx context.Context, studentID string) error {
	if w.step != StepStudentID || w.loading {
		return nil
	}

	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		w.lastErr = apperrors.NewBadRequestError("student ID is required")
		return w.lastErr
	}

	w.loading = true
	defer func() { w.loading = false }()

	profile, err := w.store.ProfileByStudentID(ctx, studentID)
	switch {
	case err == nil:
		return w.signIn(profile, StepWelcomeBack)
	case apperrors.IsNotFound(err):
		w.studentID = studentID
		w.lastErr = nil
		w.step = StepRegister
		return nil
	default:
		w.lastErr = err
		return err
	}
}

// SubmitDetails records the nickname and gender and moves to icon
// selection. Gender defaults to male when unset.
func (w *Wizard) SubmitDetails(nickname string, gender models.Gender) error {
	if w.step != StepRegister {
		return nil
	}

	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		w.lastErr = apperrors.NewBadRequestError("nickname is required")
		return w.lastErr
	}
	if gender == "" {
		gender = models.GenderMale
	}
	if !gender.Valid() {
		w.lastErr = apperrors.NewBadRequestError("invalid gender")
		return w.lastErr
	}

	w.nickname = nickname
	w.gender = gender
	w.lastErr = nil
	w.step = StepSelectIcon
	return nil
}

// SelectIcon creates the profile with the chosen icon and signs in. A
// Conflict means another device won the registration race on this student
// ID, so the existing profile is fetched and the wizard enters the
// welcome-back path instead of showing the violation to the user.
func (w *Wizard) SelectIcon(ctx context.Context, ic icon.Icon) error {
	if w.step != StepSelectIcon || w.loading {
		return nil
	}
	if ic.IsZero() {
		w.lastErr = apperrors.NewBadRequestError("icon is required")
		return w.lastErr
	}

	w.loading = true
	defer func() { w.loading = false }()

	profile, err := w.store.RegisterProfile(ctx, RegisterInput{
		StudentID: w.studentID,
		Nickname:  w.nickname,
		Gender:    w.gender,
		Icon:      ic,
	})
	if err != nil {
		if !apperrors.IsConflict(err) {
			w.lastErr = err
			return err
		}

		w.logger.Info().Str("studentId", w.studentID).Msg("Student ID registered elsewhere, resolving as returning user")
		existing, lookupErr := w.store.ProfileByStudentID(ctx, w.studentID)
		if lookupErr != nil {
			w.lastErr = lookupErr
			return lookupErr
		}
		return w.signIn(existing, StepWelcomeBack)
	}

	return w.signIn(profile, StepDone)
}

// FinishWelcomeBack completes the welcome-back screen after its display
// delay.
func (w *Wizard) FinishWelcomeBack() {
	if w.step == StepWelcomeBack {
		w.step = StepDone
	}
}

func (w *Wizard) signIn(profile *models.Profile, next Step) error {
	if err := w.session.SignIn(profile); err != nil {
		w.lastErr = err
		return err
	}
	w.profile = profile
	w.lastErr = nil
	w.step = next
	return nil
}
