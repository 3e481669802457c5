package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sweeper periodically deletes expired posts. The feed already excludes
// expired posts at read time; the sweep only reclaims the rows.
type Sweeper struct {
	posts    PostService
	interval time.Duration
	logger   zerolog.Logger
}

// NewSweeper creates a sweeper running CleanupExpired every interval.
func NewSweeper(posts PostService, interval time.Duration, logger zerolog.Logger) *Sweeper {
	return &Sweeper{
		posts:    posts,
		interval: interval,
		logger:   logger,
	}
}

// Run blocks, sweeping until ctx is cancelled. Sweep failures are logged
// and retried on the next tick; they never take the process down.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().
		Dur("interval", s.interval).
		Msg("Expired-post sweeper started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Expired-post sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.posts.CleanupExpired(ctx); err != nil {
				s.logger.Error().Err(err).Msg("Expired-post sweep failed")
			}
		}
	}
}
