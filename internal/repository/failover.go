package repository

import (
	"context"
	"sync"
	"time"

	"aula/internal/domain"
	"aula/internal/worker"

	"github.com/rs/zerolog"
)

// FailoverStateRepository serves from the primary (Redis) until it fails, then
// falls back to the in-memory repository. Recovery probes are paced with
// exponential backoff so a flapping Redis does not get hammered.
type FailoverStateRepository struct {
	primary  domain.StateRepository
	fallback domain.StateRepository
	logger   *zerolog.Logger
	policy   worker.Backoff

	mu        sync.Mutex
	down      bool
	attempts  int
	nextProbe time.Time
}

func NewFailoverStateRepository(primary, fallback domain.StateRepository, logger *zerolog.Logger) *FailoverStateRepository {
	return &FailoverStateRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		policy: worker.Backoff{
			Initial: 5 * time.Second,
			Max:     time.Minute,
			Factor:  2,
		},
	}
}

// shouldTryPrimary reports whether the primary should be attempted now.
func (r *FailoverStateRepository) shouldTryPrimary() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.down {
		return true
	}
	return time.Now().After(r.nextProbe)
}

func (r *FailoverStateRepository) markDown(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.down = true
	r.attempts++
	r.nextProbe = time.Now().Add(r.policy.Delay(r.attempts))
	r.logger.Error().Err(err).Int("attempts", r.attempts).Msg("primary state repository failed, falling back to memory")
}

func (r *FailoverStateRepository) markUp() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.down {
		r.logger.Info().Msg("primary state repository recovered")
	}
	r.down = false
	r.attempts = 0
}

func (r *FailoverStateRepository) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if r.shouldTryPrimary() {
		allowed, err := r.primary.CheckRateLimit(ctx, key, limit, window)
		if err == nil {
			r.markUp()
			return allowed, nil
		}
		r.markDown(err)
	}

	return r.fallback.CheckRateLimit(ctx, key, limit, window)
}
