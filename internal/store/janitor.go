package store

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Default eviction policy.
const (
	DefaultMaxAge        = 30 * time.Minute
	DefaultSweepInterval = 5 * time.Minute
)

// Janitor evicts scratch files older than a fixed age on a fixed interval.
// It runs as its own background task so cleanup latency never rides on
// request latency. Artifacts are ephemeral: anything past the age is fair
// game, whether or not it was ever served.
type Janitor struct {
	store    *Store
	maxAge   time.Duration
	interval time.Duration
	log      zerolog.Logger
}

// NewJanitor creates a Janitor for the given store. Non-positive durations
// fall back to the defaults.
func NewJanitor(s *Store, maxAge, interval time.Duration, log zerolog.Logger) *Janitor {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Janitor{store: s, maxAge: maxAge, interval: interval, log: log}
}

// Run sweeps on every tick until the context ends. Always returns nil on
// shutdown; individual sweep failures are logged, not fatal.
func (j *Janitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			removed, err := j.Sweep(now)
			if err != nil {
				j.log.Warn().Err(err).Msg("janitor sweep failed")
				continue
			}
			if removed > 0 {
				j.log.Info().Int("removed", removed).Msg("janitor evicted artifacts")
			}
		}
	}
}

// Sweep deletes regular files in the scratch root whose modification time
// is older than the configured age, returning how many it removed.
func (j *Janitor) Sweep(now time.Time) (int, error) {
	entries, err := os.ReadDir(j.store.Dir())
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) < j.maxAge {
			continue
		}
		path := filepath.Join(j.store.Dir(), entry.Name())
		if err := os.Remove(path); err != nil {
			j.log.Warn().Err(err).Str("file", entry.Name()).Msg("janitor remove failed")
			continue
		}
		removed++
	}
	return removed, nil
}
