// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-hook-gate/internal/idempotency"
	"github.com/MKhiriev/go-hook-gate/internal/logger"
)

// Sweeper periodically evicts expired idempotency entries. The cache also
// expires entries lazily on access; the sweep only bounds memory between
// accesses for keys that never come back.
type Sweeper struct {
	cache  *idempotency.Cache
	period time.Duration
	logger *logger.Logger
}

// NewSweeper builds the worker. A nil cache or non-positive period yields
// nil: no worker is registered.
func NewSweeper(cache *idempotency.Cache, period time.Duration, log *logger.Logger) *Sweeper {
	if cache == nil || period <= 0 {
		return nil
	}
	return &Sweeper{cache: cache, period: period, logger: log}
}

// Run implements [Worker].
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	s.logger.Debug().Dur("period", s.period).Msg("idempotency sweeper started")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.cache.Sweep(); removed > 0 {
				s.logger.Debug().Int("removed", removed).Msg("swept expired idempotency entries")
			}
		}
	}
}
