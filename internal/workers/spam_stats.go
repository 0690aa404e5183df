// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-hook-gate/internal/logger"
	"github.com/MKhiriev/go-hook-gate/internal/spam"
)

// SpamStats periodically logs the spam detector's running totals so the
// rule/model split is visible without hitting the stats endpoint.
type SpamStats struct {
	detector *spam.Detector
	period   time.Duration
	logger   *logger.Logger

	lastTotal int
}

// NewSpamStats builds the worker; nil detector or non-positive period
// yields nil.
func NewSpamStats(detector *spam.Detector, period time.Duration, log *logger.Logger) *SpamStats {
	if detector == nil || period <= 0 {
		return nil
	}
	return &SpamStats{detector: detector, period: period, logger: log}
}

// Run implements [Worker]. Quiet periods produce no log line.
func (s *SpamStats) Run(ctx context.Context) {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := s.detector.Stats()
			if stats.Total == s.lastTotal {
				continue
			}
			s.lastTotal = stats.Total

			s.logger.Info().
				Int("total", stats.Total).
				Int("fast_rules", stats.FastRules).
				Int("model_calls", stats.LLMCalls).
				Float64("estimated_savings_pct", stats.EstimatedSavings).
				Msg("spam detection stats")
		}
	}
}
