// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package spam

import (
	"context"

	"github.com/MKhiriev/go-hook-gate/internal/registry"
)

// GuardModule exposes the spam pipeline to the module loader under the
// "spam.guard" specifier. It contributes no routes: the pipeline rides on
// the InboundMessage event and the module exists for its lifecycle hooks.
//
// A nil guard keeps the module loadable with no-op hooks, so specifier
// lists that name spam.guard still resolve when detection is disabled.
type GuardModule struct {
	registry.BaseModule
	guard *Guard
}

// NewGuardModule wraps an assembled guard for registration. guard may be
// nil when the pipeline is disabled.
func NewGuardModule(guard *Guard) *GuardModule {
	return &GuardModule{guard: guard}
}

func (*GuardModule) Name() string { return "spam.guard" }

func (*GuardModule) Routes() []registry.Route { return nil }

// Start announces the pipeline configuration.
func (m *GuardModule) Start(context.Context) error {
	g := m.guard
	if g == nil {
		return nil
	}
	g.log.Info().
		Bool("model_pass", g.detector.chat != nil).
		Bool("archiving", g.archive != nil).
		Bool("contact_deletion", g.contacts != nil).
		Msg("spam guard enabled")
	return nil
}

// Stop flushes a final statistics line so the run's totals land in the log.
func (m *GuardModule) Stop(context.Context) error {
	if m.guard == nil {
		return nil
	}
	stats := m.guard.detector.Stats()
	if stats.Total > 0 {
		m.guard.log.Info().
			Int("total", stats.Total).
			Int("fast_rules", stats.FastRules).
			Int("model_calls", stats.LLMCalls).
			Msg("spam detection totals")
	}
	return nil
}
