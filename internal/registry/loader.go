// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/MKhiriev/go-hook-gate/internal/logger"
	"github.com/MKhiriev/go-hook-gate/internal/pipeline"
)

// Loader resolves module specifiers against an explicit set of registered
// modules and merges their contributions into one route table. It replaces
// runtime discovery: every module the service can load is registered by
// name at startup, so an unresolvable specifier fails before serving.
type Loader struct {
	modules map[string]Module
	names   []string

	log *logger.Logger
}

// NewLoader constructs an empty Loader.
func NewLoader(log *logger.Logger) *Loader {
	return &Loader{
		modules: make(map[string]Module),
		log:     log,
	}
}

// Register adds a module under its own name. Registering two modules with
// the same name is a programming error and fails immediately.
func (l *Loader) Register(m Module) error {
	name := m.Name()
	if _, exists := l.modules[name]; exists {
		return fmt.Errorf("%w: module %q registered twice", ErrDuplicateRouteID, name)
	}

	l.modules[name] = m
	l.names = append(l.names, name)
	sort.Strings(l.names)

	return nil
}

// Loaded is the result of resolving and merging a specifier list. Routes
// keeps module contribution order; Stages keeps specifier order too.
type Loaded struct {
	Modules []Module
	Routes  []Route
	Stages  []pipeline.Stage

	log *logger.Logger
}

// Load resolves each specifier in order and merges the resolved modules'
// routes and stages. A specifier is either an exact module name or a group
// wildcard "ns.*" matching every registered module under that namespace in
// lexicographic order, so route-id conflicts are reproducible run to run.
//
// Any unresolvable specifier or duplicate route id is a fatal configuration
// error: the service must not start with part of its expected modules (and
// their security stages) silently missing.
func (l *Loader) Load(specs []string) (*Loaded, error) {
	loaded := &Loaded{log: l.log}
	seen := make(map[string]bool)

	for _, spec := range specs {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}

		matched, err := l.resolve(spec)
		if err != nil {
			return nil, err
		}

		for _, m := range matched {
			if seen[m.Name()] {
				continue
			}
			seen[m.Name()] = true
			loaded.Modules = append(loaded.Modules, m)
		}
	}

	// owner tracks which module contributed each route id so a collision
	// can name both offenders
	owner := make(map[string]string)
	for _, m := range loaded.Modules {
		for _, r := range m.Routes() {
			if prev, dup := owner[r.ID]; dup {
				return nil, fmt.Errorf("%w: %q contributed by both %s and %s",
					ErrDuplicateRouteID, r.ID, prev, m.Name())
			}
			owner[r.ID] = m.Name()
			loaded.Routes = append(loaded.Routes, r)
		}

		loaded.Stages = append(loaded.Stages, m.Stages()...)
	}

	l.log.Info().
		Int("modules", len(loaded.Modules)).
		Int("routes", len(loaded.Routes)).
		Strs("specifiers", specs).
		Msg("handler modules loaded")

	return loaded, nil
}

// resolve expands one specifier to its modules.
func (l *Loader) resolve(spec string) ([]Module, error) {
	if ns, ok := strings.CutSuffix(spec, ".*"); ok {
		prefix := ns + "."

		var matched []Module
		for _, name := range l.names {
			if strings.HasPrefix(name, prefix) || name == ns {
				matched = append(matched, l.modules[name])
			}
		}
		if len(matched) == 0 {
			return nil, fmt.Errorf("%w: no modules match %q", ErrUnknownModule, spec)
		}
		return matched, nil
	}

	m, ok := l.modules[spec]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModule, spec)
	}
	return []Module{m}, nil
}

// StartAll runs every loaded module's Start hook in load order. The first
// failure aborts startup.
func (ld *Loaded) StartAll(ctx context.Context) error {
	for _, m := range ld.Modules {
		if err := m.Start(ctx); err != nil {
			return fmt.Errorf("module %s start: %w", m.Name(), err)
		}
		ld.log.Debug().Str("module", m.Name()).Msg("module started")
	}
	return nil
}

// StopAll runs Stop hooks in reverse load order. Failures are logged, not
// propagated: shutdown keeps going.
func (ld *Loaded) StopAll(ctx context.Context) {
	for i := len(ld.Modules) - 1; i >= 0; i-- {
		m := ld.Modules[i]
		if err := m.Stop(ctx); err != nil {
			ld.log.Error().Err(err).Str("module", m.Name()).Msg("module stop failed")
		}
	}
}
