// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package registry

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/MKhiriev/go-hook-gate/internal/logger"
)

// Enablement is the external route-enablement map, keyed by route id. A nil
// map means no document was found and every route is enabled.
type Enablement map[string]bool

// Enabled resolves one route id against the map. An id absent from a
// supplied map is ENABLED: the safe default keeps working integrations
// working when an operator forgets to list a new route. Disabling is always
// an explicit act.
func (e Enablement) Enabled(id string) bool {
	if e == nil {
		return true
	}
	v, ok := e[id]
	if !ok {
		return true
	}
	return v
}

// LoadEnablement locates and parses the route-enablement document. Search
// order: the explicit override path, then config/routes.json, then
// routes.json; the first existing file wins. No file found returns a nil
// map (all routes enabled).
//
// A file that exists but cannot be parsed is a fatal configuration error.
// Silently enabling everything because of a typo'd document is exactly the
// operator surprise the enablement mechanism exists to prevent.
func LoadEnablement(overridePath string, log *logger.Logger) (Enablement, error) {
	var candidates []string
	if overridePath != "" {
		candidates = append(candidates, overridePath)
	}
	candidates = append(candidates, "config/routes.json", "routes.json")

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("%w: reading %s: %v", ErrInvalidRoutesConfig, path, err)
		}

		en, err := parseEnablement(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRoutesConfig, path, err)
		}

		log.Info().Str("path", path).Int("entries", len(en)).Msg("route enablement loaded")
		return en, nil
	}

	log.Debug().Msg("no route enablement document, all routes enabled")
	return nil, nil
}

// parseEnablement accepts the three document shapes in use:
//
//	{"RouteID": true}
//	{"routes": {"RouteID": true}}
//	{"RouteID": {"enabled": true}}
func parseEnablement(data []byte) (Enablement, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if nested, ok := raw["routes"]; ok {
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(nested, &inner); err == nil {
			raw = inner
		}
	}

	en := make(Enablement, len(raw))
	for id, val := range raw {
		var b bool
		if err := json.Unmarshal(val, &b); err == nil {
			en[id] = b
			continue
		}

		var obj struct {
			Enabled *bool `json:"enabled"`
		}
		if err := json.Unmarshal(val, &obj); err != nil {
			return nil, fmt.Errorf("route %q: expected bool or {\"enabled\": bool}", id)
		}
		if obj.Enabled == nil {
			en[id] = true
		} else {
			en[id] = *obj.Enabled
		}
	}

	return en, nil
}

// Table is the final dispatch table: the merged route set with disabled
// routes excluded entirely. A disabled route does not exist as far as the
// dispatcher is concerned and answers 404, not 403.
type Table struct {
	Routes   []Route
	Disabled []string
}

// BuildTable filters the merged routes through the enablement map. One
// decision covers a route and all its aliases.
func BuildTable(routes []Route, en Enablement, log *logger.Logger) *Table {
	t := &Table{}
	for _, r := range routes {
		if en.Enabled(r.ID) {
			t.Routes = append(t.Routes, r)
		} else {
			t.Disabled = append(t.Disabled, r.ID)
		}
	}

	if len(t.Disabled) > 0 {
		log.Info().Strs("routes", t.Disabled).Msg("routes disabled by configuration")
	}
	return t
}
