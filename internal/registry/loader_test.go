// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package registry

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/MKhiriev/go-hook-gate/internal/logger"
	"github.com/MKhiriev/go-hook-gate/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModule struct {
	BaseModule
	name   string
	routes []Route

	started  bool
	stopped  bool
	startErr error
	order    *[]string
}

func (m *fakeModule) Name() string    { return m.name }
func (m *fakeModule) Routes() []Route { return m.routes }

func (m *fakeModule) Start(context.Context) error {
	m.started = true
	if m.order != nil {
		*m.order = append(*m.order, "start:"+m.name)
	}
	return m.startErr
}

func (m *fakeModule) Stop(context.Context) error {
	m.stopped = true
	if m.order != nil {
		*m.order = append(*m.order, "stop:"+m.name)
	}
	return nil
}

func okHandler(rc *pipeline.RequestContext) *pipeline.Response {
	return pipeline.Text(http.StatusOK, "ok")
}

func route(id, path string) Route {
	return Route{ID: id, Method: http.MethodPost, Path: path, Handler: okHandler}
}

func newTestLoader(t *testing.T, modules ...Module) *Loader {
	t.Helper()
	l := NewLoader(logger.Nop())
	for _, m := range modules {
		require.NoError(t, l.Register(m))
	}
	return l
}

func TestLoader_ExplicitSpecifierOrder(t *testing.T) {
	l := newTestLoader(t,
		&fakeModule{name: "events.contacts", routes: []Route{route("ContactCreate", "/webhook/ContactCreate")}},
		&fakeModule{name: "ops.health", routes: []Route{route("health_basic", "/webhook/health")}},
	)

	loaded, err := l.Load([]string{"ops.health", "events.contacts"})
	require.NoError(t, err)

	require.Len(t, loaded.Routes, 2)
	assert.Equal(t, "health_basic", loaded.Routes[0].ID, "earlier specifier's routes come first")
	assert.Equal(t, "ContactCreate", loaded.Routes[1].ID)
}

func TestLoader_WildcardEnumeratesLexicographically(t *testing.T) {
	l := newTestLoader(t,
		&fakeModule{name: "events.payments", routes: []Route{route("InvoicePaid", "/webhook/InvoicePaid")}},
		&fakeModule{name: "events.appointments", routes: []Route{route("AppointmentCreate", "/webhook/AppointmentCreate")}},
		&fakeModule{name: "events.contacts", routes: []Route{route("ContactCreate", "/webhook/ContactCreate")}},
		&fakeModule{name: "ops.health"},
	)

	loaded, err := l.Load([]string{"events.*"})
	require.NoError(t, err)

	require.Len(t, loaded.Modules, 3)
	assert.Equal(t, "events.appointments", loaded.Modules[0].Name())
	assert.Equal(t, "events.contacts", loaded.Modules[1].Name())
	assert.Equal(t, "events.payments", loaded.Modules[2].Name())
}

func TestLoader_UnresolvableSpecifierIsFatal(t *testing.T) {
	l := newTestLoader(t, &fakeModule{name: "events.contacts"})

	tests := []struct {
		name string
		spec string
	}{
		{name: "unknown explicit name", spec: "events.invoices"},
		{name: "wildcard matching nothing", spec: "billing.*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loaded, err := l.Load([]string{tt.spec})
			require.ErrorIs(t, err, ErrUnknownModule)
			assert.Nil(t, loaded, "no partial load on failure")
		})
	}
}

func TestLoader_DuplicateRouteIDNamesBothModules(t *testing.T) {
	l := newTestLoader(t,
		&fakeModule{name: "events.contacts", routes: []Route{route("ContactCreate", "/webhook/ContactCreate")}},
		&fakeModule{name: "events.misc", routes: []Route{route("ContactCreate", "/hooks/ContactCreate")}},
	)

	loaded, err := l.Load([]string{"events.*"})
	require.ErrorIs(t, err, ErrDuplicateRouteID)
	assert.Nil(t, loaded)
	assert.Contains(t, err.Error(), "events.contacts")
	assert.Contains(t, err.Error(), "events.misc")
}

func TestLoader_ModuleWithoutRoutesIsAccepted(t *testing.T) {
	l := newTestLoader(t, &fakeModule{name: "spam.guard"})

	loaded, err := l.Load([]string{"spam.guard"})
	require.NoError(t, err)
	assert.Empty(t, loaded.Routes)
	require.Len(t, loaded.Modules, 1)
}

func TestLoader_SpecifierListedTwiceLoadsOnce(t *testing.T) {
	l := newTestLoader(t,
		&fakeModule{name: "events.contacts", routes: []Route{route("ContactCreate", "/webhook/ContactCreate")}},
	)

	loaded, err := l.Load([]string{"events.contacts", "events.*"})
	require.NoError(t, err)
	assert.Len(t, loaded.Modules, 1)
	assert.Len(t, loaded.Routes, 1)
}

func TestLoaded_StartOrderAndStopReverse(t *testing.T) {
	var order []string
	a := &fakeModule{name: "events.contacts", order: &order}
	b := &fakeModule{name: "ops.health", order: &order}

	l := newTestLoader(t, a, b)
	loaded, err := l.Load([]string{"events.contacts", "ops.health"})
	require.NoError(t, err)

	require.NoError(t, loaded.StartAll(context.Background()))
	loaded.StopAll(context.Background())

	assert.Equal(t, []string{
		"start:events.contacts",
		"start:ops.health",
		"stop:ops.health",
		"stop:events.contacts",
	}, order)
}

func TestLoaded_StartFailureAborts(t *testing.T) {
	failing := &fakeModule{name: "spam.guard", startErr: errors.New("no api key")}
	l := newTestLoader(t, failing)

	loaded, err := l.Load([]string{"spam.guard"})
	require.NoError(t, err)

	err = loaded.StartAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spam.guard")
}
