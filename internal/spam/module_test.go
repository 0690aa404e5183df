package spam_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-hook-gate/internal/handlers/events"
	"github.com/MKhiriev/go-hook-gate/internal/handlers/ops"
	"github.com/MKhiriev/go-hook-gate/internal/logger"
	"github.com/MKhiriev/go-hook-gate/internal/registry"
	"github.com/MKhiriev/go-hook-gate/internal/spam"
	"github.com/MKhiriev/go-hook-gate/models"
)

// The default specifier list names spam.guard unconditionally, so the
// module must stay loadable when detection is off and the guard is nil.
func TestGuardModule_DefaultSpecifiersWithDetectionDisabled(t *testing.T) {
	log := logger.Nop()
	l := registry.NewLoader(log)

	modules := events.All(nil)
	modules = append(modules, ops.NewHealth(models.NewAppBuildInfo("", "", ""), nil))
	modules = append(modules, spam.NewGuardModule(nil))
	for _, m := range modules {
		require.NoError(t, l.Register(m))
	}

	loaded, err := l.Load([]string{"events.*", "ops.*", "spam.guard"})
	require.NoError(t, err)
	assert.NotEmpty(t, loaded.Routes)

	require.NoError(t, loaded.StartAll(context.Background()))
	loaded.StopAll(context.Background())
}

func TestGuardModule_NilGuardHooks(t *testing.T) {
	m := spam.NewGuardModule(nil)

	assert.Equal(t, "spam.guard", m.Name())
	assert.Empty(t, m.Routes())
	require.NoError(t, m.Start(context.Background()))
	require.NoError(t, m.Stop(context.Background()))
}
