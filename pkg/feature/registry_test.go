package feature_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/togglekit/pkg/feature"
)

func newTestRegistry(t *testing.T, p feature.Persister) (*feature.Registry, *faultSink) {
	t.Helper()
	sink := &faultSink{}
	reg := feature.NewRegistry(
		feature.WithRegistryReporter(sink),
		feature.WithRegistryPersister(p),
	)
	reg.MustRegister(feature.Descriptor{Name: "Flight", Category: feature.CategoryMovement, Tags: []string{"fly"}, Restricted: true}, nil)
	reg.MustRegister(feature.Descriptor{Name: "Sprint", Category: feature.CategoryMovement, Tags: []string{"run", "speed"}}, nil)
	reg.MustRegister(feature.Descriptor{Name: "Fullbright", Category: feature.CategoryRender, Tags: []string{"brightness"}}, nil)
	return reg, sink
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	t.Run("DuplicateIgnoresCase", func(t *testing.T) {
		t.Parallel()
		reg, _ := newTestRegistry(t, nil)
		_, err := reg.Register(feature.Descriptor{Name: "flight", Category: feature.CategoryMisc}, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, feature.ErrDuplicateFeature)
		assert.Equal(t, 3, reg.Len())
	})

	t.Run("InvalidDescriptor", func(t *testing.T) {
		t.Parallel()
		reg := feature.NewRegistry()
		_, err := reg.Register(feature.Descriptor{Name: " "}, nil)
		assert.ErrorIs(t, err, feature.ErrInvalidDescriptor)
		assert.Zero(t, reg.Len())
	})

	t.Run("InheritsCollaborators", func(t *testing.T) {
		t.Parallel()
		p := &persisterStub{persistable: true}
		reg, _ := newTestRegistry(t, p)
		l, err := reg.Get("sprint")
		require.NoError(t, err)

		l.Toggle(context.Background())
		assert.Equal(t, []string{"Sprint"}, p.notified)
	})

	t.Run("OptionsOverrideDefaults", func(t *testing.T) {
		t.Parallel()
		p := &persisterStub{persistable: true}
		reg := feature.NewRegistry(feature.WithRegistryPersister(p))
		l := reg.MustRegister(testDescriptor("Local"), nil, feature.WithPersister(feature.NopPersister{}))

		l.Toggle(context.Background())
		assert.Empty(t, p.notified)
	})

	t.Run("MustRegisterPanics", func(t *testing.T) {
		t.Parallel()
		reg, _ := newTestRegistry(t, nil)
		assert.Panics(t, func() {
			reg.MustRegister(feature.Descriptor{Name: "Sprint", Category: feature.CategoryMisc}, nil)
		})
	})
}

func TestRegistry_Get(t *testing.T) {
	t.Parallel()
	reg, _ := newTestRegistry(t, nil)

	l, err := reg.Get("FULLBRIGHT")
	require.NoError(t, err)
	assert.Equal(t, "Fullbright", l.Name())

	_, err = reg.Get("nope")
	assert.ErrorIs(t, err, feature.ErrFeatureNotFound)
}

func TestRegistry_List(t *testing.T) {
	t.Parallel()
	reg, _ := newTestRegistry(t, nil)

	names := func(ls []*feature.Lifecycle) []string {
		out := make([]string, 0, len(ls))
		for _, l := range ls {
			out = append(out, l.Name())
		}
		return out
	}

	tests := []struct {
		name   string
		filter feature.Filter
		want   []string
	}{
		{"All", feature.Filter{}, []string{"Flight", "Fullbright", "Sprint"}},
		{"Category", feature.Filter{Category: feature.CategoryMovement}, []string{"Flight", "Sprint"}},
		{"AnyTag", feature.Filter{Tags: []string{"SPEED", "brightness"}}, []string{"Fullbright", "Sprint"}},
		{"CategoryAndTag", feature.Filter{Category: feature.CategoryRender, Tags: []string{"fly"}}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, names(reg.List(tt.filter)))
		})
	}
}

func TestRegistry_StatesAndRestore(t *testing.T) {
	t.Parallel()
	p := &persisterStub{persistable: true}
	reg, _ := newTestRegistry(t, p)
	ctx := context.Background()

	unknown := reg.Restore(ctx, []string{"sprint", "Removed", "Flight"})

	assert.Equal(t, []string{"Removed"}, unknown)
	assert.Equal(t, map[string]bool{"Flight": true, "Sprint": true, "Fullbright": false}, reg.States())
	assert.Empty(t, p.notified, "restoring is not a user action")
}

func TestRegistry_EnforceCompatibility(t *testing.T) {
	t.Parallel()
	p := &persisterStub{persistable: true}
	reg, _ := newTestRegistry(t, p)
	ctx := context.Background()
	flight, err := reg.Get("Flight")
	require.NoError(t, err)

	assert.Empty(t, reg.EnforceCompatibility(ctx, true), "nothing enabled yet")
	assert.True(t, flight.IsBlocked())

	flight.SetEnabled(ctx, true)
	assert.False(t, flight.IsActive())
	assert.Empty(t, p.notified, "blocked enablement is silent")

	assert.Equal(t, []string{"Flight"}, reg.EnforceCompatibility(ctx, false))
	assert.True(t, flight.IsActive())

	assert.Equal(t, []string{"Flight"}, reg.EnforceCompatibility(ctx, true))
	assert.False(t, flight.IsActive())
	assert.True(t, flight.IsEnabled())
	assert.Empty(t, reg.EnforceCompatibility(ctx, true), "already enforced")

	sprint, err := reg.Get("Sprint")
	require.NoError(t, err)
	assert.False(t, sprint.IsBlocked())
	assert.Empty(t, p.notified)
}
