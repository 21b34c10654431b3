package workspace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glasspane/workspaced/internal/domain/layout"
	"github.com/glasspane/workspaced/internal/infrastructure/logging"
	"github.com/glasspane/workspaced/internal/shared/types"
	"github.com/glasspane/workspaced/internal/storage"
)

func newTestManager(t *testing.T) (*Manager, *storage.Memory) {
	t.Helper()
	store := storage.NewMemory()
	return newManagerOn(store), store
}

func newManagerOn(store Store) *Manager {
	reconciler := layout.NewReconciler(layout.NewGeometry(nil))
	return NewManager(store, "", reconciler, logging.NewNop())
}

func open(t *testing.T, m *Manager, patch types.ApplicationPatch) *types.Application {
	t.Helper()
	app, err := m.Update(context.Background(), patch)
	require.NoError(t, err)
	require.NotNil(t, app)
	return app
}

func TestFreshOpenClampsOversizeToDefault(t *testing.T) {
	m, _ := newTestManager(t)
	def := layout.NewGeometry(nil).Default(nil)

	app := open(t, m, types.ApplicationPatch{
		UUID: "A",
		Layout: &types.LayoutPatch{
			Dimension: &types.DimensionPatch{Height: types.Float(2000), Width: types.Float(2000)},
		},
	})

	assert.Equal(t, def.Dimension.Height, app.Layout.Dimension.Height)
	assert.Equal(t, def.Dimension.Width, app.Layout.Dimension.Width)
	assert.Equal(t, def.Position.Y, app.Layout.Position.Y)
	assert.Equal(t, def.Position.X, app.Layout.Position.X)
	assert.Equal(t, types.StatusOpen, app.State.Status)
}

func TestFreshOpenWithoutLayoutGetsDefault(t *testing.T) {
	m, _ := newTestManager(t)
	def := layout.NewGeometry(nil).Default(nil)

	app := open(t, m, types.ApplicationPatch{UUID: "A"})

	assert.Equal(t, def, app.Layout)
}

func TestPartialUpdatePreservesUntouchedFields(t *testing.T) {
	m, _ := newTestManager(t)
	open(t, m, types.ApplicationPatch{
		UUID: "A",
		Layout: &types.LayoutPatch{
			Dimension: &types.DimensionPatch{Height: types.Float(400), Width: types.Float(400)},
			Position:  &types.PositionPatch{X: types.Float(50), Y: types.Float(60), Z: types.Float(10)},
		},
	})

	app := open(t, m, types.ApplicationPatch{
		UUID: "A",
		Layout: &types.LayoutPatch{
			Position: &types.PositionPatch{X: types.Float(999)},
		},
	})

	assert.Equal(t, 999.0, app.Layout.Position.X)
	assert.Equal(t, 60.0, app.Layout.Position.Y)
	assert.Equal(t, 10.0, app.Layout.Position.Z)
	assert.Equal(t, 400.0, app.Layout.Dimension.Height)
}

func TestAtMostOneEntryPerUUID(t *testing.T) {
	m, _ := newTestManager(t)
	for i := 0; i < 5; i++ {
		open(t, m, types.ApplicationPatch{UUID: "A"})
	}

	uuid := "A"
	apps, err := m.List(context.Background(), &types.Filter{UUID: &uuid})
	require.NoError(t, err)
	assert.Len(t, apps, 1)
}

func TestUpdatePreservesRegistryOrder(t *testing.T) {
	m, _ := newTestManager(t)
	open(t, m, types.ApplicationPatch{UUID: "A"})
	open(t, m, types.ApplicationPatch{UUID: "B"})
	open(t, m, types.ApplicationPatch{UUID: "C"})

	// Updating the middle entry must not move it to the end.
	open(t, m, types.ApplicationPatch{
		UUID:   "B",
		Layout: &types.LayoutPatch{Position: &types.PositionPatch{X: types.Float(5)}},
	})

	apps, err := m.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, apps, 3)
	assert.Equal(t, "A", apps[0].UUID)
	assert.Equal(t, "B", apps[1].UUID)
	assert.Equal(t, "C", apps[2].UUID)
}

func TestCloseRemovesEntry(t *testing.T) {
	m, _ := newTestManager(t)
	open(t, m, types.ApplicationPatch{UUID: "A"})
	open(t, m, types.ApplicationPatch{UUID: "B"})

	require.NoError(t, m.Close(context.Background(), "A"))

	uuid := "A"
	apps, err := m.List(context.Background(), &types.Filter{UUID: &uuid})
	require.NoError(t, err)
	assert.Empty(t, apps)

	remaining, err := m.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "B", remaining[0].UUID)
}

func TestCloseNeverResurrects(t *testing.T) {
	m, _ := newTestManager(t)
	open(t, m, types.ApplicationPatch{
		UUID: "A",
		Layout: &types.LayoutPatch{
			Position: &types.PositionPatch{X: types.Float(123), Y: types.Float(456), Z: types.Float(7)},
		},
	})
	require.NoError(t, m.Close(context.Background(), "A"))

	// Re-opening creates a fresh entry with no memory of the
	// pre-close layout.
	app := open(t, m, types.ApplicationPatch{UUID: "A"})
	def := layout.NewGeometry(nil).Default(nil)
	assert.Equal(t, def, app.Layout)
}

func TestCloseAbsentIsNoop(t *testing.T) {
	m, _ := newTestManager(t)
	assert.NoError(t, m.Close(context.Background(), "nope"))
}

func TestCloseReturnsNoEntry(t *testing.T) {
	m, _ := newTestManager(t)
	open(t, m, types.ApplicationPatch{UUID: "A"})

	app, err := m.Update(context.Background(), types.ApplicationPatch{
		UUID:  "A",
		State: &types.ApplicationState{Status: types.StatusClosed},
	})
	require.NoError(t, err)
	assert.Nil(t, app)
}

func TestListOpenAndStatusFilter(t *testing.T) {
	m, _ := newTestManager(t)
	open(t, m, types.ApplicationPatch{UUID: "A"})
	minimized := types.ApplicationState{Status: types.StatusMinimized}
	open(t, m, types.ApplicationPatch{UUID: "B", State: &minimized})

	openApps, err := m.ListOpen(context.Background())
	require.NoError(t, err)
	assert.Len(t, openApps, 2)

	status := types.StatusOpen
	apps, err := m.List(context.Background(), &types.Filter{Status: &status})
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "A", apps[0].UUID)
}

func TestFilterAndsBothConstraints(t *testing.T) {
	m, _ := newTestManager(t)
	open(t, m, types.ApplicationPatch{UUID: "A"})
	minimized := types.ApplicationState{Status: types.StatusMinimized}
	open(t, m, types.ApplicationPatch{UUID: "B", State: &minimized})

	uuid := "B"
	status := types.StatusOpen
	apps, err := m.List(context.Background(), &types.Filter{UUID: &uuid, Status: &status})
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestUpdateRequiresUUID(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.Update(context.Background(), types.ApplicationPatch{})
	assert.Error(t, err)
}

func TestConfigurationPassthrough(t *testing.T) {
	m, _ := newTestManager(t)
	cfg := map[string]interface{}{"language": "go", "nested": map[string]interface{}{"a": 1.0}}

	app := open(t, m, types.ApplicationPatch{UUID: "A", Configuration: cfg})
	assert.Equal(t, cfg, app.Configuration)

	// A patch without configuration keeps the previous blob.
	app = open(t, m, types.ApplicationPatch{
		UUID:   "A",
		Layout: &types.LayoutPatch{Position: &types.PositionPatch{X: types.Float(1)}},
	})
	assert.Equal(t, cfg, app.Configuration)
}

func TestStorageIsSourceOfTruth(t *testing.T) {
	store := storage.NewMemory()
	first := newManagerOn(store)
	second := newManagerOn(store)

	_, err := first.Update(context.Background(), types.ApplicationPatch{UUID: "A"})
	require.NoError(t, err)

	// A second manager over the same store sees the entry without any
	// in-memory handoff.
	apps, err := second.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "A", apps[0].UUID)
}

func TestMalformedSlotsDropped(t *testing.T) {
	store := storage.NewMemory()
	seed := `[{"uuid":"A","layout":{"dimension":{"height":400,"width":400},"position":{"x":1,"y":2,"z":3}},"state":{"status":"open"}},42,null,{"layout":{}},"junk"]`
	require.NoError(t, store.Set(context.Background(), DefaultRegistryKey, []byte(seed)))

	m := newManagerOn(store)
	apps, err := m.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "A", apps[0].UUID)
}

func TestCorruptedRegistryDegradesToEmpty(t *testing.T) {
	store := storage.NewMemory()
	require.NoError(t, store.Set(context.Background(), DefaultRegistryKey, []byte("not json at all")))

	m := newManagerOn(store)
	apps, err := m.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, apps)

	// The next write repairs the stored value.
	_, err = m.Update(context.Background(), types.ApplicationPatch{UUID: "A"})
	require.NoError(t, err)
	apps, err = m.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, apps, 1)
}

func TestGet(t *testing.T) {
	m, _ := newTestManager(t)
	open(t, m, types.ApplicationPatch{UUID: "A"})

	app, found, err := m.Get(context.Background(), "A")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "A", app.UUID)

	_, found, err = m.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStats(t *testing.T) {
	m, _ := newTestManager(t)
	open(t, m, types.ApplicationPatch{UUID: "A"})
	minimized := types.ApplicationState{Status: types.StatusMinimized}
	open(t, m, types.ApplicationPatch{UUID: "B", State: &minimized})

	stats, err := m.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalApps)
	assert.Equal(t, 1, stats.OpenApps)
	assert.Equal(t, 1, stats.MinimizedApps)
}

func TestEvents(t *testing.T) {
	m, _ := newTestManager(t)
	var events []Event
	m.Subscribe(func(e Event) { events = append(events, e) })

	open(t, m, types.ApplicationPatch{UUID: "A"})
	require.NoError(t, m.Close(context.Background(), "A"))

	require.Len(t, events, 2)
	assert.Equal(t, EventUpdated, events[0].Type)
	require.NotNil(t, events[0].Application)
	assert.Equal(t, "A", events[0].Application.UUID)
	assert.Equal(t, EventClosed, events[1].Type)
	assert.Nil(t, events[1].Application)
}
