package lock

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/cursorlock/internal/config"
	"github.com/bnema/cursorlock/internal/cursor"
	"github.com/bnema/cursorlock/internal/window"
)

// fakeCursor records port calls and can be told to fail.
type fakeCursor struct {
	moves    []cursor.Point
	confines []cursor.Point
	releases int

	confineErr error
	releaseErr error
}

func (f *fakeCursor) VirtualScreenCenter() (cursor.Point, error) {
	return cursor.Point{X: 960, Y: 540}, nil
}

func (f *fakeCursor) PrimaryScreenCenter() (cursor.Point, error) {
	return cursor.Point{X: 640, Y: 360}, nil
}

func (f *fakeCursor) MoveTo(p cursor.Point) error {
	f.moves = append(f.moves, p)
	return nil
}

func (f *fakeCursor) ConfineTo(p cursor.Point) error {
	if f.confineErr != nil {
		return f.confineErr
	}
	f.confines = append(f.confines, p)
	return nil
}

func (f *fakeCursor) Release() error {
	f.releases++
	return f.releaseErr
}

func (f *fakeCursor) Close() error { return nil }

// fakeInspector returns a fixed active window or an error.
type fakeInspector struct {
	active window.Info
	err    error
}

func (f *fakeInspector) ActiveWindow() (window.Info, error) {
	if f.err != nil {
		return window.Info{}, f.err
	}
	return f.active, nil
}

func (f *fakeInspector) ProcessName(id uint32) (string, error) { return f.active.Process, nil }
func (f *fakeInspector) List() ([]window.Info, error)          { return []window.Info{f.active}, nil }
func (f *fakeInspector) Close() error                          { return nil }

func newTestCoordinator(cfg *config.Config, port *fakeCursor, inspector *fakeInspector) *Coordinator {
	return NewCoordinator(func() *config.Config { return cfg }, port, inspector)
}

// defaultConfig returns a fresh copy so tests can mutate it freely.
func defaultConfig() *config.Config {
	cfg := config.DefaultConfig
	return &cfg
}

func filterConfig(target string, autoLock bool) *config.Config {
	cfg := defaultConfig()
	cfg.WindowFilter.Enabled = true
	cfg.WindowFilter.TargetTitle = target
	cfg.WindowFilter.AutoLockOnFocus = autoLock
	return cfg
}

func TestCoordinator_LockUnlock(t *testing.T) {
	t.Run("manual lock confines at resolved point", func(t *testing.T) {
		port := &fakeCursor{}
		c := newTestCoordinator(defaultConfig(), port, &fakeInspector{})

		require.NoError(t, c.Lock(true))

		st := c.State()
		assert.True(t, st.Locked)
		assert.True(t, st.ManualOverride)
		require.Len(t, port.confines, 1)
		assert.Equal(t, cursor.Point{X: 960, Y: 540}, port.confines[0])
		require.Len(t, port.moves, 1)
		assert.Equal(t, port.confines[0], port.moves[0])
	})

	t.Run("lock while locked is a no-op", func(t *testing.T) {
		port := &fakeCursor{}
		c := newTestCoordinator(defaultConfig(), port, &fakeInspector{})

		require.NoError(t, c.Lock(true))
		require.NoError(t, c.Lock(true))

		assert.Len(t, port.confines, 1)
	})

	t.Run("manual lock over an auto lock is a no-op", func(t *testing.T) {
		port := &fakeCursor{}
		inspector := &fakeInspector{active: window.Info{Title: "Editor"}}
		c := newTestCoordinator(filterConfig("Editor", true), port, inspector)

		var notifies int
		c.SetOnStateChanged(func(State) { notifies++ })

		require.NoError(t, c.Lock(false))
		require.True(t, c.State().Locked)

		require.NoError(t, c.Lock(true))

		assert.False(t, c.State().ManualOverride)
		assert.Equal(t, 1, notifies)
	})

	t.Run("confinement failure leaves state unlocked", func(t *testing.T) {
		port := &fakeCursor{confineErr: errors.New("grab refused")}
		c := newTestCoordinator(defaultConfig(), port, &fakeInspector{})

		err := c.Lock(true)

		var confErr *ConfinementError
		require.ErrorAs(t, err, &confErr)
		assert.False(t, c.State().Locked)
	})

	t.Run("unlock releases confinement", func(t *testing.T) {
		port := &fakeCursor{}
		c := newTestCoordinator(defaultConfig(), port, &fakeInspector{})

		require.NoError(t, c.Lock(true))
		require.NoError(t, c.Unlock(true))

		assert.False(t, c.State().Locked)
		assert.Equal(t, 1, port.releases)
	})

	t.Run("unlock while unlocked is a no-op", func(t *testing.T) {
		port := &fakeCursor{}
		c := newTestCoordinator(defaultConfig(), port, &fakeInspector{})

		require.NoError(t, c.Unlock(true))

		assert.Equal(t, 0, port.releases)
	})

	t.Run("manual unlock with the filter disabled does not suspend", func(t *testing.T) {
		port := &fakeCursor{}
		cfg := defaultConfig()
		cfg.WindowFilter.AutoLockOnFocus = true // stale flag, filter off

		c := newTestCoordinator(cfg, port, &fakeInspector{})
		require.NoError(t, c.Lock(true))
		require.NoError(t, c.Unlock(true))

		assert.False(t, c.State().AutoSuspended)
	})

	t.Run("release failure still flips state to unlocked", func(t *testing.T) {
		port := &fakeCursor{releaseErr: errors.New("ungrab failed")}
		c := newTestCoordinator(defaultConfig(), port, &fakeInspector{})

		require.NoError(t, c.Lock(true))
		err := c.Unlock(true)

		var relErr *ReleaseError
		require.ErrorAs(t, err, &relErr)
		assert.False(t, c.State().Locked)
	})
}

func TestCoordinator_Toggle(t *testing.T) {
	port := &fakeCursor{}
	c := newTestCoordinator(defaultConfig(), port, &fakeInspector{})

	require.NoError(t, c.Toggle())
	assert.True(t, c.State().Locked)

	require.NoError(t, c.Toggle())
	assert.False(t, c.State().Locked)
	assert.Equal(t, 1, port.releases)
}

func TestCoordinator_WindowFilter(t *testing.T) {
	t.Run("manual lock bypasses the filter", func(t *testing.T) {
		port := &fakeCursor{}
		inspector := &fakeInspector{active: window.Info{Title: "Browser"}}
		c := newTestCoordinator(filterConfig("Editor", false), port, inspector)

		require.NoError(t, c.Lock(true))

		assert.True(t, c.State().Locked)
	})

	t.Run("auto lock is gated on the target title", func(t *testing.T) {
		port := &fakeCursor{}
		inspector := &fakeInspector{active: window.Info{Title: "Browser"}}
		c := newTestCoordinator(filterConfig("Editor", false), port, inspector)

		require.NoError(t, c.Lock(false))
		assert.False(t, c.State().Locked)

		inspector.active.Title = "Editor"
		require.NoError(t, c.Lock(false))
		assert.True(t, c.State().Locked)
	})

	t.Run("query failure skips the auto-lock cycle", func(t *testing.T) {
		port := &fakeCursor{}
		inspector := &fakeInspector{err: errors.New("no active window")}
		c := newTestCoordinator(filterConfig("Editor", false), port, inspector)

		require.NoError(t, c.Lock(false))

		assert.False(t, c.State().Locked)
		assert.Empty(t, port.confines)
	})
}

func TestCoordinator_FocusChanged(t *testing.T) {
	t.Run("auto-locks when target gains focus", func(t *testing.T) {
		port := &fakeCursor{}
		c := newTestCoordinator(filterConfig("Editor", true), port, &fakeInspector{active: window.Info{Title: "Editor"}})

		c.FocusChanged("Editor")

		assert.True(t, c.State().Locked)
		assert.False(t, c.State().ManualOverride)
	})

	t.Run("auto-unlocks when focus leaves the target", func(t *testing.T) {
		port := &fakeCursor{}
		inspector := &fakeInspector{active: window.Info{Title: "Editor"}}
		c := newTestCoordinator(filterConfig("Editor", true), port, inspector)

		c.FocusChanged("Editor")
		require.True(t, c.State().Locked)

		c.FocusChanged("Browser")

		assert.False(t, c.State().Locked)
		assert.Equal(t, 1, port.releases)
	})

	t.Run("repeated title is edge-filtered", func(t *testing.T) {
		port := &fakeCursor{}
		c := newTestCoordinator(filterConfig("Editor", true), port, &fakeInspector{active: window.Info{Title: "Editor"}})

		c.FocusChanged("Editor")
		require.NoError(t, c.Unlock(true))
		c.FocusChanged("Editor")

		assert.False(t, c.State().Locked)
	})

	t.Run("manual unlock suspends auto-lock until focus leaves the target", func(t *testing.T) {
		port := &fakeCursor{}
		c := newTestCoordinator(filterConfig("Editor", true), port, &fakeInspector{active: window.Info{Title: "Editor"}})

		c.FocusChanged("Other")
		require.NoError(t, c.Lock(true))
		require.NoError(t, c.Unlock(true))
		require.True(t, c.State().AutoSuspended)

		// Focus moving to the target does not re-lock while suspended.
		c.FocusChanged("Editor")
		assert.False(t, c.State().Locked)
		assert.True(t, c.State().AutoSuspended)

		// Leaving the target re-arms, the next visit locks again.
		c.FocusChanged("Browser")
		assert.False(t, c.State().AutoSuspended)
		c.FocusChanged("Editor")
		assert.True(t, c.State().Locked)
	})

	t.Run("manual lock clears the suspension", func(t *testing.T) {
		port := &fakeCursor{}
		c := newTestCoordinator(filterConfig("Editor", true), port, &fakeInspector{active: window.Info{Title: "Editor"}})

		require.NoError(t, c.Lock(true))
		require.NoError(t, c.Unlock(true))
		require.True(t, c.State().AutoSuspended)

		require.NoError(t, c.Lock(true))

		assert.False(t, c.State().AutoSuspended)
	})

	t.Run("filter disabled ignores focus changes", func(t *testing.T) {
		port := &fakeCursor{}
		cfg := defaultConfig()
		c := newTestCoordinator(cfg, port, &fakeInspector{})

		require.NoError(t, c.Lock(true))
		c.FocusChanged("Anything")

		assert.True(t, c.State().Locked)
	})
}

func TestCoordinator_RecenterTick(t *testing.T) {
	t.Run("snaps cursor back while locked", func(t *testing.T) {
		port := &fakeCursor{}
		c := newTestCoordinator(defaultConfig(), port, &fakeInspector{})

		require.NoError(t, c.Lock(true))
		c.RecenterTick()

		assert.Len(t, port.moves, 2)
		assert.Len(t, port.confines, 2)
	})

	t.Run("no-op while unlocked", func(t *testing.T) {
		port := &fakeCursor{}
		c := newTestCoordinator(defaultConfig(), port, &fakeInspector{})

		c.RecenterTick()

		assert.Empty(t, port.moves)
	})

	t.Run("auto lock unlocks when the filter stops matching", func(t *testing.T) {
		port := &fakeCursor{}
		inspector := &fakeInspector{active: window.Info{Title: "Editor"}}
		c := newTestCoordinator(filterConfig("Editor", true), port, inspector)

		c.FocusChanged("Editor")
		require.True(t, c.State().Locked)

		inspector.active.Title = "Browser"
		c.RecenterTick()

		assert.False(t, c.State().Locked)
	})

	t.Run("manual lock also releases when the filter stops matching", func(t *testing.T) {
		port := &fakeCursor{}
		inspector := &fakeInspector{active: window.Info{Title: "Browser"}}
		c := newTestCoordinator(filterConfig("Editor", false), port, inspector)

		// Manual lock bypasses the filter, the next tick enforces it.
		require.NoError(t, c.Lock(true))
		c.RecenterTick()

		assert.False(t, c.State().Locked)
	})

	t.Run("query failure keeps the confinement", func(t *testing.T) {
		port := &fakeCursor{}
		inspector := &fakeInspector{active: window.Info{Title: "Editor"}}
		c := newTestCoordinator(filterConfig("Editor", true), port, inspector)

		c.FocusChanged("Editor")
		require.True(t, c.State().Locked)

		inspector.err = errors.New("query failed")
		c.RecenterTick()

		assert.True(t, c.State().Locked)
	})
}

func TestCoordinator_CustomPosition(t *testing.T) {
	cfg := defaultConfig()
	cfg.Position.Mode = config.PositionCustom
	cfg.Position.CustomX = 100
	cfg.Position.CustomY = 200
	port := &fakeCursor{}
	c := newTestCoordinator(cfg, port, &fakeInspector{})

	require.NoError(t, c.Lock(true))

	require.Len(t, port.confines, 1)
	assert.Equal(t, cursor.Point{X: 100, Y: 200}, port.confines[0])
}

func TestCoordinator_StateCallback(t *testing.T) {
	port := &fakeCursor{}
	c := newTestCoordinator(defaultConfig(), port, &fakeInspector{})

	var states []State
	c.SetOnStateChanged(func(st State) { states = append(states, st) })

	require.NoError(t, c.Lock(true))
	require.NoError(t, c.Unlock(true))

	require.Len(t, states, 2)
	assert.True(t, states[0].Locked)
	assert.False(t, states[1].Locked)
}
