package lock

import (
	"github.com/bnema/cursorlock/internal/config"
	"github.com/bnema/cursorlock/internal/cursor"
	"github.com/bnema/cursorlock/internal/logger"
	"github.com/bnema/cursorlock/internal/window"
)

// State is a snapshot of the lock state machine.
type State struct {
	// Locked reports whether the cursor is currently confined.
	Locked bool
	// ManualOverride is set while a lock was requested explicitly (hotkey
	// or CLI) rather than by the window filter. A manual lock ignores the
	// filter at lock time; once held, focus leaving the target window
	// releases it like any other lock.
	ManualOverride bool
	// AutoSuspended is set when the user manually unlocks while
	// auto-lock-on-focus is enabled. It keeps the filter from immediately
	// re-locking until focus leaves the target window once.
	AutoSuspended bool
	// LastWindowTitle is the most recently observed active window title.
	LastWindowTitle string
}

// Coordinator owns the lock state machine. It is not safe for concurrent
// use; the Engine serializes all calls onto a single goroutine.
type Coordinator struct {
	config    func() *config.Config
	cursor    cursor.Port
	inspector window.Inspector

	state          State
	onStateChanged func(State)
}

// NewCoordinator creates a coordinator in the unlocked state. The config
// func is called on every transition so live config changes take effect
// without a restart.
func NewCoordinator(cfg func() *config.Config, port cursor.Port, inspector window.Inspector) *Coordinator {
	return &Coordinator{
		config:    cfg,
		cursor:    port,
		inspector: inspector,
	}
}

// SetOnStateChanged sets a callback invoked after every state transition.
func (c *Coordinator) SetOnStateChanged(fn func(State)) {
	c.onStateChanged = fn
}

// State returns the current state snapshot.
func (c *Coordinator) State() State {
	return c.state
}

// RecenterWanted reports whether the periodic re-center timer should run.
func (c *Coordinator) RecenterWanted() bool {
	return c.state.Locked && c.config().Recenter.Enabled
}

// Lock confines the cursor to the configured position. A manual lock
// (hotkey, CLI, IPC) bypasses the window filter; an automatic lock is
// gated on the active window matching the filter target.
func (c *Coordinator) Lock(manual bool) error {
	if c.state.Locked {
		return nil
	}

	cfg := c.config()
	if !manual {
		allowed, err := c.windowAllows(cfg)
		if err != nil {
			// Transient query failure, skip this cycle.
			logger.Debugf("Active window query failed, skipping auto-lock: %v", err)
			return nil
		}
		if !allowed {
			return nil
		}
	}

	pt, err := cursor.Resolve(cfg.Position, c.cursor)
	if err != nil {
		return &ConfinementError{Err: err}
	}
	if err := c.cursor.MoveTo(pt); err != nil {
		// The grab below still pins the cursor, warn and carry on.
		logger.Warnf("Failed to move cursor to %s: %v", pt, err)
	}
	if err := c.cursor.ConfineTo(pt); err != nil {
		return &ConfinementError{Err: err}
	}

	c.state.Locked = true
	c.state.ManualOverride = manual
	if manual {
		c.state.AutoSuspended = false
	}
	logger.Infof("Cursor locked to %s (manual=%t)", pt, manual)
	c.notify()
	return nil
}

// Unlock releases the confinement. State is updated to unlocked even when
// the release call fails; the error is still returned so callers can
// surface it.
func (c *Coordinator) Unlock(manual bool) error {
	if !c.state.Locked {
		return nil
	}

	c.state.Locked = false
	c.state.ManualOverride = false
	filter := c.config().WindowFilter
	if manual && filter.Enabled && filter.AutoLockOnFocus {
		c.state.AutoSuspended = true
	}

	var releaseErr error
	if err := c.cursor.Release(); err != nil {
		releaseErr = &ReleaseError{Err: err}
		logger.Errorf("Failed to release cursor confinement: %v", err)
	}
	logger.Infof("Cursor unlocked (manual=%t)", manual)
	c.notify()
	return releaseErr
}

// Toggle locks when unlocked and unlocks when locked, always as a manual
// action.
func (c *Coordinator) Toggle() error {
	if c.state.Locked {
		return c.Unlock(true)
	}
	return c.Lock(true)
}

// RecenterTick is invoked by the periodic re-center timer. It re-checks
// the window filter and snaps the cursor back to the lock point.
func (c *Coordinator) RecenterTick() {
	if !c.state.Locked {
		return
	}

	cfg := c.config()
	if cfg.WindowFilter.Enabled {
		info, err := c.inspector.ActiveWindow()
		if err != nil {
			// Keep the confinement, the next tick retries.
			logger.Debugf("Active window query failed during re-center: %v", err)
		} else if info.Title != cfg.WindowFilter.TargetTitle {
			_ = c.Unlock(false)
			return
		}
	}

	pt, err := cursor.Resolve(cfg.Position, c.cursor)
	if err != nil {
		logger.Debugf("Failed to resolve lock position: %v", err)
		return
	}
	if err := c.cursor.MoveTo(pt); err != nil {
		logger.Debugf("Re-center move failed: %v", err)
	}
	if err := c.cursor.ConfineTo(pt); err != nil {
		logger.Debugf("Re-center confinement refresh failed: %v", err)
	}
}

// FocusChanged is invoked with the currently active window title. It is
// edge-triggered: repeated reports of the same title are no-ops.
func (c *Coordinator) FocusChanged(title string) {
	if title == c.state.LastWindowTitle {
		return
	}
	c.state.LastWindowTitle = title

	cfg := c.config()
	filter := cfg.WindowFilter
	if !filter.Enabled {
		c.notify()
		return
	}

	onTarget := title == filter.TargetTitle
	if !onTarget && c.state.AutoSuspended {
		// Focus left the target, re-arm auto-lock for the next visit.
		c.state.AutoSuspended = false
	}

	switch {
	case !filter.AutoLockOnFocus:
		c.notify()
	case c.state.Locked && !onTarget:
		_ = c.Unlock(false)
	case !c.state.Locked && onTarget && !c.state.AutoSuspended:
		_ = c.Lock(false)
	default:
		c.notify()
	}
}

// windowAllows reports whether the active window passes the filter. With
// the filter disabled every window passes.
func (c *Coordinator) windowAllows(cfg *config.Config) (bool, error) {
	if !cfg.WindowFilter.Enabled {
		return true, nil
	}
	info, err := c.inspector.ActiveWindow()
	if err != nil {
		return false, err
	}
	return info.Title == cfg.WindowFilter.TargetTitle, nil
}

func (c *Coordinator) notify() {
	if c.onStateChanged != nil {
		c.onStateChanged(c.state)
	}
}
