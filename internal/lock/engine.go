package lock

import (
	"context"
	"time"

	"github.com/bnema/cursorlock/internal/config"
	"github.com/bnema/cursorlock/internal/hotkey"
	"github.com/bnema/cursorlock/internal/logger"
	"github.com/bnema/cursorlock/internal/window"
)

// focusPollInterval matches the cadence at which the active window title
// is sampled for the window filter.
const focusPollInterval = 500 * time.Millisecond

// Engine runs the lock state machine on a single goroutine. Hotkey events,
// the re-center timer, the focus poll and external requests (CLI, IPC) are
// all serialized through its event loop, so the Coordinator never needs a
// mutex.
type Engine struct {
	coord     *Coordinator
	registrar hotkey.Registrar
	inspector window.Inspector
	config    func() *config.Config

	requests chan func()

	recenter         *time.Ticker
	recenterC        <-chan time.Time
	recenterInterval time.Duration

	onHotkeyResult func(hotkey.Result)
}

// NewEngine wires the coordinator to its event sources. Run must be called
// before the dispatch methods are useful.
func NewEngine(coord *Coordinator, registrar hotkey.Registrar, inspector window.Inspector, cfg func() *config.Config) *Engine {
	return &Engine{
		coord:     coord,
		registrar: registrar,
		inspector: inspector,
		config:    cfg,
		requests:  make(chan func(), 16),
	}
}

// SetOnHotkeyResult sets a callback invoked whenever hotkeys are
// (re-)registered, including partial failures.
func (e *Engine) SetOnHotkeyResult(fn func(hotkey.Result)) {
	e.onHotkeyResult = fn
}

// Run registers the hotkeys and drives the event loop until ctx is
// cancelled. On return the confinement is released and the hotkeys are
// unregistered, whatever the exit path.
func (e *Engine) Run(ctx context.Context) error {
	result := e.registrar.RegisterAll(hotkey.Bindings(e.config()))
	e.reportHotkeys(result)
	defer e.shutdown()

	focus := time.NewTicker(focusPollInterval)
	defer focus.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case id := <-e.registrar.Events():
			e.handleHotkey(id)
		case fn := <-e.requests:
			fn()
		case <-e.recenterC:
			e.coord.RecenterTick()
		case <-focus.C:
			e.pollFocus()
		}
		e.syncRecenterTimer()
	}
}

// Lock requests a lock transition and waits for the result.
func (e *Engine) Lock(ctx context.Context, manual bool) error {
	return e.do(ctx, func() error { return e.coord.Lock(manual) })
}

// Unlock requests an unlock transition and waits for the result.
func (e *Engine) Unlock(ctx context.Context, manual bool) error {
	return e.do(ctx, func() error { return e.coord.Unlock(manual) })
}

// Toggle requests a manual toggle and waits for the result.
func (e *Engine) Toggle(ctx context.Context) error {
	return e.do(ctx, func() error { return e.coord.Toggle() })
}

// Status returns a snapshot of the current state.
func (e *Engine) Status(ctx context.Context) (State, error) {
	var st State
	err := e.do(ctx, func() error {
		st = e.coord.State()
		return nil
	})
	return st, err
}

// ApplyConfiguration swaps in a new configuration and re-registers the
// hotkeys against it. The returned result lists per-hotkey registration
// failures.
func (e *Engine) ApplyConfiguration(ctx context.Context, cfg *config.Config) (hotkey.Result, error) {
	var result hotkey.Result
	err := e.do(ctx, func() error {
		config.Set(cfg)
		e.registrar.UnregisterAll()
		result = e.registrar.RegisterAll(hotkey.Bindings(cfg))
		e.reportHotkeys(result)
		return nil
	})
	return result, err
}

// do posts fn to the event loop and waits for it to run.
func (e *Engine) do(ctx context.Context, fn func() error) error {
	reply := make(chan error, 1)
	select {
	case e.requests <- func() { reply <- fn() }:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) handleHotkey(id hotkey.ID) {
	logger.Debugf("Hotkey pressed: %s", id)
	var err error
	switch id {
	case hotkey.IDLock:
		err = e.coord.Lock(true)
	case hotkey.IDUnlock:
		err = e.coord.Unlock(true)
	case hotkey.IDToggle:
		err = e.coord.Toggle()
	}
	if err != nil {
		logger.Errorf("Hotkey %s failed: %v", id, err)
	}
}

func (e *Engine) pollFocus() {
	info, err := e.inspector.ActiveWindow()
	if err != nil {
		// Transient, the next poll retries.
		logger.Debugf("Focus poll failed: %v", err)
		return
	}
	e.coord.FocusChanged(info.Title)
}

// syncRecenterTimer starts, stops or retunes the re-center ticker so it
// runs exactly when the coordinator wants it. A nil channel parks the
// select case while inactive.
func (e *Engine) syncRecenterTimer() {
	if !e.coord.RecenterWanted() {
		if e.recenter != nil {
			e.recenter.Stop()
			e.recenter = nil
			e.recenterC = nil
		}
		return
	}
	interval := e.config().Recenter.Interval()
	if e.recenter != nil && interval == e.recenterInterval {
		return
	}
	if e.recenter != nil {
		e.recenter.Stop()
	}
	e.recenter = time.NewTicker(interval)
	e.recenterC = e.recenter.C
	e.recenterInterval = interval
}

// recenterActive reports whether the re-center ticker is running.
func (e *Engine) recenterActive() bool {
	return e.recenter != nil
}

func (e *Engine) reportHotkeys(result hotkey.Result) {
	for _, id := range result.Succeeded {
		logger.Debugf("Registered hotkey %s", id)
	}
	for id, err := range result.Failures {
		logger.Warnf("Failed to register hotkey %s: %v", id, err)
	}
	if e.onHotkeyResult != nil {
		e.onHotkeyResult(result)
	}
}

func (e *Engine) shutdown() {
	if e.recenter != nil {
		e.recenter.Stop()
		e.recenter = nil
		e.recenterC = nil
	}
	if err := e.coord.Unlock(false); err != nil {
		logger.Errorf("Failed to release cursor on shutdown: %v", err)
	}
	e.registrar.UnregisterAll()
}
