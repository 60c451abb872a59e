package hotkey

import (
	"fmt"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/bnema/cursorlock/internal/config"
	"github.com/bnema/cursorlock/internal/logger"
)

// lockMasks are the CapsLock/NumLock variants each combination is grabbed
// under, so active lock keys don't defeat the hotkey.
var lockMasks = []uint16{
	0,
	xproto.ModMaskLock,
	xproto.ModMask2,
	xproto.ModMaskLock | xproto.ModMask2,
}

// X11Registrar implements Registrar with passive key grabs on the root
// window. It holds its own X connection so its event loop never contends
// with the cursor port.
type X11Registrar struct {
	conn *xgb.Conn
	root xproto.Window

	minKeycode xproto.Keycode
	keysyms    []xproto.Keysym
	perKeycode byte

	mu      sync.Mutex
	grabbed map[grabKey]ID

	events chan ID
	wg     sync.WaitGroup
	closed bool
}

type grabKey struct {
	keycode xproto.Keycode
	mods    uint16
}

// NewX11Registrar connects to the X server and starts the event loop.
func NewX11Registrar() (*X11Registrar, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}

	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)

	minKc := setup.MinKeycode
	count := byte(setup.MaxKeycode - minKc + 1)
	mapping, err := xproto.GetKeyboardMapping(conn, minKc, count).Reply()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to fetch keyboard mapping: %w", err)
	}

	r := &X11Registrar{
		conn:       conn,
		root:       screen.Root,
		minKeycode: minKc,
		keysyms:    mapping.Keysyms,
		perKeycode: mapping.KeysymsPerKeycode,
		grabbed:    make(map[grabKey]ID),
		events:     make(chan ID, 8),
	}

	r.wg.Add(1)
	go r.eventLoop()

	return r, nil
}

// RegisterAll grabs each binding independently on the root window.
func (r *X11Registrar) RegisterAll(bindings map[ID]config.HotkeyBinding) Result {
	result := Result{Failures: make(map[ID]error)}

	for _, id := range AllIDs {
		binding, ok := bindings[id]
		if !ok {
			continue
		}
		if err := r.register(id, binding); err != nil {
			logger.Warnf("Failed to register %s hotkey %s: %v", id, Format(binding), err)
			result.Failures[id] = err
			continue
		}
		logger.Debugf("Registered %s hotkey %s", id, Format(binding))
		result.Succeeded = append(result.Succeeded, id)
	}

	return result
}

func (r *X11Registrar) register(id ID, binding config.HotkeyBinding) error {
	keysym, err := ParseKey(binding.Key)
	if err != nil {
		return err
	}

	keycode := r.keycodeFor(xproto.Keysym(keysym))
	if keycode == 0 {
		return fmt.Errorf("key %q has no keycode on this keyboard", binding.Key)
	}

	mods := modMask(binding)

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, lock := range lockMasks {
		err := xproto.GrabKeyChecked(r.conn, true, r.root, mods|lock, keycode,
			xproto.GrabModeAsync, xproto.GrabModeAsync).Check()
		if err != nil {
			// Roll back the variants already grabbed for this binding
			for _, undo := range lockMasks[:i] {
				_ = xproto.UngrabKeyChecked(r.conn, keycode, r.root, mods|undo).Check()
			}
			return fmt.Errorf("key grab rejected (combination in use?): %w", err)
		}
	}

	r.grabbed[grabKey{keycode: keycode, mods: mods}] = id
	return nil
}

// UnregisterAll releases every grab. Safe to call when nothing is registered.
func (r *X11Registrar) UnregisterAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for gk := range r.grabbed {
		for _, lock := range lockMasks {
			_ = xproto.UngrabKeyChecked(r.conn, gk.keycode, r.root, gk.mods|lock).Check()
		}
	}
	r.grabbed = make(map[grabKey]ID)
}

// Events returns the press delivery channel.
func (r *X11Registrar) Events() <-chan ID {
	return r.events
}

// Close releases all grabs and shuts down the event loop.
func (r *X11Registrar) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	r.UnregisterAll()
	r.conn.Close()
	r.wg.Wait()
	return nil
}

func (r *X11Registrar) eventLoop() {
	defer r.wg.Done()

	for {
		ev, err := r.conn.WaitForEvent()
		if ev == nil && err == nil {
			// Connection closed
			return
		}
		if err != nil {
			logger.Debugf("X event error: %v", err)
			continue
		}

		press, ok := ev.(xproto.KeyPressEvent)
		if !ok {
			continue
		}

		mods := press.State &^ (xproto.ModMaskLock | xproto.ModMask2)

		r.mu.Lock()
		id, found := r.grabbed[grabKey{keycode: press.Detail, mods: mods}]
		r.mu.Unlock()
		if !found {
			continue
		}

		select {
		case r.events <- id:
		default:
			logger.Debugf("Dropping %s press, event queue full", id)
		}
	}
}

// keycodeFor scans the keyboard mapping for the first keycode producing keysym.
func (r *X11Registrar) keycodeFor(keysym xproto.Keysym) xproto.Keycode {
	per := int(r.perKeycode)
	for i := 0; i*per < len(r.keysyms); i++ {
		for col := 0; col < per; col++ {
			if r.keysyms[i*per+col] == keysym {
				return r.minKeycode + xproto.Keycode(i)
			}
		}
	}
	return 0
}

func modMask(b config.HotkeyBinding) uint16 {
	var mods uint16
	if b.Ctrl {
		mods |= xproto.ModMaskControl
	}
	if b.Alt {
		mods |= xproto.ModMask1
	}
	if b.Shift {
		mods |= xproto.ModMaskShift
	}
	if b.Super {
		mods |= xproto.ModMask4
	}
	return mods
}
