// Package hotkey registers global key combinations and delivers presses
// asynchronously on a channel.
package hotkey

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bnema/cursorlock/internal/config"
)

// ID is a stable identifier for one of the three application hotkeys.
type ID int

const (
	IDLock ID = iota + 1
	IDUnlock
	IDToggle
)

func (id ID) String() string {
	switch id {
	case IDLock:
		return "lock"
	case IDUnlock:
		return "unlock"
	case IDToggle:
		return "toggle"
	default:
		return fmt.Sprintf("hotkey(%d)", int(id))
	}
}

// AllIDs lists the hotkey identifiers in registration order.
var AllIDs = []ID{IDLock, IDUnlock, IDToggle}

// ErrInvalidKey is returned when a binding's key is empty or names no
// supported key (A-Z, 0-9, F1-F24).
var ErrInvalidKey = errors.New("invalid hotkey key")

// Result reports the outcome of a RegisterAll call. Bindings register
// independently: one failing does not prevent the others.
type Result struct {
	Succeeded []ID
	Failures  map[ID]error
}

// Ok reports whether every binding registered.
func (r Result) Ok() bool {
	return len(r.Failures) == 0
}

// Registrar registers and unregisters the application's global hotkeys.
type Registrar interface {
	// RegisterAll registers each binding independently and reports
	// per-binding failures.
	RegisterAll(bindings map[ID]config.HotkeyBinding) Result

	// UnregisterAll removes every registered hotkey. Idempotent.
	UnregisterAll()

	// Events delivers hotkey presses. The channel is never closed while
	// the registrar is open; presses arriving faster than the consumer
	// drains them are dropped.
	Events() <-chan ID

	// Close unregisters everything and releases the registrar.
	Close() error
}

// ParseKey maps a key name to an X keysym. Supported names are single
// letters A-Z, digits 0-9 and function keys F1-F24.
func ParseKey(key string) (uint32, error) {
	s := strings.ToUpper(strings.TrimSpace(key))
	if s == "" {
		return 0, fmt.Errorf("%w: empty key", ErrInvalidKey)
	}

	if len(s) == 1 {
		c := s[0]
		switch {
		case c >= 'A' && c <= 'Z':
			// Letter keysyms are the lowercase codepoints
			return uint32(c - 'A' + 'a'), nil
		case c >= '0' && c <= '9':
			return uint32(c), nil
		}
	}

	if strings.HasPrefix(s, "F") {
		if n, err := strconv.Atoi(s[1:]); err == nil && n >= 1 && n <= 24 {
			const xkF1 = 0xffbe
			return uint32(xkF1 + n - 1), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidKey, key)
}

// Format renders a binding for display, e.g. "Ctrl+Alt+L".
func Format(b config.HotkeyBinding) string {
	var parts []string
	if b.Ctrl {
		parts = append(parts, "Ctrl")
	}
	if b.Alt {
		parts = append(parts, "Alt")
	}
	if b.Shift {
		parts = append(parts, "Shift")
	}
	if b.Super {
		parts = append(parts, "Super")
	}
	key := strings.ToUpper(strings.TrimSpace(b.Key))
	if key == "" {
		key = "?"
	}
	parts = append(parts, key)
	return strings.Join(parts, "+")
}

// Bindings extracts the ID-to-binding map from a config.
func Bindings(c *config.Config) map[ID]config.HotkeyBinding {
	return map[ID]config.HotkeyBinding{
		IDLock:   c.Hotkeys.Lock,
		IDUnlock: c.Hotkeys.Unlock,
		IDToggle: c.Hotkeys.Toggle,
	}
}
