// Package cursor provides cursor positioning and confinement.
//
// All mutating operations go through the Port interface; the lock
// coordinator is the only component allowed to call them.
package cursor

import (
	"fmt"

	"github.com/bnema/cursorlock/internal/config"
)

// Point is a screen coordinate in virtual-screen space.
type Point struct {
	X int
	Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Port abstracts the display server's cursor operations.
type Port interface {
	// VirtualScreenCenter returns the center of the bounding rectangle
	// spanning all monitors.
	VirtualScreenCenter() (Point, error)

	// PrimaryScreenCenter returns the center of the primary monitor.
	PrimaryScreenCenter() (Point, error)

	// MoveTo warps the cursor to p.
	MoveTo(p Point) error

	// ConfineTo restricts cursor movement to the single pixel at p.
	// Calling it again with a new point moves the confinement region.
	ConfineTo(p Point) error

	// Release removes any active confinement. Safe to call when none is active.
	Release() error

	// Close releases the underlying display connection.
	Close() error
}

// Resolve maps a position config to a concrete point. It queries the Port
// on every call so monitor layout changes are picked up live.
func Resolve(pos config.PositionConfig, port Port) (Point, error) {
	switch pos.Mode {
	case config.PositionPrimaryCenter:
		return port.PrimaryScreenCenter()
	case config.PositionCustom:
		return Point{X: pos.CustomX, Y: pos.CustomY}, nil
	default:
		return port.VirtualScreenCenter()
	}
}
