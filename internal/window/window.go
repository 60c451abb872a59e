// Package window reports the identity of the focused window and enumerates
// visible windows for the process picker.
package window

// Info identifies a top-level window.
type Info struct {
	ID      uint32
	Title   string
	Process string
}

// Inspector reads window state from the display server. Query failures are
// transient: callers treat them as "no window this cycle" and retry on the
// next poll.
type Inspector interface {
	// ActiveWindow returns the currently focused top-level window.
	ActiveWindow() (Info, error)

	// ProcessName resolves the short process name owning the window.
	ProcessName(id uint32) (string, error)

	// List enumerates visible titled windows, sorted by title.
	List() ([]Info, error)

	// Close releases the underlying display connection.
	Close() error
}
