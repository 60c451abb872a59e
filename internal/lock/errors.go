package lock

import "fmt"

// ConfinementError reports that the display server refused to confine the
// cursor. The lock did not happen; state stays unlocked.
type ConfinementError struct {
	Err error
}

func (e *ConfinementError) Error() string {
	return fmt.Sprintf("cursor confinement failed: %v", e.Err)
}

func (e *ConfinementError) Unwrap() error {
	return e.Err
}

// ReleaseError reports that releasing the confinement failed. The state is
// still unlocked: release is best-effort and state wins over the OS call
// so the UI can never show "locked" after the user asked to unlock.
type ReleaseError struct {
	Err error
}

func (e *ReleaseError) Error() string {
	return fmt.Sprintf("cursor release failed: %v", e.Err)
}

func (e *ReleaseError) Unwrap() error {
	return e.Err
}
