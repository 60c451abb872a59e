package ipc

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// Action identifies a command a client can send to the running daemon.
type Action string

const (
	ActionLock   Action = "lock"
	ActionUnlock Action = "unlock"
	ActionToggle Action = "toggle"
	ActionStatus Action = "status"
	ActionShow   Action = "show"
	ActionReload Action = "reload"
	ActionQuit   Action = "quit"
)

// maxFrameSize bounds a single message so a bad peer cannot make the
// server allocate arbitrarily.
const maxFrameSize = 64 * 1024

// Request is a client command.
type Request struct {
	Action Action `json:"action"`
}

// Response is the daemon's reply to a request.
type Response struct {
	OK     bool    `json:"ok"`
	Error  string  `json:"error,omitempty"`
	Status *Status `json:"status,omitempty"`
}

// Status describes the daemon state for status queries.
type Status struct {
	Locked         bool   `json:"locked"`
	ManualOverride bool   `json:"manual_override"`
	AutoSuspended  bool   `json:"auto_suspended"`
	ActiveWindow   string `json:"active_window,omitempty"`
	Position       string `json:"position"`
}

// NewErrorResponse builds a failed response with the given message.
func NewErrorResponse(format string, args ...any) Response {
	return Response{Error: fmt.Sprintf(format, args...)}
}

// writeFrame writes v as a length-prefixed JSON message. The length is a
// 4-byte big endian prefix.
func writeFrame(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	length := uint32(len(data)) //nolint:gosec // message length within uint32 range
	if err := binary.Write(w, binary.BigEndian, length); err != nil {
		return fmt.Errorf("failed to write message length: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write message data: %w", err)
	}
	return nil
}

// readFrame reads a length-prefixed JSON message into v.
func readFrame(r io.Reader, v any) error {
	var length uint32
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return fmt.Errorf("failed to read message length: %w", err)
	}
	if length > maxFrameSize {
		return fmt.Errorf("message too large: %d bytes", length)
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return fmt.Errorf("failed to read message data: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}
	return nil
}
