package ipc

import (
	"fmt"
	"net"
	"time"

	"github.com/bnema/cursorlock/internal/logger"
)

// Client talks to a running daemon over its Unix socket. Connections are
// created per request.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates an IPC client for the per-user socket.
func NewClient() (*Client, error) {
	socketPath, err := GetSocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get socket path: %w", err)
	}
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}, nil
}

// NewClientAt creates an IPC client for an explicit socket path.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// Send delivers an action to the daemon and returns its response. A
// response carrying an error string is returned as a Go error.
func (c *Client) Send(action Action) (*Response, error) {
	resp, err := c.roundTrip(Request{Action: action})
	if err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return resp, nil
}

// Lock asks the daemon to lock the cursor.
func (c *Client) Lock() error {
	_, err := c.Send(ActionLock)
	return err
}

// Unlock asks the daemon to release the cursor.
func (c *Client) Unlock() error {
	_, err := c.Send(ActionUnlock)
	return err
}

// Toggle asks the daemon to flip the lock state.
func (c *Client) Toggle() error {
	_, err := c.Send(ActionToggle)
	return err
}

// GetStatus queries the daemon state.
func (c *Client) GetStatus() (*Status, error) {
	resp, err := c.Send(ActionStatus)
	if err != nil {
		return nil, err
	}
	if resp.Status == nil {
		return nil, fmt.Errorf("daemon returned no status")
	}
	return resp.Status, nil
}

// Reload asks the daemon to re-read its configuration file.
func (c *Client) Reload() error {
	_, err := c.Send(ActionReload)
	return err
}

// Show asks the daemon to surface itself to the user.
func (c *Client) Show() error {
	_, err := c.Send(ActionShow)
	return err
}

// Quit asks the daemon to shut down.
func (c *Client) Quit() error {
	_, err := c.Send(ActionQuit)
	return err
}

// IsRunning reports whether a daemon answers on the socket.
func (c *Client) IsRunning() bool {
	_, err := c.GetStatus()
	return err == nil
}

func (c *Client) roundTrip(req Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		if isConnectionRefused(err) {
			return nil, fmt.Errorf("daemon is not running")
		}
		return nil, fmt.Errorf("failed to connect to daemon: %w", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Errorf("Failed to close IPC connection: %v", err)
		}
	}()

	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		logger.Warnf("Failed to set connection deadline: %v", err)
	}

	if err := writeFrame(conn, req); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	var resp Response
	if err := readFrame(conn, &resp); err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return &resp, nil
}

func isConnectionRefused(err error) bool {
	if netErr, ok := err.(*net.OpError); ok {
		return netErr.Op == "dial"
	}
	return false
}
