package window

import (
	"encoding/binary"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// X11Inspector reads window identity through EWMH properties.
type X11Inspector struct {
	conn  *xgb.Conn
	root  xproto.Window
	atoms map[string]xproto.Atom
}

var atomNames = []string{
	"_NET_ACTIVE_WINDOW",
	"_NET_CLIENT_LIST",
	"_NET_WM_NAME",
	"_NET_WM_PID",
	"WM_NAME",
	"UTF8_STRING",
}

// NewX11Inspector connects to the X server and interns the EWMH atoms.
func NewX11Inspector() (*X11Inspector, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}

	setup := xproto.Setup(conn)
	root := setup.DefaultScreen(conn).Root

	insp := &X11Inspector{
		conn:  conn,
		root:  root,
		atoms: make(map[string]xproto.Atom),
	}

	for _, name := range atomNames {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to intern atom %s: %w", name, err)
		}
		insp.atoms[name] = reply.Atom
	}

	return insp, nil
}

// ActiveWindow returns the focused window per _NET_ACTIVE_WINDOW.
func (i *X11Inspector) ActiveWindow() (Info, error) {
	data, err := i.getProperty(i.root, i.atoms["_NET_ACTIVE_WINDOW"], xproto.AtomWindow, 1)
	if err != nil {
		return Info{}, fmt.Errorf("failed to read active window: %w", err)
	}
	if len(data) < 4 {
		return Info{}, fmt.Errorf("no active window")
	}

	id := binary.LittleEndian.Uint32(data)
	if id == 0 {
		return Info{}, fmt.Errorf("no active window")
	}

	return Info{ID: id, Title: i.windowTitle(xproto.Window(id))}, nil
}

// ProcessName resolves _NET_WM_PID to the short command name in /proc.
func (i *X11Inspector) ProcessName(id uint32) (string, error) {
	data, err := i.getProperty(xproto.Window(id), i.atoms["_NET_WM_PID"], xproto.AtomCardinal, 1)
	if err != nil || len(data) < 4 {
		return "", fmt.Errorf("window %d has no _NET_WM_PID", id)
	}
	pid := binary.LittleEndian.Uint32(data)

	comm, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))
	if err != nil {
		return "", fmt.Errorf("failed to read process name for pid %d: %w", pid, err)
	}
	return strings.TrimSpace(string(comm)), nil
}

// List enumerates _NET_CLIENT_LIST windows that carry a title.
func (i *X11Inspector) List() ([]Info, error) {
	// 256 windows is plenty for a picker
	data, err := i.getProperty(i.root, i.atoms["_NET_CLIENT_LIST"], xproto.AtomWindow, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to read client list: %w", err)
	}

	var windows []Info
	for off := 0; off+4 <= len(data); off += 4 {
		id := binary.LittleEndian.Uint32(data[off:])
		if id == 0 {
			continue
		}
		title := i.windowTitle(xproto.Window(id))
		if title == "" {
			continue
		}
		proc, _ := i.ProcessName(id)
		windows = append(windows, Info{ID: id, Title: title, Process: proc})
	}

	sort.Slice(windows, func(a, b int) bool {
		return strings.ToLower(windows[a].Title) < strings.ToLower(windows[b].Title)
	})
	return windows, nil
}

// Close closes the X connection.
func (i *X11Inspector) Close() error {
	i.conn.Close()
	return nil
}

func (i *X11Inspector) windowTitle(w xproto.Window) string {
	data, err := i.getProperty(w, i.atoms["_NET_WM_NAME"], i.atoms["UTF8_STRING"], 256)
	if err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00")
	}

	data, err = i.getProperty(w, i.atoms["WM_NAME"], xproto.AtomString, 256)
	if err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00")
	}
	return ""
}

func (i *X11Inspector) getProperty(w xproto.Window, atom, atomType xproto.Atom, length uint32) ([]byte, error) {
	reply, err := xproto.GetProperty(i.conn, false, w, atom, atomType, 0, length).Reply()
	if err != nil {
		return nil, err
	}
	return reply.Value, nil
}
