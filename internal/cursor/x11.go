package cursor

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/xproto"

	"github.com/bnema/cursorlock/internal/logger"
)

// X11Port implements Port against an X server. Confinement is an active
// pointer grab with a 1x1 InputOnly confine-to window, which collapses the
// allowed region to a single pixel.
type X11Port struct {
	conn       *xgb.Conn
	screen     *xproto.ScreenInfo
	root       xproto.Window
	confineWin xproto.Window
	hasRandr   bool
}

// NewX11Port connects to the X server named by DISPLAY.
func NewX11Port() (*X11Port, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}

	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)

	p := &X11Port{
		conn:   conn,
		screen: screen,
		root:   screen.Root,
	}

	// RandR is optional; without it the primary monitor falls back to the
	// whole virtual screen.
	if err := randr.Init(conn); err != nil {
		logger.Debugf("RandR unavailable: %v", err)
	} else {
		p.hasRandr = true
	}

	return p, nil
}

// VirtualScreenCenter returns the center of the X root window, which spans
// all connected monitors.
func (p *X11Port) VirtualScreenCenter() (Point, error) {
	geom, err := xproto.GetGeometry(p.conn, xproto.Drawable(p.root)).Reply()
	if err != nil {
		return Point{}, fmt.Errorf("failed to query root geometry: %w", err)
	}
	return Point{
		X: int(geom.X) + int(geom.Width)/2,
		Y: int(geom.Y) + int(geom.Height)/2,
	}, nil
}

// PrimaryScreenCenter returns the center of the RandR primary output's CRTC.
func (p *X11Port) PrimaryScreenCenter() (Point, error) {
	if !p.hasRandr {
		return p.VirtualScreenCenter()
	}

	primary, err := randr.GetOutputPrimary(p.conn, p.root).Reply()
	if err != nil || primary.Output == 0 {
		return p.VirtualScreenCenter()
	}

	info, err := randr.GetOutputInfo(p.conn, primary.Output, 0).Reply()
	if err != nil || info.Crtc == 0 {
		return p.VirtualScreenCenter()
	}

	crtc, err := randr.GetCrtcInfo(p.conn, info.Crtc, 0).Reply()
	if err != nil {
		return p.VirtualScreenCenter()
	}

	return Point{
		X: int(crtc.X) + int(crtc.Width)/2,
		Y: int(crtc.Y) + int(crtc.Height)/2,
	}, nil
}

// MoveTo warps the pointer to p in root coordinates.
func (p *X11Port) MoveTo(pt Point) error {
	err := xproto.WarpPointerChecked(p.conn, xproto.WindowNone, p.root,
		0, 0, 0, 0, int16(pt.X), int16(pt.Y)).Check()
	if err != nil {
		return fmt.Errorf("failed to warp pointer to %s: %w", pt, err)
	}
	return nil
}

// ConfineTo grabs the pointer with a 1x1 confine window at pt. Re-issuing
// the grab while one is active moves the confinement region.
func (p *X11Port) ConfineTo(pt Point) error {
	if p.confineWin == 0 {
		wid, err := xproto.NewWindowId(p.conn)
		if err != nil {
			return fmt.Errorf("failed to allocate confine window id: %w", err)
		}
		err = xproto.CreateWindowChecked(p.conn, 0, wid, p.root,
			int16(pt.X), int16(pt.Y), 1, 1, 0,
			xproto.WindowClassInputOnly, p.screen.RootVisual,
			xproto.CwOverrideRedirect, []uint32{1}).Check()
		if err != nil {
			return fmt.Errorf("failed to create confine window: %w", err)
		}
		if err := xproto.MapWindowChecked(p.conn, wid).Check(); err != nil {
			return fmt.Errorf("failed to map confine window: %w", err)
		}
		p.confineWin = wid
	} else {
		err := xproto.ConfigureWindowChecked(p.conn, p.confineWin,
			xproto.ConfigWindowX|xproto.ConfigWindowY,
			[]uint32{uint32(pt.X), uint32(pt.Y)}).Check()
		if err != nil {
			return fmt.Errorf("failed to move confine window: %w", err)
		}
	}

	reply, err := xproto.GrabPointer(p.conn, true, p.root, 0,
		xproto.GrabModeAsync, xproto.GrabModeAsync,
		p.confineWin, xproto.CursorNone, xproto.TimeCurrentTime).Reply()
	if err != nil {
		return fmt.Errorf("pointer grab failed: %w", err)
	}
	if reply.Status != xproto.GrabStatusSuccess {
		return fmt.Errorf("pointer grab refused by server (status %d)", reply.Status)
	}

	return nil
}

// Release ends the active grab and tears down the confine window.
func (p *X11Port) Release() error {
	if err := xproto.UngrabPointerChecked(p.conn, xproto.TimeCurrentTime).Check(); err != nil {
		return fmt.Errorf("failed to ungrab pointer: %w", err)
	}
	if p.confineWin != 0 {
		if err := xproto.DestroyWindowChecked(p.conn, p.confineWin).Check(); err != nil {
			logger.Debugf("Failed to destroy confine window: %v", err)
		}
		p.confineWin = 0
	}
	return nil
}

// Close closes the X connection.
func (p *X11Port) Close() error {
	p.conn.Close()
	return nil
}
