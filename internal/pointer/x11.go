// Package pointer reads the desktop pointer position for motion mixing.
package pointer

import (
	"context"
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/eykd/stringgen-go/internal/entropy"
)

// Querier reports the pointer position on an open display connection.
type Querier interface {
	QueryPointer() (x, y int, err error)
	Close()
}

// Dialer opens a display connection.
type Dialer func(display string) (Querier, error)

// X11 is an entropy.Collector over the X11 root-window pointer.
type X11 struct {
	// Display is the X display name; "" uses $DISPLAY.
	Display string
	// Progress receives sampling progress; may be nil.
	Progress entropy.ProgressFunc
	// Dial opens the display; nil means DialX11.
	Dial Dialer
}

// Collect opens the display, runs mix against its pointer, and closes the
// connection.
func (x X11) Collect(ctx context.Context, mix entropy.MixFunc) error {
	dial := x.Dial
	if dial == nil {
		dial = DialX11
	}
	q, err := dial(x.Display)
	if err != nil {
		return fmt.Errorf("%w: %w", entropy.ErrSourceUnavailable, err)
	}
	defer q.Close()

	return mix(ctx, Source{q: q}, x.Progress)
}

// Source adapts a Querier to entropy.PointerSource.
type Source struct {
	q Querier
}

// Position returns the current pointer coordinates.
func (s Source) Position() (int, int, error) {
	return s.q.QueryPointer()
}

// xgbQuerier queries the pointer relative to the default screen's root.
type xgbQuerier struct {
	conn *xgb.Conn
	root xproto.Window
}

// DialX11 connects to an X server.
func DialX11(display string) (Querier, error) {
	conn, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("connecting to X display %q: %w", display, err)
	}
	screen := xproto.Setup(conn).DefaultScreen(conn)
	return &xgbQuerier{conn: conn, root: screen.Root}, nil
}

func (q *xgbQuerier) QueryPointer() (int, int, error) {
	reply, err := xproto.QueryPointer(q.conn, q.root).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("querying X pointer: %w", err)
	}
	return int(reply.RootX), int(reply.RootY), nil
}

func (q *xgbQuerier) Close() {
	q.conn.Close()
}
