package window

import (
	"time"

	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/rs/zerolog"
)

// pollInterval is how often the monitor samples the active window. EWMH
// exposes no push notification for "active window changed" through
// xgbutil's plain connection, so it's sampled with a poll loop instead.
const pollInterval = 100 * time.Millisecond

// Monitor samples the X11 active window via EWMH/ICCCM and publishes it to
// a Handle.
type Monitor struct {
	xutil  *xgbutil.XUtil
	handle *Handle
	log    zerolog.Logger
}

// NewMonitor opens an X11 connection and returns a Monitor for it.
func NewMonitor(handle *Handle, log zerolog.Logger) (*Monitor, error) {
	xutil, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}
	return &Monitor{xutil: xutil, handle: handle, log: log}, nil
}

// Run polls the active window until an X11 protocol error occurs, then
// returns: a protocol error is fatal to this thread only, and the core
// keeps reading the last value the handle published.
func (m *Monitor) Run() {
	for {
		class, title, err := m.activeWindow()
		if err != nil {
			m.log.Warn().Str("component", "window").Err(err).
				Msg("window monitor terminating, keeping last-known window")
			return
		}
		m.handle.store(class, title)
		time.Sleep(pollInterval)
	}
}

func (m *Monitor) activeWindow() (class, title string, err error) {
	client, err := ewmh.ActiveWindowGet(m.xutil)
	if err != nil {
		return "", "", err
	}

	classInfo, err := icccm.WmClassGet(m.xutil, client)
	if err != nil {
		return "", "", err
	}

	name, err := ewmh.WmNameGet(m.xutil, client)
	if err != nil {
		// Not every window sets _NET_WM_NAME; a missing title is not a
		// protocol failure.
		name = ""
	}

	return classInfo.Class, name, nil
}
