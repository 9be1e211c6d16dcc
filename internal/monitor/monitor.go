// Package monitor re-lists menus whenever application or window focus
// changes.
package monitor

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mj1618/menulister/internal/output"
	"github.com/mj1618/menulister/internal/platform"
)

// State of a Monitor.
type State int

const (
	Idle State = iota
	Monitoring
)

func (s State) String() string {
	if s == Monitoring {
		return "monitoring"
	}
	return "idle"
}

// Notifications watched by a Monitor, with the wording used when a
// subscription fails.
var Notifications = []struct {
	Name  string
	Label string
}{
	{platform.NotifyFocusedApplicationChanged, "application focus"},
	{platform.NotifyFocusedWindowChanged, "window focus"},
}

// Monitor subscribes to focus-change notifications and calls OnNotification
// for each one, strictly one at a time.
type Monitor struct {
	AX  platform.Accessibility
	Out io.Writer
	Log zerolog.Logger

	// OnReady runs once the observer is attached, before the first
	// notification is consumed.
	OnReady func()

	// OnNotification runs for every notification, regardless of which
	// element changed.
	OnNotification func(n platform.Notification)

	mu    sync.Mutex
	state State
}

// New returns an idle Monitor.
func New(ax platform.Accessibility, out io.Writer) *Monitor {
	return &Monitor{AX: ax, Out: out, Log: zerolog.Nop()}
}

// State returns the current state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Monitor) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// Run monitors until ctx is done. Setup failures are reported on Out and
// returned; a failed subscription is reported and monitoring continues with
// the rest.
func (m *Monitor) Run(ctx context.Context) error {
	if m.State() != Idle {
		return fmt.Errorf("monitor already running")
	}

	systemWide, err := m.AX.SystemWide()
	if err != nil {
		output.Warnf(m.Out, "Failed to create system-wide accessibility object.")
		return fmt.Errorf("failed to create system-wide accessibility object: %w", err)
	}
	defer systemWide.Release()

	observer, err := m.AX.NewObserver()
	if err != nil {
		output.Warnf(m.Out, "Unable to create AXObserver. Error code: %d", platform.Code(err))
		return fmt.Errorf("unable to create observer: %w", err)
	}
	defer observer.Release()

	for i, n := range Notifications {
		if err := observer.Subscribe(systemWide, n.Name); err != nil {
			output.Warnf(m.Out, "Could not add %s notification. Error: %d", n.Label, platform.Code(err))
			if i == 0 {
				fmt.Fprintln(m.Out, "Please make sure accessibility permissions are granted.")
			}
			m.Log.Warn().Err(err).Str("notification", n.Name).Msg("subscription failed")
			continue
		}
		m.Log.Debug().Str("notification", n.Name).Msg("subscribed")
	}
	defer m.unsubscribeAll(observer, systemWide)

	if err := observer.Start(); err != nil {
		output.Warnf(m.Out, "Unable to start the event loop: %v", err)
		return fmt.Errorf("failed to start event loop: %w", err)
	}
	m.setState(Monitoring)
	defer m.setState(Idle)

	if m.OnReady != nil {
		m.OnReady()
	}
	fmt.Fprintln(m.Out, "\nMonitoring focus changes. Press Ctrl+C to exit.")

	m.consume(ctx, observer)

	observer.Stop()
	m.Log.Debug().Msg("event loop stopped")
	return nil
}

func (m *Monitor) consume(ctx context.Context, observer platform.Observer) {
	events := observer.Notifications()
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-events:
			if !ok {
				return
			}
			// A notification racing with cancellation is dropped.
			if ctx.Err() != nil {
				return
			}
			m.Log.Debug().Str("notification", n.Name).Msg("notification received")
			fmt.Fprintf(m.Out, "\nFocus change detected: %s\n", n.Name)
			if m.OnNotification != nil {
				m.OnNotification(n)
			}
		}
	}
}

func (m *Monitor) unsubscribeAll(observer platform.Observer, el platform.Element) {
	for _, n := range Notifications {
		if err := observer.Unsubscribe(el, n.Name); err != nil {
			m.Log.Debug().Err(err).Str("notification", n.Name).Msg("unsubscribe failed")
		}
	}
}
