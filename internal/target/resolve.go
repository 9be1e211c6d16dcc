// Package target resolves which application's menu bar to list.
package target

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mj1618/menulister/internal/platform"
)

var (
	ErrNoFrontmost   = errors.New("could not get front process")
	ErrInvalidPID    = errors.New("invalid pid")
	ErrNoApplication = errors.New("could not create application reference")
	ErrNoMenuBar     = errors.New("could not get menu bar")
)

// Target is a resolved application and its menu bar. Release must be
// called once the menu bar is no longer needed.
type Target struct {
	PID       int
	Frontmost bool
	MenuBar   platform.Element

	menuBar platform.Value
}

// Release frees the menu bar reference.
func (t *Target) Release() {
	t.menuBar.Release()
	t.MenuBar = nil
}

// Resolver turns a frontmost-app request or a PID into a Target.
type Resolver struct {
	AX platform.Accessibility
}

// NewResolver returns a Resolver backed by ax.
func NewResolver(ax platform.Accessibility) *Resolver {
	return &Resolver{AX: ax}
}

// Frontmost resolves the application currently owning focus.
func (r *Resolver) Frontmost() (*Target, error) {
	pid, err := r.AX.FrontmostPID()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoFrontmost, err)
	}
	if pid <= 0 {
		return nil, ErrNoFrontmost
	}
	t, err := r.ByPID(pid)
	if err != nil {
		return nil, err
	}
	t.Frontmost = true
	return t, nil
}

// ByPID resolves the application with the given process ID.
func (r *Resolver) ByPID(pid int) (*Target, error) {
	if pid <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}

	app, err := r.AX.Application(pid)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoApplication, err)
	}
	if app == nil {
		return nil, ErrNoApplication
	}

	v, err := app.Attribute(platform.AttrMenuBar)
	// The menu bar value holds its own reference; the app is not needed past here.
	app.Release()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoMenuBar, err)
	}
	if v.Kind != platform.KindElement || v.Element == nil {
		v.Release()
		return nil, fmt.Errorf("%w: unexpected %s value", ErrNoMenuBar, v.Kind)
	}

	return &Target{PID: pid, MenuBar: v.Element, menuBar: v}, nil
}

// ParsePID parses a positive decimal process ID.
func ParsePID(s string) (int, error) {
	pid, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w %q: not a number", ErrInvalidPID, s)
	}
	if pid <= 0 {
		return 0, fmt.Errorf("%w %q: must be a positive integer", ErrInvalidPID, s)
	}
	return pid, nil
}
