package menu

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/mj1618/menulister/internal/model"
	"github.com/mj1618/menulister/internal/output"
	"github.com/mj1618/menulister/internal/platform"
	"github.com/mj1618/menulister/internal/target"
)

// Lister runs the resolve, print and release pipeline for one listing.
// Failures are written to Out as "[!]" lines and never returned; only
// errors writing structured output are.
type Lister struct {
	Resolver *target.Resolver
	Walker   Walker
	Out      io.Writer
	Format   output.Format
	Flat     bool
	Log      zerolog.Logger

	now func() time.Time
}

// NewLister returns a text Lister writing to out.
func NewLister(ax platform.Accessibility, out io.Writer) *Lister {
	return &Lister{
		Resolver: target.NewResolver(ax),
		Out:      out,
		Format:   output.FormatText,
		Log:      zerolog.Nop(),
	}
}

// ListFrontmost lists the menus of the application owning focus.
func (l *Lister) ListFrontmost() error {
	t, err := l.Resolver.Frontmost()
	if err != nil {
		l.reportResolveError(err)
		return nil
	}
	defer t.Release()
	return l.list(t, "Menus for frontmost application")
}

// ListPID lists the menus of the application with the given process ID.
func (l *Lister) ListPID(pid int) error {
	t, err := l.Resolver.ByPID(pid)
	if err != nil {
		l.reportResolveError(err)
		return nil
	}
	defer t.Release()
	return l.list(t, fmt.Sprintf("Menus for process %d", pid))
}

func (l *Lister) list(t *target.Target, subject string) error {
	l.Log.Debug().Int("pid", t.PID).Bool("frontmost", t.Frontmost).Msg("listing menu bar")

	if !l.Format.Structured() {
		output.PrintHeader(l.Out, subject)
		l.Walker.Walk(t.MenuBar, TextPrinter{W: l.Out})
		return nil
	}

	var b TreeBuilder
	l.Walker.Walk(t.MenuBar, &b)

	doc := model.MenuBar{PID: t.PID, Frontmost: t.Frontmost, TS: l.timestamp()}
	if l.Flat {
		doc.Paths = model.FlattenMenu(b.Items())
	} else {
		doc.Items = b.Items()
	}
	l.Log.Debug().Int("pid", t.PID).Int("items", model.Count(b.Items())).Msg("encoding menu bar")
	return output.Encode(l.Out, l.Format, doc)
}

func (l *Lister) timestamp() int64 {
	if l.now != nil {
		return l.now().Unix()
	}
	return time.Now().Unix()
}

func (l *Lister) reportResolveError(err error) {
	l.Log.Debug().Err(err).Msg("target resolution failed")
	code := platform.Code(err)
	switch {
	case errors.Is(err, target.ErrInvalidPID):
		output.Warnf(l.Out, "Invalid process ID: %v", err)
	case errors.Is(err, target.ErrNoFrontmost):
		output.Warnf(l.Out, "Could not get front process. Error: %d", code)
	case errors.Is(err, target.ErrNoApplication):
		output.Warnf(l.Out, "Could not create application reference.")
	case errors.Is(err, target.ErrNoMenuBar):
		output.Warnf(l.Out, "Could not get menu bar. Error: %d", code)
	default:
		output.Warnf(l.Out, "%v", err)
	}
}
