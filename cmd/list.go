package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/menulister/internal/menu"
	"github.com/mj1618/menulister/internal/platform"
)

// runList prints the menus of one process and returns. Listing failures
// are printed, not returned, so an attempted listing exits 0.
func runList(cmd *cobra.Command, ax platform.Accessibility, opts options, pid int) error {
	out := cmd.OutOrStdout()
	if err := checkPermissions(ax, opts.prompt, out); err != nil {
		return err
	}
	return newLister(ax, cmd, opts).ListPID(pid)
}

func newLister(ax platform.Accessibility, cmd *cobra.Command, opts options) *menu.Lister {
	l := menu.NewLister(ax, cmd.OutOrStdout())
	l.Walker = menu.Walker{MaxDepth: opts.maxDepth}
	l.Format = opts.format
	l.Flat = opts.flat
	l.Log = opts.log
	return l
}
