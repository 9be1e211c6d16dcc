package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj1618/menulister/internal/monitor"
	"github.com/mj1618/menulister/internal/platform"
)

// runWatch lists the frontmost application's menus and re-lists them on
// every focus change until the command's context ends or a shutdown
// signal arrives.
func runWatch(cmd *cobra.Command, ax platform.Accessibility, opts options) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Checking accessibility permissions...")
	if err := checkPermissions(ax, opts.prompt, out); err != nil {
		return err
	}

	ctx, stop := notifyShutdown(cmd.Context(), out)
	defer stop()

	fmt.Fprintln(out, "Creating accessibility objects...")
	lister := newLister(ax, cmd, opts)
	listFrontmost := func() {
		if err := lister.ListFrontmost(); err != nil {
			opts.log.Error().Err(err).Msg("listing failed")
		}
	}

	mon := monitor.New(ax, out)
	mon.Log = opts.log
	mon.OnReady = func() {
		fmt.Fprintln(out, "\nInitializing menu listing...")
		listFrontmost()
	}
	mon.OnNotification = func(platform.Notification) {
		listFrontmost()
	}

	if err := mon.Run(ctx); err != nil {
		return fmt.Errorf("monitor setup failed: %w", err)
	}
	fmt.Fprintln(out, "Shutdown complete.")
	return nil
}
