package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mj1618/menulister/internal/logging"
	"github.com/mj1618/menulister/internal/output"
	"github.com/mj1618/menulister/internal/platform"
	"github.com/mj1618/menulister/internal/target"
	"github.com/mj1618/menulister/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "menulister [pid]",
	Short: "Print the menu bar hierarchy of a macOS application",
	Long: `Print the menu bar hierarchy of a macOS application via the accessibility API.

With no arguments, menulister lists the menus of the frontmost application and
keeps running, re-listing whenever application or window focus changes.
Press Ctrl+C to exit.

With a process ID, menulister lists that application's menus once and exits.`,
	Args: pidArgs,
	RunE: runRoot,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.Flags().String("format", "text", "Output format: text, yaml, json")
	rootCmd.Flags().Bool("flat", false, "Emit menu paths instead of a nested tree (yaml/json only)")
	rootCmd.Flags().Int("max-depth", 64, "Max menu depth to traverse (0 = unlimited)")
	rootCmd.Flags().Bool("no-prompt", false, "Do not ask macOS to show the accessibility permission prompt")
	rootCmd.Flags().String("log-level", logging.DefaultLevel, "Diagnostic log level on stderr: debug, info, warn, error")
}

// pidArgs accepts no arguments, or a single positive process ID.
func pidArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
		return err
	}
	if len(args) == 1 {
		if _, err := target.ParsePID(args[0]); err != nil {
			return err
		}
	}
	return nil
}

// options are the flag values shared by both modes.
type options struct {
	format   output.Format
	flat     bool
	maxDepth int
	prompt   bool
	log      zerolog.Logger
}

func readOptions(cmd *cobra.Command) (options, error) {
	formatStr, _ := cmd.Flags().GetString("format")
	flat, _ := cmd.Flags().GetBool("flat")
	maxDepth, _ := cmd.Flags().GetInt("max-depth")
	noPrompt, _ := cmd.Flags().GetBool("no-prompt")
	logLevel, _ := cmd.Flags().GetString("log-level")

	format, err := output.ParseFormat(formatStr)
	if err != nil {
		return options{}, err
	}
	if flat && !format.Structured() {
		return options{}, fmt.Errorf("--flat requires --format yaml or json")
	}
	if maxDepth < 0 {
		return options{}, fmt.Errorf("--max-depth must be >= 0, got %d", maxDepth)
	}
	lvl, err := logging.ParseLevel(logLevel)
	if err != nil {
		return options{}, err
	}
	return options{
		format:   format,
		flat:     flat,
		maxDepth: maxDepth,
		prompt:   !noPrompt,
		log:      logging.New(cmd.ErrOrStderr(), lvl),
	}, nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	opts, err := readOptions(cmd)
	if err != nil {
		return err
	}
	// Past argument validation, failures are not usage errors.
	cmd.SilenceUsage = true

	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}
	if provider.Accessibility == nil {
		return fmt.Errorf("accessibility not available on this platform")
	}

	if len(args) == 0 {
		return runWatch(cmd, provider.Accessibility, opts)
	}
	pid, err := target.ParsePID(args[0])
	if err != nil {
		return err
	}
	return runList(cmd, provider.Accessibility, opts, pid)
}
