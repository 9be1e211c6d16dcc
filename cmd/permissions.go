package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/mj1618/menulister/internal/output"
	"github.com/mj1618/menulister/internal/platform"
)

var errNotTrusted = errors.New("accessibility permissions not granted")

// checkPermissions fails with instructions when the process is not trusted.
func checkPermissions(ax platform.Accessibility, prompt bool, out io.Writer) error {
	if ax.IsTrusted(prompt) {
		return nil
	}
	output.Warnf(out, "Accessibility permissions not granted.")
	fmt.Fprintln(out, "Please grant permissions in System Settings > Privacy & Security > Accessibility")
	fmt.Fprintln(out, "Then run the program again.")
	return errNotTrusted
}
