//go:build darwin && cgo

package darwin

/*
#include "ax.h"
*/
import "C"

// IsTrusted reports whether the process has macOS accessibility permission.
// With prompt set, macOS shows its consent dialog when permission is missing.
func (a *Accessibility) IsTrusted(prompt bool) bool {
	p := C.int(0)
	if prompt {
		p = 1
	}
	return C.ax_is_trusted(p) != 0
}
