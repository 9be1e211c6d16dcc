//go:build darwin && cgo

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation -framework Foundation
#include "ax.h"
*/
import "C"
import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/mj1618/menulister/internal/platform"
)

// Accessibility implements platform.Accessibility with AXUIElement calls.
type Accessibility struct{}

// NewAccessibility creates a new macOS accessibility backend.
func NewAccessibility() *Accessibility {
	return &Accessibility{}
}

// FrontmostPID returns the PID of the application the accessibility server
// reports as focused.
func (a *Accessibility) FrontmostPID() (int, error) {
	var pid C.pid_t
	if C.ax_frontmost_pid(&pid) != 0 {
		return 0, errors.New("no frontmost application")
	}
	return int(pid), nil
}

// Application creates an owned element for the application with pid.
func (a *Accessibility) Application(pid int) (platform.Element, error) {
	ref := C.ax_create_application(C.pid_t(pid))
	if ref == 0 {
		return nil, fmt.Errorf("failed to create application element for PID %d", pid)
	}
	return &element{ref: ref, owned: true}, nil
}

// SystemWide creates an owned system-wide element.
func (a *Accessibility) SystemWide() (platform.Element, error) {
	ref := C.ax_create_system_wide()
	if ref == 0 {
		return nil, errors.New("failed to create system-wide element")
	}
	return &element{ref: ref, owned: true}, nil
}

// element wraps an AXUIElementRef. Borrowed elements belong to the value
// they were read from and are never released on their own.
type element struct {
	ref      C.CFTypeRef
	owned    bool
	released bool
}

func (e *element) Key() uint64 {
	return uint64(C.ax_hash(e.ref))
}

func (e *element) Equal(other platform.Element) bool {
	o, ok := other.(*element)
	return ok && o != nil && C.ax_equal(e.ref, o.ref) != 0
}

// Retain returns an owned handle to the same object.
func (e *element) Retain() platform.Element {
	return &element{ref: C.ax_retain(e.ref), owned: true}
}

func (e *element) Release() {
	if e.owned && !e.released {
		C.ax_release(e.ref)
		e.released = true
	}
}

func (e *element) Attribute(name string) (platform.Value, error) {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	var out C.CFTypeRef
	if code := C.ax_copy_attribute(e.ref, cName, &out); code != 0 {
		C.ax_release(out)
		return platform.Value{}, platform.AXError(code)
	}
	if out == 0 {
		return platform.Value{}, platform.AXErrorNoValue
	}
	return decode(out), nil
}

// decode tags ref with its dynamic type. The returned value owns ref.
func decode(ref C.CFTypeRef) platform.Value {
	release := func() { C.ax_release(ref) }

	switch C.ax_value_kind(ref) {
	case C.AX_KIND_TEXT:
		v := platform.Value{Kind: platform.KindText}
		var buf *C.char
		switch C.ax_string_copy_utf8(ref, &buf) {
		case C.AX_TEXT_OK:
			v.Text = C.GoString(buf)
			C.free(unsafe.Pointer(buf))
		case C.AX_TEXT_ALLOC_FAILED:
			v.DecodeErr = platform.ErrTextAllocation
		default:
			v.DecodeErr = platform.ErrTextConversion
		}
		return platform.NewValue(v, release)

	case C.AX_KIND_COLLECTION:
		n := int(C.ax_array_count(ref))
		items := make([]platform.Element, n)
		for i := 0; i < n; i++ {
			item := C.ax_array_get(ref, C.CFIndex(i))
			// Only elements may be queried further; anything else stays nil.
			if item != 0 && C.ax_value_kind(item) == C.AX_KIND_ELEMENT {
				items[i] = &element{ref: item}
			}
		}
		return platform.NewValue(platform.Value{Kind: platform.KindCollection, Items: items}, release)

	case C.AX_KIND_ELEMENT:
		return platform.NewValue(platform.Value{Kind: platform.KindElement, Element: &element{ref: ref}}, release)
	}

	v := platform.Value{Kind: platform.KindOther}
	if name := C.ax_type_name(ref); name != nil {
		v.TypeName = C.GoString(name)
		C.free(unsafe.Pointer(name))
	}
	return platform.NewValue(v, release)
}
