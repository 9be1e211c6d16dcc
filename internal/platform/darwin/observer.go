//go:build darwin && cgo

package darwin

/*
#include "ax.h"
*/
import "C"
import (
	"errors"
	"os"
	"runtime"
	"runtime/cgo"
	"sync"
	"time"
	"unsafe"

	"github.com/mj1618/menulister/internal/platform"
)

// stopRetry is how often Stop re-sends the stop request while waiting for
// the run loop to return; a stop sent before CFRunLoopRun starts is lost.
const stopRetry = 50 * time.Millisecond

var errForeignElement = errors.New("element does not belong to the darwin backend")

// Observer implements platform.Observer with an AXObserver attached to a
// CFRunLoop on a dedicated OS thread.
type Observer struct {
	ref    C.CFTypeRef
	handle cgo.Handle
	events chan platform.Notification

	mu       sync.Mutex
	loop     C.CFTypeRef
	started  bool
	done     chan struct{}
	exited   chan struct{}
	stopOnce sync.Once
	released bool
}

// NewObserver creates an AXObserver for the current process.
func (a *Accessibility) NewObserver() (platform.Observer, error) {
	var ref C.CFTypeRef
	if code := C.ax_observer_create(C.pid_t(os.Getpid()), &ref); code != 0 {
		return nil, platform.AXError(code)
	}
	if ref == 0 {
		return nil, platform.AXErrorFailure
	}
	o := &Observer{
		ref:    ref,
		events: make(chan platform.Notification),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	o.handle = cgo.NewHandle(o)

	// Notifications added right after creation are sometimes rejected.
	time.Sleep(100 * time.Millisecond)
	return o, nil
}

func elementRef(el platform.Element) (C.CFTypeRef, error) {
	e, ok := el.(*element)
	if !ok || e == nil {
		return 0, errForeignElement
	}
	return e.ref, nil
}

func (o *Observer) Subscribe(el platform.Element, notification string) error {
	ref, err := elementRef(el)
	if err != nil {
		return err
	}
	cName := C.CString(notification)
	defer C.free(unsafe.Pointer(cName))
	if code := C.ax_observer_add(o.ref, ref, cName, C.uintptr_t(o.handle)); code != 0 {
		return platform.AXError(code)
	}
	return nil
}

func (o *Observer) Unsubscribe(el platform.Element, notification string) error {
	ref, err := elementRef(el)
	if err != nil {
		return err
	}
	cName := C.CString(notification)
	defer C.free(unsafe.Pointer(cName))
	if code := C.ax_observer_remove(o.ref, ref, cName); code != 0 {
		return platform.AXError(code)
	}
	return nil
}

// Start runs the observer's run loop on a locked OS thread and returns once
// its source is attached.
func (o *Observer) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.started {
		return errors.New("observer already started")
	}
	if o.released {
		return errors.New("observer released")
	}
	o.started = true

	ready := make(chan C.CFTypeRef)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(o.exited)

		loop := C.ax_runloop_attach(o.ref)
		ready <- loop
		for {
			select {
			case <-o.done:
				C.ax_runloop_detach(loop, o.ref)
				return
			default:
			}
			C.ax_runloop_run()
		}
	}()
	o.loop = <-ready
	return nil
}

// Stop halts the run loop and waits for its thread to return.
func (o *Observer) Stop() {
	o.stopOnce.Do(func() {
		close(o.done)
	})
	o.mu.Lock()
	started, loop := o.started, o.loop
	o.mu.Unlock()
	if !started {
		return
	}
	for {
		C.ax_runloop_stop(loop)
		select {
		case <-o.exited:
			return
		case <-time.After(stopRetry):
		}
	}
}

func (o *Observer) Notifications() <-chan platform.Notification {
	return o.events
}

// Release stops the observer if needed and frees the AXObserver.
func (o *Observer) Release() {
	o.Stop()
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.released {
		return
	}
	o.released = true
	o.handle.Delete()
	C.ax_release(o.ref)
}

// deliver hands n to the consumer, or drops it once Stop has been called.
func (o *Observer) deliver(n platform.Notification) {
	select {
	case <-o.done:
		return
	default:
	}
	select {
	case o.events <- n:
	case <-o.done:
	}
}

//export goAXNotify
func goAXNotify(handle C.uintptr_t, name *C.char) {
	o, ok := cgo.Handle(handle).Value().(*Observer)
	if !ok {
		return
	}
	o.deliver(platform.Notification{Name: C.GoString(name)})
}
