package platform

// Accessibility is the subset of the OS accessibility service the lister
// depends on. Implementations never cache answers.
type Accessibility interface {
	// IsTrusted reports whether the process may use the accessibility API.
	// With prompt set, the OS may show its consent dialog.
	IsTrusted(prompt bool) bool

	// FrontmostPID returns the process ID of the application owning focus.
	FrontmostPID() (int, error)

	// Application creates an owned element for the application with pid.
	Application(pid int) (Element, error)

	// SystemWide creates an owned element addressing the whole system.
	SystemWide() (Element, error)

	// NewObserver creates an observer delivering notifications for the
	// current process.
	NewObserver() (Observer, error)
}

// Element is an opaque handle to a GUI object owned by the OS service.
type Element interface {
	// Attribute fetches the named attribute. On success the returned Value
	// must be released exactly once.
	Attribute(name string) (Value, error)

	// Key is a hash of the underlying GUI object. Equal objects have equal
	// keys; distinct objects may share one.
	Key() uint64

	// Equal reports whether other refers to the same GUI object.
	Equal(other Element) bool

	// Retain returns an owned handle to the same object, valid after the
	// value this element was read from is released.
	Retain() Element

	// Release gives up the handle. Borrowed handles ignore it.
	Release()
}

// Observer subscribes to accessibility notifications and delivers them
// over a channel.
type Observer interface {
	Subscribe(el Element, notification string) error
	Unsubscribe(el Element, notification string) error

	// Start attaches the observer to a running event loop. Notifications
	// are delivered on Notifications until Stop.
	Start() error

	// Stop halts the event loop and waits for it to return. No
	// notification is delivered after Stop returns.
	Stop()

	Notifications() <-chan Notification

	Release()
}

// Notification is one event delivered by an Observer.
type Notification struct {
	Name string
}
