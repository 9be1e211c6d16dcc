// Package platformtest provides an in-memory accessibility service for tests.
// It keeps count of every handle and value it hands out so tests can assert
// that each is released exactly once.
package platformtest

import (
	"errors"
	"sync"

	"github.com/mj1618/menulister/internal/platform"
)

// Node describes one element of a fake accessibility tree.
type Node struct {
	Title string

	NoTitle      bool  // AXTitle fetch fails with kAXErrorNoValue
	InvalidTitle bool  // AXTitle is not text
	TitleErr     error // AXTitle is text that fails to decode

	Children              []*Node // nil means the attribute is absent
	ChildrenNotCollection bool

	MenuBar *Node // only meaningful on application nodes

	Hash uint64 // overrides the element key when non-zero
}

// Accessibility implements platform.Accessibility over a set of Nodes.
type Accessibility struct {
	Trusted       bool
	Frontmost     int
	FrontmostErr  error
	Apps          map[int]*Node
	SystemWideErr error
	Observer      *Observer
	ObserverErr   error

	mu             sync.Mutex
	calls          int
	prompted       bool
	acquired       int
	released       int
	doubleReleases int
	keys           map[*Node]uint64
}

// New returns a trusted fake with no applications.
func New() *Accessibility {
	return &Accessibility{Trusted: true, Apps: map[int]*Node{}}
}

func (a *Accessibility) call() {
	a.mu.Lock()
	a.calls++
	a.mu.Unlock()
}

func (a *Accessibility) IsTrusted(prompt bool) bool {
	a.call()
	a.mu.Lock()
	a.prompted = a.prompted || prompt
	a.mu.Unlock()
	return a.Trusted
}

func (a *Accessibility) FrontmostPID() (int, error) {
	a.call()
	if a.FrontmostErr != nil {
		return 0, a.FrontmostErr
	}
	return a.Frontmost, nil
}

func (a *Accessibility) Application(pid int) (platform.Element, error) {
	a.call()
	node, ok := a.Apps[pid]
	if !ok {
		// Like the OS, hand out an element for any pid; attribute reads fail.
		node = &Node{NoTitle: true}
	}
	return a.owned(node), nil
}

func (a *Accessibility) SystemWide() (platform.Element, error) {
	a.call()
	if a.SystemWideErr != nil {
		return nil, a.SystemWideErr
	}
	return a.owned(&Node{NoTitle: true}), nil
}

func (a *Accessibility) NewObserver() (platform.Observer, error) {
	a.call()
	if a.ObserverErr != nil {
		return nil, a.ObserverErr
	}
	if a.Observer == nil {
		a.Observer = NewObserver()
	}
	a.mu.Lock()
	a.acquired++
	a.mu.Unlock()
	a.Observer.onRelease = a.releaseOnce(new(bool))
	return a.Observer, nil
}

// Calls returns the number of service-level calls made so far.
func (a *Accessibility) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

// Prompted reports whether IsTrusted was ever asked to prompt.
func (a *Accessibility) Prompted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.prompted
}

// Outstanding returns the number of acquired references not yet released.
func (a *Accessibility) Outstanding() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.acquired - a.released
}

// Acquired returns the total number of references handed out.
func (a *Accessibility) Acquired() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.acquired
}

// DoubleReleases returns how many times a reference was released again.
func (a *Accessibility) DoubleReleases() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.doubleReleases
}

func (a *Accessibility) key(n *Node) uint64 {
	if n.Hash != 0 {
		return n.Hash
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.keys == nil {
		a.keys = map[*Node]uint64{}
	}
	k, ok := a.keys[n]
	if !ok {
		k = uint64(len(a.keys) + 1)
		a.keys[n] = k
	}
	return k
}

func (a *Accessibility) releaseOnce(done *bool) func() {
	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		if *done {
			a.doubleReleases++
			return
		}
		*done = true
		a.released++
	}
}

func (a *Accessibility) owned(n *Node) *element {
	a.mu.Lock()
	a.acquired++
	a.mu.Unlock()
	return &element{fake: a, node: n, release: a.releaseOnce(new(bool))}
}

func (a *Accessibility) value(v platform.Value) platform.Value {
	a.mu.Lock()
	a.acquired++
	a.mu.Unlock()
	return platform.NewValue(v, a.releaseOnce(new(bool)))
}

type element struct {
	fake    *Accessibility
	node    *Node
	release func() // nil for borrowed elements
}

func (e *element) Key() uint64 { return e.fake.key(e.node) }

func (e *element) Equal(other platform.Element) bool {
	o, ok := other.(*element)
	return ok && o != nil && o.node == e.node
}

func (e *element) Retain() platform.Element { return e.fake.owned(e.node) }

func (e *element) Release() {
	if e.release != nil {
		e.release()
	}
}

func (e *element) Attribute(name string) (platform.Value, error) {
	n := e.node
	switch name {
	case platform.AttrTitle:
		switch {
		case n.NoTitle:
			return platform.Value{}, platform.AXErrorNoValue
		case n.InvalidTitle:
			return e.fake.value(platform.Value{Kind: platform.KindOther, TypeName: "CFNumber"}), nil
		}
		return e.fake.value(platform.Value{Kind: platform.KindText, Text: n.Title, DecodeErr: n.TitleErr}), nil

	case platform.AttrChildren:
		switch {
		case n.Children == nil:
			return platform.Value{}, platform.AXErrorNoValue
		case n.ChildrenNotCollection:
			return e.fake.value(platform.Value{Kind: platform.KindOther, TypeName: "CFString"}), nil
		}
		items := make([]platform.Element, len(n.Children))
		for i, c := range n.Children {
			items[i] = &element{fake: e.fake, node: c}
		}
		return e.fake.value(platform.Value{Kind: platform.KindCollection, Items: items}), nil

	case platform.AttrMenuBar:
		if n.MenuBar == nil {
			return platform.Value{}, platform.AXErrorNoValue
		}
		return e.fake.value(platform.Value{Kind: platform.KindElement, Element: &element{fake: e.fake, node: n.MenuBar}}), nil
	}
	return platform.Value{}, platform.AXErrorAttributeUnsupported
}

// ErrNotSubscribed is returned by Unsubscribe for unknown notifications.
var ErrNotSubscribed = errors.New("notification not subscribed")

// Observer implements platform.Observer. Fire delivers notifications the
// way the OS run loop would.
type Observer struct {
	SubscribeErr map[string]error

	mu           sync.Mutex
	subscribed   map[string]bool
	unsubscribed []string
	started      bool
	stopped      bool
	released     bool
	ch           chan platform.Notification
	done         chan struct{}
	onRelease    func()
}

// NewObserver returns an idle fake observer.
func NewObserver() *Observer {
	return &Observer{
		subscribed: map[string]bool{},
		ch:         make(chan platform.Notification),
		done:       make(chan struct{}),
	}
}

func (o *Observer) Subscribe(el platform.Element, notification string) error {
	if err := o.SubscribeErr[notification]; err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.subscribed[notification] = true
	return nil
}

func (o *Observer) Unsubscribe(el platform.Element, notification string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.unsubscribed = append(o.unsubscribed, notification)
	if !o.subscribed[notification] {
		return ErrNotSubscribed
	}
	delete(o.subscribed, notification)
	return nil
}

func (o *Observer) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started = true
	return nil
}

func (o *Observer) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.stopped {
		o.stopped = true
		close(o.done)
	}
}

func (o *Observer) Notifications() <-chan platform.Notification { return o.ch }

func (o *Observer) Release() {
	o.mu.Lock()
	o.released = true
	release := o.onRelease
	o.mu.Unlock()
	if release != nil {
		release()
	}
}

// Fire blocks until the notification is consumed or the observer stops.
// It reports whether the notification was delivered.
func (o *Observer) Fire(name string) bool {
	select {
	case <-o.done:
		return false
	default:
	}
	select {
	case o.ch <- platform.Notification{Name: name}:
		return true
	case <-o.done:
		return false
	}
}

// Subscribed reports whether notification is currently subscribed.
func (o *Observer) Subscribed(notification string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.subscribed[notification]
}

// Unsubscribed returns the notifications passed to Unsubscribe, in order.
func (o *Observer) Unsubscribed() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.unsubscribed...)
}

// Started reports whether Start was called.
func (o *Observer) Started() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.started
}

// Stopped reports whether Stop was called.
func (o *Observer) Stopped() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stopped
}

// Released reports whether Release was called.
func (o *Observer) Released() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.released
}
