// Package menu walks an application's menu hierarchy and renders it.
package menu

import (
	"errors"

	"github.com/mj1618/menulister/internal/platform"
)

// Placeholder titles reported when a node's title cannot be shown.
const (
	NoTitle          = "(no title)"
	InvalidTitleType = "(invalid title type)"
	UnreadableTitle  = "(unable to read title)"
	AllocationFailed = "(memory allocation failed)"
	AlreadyListed    = "(already listed)"
	MaxDepthReached  = "(max depth reached)"
)

// Title is a node title as reported to a Visitor.
type Title struct {
	Text        string
	Placeholder bool // Text is one of the placeholder constants
}

// Visitor receives nodes in depth-first order.
type Visitor interface {
	Visit(depth int, title Title)
}

// VisitorFunc adapts a function to the Visitor interface.
type VisitorFunc func(depth int, title Title)

func (f VisitorFunc) Visit(depth int, title Title) { f(depth, title) }

// Walker traverses an accessibility element tree.
type Walker struct {
	// MaxDepth is the deepest level printed below the root; 0 means unlimited.
	MaxDepth int
}

// Walk visits root and everything below it. Each element is visited at
// most once; a repeat is reported as AlreadyListed and not descended into.
func (w Walker) Walk(root platform.Element, v Visitor) {
	if root == nil {
		return
	}
	seen := visited{}
	defer seen.release()
	w.walk(root, 0, v, seen)
}

// visited buckets retained handles by key. Keys are hashes, so a match is
// confirmed with Equal.
type visited map[uint64][]platform.Element

func (s visited) add(el platform.Element) bool {
	key := el.Key()
	for _, prev := range s[key] {
		if prev.Equal(el) {
			return false
		}
	}
	s[key] = append(s[key], el.Retain())
	return true
}

func (s visited) release() {
	for _, bucket := range s {
		for _, el := range bucket {
			el.Release()
		}
	}
}

func (w Walker) walk(el platform.Element, depth int, v Visitor, seen visited) {
	if !seen.add(el) {
		v.Visit(depth, Title{Text: AlreadyListed, Placeholder: true})
		return
	}

	v.Visit(depth, readTitle(el))

	children, err := el.Attribute(platform.AttrChildren)
	if err != nil {
		return
	}
	defer children.Release()
	if children.Kind != platform.KindCollection || len(children.Items) == 0 {
		return
	}
	if w.MaxDepth > 0 && depth >= w.MaxDepth {
		v.Visit(depth+1, Title{Text: MaxDepthReached, Placeholder: true})
		return
	}
	for _, child := range children.Items {
		if child == nil {
			continue
		}
		w.walk(child, depth+1, v, seen)
	}
}

func readTitle(el platform.Element) Title {
	v, err := el.Attribute(platform.AttrTitle)
	if err != nil {
		return Title{Text: NoTitle, Placeholder: true}
	}
	defer v.Release()

	if v.Kind != platform.KindText {
		return Title{Text: InvalidTitleType, Placeholder: true}
	}
	switch {
	case v.DecodeErr == nil:
		return Title{Text: v.Text}
	case errors.Is(v.DecodeErr, platform.ErrTextAllocation):
		return Title{Text: AllocationFailed, Placeholder: true}
	default:
		return Title{Text: UnreadableTitle, Placeholder: true}
	}
}
