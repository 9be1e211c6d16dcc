package menu

import (
	"fmt"
	"io"
	"strings"

	"github.com/mj1618/menulister/internal/model"
)

// TextPrinter writes each node as "- <title>" indented two spaces per level.
type TextPrinter struct {
	W io.Writer
}

func (p TextPrinter) Visit(depth int, title Title) {
	fmt.Fprintf(p.W, "%s- %s\n", strings.Repeat("  ", depth), title.Text)
}

// TreeBuilder collects visited nodes into a model.MenuItem tree.
type TreeBuilder struct {
	roots []model.MenuItem
	path  []*model.MenuItem // open ancestors, path[d] is the last node at depth d
}

func (b *TreeBuilder) Visit(depth int, title Title) {
	item := model.MenuItem{Title: title.Text, Placeholder: title.Placeholder}
	if depth > len(b.path) {
		// Walkers never skip a level; clamp so a gap cannot panic.
		depth = len(b.path)
	}
	b.path = b.path[:depth]

	var slot *model.MenuItem
	if depth == 0 {
		b.roots = append(b.roots, item)
		slot = &b.roots[len(b.roots)-1]
	} else {
		parent := b.path[depth-1]
		parent.Children = append(parent.Children, item)
		slot = &parent.Children[len(parent.Children)-1]
	}
	b.path = append(b.path, slot)
}

// Items returns the collected tree.
func (b *TreeBuilder) Items() []model.MenuItem {
	return b.roots
}
