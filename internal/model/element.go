package model

// MenuItem is one node of an application's menu hierarchy.
type MenuItem struct {
	Title       string     `yaml:"title"                 json:"title"`
	Placeholder bool       `yaml:"placeholder,omitempty" json:"placeholder,omitempty"` // Title is a stand-in, not read from the app
	Children    []MenuItem `yaml:"children,omitempty"    json:"children,omitempty"`
}

// MenuBar is the top-level document emitted by the yaml and json formats.
type MenuBar struct {
	PID       int            `yaml:"pid"                 json:"pid"`
	Frontmost bool           `yaml:"frontmost,omitempty" json:"frontmost,omitempty"`
	TS        int64          `yaml:"ts"                  json:"ts"`
	Items     []MenuItem     `yaml:"items,omitempty"     json:"items,omitempty"`
	Paths     []FlatMenuItem `yaml:"paths,omitempty"     json:"paths,omitempty"`
}

// Count returns the number of items in the tree rooted at items.
func Count(items []MenuItem) int {
	n := 0
	for _, it := range items {
		n += 1 + Count(it.Children)
	}
	return n
}
