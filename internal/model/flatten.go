package model

// FlatMenuItem is a menu item with a path breadcrumb instead of children.
type FlatMenuItem struct {
	Title       string `yaml:"title"                 json:"title"`
	Placeholder bool   `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	Depth       int    `yaml:"depth"                 json:"depth"`
	Path        string `yaml:"path"                  json:"path"`
}

// FlattenMenu converts a menu tree into a flat list in traversal order.
// Each item gets a path of the titles leading to it joined with " > ".
func FlattenMenu(items []MenuItem) []FlatMenuItem {
	var result []FlatMenuItem
	for _, it := range items {
		flattenRecursive(it, "", 0, &result)
	}
	return result
}

func flattenRecursive(it MenuItem, parentPath string, depth int, result *[]FlatMenuItem) {
	currentPath := it.Title
	if parentPath != "" {
		currentPath = parentPath + " > " + it.Title
	}

	*result = append(*result, FlatMenuItem{
		Title:       it.Title,
		Placeholder: it.Placeholder,
		Depth:       depth,
		Path:        currentPath,
	})

	for _, child := range it.Children {
		flattenRecursive(child, currentPath, depth+1, result)
	}
}
