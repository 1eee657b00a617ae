package walker

import (
	"strings"
)

// RenderTree draws a filtered tree as text with box-drawing connectors,
// directories suffixed with a slash. rootName heads the listing.
func RenderTree(rootName string, nodes []*TreeNode) string {
	var b strings.Builder
	b.WriteString(rootName)
	b.WriteString("/\n")
	renderNodes(&b, nodes, "")
	return b.String()
}

func renderNodes(b *strings.Builder, nodes []*TreeNode, prefix string) {
	for i, node := range nodes {
		connector := "├── "
		extension := "│   "
		if i == len(nodes)-1 {
			connector = "└── "
			extension = "    "
		}

		b.WriteString(prefix)
		b.WriteString(connector)
		b.WriteString(node.Name)
		if node.Type == NodeDirectory {
			b.WriteString("/")
		}
		b.WriteString("\n")

		if node.Type == NodeDirectory {
			renderNodes(b, node.Children, prefix+extension)
		}
	}
}
