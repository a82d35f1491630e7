package analysis

import (
	"sort"
	"strings"

	"repocopilot/internal/structure"
)

const (
	defaultTreeDepth  = 3
	treeCharBudget    = 3000
	treeTruncateLines = 100
)

// RenderTree renders a repository tree as a unicode box-drawing listing.
// Files sort before directories, each group alphabetically. Output past the
// character budget is cut to the first lines with a truncation marker.
func RenderTree(root *structure.TreeNode, maxDepth int) string {
	if root == nil {
		return ""
	}
	if maxDepth <= 0 {
		maxDepth = defaultTreeDepth
	}

	var b strings.Builder
	renderChildren(&b, root.Children, "", 0, maxDepth)
	out := b.String()

	if len(out) > treeCharBudget {
		lines := strings.Split(out, "\n")
		if len(lines) > treeTruncateLines {
			lines = lines[:treeTruncateLines]
		}
		out = strings.Join(lines, "\n") + "\n... (truncated)"
	}
	return out
}

func renderChildren(b *strings.Builder, children []*structure.TreeNode, prefix string, depth, maxDepth int) {
	if depth >= maxDepth {
		return
	}

	sorted := make([]*structure.TreeNode, len(children))
	copy(sorted, children)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].IsDir() != sorted[j].IsDir() {
			return !sorted[i].IsDir()
		}
		return sorted[i].Name < sorted[j].Name
	})

	for i, node := range sorted {
		last := i == len(sorted)-1
		connector := "├── "
		childPrefix := prefix + "│   "
		if last {
			connector = "└── "
			childPrefix = prefix + "    "
		}
		if node.IsDir() {
			b.WriteString(prefix + connector + "📁 " + node.Name + "/\n")
			renderChildren(b, node.Children, childPrefix, depth+1, maxDepth)
		} else {
			b.WriteString(prefix + connector + "📄 " + node.Name + "\n")
		}
	}
}
