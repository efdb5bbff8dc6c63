package scenetree

import "strings"

// Render formats a built tree as an indented ASCII listing using box-drawing
// connectors. The output is deterministic for a structurally equal tree.
func Render(tree *TreeNode) string {
	if tree == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(nodeLabel(tree))
	sb.WriteByte('\n')
	renderChildren(&sb, tree, "")
	return sb.String()
}

func renderChildren(sb *strings.Builder, n *TreeNode, prefix string) {
	for i, child := range n.Children {
		last := i == len(n.Children)-1

		connector := "├── "
		continuation := "│   "
		if last {
			connector = "└── "
			continuation = "    "
		}

		sb.WriteString(prefix)
		sb.WriteString(connector)
		sb.WriteString(nodeLabel(child))
		sb.WriteByte('\n')

		renderChildren(sb, child, prefix+continuation)
	}
}

// nodeLabel is "<name> (<type>)", with the type parens dropped for typeless
// (instanced) nodes, suffixed with the script marker when one is attached.
func nodeLabel(n *TreeNode) string {
	label := n.Name
	if n.Type != "" {
		label += " (" + n.Type + ")"
	}
	if n.HasScript {
		script := n.ScriptPath
		if script == "" {
			script = "attached"
		}
		label += " [script: " + script + "]"
	}
	return label
}
