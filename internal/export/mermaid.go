package export

import (
	"fmt"
	"strings"

	"github.com/pierrealexandreguillemin-a11y/godot-mcp-unified-sub001/internal/scenetree"
	"github.com/pierrealexandreguillemin-a11y/godot-mcp-unified-sub001/internal/tscn"
)

// GenerateMermaid produces a Mermaid graph TD diagram of a scene's node
// hierarchy. Parent-child containment becomes solid arrows; signal
// connections become dashed, labelled arrows. Scripted nodes render with
// double-bracket shapes so they stand out.
func GenerateMermaid(doc *tscn.SceneDocument, tree *scenetree.TreeNode) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if tree == nil {
		return sb.String()
	}

	// Node path → Mermaid id, assigned in preorder so output is
	// deterministic for a structurally equal tree.
	ids := make(map[string]string)
	nextID := 0
	getID := func(path string) string {
		if id, ok := ids[path]; ok {
			return id
		}
		id := fmt.Sprintf("N%d", nextID)
		nextID++
		ids[path] = id
		return id
	}

	var emit func(n *scenetree.TreeNode)
	emit = func(n *scenetree.TreeNode) {
		id := getID(n.Path)
		label := n.Name
		if n.Type != "" {
			label += " (" + n.Type + ")"
		}
		if n.HasScript {
			sb.WriteString(fmt.Sprintf("  %s[[\"%s\"]]\n", id, escapeLabel(label)))
		} else {
			sb.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", id, escapeLabel(label)))
		}
		for _, c := range n.Children {
			sb.WriteString(fmt.Sprintf("  %s --> %s\n", id, getID(c.Path)))
			emit(c)
		}
	}
	emit(tree)

	// Signal connections between nodes that made it into the tree.
	for _, conn := range doc.Connections {
		fromID, okFrom := ids[conn.From]
		toID, okTo := ids[conn.To]
		if !okFrom || !okTo {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s -. %s .-> %s\n", fromID, escapeLabel(conn.Signal), toID))
	}

	return sb.String()
}

// escapeLabel keeps Mermaid label syntax intact for names containing quotes.
func escapeLabel(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}
