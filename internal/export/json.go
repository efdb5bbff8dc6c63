// Package export renders built scene trees for consumption outside the MCP
// tools: stable JSON documents and Mermaid diagrams.
package export

import (
	"encoding/json"
	"fmt"

	"github.com/pierrealexandreguillemin-a11y/godot-mcp-unified-sub001/internal/scenetree"
	"github.com/pierrealexandreguillemin-a11y/godot-mcp-unified-sub001/internal/tscn"
)

// SceneExport is the top-level JSON export structure for one scene.
type SceneExport struct {
	Scene     string               `json:"scene"`
	UID       string               `json:"uid,omitempty"`
	NodeCount int                  `json:"nodeCount"`
	Root      *scenetree.TreeNode  `json:"root,omitempty"`
	Nodes     []scenetree.FlatNode `json:"nodes,omitempty"`
	Resources []tscn.ExtResource   `json:"resources,omitempty"`
	Signals   []tscn.Connection    `json:"signals,omitempty"`
}

// TreeJSON builds the JSON export for a parsed scene and its built tree.
// The tree may be nil for a scene with no nodes.
func TreeJSON(scenePath string, doc *tscn.SceneDocument, tree *scenetree.TreeNode) ([]byte, error) {
	exp := SceneExport{
		Scene:     scenePath,
		UID:       doc.Header.UID,
		NodeCount: scenetree.Count(tree),
		Root:      tree,
		Nodes:     scenetree.Flatten(tree),
		Resources: doc.ExtResources,
		Signals:   doc.Connections,
	}

	out, err := json.MarshalIndent(exp, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal scene export: %w", err)
	}
	return out, nil
}
