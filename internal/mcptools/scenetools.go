package mcptools

import (
	"github.com/pierrealexandreguillemin-a11y/godot-mcp-unified-sub001/internal/project"
	"github.com/pierrealexandreguillemin-a11y/godot-mcp-unified-sub001/internal/scenetree"
	"github.com/pierrealexandreguillemin-a11y/godot-mcp-unified-sub001/internal/tscn"
)

// --- MCP Tool Input/Output Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// SceneError is the structured failure envelope for per-scene errors. Tool
// outputs carry it instead of surfacing a transport-level error, so clients
// always learn which scene failed and why.
type SceneError struct {
	Error     string `json:"error"`
	ScenePath string `json:"scenePath"`
}

// GetSceneTreeInput is the input for the get_scene_tree MCP tool.
type GetSceneTreeInput struct {
	ScenePath string `json:"scenePath" jsonschema:"project-relative path to the .tscn/.scn file"`
	MaxDepth  int    `json:"maxDepth,omitempty" jsonschema:"maximum number of tree levels including the root; 1 returns only the root, omit for unlimited"`
}

// GetSceneTreeOutput is the result of the get_scene_tree MCP tool.
type GetSceneTreeOutput struct {
	ScenePath string               `json:"scenePath"`
	NodeCount int                  `json:"nodeCount"`
	Root      *scenetree.TreeNode  `json:"root,omitempty"`
	Nodes     []scenetree.FlatNode `json:"nodes,omitempty"`
	Err       *SceneError          `json:"err,omitempty"`
}

// RenderSceneTreeInput is the input for the render_scene_tree MCP tool.
type RenderSceneTreeInput struct {
	ScenePath string `json:"scenePath" jsonschema:"project-relative path to the .tscn/.scn file"`
	MaxDepth  int    `json:"maxDepth,omitempty" jsonschema:"maximum number of tree levels including the root; 1 returns only the root, omit for unlimited"`
}

// RenderSceneTreeOutput is the result of the render_scene_tree MCP tool.
type RenderSceneTreeOutput struct {
	ScenePath string      `json:"scenePath"`
	Rendering string      `json:"rendering,omitempty"`
	Err       *SceneError `json:"err,omitempty"`
}

// GetSceneInfoInput is the input for the get_scene_info MCP tool.
type GetSceneInfoInput struct {
	ScenePath string `json:"scenePath" jsonschema:"project-relative path to the .tscn/.scn file"`
}

// GetSceneInfoOutput is the result of the get_scene_info MCP tool. It reads
// the document directly and never builds a tree.
type GetSceneInfoOutput struct {
	ScenePath         string                  `json:"scenePath"`
	FormatVersion     int                     `json:"formatVersion,omitempty"`
	UID               string                  `json:"uid,omitempty"`
	LoadSteps         int                     `json:"loadSteps,omitempty"`
	NodeCount         int                     `json:"nodeCount"`
	ExtResources      []tscn.ExtResource      `json:"extResources,omitempty"`
	SubResourceIDs    []string                `json:"subResourceIds,omitempty"`
	Connections       []tscn.Connection       `json:"connections,omitempty"`
	EditableInstances []tscn.EditableInstance `json:"editableInstances,omitempty"`
	Err               *SceneError             `json:"err,omitempty"`
}

// ListScenesInput is the input for the list_scenes MCP tool.
type ListScenesInput struct{}

// ListScenesOutput is the result of the list_scenes MCP tool.
type ListScenesOutput struct {
	Scenes []project.SceneFile `json:"scenes"`
	Total  int                 `json:"total"`
}

// ScanProjectInput is the input for the scan_project MCP tool.
type ScanProjectInput struct{}

// ScanProjectOutput is the result of the scan_project MCP tool.
type ScanProjectOutput struct {
	Project *project.Info          `json:"project,omitempty"`
	Scenes  []project.SceneSummary `json:"scenes"`
	Total   int                    `json:"total"`
}

// FindNodesInput is the input for the find_nodes MCP tool.
type FindNodesInput struct {
	ScenePath string `json:"scenePath" jsonschema:"project-relative path to the .tscn/.scn file"`
	Query     string `json:"query,omitempty" jsonschema:"case-insensitive substring match on node names"`
	Type      string `json:"type,omitempty" jsonschema:"exact node type filter, e.g. Sprite2D"`
}

// FindNodesOutput is the result of the find_nodes MCP tool.
type FindNodesOutput struct {
	ScenePath string               `json:"scenePath"`
	Nodes     []scenetree.FlatNode `json:"nodes"`
	Total     int                  `json:"total"`
	Err       *SceneError          `json:"err,omitempty"`
}

// ExportSceneDiagramInput is the input for the export_scene_diagram MCP tool.
type ExportSceneDiagramInput struct {
	ScenePath string `json:"scenePath" jsonschema:"project-relative path to the .tscn/.scn file"`
}

// ExportSceneDiagramOutput is the result of the export_scene_diagram MCP tool.
type ExportSceneDiagramOutput struct {
	ScenePath string      `json:"scenePath"`
	Mermaid   string      `json:"mermaid,omitempty"`
	Err       *SceneError `json:"err,omitempty"`
}
