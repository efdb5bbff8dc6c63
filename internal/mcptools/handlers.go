package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/pierrealexandreguillemin-a11y/godot-mcp-unified-sub001/internal/export"
	"github.com/pierrealexandreguillemin-a11y/godot-mcp-unified-sub001/internal/project"
	"github.com/pierrealexandreguillemin-a11y/godot-mcp-unified-sub001/internal/scenetree"
	"github.com/pierrealexandreguillemin-a11y/godot-mcp-unified-sub001/internal/tscn"
)

// SceneService holds the project scanner used by MCP tool handlers.
type SceneService struct {
	scanner *project.Scanner
	logger  *zap.Logger
}

// NewSceneService creates a SceneService over the given scanner. A nil logger
// is replaced by a no-op one.
func NewSceneService(scanner *project.Scanner, logger *zap.Logger) *SceneService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SceneService{scanner: scanner, logger: logger}
}

// sceneError wraps a per-scene failure in the structured envelope.
func sceneError(scenePath string, err error) *SceneError {
	return &SceneError{Error: err.Error(), ScenePath: scenePath}
}

// loadTree parses one scene and builds its tree with the given depth limit.
func (s *SceneService) loadTree(scenePath string, maxDepth int) (*tscn.SceneDocument, *scenetree.TreeNode, error) {
	doc, err := s.scanner.LoadScene(scenePath)
	if err != nil {
		return nil, nil, err
	}
	tree, err := scenetree.Build(doc, buildOptions(maxDepth))
	if err != nil {
		return nil, nil, err
	}
	return doc, tree, nil
}

// buildOptions maps the tool-level maxDepth convention onto builder Options.
// MCP clients cannot distinguish an omitted integer field from an explicit 0,
// so at the tool boundary 0 and negative both mean unlimited, and maxDepth
// counts levels including the root: 1 yields a root-only listing.
func buildOptions(maxDepth int) scenetree.Options {
	if maxDepth <= 0 {
		return scenetree.Unlimited
	}
	return scenetree.Options{MaxDepth: maxDepth - 1}
}

// GetSceneTree parses a scene, rebuilds its node hierarchy, and returns both
// the tree and the preorder flat listing. Parse and structure failures are
// returned in the output envelope, not as transport errors.
func (s *SceneService) GetSceneTree(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetSceneTreeInput,
) (*mcp.CallToolResult, GetSceneTreeOutput, error) {
	if input.ScenePath == "" {
		return nil, GetSceneTreeOutput{}, fmt.Errorf("scenePath is required")
	}

	_, tree, err := s.loadTree(input.ScenePath, input.MaxDepth)
	if err != nil {
		s.logger.Warn("get_scene_tree failed", zap.String("scene", input.ScenePath), zap.Error(err))
		return nil, GetSceneTreeOutput{
			ScenePath: input.ScenePath,
			Err:       sceneError(input.ScenePath, err),
		}, nil
	}

	return nil, GetSceneTreeOutput{
		ScenePath: input.ScenePath,
		NodeCount: scenetree.Count(tree),
		Root:      tree,
		Nodes:     scenetree.Flatten(tree),
	}, nil
}

// RenderSceneTree parses a scene and returns its ASCII tree rendering.
func (s *SceneService) RenderSceneTree(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RenderSceneTreeInput,
) (*mcp.CallToolResult, RenderSceneTreeOutput, error) {
	if input.ScenePath == "" {
		return nil, RenderSceneTreeOutput{}, fmt.Errorf("scenePath is required")
	}

	_, tree, err := s.loadTree(input.ScenePath, input.MaxDepth)
	if err != nil {
		return nil, RenderSceneTreeOutput{
			ScenePath: input.ScenePath,
			Err:       sceneError(input.ScenePath, err),
		}, nil
	}

	return nil, RenderSceneTreeOutput{
		ScenePath: input.ScenePath,
		Rendering: scenetree.Render(tree),
	}, nil
}

// GetSceneInfo returns header and resource metadata for one scene. It reads
// the parsed document directly and bypasses tree building entirely.
func (s *SceneService) GetSceneInfo(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetSceneInfoInput,
) (*mcp.CallToolResult, GetSceneInfoOutput, error) {
	if input.ScenePath == "" {
		return nil, GetSceneInfoOutput{}, fmt.Errorf("scenePath is required")
	}

	doc, err := s.scanner.LoadScene(input.ScenePath)
	if err != nil {
		return nil, GetSceneInfoOutput{
			ScenePath: input.ScenePath,
			Err:       sceneError(input.ScenePath, err),
		}, nil
	}

	subIDs := make([]string, 0, len(doc.SubResources))
	for _, sub := range doc.SubResources {
		subIDs = append(subIDs, sub.ID)
	}

	return nil, GetSceneInfoOutput{
		ScenePath:         input.ScenePath,
		FormatVersion:     doc.Header.FormatVersion,
		UID:               doc.Header.UID,
		LoadSteps:         doc.Header.LoadSteps,
		NodeCount:         len(doc.Nodes),
		ExtResources:      doc.ExtResources,
		SubResourceIDs:    subIDs,
		Connections:       doc.Connections,
		EditableInstances: doc.EditableInstances,
	}, nil
}

// ListScenes returns filesystem metadata for every scene file in the project.
// It never parses scene contents.
func (s *SceneService) ListScenes(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListScenesInput,
) (*mcp.CallToolResult, ListScenesOutput, error) {
	scenes, err := s.scanner.ListScenes(ctx)
	if err != nil {
		return nil, ListScenesOutput{}, fmt.Errorf("list scenes: %w", err)
	}
	if scenes == nil {
		scenes = []project.SceneFile{}
	}
	return nil, ListScenesOutput{Scenes: scenes, Total: len(scenes)}, nil
}

// ScanProject parses every scene in the project concurrently and returns
// per-scene summaries plus project.godot metadata.
func (s *SceneService) ScanProject(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ScanProjectInput,
) (*mcp.CallToolResult, ScanProjectOutput, error) {
	info, err := s.scanner.ProjectInfo(ctx)
	if err != nil {
		return nil, ScanProjectOutput{}, fmt.Errorf("project info: %w", err)
	}

	summaries, err := s.scanner.ScanScenes(ctx)
	if err != nil {
		return nil, ScanProjectOutput{}, fmt.Errorf("scan scenes: %w", err)
	}
	if summaries == nil {
		summaries = []project.SceneSummary{}
	}

	return nil, ScanProjectOutput{
		Project: info,
		Scenes:  summaries,
		Total:   len(summaries),
	}, nil
}

// FindNodes returns the flat nodes of one scene filtered by name substring
// and/or exact type.
func (s *SceneService) FindNodes(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FindNodesInput,
) (*mcp.CallToolResult, FindNodesOutput, error) {
	if input.ScenePath == "" {
		return nil, FindNodesOutput{}, fmt.Errorf("scenePath is required")
	}

	_, tree, err := s.loadTree(input.ScenePath, 0)
	if err != nil {
		return nil, FindNodesOutput{
			ScenePath: input.ScenePath,
			Err:       sceneError(input.ScenePath, err),
		}, nil
	}

	query := strings.ToLower(input.Query)
	matched := []scenetree.FlatNode{}
	for _, n := range scenetree.Flatten(tree) {
		if query != "" && !strings.Contains(strings.ToLower(n.Name), query) {
			continue
		}
		if input.Type != "" && n.Type != input.Type {
			continue
		}
		matched = append(matched, n)
	}

	return nil, FindNodesOutput{
		ScenePath: input.ScenePath,
		Nodes:     matched,
		Total:     len(matched),
	}, nil
}

// ExportSceneDiagram returns a Mermaid diagram of one scene's hierarchy and
// signal connections.
func (s *SceneService) ExportSceneDiagram(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExportSceneDiagramInput,
) (*mcp.CallToolResult, ExportSceneDiagramOutput, error) {
	if input.ScenePath == "" {
		return nil, ExportSceneDiagramOutput{}, fmt.Errorf("scenePath is required")
	}

	doc, tree, err := s.loadTree(input.ScenePath, 0)
	if err != nil {
		return nil, ExportSceneDiagramOutput{
			ScenePath: input.ScenePath,
			Err:       sceneError(input.ScenePath, err),
		}, nil
	}

	return nil, ExportSceneDiagramOutput{
		ScenePath: input.ScenePath,
		Mermaid:   export.GenerateMermaid(doc, tree),
	}, nil
}
