package mcptools

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pierrealexandreguillemin-a11y/godot-mcp-unified-sub001/internal/project"
)

// newTestService creates a SceneService over the godot_project fixture.
func newTestService(t *testing.T) *SceneService {
	t.Helper()
	abs, err := filepath.Abs("../../testdata/fixtures/godot_project")
	require.NoError(t, err)
	return NewSceneService(project.NewScanner(abs, nil, nil), nil)
}

func TestGetSceneTree(t *testing.T) {
	svc := newTestService(t)

	_, out, err := svc.GetSceneTree(context.Background(), nil, GetSceneTreeInput{
		ScenePath: "scenes/player.tscn",
	})
	require.NoError(t, err)
	require.Nil(t, out.Err)

	assert.Equal(t, "scenes/player.tscn", out.ScenePath)
	assert.Equal(t, 3, out.NodeCount)
	require.NotNil(t, out.Root)
	assert.Equal(t, "Player", out.Root.Name)
	assert.True(t, out.Root.HasScript)
	assert.Equal(t, "res://scripts/player.gd", out.Root.ScriptPath)
	assert.Len(t, out.Nodes, 3)
}

func TestGetSceneTree_MaxDepth(t *testing.T) {
	svc := newTestService(t)

	_, out, err := svc.GetSceneTree(context.Background(), nil, GetSceneTreeInput{
		ScenePath: "scenes/main.tscn",
		MaxDepth:  1,
	})
	require.NoError(t, err)
	require.Nil(t, out.Err)

	assert.Equal(t, 1, out.NodeCount)
	assert.Empty(t, out.Root.Children)
}

func TestGetSceneTree_ParseFailureEnvelope(t *testing.T) {
	svc := newTestService(t)

	// Parse failure arrives as a structured envelope, not a transport error.
	_, out, err := svc.GetSceneTree(context.Background(), nil, GetSceneTreeInput{
		ScenePath: "scenes/broken.tscn",
	})
	require.NoError(t, err)
	require.NotNil(t, out.Err)
	assert.Equal(t, "scenes/broken.tscn", out.Err.ScenePath)
	assert.Contains(t, out.Err.Error, "Parse error")
	assert.Nil(t, out.Root)
}

func TestGetSceneTree_RequiresScenePath(t *testing.T) {
	svc := newTestService(t)
	_, _, err := svc.GetSceneTree(context.Background(), nil, GetSceneTreeInput{})
	require.Error(t, err)
}

func TestRenderSceneTree(t *testing.T) {
	svc := newTestService(t)

	_, out, err := svc.RenderSceneTree(context.Background(), nil, RenderSceneTreeInput{
		ScenePath: "scenes/main.tscn",
	})
	require.NoError(t, err)
	require.Nil(t, out.Err)

	assert.Contains(t, out.Rendering, "Main (Node2D) [script: res://scripts/game.gd]")
	assert.Contains(t, out.Rendering, "├── World (Node2D)")
	assert.Contains(t, out.Rendering, "│   └── Ground (StaticBody2D)")
	assert.Contains(t, out.Rendering, "└── HUD (CanvasLayer)")
}

func TestGetSceneInfo(t *testing.T) {
	svc := newTestService(t)

	_, out, err := svc.GetSceneInfo(context.Background(), nil, GetSceneInfoInput{
		ScenePath: "scenes/main.tscn",
	})
	require.NoError(t, err)
	require.Nil(t, out.Err)

	assert.Equal(t, 3, out.FormatVersion)
	assert.Equal(t, "uid://main0001", out.UID)
	assert.Equal(t, 4, out.LoadSteps)
	assert.Equal(t, 6, out.NodeCount)
	assert.Len(t, out.ExtResources, 2)
	assert.Equal(t, []string{"RectangleShape2D_1"}, out.SubResourceIDs)
	require.Len(t, out.Connections, 1)
	assert.Equal(t, "body_entered", out.Connections[0].Signal)
	require.Len(t, out.EditableInstances, 1)
	assert.Equal(t, "Player", out.EditableInstances[0].Path)
}

func TestListScenes(t *testing.T) {
	svc := newTestService(t)

	_, out, err := svc.ListScenes(context.Background(), nil, ListScenesInput{})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Total)
	require.Len(t, out.Scenes, 3)
	assert.Equal(t, "scenes/broken.tscn", out.Scenes[0].Path)
}

func TestScanProject(t *testing.T) {
	svc := newTestService(t)

	_, out, err := svc.ScanProject(context.Background(), nil, ScanProjectInput{})
	require.NoError(t, err)

	require.NotNil(t, out.Project)
	assert.Equal(t, "Fixture Game", out.Project.Name)

	assert.Equal(t, 3, out.Total)
	require.Len(t, out.Scenes, 3)
	assert.Contains(t, out.Scenes[0].Error, "Parse error") // broken.tscn
	assert.Equal(t, "Main", out.Scenes[1].RootName)
}

func TestFindNodes_ByName(t *testing.T) {
	svc := newTestService(t)

	_, out, err := svc.FindNodes(context.Background(), nil, FindNodesInput{
		ScenePath: "scenes/main.tscn",
		Query:     "ground",
	})
	require.NoError(t, err)
	require.Nil(t, out.Err)
	require.Equal(t, 1, out.Total)
	assert.Equal(t, "World/Ground", out.Nodes[0].Path)
}

func TestFindNodes_ByType(t *testing.T) {
	svc := newTestService(t)

	_, out, err := svc.FindNodes(context.Background(), nil, FindNodesInput{
		ScenePath: "scenes/main.tscn",
		Type:      "Node2D",
	})
	require.NoError(t, err)
	require.Equal(t, 2, out.Total) // Main and World
}

func TestFindNodes_NoFilterReturnsAll(t *testing.T) {
	svc := newTestService(t)

	_, out, err := svc.FindNodes(context.Background(), nil, FindNodesInput{
		ScenePath: "scenes/player.tscn",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Total)
}

func TestExportSceneDiagram(t *testing.T) {
	svc := newTestService(t)

	_, out, err := svc.ExportSceneDiagram(context.Background(), nil, ExportSceneDiagramInput{
		ScenePath: "scenes/main.tscn",
	})
	require.NoError(t, err)
	require.Nil(t, out.Err)

	assert.Contains(t, out.Mermaid, "graph TD")
	assert.Contains(t, out.Mermaid, "Main (Node2D)")
	assert.Contains(t, out.Mermaid, "-->")
}
