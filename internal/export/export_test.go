package export

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pierrealexandreguillemin-a11y/godot-mcp-unified-sub001/internal/scenetree"
	"github.com/pierrealexandreguillemin-a11y/godot-mcp-unified-sub001/internal/tscn"
)

const fixtureScene = `[gd_scene load_steps=2 format=3 uid="uid://abc123"]
[ext_resource type="Script" path="res://scripts/player.gd" id="1"]
[node name="Root" type="Node2D"]
[node name="Player" type="CharacterBody2D" parent="."]
script = ExtResource("1")
[node name="Sprite" type="Sprite2D" parent="Player"]
[connection signal="ready" from="Player" to="." method="_on_player_ready"]
`

// buildFixture parses and builds the shared fixture scene.
func buildFixture(t *testing.T) (*tscn.SceneDocument, *scenetree.TreeNode) {
	t.Helper()
	doc, err := tscn.Parse(fixtureScene)
	require.NoError(t, err)
	tree, err := scenetree.Build(doc, scenetree.Unlimited)
	require.NoError(t, err)
	return doc, tree
}

func TestTreeJSON(t *testing.T) {
	doc, tree := buildFixture(t)

	out, err := TreeJSON("scenes/fixture.tscn", doc, tree)
	require.NoError(t, err)

	var exp SceneExport
	require.NoError(t, json.Unmarshal(out, &exp))

	assert.Equal(t, "scenes/fixture.tscn", exp.Scene)
	assert.Equal(t, "uid://abc123", exp.UID)
	assert.Equal(t, 3, exp.NodeCount)
	require.NotNil(t, exp.Root)
	assert.Equal(t, "Root", exp.Root.Name)
	assert.Len(t, exp.Nodes, 3)
	require.Len(t, exp.Resources, 1)
	assert.Equal(t, "res://scripts/player.gd", exp.Resources[0].Path)
	require.Len(t, exp.Signals, 1)
	assert.Equal(t, "ready", exp.Signals[0].Signal)
}

func TestTreeJSON_EmptyScene(t *testing.T) {
	doc, err := tscn.Parse("")
	require.NoError(t, err)

	out, err := TreeJSON("empty.tscn", doc, nil)
	require.NoError(t, err)

	var exp SceneExport
	require.NoError(t, json.Unmarshal(out, &exp))
	assert.Zero(t, exp.NodeCount)
	assert.Nil(t, exp.Root)
}

func TestGenerateMermaid(t *testing.T) {
	doc, tree := buildFixture(t)

	got := GenerateMermaid(doc, tree)

	assert.True(t, strings.HasPrefix(got, "graph TD\n"))
	// Preorder id assignment: root N0, Player N1, Sprite N2.
	assert.Contains(t, got, `N0["Root (Node2D)"]`)
	assert.Contains(t, got, `N1[["Player (CharacterBody2D)"]]`) // scripted node shape
	assert.Contains(t, got, "N0 --> N1")
	assert.Contains(t, got, "N1 --> N2")
	assert.Contains(t, got, "N1 -. ready .-> N0") // signal edge
}

func TestGenerateMermaid_NilTree(t *testing.T) {
	doc, err := tscn.Parse("")
	require.NoError(t, err)
	assert.Equal(t, "graph TD\n", GenerateMermaid(doc, nil))
}

func TestGenerateMermaid_SkipsConnectionsOutsideTree(t *testing.T) {
	doc, tree := buildFixture(t)
	doc.Connections = append(doc.Connections, tscn.Connection{
		Signal: "gone", From: "Missing", To: ".", Method: "_noop",
	})

	got := GenerateMermaid(doc, tree)
	assert.NotContains(t, got, "gone")
}
