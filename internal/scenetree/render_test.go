package scenetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_ScenarioA(t *testing.T) {
	doc := parseDoc(t, scenarioA)
	tree, err := Build(doc, Unlimited)
	require.NoError(t, err)

	want := `Root (Node2D)
└── Player (CharacterBody2D) [script: res://scripts/player.gd]
    └── Sprite (Sprite2D)
`
	assert.Equal(t, want, Render(tree))
}

func TestRender_Siblings(t *testing.T) {
	doc := parseDoc(t, `[gd_scene format=3]
[node name="Root" type="Node2D"]
[node name="World" type="Node2D" parent="."]
[node name="Ground" type="StaticBody2D" parent="World"]
[node name="Water" type="Area2D" parent="World"]
[node name="HUD" type="CanvasLayer" parent="."]
`)
	tree, err := Build(doc, Unlimited)
	require.NoError(t, err)

	want := `Root (Node2D)
├── World (Node2D)
│   ├── Ground (StaticBody2D)
│   └── Water (Area2D)
└── HUD (CanvasLayer)
`
	assert.Equal(t, want, Render(tree))
}

func TestRender_UnresolvedScriptShowsAttached(t *testing.T) {
	doc := parseDoc(t, `[gd_scene format=3]
[node name="Root" type="Node2D"]
script = ExtResource("99_missing")
`)
	tree, err := Build(doc, Unlimited)
	require.NoError(t, err)

	assert.Equal(t, "Root (Node2D) [script: attached]\n", Render(tree))
}

func TestRender_TypelessInstanceNode(t *testing.T) {
	doc := parseDoc(t, `[gd_scene format=3]
[node name="Root" type="Node2D"]
[node name="Player" parent="." instance=ExtResource("2")]
`)
	tree, err := Build(doc, Unlimited)
	require.NoError(t, err)

	want := `Root (Node2D)
└── Player
`
	assert.Equal(t, want, Render(tree))
}

func TestRender_NilTree(t *testing.T) {
	assert.Empty(t, Render(nil))
}

func TestRender_Deterministic(t *testing.T) {
	doc := parseDoc(t, scenarioA)
	tree, err := Build(doc, Unlimited)
	require.NoError(t, err)
	assert.Equal(t, Render(tree), Render(tree))
}
