// Package scenetree reconstructs a rooted node hierarchy from the flat,
// name-addressed node list of a parsed scene document, and renders it for
// display. Building is a pure derived view: the tree is recomputed fresh on
// every call and never cached, since the backing file may change between
// reads.
package scenetree

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/pierrealexandreguillemin-a11y/godot-mcp-unified-sub001/internal/tscn"
)

// Tree structure anomalies. These are tagged so callers can tell a malformed
// document apart from a legitimately empty one.
var (
	// ErrNoRoot means no node in the document is parentless.
	ErrNoRoot = errors.New("scene has no root node")
	// ErrMultipleRoots means more than one node is parentless.
	ErrMultipleRoots = errors.New("scene has multiple root nodes")
	// ErrDanglingParent means a node's parent path matches no earlier node.
	ErrDanglingParent = errors.New("node parent path matches no declared node")
)

// TreeNode is one node of the rebuilt hierarchy. Path is the slash-joined
// chain of node names from the root; the root itself is ".".
type TreeNode struct {
	Name         string      `json:"name"`
	Type         string      `json:"type,omitempty"`
	Path         string      `json:"path"`
	HasScript    bool        `json:"hasScript"`
	ScriptPath   string      `json:"scriptPath,omitempty"`
	Children     []*TreeNode `json:"children"`
	PropertyKeys []string    `json:"propertyKeys,omitempty"`
}

// Options controls tree building.
type Options struct {
	// MaxDepth limits recursion below the root: 0 yields a childless root,
	// and nodes beyond the limit are omitted entirely. Negative means
	// unlimited.
	MaxDepth int
}

// Unlimited builds the full tree.
var Unlimited = Options{MaxDepth: -1}

// Build reconstructs the node hierarchy of doc. It returns (nil, nil) when
// the document declares no nodes, and a tagged error when the document has no
// root, several roots, or a parent path that resolves to nothing.
//
// Resolution is a single up-front pass: every node gets a synthetic integer
// id and its parent path is resolved to an id once, so building never
// re-matches name strings during recursion. Godot only guarantees node names
// unique among siblings; when two nodes end up with the same full path the
// first declaration wins, matching the engine's own file-order semantics.
func Build(doc *tscn.SceneDocument, opts Options) (*TreeNode, error) {
	nodes := doc.Nodes
	if len(nodes) == 0 {
		return nil, nil
	}

	rootID := -1
	for i := range nodes {
		if nodes[i].Parent != "" {
			continue
		}
		if rootID >= 0 {
			return nil, fmt.Errorf("%w: %q and %q", ErrMultipleRoots, nodes[rootID].Name, nodes[i].Name)
		}
		rootID = i
	}
	if rootID < 0 {
		return nil, ErrNoRoot
	}

	// Resolve every parent path to a synthetic id in declaration order.
	// pathToID maps a node's full path (root = ".") to its index.
	pathToID := make(map[string]int, len(nodes))
	pathOf := make([]string, len(nodes))
	children := make(map[int][]int, len(nodes))

	pathOf[rootID] = "."
	pathToID["."] = rootID

	for i := range nodes {
		if i == rootID {
			continue
		}
		n := &nodes[i]
		if n.Parent == "" {
			continue // unreachable: multiple roots already rejected
		}

		var path string
		if n.Parent == "." {
			path = n.Name
		} else {
			path = n.Parent + "/" + n.Name
		}
		pathOf[i] = path

		parentID, ok := pathToID[n.Parent]
		if !ok {
			return nil, fmt.Errorf("%w: node %q declares parent %q", ErrDanglingParent, n.Name, n.Parent)
		}
		children[parentID] = append(children[parentID], i)

		if _, dup := pathToID[path]; !dup {
			pathToID[path] = i
		}
	}

	return build(doc, rootID, pathOf, children, opts.MaxDepth), nil
}

func build(doc *tscn.SceneDocument, id int, pathOf []string, children map[int][]int, depthLeft int) *TreeNode {
	n := &doc.Nodes[id]

	tn := &TreeNode{
		Name:      n.Name,
		Type:      n.Type,
		Path:      pathOf[id],
		HasScript: n.ScriptRef != "",
		Children:  []*TreeNode{},
	}
	if tn.HasScript {
		tn.ScriptPath = resolveScriptPath(doc, n.ScriptRef)
	}
	if keys := n.Properties.Keys(); len(keys) > 0 {
		tn.PropertyKeys = keys
	}

	if depthLeft == 0 {
		return tn
	}
	next := depthLeft - 1
	if depthLeft < 0 {
		next = -1
	}
	for _, childID := range children[id] {
		tn.Children = append(tn.Children, build(doc, childID, pathOf, children, next))
	}
	return tn
}

// extResourceRef matches the raw script reference text, e.g. ExtResource("1").
var extResourceRef = regexp.MustCompile(`^ExtResource\(\s*"([^"]*)"\s*\)$`)

// resolveScriptPath extracts the resource id from the raw ExtResource("id")
// text and looks up the matching declaration. A dangling-but-declared script
// reference is not an error at this layer: the path just stays empty.
func resolveScriptPath(doc *tscn.SceneDocument, scriptRef string) string {
	m := extResourceRef.FindStringSubmatch(scriptRef)
	if m == nil {
		return ""
	}
	if res := doc.ExtResourceByID(m[1]); res != nil {
		return res.Path
	}
	return ""
}

// Count returns the total number of nodes in the built tree.
func Count(tree *TreeNode) int {
	if tree == nil {
		return 0
	}
	total := 1
	for _, c := range tree.Children {
		total += Count(c)
	}
	return total
}

// FlatNode is one entry of the preorder flat listing of a built tree.
type FlatNode struct {
	Path       string `json:"path"`
	Name       string `json:"name"`
	Type       string `json:"type,omitempty"`
	HasScript  bool   `json:"hasScript"`
	ScriptPath string `json:"scriptPath,omitempty"`
	ChildCount int    `json:"childCount"`
}

// Flatten returns the tree's nodes in preorder.
func Flatten(tree *TreeNode) []FlatNode {
	if tree == nil {
		return nil
	}
	out := make([]FlatNode, 0, Count(tree))
	var walk func(n *TreeNode)
	walk = func(n *TreeNode) {
		out = append(out, FlatNode{
			Path:       n.Path,
			Name:       n.Name,
			Type:       n.Type,
			HasScript:  n.HasScript,
			ScriptPath: n.ScriptPath,
			ChildCount: len(n.Children),
		})
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(tree)
	return out
}
