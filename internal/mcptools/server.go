package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewGodotMCPServer creates an MCP server with all 7 scene tools registered.
func NewGodotMCPServer(svc *SceneService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "godot-scene-intel",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_scene_tree",
		Description: "Parse a Godot .tscn/.scn file and return its reconstructed node hierarchy as JSON, plus a flat preorder node list and node count. Supports depth limiting.",
	}, svc.GetSceneTree)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "render_scene_tree",
		Description: "Parse a Godot scene file and return a human-readable indented ASCII rendering of its node hierarchy, with script markers.",
	}, svc.RenderSceneTree)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_scene_info",
		Description: "Return scene-level metadata for a .tscn/.scn file: format version, uid, load steps, external/inline resources, signal connections, and editable instances. Does not build the node tree.",
	}, svc.GetSceneInfo)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_scenes",
		Description: "List every .tscn/.scn file in the project with size and modification time. Reads filesystem metadata only; never parses scene contents.",
	}, svc.ListScenes)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "scan_project",
		Description: "Parse every scene in the project concurrently and return per-scene summaries (root node, node count, uid, parse errors) plus project.godot metadata.",
	}, svc.ScanProject)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_nodes",
		Description: "Search the nodes of one scene by name substring and/or exact node type, returning matching nodes with their paths.",
	}, svc.FindNodes)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "export_scene_diagram",
		Description: "Export one scene's node hierarchy and signal connections as a Mermaid graph TD diagram.",
	}, svc.ExportSceneDiagram)

	return server
}

// RunMCPServer starts an HTTP server exposing the scene tools.
func RunMCPServer(ctx context.Context, svc *SceneService, addr string) error {
	server := NewGodotMCPServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// RunMCPServerStdio runs the MCP server on stdio transport, blocking until
// stdin is closed or the context is cancelled.
func RunMCPServerStdio(ctx context.Context, svc *SceneService) error {
	return NewGodotMCPServer(svc).Run(ctx, &mcp.StdioTransport{})
}
