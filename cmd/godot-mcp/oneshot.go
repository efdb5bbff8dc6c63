package main

import (
	"fmt"

	"github.com/pierrealexandreguillemin-a11y/godot-mcp-unified-sub001/internal/export"
	"github.com/pierrealexandreguillemin-a11y/godot-mcp-unified-sub001/internal/project"
	"github.com/pierrealexandreguillemin-a11y/godot-mcp-unified-sub001/internal/scenetree"
)

// runOneShot parses a single scene and prints the requested view to stdout.
func runOneShot(scanner *project.Scanner, scenePath, mode string) error {
	doc, err := scanner.LoadScene(scenePath)
	if err != nil {
		return err
	}

	switch mode {
	case "tree":
		tree, err := scenetree.Build(doc, scenetree.Unlimited)
		if err != nil {
			return err
		}
		fmt.Print(scenetree.Render(tree))
		return nil

	case "info":
		fmt.Printf("scene:   %s\n", scenePath)
		fmt.Printf("format:  %d\n", doc.Header.FormatVersion)
		if doc.Header.UID != "" {
			fmt.Printf("uid:     %s\n", doc.Header.UID)
		}
		fmt.Printf("nodes:   %d\n", len(doc.Nodes))
		if len(doc.ExtResources) > 0 {
			fmt.Printf("resources:\n")
			for _, res := range doc.ExtResources {
				fmt.Printf("  %-16s %s\n", res.Type, res.Path)
			}
		}
		if len(doc.Connections) > 0 {
			fmt.Printf("connections:\n")
			for _, conn := range doc.Connections {
				fmt.Printf("  %s: %s -> %s.%s\n", conn.Signal, conn.From, conn.To, conn.Method)
			}
		}
		return nil

	case "json":
		tree, err := scenetree.Build(doc, scenetree.Unlimited)
		if err != nil {
			return err
		}
		out, err := export.TreeJSON(scenePath, doc, tree)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil

	case "diagram":
		tree, err := scenetree.Build(doc, scenetree.Unlimited)
		if err != nil {
			return err
		}
		fmt.Print(export.GenerateMermaid(doc, tree))
		return nil

	default:
		return fmt.Errorf("unknown mode %q (want tree, info, json, or diagram)", mode)
	}
}
