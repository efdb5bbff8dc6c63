package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pierrealexandreguillemin-a11y/godot-mcp-unified-sub001/internal/config"
	"github.com/pierrealexandreguillemin-a11y/godot-mcp-unified-sub001/internal/mcptools"
	"github.com/pierrealexandreguillemin-a11y/godot-mcp-unified-sub001/internal/project"
)

// CLI flags parsed from command line.
type cliFlags struct {
	ProjectRoot string
	Addr        string
	Stdio       bool
	Scene       string
	Mode        string
	Verbose     bool
	Version     bool
}

// version is set by the linker at build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var flags cliFlags

	fs := flag.NewFlagSet("godot-mcp", flag.ContinueOnError)
	fs.StringVar(&flags.ProjectRoot, "project-root", ".", "path to the Godot project")
	fs.StringVar(&flags.Addr, "addr", "localhost:8321", "listen address for the HTTP MCP server")
	fs.BoolVar(&flags.Stdio, "stdio", false, "serve MCP over stdio instead of HTTP")
	fs.StringVar(&flags.Scene, "scene", "", "one-shot: print output for a single scene and exit")
	fs.StringVar(&flags.Mode, "mode", "tree", "one-shot output mode: tree, info, json, or diagram")
	fs.BoolVar(&flags.Verbose, "verbose", false, "enable debug logging")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flags.Version {
		fmt.Println(version)
		return nil
	}

	cfg, err := config.Load(flags.ProjectRoot)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.ProjectRoot == "" {
		cfg.ProjectRoot = flags.ProjectRoot
	}
	if flags.Verbose {
		cfg.Verbose = true
	}

	logger, err := newLogger(cfg.Verbose, flags.Stdio)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	scanner := project.NewScanner(cfg.ProjectRoot, cfg.ExcludeDirs, logger)

	if flags.Scene != "" {
		return runOneShot(scanner, flags.Scene, flags.Mode)
	}

	svc := mcptools.NewSceneService(scanner, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flags.Stdio {
		logger.Info("serving MCP over stdio", zap.String("projectRoot", cfg.ProjectRoot))
		return mcptools.RunMCPServerStdio(ctx, svc)
	}

	logger.Info("serving MCP over HTTP",
		zap.String("addr", flags.Addr),
		zap.String("projectRoot", cfg.ProjectRoot))
	return mcptools.RunMCPServer(ctx, svc, flags.Addr)
}

// newLogger builds the process logger. Stdio transport owns stdout, so logs
// must go to stderr in that mode.
func newLogger(verbose, stdio bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if stdio {
		config.OutputPaths = []string{"stderr"}
		config.ErrorOutputPaths = []string{"stderr"}
	}
	return config.Build()
}
