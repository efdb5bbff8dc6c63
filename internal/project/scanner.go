// Package project owns the filesystem side the scene core deliberately
// excludes: discovering scene files under a Godot project root, reading their
// text, and summarizing them. The core never performs I/O; this package feeds
// it.
package project

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pierrealexandreguillemin-a11y/godot-mcp-unified-sub001/internal/scenetree"
	"github.com/pierrealexandreguillemin-a11y/godot-mcp-unified-sub001/internal/tscn"
)

// scanConcurrency bounds how many scene files are parsed at once during a
// full-project scan.
const scanConcurrency = 8

// SceneFile is filesystem metadata for one discovered scene. Listing never
// parses; size and mtime come straight from the directory walk.
type SceneFile struct {
	Path    string    `json:"path"` // relative to the project root, slash-separated
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modTime"`
}

// SceneSummary is the per-scene result of a full-project scan. A scene that
// fails to parse carries its error here; it never fails the whole scan.
type SceneSummary struct {
	Path      string `json:"path"`
	NodeCount int    `json:"nodeCount,omitempty"`
	RootName  string `json:"rootName,omitempty"`
	RootType  string `json:"rootType,omitempty"`
	UID       string `json:"uid,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Scanner discovers and loads scenes under one Godot project root.
type Scanner struct {
	root        string
	excludeDirs map[string]bool
	logger      *zap.Logger
}

// NewScanner creates a Scanner rooted at root. The .godot import cache and
// .git are always excluded; excludeDirs adds to that set. A nil logger is
// replaced by a no-op one.
func NewScanner(root string, excludeDirs []string, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	excluded := map[string]bool{".godot": true, ".git": true, ".import": true}
	for _, d := range excludeDirs {
		excluded[d] = true
	}
	return &Scanner{root: root, excludeDirs: excluded, logger: logger}
}

// Root returns the project root the scanner was created with.
func (s *Scanner) Root() string {
	return s.root
}

// ListScenes walks the project tree for .tscn/.scn files and returns their
// metadata sorted by path. It reads no file contents.
func (s *Scanner) ListScenes(ctx context.Context) ([]SceneFile, error) {
	var scenes []SceneFile

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if s.excludeDirs[d.Name()] && path != s.root {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".tscn" && ext != ".scn" {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			rel = path
		}
		scenes = append(scenes, SceneFile{
			Path:    filepath.ToSlash(rel),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", s.root, err)
	}

	sort.Slice(scenes, func(i, j int) bool { return scenes[i].Path < scenes[j].Path })
	return scenes, nil
}

// LoadScene reads and parses one scene file. relPath is relative to the
// project root. The file is re-read on every call; results are never cached,
// since the file may change between reads.
func (s *Scanner) LoadScene(relPath string) (*tscn.SceneDocument, error) {
	abs := filepath.Join(s.root, filepath.FromSlash(relPath))
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read scene %s: %w", relPath, err)
	}
	doc, err := tscn.Parse(string(data))
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ScanScenes parses every discovered scene concurrently and returns one
// summary per scene, ordered by path. Parse failures are carried per-scene.
func (s *Scanner) ScanScenes(ctx context.Context) ([]SceneSummary, error) {
	scenes, err := s.ListScenes(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]SceneSummary, len(scenes))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(scanConcurrency)

	for i, sf := range scenes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			summaries[i] = s.summarize(sf.Path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summaries, nil
}

func (s *Scanner) summarize(relPath string) SceneSummary {
	summary := SceneSummary{Path: relPath}

	doc, err := s.LoadScene(relPath)
	if err != nil {
		s.logger.Warn("scene failed to parse", zap.String("scene", relPath), zap.Error(err))
		summary.Error = err.Error()
		return summary
	}

	summary.UID = doc.Header.UID
	tree, err := scenetree.Build(doc, scenetree.Unlimited)
	if err != nil {
		summary.Error = err.Error()
		return summary
	}
	if tree != nil {
		summary.NodeCount = scenetree.Count(tree)
		summary.RootName = tree.Name
		summary.RootType = tree.Type
	}
	return summary
}

// Info is project-level metadata read from project.godot.
type Info struct {
	Name          string   `json:"name,omitempty"`
	MainScene     string   `json:"mainScene,omitempty"`
	Features      []string `json:"features,omitempty"`
	ConfigVersion int      `json:"configVersion,omitempty"`
}

// ProjectInfo reads project.godot at the root. A missing file yields a
// zero-value Info, not an error, so the tools work in bare scene directories.
func (s *Scanner) ProjectInfo(ctx context.Context) (*Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.root, "project.godot"))
	if err != nil {
		if os.IsNotExist(err) {
			return &Info{}, nil
		}
		return nil, fmt.Errorf("read project.godot: %w", err)
	}

	info := &Info{}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "[") {
			continue
		}
		eq := strings.Index(line, "=")
		if eq <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		raw := strings.TrimSpace(line[eq+1:])

		switch key {
		case "config_version":
			fmt.Sscanf(raw, "%d", &info.ConfigVersion)
		case "config/name":
			if v, err := tscn.ParseValue(raw); err == nil && v.Kind == tscn.KindString {
				info.Name = v.Str
			}
		case "run/main_scene":
			if v, err := tscn.ParseValue(raw); err == nil && v.Kind == tscn.KindString {
				info.MainScene = v.Str
			}
		case "config/features":
			v, err := tscn.ParseValue(raw)
			if err != nil || v.Kind != tscn.KindConstructor {
				continue
			}
			for _, arg := range v.Items {
				if arg.Kind == tscn.KindString {
					info.Features = append(info.Features, arg.Str)
				}
			}
		}
	}
	return info, nil
}
