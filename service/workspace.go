package service

import (
	"fmt"
	"os"
	"path/filepath"
)

// Workspace holds the on-disk stores the pipeline works against:
// persistent templates, canonical record output, and debug artifacts
// (page rasters, per-field crops, overlays). Passed into constructors
// explicitly; there is no process-wide folder state.
type Workspace struct {
	Root         string
	TemplatesDir string
	OutputDir    string
	DebugDir     string
	CropsDir     string
}

// NewWorkspace creates the workspace directory tree under root.
func NewWorkspace(root string) (*Workspace, error) {
	ws := &Workspace{
		Root:         root,
		TemplatesDir: filepath.Join(root, "templates"),
		OutputDir:    filepath.Join(root, "output"),
		DebugDir:     filepath.Join(root, "debug_text"),
		CropsDir:     filepath.Join(root, "debug_text", "crops"),
	}

	for _, dir := range []string{ws.TemplatesDir, ws.OutputDir, ws.DebugDir, ws.CropsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create workspace dir %s: %w", dir, err)
		}
	}
	return ws, nil
}
