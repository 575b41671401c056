package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"

	"github.com/averycrespi/cartographer-mcp/pkg/types"
)

// Manifest file names recognized as workspace roots, in priority order
var manifestNames = []string{"go.work", "go.mod"}

// discoverManifest walks up from start to the filesystem root, looking for
// the nearest manifest file
func discoverManifest(start string) (types.Manifest, error) {
	info, err := os.Stat(start)
	if err != nil {
		return types.Manifest{}, fmt.Errorf("failed to stat %s: %w", start, types.ErrManifestNotFound)
	}

	dir := start
	if !info.IsDir() {
		dir = filepath.Dir(start)
	}

	for {
		for _, name := range manifestNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return parseManifest(path, dir)
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return types.Manifest{}, fmt.Errorf("no go.work or go.mod above %s: %w", start, types.ErrManifestNotFound)
		}
		dir = parent
	}
}

// parseManifest extracts the module path from a go.mod manifest. A go.work
// manifest carries no module path of its own.
func parseManifest(path, dir string) (types.Manifest, error) {
	manifest := types.Manifest{Path: path, Dir: dir}

	if filepath.Base(path) != "go.mod" {
		return manifest, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return types.Manifest{}, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	file, err := modfile.ParseLax(path, data, nil)
	if err != nil {
		return types.Manifest{}, fmt.Errorf("unparsable manifest %s (%v): %w", path, err, types.ErrManifestNotFound)
	}
	if file.Module != nil {
		manifest.Module = file.Module.Mod.Path
	}

	return manifest, nil
}
