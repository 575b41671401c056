package engine

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/averycrespi/cartographer-mcp/pkg/types"
)

const fileURIScheme = "file://"

// PathTable maintains the mapping between file identifiers and canonical
// absolute paths. It is seeded during workspace load and extended lazily as
// new files are observed.
type PathTable struct {
	mu     sync.RWMutex
	byID   map[types.FileID]string
	byPath map[string]types.FileID
}

// NewPathTable creates an empty path table
func NewPathTable() *PathTable {
	return &PathTable{
		byID:   make(map[types.FileID]string),
		byPath: make(map[string]types.FileID),
	}
}

// Seed walks root and records every Go source file, returning the number of
// files recorded. Unreadable entries are skipped, not fatal.
func (pt *PathTable) Seed(root string) int {
	count := 0
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".go") {
			pt.record(path)
			count++
		}
		return nil
	})
	return count
}

func (pt *PathTable) record(path string) types.FileID {
	id := types.FileID(fileURIScheme + path)
	pt.mu.Lock()
	pt.byID[id] = path
	pt.byPath[path] = id
	pt.mu.Unlock()
	return id
}

// Path maps a file identifier back to an absolute path
func (pt *PathTable) Path(id types.FileID) (string, error) {
	pt.mu.RLock()
	path, ok := pt.byID[id]
	pt.mu.RUnlock()
	if ok {
		return path, nil
	}

	uri := string(id)
	if !strings.HasPrefix(uri, fileURIScheme) {
		return "", fmt.Errorf("cannot resolve non-file identifier %q: %w", uri, types.ErrFileNotFound)
	}

	path = strings.TrimPrefix(uri, fileURIScheme)
	pt.record(path)
	return path, nil
}

// FileID maps a path to a file identifier. The path must exist on disk;
// missing paths yield ErrFileNotFound.
func (pt *PathTable) FileID(path string) (types.FileID, error) {
	canonical, err := canonicalPath(path)
	if err != nil {
		return "", err
	}

	pt.mu.RLock()
	id, ok := pt.byPath[canonical]
	pt.mu.RUnlock()
	if ok {
		return id, nil
	}

	return pt.record(canonical), nil
}

// canonicalPath normalizes a path to its absolute, symlink-free form
func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to absolutize %s: %w", path, err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", path, types.ErrFileNotFound)
		}
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	return resolved, nil
}
