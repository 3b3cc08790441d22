// Package walker enumerates directory trees for bottom-up processing.
package walker

import (
	"io/fs"
	"os"
	"path/filepath"
)

// Entry describes one directory entry at the time it was listed.
type Entry struct {
	Path  string // full path to the entry
	Name  string // base name
	IsDir bool
}

// Options configures the walker behavior.
type Options struct {
	// SkipNames is a list of entry names to leave untouched, for example
	// the active log file or platform litter like .DS_Store.
	SkipNames []string
}

// Walker lists directory trees, honoring a skip list.
type Walker struct {
	skip map[string]bool
}

// New creates a Walker with the given options.
func New(opts Options) *Walker {
	w := &Walker{skip: make(map[string]bool)}
	for _, name := range opts.SkipNames {
		w.skip[name] = true
	}
	return w
}

// DirsBottomUp returns root and every directory beneath it, deepest
// first, so children can be fully processed before their parent is
// touched. A failure reading root is returned; failures deeper in the
// tree are skipped and surface later when the caller lists that
// directory itself.
func (w *Walker) DirsBottomUp(root string) ([]string, error) {
	var dirs []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.skip[d.Name()] {
			return fs.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// WalkDir visits parents before children; reversing the preorder
	// yields every directory after all of its descendants.
	for i, j := 0, len(dirs)-1; i < j; i, j = i+1, j-1 {
		dirs[i], dirs[j] = dirs[j], dirs[i]
	}

	return dirs, nil
}

// ListEntries returns the entries of a single directory, files before
// subdirectories, skipping names on the skip list.
func (w *Walker) ListEntries(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, e := range dirEntries {
		if e.IsDir() || w.skip[e.Name()] {
			continue
		}
		entries = append(entries, Entry{
			Path: filepath.Join(dir, e.Name()),
			Name: e.Name(),
		})
	}
	for _, e := range dirEntries {
		if !e.IsDir() || w.skip[e.Name()] {
			continue
		}
		entries = append(entries, Entry{
			Path:  filepath.Join(dir, e.Name()),
			Name:  e.Name(),
			IsDir: true,
		})
	}

	return entries, nil
}
