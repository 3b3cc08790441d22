// Package rewriter applies name cleaning across a directory tree. It
// walks bottom-up so every child is fully processed before its parent is
// renamed, resolves target collisions by suffixing, and merges
// directories whose cleaned names coincide. Per-entry failures are
// recorded and logged; only precondition violations abort a run.
//
// A Rewriter assumes exclusive access to the tree for the duration of a
// run. No lock is taken; that is the caller's responsibility.
package rewriter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hysticali/unifile/pkg/cleaner"
	"github.com/hysticali/unifile/pkg/logsink"
	"github.com/hysticali/unifile/pkg/safepath"
	"github.com/hysticali/unifile/pkg/walker"
)

var (
	// ErrEmptyRoot is returned when the root path is empty.
	ErrEmptyRoot = errors.New("root directory cannot be empty")
	// ErrRootNotExist is returned when the root path does not exist.
	ErrRootNotExist = errors.New("root directory does not exist")
	// ErrNotDirectory is returned when the root path is not a directory.
	ErrNotDirectory = errors.New("root path is not a directory")
)

// State is the terminal state of a processed entry.
type State int

const (
	// StatePlanned marks a dry-run entry whose rename was logged only.
	StatePlanned State = iota
	// StateRenamed marks an entry renamed to its cleaned (possibly
	// suffixed) name.
	StateRenamed
	// StateMerged marks a directory merged into an existing target.
	StateMerged
	// StateFailed marks an entry whose rename or merge failed.
	StateFailed
)

// Operation records one entry whose name changed, or was planned or
// attempted to change.
type Operation struct {
	OldPath string
	NewPath string
	IsDir   bool
	State   State
	Err     error
}

// Result summarizes a run.
type Result struct {
	Operations []Operation
	Renamed    int
	Merged     int
	Planned    int
	Unchanged  int
	Failed     int
}

// Options configures a Rewriter.
type Options struct {
	// Mode is the cleaning policy. Defaults to preserve.
	Mode cleaner.Mode
	// DryRun logs intended actions without mutating the filesystem.
	DryRun bool
	// Log receives one line per changed entry and per failure. Required.
	Log *logsink.Sink
	// SkipNames lists entry names to leave untouched, e.g. the active
	// log file.
	SkipNames []string
}

// Rewriter renames the entries of a directory tree to their cleaned names.
type Rewriter struct {
	root      string
	mode      cleaner.Mode
	dryRun    bool
	log       *logsink.Sink
	walker    *walker.Walker
	validator *safepath.Validator
}

// New validates the root and builds a Rewriter. The root must be an
// existing, readable directory; violations are reported here, before any
// traversal starts.
func New(root string, opts Options) (*Rewriter, error) {
	if root == "" {
		return nil, ErrEmptyRoot
	}
	if opts.Log == nil {
		return nil, errors.New("a log sink is required")
	}

	mode := opts.Mode
	if mode == "" {
		mode = cleaner.ModePreserve
	}
	if _, err := cleaner.ParseMode(string(mode)); err != nil {
		return nil, err
	}

	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotExist, root)
		}
		return nil, fmt.Errorf("cannot access root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	// Probe readability up front so a permission problem aborts the run
	// instead of surfacing as per-entry noise.
	if _, err := os.ReadDir(root); err != nil {
		return nil, fmt.Errorf("root directory is not readable: %w", err)
	}

	validator, err := safepath.New(root)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	return &Rewriter{
		root:      validator.Root(),
		mode:      mode,
		dryRun:    opts.DryRun,
		log:       opts.Log,
		walker:    walker.New(walker.Options{SkipNames: opts.SkipNames}),
		validator: validator,
	}, nil
}

// Root returns the absolute root directory being processed.
func (r *Rewriter) Root() string {
	return r.root
}

// DryRun reports whether the rewriter is in dry-run mode.
func (r *Rewriter) DryRun() bool {
	return r.dryRun
}

// Run processes the whole tree. It renames files before subdirectories
// within each directory, and visits directories deepest-first, so a
// renamed parent can never invalidate the path of a not-yet-visited
// child. Errors after traversal starts are absorbed into the result and
// the log.
func (r *Rewriter) Run() (Result, error) {
	dirs, err := r.walker.DirsBottomUp(r.root)
	if err != nil {
		return Result{}, fmt.Errorf("cannot walk root directory: %w", err)
	}

	var result Result
	for _, dir := range dirs {
		entries, err := r.walker.ListEntries(dir)
		if err != nil {
			r.log.Error("Error listing directory %s: %v", dir, err)
			result.Failed++
			continue
		}

		for _, entry := range entries {
			r.processEntry(entry, &result)
		}
	}

	return result, nil
}

// processEntry cleans one entry's name and applies the change, updating
// result counters and the operation log.
func (r *Rewriter) processEntry(entry walker.Entry, result *Result) {
	cleaned, err := cleaner.Clean(entry.Name, r.mode)
	if err != nil {
		// Mode is validated in New; reaching this means a programming
		// error, but it is still isolated to the entry.
		r.recordFailure(result, entry, entry.Path, err)
		return
	}

	if cleaned == entry.Name {
		result.Unchanged++
		return
	}

	if cleaned == "" || cleaned == "." || cleaned == ".." {
		r.recordFailure(result, entry, entry.Path,
			fmt.Errorf("cleaned name %q is not usable", cleaned))
		return
	}

	newPath := filepath.Join(filepath.Dir(entry.Path), cleaned)
	op := Operation{OldPath: entry.Path, NewPath: newPath, IsDir: entry.IsDir}

	if r.dryRun {
		r.log.Info("Would rename %s: %s -> %s", entryKind(entry.IsDir), entry.Path, newPath)
		op.State = StatePlanned
		result.Planned++
		result.Operations = append(result.Operations, op)
		return
	}

	if entry.IsDir {
		op = r.renameOrMergeDir(op)
	} else {
		op = r.renameFile(op)
	}

	switch op.State {
	case StateRenamed:
		result.Renamed++
	case StateMerged:
		result.Merged++
	case StateFailed:
		result.Failed++
	}
	result.Operations = append(result.Operations, op)
}

// renameFile moves a file to its cleaned name. An occupied target is
// never overwritten; the smallest free "-N" suffix is used instead.
func (r *Rewriter) renameFile(op Operation) Operation {
	if pathExists(op.NewPath) {
		op.NewPath = freeTarget(op.NewPath)
	}

	if err := r.validator.SafeRename(op.OldPath, op.NewPath); err != nil {
		op.State = StateFailed
		op.Err = err
		r.log.Error("Error renaming file %s: %v", op.OldPath, err)
		return op
	}

	op.State = StateRenamed
	r.log.Info("Renamed file: %s -> %s", op.OldPath, op.NewPath)
	return op
}

// renameOrMergeDir moves a directory to its cleaned name. When another
// directory already occupies the target, the two are merged; when a file
// occupies it, the directory falls back to a suffixed name.
func (r *Rewriter) renameOrMergeDir(op Operation) Operation {
	info, err := os.Lstat(op.NewPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if renameErr := r.validator.SafeRename(op.OldPath, op.NewPath); renameErr != nil {
			op.State = StateFailed
			op.Err = renameErr
			r.log.Error("Error renaming directory %s: %v", op.OldPath, renameErr)
			return op
		}
		op.State = StateRenamed
		r.log.Info("Renamed directory: %s -> %s", op.OldPath, op.NewPath)
		return op

	case err != nil:
		op.State = StateFailed
		op.Err = err
		r.log.Error("Error renaming directory %s: %v", op.OldPath, err)
		return op

	case info.IsDir():
		if mergeErr := r.mergeDirs(op.OldPath, op.NewPath); mergeErr != nil {
			op.State = StateFailed
			op.Err = mergeErr
			r.log.Error("Error merging directory %s: %v", op.OldPath, mergeErr)
			return op
		}
		op.State = StateMerged
		r.log.Info("Merged directory: %s -> %s", op.OldPath, op.NewPath)
		return op

	default:
		// Target occupied by a non-directory: suffix like a file.
		op.NewPath = freeTarget(op.NewPath)
		if renameErr := r.validator.SafeRename(op.OldPath, op.NewPath); renameErr != nil {
			op.State = StateFailed
			op.Err = renameErr
			r.log.Error("Error renaming directory %s: %v", op.OldPath, renameErr)
			return op
		}
		op.State = StateRenamed
		r.log.Info("Renamed directory: %s -> %s", op.OldPath, op.NewPath)
		return op
	}
}

func (r *Rewriter) recordFailure(result *Result, entry walker.Entry, newPath string, err error) {
	r.log.Error("Error processing %s %s: %v", entryKind(entry.IsDir), entry.Path, err)
	result.Failed++
	result.Operations = append(result.Operations, Operation{
		OldPath: entry.Path,
		NewPath: newPath,
		IsDir:   entry.IsDir,
		State:   StateFailed,
		Err:     err,
	})
}

func entryKind(isDir bool) string {
	if isDir {
		return "directory"
	}
	return "file"
}

// freeTarget probes "base-N.ext" for the smallest positive N whose path
// is free.
func freeTarget(path string) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for n := 1; ; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, n, ext))
		if !pathExists(candidate) {
			return candidate
		}
	}
}

// pathExists reports whether path names an existing entry, without
// following a symlink at the final component.
func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
