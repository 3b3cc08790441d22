package rewriter

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// mergeDirs moves every child of src into dst, then removes the drained
// source directories. File conflicts resolve with the "-N" suffix;
// directory conflicts queue a nested merge. The worklist is an explicit
// stack so arbitrarily deep trees do not grow the call stack.
func (r *Rewriter) mergeDirs(src, dst string) error {
	type pair struct {
		src, dst string
	}

	stack := []pair{{src: src, dst: dst}}
	var drained []string

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		drained = append(drained, p.src)

		entries, err := os.ReadDir(p.src)
		if err != nil {
			return err
		}

		for _, entry := range entries {
			from := filepath.Join(p.src, entry.Name())
			to := filepath.Join(p.dst, entry.Name())

			targetInfo, statErr := os.Lstat(to)
			switch {
			case errors.Is(statErr, fs.ErrNotExist):
				if err := r.validator.SafeRename(from, to); err != nil {
					return err
				}
			case statErr != nil:
				return statErr
			case entry.IsDir() && targetInfo.IsDir():
				stack = append(stack, pair{src: from, dst: to})
			default:
				if err := r.validator.SafeRename(from, freeTarget(to)); err != nil {
					return err
				}
			}
		}
	}

	// Sources were recorded parents-first; remove deepest-first so each
	// directory is empty by the time it goes.
	for i := len(drained) - 1; i >= 0; i-- {
		if err := r.validator.SafeRemoveDir(drained[i]); err != nil {
			return err
		}
	}

	return nil
}
