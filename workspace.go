package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// errOutputExists is returned when the output directory already exists and
// -output-overwrite was not given.
var errOutputExists = errors.New("output directory already exists")

// prepareWorkspace establishes the output directory and rebases the input
// path to be relative to it. When the directory already exists, it is either
// replaced wholesale (overwrite) or the run is aborted before any media work
// begins. Every downstream step resolves its paths against opts.output; the
// process working directory is never changed.
func prepareWorkspace(opts *runOptions) error {
	err := os.Mkdir(opts.output, 0o755)
	if errors.Is(err, fs.ErrExist) {
		if !opts.outputOverwrite {
			return fmt.Errorf("%w: %s", errOutputExists, opts.output)
		}
		// no partial output from a previous run may survive
		if err := os.RemoveAll(opts.output); err != nil {
			return fmt.Errorf("remove previous output directory: %w", err)
		}
		err = os.Mkdir(opts.output, 0o755)
	}
	if err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	rel, err := filepath.Rel(opts.output, opts.input)
	if err != nil {
		return fmt.Errorf("rebase input path: %w", err)
	}
	opts.input = rel
	return nil
}
