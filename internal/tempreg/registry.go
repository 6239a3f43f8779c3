package tempreg

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/nativecapsule/nativecapsule/internal/output"
)

// ErrReleased is returned when adding to a registry that was already drained.
var ErrReleased = errors.New("temp registry already released")

// Registry is a scoped set of temporary paths. Paths are appended during a
// run and removed by Release, which drains the set once; later calls are
// no-ops. The zero value is ready to use.
type Registry struct {
	mu       sync.Mutex
	paths    []string
	released bool
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{}
}

// Add records path for removal and returns it. Adding after Release removes
// the path immediately and reports ErrReleased, so nothing outlives the run.
func (r *Registry) Add(path string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		os.RemoveAll(path)
		return path, fmt.Errorf("adding %s: %w", path, ErrReleased)
	}
	output.Debug("Adding temp file", "path", path)
	r.paths = append(r.paths, path)
	return path, nil
}

// TempDir creates a directory under the OS temp root and records it.
func (r *Registry) TempDir(pattern string) (string, error) {
	dir, err := os.MkdirTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("creating temp directory: %w", err)
	}
	return r.Add(dir)
}

// Paths returns a snapshot of the recorded paths in insertion order. The
// list survives Release so callers can audit what a run removed.
func (r *Registry) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.paths))
	copy(out, r.paths)
	return out
}

// Release removes every recorded path. Removal failures are collected and
// returned joined; every path is attempted regardless.
func (r *Registry) Release() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return nil
	}
	r.released = true

	output.Debug("Removing temp files", "count", len(r.paths))
	var errs []error
	for _, p := range r.paths {
		if err := os.RemoveAll(p); err != nil {
			errs = append(errs, fmt.Errorf("removing %s: %w", p, err))
		}
	}
	return errors.Join(errs...)
}
