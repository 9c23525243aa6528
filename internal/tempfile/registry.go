// internal/tempfile/registry.go
package tempfile

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/bstardust/mediapick/internal/logger"
)

// Registry tracks files that should be removed when the process exits
type Registry struct {
	mu    sync.Mutex
	paths map[string]struct{}
	order []string
}

// Default is the process-wide registry purged by the CLI on exit
var Default = NewRegistry()

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{paths: make(map[string]struct{})}
}

// Register marks path for removal on Purge
func (r *Registry) Register(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.paths[path]; ok {
		return
	}
	r.paths[path] = struct{}{}
	r.order = append(r.order, path)
}

// Forget stops tracking path, e.g. once the caller has taken it over
func (r *Registry) Forget(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.paths[path]; !ok {
		return
	}
	delete(r.paths, path)
	for i, p := range r.order {
		if p == path {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of tracked files
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// Purge removes every registered file, newest first. Files that are already
// gone are not errors.
func (r *Registry) Purge() []error {
	r.mu.Lock()
	paths := r.order
	r.order = nil
	r.paths = make(map[string]struct{})
	r.mu.Unlock()

	var errs []error
	for i := len(paths) - 1; i >= 0; i-- {
		if err := os.Remove(paths[i]); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("failed to remove %s: %w", paths[i], err))
			continue
		}
		logger.Debug("Removed temporary file %s", paths[i])
	}
	return errs
}
