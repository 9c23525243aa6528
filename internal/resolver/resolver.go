// internal/resolver/resolver.go
package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/bstardust/mediapick/internal/logger"
	"github.com/bstardust/mediapick/internal/tempfile"
	"github.com/bstardust/mediapick/pkg/content"
)

const (
	// DefaultExtension is used when neither the MIME type nor the path names one
	DefaultExtension = "jpg"

	// NameMarker separates the original name from the unique suffix
	NameMarker = "_image_picker_"

	bufferSize = 4 * 1024
)

var log = logger.WithTag("PathResolver")

// tempFile is the write side of a materialized copy
type tempFile interface {
	io.WriteCloser
	Name() string
}

func createTemp(dir, pattern string) (tempFile, error) {
	return os.CreateTemp(dir, pattern)
}

// Resolver copies content references into uniquely named files in a cache
// directory so callers get a plain local path.
type Resolver struct {
	content    content.Resolver
	cacheDir   string
	registry   *tempfile.Registry
	createTemp func(dir, pattern string) (tempFile, error)
}

// New creates a resolver writing into cacheDir. An empty cacheDir means the
// OS temp directory; a nil registry means tempfile.Default.
func New(c content.Resolver, cacheDir string, registry *tempfile.Registry) *Resolver {
	if cacheDir == "" {
		cacheDir = os.TempDir()
	}
	if registry == nil {
		registry = tempfile.Default
	}
	return &Resolver{
		content:    c,
		cacheDir:   cacheDir,
		registry:   registry,
		createTemp: createTemp,
	}
}

// CacheDir returns the directory temporary copies are written to
func (r *Resolver) CacheDir() string {
	return r.cacheDir
}

// PathFromURI returns the path of a local copy of u, or false if the copy
// could not be made. Failures are logged, never returned.
func (r *Resolver) PathFromURI(ctx context.Context, u *url.URL) (string, bool) {
	path, err := r.Materialize(ctx, u)
	if err != nil {
		log.Error("Could not resolve %s: %v", u, err)
		return "", false
	}
	return path, true
}

// Materialize does the work of PathFromURI but keeps the error
func (r *Resolver) Materialize(ctx context.Context, u *url.URL) (string, error) {
	if u == nil {
		return "", fmt.Errorf("nil locator: %w", content.ErrNotFound)
	}

	ext := r.extension(ctx, u)
	name := r.originalName(ctx, u)

	in, err := r.content.OpenStream(ctx, u)
	if err != nil {
		return "", fmt.Errorf("failed to open stream: %w", err)
	}
	if in == nil {
		return "", content.ErrNilStream
	}
	defer func() {
		if cerr := in.Close(); cerr != nil {
			log.Debug("Ignoring close error on input stream of %s: %v", u, cerr)
		}
	}()

	return r.copyToTemp(in, name, ext)
}

// extension returns the file extension for u without the leading dot
func (r *Resolver) extension(ctx context.Context, u *url.URL) string {
	var ext string

	if content.IsContent(u) {
		mimeType, err := r.content.Type(ctx, u)
		if err != nil {
			log.Debug("No MIME type for %s: %v", u, err)
		} else {
			ext = content.ExtensionFromMimeType(mimeType)
		}
	} else {
		ext = content.ExtensionFromURL(u)
	}

	if ext == "" {
		ext = DefaultExtension
	}
	return ext
}

// originalName returns the display name of u, or its last path segment
func (r *Resolver) originalName(ctx context.Context, u *url.URL) string {
	var name string

	if content.IsContent(u) {
		n, err := r.content.DisplayName(ctx, u)
		if err != nil {
			log.Debug("No display name for %s: %v", u, err)
		} else {
			name = n
		}
	}

	if name == "" {
		name = content.LastPathSegment(u)
	}
	return sanitizeName(name)
}

// sanitizeName keeps a display name inside the cache directory
func sanitizeName(name string) string {
	return strings.Map(func(c rune) rune {
		if c == '/' || c == os.PathSeparator || c == 0 {
			return '_'
		}
		return c
	}, name)
}

func (r *Resolver) copyToTemp(in io.Reader, name, ext string) (path string, err error) {
	out, err := r.createTemp(r.cacheDir, name+NameMarker+"*."+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	path = out.Name()
	r.registry.Register(path)

	defer func() {
		// A failed close means the bytes may never have reached the file
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
		if err != nil {
			r.discard(path)
			path = ""
		}
	}()

	n, err := copyBuffered(out, in)
	if err != nil {
		return path, fmt.Errorf("failed to copy into %s: %w", path, err)
	}

	log.Debug("Copied %d bytes into %s", n, path)
	return path, nil
}

func (r *Resolver) discard(path string) {
	r.registry.Forget(path)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("Failed to remove incomplete copy %s: %v", path, err)
	}
}

// copyBuffered copies src to dst through a fixed 4 KiB buffer
func copyBuffered(dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, bufferSize)
	var written int64

	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			w, werr := dst.Write(buf[:n])
			written += int64(w)
			if werr != nil {
				return written, werr
			}
			if w != n {
				return written, io.ErrShortWrite
			}
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}
