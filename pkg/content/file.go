package content

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// FileResolver serves file references from the local filesystem
type FileResolver struct{}

// NewFileResolver creates a resolver for file:// locators and bare paths
func NewFileResolver() *FileResolver {
	return &FileResolver{}
}

func filePath(u *url.URL) (string, error) {
	if u == nil {
		return "", fmt.Errorf("nil locator: %w", ErrNotFound)
	}
	p := u.Path
	if p == "" {
		p = u.Opaque
	}
	if p == "" {
		return "", fmt.Errorf("locator %s has no path: %w", u, ErrNotFound)
	}
	return filepath.FromSlash(p), nil
}

// OpenStream opens the referenced file for reading
func (r *FileResolver) OpenStream(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	p, err := filePath(u)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", p, err)
	}
	return f, nil
}

// Type sniffs the MIME type from the file contents
func (r *FileResolver) Type(ctx context.Context, u *url.URL) (string, error) {
	p, err := filePath(u)
	if err != nil {
		return "", err
	}

	m, err := mimetype.DetectFile(p)
	if err != nil {
		return "", fmt.Errorf("failed to detect type of %s: %w", p, err)
	}
	return m.String(), nil
}

// DisplayName returns the base name of the referenced file
func (r *FileResolver) DisplayName(ctx context.Context, u *url.URL) (string, error) {
	p, err := filePath(u)
	if err != nil {
		return "", err
	}

	name := filepath.Base(p)
	if name == "." || name == string(filepath.Separator) {
		return "", ErrNoDisplayName
	}
	return name, nil
}
