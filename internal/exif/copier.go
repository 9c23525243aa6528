// internal/exif/copier.go
package exif

import (
	"fmt"

	"github.com/bstardust/mediapick/internal/logger"
)

var log = logger.WithTag("ExifDataCopier")

// Copier carries the preserved attributes from an original image to a
// derivative of it. Source and destination may use different stores.
type Copier struct {
	source      Store
	destination Store
}

// NewCopier creates a copier reading from source and writing through destination
func NewCopier(source, destination Store) *Copier {
	return &Copier{
		source:      source,
		destination: destination,
	}
}

// CopyExif copies every attribute in Tags that srcPath has onto dstPath.
// Errors are logged; the destination may be left with a partial copy.
func (c *Copier) CopyExif(srcPath, dstPath string) {
	n, err := c.Copy(srcPath, dstPath)
	if err != nil {
		log.Error("Error preserving Exif data on selected image: %v", err)
		return
	}
	log.Debug("Preserved %d Exif attributes from %s on %s", n, srcPath, dstPath)
}

// Copy is CopyExif with the error and the number of copied attributes returned
func (c *Copier) Copy(srcPath, dstPath string) (int, error) {
	src, err := c.source.Open(srcPath)
	if err != nil {
		return 0, fmt.Errorf("failed to read attributes of %s: %w", srcPath, err)
	}
	dst, err := c.destination.Open(dstPath)
	if err != nil {
		return 0, fmt.Errorf("failed to read attributes of %s: %w", dstPath, err)
	}

	copied := 0
	for _, tag := range Tags {
		if setIfPresent(src, dst, tag) {
			copied++
		}
	}

	if err := dst.Save(); err != nil {
		return copied, fmt.Errorf("failed to save attributes of %s: %w", dstPath, err)
	}
	return copied, nil
}

func setIfPresent(src, dst Attributes, tag string) bool {
	v, ok := src.Get(tag)
	if !ok {
		return false
	}
	dst.Set(tag, v)
	return true
}

// SetImageDescription writes description into path through the destination store
func (c *Copier) SetImageDescription(path, description string) {
	SetImageDescription(c.destination, path, description)
}

// SetImageDescription sets the ImageDescription attribute and saves at once.
// Errors are logged, never returned.
func SetImageDescription(store Store, path, description string) {
	if err := WriteImageDescription(store, path, description); err != nil {
		log.Error("Error setImageDescription: %v", err)
	}
}

// WriteImageDescription is SetImageDescription with the error returned
func WriteImageDescription(store Store, path, description string) error {
	attrs, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("failed to read attributes of %s: %w", path, err)
	}
	attrs.Set(TagImageDescription, description)
	if err := attrs.Save(); err != nil {
		return fmt.Errorf("failed to save attributes of %s: %w", path, err)
	}
	return nil
}
