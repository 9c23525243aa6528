// internal/exif/store.go
package exif

import "errors"

// ErrReadOnly is returned when writing through a store that cannot write
var ErrReadOnly = errors.New("exif store is read-only")

// Attributes is an open handle on one file's metadata. Set changes are held
// until Save commits them in a single write.
type Attributes interface {
	// Get returns the value of name and whether it is present
	Get(name string) (string, bool)
	Set(name, value string)
	Save() error
}

// Store opens metadata handles by file path
type Store interface {
	Open(path string) (Attributes, error)
}
