// internal/exif/exiftool.go
package exif

import (
	"fmt"
	"strings"

	"github.com/barasher/go-exiftool"
)

// ExifTool names for attributes whose platform name differs
var exiftoolNames = map[string]string{
	"ISOSpeedRatings": "ISO",
	"DateTime":        "ModifyDate",
}

func exiftoolTag(name string) string {
	if t, ok := exiftoolNames[name]; ok {
		return t
	}
	return name
}

// ExiftoolStore reads and writes attributes through a long-running exiftool process
type ExiftoolStore struct {
	et *exiftool.Exiftool
}

// NewExiftoolStore starts exiftool. binaryPath may be empty to use the one on PATH.
func NewExiftoolStore(binaryPath string) (*ExiftoolStore, error) {
	var opts []func(*exiftool.Exiftool) error
	if binaryPath != "" {
		opts = append(opts, exiftool.SetExiftoolBinaryPath(binaryPath))
	}

	et, err := exiftool.NewExiftool(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to start exiftool: %w", err)
	}
	return &ExiftoolStore{et: et}, nil
}

// Close stops the exiftool process
func (s *ExiftoolStore) Close() error {
	return s.et.Close()
}

// Open extracts the current metadata of path
func (s *ExiftoolStore) Open(path string) (Attributes, error) {
	fms := s.et.ExtractMetadata(path)
	if len(fms) == 0 {
		return nil, fmt.Errorf("exiftool returned no metadata for %s", path)
	}
	if fms[0].Err != nil {
		return nil, fms[0].Err
	}

	return &exiftoolAttributes{
		et:      s.et,
		path:    path,
		current: fms[0],
		pending: make(map[string]interface{}),
	}, nil
}

type exiftoolAttributes struct {
	et      *exiftool.Exiftool
	path    string
	current exiftool.FileMetadata
	pending map[string]interface{}
}

func (a *exiftoolAttributes) Get(name string) (string, bool) {
	tag := exiftoolTag(name)
	if v, ok := a.pending[tag]; ok {
		return fmt.Sprint(v), true
	}
	v, err := a.current.GetString(tag)
	if err != nil {
		return "", false
	}
	return v, true
}

// exiftool reads its arguments one per line, so a line break inside a value
// would start a new argument. Breaks are folded to single spaces.
var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

func (a *exiftoolAttributes) Set(name, value string) {
	if strings.ContainsAny(value, "\r\n") {
		log.Warn("Folding line breaks in %s for %s", name, a.path)
		value = lineBreaks.Replace(value)
	}
	a.pending[exiftoolTag(name)] = value
}

// Save writes only the pending changes. Extracted fields such as FileName
// are never written back.
func (a *exiftoolAttributes) Save() error {
	if len(a.pending) == 0 {
		return nil
	}

	batch := []exiftool.FileMetadata{{File: a.path, Fields: a.pending}}
	a.et.WriteMetadata(batch)
	if batch[0].Err != nil {
		return fmt.Errorf("exiftool write failed: %w", batch[0].Err)
	}

	for k, v := range a.pending {
		if a.current.Fields == nil {
			a.current.Fields = make(map[string]interface{})
		}
		a.current.Fields[k] = v
	}
	a.pending = make(map[string]interface{})
	return nil
}
