// internal/exif/goexif.go
package exif

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// Character-code prefix of UNDEFINED text tags such as GPSProcessingMethod
const asciiCodePrefix = "ASCII\x00\x00\x00"

// GoexifStore reads attributes from JPEG and TIFF files without an external
// process. It cannot write.
type GoexifStore struct{}

// NewGoexifStore creates a read-only store
func NewGoexifStore() *GoexifStore {
	return &GoexifStore{}
}

// Open decodes the EXIF block of path. Files without EXIF open as empty.
func (s *GoexifStore) Open(path string) (Attributes, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if x == nil {
		log.Debug("No EXIF data in %s: %v", path, err)
		return goexifAttributes{}, nil
	}

	attrs := goexifAttributes{}
	for _, name := range Tags {
		tag, err := x.Get(exif.FieldName(name))
		if err != nil {
			continue
		}
		attrs[name] = formatTag(name, tag)
	}
	return attrs, nil
}

type goexifAttributes map[string]string

func (a goexifAttributes) Get(name string) (string, bool) {
	v, ok := a[name]
	return v, ok
}

func (a goexifAttributes) Set(name, value string) {
	log.Warn("Ignoring write of %s: %v", name, ErrReadOnly)
}

func (a goexifAttributes) Save() error {
	return ErrReadOnly
}

// formatTag renders a tag in a form exiftool accepts back on write:
// coordinates as "deg min sec", GPSTimeStamp as "hh:mm:ss", other rationals
// as decimals, multiple values comma separated, text without NULs.
func formatTag(name string, tag *tiff.Tag) string {
	switch tag.Format() {
	case tiff.StringVal:
		if s, err := tag.StringVal(); err == nil {
			return strings.TrimRight(s, "\x00")
		}
	case tiff.RatVal:
		vals := rationals(tag)
		switch name {
		case "GPSLatitude", "GPSLongitude":
			return joinDecimals(vals, " ")
		case "GPSTimeStamp":
			if len(vals) == 3 {
				return formatClock(vals[0], vals[1], vals[2])
			}
		}
		return joinDecimals(vals, ",")
	case tiff.IntVal:
		parts := make([]string, 0, tag.Count)
		for i := 0; i < int(tag.Count); i++ {
			v, err := tag.Int(i)
			if err != nil {
				break
			}
			parts = append(parts, strconv.Itoa(v))
		}
		return strings.Join(parts, ",")
	case tiff.UndefVal:
		s := strings.TrimPrefix(string(tag.Val), asciiCodePrefix)
		return strings.TrimRight(s, "\x00")
	}
	return strings.Trim(tag.String(), `"`)
}

// rationals reads every value of a rational tag. A zero denominator reads as 0.
func rationals(tag *tiff.Tag) []float64 {
	vals := make([]float64, 0, tag.Count)
	for i := 0; i < int(tag.Count); i++ {
		num, den, err := tag.Rat2(i)
		if err != nil {
			break
		}
		if den == 0 {
			vals = append(vals, 0)
			continue
		}
		vals = append(vals, float64(num)/float64(den))
	}
	return vals
}

func joinDecimals(vals []float64, sep string) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, sep)
}

func formatClock(h, m, s float64) string {
	sec := strconv.FormatFloat(s, 'f', -1, 64)
	if s < 10 {
		sec = "0" + sec
	}
	return fmt.Sprintf("%02d:%02d:%s", int(h), int(m), sec)
}
