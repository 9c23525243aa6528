package content

import (
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Extensions for MIME types the picker commonly sees. Checked before the
// mimetype tree so camera formats map to the names galleries use.
var commonExtensions = map[string]string{
	"image/jpeg":      "jpg",
	"image/jpg":       "jpg",
	"image/png":       "png",
	"image/gif":       "gif",
	"image/webp":      "webp",
	"image/heic":      "heic",
	"image/heif":      "heif",
	"image/bmp":       "bmp",
	"image/tiff":      "tiff",
	"video/mp4":       "mp4",
	"video/quicktime": "mov",
}

// ExtensionFromMimeType returns the registered extension (without dot) for a
// MIME type, or "" when the type is unknown.
func ExtensionFromMimeType(mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if mimeType == "" {
		return ""
	}
	if base, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = base
	}

	if ext, ok := commonExtensions[mimeType]; ok {
		return ext
	}

	if m := mimetype.Lookup(mimeType); m != nil && m.Extension() != "" {
		return strings.TrimPrefix(m.Extension(), ".")
	}

	// Fall back to the standard library
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return strings.TrimPrefix(exts[0], ".")
	}

	return ""
}

// ExtensionFromURL returns the extension (without dot) of the locator's final
// path segment. The decoded segment is percent-encoded again, keeping only
// unreserved characters, and must then consist of [A-Za-z0-9_.()%-].
// Otherwise the result is "".
func ExtensionFromURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	p := u.Path
	if p == "" && u.Opaque != "" {
		if unescaped, err := url.PathUnescape(u.Opaque); err == nil {
			p = unescaped
		}
	}
	if p == "" {
		return ""
	}

	name := encodeSegment(path.Base(path.Clean(p)))
	if name == "" || name == "." || name == "/" || !validFileName(name) {
		return ""
	}

	ext := path.Ext(name)
	return strings.TrimPrefix(ext, ".")
}

const upperhex = "0123456789ABCDEF"

// encodeSegment percent-encodes every byte outside the URI unreserved set
// plus !'()*
func encodeSegment(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte("_-!.~'()*", c) != -1
}

func validFileName(name string) bool {
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '_', c == '.', c == '(', c == ')', c == '%', c == '-':
		default:
			return false
		}
	}
	return true
}
