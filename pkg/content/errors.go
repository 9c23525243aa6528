package content

import (
	"errors"
	"os"
	"strings"

	"github.com/minio/minio-go/v7"
)

// Common errors
var (
	ErrNotFound          = errors.New("content not found")
	ErrUnsupportedScheme = errors.New("unsupported locator scheme")
	ErrNilStream         = errors.New("resolver returned no stream")
	ErrNoDisplayName     = errors.New("no display name")
)

// IsNotFoundError checks if an error means the referenced content does not exist
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return true
	}

	// Check MinIO error
	var minioErr minio.ErrorResponse
	if errors.As(err, &minioErr) {
		switch minioErr.Code {
		case "NoSuchBucket", "NoSuchKey", "NotFound":
			return true
		}
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "not found") || strings.Contains(errStr, "no such")
}
