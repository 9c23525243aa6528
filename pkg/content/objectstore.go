package content

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/bstardust/mediapick/internal/logger"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DisplayNameKey is the user-metadata key holding an object's display name
const DisplayNameKey = "Display-Name"

// StoreConfig represents the connection settings of the managed content store
type StoreConfig struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// objectReader is the part of the object store the resolver needs
type objectReader interface {
	Stat(ctx context.Context, bucket, key string) (minio.ObjectInfo, error)
	Open(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

type minioObjects struct {
	client *minio.Client
}

func (m minioObjects) Stat(ctx context.Context, bucket, key string) (minio.ObjectInfo, error) {
	return m.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
}

func (m minioObjects) Open(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := m.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	// GetObject is lazy; Stat surfaces missing keys before the caller creates files
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, err
	}
	return obj, nil
}

// ObjectStoreResolver serves content:// references from an S3-compatible store.
// content://<bucket>/<key> names the bucket explicitly; content:///<key> uses
// the configured default bucket.
type ObjectStoreResolver struct {
	objects       objectReader
	defaultBucket string
}

// NewObjectStoreResolver connects to the store and checks the default bucket exists
func NewObjectStoreResolver(ctx context.Context, cfg StoreConfig) (*ObjectStoreResolver, error) {
	// Validate configuration
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("content store endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("content store bucket name is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("content store access key and secret key are required")
	}

	// Remove protocol prefix if present
	endpoint := cfg.Endpoint
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       cfg.UseSSL,
		Region:       cfg.Region,
		BucketLookup: minio.BucketLookupAuto,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create content store client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist: %w", cfg.Bucket, ErrNotFound)
	}

	logger.Info("Connected to content store %s, bucket %s", endpoint, cfg.Bucket)

	return &ObjectStoreResolver{
		objects:       minioObjects{client: client},
		defaultBucket: cfg.Bucket,
	}, nil
}

func (r *ObjectStoreResolver) location(u *url.URL) (string, string, error) {
	if u == nil {
		return "", "", fmt.Errorf("nil locator: %w", ErrNotFound)
	}

	bucket := u.Host
	if bucket == "" {
		bucket = r.defaultBucket
	}
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("locator %s does not name an object: %w", u, ErrNotFound)
	}
	return bucket, key, nil
}

// OpenStream opens the referenced object for reading
func (r *ObjectStoreResolver) OpenStream(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	bucket, key, err := r.location(u)
	if err != nil {
		return nil, err
	}

	rc, err := r.objects.Open(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("failed to open object %s/%s: %w", bucket, key, err)
	}
	return rc, nil
}

// Type returns the Content-Type recorded for the object
func (r *ObjectStoreResolver) Type(ctx context.Context, u *url.URL) (string, error) {
	bucket, key, err := r.location(u)
	if err != nil {
		return "", err
	}

	info, err := r.objects.Stat(ctx, bucket, key)
	if err != nil {
		return "", fmt.Errorf("failed to stat object %s/%s: %w", bucket, key, err)
	}
	return info.ContentType, nil
}

// DisplayName returns the Display-Name user metadata of the object
func (r *ObjectStoreResolver) DisplayName(ctx context.Context, u *url.URL) (string, error) {
	bucket, key, err := r.location(u)
	if err != nil {
		return "", err
	}

	info, err := r.objects.Stat(ctx, bucket, key)
	if err != nil {
		return "", fmt.Errorf("failed to stat object %s/%s: %w", bucket, key, err)
	}

	for k, v := range info.UserMetadata {
		k = strings.TrimPrefix(strings.ToLower(k), "x-amz-meta-")
		if k == strings.ToLower(DisplayNameKey) && v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("object %s/%s: %w", bucket, key, ErrNoDisplayName)
}
