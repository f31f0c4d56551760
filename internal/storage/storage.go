package storage

import (
	"context"
	"time"
)

// DefaultPresignedURLExpiry bounds how long a generated media URL stays
// usable.
const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage is the object-storage surface used for exercise demo media.
// Clients upload and download directly against presigned URLs; the server
// never proxies media bytes.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary PUT URL for objectKey.
	// The uploader must send the same Content-Type the URL was signed with.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary GET URL for objectKey.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes objectKey from the bucket.
	DeleteObject(ctx context.Context, objectKey string) error
}
