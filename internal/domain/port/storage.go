package port

import "context"

// ClipStorage publishes rendered clip files to object storage and returns
// the stored object key.
type ClipStorage interface {
	UploadClip(ctx context.Context, objectKey string, localPath string) (string, error)
}
