package filemanager

import (
	"context"
)

// BlobStore is the remote object store holding attachment content.
// Paths are keys inside a single bucket; see storage.ObjectPath.
type BlobStore interface {
	// Upload stores data under path and returns its public retrieval URL.
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)

	// Delete removes the object at path.
	Delete(ctx context.Context, path string) error

	// PublicURL returns the retrieval URL for path without contacting the store.
	PublicURL(path string) string
}

// UploadFile is one dropped file before upload.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Size returns the content length in bytes.
func (f *UploadFile) Size() int {
	return len(f.Data)
}

// Compressor shrinks image uploads. Implementations never fail: on any
// problem they hand back the original file.
type Compressor interface {
	Compress(ctx context.Context, file *UploadFile) *UploadFile
}
