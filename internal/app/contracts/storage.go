package contracts

import (
	"context"
	"io"
)

type StorageService interface {
	// UploadObject stores the object and returns its public URL.
	UploadObject(ctx context.Context, objectName, contentType string, size int64, reader io.Reader) (string, error)
}
