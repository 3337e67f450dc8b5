package contracts

import (
	"context"
)

type StorageService interface {
	UploadObject(ctx context.Context, bucketName, objectName, contentType string, data []byte) (string, error)
}
