package storage

import (
	"context"
	"fmt"
	"io"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/exceptions"
	"sync"

	"github.com/minio/minio-go/v7"
)

var (
	storageServiceInstance contracts.StorageService
	onceStorageService     sync.Once
)

type minioStorage struct {
	client     *minio.Client
	bucketName string
	publicBase string
}

func NewMinioStorage(client *minio.Client, driverConfig *config.DriverConfig) contracts.StorageService {
	onceStorageService.Do(func() {
		scheme := "http"
		if driverConfig.Minio.UseSSL {
			scheme = "https"
		}
		storageServiceInstance = &minioStorage{
			client:     client,
			bucketName: driverConfig.Minio.BucketName,
			publicBase: fmt.Sprintf("%s://%s:%s", scheme, driverConfig.Minio.Host, driverConfig.Minio.Port),
		}
	})
	return storageServiceInstance
}

func (s *minioStorage) UploadObject(ctx context.Context, objectName, contentType string, size int64, reader io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucketName, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", exceptions.ErrMinioCreateObject(err, s.bucketName)
	}
	return fmt.Sprintf("%s/%s/%s", s.publicBase, s.bucketName, objectName), nil
}
