package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"bluesea/internal/config"
	"bluesea/internal/models"
)

// MinIOStorage - альтернативный бэкенд загрузок поверх MinIO.
// Проверки те же, что и у локального хранилища, ссылка на
// изображение получается внешней (полный URL объекта)
type MinIOStorage struct {
	client *minio.Client
	cfg    config.MinIO
}

func NewMinIOStorage(cfg *config.Config) (*MinIOStorage, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
		Region: cfg.MinIO.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к MinIO: %w", err)
	}

	return &MinIOStorage{client: client, cfg: cfg.MinIO}, nil
}

func (s *MinIOStorage) Save(ctx context.Context, upload *Upload) (models.ImageRef, error) {
	reader, size, err := validateUpload(upload)
	if err != nil {
		return models.ImageRef{}, err
	}

	objectName := fmt.Sprintf("%s%s", strings.ReplaceAll(uuid.New().String(), "-", ""), uploadExtension(upload.Filename))

	_, err = s.client.PutObject(ctx, s.cfg.BucketName, objectName, reader, size,
		minio.PutObjectOptions{
			ContentType: upload.ContentType,
			UserMetadata: map[string]string{
				"original-filename": sanitizeFilename(upload.Filename),
				"uploaded-at":       time.Now().Format(time.RFC3339),
			},
		})
	if err != nil {
		return models.ImageRef{}, &StorageError{Message: "ошибка загрузки в MinIO", Err: err}
	}

	scheme := "http"
	if s.cfg.UseSSL {
		scheme = "https"
	}
	imageURL := fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.Endpoint, s.cfg.BucketName, objectName)

	return models.ExternalImage(imageURL), nil
}
