package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"bluesea/internal/models"
)

// LocalStorage сохраняет загрузки в каталоге на диске.
// Имя файла генерируется заново для каждой загрузки, поэтому
// параллельные запросы не могут столкнуться на одном пути
type LocalStorage struct {
	root string
}

func NewLocalStorage(root string) *LocalStorage {
	return &LocalStorage{root: root}
}

func (s *LocalStorage) Save(ctx context.Context, upload *Upload) (models.ImageRef, error) {
	reader, _, err := validateUpload(upload)
	if err != nil {
		return models.ImageRef{}, err
	}

	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return models.ImageRef{}, &StorageError{Message: "не удалось подготовить каталог загрузок", Err: err}
	}

	// random token + sanitized extension, the original stem is dropped
	uniqueName := fmt.Sprintf("%s%s", strings.ReplaceAll(uuid.New().String(), "-", ""), uploadExtension(upload.Filename))
	destination := filepath.Join(s.root, uniqueName)

	file, err := os.Create(destination)
	if err != nil {
		return models.ImageRef{}, &StorageError{Message: "не удалось сохранить загруженный файл", Err: err}
	}

	if _, err := io.Copy(file, reader); err != nil {
		file.Close()
		os.Remove(destination)
		return models.ImageRef{}, &StorageError{Message: "не удалось сохранить загруженный файл", Err: err}
	}

	if err := file.Close(); err != nil {
		os.Remove(destination)
		return models.ImageRef{}, &StorageError{Message: "не удалось сохранить загруженный файл", Err: err}
	}

	return models.StoredImage(uniqueName), nil
}
