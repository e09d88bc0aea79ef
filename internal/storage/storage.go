package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"bluesea/internal/models"
)

// MaxFileSize - потолок размера загружаемого файла (10 MiB)
const MaxFileSize = 10 * 1024 * 1024

var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Upload - непроверенный файл из запроса: поток, заявленный
// MIME-тип и оригинальное имя
type Upload struct {
	File        io.Reader
	Filename    string
	ContentType string
}

// StorageError - единая ошибка хранилища: и отказ по политике
// (тип, размер, имя файла), и сбой записи
type StorageError struct {
	Message string
	Err     error
}

func (e *StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

type Storage interface {
	Save(ctx context.Context, upload *Upload) (models.ImageRef, error)
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// sanitizeFilename приводит имя файла к безопасному виду:
// отбрасывает каталоги, пробелы заменяет подчёркиванием,
// небезопасные символы удаляет. Может вернуть пустую строку
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")
	return name
}

// validateUpload выполняет все проверки политики до какой-либо записи.
// При необходимости буферизует несикабельный поток, чтобы измерить
// размер, и возвращает поток с исходной позицией чтения
func validateUpload(upload *Upload) (io.Reader, int64, error) {
	if upload == nil || upload.File == nil {
		return nil, 0, &StorageError{Message: "файл для загрузки не передан"}
	}

	if upload.ContentType == "" {
		return nil, 0, &StorageError{Message: "не удалось определить MIME-тип файла"}
	}

	if !allowedMimeTypes[upload.ContentType] {
		return nil, 0, &StorageError{Message: "неподдерживаемый тип файла, разрешены только JPEG и PNG"}
	}

	if sanitizeFilename(upload.Filename) == "" {
		return nil, 0, &StorageError{Message: "у загружаемого файла должно быть корректное имя"}
	}

	reader := upload.File
	seeker, ok := reader.(io.Seeker)
	if !ok {
		// transport is not seekable, buffer it first
		data, err := io.ReadAll(reader)
		if err != nil {
			return nil, 0, &StorageError{Message: "ошибка при чтении файла", Err: err}
		}
		buffered := bytes.NewReader(data)
		reader = buffered
		seeker = buffered
	}

	current, err := seeker.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, 0, &StorageError{Message: "ошибка при определении размера файла", Err: err}
	}

	end, err := seeker.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, 0, &StorageError{Message: "ошибка при определении размера файла", Err: err}
	}

	// restore the original read position
	if _, err := seeker.Seek(current, io.SeekStart); err != nil {
		return nil, 0, &StorageError{Message: "ошибка при возврате позиции чтения", Err: err}
	}

	// to write remains only the part after the current position
	size := end - current

	if size > MaxFileSize {
		return nil, 0, &StorageError{Message: "файл превышает максимально допустимый размер 10 MB"}
	}

	return reader, size, nil
}

// uploadExtension - расширение очищенного оригинального имени.
// Само имя не используется, чтобы не тащить в хранилище
// данные, контролируемые пользователем
func uploadExtension(filename string) string {
	return strings.ToLower(path.Ext(sanitizeFilename(filename)))
}
