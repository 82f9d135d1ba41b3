// Пакет storage — общий контракт blob-хранилищ File API.
// Реализации: filestore (локальный диск) и s3store (S3-совместимое хранилище).
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Ошибки blob-хранилищ.
var (
	// ErrBlobNotFound — объект с указанным ключом (или префиксом) отсутствует.
	ErrBlobNotFound = errors.New("объект не найден в хранилище")
	// ErrInvalidKey — ключ нельзя использовать как имя объекта.
	ErrInvalidKey = errors.New("недопустимый ключ объекта")
)

// BlobStore — хранилище содержимого файлов по плоскому строковому ключу.
type BlobStore interface {
	// Store сохраняет содержимое под ключом key. Частично записанный
	// объект никогда не становится видимым под этим ключом.
	Store(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Fetch открывает объект для чтения. ErrBlobNotFound, если объекта нет.
	// Вызывающий код обязан закрыть ReadCloser.
	Fetch(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete удаляет первый объект, ключ которого начинается с prefix.
	// ErrBlobNotFound, если таких объектов нет.
	Delete(ctx context.Context, prefix string) error
}

// ValidateKey проверяет ключ (или префикс) объекта: он должен быть
// одним сегментом пути и не начинаться с точки.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: пустой ключ", ErrInvalidKey)
	}
	if strings.HasPrefix(key, ".") {
		return fmt.Errorf("%w: %q начинается с точки", ErrInvalidKey, key)
	}
	if strings.ContainsAny(key, "/\\\x00") {
		return fmt.Errorf("%w: %q содержит разделитель пути", ErrInvalidKey, key)
	}
	return nil
}
