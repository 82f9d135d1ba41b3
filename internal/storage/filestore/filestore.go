// Пакет filestore — blob-хранилище на локальном диске.
// Каждый объект — отдельный файл в корневой директории, имя файла совпадает
// с ключом объекта. Запись атомарная: temp файл → fsync → rename.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bigkaa/goartstore/file-api/internal/storage"
)

// tmpPattern — шаблон имени временного файла. Ведущая точка гарантирует,
// что временный файл не совпадёт ни с одним ключом объекта.
const tmpPattern = ".upload-*.tmp"

// Config — параметры локального хранилища.
type Config struct {
	// Dir — корневая директория хранения (FA_STORAGE_DIR)
	Dir string
}

// FileStore — blob-хранилище на локальном диске.
type FileStore struct {
	dir string
}

var _ storage.BlobStore = (*FileStore)(nil)

// New создаёт FileStore. Создаёт корневую директорию, если её нет.
func New(cfg Config) (*FileStore, error) {
	if cfg.Dir == "" {
		return nil, errors.New("не задана директория хранения")
	}
	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию хранения %s: %w", cfg.Dir, err)
	}
	return &FileStore{dir: cfg.Dir}, nil
}

// Store записывает содержимое r в файл key.
// size и contentType локальному хранилищу не нужны.
//
// Паттерн: temp файл → запись → fsync → atomic rename.
// При ошибке temp файл удаляется, под ключом key ничего не появляется.
func (fs *FileStore) Store(ctx context.Context, key string, r io.Reader, _ int64, _ string) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}

	// Директория могла быть удалена после старта
	if err := os.MkdirAll(fs.dir, 0o750); err != nil {
		return fmt.Errorf("ошибка создания директории хранения: %w", err)
	}

	f, err := os.CreateTemp(fs.dir, tmpPattern)
	if err != nil {
		return fmt.Errorf("ошибка создания временного файла: %w", err)
	}
	tmpPath := f.Name()

	if _, err := io.Copy(f, &ctxReader{ctx: ctx, r: r}); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка записи данных %s: %w", key, err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка fsync: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка закрытия файла: %w", err)
	}

	if err := os.Rename(tmpPath, fs.FullPath(key)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка атомарного переименования: %w", err)
	}

	return nil
}

// Fetch открывает файл key для чтения. Возвращаемый *os.File
// поддерживает Seek, что позволяет отдавать Range-запросы.
func (fs *FileStore) Fetch(_ context.Context, key string) (io.ReadCloser, error) {
	if err := storage.ValidateKey(key); err != nil {
		return nil, err
	}

	f, err := os.Open(fs.FullPath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", storage.ErrBlobNotFound, key)
		}
		return nil, fmt.Errorf("ошибка открытия файла %s: %w", key, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("ошибка получения информации о файле %s: %w", key, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: %s", storage.ErrBlobNotFound, key)
	}

	return f, nil
}

// Delete удаляет первый (в лексикографическом порядке) файл,
// имя которого начинается с prefix.
func (fs *FileStore) Delete(_ context.Context, prefix string) error {
	if err := storage.ValidateKey(prefix); err != nil {
		return err
	}

	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s*", storage.ErrBlobNotFound, prefix)
		}
		return fmt.Errorf("ошибка чтения директории хранения: %w", err)
	}

	// os.ReadDir возвращает записи, отсортированные по имени
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		if err := os.Remove(fs.FullPath(e.Name())); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("%w: %s", storage.ErrBlobNotFound, e.Name())
			}
			return fmt.Errorf("ошибка удаления файла %s: %w", e.Name(), err)
		}
		return nil
	}

	return fmt.Errorf("%w: %s*", storage.ErrBlobNotFound, prefix)
}

// Exists проверяет существование файла key.
func (fs *FileStore) Exists(key string) bool {
	info, err := os.Stat(fs.FullPath(key))
	return err == nil && !info.IsDir()
}

// FullPath возвращает абсолютный путь к файлу key.
func (fs *FileStore) FullPath(key string) string {
	return filepath.Join(fs.dir, key)
}

// Dir возвращает корневую директорию хранения.
func (fs *FileStore) Dir() string {
	return fs.dir
}

// CheckReady проверяет, что директория хранения доступна на запись.
func (fs *FileStore) CheckReady() (status, message string) {
	testFile := filepath.Join(fs.dir, ".health_check")
	if err := os.WriteFile(testFile, []byte("ok"), 0o600); err != nil {
		return "fail", "Директория хранения недоступна для записи: " + err.Error()
	}
	_ = os.Remove(testFile)
	return "ok", "Директория хранения доступна"
}

// ctxReader прерывает чтение при отмене контекста.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *ctxReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
