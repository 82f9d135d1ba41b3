package service

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/bigkaa/goartstore/file-api/internal/domain/model"
	"github.com/bigkaa/goartstore/file-api/internal/repository"
	"github.com/bigkaa/goartstore/file-api/internal/storage"
	"github.com/bigkaa/goartstore/file-api/internal/storage/filestore"
)

// --- Mock FileRepository ---

// mockFileRepo делегирует в in-memory репозиторий, если функция не переопределена.
type mockFileRepo struct {
	*repository.MemoryFileRepository
	saveFn          func(ctx context.Context, rec *model.FileRecord) (*model.FileRecord, error)
	findByTokenFn   func(ctx context.Context, token string) (*model.FileRecord, error)
	findByTokensFn  func(ctx context.Context, tokens []string) (map[string]*model.FileRecord, error)
	deleteByTokenFn func(ctx context.Context, token string) (int64, error)
}

func newMockFileRepo() *mockFileRepo {
	return &mockFileRepo{MemoryFileRepository: repository.NewMemoryFileRepository()}
}

func (m *mockFileRepo) Save(ctx context.Context, rec *model.FileRecord) (*model.FileRecord, error) {
	if m.saveFn != nil {
		return m.saveFn(ctx, rec)
	}
	return m.MemoryFileRepository.Save(ctx, rec)
}

func (m *mockFileRepo) FindByToken(ctx context.Context, token string) (*model.FileRecord, error) {
	if m.findByTokenFn != nil {
		return m.findByTokenFn(ctx, token)
	}
	return m.MemoryFileRepository.FindByToken(ctx, token)
}

func (m *mockFileRepo) FindByTokens(ctx context.Context, tokens []string) (map[string]*model.FileRecord, error) {
	if m.findByTokensFn != nil {
		return m.findByTokensFn(ctx, tokens)
	}
	return m.MemoryFileRepository.FindByTokens(ctx, tokens)
}

func (m *mockFileRepo) DeleteByToken(ctx context.Context, token string) (int64, error) {
	if m.deleteByTokenFn != nil {
		return m.deleteByTokenFn(ctx, token)
	}
	return m.MemoryFileRepository.DeleteByToken(ctx, token)
}

// --- Mock BlobStore ---

// mockBlobStore делегирует в реальный FileStore, если функция не переопределена.
type mockBlobStore struct {
	*filestore.FileStore
	storeFn  func(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	fetchFn  func(ctx context.Context, key string) (io.ReadCloser, error)
	deleteFn func(ctx context.Context, prefix string) error
}

var _ storage.BlobStore = (*mockBlobStore)(nil)

func newMockBlobStore(t *testing.T) *mockBlobStore {
	t.Helper()
	fs, err := filestore.New(filestore.Config{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("ошибка создания FileStore: %v", err)
	}
	return &mockBlobStore{FileStore: fs}
}

func (m *mockBlobStore) Store(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if m.storeFn != nil {
		return m.storeFn(ctx, key, r, size, contentType)
	}
	return m.FileStore.Store(ctx, key, r, size, contentType)
}

func (m *mockBlobStore) Fetch(ctx context.Context, key string) (io.ReadCloser, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, key)
	}
	return m.FileStore.Fetch(ctx, key)
}

func (m *mockBlobStore) Delete(ctx context.Context, prefix string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, prefix)
	}
	return m.FileStore.Delete(ctx, prefix)
}

// testLogger — логгер, выводящий только ошибки.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// assertKind проверяет тип сервисной ошибки.
func assertKind(t *testing.T, err, kind error) *Error {
	t.Helper()
	if err == nil {
		t.Fatalf("ожидалась ошибка %v, получен nil", kind)
	}
	svcErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("ожидалась *service.Error, получено %T: %v", err, err)
	}
	if svcErr.Kind != kind {
		t.Fatalf("Kind = %v, ожидалось %v (%v)", svcErr.Kind, kind, err)
	}
	return svcErr
}
