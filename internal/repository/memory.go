package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/bigkaa/goartstore/file-api/internal/domain/model"
)

// MemoryFileRepository — in-memory реализация FileRepository.
// Используется для локальной разработки (FA_METADATA_BACKEND=memory) и в тестах.
// Данные не переживают перезапуск процесса.
type MemoryFileRepository struct {
	mu    sync.RWMutex
	files map[string]model.FileRecord
}

var _ FileRepository = (*MemoryFileRepository)(nil)

// NewMemoryFileRepository создаёт пустой in-memory репозиторий.
func NewMemoryFileRepository() *MemoryFileRepository {
	return &MemoryFileRepository{files: make(map[string]model.FileRecord)}
}

// Save сохраняет копию записи.
func (r *MemoryFileRepository) Save(ctx context.Context, rec *model.FileRecord) (*model.FileRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := prepareForSave(rec, uuid.NewString)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.files[out.Token]; ok {
		return nil, fmt.Errorf("%w: %s", ErrConflict, out.Token)
	}
	r.files[out.Token] = *cloneRecord(out)
	return cloneRecord(out), nil
}

// FindByToken возвращает копию записи или ErrNotFound.
func (r *MemoryFileRepository) FindByToken(ctx context.Context, token string) (*model.FileRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.files[token]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneRecord(&f), nil
}

// FindByTokens возвращает копии найденных записей.
func (r *MemoryFileRepository) FindByTokens(ctx context.Context, tokens []string) (map[string]*model.FileRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*model.FileRecord, len(tokens))
	for _, token := range tokens {
		if f, ok := r.files[token]; ok {
			result[token] = cloneRecord(&f)
		}
	}
	return result, nil
}

// DeleteByToken удаляет запись.
func (r *MemoryFileRepository) DeleteByToken(ctx context.Context, token string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.files[token]; !ok {
		return 0, nil
	}
	delete(r.files, token)
	return 1, nil
}

// ExistsByToken проверяет существование записи.
func (r *MemoryFileRepository) ExistsByToken(ctx context.Context, token string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.files[token]
	return ok, nil
}

// Len возвращает количество записей.
func (r *MemoryFileRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.files)
}

// CheckReady — in-memory репозиторий всегда готов.
func (r *MemoryFileRepository) CheckReady() (status, message string) {
	return "ok", "in-memory хранилище метаданных"
}

// cloneRecord возвращает глубокую копию записи (указатели не разделяются).
func cloneRecord(f *model.FileRecord) *model.FileRecord {
	out := *f
	if f.ExpireTime != nil {
		t := *f.ExpireTime
		out.ExpireTime = &t
	}
	if f.Meta != nil {
		m := *f.Meta
		out.Meta = &m
	}
	return &out
}
