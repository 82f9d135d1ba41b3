package repository

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/goartstore/file-api/internal/domain/model"
)

// Prometheus-метрики кэша.
var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fa_cache_hits_total",
		Help: "Общее количество попаданий в LRU-кэш метаданных.",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fa_cache_misses_total",
		Help: "Общее количество промахов LRU-кэша метаданных.",
	})
)

// CachedFileRepository — LRU-кэш с TTL поверх FileRepository.
// Кэшируется только FindByToken; DeleteByToken инвалидирует запись.
// Кэш per-instance: при нескольких репликах удаление на одной
// становится видно на остальных не позже чем через TTL.
type CachedFileRepository struct {
	inner FileRepository
	cache *expirable.LRU[string, *model.FileRecord]
}

var _ FileRepository = (*CachedFileRepository)(nil)

// NewCachedFileRepository оборачивает inner LRU-кэшем.
// maxSize — максимальное количество записей, ttl — время жизни записи.
func NewCachedFileRepository(inner FileRepository, maxSize int, ttl time.Duration) *CachedFileRepository {
	return &CachedFileRepository{
		inner: inner,
		cache: expirable.NewLRU[string, *model.FileRecord](maxSize, nil, ttl),
	}
}

// Save сохраняет запись и кладёт её в кэш.
func (r *CachedFileRepository) Save(ctx context.Context, rec *model.FileRecord) (*model.FileRecord, error) {
	saved, err := r.inner.Save(ctx, rec)
	if err != nil {
		return nil, err
	}
	r.cache.Add(saved.Token, cloneRecord(saved))
	return saved, nil
}

// FindByToken возвращает запись из кэша или из inner.
func (r *CachedFileRepository) FindByToken(ctx context.Context, token string) (*model.FileRecord, error) {
	if f, ok := r.cache.Get(token); ok {
		cacheHitsTotal.Inc()
		return cloneRecord(f), nil
	}
	cacheMissesTotal.Inc()

	f, err := r.inner.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	r.cache.Add(token, cloneRecord(f))
	return f, nil
}

// FindByTokens всегда обращается к inner.
func (r *CachedFileRepository) FindByTokens(ctx context.Context, tokens []string) (map[string]*model.FileRecord, error) {
	return r.inner.FindByTokens(ctx, tokens)
}

// DeleteByToken удаляет запись и инвалидирует кэш до и после удаления:
// FindByToken, выполненный во время удаления, мог вернуть запись в кэш.
func (r *CachedFileRepository) DeleteByToken(ctx context.Context, token string) (int64, error) {
	r.cache.Remove(token)
	defer r.cache.Remove(token)
	return r.inner.DeleteByToken(ctx, token)
}

// ExistsByToken проверяет кэш, затем inner.
func (r *CachedFileRepository) ExistsByToken(ctx context.Context, token string) (bool, error) {
	if _, ok := r.cache.Peek(token); ok {
		return true, nil
	}
	return r.inner.ExistsByToken(ctx, token)
}

// Len возвращает количество записей в кэше.
func (r *CachedFileRepository) Len() int {
	return r.cache.Len()
}
