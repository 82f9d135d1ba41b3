// Пакет repository — хранилище метаданных файлов.
// Реализации: PostgreSQL (pgx, чистый SQL), MongoDB (mgo), in-memory
// и кэширующая обёртка поверх любой из них.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bigkaa/goartstore/file-api/internal/domain/model"
)

// timePrecision — точность хранения времени во всех бэкендах.
const timePrecision = time.Millisecond

// Ошибки слоя репозиториев.
var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("запись не найдена")
	// ErrConflict — запись с таким токеном уже существует.
	ErrConflict = errors.New("запись с таким токеном уже существует")
)

// FileRepository — доступ к метаданным файлов по токену.
type FileRepository interface {
	// Save сохраняет новую запись. Если Token пуст, генерирует UUID;
	// если CreateTime не задан, проставляет текущее время.
	// Возвращает сохранённую копию записи.
	Save(ctx context.Context, rec *model.FileRecord) (*model.FileRecord, error)
	// FindByToken возвращает запись по токену или ErrNotFound.
	FindByToken(ctx context.Context, token string) (*model.FileRecord, error)
	// FindByTokens возвращает найденные записи, ключ — токен.
	// Неизвестные токены в результат не попадают.
	FindByTokens(ctx context.Context, tokens []string) (map[string]*model.FileRecord, error)
	// DeleteByToken удаляет запись и возвращает число удалённых записей (0 или 1).
	DeleteByToken(ctx context.Context, token string) (int64, error)
	// ExistsByToken проверяет существование записи.
	ExistsByToken(ctx context.Context, token string) (bool, error)
}

// DBTX — интерфейс для выполнения SQL-запросов.
// Реализуется как *pgxpool.Pool, так и pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// prepareForSave возвращает копию записи с проставленными токеном и временем создания.
func prepareForSave(rec *model.FileRecord, newToken func() string) *model.FileRecord {
	out := *rec
	if out.Token == "" {
		out.Token = newToken()
	}
	if out.CreateTime.IsZero() {
		out.CreateTime = model.NowUTC()
	} else {
		out.CreateTime = out.CreateTime.UTC().Truncate(timePrecision)
	}
	if out.ExpireTime != nil {
		t := out.ExpireTime.UTC().Truncate(timePrecision)
		out.ExpireTime = &t
	}
	return &out
}
