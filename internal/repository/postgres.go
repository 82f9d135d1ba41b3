package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bigkaa/goartstore/file-api/internal/domain/model"
)

// pgUniqueViolation — код ошибки PostgreSQL при нарушении уникальности.
const pgUniqueViolation = "23505"

// fileColumns — список столбцов таблицы files для SELECT-запросов.
const fileColumns = `token, filename, size, content_type, create_time, expire_time, meta, source`

// pgFileRepo — реализация FileRepository через pgx.
type pgFileRepo struct {
	db DBTX
}

// NewFileRepository создаёт репозиторий метаданных в PostgreSQL.
func NewFileRepository(db DBTX) FileRepository {
	return &pgFileRepo{db: db}
}

// Save вставляет новую запись.
func (r *pgFileRepo) Save(ctx context.Context, rec *model.FileRecord) (*model.FileRecord, error) {
	out := prepareForSave(rec, uuid.NewString)

	_, err := r.db.Exec(ctx,
		`INSERT INTO files (token, filename, size, content_type, create_time, expire_time, meta, source)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		out.Token, out.Filename, out.Size, out.ContentType,
		out.CreateTime, out.ExpireTime, out.Meta, out.Source,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, fmt.Errorf("%w: %s", ErrConflict, out.Token)
		}
		return nil, fmt.Errorf("ошибка сохранения записи файла: %w", err)
	}
	return out, nil
}

// FindByToken возвращает запись по токену или ErrNotFound.
func (r *pgFileRepo) FindByToken(ctx context.Context, token string) (*model.FileRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM files WHERE token = $1`, fileColumns)

	f, err := scanFile(r.db.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения записи файла: %w", err)
	}
	return f, nil
}

// FindByTokens возвращает записи по списку токенов.
func (r *pgFileRepo) FindByTokens(ctx context.Context, tokens []string) (map[string]*model.FileRecord, error) {
	result := make(map[string]*model.FileRecord, len(tokens))
	if len(tokens) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM files WHERE token = ANY($1)`, fileColumns)

	rows, err := r.db.Query(ctx, query, tokens)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения записей файлов: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения записи файла: %w", err)
		}
		result[f.Token] = f
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации записей файлов: %w", err)
	}
	return result, nil
}

// DeleteByToken удаляет запись.
func (r *pgFileRepo) DeleteByToken(ctx context.Context, token string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM files WHERE token = $1`, token)
	if err != nil {
		return 0, fmt.Errorf("ошибка удаления записи файла: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ExistsByToken проверяет существование записи.
func (r *pgFileRepo) ExistsByToken(ctx context.Context, token string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM files WHERE token = $1)`, token).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки записи файла: %w", err)
	}
	return exists, nil
}

// scanFile сканирует строку в FileRecord.
func scanFile(row pgx.Row) (*model.FileRecord, error) {
	f := &model.FileRecord{}
	err := row.Scan(
		&f.Token, &f.Filename, &f.Size, &f.ContentType,
		&f.CreateTime, &f.ExpireTime, &f.Meta, &f.Source,
	)
	if err != nil {
		return nil, err
	}
	f.CreateTime = f.CreateTime.UTC()
	if f.ExpireTime != nil {
		t := f.ExpireTime.UTC()
		f.ExpireTime = &t
	}
	return f, nil
}
