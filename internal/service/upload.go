// Пакет service — бизнес-логика File API: координация хранилища
// метаданных и blob-хранилища при загрузке, скачивании и удалении.
// upload.go — сервис загрузки файлов.
package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/bigkaa/goartstore/file-api/internal/api/middleware"
	"github.com/bigkaa/goartstore/file-api/internal/domain/model"
	"github.com/bigkaa/goartstore/file-api/internal/repository"
	"github.com/bigkaa/goartstore/file-api/internal/storage"
)

// compensationTimeout ограничивает откат записи метаданных,
// который выполняется и после отмены контекста запроса.
const compensationTimeout = 10 * time.Second

// UploadParams — параметры загрузки файла.
type UploadParams struct {
	// Content — поток данных файла
	Content io.Reader
	// Filename — оригинальное имя файла
	Filename string
	// ContentType — MIME-тип файла
	ContentType string
	// Size — размер файла, указанный клиентом
	Size int64
	// ExpireTime — срок хранения (опционально)
	ExpireTime *time.Time
	// Meta — произвольный JSON (опционально)
	Meta *string
	// Source — система-источник
	Source string
}

// UploadService — сервис загрузки файлов.
type UploadService struct {
	repo   repository.FileRepository
	blobs  storage.BlobStore
	logger *slog.Logger
}

// NewUploadService создаёт сервис загрузки файлов.
func NewUploadService(repo repository.FileRepository, blobs storage.BlobStore, logger *slog.Logger) *UploadService {
	return &UploadService{
		repo:   repo,
		blobs:  blobs,
		logger: logger.With(slog.String("component", "upload_service")),
	}
}

// Upload сохраняет запись метаданных, затем содержимое файла.
// Возвращает токен файла.
//
// Поток:
//  1. Проверка имени файла
//  2. repo.Save — репозиторий выдаёт токен
//  3. blobs.Store под ключом {token}.{filename}
//
// Если содержимое сохранить не удалось, запись удаляется,
// а клиент получает ошибку: токен без содержимого не выдаётся.
func (s *UploadService) Upload(ctx context.Context, params UploadParams) (string, error) {
	if err := model.ValidateFilename(params.Filename); err != nil {
		return "", validation("name", "Недопустимое имя файла", err)
	}

	saved, err := s.repo.Save(ctx, &model.FileRecord{
		Filename:    params.Filename,
		Size:        params.Size,
		ContentType: params.ContentType,
		ExpireTime:  params.ExpireTime,
		Meta:        params.Meta,
		Source:      params.Source,
	})
	if err != nil {
		s.logger.Error("Ошибка сохранения метаданных файла",
			slog.String("filename", params.Filename),
			slog.String("error", err.Error()),
		)
		middleware.OperationsTotal.WithLabelValues("upload", "error").Inc()
		return "", internal("Ошибка сохранения метаданных файла", err)
	}

	key := saved.BlobKey()
	if err := s.blobs.Store(ctx, key, params.Content, params.Size, params.ContentType); err != nil {
		s.logger.Error("Ошибка сохранения содержимого файла",
			slog.String("token", saved.Token),
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		middleware.OperationsTotal.WithLabelValues("upload", "error").Inc()

		if compErr := s.compensate(ctx, saved.Token); compErr != nil {
			return "", internal("Ошибка сохранения файла, метаданные не откачены", errors.Join(err, compErr))
		}
		return "", internal("Ошибка сохранения файла", err)
	}

	middleware.OperationsTotal.WithLabelValues("upload", "success").Inc()
	s.logger.Info("Файл загружен",
		slog.String("token", saved.Token),
		slog.String("filename", saved.Filename),
		slog.Int64("size", saved.Size),
		slog.String("source", saved.Source),
	)

	return saved.Token, nil
}

// compensate удаляет запись метаданных после неудачной записи содержимого.
// Выполняется на контексте, отвязанном от отмены запроса.
func (s *UploadService) compensate(ctx context.Context, token string) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	if _, err := s.repo.DeleteByToken(ctx, token); err != nil {
		s.logger.Error("Не удалось откатить метаданные файла без содержимого",
			slog.String("token", token),
			slog.String("error", err.Error()),
		)
		return err
	}

	s.logger.Warn("Метаданные файла откачены", slog.String("token", token))
	return nil
}
