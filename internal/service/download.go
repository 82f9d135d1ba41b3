// download.go — сервис скачивания файлов.
package service

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/bigkaa/goartstore/file-api/internal/api/middleware"
	"github.com/bigkaa/goartstore/file-api/internal/domain/model"
	"github.com/bigkaa/goartstore/file-api/internal/repository"
	"github.com/bigkaa/goartstore/file-api/internal/storage"
)

// DownloadService — сервис скачивания файлов.
type DownloadService struct {
	repo   repository.FileRepository
	blobs  storage.BlobStore
	logger *slog.Logger
}

// NewDownloadService создаёт сервис скачивания файлов.
func NewDownloadService(repo repository.FileRepository, blobs storage.BlobStore, logger *slog.Logger) *DownloadService {
	return &DownloadService{
		repo:   repo,
		blobs:  blobs,
		logger: logger.With(slog.String("component", "download_service")),
	}
}

// Download возвращает метаданные и поток содержимого файла.
// Вызывающий код обязан закрыть поток.
//
// Отсутствие записи и отсутствие содержимого в хранилище —
// разные ошибки ErrNotFound с разными сообщениями.
func (s *DownloadService) Download(ctx context.Context, token string) (*model.FileRecord, io.ReadCloser, error) {
	rec, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			middleware.OperationsTotal.WithLabelValues("download", "not_found").Inc()
			return nil, nil, notFound("Файл с токеном "+token+" не найден", err)
		}
		s.logger.Error("Ошибка получения метаданных файла",
			slog.String("token", token),
			slog.String("error", err.Error()),
		)
		middleware.OperationsTotal.WithLabelValues("download", "error").Inc()
		return nil, nil, internal("Ошибка получения метаданных файла", err)
	}

	key := rec.BlobKey()
	body, err := s.blobs.Fetch(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			s.logger.Warn("Содержимое файла отсутствует в хранилище",
				slog.String("token", token),
				slog.String("key", key),
			)
			middleware.OperationsTotal.WithLabelValues("download", "not_found").Inc()
			return nil, nil, notFound("Файл не найден в хранилище", err)
		}
		s.logger.Error("Ошибка чтения содержимого файла",
			slog.String("token", token),
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		middleware.OperationsTotal.WithLabelValues("download", "error").Inc()
		return nil, nil, internal("Ошибка чтения файла", err)
	}

	middleware.OperationsTotal.WithLabelValues("download", "success").Inc()
	return rec, body, nil
}
