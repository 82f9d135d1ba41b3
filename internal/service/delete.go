// delete.go — сервис удаления файлов.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bigkaa/goartstore/file-api/internal/api/middleware"
	"github.com/bigkaa/goartstore/file-api/internal/domain/model"
	"github.com/bigkaa/goartstore/file-api/internal/repository"
	"github.com/bigkaa/goartstore/file-api/internal/storage"
)

// DeleteService — сервис удаления файлов.
type DeleteService struct {
	repo   repository.FileRepository
	blobs  storage.BlobStore
	logger *slog.Logger
}

// NewDeleteService создаёт сервис удаления файлов.
func NewDeleteService(repo repository.FileRepository, blobs storage.BlobStore, logger *slog.Logger) *DeleteService {
	return &DeleteService{
		repo:   repo,
		blobs:  blobs,
		logger: logger.With(slog.String("component", "delete_service")),
	}
}

// Delete удаляет содержимое файла, затем запись метаданных.
//
// Содержимое ищется по префиксу {token}. — имя файла не нужно.
// Токен не в каноническом виде UUID сразу даёт ErrNotFound.
// Если содержимого нет, метаданные не трогаются и возвращается ErrNotFound.
// Если содержимое удалено, а запись нет, возвращается ErrInconsistent.
func (s *DeleteService) Delete(ctx context.Context, token string) error {
	if err := model.ValidateToken(token); err != nil {
		middleware.OperationsTotal.WithLabelValues("delete", "not_found").Inc()
		return notFound("Файл с токеном "+token+" не найден", err)
	}
	prefix := model.BlobKeyPrefix(token)

	if err := s.blobs.Delete(ctx, prefix); err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			middleware.OperationsTotal.WithLabelValues("delete", "not_found").Inc()
			return notFound("Файл с токеном "+token+" не найден", err)
		}
		s.logger.Error("Ошибка удаления содержимого файла",
			slog.String("token", token),
			slog.String("error", err.Error()),
		)
		middleware.OperationsTotal.WithLabelValues("delete", "error").Inc()
		return internal("Ошибка удаления файла", err)
	}

	deleted, err := s.repo.DeleteByToken(ctx, token)
	if err != nil {
		s.logger.Error("Содержимое удалено, ошибка удаления метаданных",
			slog.String("token", token),
			slog.String("error", err.Error()),
		)
		middleware.OperationsTotal.WithLabelValues("delete", "error").Inc()
		return internal("Ошибка удаления файла", err)
	}
	if deleted != 1 {
		s.logger.Error("Содержимое удалено, запись метаданных не найдена",
			slog.String("token", token),
			slog.Int64("deleted", deleted),
		)
		middleware.OperationsTotal.WithLabelValues("delete", "inconsistent").Inc()
		return &Error{
			Kind:    ErrInconsistent,
			Message: "Содержимое файла удалено, запись метаданных отсутствует",
			Err:     fmt.Errorf("удалено записей: %d", deleted),
		}
	}

	middleware.OperationsTotal.WithLabelValues("delete", "success").Inc()
	s.logger.Info("Файл удалён", slog.String("token", token))
	return nil
}
