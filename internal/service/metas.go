// metas.go — пакетное получение метаданных по списку токенов.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bigkaa/goartstore/file-api/internal/domain/model"
	"github.com/bigkaa/goartstore/file-api/internal/repository"
)

// MetasService — сервис получения метаданных файлов.
type MetasService struct {
	repo      repository.FileRepository
	maxTokens int
	logger    *slog.Logger
}

// NewMetasService создаёт сервис метаданных.
// maxTokens — максимальное количество различных токенов в одном запросе.
func NewMetasService(repo repository.FileRepository, maxTokens int, logger *slog.Logger) *MetasService {
	return &MetasService{
		repo:      repo,
		maxTokens: maxTokens,
		logger:    logger.With(slog.String("component", "metas_service")),
	}
}

// GetMetas возвращает метаданные найденных файлов, ключ — токен.
// Неизвестные токены молча пропускаются, повторы схлопываются.
func (s *MetasService) GetMetas(ctx context.Context, tokens []string) (map[string]*model.FileRecord, error) {
	if len(tokens) == 0 {
		return nil, validation("tokens", "tokens: список не должен быть пустым", nil)
	}

	unique := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		unique = append(unique, t)
	}

	if len(unique) > s.maxTokens {
		return nil, validation("tokens",
			fmt.Sprintf("tokens: не более %d токенов в запросе", s.maxTokens), nil)
	}

	files, err := s.repo.FindByTokens(ctx, unique)
	if err != nil {
		s.logger.Error("Ошибка получения метаданных файлов",
			slog.Int("tokens", len(unique)),
			slog.String("error", err.Error()),
		)
		return nil, internal("Ошибка получения метаданных файлов", err)
	}

	s.logger.Debug("Метаданные файлов получены",
		slog.Int("requested", len(unique)),
		slog.Int("found", len(files)),
	)
	return files, nil
}
