package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/bigkaa/goartstore/file-api/internal/api/handlers"
	"github.com/bigkaa/goartstore/file-api/internal/api/middleware"
	"github.com/bigkaa/goartstore/file-api/internal/api/openapi"
	"github.com/bigkaa/goartstore/file-api/internal/config"
	"github.com/bigkaa/goartstore/file-api/internal/database"
	"github.com/bigkaa/goartstore/file-api/internal/repository"
	"github.com/bigkaa/goartstore/file-api/internal/server"
	"github.com/bigkaa/goartstore/file-api/internal/service"
	"github.com/bigkaa/goartstore/file-api/internal/storage"
	"github.com/bigkaa/goartstore/file-api/internal/storage/filestore"
	"github.com/bigkaa/goartstore/file-api/internal/storage/s3store"
)

// backends — инициализированные хранилища и всё, что нужно для их проверки и закрытия.
type backends struct {
	repo    repository.FileRepository
	blobs   storage.BlobStore
	checks  map[string]handlers.ReadinessChecker
	deps    service.DephealthDeps
	closers []func()
}

func (b *backends) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("ошибка конфигурации: %w", err)
	}

	logger := config.SetupLogger(cfg)
	logger.Info("File API запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("metadata_backend", cfg.MetadataBackend),
		slog.String("blob_backend", cfg.BlobBackend),
		slog.String("auth_mode", cfg.AuthMode),
	)

	// --- Инициализация компонентов ---

	// 1. Хранилища
	b := &backends{checks: make(map[string]handlers.ReadinessChecker, 2)}
	defer b.close()

	if err := setupMetadata(ctx, cfg, logger, b); err != nil {
		return err
	}
	if err := setupBlobs(ctx, cfg, logger, b); err != nil {
		return err
	}

	// 2. Сервисы
	uploadSvc := service.NewUploadService(b.repo, b.blobs, logger)
	downloadSvc := service.NewDownloadService(b.repo, b.blobs, logger)
	deleteSvc := service.NewDeleteService(b.repo, b.blobs, logger)
	metasSvc := service.NewMetasService(b.repo, cfg.MaxMetasTokens, logger)

	// 3. topologymetrics — мониторинг зависимостей
	dephealthSvc, err := service.NewDephealthService(
		cfg.ServiceID,
		cfg.DephealthGroup,
		b.deps,
		cfg.DephealthCheckInterval,
		logger,
	)
	switch {
	case errors.Is(err, service.ErrNoDependencies):
		logger.Info("Внешних зависимостей нет, topologymetrics не запускается")
	case err != nil:
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", err.Error()),
		)
	default:
		if startErr := dephealthSvc.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics", slog.String("error", startErr.Error()))
		} else {
			defer dephealthSvc.Stop()
		}
	}

	// 4. Handlers
	spec, err := openapi.JSON(ctx)
	if err != nil {
		return fmt.Errorf("ошибка загрузки OpenAPI-спецификации: %w", err)
	}

	apiHandler := handlers.NewAPIHandler(
		handlers.NewFilesHandler(uploadSvc, downloadSvc, deleteSvc, metasSvc, cfg.MaxFileSize, logger),
		handlers.NewHealthHandler(b.checks),
		handlers.NewSpecHandler(spec),
	)

	// 5. Аутентификация
	auth, err := setupAuth(cfg, logger)
	if err != nil {
		return err
	}

	// 6. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, apiHandler, auth)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("ошибка сервера: %w", err)
	}

	logger.Info("File API остановлен")
	return nil
}

// setupMetadata создаёт репозиторий метаданных выбранного бэкенда.
func setupMetadata(ctx context.Context, cfg *config.Config, logger *slog.Logger, b *backends) error {
	var repo repository.FileRepository

	switch cfg.MetadataBackend {
	case config.MetadataPostgres:
		pool, err := database.Connect(ctx, cfg, logger)
		if err != nil {
			return err
		}
		b.closers = append(b.closers, pool.Close)

		if cfg.DBAutoMigrate {
			if err := database.Migrate(cfg, logger); err != nil {
				return err
			}
		}

		db := stdlib.OpenDBFromPool(pool)
		b.closers = append(b.closers, func() { _ = db.Close() })

		repo = repository.NewFileRepository(pool)
		b.checks["metadata"] = database.NewReadinessChecker(pool)
		b.deps.DB = db
		b.deps.PostgresURL = cfg.PostgresURL()

	case config.MetadataMongo:
		mongoRepo, err := repository.DialMongo(repository.MongoConfig{
			URL:        cfg.MongoURL,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
			Timeout:    cfg.MongoTimeout,
		})
		if err != nil {
			return err
		}
		b.closers = append(b.closers, mongoRepo.Close)
		logger.Info("Подключение к MongoDB установлено",
			slog.String("database", cfg.MongoDatabase),
			slog.String("collection", cfg.MongoCollection),
		)

		repo = mongoRepo
		b.checks["metadata"] = mongoRepo

	default:
		memRepo := repository.NewMemoryFileRepository()
		logger.Warn("Метаданные хранятся в памяти и теряются при перезапуске")

		repo = memRepo
		b.checks["metadata"] = memRepo
	}

	if cfg.CacheSize > 0 {
		repo = repository.NewCachedFileRepository(repo, cfg.CacheSize, cfg.CacheTTL)
		logger.Info("Кэш метаданных включён",
			slog.Int("size", cfg.CacheSize),
			slog.String("ttl", cfg.CacheTTL.String()),
		)
	}

	b.repo = repo
	return nil
}

// setupBlobs создаёт blob-хранилище выбранного бэкенда.
func setupBlobs(ctx context.Context, cfg *config.Config, logger *slog.Logger, b *backends) error {
	switch cfg.BlobBackend {
	case config.BlobS3:
		store, err := s3store.New(s3store.Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			UseSSL:    cfg.S3UseSSL,
		})
		if err != nil {
			return err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return err
		}
		logger.Info("S3-хранилище подключено",
			slog.String("endpoint", cfg.S3Endpoint),
			slog.String("bucket", cfg.S3Bucket),
		)

		b.blobs = store
		b.checks["storage"] = store
		b.deps.S3URL = cfg.S3URL()

	default:
		store, err := filestore.New(filestore.Config{Dir: cfg.StorageDir})
		if err != nil {
			return err
		}
		logger.Info("Локальное хранилище инициализировано", slog.String("dir", store.Dir()))

		b.blobs = store
		b.checks["storage"] = store
	}
	return nil
}

// setupAuth возвращает middleware аутентификации выбранного режима.
func setupAuth(cfg *config.Config, logger *slog.Logger) (func(http.Handler) http.Handler, error) {
	if cfg.AuthMode == config.AuthModeJWT {
		jwtAuth, err := middleware.NewJWTAuth(middleware.JWTAuthConfig{
			JWKSURL:         cfg.JWKSURL,
			CACertPath:      cfg.JWKSCACert,
			TLSSkipVerify:   cfg.TLSSkipVerify,
			ClientTimeout:   cfg.JWKSClientTimeout,
			RefreshInterval: cfg.JWKSRefreshInterval,
			JWTLeeway:       cfg.JWTLeeway,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("ошибка инициализации JWT: %w", err)
		}
		logger.Info("JWT аутентификация настроена", slog.String("jwks_url", cfg.JWKSURL))
		return jwtAuth.Middleware(), nil
	}

	logger.Info("Basic-аутентификация настроена", slog.String("user", cfg.BasicUser))
	return middleware.NewBasicAuth(cfg.BasicUser, cfg.BasicPassword, logger).Middleware(), nil
}
