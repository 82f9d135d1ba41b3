// Пакет s3store — blob-хранилище в S3-совместимом object storage (MinIO, AWS S3).
// Ключ объекта совпадает с ключом blob-хранилища, все объекты лежат в одном bucket.
package s3store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/bigkaa/goartstore/file-api/internal/storage"
)

// readyTimeout — таймаут проверки готовности S3.
const readyTimeout = 3 * time.Second

// Config — параметры подключения к S3.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// S3Store — blob-хранилище поверх minio-go.
type S3Store struct {
	client *minio.Client
	bucket string
	region string
}

var _ storage.BlobStore = (*S3Store)(nil)

// New создаёт клиент S3. Сетевых запросов не выполняет,
// наличие bucket проверяется в EnsureBucket.
func New(cfg Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("не задан bucket")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("инициализация клиента S3: %w", err)
	}

	return &S3Store{
		client: client,
		bucket: cfg.Bucket,
		region: cfg.Region,
	}, nil
}

// EnsureBucket создаёт bucket, если он не существует.
func (s *S3Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("проверка bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return fmt.Errorf("создание bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Store загружает объект. PutObject в S3 атомарен: объект появляется
// под ключом только после успешного завершения загрузки.
func (s *S3Store) Store(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}

	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := s.client.PutObject(ctx, s.bucket, key, r, size, opts); err != nil {
		return fmt.Errorf("загрузка объекта %s: %w", key, err)
	}
	return nil
}

// Fetch открывает объект для чтения. minio.Object поддерживает Seek.
func (s *S3Store) Fetch(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := storage.ValidateKey(key); err != nil {
		return nil, err
	}

	// GetObject ленивый, отсутствие объекта выясняем заранее через StatObject
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", storage.ErrBlobNotFound, key)
		}
		return nil, fmt.Errorf("получение информации об объекте %s: %w", key, err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("получение объекта %s: %w", key, err)
	}
	return obj, nil
}

// Delete удаляет первый объект, ключ которого начинается с prefix.
func (s *S3Store) Delete(ctx context.Context, prefix string) error {
	if err := storage.ValidateKey(prefix); err != nil {
		return err
	}

	listCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	for obj := range s.client.ListObjects(listCtx, s.bucket, minio.ListObjectsOptions{Prefix: prefix}) {
		if obj.Err != nil {
			return fmt.Errorf("поиск объекта по префиксу %s: %w", prefix, obj.Err)
		}
		// Остальные страницы листинга не нужны
		cancel()

		if err := s.client.RemoveObject(ctx, s.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("удаление объекта %s: %w", obj.Key, err)
		}
		return nil
	}

	return fmt.Errorf("%w: %s*", storage.ErrBlobNotFound, prefix)
}

// CheckReady проверяет доступность bucket.
func (s *S3Store) CheckReady() (status, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), readyTimeout)
	defer cancel()

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return "fail", "S3 недоступен: " + err.Error()
	}
	if !exists {
		return "fail", fmt.Sprintf("bucket %s не существует", s.bucket)
	}
	return "ok", "S3 доступен"
}

// EndpointURL возвращает URL S3 endpoint (для мониторинга зависимостей).
func (s *S3Store) EndpointURL() string {
	return s.client.EndpointURL().String()
}

// isNotFound определяет, что S3 ответил «объект не найден».
func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}
