package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bigkaa/goartstore/file-api/internal/storage"
)

const (
	testAccessKey = "minioadmin"
	testSecretKey = "minioadmin"
)

func TestNew_RequiresBucket(t *testing.T) {
	if _, err := New(Config{Endpoint: "localhost:9000"}); err == nil {
		t.Fatal("ожидалась ошибка для пустого bucket")
	}
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"NoSuchKey", minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}, true},
		{"404 без кода", minio.ErrorResponse{StatusCode: http.StatusNotFound}, true},
		{"AccessDenied", minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}, false},
		{"сетевая ошибка", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isNotFound(tt.err); got != tt.want {
				t.Errorf("isNotFound = %v, ожидалось %v", got, tt.want)
			}
		})
	}
}

func TestInvalidKey(t *testing.T) {
	s, err := New(Config{Endpoint: "localhost:9000", Bucket: "files"})
	if err != nil {
		t.Fatalf("ошибка создания S3Store: %v", err)
	}
	ctx := context.Background()

	if err := s.Store(ctx, "a/b", strings.NewReader("x"), 1, ""); !errors.Is(err, storage.ErrInvalidKey) {
		t.Errorf("Store: ожидалась ErrInvalidKey, получено %v", err)
	}
	if _, err := s.Fetch(ctx, ""); !errors.Is(err, storage.ErrInvalidKey) {
		t.Errorf("Fetch: ожидалась ErrInvalidKey, получено %v", err)
	}
	if err := s.Delete(ctx, ".tmp"); !errors.Is(err, storage.ErrInvalidKey) {
		t.Errorf("Delete: ожидалась ErrInvalidKey, получено %v", err)
	}
}

// setupTestS3 поднимает MinIO в контейнере и возвращает S3Store с созданным bucket.
func setupTestS3(t *testing.T) *S3Store {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("Пропуск интеграционного теста: TEST_INTEGRATION не задан")
	}

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "docker.io/minio/minio:latest",
			ExposedPorts: []string{"9000/tcp"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     testAccessKey,
				"MINIO_ROOT_PASSWORD": testSecretKey,
			},
			Cmd: []string{"server", "/data"},
			WaitingFor: wait.ForHTTP("/minio/health/live").
				WithPort("9000/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Ошибка запуска MinIO контейнера: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Ошибка остановки контейнера: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Ошибка получения хоста: %v", err)
	}
	port, err := container.MappedPort(ctx, "9000")
	if err != nil {
		t.Fatalf("Ошибка получения порта: %v", err)
	}

	s, err := New(Config{
		Endpoint:  fmt.Sprintf("%s:%s", host, port.Port()),
		AccessKey: testAccessKey,
		SecretKey: testSecretKey,
		Bucket:    "files",
	})
	if err != nil {
		t.Fatalf("Ошибка создания S3Store: %v", err)
	}
	if err := s.EnsureBucket(ctx); err != nil {
		t.Fatalf("Ошибка создания bucket: %v", err)
	}
	return s
}

func TestS3Store_Integration(t *testing.T) {
	s := setupTestS3(t)
	ctx := context.Background()

	// EnsureBucket идемпотентен
	if err := s.EnsureBucket(ctx); err != nil {
		t.Fatalf("повторный EnsureBucket: %v", err)
	}

	content := []byte("содержимое объекта")
	if err := s.Store(ctx, "tok1.test.txt", bytes.NewReader(content), int64(len(content)), "text/plain"); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if err := s.Store(ctx, "tok2.other.txt", strings.NewReader("x"), 1, "text/plain"); err != nil {
		t.Fatalf("Store: %v", err)
	}

	rc, err := s.Fetch(ctx, "tok1.test.txt")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	got, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatalf("чтение объекта: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("содержимое не совпадает: %q", got)
	}

	if _, err := s.Fetch(ctx, "missing.txt"); !errors.Is(err, storage.ErrBlobNotFound) {
		t.Errorf("Fetch отсутствующего: ожидалась ErrBlobNotFound, получено %v", err)
	}

	if err := s.Delete(ctx, "tok1."); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Fetch(ctx, "tok1.test.txt"); !errors.Is(err, storage.ErrBlobNotFound) {
		t.Errorf("объект не удалён: %v", err)
	}
	if _, err := s.Fetch(ctx, "tok2.other.txt"); err != nil {
		t.Errorf("удалён посторонний объект: %v", err)
	}

	if err := s.Delete(ctx, "tok1."); !errors.Is(err, storage.ErrBlobNotFound) {
		t.Errorf("повторный Delete: ожидалась ErrBlobNotFound, получено %v", err)
	}

	if status, msg := s.CheckReady(); status != "ok" {
		t.Errorf("CheckReady = %s (%s), ожидалось ok", status, msg)
	}
}
