package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

// setupTestMongo запускает MongoDB и возвращает подключённый репозиторий.
// Образ 4.4 — последняя ветка, совместимая с протоколом mgo.
func setupTestMongo(t *testing.T) *MongoFileRepository {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("Пропуск интеграционного теста: TEST_INTEGRATION не установлена")
	}

	ctx := context.Background()

	container, err := mongodb.Run(ctx, "docker.io/mongo:4.4")
	if err != nil {
		t.Fatalf("Не удалось запустить MongoDB контейнер: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Ошибка остановки контейнера: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("Не удалось получить строку подключения: %v", err)
	}

	repo, err := DialMongo(MongoConfig{
		URL:        uri,
		Database:   "fileapi_test",
		Collection: "files",
		Timeout:    10 * time.Second,
	})
	if err != nil {
		t.Fatalf("DialMongo: %v", err)
	}
	t.Cleanup(repo.Close)
	return repo
}

func TestMongoFileRepository_Contract(t *testing.T) {
	repo := setupTestMongo(t)
	runRepositoryContract(t, repo)

	if status, msg := repo.CheckReady(); status != "ok" {
		t.Errorf("CheckReady = %s (%s), ожидалось ok", status, msg)
	}
}

// TestFileDoc_RoundTrip проверяет преобразование модели в документ и обратно.
func TestFileDoc_RoundTrip(t *testing.T) {
	rec := testRecord("doc.txt")
	rec.Token = "tok"
	rec.CreateTime = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	got := docFromModel(rec).toModel()
	assertRecordEqual(t, rec, got)

	local := time.Date(2024, 5, 6, 10, 8, 9, 0, time.FixedZone("MSK", 3*3600))
	doc := &fileDoc{Token: "t", CreateTime: local, ExpireTime: &local}
	m := doc.toModel()
	if m.CreateTime.Location() != time.UTC || m.ExpireTime.Location() != time.UTC {
		t.Error("время из MongoDB должно приводиться к UTC")
	}
}
