package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bigkaa/goartstore/file-api/internal/domain/model"
)

// testRecord возвращает запись со всеми заполненными полями.
func testRecord(filename string) *model.FileRecord {
	meta := `{"creatorEmployeeId":1}`
	expire := time.Date(2030, 1, 2, 3, 4, 5, 678_000_000, time.UTC)
	return &model.FileRecord{
		Filename:    filename,
		Size:        5,
		ContentType: "text/plain",
		ExpireTime:  &expire,
		Meta:        &meta,
		Source:      "ci",
	}
}

// runRepositoryContract проверяет поведение, общее для всех реализаций FileRepository.
func runRepositoryContract(t *testing.T, repo FileRepository) {
	t.Helper()
	ctx := context.Background()

	t.Run("Save генерирует токен и время создания", func(t *testing.T) {
		before := time.Now().UTC().Truncate(time.Millisecond)

		saved, err := repo.Save(ctx, testRecord("test.txt"))
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
		if saved.Token == "" {
			t.Fatal("токен не сгенерирован")
		}
		if saved.CreateTime.Before(before) {
			t.Errorf("CreateTime %v раньше начала теста %v", saved.CreateTime, before)
		}

		got, err := repo.FindByToken(ctx, saved.Token)
		if err != nil {
			t.Fatalf("FindByToken: %v", err)
		}
		assertRecordEqual(t, saved, got)
	})

	t.Run("Save без опциональных полей", func(t *testing.T) {
		saved, err := repo.Save(ctx, &model.FileRecord{
			Filename:    "plain.bin",
			Size:        0,
			ContentType: "application/octet-stream",
			Source:      "test",
		})
		if err != nil {
			t.Fatalf("Save: %v", err)
		}

		got, err := repo.FindByToken(ctx, saved.Token)
		if err != nil {
			t.Fatalf("FindByToken: %v", err)
		}
		if got.ExpireTime != nil || got.Meta != nil {
			t.Errorf("опциональные поля должны быть nil: expire=%v meta=%v", got.ExpireTime, got.Meta)
		}
	})

	t.Run("Save с занятым токеном", func(t *testing.T) {
		rec := testRecord("dup.txt")
		rec.Token = "00000000-0000-0000-0000-000000000001"
		if _, err := repo.Save(ctx, rec); err != nil {
			t.Fatalf("Save: %v", err)
		}
		if _, err := repo.Save(ctx, rec); !errors.Is(err, ErrConflict) {
			t.Fatalf("ожидалась ErrConflict, получено %v", err)
		}
	})

	t.Run("FindByToken неизвестного токена", func(t *testing.T) {
		if _, err := repo.FindByToken(ctx, "unknown-token"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("ожидалась ErrNotFound, получено %v", err)
		}
	})

	t.Run("FindByTokens возвращает только известные", func(t *testing.T) {
		a, err := repo.Save(ctx, testRecord("a.txt"))
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
		b, err := repo.Save(ctx, testRecord("b.txt"))
		if err != nil {
			t.Fatalf("Save: %v", err)
		}

		got, err := repo.FindByTokens(ctx, []string{a.Token, "bad-token", b.Token})
		if err != nil {
			t.Fatalf("FindByTokens: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("найдено %d записей, ожидалось 2", len(got))
		}
		assertRecordEqual(t, a, got[a.Token])
		assertRecordEqual(t, b, got[b.Token])

		empty, err := repo.FindByTokens(ctx, nil)
		if err != nil {
			t.Fatalf("FindByTokens(nil): %v", err)
		}
		if len(empty) != 0 {
			t.Errorf("FindByTokens(nil) вернул %d записей", len(empty))
		}
	})

	t.Run("DeleteByToken и ExistsByToken", func(t *testing.T) {
		keep, err := repo.Save(ctx, testRecord("keep.txt"))
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
		victim, err := repo.Save(ctx, testRecord("victim.txt"))
		if err != nil {
			t.Fatalf("Save: %v", err)
		}

		exists, err := repo.ExistsByToken(ctx, victim.Token)
		if err != nil || !exists {
			t.Fatalf("ExistsByToken до удаления = %v, %v", exists, err)
		}

		n, err := repo.DeleteByToken(ctx, victim.Token)
		if err != nil {
			t.Fatalf("DeleteByToken: %v", err)
		}
		if n != 1 {
			t.Errorf("удалено %d, ожидалось 1", n)
		}

		exists, err = repo.ExistsByToken(ctx, victim.Token)
		if err != nil || exists {
			t.Fatalf("ExistsByToken после удаления = %v, %v", exists, err)
		}

		n, err = repo.DeleteByToken(ctx, victim.Token)
		if err != nil {
			t.Fatalf("повторный DeleteByToken: %v", err)
		}
		if n != 0 {
			t.Errorf("повторно удалено %d, ожидалось 0", n)
		}

		if _, err := repo.FindByToken(ctx, keep.Token); err != nil {
			t.Errorf("посторонняя запись пострадала: %v", err)
		}
	})
}

// assertRecordEqual сравнивает записи поле за полем.
func assertRecordEqual(t *testing.T, want, got *model.FileRecord) {
	t.Helper()

	if got == nil {
		t.Fatal("запись nil")
	}
	if got.Token != want.Token || got.Filename != want.Filename || got.Size != want.Size ||
		got.ContentType != want.ContentType || got.Source != want.Source {
		t.Errorf("запись не совпадает:\n  ожидалось %+v\n  получено  %+v", want, got)
	}
	if !got.CreateTime.Equal(want.CreateTime) {
		t.Errorf("CreateTime = %v, ожидалось %v", got.CreateTime, want.CreateTime)
	}
	if (got.ExpireTime == nil) != (want.ExpireTime == nil) ||
		(got.ExpireTime != nil && !got.ExpireTime.Equal(*want.ExpireTime)) {
		t.Errorf("ExpireTime = %v, ожидалось %v", got.ExpireTime, want.ExpireTime)
	}
	if (got.Meta == nil) != (want.Meta == nil) || (got.Meta != nil && *got.Meta != *want.Meta) {
		t.Errorf("Meta = %v, ожидалось %v", got.Meta, want.Meta)
	}
}
