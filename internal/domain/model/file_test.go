package model

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestBlobKey(t *testing.T) {
	key := BlobKey("a1b2", "report.pdf")
	if key != "a1b2.report.pdf" {
		t.Errorf("BlobKey = %q, ожидалось %q", key, "a1b2.report.pdf")
	}

	rec := &FileRecord{Token: "a1b2", Filename: "report.pdf"}
	if rec.BlobKey() != key {
		t.Errorf("FileRecord.BlobKey = %q, ожидалось %q", rec.BlobKey(), key)
	}

	if !strings.HasPrefix(key, BlobKeyPrefix("a1b2")) {
		t.Errorf("ключ %q не начинается с префикса %q", key, BlobKeyPrefix("a1b2"))
	}
}

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"обычное имя", "test.txt", nil},
		{"без расширения", "README", nil},
		{"с пробелами", "my file (1).txt", nil},
		{"юникод", "отчёт.docx", nil},
		{"пустое", "", ErrEmptyFilename},
		{"точка", ".", ErrInvalidFilename},
		{"две точки", "..", ErrInvalidFilename},
		{"слэш", "../etc/passwd", ErrInvalidFilename},
		{"обратный слэш", `dir\file.txt`, ErrInvalidFilename},
		{"нулевой байт", "a\x00b", ErrInvalidFilename},
		{"219 байт", strings.Repeat("a", 219), ErrInvalidFilename},
		{"218 байт", strings.Repeat("a", 218), nil},
		{"многобайтовые символы сверх лимита", strings.Repeat("я", 110), ErrInvalidFilename},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilename(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateFilename(%q) = %v, ожидалось %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestNowUTC(t *testing.T) {
	now := NowUTC()
	if now.Location() != time.UTC {
		t.Errorf("location = %v, ожидалось UTC", now.Location())
	}
	if now.Nanosecond()%int(time.Millisecond) != 0 {
		t.Errorf("время %v не усечено до миллисекунд", now)
	}
}

func TestMaxFilenameLength_FitsBlobKey(t *testing.T) {
	if MaxFilenameLength != 218 {
		t.Errorf("MaxFilenameLength = %d, ожидалось 218", MaxFilenameLength)
	}
	token := "6f1c2a9e-0b7d-4e43-9d55-2f1a6c0b9e21"
	if got := len(BlobKey(token, strings.Repeat("a", MaxFilenameLength))); got != MaxBlobKeyLength {
		t.Errorf("длина ключа = %d, ожидалось %d", got, MaxBlobKeyLength)
	}
}

func TestValidateToken(t *testing.T) {
	const token = "6f1c2a9e-0b7d-4e43-9d55-2f1a6c0b9e21"

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"канонический UUID", token, nil},
		{"токен с началом имени файла", token + ".test", ErrInvalidToken},
		{"токен с точкой", token + ".", ErrInvalidToken},
		{"без дефисов", strings.ReplaceAll(token, "-", ""), ErrInvalidToken},
		{"urn-форма", "urn:uuid:" + token, ErrInvalidToken},
		{"в фигурных скобках", "{" + token + "}", ErrInvalidToken},
		{"произвольная строка", "unknown", ErrInvalidToken},
		{"пустой", "", ErrInvalidToken},
		{"не hex той же длины", strings.Repeat("z", TokenLength), ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateToken(tt.input); !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateToken(%q) = %v, ожидалось %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
