// Пакет model — доменные модели File API.
// FileRecord — метаданные загруженного файла, хранятся в репозитории
// метаданных; содержимое файла хранится отдельно в blob-хранилище
// под ключом {token}.{filename}.
package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// TokenLength — длина токена: UUID в каноническом виде.
	TokenLength = 36
	// MaxBlobKeyLength — ограничение длины имени файла в файловой системе (NAME_MAX).
	MaxBlobKeyLength = 255
	// MaxFilenameLength — максимальная длина имени файла в байтах,
	// при которой ключ {token}.{filename} укладывается в MaxBlobKeyLength.
	MaxFilenameLength = MaxBlobKeyLength - TokenLength - 1
)

// CreateTimeLayout — формат времени создания в заголовках ответа на скачивание.
const CreateTimeLayout = "2006-01-02T15:04:05.000Z"

// Ошибки валидации имени файла.
var (
	ErrEmptyFilename   = errors.New("имя файла не задано")
	ErrInvalidFilename = errors.New("недопустимое имя файла")
	ErrInvalidToken    = errors.New("недопустимый токен")
)

// FileRecord — метаданные файла.
type FileRecord struct {
	// Token — непрозрачный идентификатор файла (UUID), выдаётся репозиторием при сохранении
	Token string

	// Filename — оригинальное имя файла
	Filename string

	// Size — размер в байтах, указанный клиентом
	Size int64

	// ContentType — MIME-тип, указанный клиентом
	ContentType string

	// CreateTime — момент сохранения записи (UTC, точность до миллисекунд)
	CreateTime time.Time

	// ExpireTime — срок хранения (справочно, автоматически не удаляется)
	ExpireTime *time.Time

	// Meta — произвольный JSON-текст, не разбирается
	Meta *string

	// Source — система-источник загрузки
	Source string
}

// BlobKey возвращает ключ содержимого файла в blob-хранилище.
func BlobKey(token, filename string) string {
	return token + "." + filename
}

// BlobKeyPrefix возвращает префикс, по которому находится содержимое файла
// при удалении (имя файла в этот момент не используется).
func BlobKeyPrefix(token string) string {
	return token + "."
}

// BlobKey возвращает ключ содержимого этой записи.
func (f *FileRecord) BlobKey() string {
	return BlobKey(f.Token, f.Filename)
}

// ValidateToken проверяет, что token — UUID в каноническом виде.
// Только такой токен можно превращать в префикс ключа: иначе
// "{token}.{начало имени}" совпал бы с содержимым чужой записи.
func ValidateToken(token string) error {
	if len(token) != TokenLength {
		return ErrInvalidToken
	}
	if _, err := uuid.Parse(token); err != nil {
		return ErrInvalidToken
	}
	return nil
}

// ValidateFilename проверяет, что имя файла можно безопасно использовать
// как часть ключа blob-хранилища.
func ValidateFilename(name string) error {
	if name == "" {
		return ErrEmptyFilename
	}
	if len(name) > MaxFilenameLength {
		return ErrInvalidFilename
	}
	if name == "." || name == ".." || strings.ContainsAny(name, "/\\\x00") {
		return ErrInvalidFilename
	}
	return nil
}

// NowUTC возвращает текущее время в UTC, усечённое до миллисекунд.
// Все бэкенды метаданных хранят время с этой точностью.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
