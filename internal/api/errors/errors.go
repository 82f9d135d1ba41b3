// Пакет errors — конструкторы стандартных ошибок File API.
// Единый формат: {"data": null, "errors": [{"code": "...", "message": "..."}], "status": N}.
// Все HTTP-ответы с ошибками должны использовать WriteError или WriteErrors.
package errors //nolint:revive // конфликт имени со stdlib, импортируется как apierrors

import (
	"encoding/json"
	"net/http"
)

// Коды ошибок, определённые в OpenAPI контракте.
const (
	CodeValidationError   = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeFileTooLarge      = "FILE_TOO_LARGE"
	CodeInconsistentState = "INCONSISTENT_STATE"
	CodeInternalError     = "INTERNAL_ERROR"
)

// Detail — одна ошибка в массиве errors.
type Detail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// envelope — тело ответа ошибки.
type envelope struct {
	Data   any      `json:"data"`
	Errors []Detail `json:"errors"`
	Status int      `json:"status"`
}

// WriteErrors записывает ответ с несколькими ошибками (например, по одной на поле формы).
func WriteErrors(w http.ResponseWriter, statusCode int, details []Detail) {
	if details == nil {
		details = []Detail{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(envelope{
		Data:   nil,
		Errors: details,
		Status: statusCode,
	})
}

// WriteError записывает ответ с одной ошибкой.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	WriteErrors(w, statusCode, []Detail{{Code: code, Message: message}})
}

// --- Конструкторы для типичных ошибок ---

// ValidationError — 400 некорректные входные данные.
func ValidationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, CodeValidationError, message)
}

// ValidationErrors — 400 с отдельной ошибкой на каждое сообщение.
func ValidationErrors(w http.ResponseWriter, messages []string) {
	details := make([]Detail, 0, len(messages))
	for _, m := range messages {
		details = append(details, Detail{Code: CodeValidationError, Message: m})
	}
	WriteErrors(w, http.StatusBadRequest, details)
}

// NotFound — 404 файл не найден.
func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, CodeNotFound, message)
}

// Unauthorized — 401 требуется аутентификация.
func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, CodeUnauthorized, message)
}

// FileTooLarge — 413 файл превышает лимит.
func FileTooLarge(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusRequestEntityTooLarge, CodeFileTooLarge, message)
}

// InconsistentState — 500 содержимое и метаданные рассогласованы.
func InconsistentState(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, CodeInconsistentState, message)
}

// InternalError — 500 внутренняя ошибка.
func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, CodeInternalError, message)
}
