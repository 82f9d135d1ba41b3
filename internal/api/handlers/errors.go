package handlers

import (
	"errors"
	"net/http"

	apierrors "github.com/bigkaa/goartstore/file-api/internal/api/errors"
	"github.com/bigkaa/goartstore/file-api/internal/service"
)

// writeServiceError переводит ошибку сервисного слоя в HTTP-ответ.
// Клиент видит только Message; причина логируется сервисом.
func writeServiceError(w http.ResponseWriter, err error) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		apierrors.InternalError(w, "Внутренняя ошибка сервера")
		return
	}

	switch {
	case errors.Is(svcErr.Kind, service.ErrNotFound):
		apierrors.NotFound(w, svcErr.Message)
	case errors.Is(svcErr.Kind, service.ErrValidation):
		apierrors.ValidationError(w, svcErr.Message)
	case errors.Is(svcErr.Kind, service.ErrInconsistent):
		apierrors.InconsistentState(w, svcErr.Message)
	default:
		apierrors.InternalError(w, svcErr.Message)
	}
}
