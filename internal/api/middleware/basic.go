// basic.go — HTTP Basic аутентификация (FA_AUTH_MODE=basic).
package middleware

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/goartstore/file-api/internal/api/errors"
)

// basicRealm — значение realm в заголовке WWW-Authenticate.
const basicRealm = "file-api"

// BasicAuth — middleware проверки HTTP Basic против одной пары учётных данных.
type BasicAuth struct {
	userHash     [sha256.Size]byte
	passwordHash [sha256.Size]byte
	logger       *slog.Logger
}

// NewBasicAuth создаёт middleware HTTP Basic.
func NewBasicAuth(user, password string, logger *slog.Logger) *BasicAuth {
	return &BasicAuth{
		userHash:     sha256.Sum256([]byte(user)),
		passwordHash: sha256.Sum256([]byte(password)),
		logger:       logger.With(slog.String("component", "basic_auth")),
	}
}

// Middleware возвращает HTTP middleware. При успехе имя пользователя
// помещается в контекст и доступно через SubjectFromContext.
func (b *BasicAuth) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, password, ok := r.BasicAuth()
			if !ok {
				w.Header().Set("WWW-Authenticate", `Basic realm="`+basicRealm+`", charset="UTF-8"`)
				apierrors.Unauthorized(w, "Требуется аутентификация")
				return
			}

			// Сравниваем хэши: время не зависит ни от совпадения, ни от длины
			userHash := sha256.Sum256([]byte(user))
			passwordHash := sha256.Sum256([]byte(password))
			userOK := subtle.ConstantTimeCompare(userHash[:], b.userHash[:]) == 1
			passwordOK := subtle.ConstantTimeCompare(passwordHash[:], b.passwordHash[:]) == 1
			if !userOK || !passwordOK {
				b.logger.Debug("Неверные учётные данные",
					slog.String("user", user),
					slog.String("remote_addr", r.RemoteAddr),
				)
				w.Header().Set("WWW-Authenticate", `Basic realm="`+basicRealm+`", charset="UTF-8"`)
				apierrors.Unauthorized(w, "Неверные учётные данные")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySubject, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
