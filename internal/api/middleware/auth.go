// auth.go — аутентификация по Bearer JWT (FA_AUTH_MODE=jwt).
// Подпись RS256 проверяется ключами из JWKS, ключи периодически обновляются.
package middleware

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	apierrors "github.com/bigkaa/goartstore/file-api/internal/api/errors"
)

type contextKey string

// ContextKeySubject — ключ идентификатора клиента в контексте запроса:
// sub из JWT или имя пользователя HTTP Basic.
const ContextKeySubject contextKey = "auth_subject"

const bearerPrefix = "bearer "

// errNoSubject — токен валиден, но не содержит sub.
var errNoSubject = errors.New("в токене нет claim sub")

// JWTAuthConfig — параметры JWT-аутентификации.
type JWTAuthConfig struct {
	// JWKSURL — адрес набора публичных ключей
	JWKSURL string
	// CACertPath — PEM-файл дополнительного CA для JWKS endpoint (опционально)
	CACertPath string
	// TLSSkipVerify отключает проверку сертификата JWKS endpoint
	TLSSkipVerify bool
	// ClientTimeout — таймаут одного запроса за JWKS
	ClientTimeout time.Duration
	// RefreshInterval — период обновления ключей
	RefreshInterval time.Duration
	// JWTLeeway — допуск расхождения часов для exp/nbf/iat
	JWTLeeway time.Duration
}

// JWTAuth проверяет Bearer-токены.
type JWTAuth struct {
	keys   keyfunc.Keyfunc
	parser *jwt.Parser
	logger *slog.Logger
}

// NewJWTAuth создаёт JWTAuth с ключами из JWKS endpoint.
// Недоступность endpoint при старте не является ошибкой: ключи
// подтянутся при следующем обновлении.
func NewJWTAuth(authCfg JWTAuthConfig, logger *slog.Logger) (*JWTAuth, error) {
	client, err := newJWKSClient(authCfg)
	if err != nil {
		return nil, err
	}

	store, err := jwkset.NewStorageFromHTTP(authCfg.JWKSURL, jwkset.HTTPClientStorageOptions{
		Client:                    client,
		NoErrorReturnFirstHTTPReq: true,
		RefreshInterval:           authCfg.RefreshInterval,
		RefreshErrorHandler: func(_ context.Context, err error) {
			logger.Error("Не удалось обновить JWKS",
				slog.String("url", authCfg.JWKSURL),
				slog.String("error", err.Error()),
			)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("JWKS %s: %w", authCfg.JWKSURL, err)
	}

	kf, err := keyfunc.New(keyfunc.Options{Storage: store})
	if err != nil {
		return nil, fmt.Errorf("keyfunc: %w", err)
	}

	return NewJWTAuthWithKeyfunc(kf, authCfg.JWTLeeway, logger), nil
}

// NewJWTAuthWithKeyfunc создаёт JWTAuth с готовым источником ключей.
func NewJWTAuthWithKeyfunc(kf keyfunc.Keyfunc, jwtLeeway time.Duration, logger *slog.Logger) *JWTAuth {
	return &JWTAuth{
		keys: kf,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(jwtLeeway),
		),
		logger: logger.With(slog.String("component", "jwt_auth")),
	}
}

// newJWKSClient возвращает HTTP-клиент для JWKS endpoint.
func newJWKSClient(authCfg JWTAuthConfig) (*http.Client, error) {
	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: authCfg.TLSSkipVerify, //nolint:gosec // FA_TLS_SKIP_VERIFY
	}

	if authCfg.CACertPath != "" {
		pem, err := os.ReadFile(authCfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("чтение CA-сертификата %s: %w", authCfg.CACertPath, err)
		}
		pool, err := x509.SystemCertPool()
		if err != nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("в %s нет PEM-сертификатов", authCfg.CACertPath)
		}
		tlsConfig.RootCAs = pool
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsConfig

	return &http.Client{Timeout: authCfg.ClientTimeout, Transport: transport}, nil
}

// Middleware пропускает запрос дальше только с валидным Bearer-токеном
// и кладёт его sub в контекст.
func (j *JWTAuth) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, problem := bearerToken(r.Header.Get("Authorization"))
			if problem != "" {
				apierrors.Unauthorized(w, problem)
				return
			}

			subject, err := j.verify(r.Context(), raw)
			if err != nil {
				j.logger.Debug("Токен отклонён",
					slog.String("remote_addr", r.RemoteAddr),
					slog.String("error", err.Error()),
				)
				if errors.Is(err, errNoSubject) {
					apierrors.Unauthorized(w, "Отсутствует sub в токене")
				} else {
					apierrors.Unauthorized(w, "Невалидный или просроченный токен")
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ContextKeySubject, subject)))
		})
	}
}

// verify проверяет подпись и сроки токена и возвращает его sub.
func (j *JWTAuth) verify(ctx context.Context, raw string) (string, error) {
	var claims jwt.RegisteredClaims
	if _, err := j.parser.ParseWithClaims(raw, &claims, j.keys.KeyfuncCtx(ctx)); err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", errNoSubject
	}
	return claims.Subject, nil
}

// bearerToken извлекает токен из заголовка Authorization.
// Вторым значением возвращает причину отказа для клиента.
func bearerToken(header string) (string, string) {
	if header == "" {
		return "", "Отсутствует заголовок Authorization"
	}
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", "Неверный формат Authorization: ожидается Bearer <token>"
	}
	raw := strings.TrimSpace(header[len(bearerPrefix):])
	if raw == "" {
		return "", "Пустой Bearer token"
	}
	return raw, ""
}

// SubjectFromContext возвращает идентификатор клиента из контекста
// или пустую строку для публичных запросов.
func SubjectFromContext(ctx context.Context) string {
	subject, _ := ctx.Value(ContextKeySubject).(string)
	return subject
}
