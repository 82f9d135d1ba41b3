package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBasicAuth(t *testing.T) {
	auth := NewBasicAuth("ci", "s3cret", testLogger())

	tests := []struct {
		name     string
		user     string
		password string
		setAuth  bool
		want     int
	}{
		{"верные учётные данные", "ci", "s3cret", true, http.StatusOK},
		{"неверный пароль", "ci", "wrong", true, http.StatusUnauthorized},
		{"неверный пользователь", "other", "s3cret", true, http.StatusUnauthorized},
		{"префикс пароля", "ci", "s3cre", true, http.StatusUnauthorized},
		{"без заголовка", "", "", false, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotSubject string
			handler := auth.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotSubject = SubjectFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/file/abc", nil)
			if tt.setAuth {
				req.SetBasicAuth(tt.user, tt.password)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("статус = %d, ожидалось %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusOK {
				if gotSubject != "ci" {
					t.Errorf("subject = %q, ожидалось ci", gotSubject)
				}
				return
			}
			if !strings.HasPrefix(rec.Header().Get("WWW-Authenticate"), "Basic ") {
				t.Errorf("WWW-Authenticate = %q", rec.Header().Get("WWW-Authenticate"))
			}
			if !strings.Contains(rec.Body.String(), `"UNAUTHORIZED"`) {
				t.Errorf("тело ответа без кода UNAUTHORIZED: %s", rec.Body.String())
			}
		})
	}
}

func TestBasicAuth_BearerRejected(t *testing.T) {
	auth := NewBasicAuth("ci", "s3cret", testLogger())
	handler := auth.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler не должен быть вызван")
	}))

	req := httptest.NewRequest(http.MethodGet, "/file/abc", nil)
	req.Header.Set("Authorization", "Bearer abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("ожидался статус 401, получен %d", rec.Code)
	}
}
