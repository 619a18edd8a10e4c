package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlminiapps/runner/middleware"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates uuid when absent", func(t *testing.T) {
		t.Parallel()

		var captured string
		h := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured = middleware.RequestIDFromContext(r.Context())
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		require.NotEmpty(t, captured)
		_, err := uuid.Parse(captured)
		assert.NoError(t, err)
		assert.Equal(t, captured, w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("reuses inbound id", func(t *testing.T) {
		t.Parallel()

		h := middleware.RequestID()(okHandler())

		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set(middleware.RequestIDHeader, "upstream-id")

		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		assert.Equal(t, "upstream-id", w.Header().Get(middleware.RequestIDHeader))
	})
}

func TestLogging(t *testing.T) {
	t.Parallel()

	t.Run("logs method path status", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(slog.NewTextHandler(&buf, nil))

		h := middleware.Logging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/admin?secret=x", nil))

		out := buf.String()
		assert.Contains(t, out, "method=GET")
		assert.Contains(t, out, "path=/admin")
		assert.Contains(t, out, "status=418")
		// Query strings carry payloads and keys; they must never be logged.
		assert.NotContains(t, out, "secret=x")
	})

	t.Run("implicit 200 on body write", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(slog.NewTextHandler(&buf, nil))

		h := middleware.Logging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("hello"))
		}))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

		assert.Contains(t, buf.String(), "status=200")
	})
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	t.Run("admin policy", func(t *testing.T) {
		t.Parallel()

		h := middleware.SecurityHeaders(middleware.AdminSecurity)(okHandler())

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/admin", nil))

		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'self'")
	})

	t.Run("app policy permits inline content", func(t *testing.T) {
		t.Parallel()

		h := middleware.SecurityHeaders(middleware.AppSecurity)(okHandler())

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		csp := w.Header().Get("Content-Security-Policy")
		assert.Contains(t, csp, "object-src 'none'")
		assert.NotContains(t, csp, "script-src")
	})

	t.Run("empty fields skipped", func(t *testing.T) {
		t.Parallel()

		h := middleware.SecurityHeaders(middleware.SecurityHeadersConfig{
			ContentTypeOptions: "nosniff",
		})(okHandler())

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Empty(t, w.Header().Get("Content-Security-Policy"))
		assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
	})
}
