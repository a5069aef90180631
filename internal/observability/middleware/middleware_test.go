package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/KasumiMercury/primind-shake-detection/internal/observability/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(Gin(GinConfig{
		SkipPaths:  []string{"/health"},
		Module:     logging.Module("test"),
		TracerName: "test",
	}))
	r.Use(PanicRecoveryGin())

	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/echo", func(c *gin.Context) {
		c.String(http.StatusOK, logging.RequestIDFromContext(c.Request.Context()))
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func TestGin_RequestID(t *testing.T) {
	r := newRouter()

	t.Run("valid upstream id is propagated", func(t *testing.T) {
		id := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/echo", nil)
		req.Header.Set(logging.RequestIDHeader, id)
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		if w.Body.String() != id {
			t.Errorf("request id in context = %q, want %q", w.Body.String(), id)
		}
		if got := w.Header().Get(logging.RequestIDHeader); got != id {
			t.Errorf("response header = %q, want %q", got, id)
		}
	})

	t.Run("missing id is generated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/echo", nil)
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		if _, err := uuid.Parse(w.Body.String()); err != nil {
			t.Errorf("generated request id %q is not a uuid", w.Body.String())
		}
	})
}

func TestGin_SkipPaths(t *testing.T) {
	r := newRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Header().Get(logging.RequestIDHeader) != "" {
		t.Error("skipped path should not get a request id header")
	}
}

func TestPanicRecoveryGin(t *testing.T) {
	r := newRouter()

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}
