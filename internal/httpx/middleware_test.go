package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shopcatalog/pkg/database"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		kind error
		want int
	}{
		{database.ErrNotFound, http.StatusNotFound},
		{database.ErrConstraintViolation, http.StatusConflict},
		{database.ErrStorageUnavailable, http.StatusServiceUnavailable},
		{database.ErrQueryFailure, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		err := fmt.Errorf("handler: %w", &database.StorageError{Op: "op", Kind: tc.kind})
		if got := StatusFor(err); got != tc.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tc.kind, got, tc.want)
		}
	}
	if got := StatusFor(errors.New("other")); got != http.StatusInternalServerError {
		t.Errorf("plain error = %d", got)
	}
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Logger(zap.NewNop()))
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	minted := w.Header().Get(RequestIDHeader)
	if minted == "" || w.Body.String() != minted {
		t.Errorf("minted id %q, body %q", minted, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("incoming id not reused: %q", got)
	}
}
