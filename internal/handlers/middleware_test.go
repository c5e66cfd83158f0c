package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"sunset_relay/internal/logger"
	"sunset_relay/internal/service"

	"github.com/gin-gonic/gin"
)

func TestRequestLogger_PassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, log := range []*logger.Logger{nil, logger.Nop()} {
		h := NewHandler(&service.Service{}, log)
		r := gin.New()
		r.Use(h.requestLogger)
		r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "fine") })
		r.GET("/fail", func(c *gin.Context) {
			_ = c.Error(http.ErrAbortHandler)
			c.Status(http.StatusInternalServerError)
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
		if w.Code != http.StatusOK || w.Body.String() != "fine" {
			t.Fatalf("ok route: code=%d body=%q", w.Code, w.Body.String())
		}

		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("fail route: code=%d", w.Code)
		}
	}
}
