package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"linkdeck/api/internal/config"
	"linkdeck/api/internal/handlers"
	"linkdeck/api/internal/mail/mailtest"
	"linkdeck/api/internal/repository/memstore"
)

func TestServerRoutesAndMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.AppConfig{
		Environment:      "test",
		HTTP:             config.HTTPConfig{Host: "127.0.0.1", Port: 0},
		Security:         config.SecurityConfig{SessionTTL: time.Hour, VerificationTTL: time.Hour, BcryptCost: 4},
		AllowCORSOrigins: []string{"https://app.linkdeck.test"},
	}
	set := handlers.NewHandlerSet(zerolog.Nop(), cfg, handlers.Dependencies{
		Store:  memstore.New(),
		Mailer: &mailtest.Recorder{},
	})
	srv := NewHTTPServer(cfg, zerolog.Nop(), set)

	req := httptest.NewRequest(http.MethodGet, "/api/healthz", nil)
	req.Header.Set("Origin", "https://app.linkdeck.test")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	assert.Equal(t, "https://app.linkdeck.test", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/workspaces", nil)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
