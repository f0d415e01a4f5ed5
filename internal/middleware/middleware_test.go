package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkdeck/api/internal/models"
	"linkdeck/api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuthenticator map[string]*models.SessionWithUser

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (*models.SessionWithUser, error) {
	session, ok := s[token]
	if !ok {
		return nil, service.ErrUnauthenticated
	}
	return session, nil
}

type stubGate map[string]models.Role

func (g stubGate) Authorize(_ context.Context, userID string, workspaceID string, action service.Action) (models.WorkspaceMember, error) {
	role, ok := g[workspaceID+"/"+userID]
	if !ok {
		return models.WorkspaceMember{}, service.ErrWorkspaceNotFound
	}
	member := models.WorkspaceMember{ID: "m1", UserID: userID, WorkspaceID: workspaceID, Role: role}
	if !role.AtLeast(service.MinimumRole(action)) {
		return member, service.ErrInsufficientRole
	}
	return member, nil
}

func newTestEngine() *gin.Engine {
	auth := stubAuthenticator{
		"good": {Session: models.Session{ID: "s1", UserID: "u1"}, User: models.User{ID: "u1", Email: "ann@x.com"}},
	}
	gate := stubGate{"w1/u1": models.RoleEditor}

	engine := gin.New()
	engine.Use(RequestID(), Logger(zerolog.Nop()), Recovery(zerolog.Nop()))

	engine.GET("/me", Auth(auth), func(c *gin.Context) {
		user, _ := CurrentUser(c)
		session, _ := CurrentSession(c)
		c.JSON(http.StatusOK, gin.H{"user": user.ID, "session": session.ID})
	})
	engine.POST("/w/:workspaceId", Auth(auth), RequireWorkspaceRole(gate, service.ActionEditContent), func(c *gin.Context) {
		member, _ := CurrentMember(c)
		c.String(http.StatusOK, string(member.Role))
	})
	engine.DELETE("/w/:workspaceId", Auth(auth), RequireWorkspaceRole(gate, service.ActionManageMembers), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	engine.GET("/panic", func(*gin.Context) { panic("boom") })
	return engine
}

func TestAuth(t *testing.T) {
	engine := newTestEngine()

	tests := []struct {
		name   string
		cookie string
		want   int
	}{
		{"no cookie", "", http.StatusUnauthorized},
		{"unknown token", "bad", http.StatusUnauthorized},
		{"valid", "good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				assert.JSONEq(t, `{"user":"u1","session":"s1"}`, rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), `"error"`)
			}
		})
	}
}

func TestRequireWorkspaceRole(t *testing.T) {
	engine := newTestEngine()

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"editor may edit", http.MethodPost, "/w/w1", http.StatusOK},
		{"editor may not manage members", http.MethodDelete, "/w/w1", http.StatusForbidden},
		{"non-member sees not found", http.MethodPost, "/w/w2", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good"})
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRecoveryAndRequestID(t *testing.T) {
	engine := newTestEngine()

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set(requestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
	assert.Equal(t, "req-123", rec.Header().Get(requestIDHeader))
}

func TestCORS(t *testing.T) {
	engine := gin.New()
	engine.Use(CORS([]string{"https://app.linkdeck.test"}))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://app.linkdeck.test")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.linkdeck.test", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.test")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDRejectsUnsafeValues(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, incoming := range []string{"bad id\r\nx", strings.Repeat("a", maxRequestIDLen+1), ""} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(requestIDHeader, incoming)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		got := rec.Header().Get(requestIDHeader)
		assert.NotEqual(t, incoming, got)
		assert.Len(t, got, 36)
	}
}
