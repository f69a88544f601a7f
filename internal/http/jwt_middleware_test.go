package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"mood-tracker/internal/domain"
	"mood-tracker/internal/service"
)

func newTestJWT() *service.JWTService {
	return service.NewJWTServiceWithStore("secret", 15*time.Minute, 30*time.Minute, service.NewMemoryRefreshTokenStore())
}

func scopeEchoRouter(jwtSvc *service.JWTService) *gin.Engine {
	r := gin.New()
	r.GET("/scoped", OptionalJWTAuthMiddleware(jwtSvc), func(c *gin.Context) {
		c.String(http.StatusOK, scopeFrom(c))
	})
	return r
}

func TestOptionalJWTAuthMiddleware_AllowsValidAccessToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwtSvc := newTestJWT()
	pair, err := jwtSvc.GeneratePair(domain.Identity{ID: "u1", Email: "user@example.com", CreatedAt: time.Now().UTC()})
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/scoped", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	scopeEchoRouter(jwtSvc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "u1" {
		t.Fatalf("expected 200 with scope u1, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestOptionalJWTAuthMiddleware_AnonymousWithoutHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)

	req := httptest.NewRequest(http.MethodGet, "/scoped", nil)
	rec := httptest.NewRecorder()
	scopeEchoRouter(nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "" {
		t.Fatalf("expected anonymous 200, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestOptionalJWTAuthMiddleware_RejectsInvalidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	req := httptest.NewRequest(http.MethodGet, "/scoped", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	scopeEchoRouter(newTestJWT()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestOptionalJWTAuthMiddleware_RejectsRefreshTokenAsAccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwtSvc := newTestJWT()
	pair, err := jwtSvc.GeneratePair(domain.Identity{ID: "u1"})
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/scoped", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	rec := httptest.NewRecorder()
	scopeEchoRouter(jwtSvc).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
