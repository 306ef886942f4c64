// file: internal/server/middleware/basicauth_test.go
// version: 1.0.0
// guid: 8f9a0b1c-2d3e-4f5a-6b7c-8d9e0f1a2b3d

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/jdfalk/ebook-library/internal/config"
)

func newAuthedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(BasicAuth())
	r.GET("/api/v1/books", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func setAdminPassword(t *testing.T, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	config.AppConfig.AdminPassword = string(hash)
	t.Cleanup(func() { config.AppConfig.AdminPassword = "" })
}

func TestBasicAuthDisabledWhenNoPassword(t *testing.T) {
	config.AppConfig.AdminPassword = ""
	r := newAuthedRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/books", nil))
	if w.Code != http.StatusOK {
		t.Errorf("code = %d, want 200", w.Code)
	}
}

func TestBasicAuthRejectsMissingCredentials(t *testing.T) {
	setAdminPassword(t, "secret")
	r := newAuthedRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/books", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("code = %d, want 401", w.Code)
	}
	if w.Header().Get("WWW-Authenticate") == "" {
		t.Error("missing WWW-Authenticate challenge")
	}
}

func TestBasicAuthRejectsWrongPassword(t *testing.T) {
	setAdminPassword(t, "secret")
	r := newAuthedRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/books", nil)
	req.SetBasicAuth("admin", "wrong")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("code = %d, want 401", w.Code)
	}
}

func TestBasicAuthAcceptsValidCredentials(t *testing.T) {
	setAdminPassword(t, "secret")
	r := newAuthedRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/books", nil)
	req.SetBasicAuth("admin", "secret")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("code = %d, want 200", w.Code)
	}
}

func TestBasicAuthExemptsHealth(t *testing.T) {
	setAdminPassword(t, "secret")
	r := newAuthedRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("code = %d, want 200", w.Code)
	}
}
