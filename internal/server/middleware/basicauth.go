// file: internal/server/middleware/basicauth.go
// version: 1.1.0
// guid: 5c6d7e8f-9a0b-1c2d-3e4f-5a6b7c8d9e0f

package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/jdfalk/ebook-library/internal/config"
)

const adminUsername = "admin"

// BasicAuth returns a Gin middleware that enforces HTTP Basic
// Authentication when an admin password hash is configured. The
// password is stored as a bcrypt hash. Health and metrics endpoints
// are exempt so probes keep working.
func BasicAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		hash := config.AppConfig.AdminPassword
		if hash == "" {
			c.Next()
			return
		}

		path := c.Request.URL.Path
		if path == "/api/health" || path == "/api/v1/health" || path == "/metrics" {
			c.Next()
			return
		}

		user, pass, ok := c.Request.BasicAuth()
		if !ok {
			challenge(c)
			return
		}

		userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(adminUsername)) == 1
		passMatch := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pass)) == nil

		if !userMatch || !passMatch {
			challenge(c)
			return
		}

		c.Next()
	}
}

func challenge(c *gin.Context) {
	c.Header("WWW-Authenticate", `Basic realm="Ebook Library"`)
	c.AbortWithStatus(http.StatusUnauthorized)
}
