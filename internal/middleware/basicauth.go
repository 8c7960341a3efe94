package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/response"
)

// BasicAuth protects operational endpoints with a single bcrypt credential.
// With no configured user the endpoint stays open, which suits development.
func BasicAuth(user, passwordHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user == "" {
			c.Next()
			return
		}

		reqUser, reqPass, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", `Basic realm="metrics"`)
			response.Error(c, appErrors.ErrUnauthenticated)
			c.Abort()
			return
		}

		userMatch := subtle.ConstantTimeCompare([]byte(reqUser), []byte(user)) == 1
		passMatch := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(reqPass)) == nil
		if !userMatch || !passMatch {
			c.Header("WWW-Authenticate", `Basic realm="metrics"`)
			response.Error(c, appErrors.ErrUnauthenticated)
			c.Abort()
			return
		}

		c.Next()
	}
}
