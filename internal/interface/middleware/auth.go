package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/readnest/readnest-api/pkg/helpers"
	"github.com/readnest/readnest-api/pkg/response"
)

const CtxUserIDKey = "userID"

// Auth reads the bearer token from the Authorization header, verifies it, and
// injects the resolved user id into the Gin context. Any failure short-circuits
// with 401; the downstream handler is never invoked.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing bearer token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, authFailureMessage(err), nil)
			c.Abort()
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

func authFailureMessage(err error) string {
	switch {
	case errors.Is(err, helpers.ErrTokenExpired):
		return "token expired"
	case errors.Is(err, helpers.ErrTokenSignatureInvalid):
		return "invalid token signature"
	case errors.Is(err, helpers.ErrTokenMalformed):
		return "malformed token"
	default:
		return "invalid token"
	}
}
