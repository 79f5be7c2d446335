package middleware

import (
	"strings"

	"notevault/utils"

	"github.com/gin-gonic/gin"
)

// TokenVerifier resolves a bearer token to a stable user identifier.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// AuthMiddleware requires a valid Authorization: Bearer token on every
// request it guards and stores the resolved user id in the context under
// "user_id".
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.Unauthorized(c, "missing or invalid Authorization header")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		userID, err := verifier.VerifyToken(tokenString)
		if err != nil {
			utils.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
