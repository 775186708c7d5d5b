package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hassam391/stead-backend/utils"
)

// Context keys set by the middlewares in this package.
const (
	ContextEmail     = "email"
	ContextSubject   = "subject"
	ContextRequestID = "request_id"
)

// AuthMiddleware resolves the bearer token to an identity and stores its
// email and subject on the context.
func AuthMiddleware(verifier utils.TokenVerifier, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		tokenString = strings.TrimSpace(tokenString)
		if !ok || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token provided"})
			return
		}

		id, err := verifier.Verify(c.Request.Context(), tokenString)
		if err != nil {
			log.WithError(err).WithField(ContextRequestID, c.GetString(ContextRequestID)).Debug("token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}

		c.Set(ContextEmail, id.Email)
		c.Set(ContextSubject, id.Subject)
		c.Next()
	}
}
