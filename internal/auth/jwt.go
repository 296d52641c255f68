package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/cre8tar/c8r/pkg/config"
	"github.com/cre8tar/c8r/pkg/logging"
)

const accountIDKey = "account_id"

// Claims carries the session identity issued by the external identity
// provider. Only verification happens here; no credentials are issued.
type Claims struct {
	jwt.RegisteredClaims
}

// Middleware verifies the bearer token and stores the stable account
// id (the token subject) in the request context.
func Middleware(cfg *config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(accountIDKey, claims.Subject)
		logging.WithAccount(claims.Subject).Debug("Session verified")
		c.Next()
	}
}

// AccountID returns the authenticated account id from the request
// context, or empty when the request is unauthenticated.
func AccountID(c *gin.Context) string {
	id, _ := c.Get(accountIDKey)
	s, _ := id.(string)
	return s
}
