package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/waste3d/coursehub/internal/domain"
)

const identityKey = "identity"

// Authenticator resolves a bearer token into a caller.
type Authenticator interface {
	Authenticate(token string) (*domain.Identity, error)
}

// IdentityMiddleware attaches the caller to the request when a valid bearer
// token is present. It never rejects; use cases decide what needs a caller.
func IdentityMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		identity, err := auth.Authenticate(parts[1])
		if err == nil {
			c.Set(identityKey, identity)
		}

		c.Next()
	}
}

// Identity returns the caller attached by IdentityMiddleware, or nil.
func Identity(c *gin.Context) *domain.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*domain.Identity)
	return identity
}
