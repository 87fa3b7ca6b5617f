// internal/api/middleware/auth.go
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/api/response"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/auth"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/errors"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/logger"
)

const (
	userIDKey = "userId"
	claimsKey = "claims"
)

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	log       logger.Logger
	verifier  TokenVerifier
	responder *response.Responder
}

func NewAuthMiddleware(log logger.Logger, verifier TokenVerifier, responder *response.Responder) *AuthMiddleware {
	return &AuthMiddleware{
		log:       log.With(map[string]interface{}{"middleware": "auth"}),
		verifier:  verifier,
		responder: responder,
	}
}

// RequireAuth rejects requests without a valid bearer token and stores the
// verified claims on the request context.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			am.responder.Error(c, errors.NewAuthenticationError("missing or invalid token"))
			return
		}

		claims, err := am.verifier.Verify(token)
		if err != nil {
			am.responder.Error(c, err)
			return
		}

		c.Set(userIDKey, claims.UserID())
		c.Set(claimsKey, claims)
		c.Request = c.Request.WithContext(auth.WithClaims(c.Request.Context(), claims))
		c.Next()
	}
}

// UserID returns the authenticated caller, or "" on public routes.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func Claims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}
