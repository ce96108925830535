package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const CtxClaimsKey = "auth_claims"

// CronSecretHeader is how the scheduler authenticates without minting
// a token.
const CronSecretHeader = "X-Cron-Secret"

// Middleware guards the trigger routes. A request passes with either
// the configured cron secret header or a valid bearer token.
// Unauthenticated requests are rejected before any side effect.
func Middleware(tokens TokenService, cronSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cronSecret != "" && c.GetHeader(CronSecretHeader) == cronSecret {
			c.Next()
			return
		}

		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(strings.ToLower(h), "bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			c.Abort()
			return
		}

		raw := strings.TrimSpace(h[len("Bearer "):])
		claims, err := tokens.Parse(raw)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(CtxClaimsKey, claims)
		c.Next()
	}
}

func MustGetClaims(c *gin.Context) *Claims {
	v, ok := c.Get(CtxClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}
