package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const actingUserKey = "acting_user_id"

// Identity resolves the acting user id supplied by the external identity
// provider. Authentication itself happens upstream; the ledger only needs a
// trustworthy subject to check against stored ownership.
//
// With a secret configured, a Bearer token is verified (HS256) and its sub
// claim wins. Without one — or when no token is sent — the X-User-ID header
// is trusted as-is, which is the development/gateway-terminated setup.
func Identity(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid := bearerSubject(c, jwtSecret); uid != "" {
			c.Set(actingUserKey, uid)
		} else if uid := strings.TrimSpace(c.GetHeader("X-User-ID")); uid != "" {
			c.Set(actingUserKey, uid)
		}
		c.Next()
	}
}

func bearerSubject(c *gin.Context, secret string) string {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	if raw == "" || secret == "" {
		return ""
	}

	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return ""
	}
	return strings.TrimSpace(claims.Subject)
}

// ActingUserID returns the resolved user id, or "" when the caller sent no
// identity.
func ActingUserID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if v, ok := c.Get(actingUserKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
