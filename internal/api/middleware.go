package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const callerKey = "caller_uid"

// Auth verifies the bearer token and stores the caller's uid in the request
// context. Every callable operation requires a verified identity.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			abortUnauthenticated(c, "missing bearer token")
			return
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			abortUnauthenticated(c, "invalid token")
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthenticated(c, "invalid token")
			return
		}
		uid, _ := claims["uid"].(string)
		if uid == "" {
			abortUnauthenticated(c, "token has no uid claim")
			return
		}

		c.Set(callerKey, uid)
		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{"code": string(CodeUnauthenticated), "message": msg},
	})
}

func callerID(c *gin.Context) string {
	uid, _ := c.Get(callerKey)
	s, _ := uid.(string)
	return s
}
