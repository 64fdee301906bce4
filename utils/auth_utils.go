package utils

import (
	"github.com/gin-gonic/gin"
)

type UserClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type contextKey string

const UserContextKey contextKey = "user"

func GetUser(c *gin.Context) *UserClaims {
	user, exists := c.Get(string(UserContextKey))
	if !exists {
		return nil
	}
	if userClaims, ok := user.(*UserClaims); ok {
		return userClaims
	}
	return nil
}

// ResolveUserID picks the acting user for a request. Precedence: the
// authenticated identity always wins; the caller-supplied fallback (body or
// query field) is honored only on routes without enforced authentication.
func ResolveUserID(c *gin.Context, fallback string) string {
	if user := GetUser(c); user != nil && user.UserID != "" {
		return user.UserID
	}
	return fallback
}
