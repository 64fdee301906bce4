package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/tessera-app/api-go/utils"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

func parseBearerToken(c *gin.Context) (*utils.UserClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	bearerToken := strings.Split(authHeader, " ")
	if len(bearerToken) != 2 {
		return nil, false
	}

	token := bearerToken[1]
	claims := jwt.MapClaims{}
	parsedToken, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !parsedToken.Valid {
		return nil, false
	}

	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return nil, false
	}

	email, _ := claims["email"].(string)

	return &utils.UserClaims{
		UserID: userID,
		Email:  email,
	}, true
}

// AuthMiddleware rejects requests without a valid bearer token issued by the
// identity provider.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		userClaims, ok := parseBearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set(string(utils.UserContextKey), userClaims)

		c.Next()
	}
}

// OptionalAuthMiddleware attaches the identity when a valid token is present
// but lets unauthenticated requests through. Routes behind it fall back to the
// caller-supplied user id via utils.ResolveUserID.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userClaims, ok := parseBearerToken(c); ok {
			c.Set(string(utils.UserContextKey), userClaims)
		}
		c.Next()
	}
}
