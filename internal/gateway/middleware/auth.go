package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"darzi-system/internal/utils"
)

// JWTAuth rejects requests without a valid bearer token and stores the
// caller's identity on the context.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authorization header missing or malformed",
			})
			return
		}

		claims, err := utils.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid or expired token",
			})
			return
		}

		c.Set("userID", claims.UserId)
		c.Set("username", claims.Username)
		if claims.BranchId != nil {
			c.Set("branchID", *claims.BranchId)
		}
		c.Next()
	}
}
