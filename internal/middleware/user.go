package middleware

import (
	"github.com/gin-gonic/gin"
)

// UserIDKey is the context key holding the acting user's id.
const UserIDKey = "userId"

// DefaultUser attributes every request to one configured account.
func DefaultUser(userID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(UserIDKey, userID)
		c.Next()
	}
}
