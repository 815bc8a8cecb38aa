package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chainchat/backend/internal/utils"
)

// RequireAuthCode rejects requests whose ?authCode= differs from code.
// An empty code leaves the route open.
func RequireAuthCode(code string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if code == "" {
			c.Next()
			return
		}

		got := c.Query("authCode")
		if subtle.ConstantTimeCompare([]byte(got), []byte(code)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "unauthorized",
			})
			return
		}

		c.Next()
	}
}
