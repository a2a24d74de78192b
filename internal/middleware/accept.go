package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireJSONAccept rejects read requests whose Accept header does not admit
// a JSON response. Responses use 406 Not Acceptable per the API contract.
func RequireJSONAccept() gin.HandlerFunc {
	return func(c *gin.Context) {
		accept := c.GetHeader("Accept")
		if !strings.Contains(accept, "application/json") && !strings.Contains(accept, "*/*") {
			c.JSON(http.StatusNotAcceptable, gin.H{
				"error": "Accept: application/json header is required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
