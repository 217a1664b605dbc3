package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vivenda/backend/internal/interfaces/http/dto"
)

// BodyLimit caps the request body size for every route. Requests that
// declare a larger Content-Length are rejected up front; chunked bodies
// are cut off by a limited reader once they cross the cap.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse(dto.ErrCodeRequestTooLarge, "Request body exceeds the maximum allowed size"))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
