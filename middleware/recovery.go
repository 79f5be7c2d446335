package middleware

import (
	"log"
	"net/http"

	"notevault/utils"

	"github.com/gin-gonic/gin"
)

func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				utils.TrackError("panic")
				log.Printf("panic on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					utils.ErrorResponse{Error: "internal server error"})
			}
		}()
		c.Next()
	}
}
