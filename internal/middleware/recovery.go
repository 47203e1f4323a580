package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Amitro123/EventPulse/pkg/logger"
	"github.com/Amitro123/EventPulse/pkg/response"
)

// Recovery turns a handler panic into a 500 envelope and logs the stack
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error("Panic recovered",
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
			zap.Stack("stack"),
		)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal Server Error", "")
		c.Abort()
	})
}
