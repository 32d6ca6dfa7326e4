package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/fisker/formflow-backend/internal/model"
	"github.com/fisker/formflow-backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// RecoveryMiddleware 自定义错误恢复中间件，打印详细的错误信息
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		err, ok := recovered.(error)
		if !ok {
			err = fmt.Errorf("%v", recovered)
		}

		fullURL := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			fullURL = fmt.Sprintf("%s?%s", fullURL, c.Request.URL.RawQuery)
		}

		userID := ""
		if uid, exists := c.Get("user_id"); exists {
			userID = fmt.Sprintf("%v", uid)
		}

		logger.Errorf(
			"Panic recovered: %v\n"+
				"  Request: %s %s\n"+
				"  Client IP: %s\n"+
				"  User ID: %s\n"+
				"  Stack Trace:\n%s",
			err,
			c.Request.Method,
			fullURL,
			c.ClientIP(),
			userID,
			string(debug.Stack()),
		)

		c.JSON(http.StatusInternalServerError, model.Error(500, err.Error()))
		c.Abort()
	})
}
