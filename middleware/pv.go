package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/goblog/repository"
	"github.com/cppla/goblog/utils"
)

// PageViewRecorder records page views per day and path.
func PageViewRecorder(views repository.PageViewRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only successful page renders count.
		if c.Request.Method != http.MethodGet {
			return
		}
		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		path := c.Request.URL.Path
		if path == "/health" || path == "/metrics" || strings.HasPrefix(path, "/static/") {
			return
		}

		if err := views.Record(c.Request.Context(), path, time.Now()); err != nil {
			utils.Logger.Debug("page view not recorded", zap.String("path", path), zap.Error(err))
		}
	}
}
