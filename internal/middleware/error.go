package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "eosoracle/internal/errors"
	"eosoracle/internal/logger"
)

// ErrorHandler returns a Gin middleware that converts errors set on the Gin
// context into the JSON error envelope. AppErrors keep their code and message;
// anything else is logged and reported as an internal error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		abortWithError(c, c.Errors.Last().Err)
	}
}

// Recovery returns a Gin middleware that turns a panic into an internal error
// for ErrorHandler to render, so one failing request never takes the process down.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Get().Errorw("panic recovered",
			"panic", recovered,
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
		_ = c.Error(apperrors.ErrInternalServer)
		c.Abort()
	})
}

func abortWithError(c *gin.Context, err error) {
	appErr := apperrors.ErrInternalServer
	if !errors.As(err, &appErr) {
		logger.Get().Errorw("unexpected error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
	} else if appErr.Internal != nil {
		logger.Get().Errorw("app error",
			"code", appErr.Code,
			"message", appErr.Message,
			"internal", appErr.Internal.Error(),
			"path", c.Request.URL.Path,
		)
	}

	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
