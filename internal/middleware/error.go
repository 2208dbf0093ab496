package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/medrec-hq/medrec-api/internal/handler"
	apperrors "github.com/medrec-hq/medrec-api/pkg/errors"
)

// ErrorHandler renders errors recorded on the context via c.Error. Handlers
// never write error bodies themselves; this middleware is the single place
// an application error becomes a status code and envelope.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		if appErr, ok := apperrors.As(err); ok {
			c.JSON(appErr.StatusCode(), &handler.Response{
				Status:  "error",
				Message: appErr.Message,
				Fields:  appErr.Fields,
			})
			return
		}

		zerolog.Ctx(c.Request.Context()).Error().
			Err(err).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Msg("unhandled error")
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("internal server error"))
	}
}
