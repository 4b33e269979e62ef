package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/foodgram/internal/common"
)

func errorBody(detail string) gin.H {
	return gin.H{"detail": detail}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorConflict), errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError writes the error response for err. Errors outside the
// taxonomy are logged and reported without detail.
func (s *HTTPServer) abortWithError(c *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		c.AbortWithStatusJSON(status, errorBody(common.Message(common.ErrorInternal)))
		return
	}
	c.AbortWithStatusJSON(status, errorBody(common.Message(err)))
}

func badRequest(msg string) error {
	return common.Validation(msg)
}
