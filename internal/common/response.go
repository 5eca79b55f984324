package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RespondError writes err using the v2 envelope with the status derived from its kind.
// Internal errors never leak their message.
func RespondError(c *gin.Context, err error) {
	status := StatusFromError(err)
	if status == http.StatusInternalServerError {
		V2ErrorResponse(c, status, "internal server error")
		return
	}

	v2Err := &V2Error{
		Code:    getErrorCode(status),
		Message: err.Error(),
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Details != nil {
		v2Err.Details = appErr.Details
	}
	c.JSON(status, V2Response{Success: false, Error: v2Err})
}

// getErrorCode generates error code from HTTP status
func getErrorCode(status int) string {
	switch status {
	case 400:
		return "BAD_REQUEST"
	case 401:
		return "UNAUTHORIZED"
	case 403:
		return "FORBIDDEN"
	case 404:
		return "NOT_FOUND"
	case 409:
		return "CONFLICT"
	case 500:
		return "INTERNAL_SERVER_ERROR"
	default:
		return "ERROR"
	}
}
