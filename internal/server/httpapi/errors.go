package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/sailblog/internal/common"
	"github.com/gin-gonic/gin"
)

// Response texts of the {"error": ...} body.
const (
	MsgServerError       = "Server error."
	MsgInvalidBody       = "Invalid request body."
	MsgAuthRequired      = "Authentication required"
	MsgInvalidToken      = "Invalid token"
	MsgDuplicateNickname = "Duplicate nickname."
	MsgBadCredentials    = "Please verify your nickname or password."
	MsgPostNotFound      = "Post not found."
	MsgEditForbidden     = "You can only edit your own posts."
	MsgDeleteForbidden   = "You can only delete your own posts."
	msgForbidden         = "Forbidden."
	msgNotFound          = "Not found."
	msgConflict          = "Conflict."
)

// messages overrides the response text per status for one route.
type messages map[int]string

// statusFor maps a service error onto an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, common.ErrorUnauthenticated), errors.Is(err, common.ErrorInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func defaultMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return MsgInvalidBody
	case http.StatusUnauthorized:
		return MsgInvalidToken
	case http.StatusForbidden:
		return msgForbidden
	case http.StatusNotFound:
		return msgNotFound
	case http.StatusConflict:
		return msgConflict
	default:
		return MsgServerError
	}
}

// fail aborts the request with {"error": msg}. Validation errors carry
// their own message; server errors are logged with the cause and answered
// with a generic text.
func (s *Server) fail(c *gin.Context, err error, msgs messages) {
	status := statusFor(err)

	msg, ok := msgs[status]
	if !ok {
		msg = defaultMessage(status)
	}

	var vErr *common.ValidationError
	if errors.As(err, &vErr) {
		msg = vErr.Message
	}

	l := loggerFrom(c.Request.Context(), s.logger)
	if status >= http.StatusInternalServerError {
		l.Error(c.Request.Context(), "request failed", "route", c.FullPath(), "error", err.Error())
	} else {
		l.Debug(c.Request.Context(), "request rejected", "route", c.FullPath(), "status", status, "error", err.Error())
	}

	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
