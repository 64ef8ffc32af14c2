package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fatflowers/clubdesk/pkg/apperr"
	"github.com/fatflowers/clubdesk/pkg/logctx"
	"github.com/fatflowers/clubdesk/pkg/response"
)

var nopLogger = zap.NewNop().Sugar()

func codeOf(err error) response.APIResponseCode {
	switch {
	case apperr.IsValidationError(err):
		return response.APIResponseCodeBadRequest
	case apperr.IsNotFoundError(err):
		return response.APIResponseCodeNotFound
	case apperr.IsConflictError(err):
		return response.APIResponseCodeConflict
	case apperr.IsUnauthorizedError(err):
		return response.APIResponseCodeUnauthorized
	default:
		return response.APIResponseCodeError
	}
}

// writeError maps a service error to its business code. Internal failures are logged and
// answered with the generic message only.
func writeError(c *gin.Context, err error) {
	code := codeOf(err)
	if code == response.APIResponseCodeError {
		logctx.FromGin(c, nopLogger).Errorw("request failed", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusOK, response.ErrorMsg(code, ""))
		return
	}
	msg := err.Error()
	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
		if appErr.Details != "" {
			msg += ": " + appErr.Details
		}
	}
	c.JSON(http.StatusOK, response.ErrorMsg(code, msg))
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusOK, response.ErrorMsg(response.APIResponseCodeBadRequest, err.Error()))
}
