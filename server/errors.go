package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/skillorbit/skillorbit/apperror"
	"github.com/skillorbit/skillorbit/services/logging"
	"go.uber.org/zap"
)

type ErrorBody struct {
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

type ErrorResponse struct {
	Success bool      `json:"success"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Error   ErrorBody `json:"error"`
}

// ErrorHandler renders every failure in the shared error envelope. Unclassified
// errors are logged and reported as INTERNAL_ERROR without leaking their text.
func ErrorHandler(logger *logging.Service) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		appErr := classify(err)
		if appErr.Status() >= http.StatusInternalServerError {
			logger.Error("unhandled error",
				zap.Error(err),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
			)
		}

		body := ErrorResponse{
			Success: false,
			Code:    appErr.Code(),
			Message: appErr.Message(),
			Error: ErrorBody{
				Code:    appErr.Code(),
				Details: appErr.Details(),
			},
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(appErr.Status())
		} else {
			err = c.JSON(appErr.Status(), body)
		}
		if err != nil {
			logger.Warn("failed to write error response", zap.Error(err))
		}
	}
}

func classify(err error) *apperror.Error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return appErr
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.Code {
		case http.StatusBadRequest:
			return apperror.ValidationFailed.WithDetails(fmt.Sprint(httpErr.Message))
		case http.StatusNotFound:
			return apperror.NotFound
		case http.StatusUnauthorized:
			return apperror.Unauthenticated
		case http.StatusForbidden:
			return apperror.Forbidden
		case http.StatusTooManyRequests:
			return apperror.RateLimited
		}
		if httpErr.Code < http.StatusInternalServerError {
			code := strings.ToUpper(strings.ReplaceAll(http.StatusText(httpErr.Code), " ", "_"))
			return apperror.New(httpErr.Code, code, http.StatusText(httpErr.Code))
		}
	}

	return apperror.Internal
}
