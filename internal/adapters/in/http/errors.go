package http

import (
	"errors"
	"fmt"
	"net/http"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/generated/servers"
	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// statusFor maps application errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errs.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrOrderIsNotEditable),
		errors.Is(err, commands.ErrNotReady):
		return http.StatusConflict
	case errors.Is(err, ports.ErrDispatchQueueFull):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// problem writes err as a servers.Error. Internal errors are logged and
// their text is not exposed.
func (s *Server) problem(ctx echo.Context, err error) error {
	code := statusFor(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"method": ctx.Request().Method,
			"path":   ctx.Path(),
		}).Error("request failed")
		message = http.StatusText(code)
	}
	return ctx.JSON(code, servers.Error{Code: code, Message: message})
}

// ErrorHandler renders errors returned from handlers and middleware in the
// same shape as handler errors.
func ErrorHandler(logger logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := http.StatusText(code)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			message = fmt.Sprint(he.Message)
		} else {
			logger.WithError(err).WithField("path", ctx.Path()).Error("unhandled error")
		}

		var writeErr error
		if ctx.Request().Method == http.MethodHead {
			writeErr = ctx.NoContent(code)
		} else {
			writeErr = ctx.JSON(code, servers.Error{Code: code, Message: message})
		}
		if writeErr != nil {
			logger.WithError(writeErr).Warn("failed to write error response")
		}
	}
}
