package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shopcart/internal/service"
)

// fail maps a service error to an HTTP error and logs it under event.
func fail(l *slog.Logger, event string, err error) error {
	code, msg := http.StatusInternalServerError, "internal error"
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrInvalidState):
		code, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrNotFound):
		code, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrResolution):
		code, msg = http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, service.ErrConflict):
		code, msg = http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrInvalidCredentials):
		code, msg = http.StatusUnauthorized, "invalid email or password"
	}

	if code >= 500 {
		l.Error(event, "status", code, "error", err)
	} else {
		l.Warn(event, "status", code, "error", err)
	}
	return echo.NewHTTPError(code, msg)
}
