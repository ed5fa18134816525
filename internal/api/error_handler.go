package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/api/middleware"
	"github.com/csemotors/dealership/internal/core/domain"
)

const (
	msgNotFound    = "Sorry, we appear to have lost that page."
	msgForbidden   = "Access Forbidden"
	msgRateLimited = "Too many attempts. Please wait a moment and try again."
	msgCrash       = "Oh no! There was a crash. Maybe try a different route?"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors without leaking details to the visitor.
//   - Renders the errors/error view, falling back to plain text.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}

		data := echo.Map{
			"title":    fmt.Sprintf("%d %s", code, http.StatusText(code)),
			"message":  msg,
			"identity": middleware.IdentityOf(c),
		}
		if rerr := c.Render(code, "errors/error", data); rerr != nil {
			log.Error().Err(rerr).Msg("render error page")
			_ = c.String(code, msg)
		}
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusNotFound:
			return he.Code, msgNotFound
		case http.StatusForbidden:
			return he.Code, msgForbidden
		case http.StatusTooManyRequests:
			return he.Code, msgRateLimited
		}
		if he.Code >= http.StatusInternalServerError {
			logUnexpected(log, c, err)
			return he.Code, msgCrash
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrVehicleNotFound),
		errors.Is(err, domain.ErrClassificationNotFound),
		errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, msgForbidden
	}

	logUnexpected(log, c, err)
	return http.StatusInternalServerError, msgCrash
}

func logUnexpected(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")
}
