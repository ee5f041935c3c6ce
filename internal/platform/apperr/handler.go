package apperr

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// LoginPath is where browser requests without a session are sent.
const LoginPath = "/login"

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HTTPErrorHandler renders errors as {"error": "..."} with the mapped status.
// Internal errors are logged in full and answered with a generic message.
// Browser page requests that fail with 401 are redirected to LoginPath.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := resolve(err)
		rid, _ := c.Get("request_id").(string)

		if status >= http.StatusInternalServerError {
			logger.Error().Err(err).
				Str("request_id", rid).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Msg("request failed")
		}

		if status == http.StatusUnauthorized && IsBrowserRequest(c.Request()) {
			if rerr := c.Redirect(http.StatusSeeOther, LoginPath); rerr != nil {
				logger.Error().Err(rerr).Str("request_id", rid).Msg("redirect to login failed")
			}
			return
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, body)
		}
		if werr != nil {
			logger.Error().Err(werr).Str("request_id", rid).Msg("write error response")
		}
	}
}

func resolve(err error) (int, errorBody) {
	var ae *Error
	if errors.As(err, &ae) {
		status := StatusOf(ae.Kind)
		if ae.Kind == KindInternal {
			return status, errorBody{Error: "internal server error", Code: ae.Kind.String()}
		}
		return status, errorBody{Error: ae.Message, Code: ae.Kind.String()}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		}
		if he.Code >= http.StatusInternalServerError {
			msg = "internal server error"
		}
		return he.Code, errorBody{Error: msg}
	}

	return http.StatusInternalServerError, errorBody{Error: "internal server error", Code: KindInternal.String()}
}

// IsBrowserRequest reports whether r is a page navigation rather than an API
// call: a GET that prefers HTML.
func IsBrowserRequest(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return false
	}
	return strings.Contains(r.Header.Get(echo.HeaderAccept), echo.MIMETextHTML)
}
