package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/talkmaster-dashboard/internal/view"
)

// ErrorHandler renders failures that escaped the handlers as an error page
// inside the layout.
func (d *Dashboard) ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := "Une erreur inattendue est survenue."
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			msg = m
		default:
			if code == http.StatusNotFound {
				msg = "Page introuvable."
			} else if t := http.StatusText(code); t != "" {
				msg = t
			}
		}
	}
	if code >= http.StatusInternalServerError {
		d.logger(c).ErrorContext(c.Request().Context(), "request failed", "status", code, "err", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.Render(code, "error", d.page(c, "Erreur", "", view.ErrorData{Code: code, Message: msg}))
	}
	if err != nil {
		d.logger(c).ErrorContext(c.Request().Context(), "error page failed", "err", err)
	}
}
