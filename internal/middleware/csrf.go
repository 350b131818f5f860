package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// CSRFField is the hidden form field every POST form carries.
const CSRFField = "_csrf"

const (
	csrfCookie     = "talkmaster_csrf"
	csrfContextKey = "csrf"
)

const msgCSRFRejected = "Le formulaire a expiré. Veuillez recharger la page et réessayer."

// CSRF rejects unsafe requests whose CSRFField does not match the token in
// the CSRF cookie. Safe methods get the cookie and the token in the context.
func CSRF(secure bool) echo.MiddlewareFunc {
	return echomw.CSRFWithConfig(echomw.CSRFConfig{
		TokenLookup:    "form:" + CSRFField,
		ContextKey:     csrfContextKey,
		CookieName:     csrfCookie,
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: http.SameSiteLaxMode,
		ErrorHandler: func(err error, c echo.Context) error {
			return echo.NewHTTPError(http.StatusForbidden, msgCSRFRejected).SetInternal(err)
		},
	})
}

// CSRFToken returns the token forms must echo, or "" when CSRF is not
// installed on the route.
func CSRFToken(c echo.Context) string {
	token, _ := c.Get(csrfContextKey).(string)
	return token
}
