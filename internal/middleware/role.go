package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/talkmaster-dashboard/internal/access"
	"github.com/iliyamo/talkmaster-dashboard/internal/session"
)

// RequireRole admits the request only when the session's role passes every
// rule. Anonymous and disallowed visitors are sent to the public page with a
// 303, never an error page. It expects Session to have run first.
func RequireRole(rules ...access.Rule) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := session.From(c).Role()
			for _, r := range rules {
				if !r.Admits(role) {
					return c.Redirect(http.StatusSeeOther, access.PathPublic)
				}
			}
			return next(c)
		}
	}
}
