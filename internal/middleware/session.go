package middleware

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/talkmaster-dashboard/internal/logging"
	"github.com/iliyamo/talkmaster-dashboard/internal/session"
)

// Session opens the session cookie of every request and attaches the
// resulting session.State to the echo context. It is the only writer of that
// state; handlers read it with session.From. A cookie that cannot be opened,
// or whose token has expired, is cleared and the visitor continues as
// anonymous.
func Session(codec *session.Codec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			st, err := codec.Read(c)
			switch {
			case err == nil && st.Hint.Expired(time.Now()):
				codec.Clear(c)
				st = session.State{}
			case errors.Is(err, session.ErrNoSession):
			case err != nil:
				logging.FromContext(c.Request().Context(), nil).Debug("dropping session cookie", "err", err)
				codec.Clear(c)
			}
			session.Put(c, st)
			return next(c)
		}
	}
}
