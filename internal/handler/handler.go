// Package handler holds the dashboard's echo handlers. Handlers read the
// visitor's session.State, go through the entity stores for lists and
// through the lifecycle controller for talk mutations.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/talkmaster-dashboard/internal/access"
	"github.com/iliyamo/talkmaster-dashboard/internal/apiclient"
	"github.com/iliyamo/talkmaster-dashboard/internal/lifecycle"
	"github.com/iliyamo/talkmaster-dashboard/internal/logging"
	"github.com/iliyamo/talkmaster-dashboard/internal/middleware"
	"github.com/iliyamo/talkmaster-dashboard/internal/session"
	"github.com/iliyamo/talkmaster-dashboard/internal/store"
	"github.com/iliyamo/talkmaster-dashboard/internal/view"
)

// Dashboard bundles the dependencies shared by every handler.
type Dashboard struct {
	API       *apiclient.Client
	Store     *store.Store
	Lifecycle *lifecycle.Controller
	Sessions  *session.Codec
	Log       *slog.Logger
}

// NewDashboard wires a Dashboard.
func NewDashboard(api *apiclient.Client, st *store.Store, lc *lifecycle.Controller, sessions *session.Codec, log *slog.Logger) *Dashboard {
	if log == nil {
		log = slog.Default()
	}
	return &Dashboard{API: api, Store: st, Lifecycle: lc, Sessions: sessions, Log: log}
}

// client returns the API client bound to the visitor's token.
func (d *Dashboard) client(c echo.Context) *apiclient.Client {
	return d.API.WithToken(session.From(c).Token)
}

func (d *Dashboard) logger(c echo.Context) *slog.Logger {
	return logging.FromContext(c.Request().Context(), d.Log)
}

// page builds the common page data for the visitor and consumes any pending
// flash banner.
func (d *Dashboard) page(c echo.Context, title, active string, data any) view.Page {
	st := session.From(c)
	role := st.Role()
	return view.Page{
		Title:  title,
		Active: active,
		Menu:   access.MenuFor(role),
		User:   st.DisplayName(),
		Role:   role,
		Can:    access.CapabilitiesFor(role),
		Flash:  view.TakeFlash(c),
		CSRF:   middleware.CSRFToken(c),
		Data:   data,
	}
}

// expired ends the session after the API rejected its token and sends the
// visitor to the sign-in page.
func (d *Dashboard) expired(c echo.Context) error {
	d.Sessions.Clear(c)
	view.SetFlash(c, view.Failure("", "Votre session a expiré. Veuillez vous reconnecter."))
	return c.Redirect(http.StatusSeeOther, access.PathSignIn)
}

// unauthorized reports whether any of errs is an API 401.
func unauthorized(errs ...error) bool {
	for _, err := range errs {
		if apiclient.IsUnauthorized(err) || lifecycle.IsUnauthorized(err) {
			return true
		}
	}
	return false
}

// landing is where a visitor goes after signing in.
func landing(st session.State) string {
	if r, ok := access.RuleFor(access.PathDashboard); ok && r.Admits(st.Role()) {
		return access.PathDashboard
	}
	switch {
	case access.Shell.Admits(st.Role()):
		return access.PathTables
	default:
		return access.PathPublic
	}
}

func paramID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "Ressource introuvable.")
	}
	return id, nil
}

// formInt parses an optional positive integer form value, 0 when absent or invalid.
func formInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.FormValue(name))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
