package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/talkmaster-dashboard/internal/access"
	"github.com/iliyamo/talkmaster-dashboard/internal/apiclient"
	"github.com/iliyamo/talkmaster-dashboard/internal/model"
	"github.com/iliyamo/talkmaster-dashboard/internal/session"
	"github.com/iliyamo/talkmaster-dashboard/internal/view"
)

const msgPlanningUnavailable = "Le programme n'a pas pu être chargé."

// Home sends the visitor to their landing page.
func (d *Dashboard) Home(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, landing(session.From(c)))
}

// Public shows the programme: every scheduled talk, or those matching the
// search form when one was submitted.
func (d *Dashboard) Public(c echo.Context) error {
	ctx := c.Request().Context()
	data := view.PublicData{Filter: planningFilter(c)}

	var (
		plannings []model.Planning
		err       error
	)
	if data.Filter != (apiclient.PlanningFilter{}) {
		plannings, err = d.Store.Plannings().Filter(ctx, d.client(c), data.Filter)
		if apiclient.StatusCode(err) == http.StatusNotFound {
			plannings, err = []model.Planning{}, nil
		}
	} else {
		plannings, err = d.Store.Plannings().List(ctx, d.client(c))
	}
	if err != nil {
		d.logger(c).WarnContext(ctx, "public programme unavailable", "err", err)
		data.LoadError = msgPlanningUnavailable
		c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	}
	data.Plannings = plannings
	return c.Render(http.StatusOK, "public", d.page(c, "Accueil", access.PathPublic, data))
}

func planningFilter(c echo.Context) apiclient.PlanningFilter {
	f := apiclient.PlanningFilter{
		Day:     strings.TrimSpace(c.QueryParam("jour")),
		Subject: strings.TrimSpace(c.QueryParam("sujet")),
	}
	if lvl, err := model.ParseLevel(c.QueryParam("niveau")); err == nil {
		f.Level = lvl
	}
	return f
}

// About is a static page.
func (d *Dashboard) About(c echo.Context) error {
	return c.Render(http.StatusOK, "about", d.page(c, "À propos", access.PathAbout, nil))
}
