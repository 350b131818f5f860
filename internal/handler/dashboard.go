package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/talkmaster-dashboard/internal/access"
	"github.com/iliyamo/talkmaster-dashboard/internal/apiclient"
	"github.com/iliyamo/talkmaster-dashboard/internal/model"
	"github.com/iliyamo/talkmaster-dashboard/internal/view"
)

// talkListLimit is the page size asked of GET /talks; the API defaults to 10.
const talkListLimit = 500

// Dashboard shows the administrator's overview: how many users, plannings,
// rooms and roles exist and how talks are spread across statuses.
func (d *Dashboard) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	api := d.client(c)

	count := func(label string, n int, err error) view.Metric {
		if err != nil {
			d.logger(c).WarnContext(ctx, "metric unavailable", "metric", label, "err", err)
		}
		return view.Metric{Label: label, Value: n, Error: err != nil}
	}

	users, uerr := d.Store.Users().List(ctx, api)
	plannings, perr := d.Store.Plannings().List(ctx, api)
	rooms, rerr := d.Store.Rooms().List(ctx, api)
	roles, roerr := d.Store.Roles().List(ctx, api)
	talks, terr := d.Store.Talks().List(ctx, api, apiclient.TalkFilter{Limit: talkListLimit})
	if unauthorized(uerr, perr, rerr, roerr, terr) {
		return d.expired(c)
	}

	data := view.DashboardData{
		Metrics: []view.Metric{
			count("Utilisateurs", len(users), uerr),
			count("Plannings", len(plannings), perr),
			count("Salles", len(rooms), rerr),
			count("Rôles", len(roles), roerr),
			count("Talks", len(talks), terr),
		},
	}
	if terr == nil {
		data.ByStatus = countByStatus(talks)
	}
	return c.Render(http.StatusOK, "dashboard", d.page(c, "Tableau de bord", access.PathDashboard, data))
}

func countByStatus(talks []model.Talk) []view.StatusCount {
	counts := make(map[model.Status]int, len(model.Statuses))
	for _, t := range talks {
		counts[t.Status]++
	}
	out := make([]view.StatusCount, 0, len(model.Statuses))
	for _, s := range model.Statuses {
		out = append(out, view.StatusCount{Status: s, Count: counts[s]})
	}
	return out
}
