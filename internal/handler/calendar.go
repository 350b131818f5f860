package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/talkmaster-dashboard/internal/access"
	"github.com/iliyamo/talkmaster-dashboard/internal/lifecycle"
	"github.com/iliyamo/talkmaster-dashboard/internal/view"
)

const sectionCalendar = "calendar"

func (d *Dashboard) loadCalendar(c echo.Context) (view.CalendarData, bool) {
	ctx := c.Request().Context()
	api := d.client(c)
	var data view.CalendarData

	plannings, perr := d.Store.Plannings().List(ctx, api)
	if perr != nil {
		d.logger(c).WarnContext(ctx, "calendar unavailable", "err", perr)
		data.LoadError = loadMessages[sectionPlannings]
	}
	data.Days = view.GroupByDay(plannings)

	rooms, rerr := d.Store.Rooms().List(ctx, api)
	if rerr != nil {
		d.logger(c).WarnContext(ctx, "rooms unavailable for calendar", "err", rerr)
	}
	data.Rooms = rooms
	return data, unauthorized(perr, rerr)
}

// Calendar shows the schedule grouped by day.
func (d *Dashboard) Calendar(c echo.Context) error {
	data, expired := d.loadCalendar(c)
	if expired {
		return d.expired(c)
	}
	return c.Render(http.StatusOK, "calendar", d.page(c, "Calendrier", access.PathCalendar, data))
}

// Reschedule moves a planning entry to another room or slot.
func (d *Dashboard) Reschedule(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	c = actorContext(c)
	slot := lifecycle.Slot{RoomID: c.FormValue("salle_id"), Date: c.FormValue("date"), Time: c.FormValue("heure")}
	if _, err := d.Lifecycle.Reschedule(c.Request().Context(), d.client(c), id, slot); err != nil {
		if lifecycle.IsUnauthorized(err) {
			return d.expired(c)
		}
		data, expired := d.loadCalendar(c)
		if expired {
			return d.expired(c)
		}
		data.Open = id
		p := d.page(c, "Calendrier", access.PathCalendar, data)
		p.Flash = view.Failure(sectionCalendar, lifecycle.Message(err))
		return c.Render(http.StatusUnprocessableEntity, "calendar", p)
	}
	view.SetFlash(c, view.Success(sectionCalendar, "Mise à jour réussie", "Le planning a été mis à jour avec succès."))
	return c.Redirect(http.StatusSeeOther, access.PathCalendar)
}
