package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/talkmaster-dashboard/internal/access"
	"github.com/iliyamo/talkmaster-dashboard/internal/apiclient"
	"github.com/iliyamo/talkmaster-dashboard/internal/lifecycle"
	"github.com/iliyamo/talkmaster-dashboard/internal/model"
	"github.com/iliyamo/talkmaster-dashboard/internal/session"
	"github.com/iliyamo/talkmaster-dashboard/internal/view"
)

// Table sections, also used as flash targets.
const (
	sectionUsers     = "users"
	sectionTalks     = "talks"
	sectionMyTalks   = "mytalks"
	sectionPlannings = "plannings"
	sectionRooms     = "rooms"
	sectionRoles     = "roles"
)

var loadMessages = map[string]string{
	sectionUsers:     "Impossible de charger les utilisateurs.",
	sectionTalks:     "Impossible de charger les talks.",
	sectionMyTalks:   "Impossible de charger vos talks.",
	sectionPlannings: "Impossible de charger les plannings.",
	sectionRooms:     "Impossible de charger les salles.",
	sectionRoles:     "Impossible de charger les rôles.",
}

// loadTables fetches every section the visitor's capabilities show. It
// reports whether the API rejected the session token.
func (d *Dashboard) loadTables(c echo.Context) (view.TablesData, bool) {
	ctx := c.Request().Context()
	api := d.client(c)
	can := access.CapabilitiesFor(session.From(c).Role())
	data := view.TablesData{LoadErrors: map[string]string{}}

	var errs []error
	note := func(section string, err error) {
		if err == nil {
			return
		}
		errs = append(errs, err)
		d.logger(c).WarnContext(ctx, "table section unavailable", "section", section, "status", apiclient.StatusCode(err), "err", err)
		data.LoadErrors[section] = loadMessages[section]
	}

	var err error
	if can.Manage {
		data.Users, err = d.Store.Users().List(ctx, api)
		note(sectionUsers, err)
	}
	if can.Review {
		data.Talks, err = d.Store.Talks().List(ctx, api, apiclient.TalkFilter{Limit: talkListLimit})
		note(sectionTalks, err)
	}
	if can.Own {
		data.MyTalks, err = d.Store.Talks().Mine(ctx, api)
		note(sectionMyTalks, err)
	}
	data.Plannings, err = d.Store.Plannings().List(ctx, api)
	note(sectionPlannings, err)
	data.Rooms, err = d.Store.Rooms().List(ctx, api)
	note(sectionRooms, err)
	data.Roles, err = d.Store.Roles().List(ctx, api)
	note(sectionRoles, err)

	return data, unauthorized(errs...)
}

// Tables shows the talk, planning and reference tables.
func (d *Dashboard) Tables(c echo.Context) error {
	data, expired := d.loadTables(c)
	if expired {
		return d.expired(c)
	}
	return c.Render(http.StatusOK, "tables", d.page(c, "Tables", access.PathTables, data))
}

// actionDone finishes a successful table action: flash then redirect so the
// browser re-reads the (invalidated) lists.
func (d *Dashboard) actionDone(c echo.Context, section, msg string) error {
	view.SetFlash(c, view.Success(section, "Succès", msg))
	return c.Redirect(http.StatusSeeOther, access.PathTables+"#"+section)
}

// actionFailed re-renders the tables with the failure shown above section
// and the talk's inline form left open.
func (d *Dashboard) actionFailed(c echo.Context, section string, talkID int64, err error) error {
	if lifecycle.IsUnauthorized(err) {
		return d.expired(c)
	}
	data, expired := d.loadTables(c)
	if expired {
		return d.expired(c)
	}
	data.Open = talkID
	p := d.page(c, "Tables", access.PathTables, data)
	p.Flash = view.Failure(section, lifecycle.Message(err))
	return c.Render(http.StatusUnprocessableEntity, "tables", p)
}

func actorContext(c echo.Context) echo.Context {
	st := session.From(c)
	actor := st.Identity.Email
	if actor == "" {
		actor = st.Hint.Subject
	}
	req := c.Request()
	c.SetRequest(req.WithContext(lifecycle.WithActor(req.Context(), actor)))
	return c
}

// ChangeStatus handles the status form of the talks table.
func (d *Dashboard) ChangeStatus(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	c = actorContext(c)
	if _, err := d.Lifecycle.ChangeStatus(c.Request().Context(), d.client(c), id, c.FormValue("status")); err != nil {
		return d.actionFailed(c, sectionTalks, id, err)
	}
	return d.actionDone(c, sectionTalks, "Le statut du talk a été mis à jour.")
}

// Schedule handles the scheduling form of the talks table.
func (d *Dashboard) Schedule(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	c = actorContext(c)
	slot := lifecycle.Slot{RoomID: c.FormValue("salle_id"), Date: c.FormValue("date"), Time: c.FormValue("heure")}
	if _, err := d.Lifecycle.Schedule(c.Request().Context(), d.client(c), id, slot); err != nil {
		return d.actionFailed(c, sectionTalks, id, err)
	}
	return d.actionDone(c, sectionTalks, "Le talk a été planifié.")
}

// UpdateTalk handles the edit form of the presenter's talks. The submitted
// fields are merged onto the talk as last fetched.
func (d *Dashboard) UpdateTalk(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	c = actorContext(c)
	ctx := c.Request().Context()
	api := d.client(c)

	talk, err := d.Store.Talks().Get(ctx, api, id)
	if err != nil {
		if apiclient.IsUnauthorized(err) {
			return d.expired(c)
		}
		d.logger(c).WarnContext(ctx, "talk not reloaded before update", "id", id, "err", err)
		talk = model.Talk{ID: id}
	}
	if _, err := d.Lifecycle.UpdateFields(ctx, api, talk, patchFromForm(c)); err != nil {
		return d.actionFailed(c, sectionMyTalks, id, err)
	}
	return d.actionDone(c, sectionMyTalks, "Le talk a été mis à jour.")
}

// DeleteTalk handles the delete button of the presenter's talks.
func (d *Dashboard) DeleteTalk(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	c = actorContext(c)
	if err := d.Lifecycle.Delete(c.Request().Context(), d.client(c), id); err != nil {
		return d.actionFailed(c, sectionMyTalks, id, err)
	}
	return d.actionDone(c, sectionMyTalks, "Le talk a été supprimé.")
}

// patchFromForm keeps only the fields present in the submitted form.
func patchFromForm(c echo.Context) lifecycle.Patch {
	var p lifecycle.Patch
	form, err := c.FormParams()
	if err != nil {
		return p
	}
	str := func(name string) *string {
		if _, ok := form[name]; !ok {
			return nil
		}
		v := strings.TrimSpace(form.Get(name))
		return &v
	}
	p.Title = str("titre")
	p.Subject = str("sujet")
	p.Description = str("description")
	// A blank date or time input leaves the slot as it was.
	slot := func(name string) *string {
		if v := str(name); v != nil && *v != "" {
			return v
		}
		return nil
	}
	p.Date = slot("date")
	p.Time = slot("heure")
	if _, ok := form["duree"]; ok {
		n := formInt(c, "duree")
		p.Duration = &n
	}
	if v := str("niveau"); v != nil {
		if lvl, err := model.ParseLevel(*v); err == nil {
			p.Level = &lvl
		}
	}
	return p
}
