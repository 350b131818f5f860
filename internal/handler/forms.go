package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/talkmaster-dashboard/internal/access"
	"github.com/iliyamo/talkmaster-dashboard/internal/apiclient"
	"github.com/iliyamo/talkmaster-dashboard/internal/lifecycle"
	"github.com/iliyamo/talkmaster-dashboard/internal/model"
	"github.com/iliyamo/talkmaster-dashboard/internal/view"
)

// Form names, also used as flash targets and anchors.
const (
	formTalk = "talk"
	formRoom = "room"
	formRole = "role"
)

const (
	msgRoomFailed = "Erreur lors de l'ajout de la salle."
	msgRoleFailed = "Erreur lors de l'ajout du rôle."
)

// Forms shows the talk proposal, room and role forms.
func (d *Dashboard) Forms(c echo.Context) error {
	return c.Render(http.StatusOK, "forms", d.page(c, "Formulaires", access.PathForms, view.FormsData{}))
}

func (d *Dashboard) formDone(c echo.Context, form, msg string) error {
	view.SetFlash(c, view.Success(form, "Succès", msg))
	return c.Redirect(http.StatusSeeOther, access.PathForms+"#"+form)
}

func (d *Dashboard) formFailed(c echo.Context, form, msg string, data view.FormsData) error {
	p := d.page(c, "Formulaires", access.PathForms, data)
	p.Flash = view.Failure(form, msg)
	return c.Render(http.StatusUnprocessableEntity, "forms", p)
}

// CreateTalk proposes a talk on behalf of the signed-in presenter.
func (d *Dashboard) CreateTalk(c echo.Context) error {
	in := model.TalkInput{
		Title:       strings.TrimSpace(c.FormValue("titre")),
		Subject:     strings.TrimSpace(c.FormValue("sujet")),
		Description: strings.TrimSpace(c.FormValue("description")),
		Duration:    formInt(c, "duree"),
	}
	if lvl, err := model.ParseLevel(c.FormValue("niveau")); err == nil {
		in.Level = lvl
	}

	c = actorContext(c)
	if _, err := d.Lifecycle.Create(c.Request().Context(), d.client(c), in); err != nil {
		if lifecycle.IsUnauthorized(err) {
			return d.expired(c)
		}
		data := view.FormsData{Talk: in}
		var le *lifecycle.Error
		if errors.As(err, &le) && le.Fields != nil {
			data.Errors = map[string]model.FieldErrors{formTalk: le.Fields}
		}
		return d.formFailed(c, formTalk, lifecycle.Message(err), data)
	}
	return d.formDone(c, formTalk, "Votre talk a été proposé. Il est en attente de validation.")
}

// CreateRoom adds a room.
func (d *Dashboard) CreateRoom(c echo.Context) error {
	in := model.RoomInput{Name: strings.TrimSpace(c.FormValue("nom_salle")), Capacity: formInt(c, "capacite")}
	if _, err := d.Store.Rooms().Create(c.Request().Context(), d.client(c), in); err != nil {
		return d.referenceFailed(c, formRoom, msgRoomFailed, view.FormsData{Room: in}, err)
	}
	return d.formDone(c, formRoom, "La salle a été ajoutée.")
}

// CreateRole adds a role.
func (d *Dashboard) CreateRole(c echo.Context) error {
	in := model.RoleInput{Name: model.NormalizeRole(c.FormValue("nom_role"))}
	if _, err := d.Store.Roles().Create(c.Request().Context(), d.client(c), in); err != nil {
		return d.referenceFailed(c, formRole, msgRoleFailed, view.FormsData{Role: in}, err)
	}
	return d.formDone(c, formRole, "Le rôle a été ajouté.")
}

func (d *Dashboard) referenceFailed(c echo.Context, form, msg string, data view.FormsData, err error) error {
	var fields model.FieldErrors
	if errors.As(err, &fields) {
		data.Errors = map[string]model.FieldErrors{form: fields}
		return d.formFailed(c, form, lifecycle.MsgCreateInvalid, data)
	}
	if apiclient.IsUnauthorized(err) {
		return d.expired(c)
	}
	d.logger(c).WarnContext(c.Request().Context(), "reference data create failed", "form", form, "status", apiclient.StatusCode(err), "err", err)
	if code := apiclient.StatusCode(err); code == http.StatusForbidden {
		msg = "Vous n'avez pas les droits pour effectuer cette action."
	} else if detail := apiclient.Detail(err); detail != "" && code == http.StatusBadRequest {
		msg = detail
	}
	return d.formFailed(c, form, msg, data)
}
