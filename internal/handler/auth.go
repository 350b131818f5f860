package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/talkmaster-dashboard/internal/access"
	"github.com/iliyamo/talkmaster-dashboard/internal/apiclient"
	"github.com/iliyamo/talkmaster-dashboard/internal/model"
	"github.com/iliyamo/talkmaster-dashboard/internal/session"
	"github.com/iliyamo/talkmaster-dashboard/internal/store"
	"github.com/iliyamo/talkmaster-dashboard/internal/view"
)

const (
	msgBadCredentials = "Email ou mot de passe incorrect."
	msgUnavailable    = "Le service est momentanément indisponible. Veuillez réessayer."
	msgSignUpFailed   = "L'inscription a échoué. Vérifiez les informations saisies."
	msgSignUpMissing  = "Veuillez remplir tous les champs."
)

// SignInForm shows the sign-in page. Signed-in visitors are sent on.
func (d *Dashboard) SignInForm(c echo.Context) error {
	if st := session.From(c); st.Authenticated() {
		return c.Redirect(http.StatusSeeOther, landing(st))
	}
	return c.Render(http.StatusOK, "signin", d.page(c, "Connexion", "", view.AuthData{}))
}

// SignIn exchanges the credentials for a token, completes the session from
// /auth/me and stores it in the session cookie.
func (d *Dashboard) SignIn(c echo.Context) error {
	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")
	fail := func(code int, msg string) error {
		return c.Render(code, "signin", d.page(c, "Connexion", "", view.AuthData{Email: email, Error: msg}))
	}
	if email == "" || password == "" {
		return fail(http.StatusUnprocessableEntity, msgBadCredentials)
	}

	ctx := c.Request().Context()
	tok, err := d.API.Login(ctx, email, password)
	if err != nil {
		code := apiclient.StatusCode(err)
		d.logger(c).WarnContext(ctx, "sign-in failed", "status", code, "err", err)
		if code == apiclient.StatusTransport || code >= http.StatusInternalServerError {
			return fail(http.StatusBadGateway, msgUnavailable)
		}
		return fail(http.StatusUnauthorized, msgBadCredentials)
	}

	st, err := session.Resolve(ctx, d.API.WithToken(tok.AccessToken), tok.AccessToken)
	if err != nil {
		d.logger(c).WarnContext(ctx, "session resolve failed", "err", err)
		return fail(http.StatusBadGateway, msgUnavailable)
	}
	if err := d.Sessions.Write(c, st); err != nil {
		return err
	}
	session.Put(c, st)
	d.logger(c).InfoContext(ctx, "signed in", "user_id", st.Identity.UserID, "role", st.Role())
	return c.Redirect(http.StatusSeeOther, landing(st))
}

// signUpRoles lists the roles offered at sign-up. A failure yields no
// choice rather than an error page.
func (d *Dashboard) signUpRoles(c echo.Context) []model.Role {
	roles, err := d.Store.Roles().List(c.Request().Context(), d.API)
	if err != nil {
		d.logger(c).WarnContext(c.Request().Context(), "roles unavailable for sign-up", "err", err)
		return nil
	}
	return roles
}

// SignUpForm shows the registration page.
func (d *Dashboard) SignUpForm(c echo.Context) error {
	return c.Render(http.StatusOK, "signup", d.page(c, "Inscription", "", view.AuthData{Roles: d.signUpRoles(c)}))
}

// SignUp registers an account and sends the visitor to sign in.
func (d *Dashboard) SignUp(c echo.Context) error {
	reg := model.Registration{
		Name:     strings.TrimSpace(c.FormValue("nom")),
		Email:    strings.TrimSpace(c.FormValue("email")),
		Password: c.FormValue("mot_de_passe"),
	}
	reg.RoleID, _ = strconv.ParseInt(c.FormValue("id_role"), 10, 64)
	fail := func(code int, msg string) error {
		data := view.AuthData{Name: reg.Name, Email: reg.Email, Roles: d.signUpRoles(c), Error: msg}
		return c.Render(code, "signup", d.page(c, "Inscription", "", data))
	}
	if reg.Name == "" || reg.Email == "" || reg.Password == "" || reg.RoleID <= 0 {
		return fail(http.StatusUnprocessableEntity, msgSignUpMissing)
	}

	ctx := c.Request().Context()
	if _, err := d.API.Register(ctx, reg); err != nil {
		code := apiclient.StatusCode(err)
		d.logger(c).WarnContext(ctx, "sign-up failed", "status", code, "err", err)
		if code == apiclient.StatusTransport || code >= http.StatusInternalServerError {
			return fail(http.StatusBadGateway, msgUnavailable)
		}
		msg := msgSignUpFailed
		if detail := apiclient.Detail(err); detail != "" {
			msg = detail
		}
		return fail(http.StatusUnprocessableEntity, msg)
	}
	d.Store.Invalidate(ctx, store.EntityUsers)
	view.SetFlash(c, view.Success("", "Compte créé.", "Vous pouvez maintenant vous connecter."))
	return c.Redirect(http.StatusSeeOther, access.PathSignIn)
}

// SignOut drops the session cookie.
func (d *Dashboard) SignOut(c echo.Context) error {
	d.Sessions.Clear(c)
	return c.Redirect(http.StatusSeeOther, access.PathPublic)
}
