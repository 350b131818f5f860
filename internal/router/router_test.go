package router

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/talkmaster-dashboard/internal/apiclient"
	"github.com/iliyamo/talkmaster-dashboard/internal/config"
	"github.com/iliyamo/talkmaster-dashboard/internal/handler"
	"github.com/iliyamo/talkmaster-dashboard/internal/lifecycle"
	"github.com/iliyamo/talkmaster-dashboard/internal/middleware"
	"github.com/iliyamo/talkmaster-dashboard/internal/model"
	"github.com/iliyamo/talkmaster-dashboard/internal/session"
	"github.com/iliyamo/talkmaster-dashboard/internal/store"
	"github.com/iliyamo/talkmaster-dashboard/internal/view"
)

// talkMaster is an in-memory TalkMaster API.
type talkMaster struct {
	mu        sync.Mutex
	users     map[string]model.User // by email
	claims    map[string]string     // email -> role claim, "" for none
	tokens    map[string]string     // token -> email
	talks     []model.Talk
	plannings []model.Planning
	conflict  bool
	expired   bool
	down      bool   // GET /plannings fails
	lastPut   []byte // body of the last PUT /talks/{id}
}

var testRoles = []model.Role{
	{ID: 1, Name: "Conférencier"},
	{ID: 2, Name: "Organisateur"},
	{ID: 3, Name: "Administrateur"},
}

func newTalkMaster() *talkMaster {
	return &talkMaster{
		users: map[string]model.User{
			"presenter@tm.test": {ID: 10, Name: "Ada", Email: "presenter@tm.test", RoleID: 1},
			"organizer@tm.test": {ID: 20, Name: "Grace", Email: "organizer@tm.test", RoleID: 2},
			"admin@tm.test":     {ID: 30, Name: "Root", Email: "admin@tm.test", RoleID: 3},
		},
		// The presenter's token carries no role, so sign-in resolves it
		// through /roles.
		claims: map[string]string{
			"presenter@tm.test": "",
			"organizer@tm.test": "ORGANISATEUR",
			"admin@tm.test":     "admin",
		},
		tokens: map[string]string{},
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (tm *talkMaster) token(t *testing.T, email string) string {
	claims := jwt.MapClaims{"sub": email, "exp": time.Now().Add(time.Hour).Unix()}
	if role := tm.claims[email]; role != "" {
		claims["role"] = role
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("api-secret"))
	require.NoError(t, err)
	tm.tokens[tok] = email
	return tok
}

// authed resolves the bearer token, answering 401 itself when it cannot.
func (tm *talkMaster) authed(w http.ResponseWriter, r *http.Request) (model.User, bool) {
	email, ok := tm.tokens[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")]
	if !ok || tm.expired {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
		return model.User{}, false
	}
	return tm.users[email], true
}

func (tm *talkMaster) find(r *http.Request) int {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	for i, t := range tm.talks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (tm *talkMaster) server(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	handle := func(pattern string, fn func(w http.ResponseWriter, r *http.Request, u model.User)) {
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			tm.mu.Lock()
			defer tm.mu.Unlock()
			u, ok := tm.authed(w, r)
			if !ok {
				return
			}
			fn(w, r, u)
		})
	}

	mux.HandleFunc("POST /auth/token", func(w http.ResponseWriter, r *http.Request) {
		tm.mu.Lock()
		defer tm.mu.Unlock()
		email := r.FormValue("username")
		if _, ok := tm.users[email]; !ok || r.FormValue("password") != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect username or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access_token": tm.token(t, email), "token_type": "bearer"})
	})
	handle("GET /auth/me", func(w http.ResponseWriter, r *http.Request, u model.User) {
		writeJSON(w, http.StatusOK, u)
	})
	handle("GET /roles", func(w http.ResponseWriter, r *http.Request, u model.User) {
		writeJSON(w, http.StatusOK, testRoles)
	})
	handle("GET /salles", func(w http.ResponseWriter, r *http.Request, u model.User) {
		writeJSON(w, http.StatusOK, []model.Room{{ID: 1, Name: "Salle A", Capacity: 50}})
	})
	handle("GET /utilisateurs", func(w http.ResponseWriter, r *http.Request, u model.User) {
		var users []model.User
		for _, u := range tm.users {
			users = append(users, u)
		}
		writeJSON(w, http.StatusOK, users)
	})
	mux.HandleFunc("GET /plannings", func(w http.ResponseWriter, r *http.Request) {
		tm.mu.Lock()
		defer tm.mu.Unlock()
		if tm.down {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Internal Server Error"})
			return
		}
		if len(tm.plannings) == 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Aucun planning trouvé"})
			return
		}
		writeJSON(w, http.StatusOK, tm.plannings)
	})
	mux.HandleFunc("GET /plannings/planning", func(w http.ResponseWriter, r *http.Request) {
		tm.mu.Lock()
		defer tm.mu.Unlock()
		var out []model.Planning
		for _, p := range tm.plannings {
			if p.Date == r.URL.Query().Get("jour") {
				out = append(out, p)
			}
		}
		if len(out) == 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Aucun talk planifié"})
			return
		}
		writeJSON(w, http.StatusOK, out)
	})
	handle("PUT /plannings/{id}", func(w http.ResponseWriter, r *http.Request, u model.User) {
		if tm.conflict {
			writeJSON(w, http.StatusConflict, map[string]string{"detail": "Créneau occupé"})
			return
		}
		var in model.PlanningInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		p := tm.plannings[0]
		p.RoomID, p.Date, p.Time = in.RoomID, in.Date, in.Time
		tm.plannings[0] = p
		writeJSON(w, http.StatusOK, p)
	})
	handle("GET /talks", func(w http.ResponseWriter, r *http.Request, u model.User) {
		writeJSON(w, http.StatusOK, tm.talks)
	})
	handle("GET /talks/me", func(w http.ResponseWriter, r *http.Request, u model.User) {
		mine := []model.Talk{}
		for _, t := range tm.talks {
			if t.OwnedBy(u.ID) {
				mine = append(mine, t)
			}
		}
		writeJSON(w, http.StatusOK, mine)
	})
	handle("GET /talks/{id}", func(w http.ResponseWriter, r *http.Request, u model.User) {
		if i := tm.find(r); i >= 0 {
			writeJSON(w, http.StatusOK, tm.talks[i])
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Talk non trouvé"})
	})
	handle("POST /talks", func(w http.ResponseWriter, r *http.Request, u model.User) {
		var in model.TalkInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		owner := u.ID
		talk := model.Talk{
			ID: int64(len(tm.talks) + 1), Title: in.Title, Subject: in.Subject, Description: in.Description,
			Duration: in.Duration, Level: in.Level, Status: in.Status, PresenterID: &owner,
		}
		tm.talks = append(tm.talks, talk)
		writeJSON(w, http.StatusCreated, talk)
	})
	handle("PUT /talks/{id}", func(w http.ResponseWriter, r *http.Request, u model.User) {
		i := tm.find(r)
		if i < 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Talk non trouvé"})
			return
		}
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		tm.lastPut = raw
		if tm.talks[i].Status != model.StatusPending {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Seuls les talks en attente peuvent être modifiés"})
			return
		}
		var in model.TalkInput
		require.NoError(t, json.Unmarshal(raw, &in))
		talk := &tm.talks[i]
		talk.Title, talk.Subject, talk.Description = in.Title, in.Subject, in.Description
		talk.Duration, talk.Level, talk.Date, talk.Time = in.Duration, in.Level, in.Date, in.Time
		writeJSON(w, http.StatusOK, *talk)
	})
	handle("PATCH /talks/{id}/status", func(w http.ResponseWriter, r *http.Request, u model.User) {
		i := tm.find(r)
		if i < 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Talk non trouvé"})
			return
		}
		tm.talks[i].Status = model.Status(r.URL.Query().Get("status"))
		writeJSON(w, http.StatusOK, tm.talks[i])
	})
	handle("PATCH /talks/{id}/schedule", func(w http.ResponseWriter, r *http.Request, u model.User) {
		if tm.conflict {
			writeJSON(w, http.StatusConflict, map[string]string{"detail": "Conflit de planning"})
			return
		}
		i := tm.find(r)
		q := r.URL.Query()
		date, heure := q.Get("date"), q.Get("heure")
		tm.talks[i].Status = model.StatusScheduled
		tm.talks[i].Date, tm.talks[i].Time = &date, &heure
		writeJSON(w, http.StatusOK, tm.talks[i])
	})
	handle("DELETE /talks/{id}", func(w http.ResponseWriter, r *http.Request, u model.User) {
		i := tm.find(r)
		tm.talks = append(tm.talks[:i], tm.talks[i+1:]...)
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func (tm *talkMaster) seed(status model.Status, owner int64) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.talks = append(tm.talks, model.Talk{
		ID: int64(len(tm.talks) + 1), Title: "Go idioms", Subject: "Go", Description: "Interfaces",
		Duration: 30, Level: model.LevelBeginner, Status: status, PresenterID: &owner,
	})
}

func (tm *talkMaster) set(fn func()) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	fn()
}

func newDashboard(t *testing.T, api *httptest.Server) *echo.Echo {
	return newCachedDashboard(t, api, nil)
}

// newCachedDashboard backs the stores and the page cache with rdb, or with
// process memory and no page cache when rdb is nil.
func newCachedDashboard(t *testing.T, api *httptest.Server, rdb *redis.Client) *echo.Echo {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := apiclient.New(api.URL, 5*time.Second)
	require.NoError(t, err)
	cacheCfg := config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "test", MaxEntries: 128}
	st := store.FromConfig(cacheCfg, rdb, log)
	codec := session.NewCodec("test-secret", time.Hour, false)
	d := handler.NewDashboard(client, st, lifecycle.New(st, nil, log), codec, log)

	e := echo.New()
	e.Renderer = view.MustNew()
	e.HTTPErrorHandler = d.ErrorHandler
	e.Use(middleware.Session(codec))
	RegisterRoutes(e, d, Options{Cache: cacheCfg, Redis: rdb})
	return e
}

const csrfCookie = "talkmaster_csrf"

// browser replays cookies between requests and never follows redirects.
type browser struct {
	t   *testing.T
	e   *echo.Echo
	jar map[string]*http.Cookie
}

func newBrowser(t *testing.T, e *echo.Echo) *browser {
	return &browser{t: t, e: e, jar: map[string]*http.Cookie{}}
}

func (b *browser) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	if method == http.MethodPost {
		form = b.withToken(form)
	}
	return b.send(method, path, form)
}

// withToken copies form and adds the CSRF token a rendered form would carry,
// loading a page first when the browser has none yet.
func (b *browser) withToken(form url.Values) url.Values {
	b.t.Helper()
	if _, ok := b.jar[csrfCookie]; !ok {
		b.get("/signin")
	}
	out := url.Values{}
	for k, v := range form {
		out[k] = v
	}
	if _, ok := out[middleware.CSRFField]; !ok {
		out.Set(middleware.CSRFField, b.jar[csrfCookie].Value)
	}
	return out
}

func (b *browser) send(method, path string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	for _, c := range b.jar {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	rec := httptest.NewRecorder()
	b.e.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(b.jar, c.Name)
			continue
		}
		b.jar[c.Name] = c
	}
	return rec
}

func (b *browser) get(path string) *httptest.ResponseRecorder { return b.do(http.MethodGet, path, nil) }

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	return b.do(http.MethodPost, path, form)
}

func (b *browser) signIn(email string) *httptest.ResponseRecorder {
	b.t.Helper()
	rec := b.post("/signin", url.Values{"email": {email}, "password": {"secret"}})
	require.Equal(b.t, http.StatusSeeOther, rec.Code, rec.Body.String())
	require.Contains(b.t, b.jar, session.CookieName)
	return rec
}

func TestSignInLandsByRole(t *testing.T) {
	tm := newTalkMaster()
	e := newDashboard(t, tm.server(t))

	cases := map[string]string{
		"admin@tm.test":     "/dashboard",
		"organizer@tm.test": "/tables",
		"presenter@tm.test": "/tables",
	}
	for email, want := range cases {
		rec := newBrowser(t, e).signIn(email)
		assert.Equal(t, want, rec.Header().Get("Location"), email)
	}
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	tm := newTalkMaster()
	b := newBrowser(t, newDashboard(t, tm.server(t)))

	rec := b.post("/signin", url.Values{"email": {"admin@tm.test"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email ou mot de passe incorrect.")
	assert.NotContains(t, b.jar, session.CookieName)
}

func TestPresenterSubmitsTalk(t *testing.T) {
	tm := newTalkMaster()
	b := newBrowser(t, newDashboard(t, tm.server(t)))
	b.signIn("presenter@tm.test")

	// Prime the cache so the proposal must invalidate it.
	require.Equal(t, http.StatusOK, b.get("/tables").Code)

	rec := b.post("/forms/talks", url.Values{
		"titre": {"Concurrency"}, "sujet": {"Go"}, "description": {"Channels"},
		"duree": {"45"}, "niveau": {"AVANCE"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/forms#talk", rec.Header().Get("Location"))

	page := b.get("/forms")
	assert.Contains(t, page.Body.String(), "Votre talk a été proposé.")

	tables := b.get("/tables").Body.String()
	assert.Contains(t, tables, "Concurrency")
	assert.Contains(t, tables, `<span class="badge badge-warning">EN_ATTENTE</span>`)
	assert.Contains(t, tables, `data-action="delete"`)
}

func TestPresenterProposalMissingFields(t *testing.T) {
	tm := newTalkMaster()
	b := newBrowser(t, newDashboard(t, tm.server(t)))
	b.signIn("presenter@tm.test")

	rec := b.post("/forms/talks", url.Values{"titre": {"Concurrency"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Veuillez corriger les champs indiqués.")
	assert.Contains(t, body, "Le sujet est requis.")
	assert.Contains(t, body, `value="Concurrency"`)
	assert.Empty(t, tm.talks)
}

func TestOrganizerScheduleConflict(t *testing.T) {
	tm := newTalkMaster()
	tm.seed(model.StatusAccepted, 10)
	tm.set(func() { tm.conflict = true })
	b := newBrowser(t, newDashboard(t, tm.server(t)))
	b.signIn("organizer@tm.test")

	rec := b.post("/talks/1/schedule", url.Values{"salle_id": {"1"}, "date": {"2025-06-12"}, "heure": {"14:00"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Conflit : salle ou créneau déjà pris.")
	assert.Contains(t, body, "<details open><summary>Planifier</summary>")
	assert.Equal(t, model.StatusAccepted, tm.talks[0].Status)
}

func TestOrganizerScheduleIncomplete(t *testing.T) {
	tm := newTalkMaster()
	tm.seed(model.StatusAccepted, 10)
	b := newBrowser(t, newDashboard(t, tm.server(t)))
	b.signIn("organizer@tm.test")

	rec := b.post("/talks/1/schedule", url.Values{"salle_id": {"1"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Veuillez remplir tous les champs de planification.")
}

func TestAdminAcceptsTalk(t *testing.T) {
	tm := newTalkMaster()
	tm.seed(model.StatusPending, 10)
	b := newBrowser(t, newDashboard(t, tm.server(t)))
	b.signIn("admin@tm.test")

	before := b.get("/tables").Body.String()
	assert.Contains(t, before, `<span class="badge badge-warning">EN_ATTENTE</span>`)

	rec := b.post("/talks/1/status", url.Values{"status": {"ACCEPTE"}})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/tables#talks", rec.Header().Get("Location"))

	after := b.get("/tables").Body.String()
	assert.Contains(t, after, `<span class="badge badge-success">ACCEPTE</span>`)
	assert.Contains(t, after, "Le statut du talk a été mis à jour.")
	// The flash is shown once.
	assert.NotContains(t, b.get("/tables").Body.String(), "Le statut du talk a été mis à jour.")
}

func TestStatusChangeUnknownTalk(t *testing.T) {
	tm := newTalkMaster()
	b := newBrowser(t, newDashboard(t, tm.server(t)))
	b.signIn("admin@tm.test")

	rec := b.post("/talks/99/status", url.Values{"status": {"REFUSE"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Le talk n&#39;a pas été trouvé.")
}

func TestPresenterDeletesTalk(t *testing.T) {
	tm := newTalkMaster()
	tm.seed(model.StatusPending, 10)
	b := newBrowser(t, newDashboard(t, tm.server(t)))
	b.signIn("presenter@tm.test")

	rec := b.post("/talks/1/delete", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/tables#mytalks", rec.Header().Get("Location"))
	assert.Empty(t, tm.talks)
	assert.Contains(t, b.get("/tables").Body.String(), "Vous n'avez proposé aucun talk.")
}

func TestRoleGating(t *testing.T) {
	tm := newTalkMaster()
	tm.seed(model.StatusPending, 10)
	e := newDashboard(t, tm.server(t))

	anon := newBrowser(t, e)
	for _, path := range []string{"/dashboard", "/calendar", "/forms", "/tables"} {
		rec := anon.get(path)
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/public", rec.Header().Get("Location"), path)
	}

	presenter := newBrowser(t, e)
	presenter.signIn("presenter@tm.test")
	assert.Equal(t, "/public", presenter.get("/dashboard").Header().Get("Location"))
	rec := presenter.post("/talks/1/status", url.Values{"status": {"ACCEPTE"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/public", rec.Header().Get("Location"))
	assert.Equal(t, model.StatusPending, tm.talks[0].Status)

	organizer := newBrowser(t, e)
	organizer.signIn("organizer@tm.test")
	assert.Equal(t, "/public", organizer.get("/forms").Header().Get("Location"))
	assert.Equal(t, http.StatusOK, organizer.get("/calendar").Code)
}

func TestExpiredTokenSendsToSignIn(t *testing.T) {
	tm := newTalkMaster()
	b := newBrowser(t, newDashboard(t, tm.server(t)))
	b.signIn("admin@tm.test")

	tm.set(func() { tm.expired = true })
	rec := b.get("/tables")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/signin", rec.Header().Get("Location"))
	assert.NotContains(t, b.jar, session.CookieName)

	page := b.get("/signin")
	assert.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Votre session a expiré.")
}

func TestPublicPageWithoutPlannings(t *testing.T) {
	tm := newTalkMaster()
	b := newBrowser(t, newDashboard(t, tm.server(t)))

	rec := b.get("/public")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Aucun talk planifié pour le moment.")
}

func TestCalendarReschedule(t *testing.T) {
	tm := newTalkMaster()
	tm.set(func() {
		tm.plannings = []model.Planning{{
			ID: 7, Date: "2025-06-12", Time: "14:00", RoomID: 1, TalkID: 1,
			TalkTitle: "Go idioms", TalkStatus: model.StatusScheduled, RoomName: "Salle A",
		}}
	})
	b := newBrowser(t, newDashboard(t, tm.server(t)))
	b.signIn("organizer@tm.test")

	page := b.get("/calendar").Body.String()
	assert.Contains(t, page, "Go idioms")
	assert.Contains(t, page, `action="/calendar/plannings/7"`)

	rec := b.post("/calendar/plannings/7", url.Values{"salle_id": {"1"}, "date": {"2025-06-13"}, "heure": {"09:30"}})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/calendar", rec.Header().Get("Location"))
	assert.Contains(t, b.get("/calendar").Body.String(), "2025-06-13")

	tm.set(func() { tm.conflict = true })
	rec = b.post("/calendar/plannings/7", url.Values{"salle_id": {"1"}, "date": {"2025-06-14"}, "heure": {"09:30"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Conflit : salle ou créneau déjà pris.")
}

func TestSignOut(t *testing.T) {
	tm := newTalkMaster()
	b := newBrowser(t, newDashboard(t, tm.server(t)))
	b.signIn("admin@tm.test")

	rec := b.post("/signout", nil)
	assert.Equal(t, "/public", rec.Header().Get("Location"))
	assert.NotContains(t, b.jar, session.CookieName)
	assert.Equal(t, "/public", b.get("/tables").Header().Get("Location"))
}

func TestAdminDashboardMetrics(t *testing.T) {
	tm := newTalkMaster()
	tm.seed(model.StatusPending, 10)
	tm.seed(model.StatusAccepted, 10)
	b := newBrowser(t, newDashboard(t, tm.server(t)))
	b.signIn("admin@tm.test")

	rec := b.get("/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Utilisateurs")
	assert.Contains(t, body, "Salles")
}

func TestPublicPageFiltersByDay(t *testing.T) {
	tm := newTalkMaster()
	tm.set(func() {
		tm.plannings = []model.Planning{
			{ID: 1, Date: "2025-06-12", Time: "09:00", TalkTitle: "Morning keynote", TalkStatus: model.StatusScheduled},
			{ID: 2, Date: "2025-06-13", Time: "10:00", TalkTitle: "Second day", TalkStatus: model.StatusScheduled},
		}
	})
	b := newBrowser(t, newDashboard(t, tm.server(t)))

	body := b.get("/public?jour=2025-06-12").Body.String()
	assert.Contains(t, body, "Morning keynote")
	assert.NotContains(t, body, "Second day")
	assert.Contains(t, body, `value="2025-06-12"`)

	body = b.get("/public?jour=2025-07-01").Body.String()
	assert.Contains(t, body, "Aucun talk planifié pour le moment.")
	assert.NotContains(t, body, "alert-error\">")
}

func TestPresenterEditsTalkSlot(t *testing.T) {
	tm := newTalkMaster()
	tm.seed(model.StatusPending, 10)
	b := newBrowser(t, newDashboard(t, tm.server(t)))
	b.signIn("presenter@tm.test")

	page := b.get("/tables").Body.String()
	assert.Contains(t, page, `<input type="date" name="date" value="">`)
	assert.Contains(t, page, `<input type="time" name="heure" value="">`)

	rec := b.post("/talks/1", url.Values{
		"titre": {"Go idioms, revisited"}, "sujet": {"Go"}, "description": {"Interfaces"},
		"duree": {"40"}, "niveau": {"DEBUTANT"}, "date": {"2025-06-20"}, "heure": {"10:00"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/tables#mytalks", rec.Header().Get("Location"))

	body := string(tm.lastPut)
	assert.Contains(t, body, `"date":"2025-06-20"`)
	assert.Contains(t, body, `"heure":"10:00"`)
	assert.NotContains(t, body, "statut")
	assert.Equal(t, "Go idioms, revisited", tm.talks[0].Title)
	assert.Contains(t, b.get("/tables").Body.String(), `value="2025-06-20"`)
}

func TestEditOfReviewedTalkIsRejected(t *testing.T) {
	tm := newTalkMaster()
	tm.seed(model.StatusAccepted, 10)
	b := newBrowser(t, newDashboard(t, tm.server(t)))
	b.signIn("presenter@tm.test")

	assert.Contains(t, b.get("/tables").Body.String(), "Ce talk ne peut plus être modifié.")

	rec := b.post("/talks/1", url.Values{"titre": {"Changed"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Le talk ne peut plus être modifié.")
	assert.Contains(t, body, "<details open><summary>Modifier</summary>")
	assert.NotContains(t, string(tm.lastPut), "statut")
	assert.Equal(t, "Go idioms", tm.talks[0].Title)
	assert.Equal(t, model.StatusAccepted, tm.talks[0].Status)
}

func TestPublicPageCacheFollowsPlanningChanges(t *testing.T) {
	tm := newTalkMaster()
	tm.set(func() {
		tm.plannings = []model.Planning{{
			ID: 7, Date: "2025-06-12", Time: "14:00", RoomID: 1, TalkID: 1,
			TalkTitle: "Go idioms", TalkStatus: model.StatusScheduled, RoomName: "Salle A",
		}}
	})
	rdb := redis.NewClient(&redis.Options{Addr: miniredis.RunT(t).Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	e := newCachedDashboard(t, tm.server(t), rdb)

	anon := newBrowser(t, e)
	first := anon.get("/public")
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Contains(t, first.Body.String(), "2025-06-12")
	assert.Equal(t, "HIT", anon.get("/public").Header().Get("X-Cache"))

	organizer := newBrowser(t, e)
	organizer.signIn("organizer@tm.test")
	rec := organizer.post("/calendar/plannings/7", url.Values{"salle_id": {"1"}, "date": {"2025-07-01"}, "heure": {"09:30"}})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())

	after := anon.get("/public")
	assert.Equal(t, "MISS", after.Header().Get("X-Cache"))
	assert.Contains(t, after.Body.String(), "2025-07-01")
	assert.NotContains(t, after.Body.String(), "2025-06-12")
	assert.Equal(t, "HIT", anon.get("/public").Header().Get("X-Cache"))
}

func TestPublicPageOutageIsNotCached(t *testing.T) {
	tm := newTalkMaster()
	tm.set(func() { tm.down = true })
	rdb := redis.NewClient(&redis.Options{Addr: miniredis.RunT(t).Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	anon := newBrowser(t, newCachedDashboard(t, tm.server(t), rdb))

	first := anon.get("/public")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Contains(t, first.Body.String(), "Le programme n&#39;a pas pu être chargé.")
	assert.Equal(t, "no-store", first.Header().Get(echo.HeaderCacheControl))

	tm.set(func() {
		tm.down = false
		tm.plannings = []model.Planning{{ID: 1, Date: "2025-06-12", Time: "09:00", TalkTitle: "Morning keynote", TalkStatus: model.StatusScheduled}}
	})
	second := anon.get("/public")
	assert.Equal(t, "MISS", second.Header().Get("X-Cache"))
	assert.Contains(t, second.Body.String(), "Morning keynote")
}

func TestFormPostsCarryCSRFToken(t *testing.T) {
	tm := newTalkMaster()
	tm.seed(model.StatusPending, 10)
	b := newBrowser(t, newDashboard(t, tm.server(t)))
	b.signIn("admin@tm.test")

	page := b.get("/tables").Body.String()
	token := b.jar[csrfCookie].Value
	require.NotEmpty(t, token)
	assert.Contains(t, page, `<input type="hidden" name="_csrf" value="`+token+`">`)

	rec := b.send(http.MethodPost, "/talks/1/status", url.Values{"status": {"ACCEPTE"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Le formulaire a expiré.")

	rec = b.post("/talks/1/status", url.Values{"status": {"ACCEPTE"}, middleware.CSRFField: {"forged"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, model.StatusPending, tm.talks[0].Status)

	rec = b.post("/talks/1/status", url.Values{"status": {"ACCEPTE"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, model.StatusAccepted, tm.talks[0].Status)
}
