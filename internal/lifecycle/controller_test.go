package lifecycle

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/talkmaster-dashboard/internal/apiclient"
	"github.com/iliyamo/talkmaster-dashboard/internal/model"
	"github.com/iliyamo/talkmaster-dashboard/internal/queue"
	"github.com/iliyamo/talkmaster-dashboard/internal/store"
)

// fakeAPI answers every call with the configured status (200 when zero) and
// records what it was sent.
type fakeAPI struct {
	status  int
	detail  string
	calls   int
	updated model.TalkInput
	sched   apiclient.ScheduleRequest
	target  model.Status
}

func (f *fakeAPI) err(method, path string) error {
	if f.status == 0 || f.status == http.StatusOK {
		return nil
	}
	return &apiclient.Error{Method: method, Path: path, StatusCode: f.status, Detail: f.detail}
}

func (f *fakeAPI) CreateTalk(_ context.Context, in model.TalkInput) (model.Talk, error) {
	f.calls++
	return model.Talk{ID: 11, Title: in.Title, Status: in.Status}, f.err("POST", "/talks")
}

func (f *fakeAPI) UpdateTalk(_ context.Context, id int64, in model.TalkInput) (model.Talk, error) {
	f.calls++
	f.updated = in
	return model.Talk{ID: id, Title: in.Title, Status: in.Status}, f.err("PUT", "/talks/x")
}

func (f *fakeAPI) DeleteTalk(context.Context, int64) error {
	f.calls++
	return f.err("DELETE", "/talks/x")
}

func (f *fakeAPI) ChangeTalkStatus(_ context.Context, id int64, s model.Status) (model.Talk, error) {
	f.calls++
	f.target = s
	return model.Talk{ID: id, Status: s}, f.err("PATCH", "/talks/x/status")
}

func (f *fakeAPI) ScheduleTalk(_ context.Context, id int64, s apiclient.ScheduleRequest) (model.Talk, error) {
	f.calls++
	f.sched = s
	return model.Talk{ID: id, Status: model.StatusScheduled}, f.err("PATCH", "/talks/x/schedule")
}

func (f *fakeAPI) UpdatePlanning(_ context.Context, id int64, in model.PlanningInput) (model.Planning, error) {
	f.calls++
	return model.Planning{ID: id, TalkID: 3, RoomID: in.RoomID, Date: in.Date, Time: in.Time}, f.err("PUT", "/plannings/x")
}

type recorder struct {
	events []queue.TalkLifecycleEvent
	fail   bool
}

func (r *recorder) Publish(_ context.Context, ev queue.TalkLifecycleEvent) error {
	r.events = append(r.events, ev)
	if r.fail {
		return errors.New("broker down")
	}
	return nil
}

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newController(events Publisher) *Controller {
	st := store.New(store.NewMemoryCache(16, time.Minute), time.Minute, "t", quietLogger())
	return New(st, events, quietLogger())
}

func TestChangeStatusMessages(t *testing.T) {
	tests := []struct {
		status int
		msg    string
	}{
		{http.StatusNotFound, "Le talk n'a pas été trouvé."},
		{http.StatusForbidden, "Vous n'avez pas les droits pour modifier ce talk."},
		{http.StatusBadRequest, "Le talk ne peut plus être modifié."},
		{http.StatusInternalServerError, "Une erreur inattendue est survenue."},
		{http.StatusConflict, "Une erreur inattendue est survenue."},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			_, err := newController(nil).ChangeStatus(context.Background(), &fakeAPI{status: tt.status}, 1, "ACCEPTE")
			require.Error(t, err)
			assert.Equal(t, tt.msg, Message(err))
		})
	}
}

func TestChangeStatusTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()
	api, err := apiclient.New(base, time.Second)
	require.NoError(t, err)

	_, err = newController(nil).ChangeStatus(context.Background(), api, 1, "ACCEPTE")
	require.Error(t, err)
	assert.Equal(t, MsgUnexpected, Message(err))
	var le *Error
	require.ErrorAs(t, err, &le)
	assert.Equal(t, apiclient.StatusTransport, le.Status)
}

func TestChangeStatusLocalValidation(t *testing.T) {
	api := &fakeAPI{}
	_, err := newController(nil).ChangeStatus(context.Background(), api, 1, "ARCHIVE")
	require.Error(t, err)
	assert.Zero(t, api.calls)

	_, err = newController(nil).ChangeStatus(context.Background(), api, 1, "planifie")
	require.NoError(t, err)
	assert.Equal(t, model.StatusScheduled, api.target)
}

func TestScheduleIncompleteNeverCallsAPI(t *testing.T) {
	for _, slot := range []Slot{
		{RoomID: "", Date: "2025-06-01", Time: "10:00"},
		{RoomID: "2", Date: " ", Time: "10:00"},
		{RoomID: "2", Date: "2025-06-01", Time: ""},
	} {
		api := &fakeAPI{}
		_, err := newController(nil).Schedule(context.Background(), api, 1, slot)
		require.Error(t, err)
		assert.Equal(t, "Veuillez remplir tous les champs de planification.", Message(err))
		assert.Zero(t, api.calls)
	}
}

func TestScheduleMessages(t *testing.T) {
	tests := []struct {
		name   string
		status int
		detail string
		msg    string
	}{
		{"conflict", http.StatusConflict, "", "Conflit : salle ou créneau déjà pris."},
		{"forbidden", http.StatusForbidden, "", "Vous n'avez pas les droits pour planifier ce talk."},
		{"not found", http.StatusNotFound, "", "Le talk n'a pas été trouvé."},
		{"bad request with detail", http.StatusBadRequest, "Le talk doit être accepté", "Le talk doit être accepté"},
		{"bad request", http.StatusBadRequest, "", "Données de planification invalides."},
		{"other", http.StatusBadGateway, "", "Erreur lors de la planification."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{status: tt.status, detail: tt.detail}
			_, err := newController(nil).Schedule(context.Background(), api, 1, Slot{RoomID: "2", Date: "2025-06-01", Time: "10:00"})
			require.Error(t, err)
			assert.Equal(t, tt.msg, Message(err))
		})
	}
}

func TestScheduleSuccessPublishes(t *testing.T) {
	rec := &recorder{}
	api := &fakeAPI{}
	ctx := WithActor(context.Background(), "orga@example.com")

	talk, err := newController(rec).Schedule(ctx, api, 9, Slot{RoomID: " 2 ", Date: "2025-06-01", Time: "10:00"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusScheduled, talk.Status)
	assert.Equal(t, apiclient.ScheduleRequest{RoomID: 2, Date: "2025-06-01", Time: "10:00"}, api.sched)

	require.Len(t, rec.events, 1)
	ev := rec.events[0]
	assert.Equal(t, queue.ActionScheduled, ev.Action)
	assert.Equal(t, int64(9), ev.TalkID)
	assert.Equal(t, int64(2), ev.RoomID)
	assert.Equal(t, "orga@example.com", ev.Actor)
}

func TestPublishFailureDoesNotFailAction(t *testing.T) {
	rec := &recorder{fail: true}
	err := newController(rec).Delete(context.Background(), &fakeAPI{}, 4)
	assert.NoError(t, err)
	assert.Len(t, rec.events, 1)
}

func TestNoEventOnFailure(t *testing.T) {
	rec := &recorder{}
	err := newController(rec).Delete(context.Background(), &fakeAPI{status: http.StatusForbidden}, 4)
	require.Error(t, err)
	assert.Equal(t, "Erreur lors de la suppression du talk.", Message(err))
	assert.Empty(t, rec.events)
}

func TestUpdateFieldsMergesPatch(t *testing.T) {
	date := "2025-06-01"
	talk := model.Talk{ID: 5, Title: "Old", Subject: "design", Description: "d", Duration: 30, Level: model.LevelBeginner, Status: model.StatusPending, Date: &date}
	title, duration := "New", 45
	api := &fakeAPI{}

	_, err := newController(nil).UpdateFields(context.Background(), api, talk, Patch{Title: &title, Duration: &duration})
	require.NoError(t, err)
	assert.Equal(t, "New", api.updated.Title)
	assert.Equal(t, 45, api.updated.Duration)
	assert.Equal(t, "design", api.updated.Subject)
	assert.Equal(t, model.LevelBeginner, api.updated.Level)
	require.NotNil(t, api.updated.Date)
	assert.Equal(t, date, *api.updated.Date)
	assert.Empty(t, api.updated.Status)

	body, err := json.Marshal(api.updated)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "statut")
}

func TestUpdateFieldsMessages(t *testing.T) {
	tests := map[int]string{
		http.StatusForbidden:           "Vous n'avez pas l'autorisation de modifier ce talk.",
		http.StatusBadRequest:          "Le talk ne peut plus être modifié.",
		http.StatusNotFound:            "Une erreur s'est produite.",
		http.StatusInternalServerError: "Une erreur s'est produite.",
	}
	for status, msg := range tests {
		_, err := newController(nil).UpdateFields(context.Background(), &fakeAPI{status: status}, model.Talk{ID: 1}, Patch{})
		require.Error(t, err)
		assert.Equal(t, msg, Message(err), "status %d", status)
	}
}

func TestCreateValidatesLocally(t *testing.T) {
	api := &fakeAPI{}
	_, err := newController(nil).Create(context.Background(), api, model.TalkInput{Title: "Go"})
	require.Error(t, err)
	var le *Error
	require.ErrorAs(t, err, &le)
	assert.Contains(t, le.Fields, "sujet")
	assert.Contains(t, le.Fields, "duree")
	assert.NotContains(t, le.Fields, "titre")
	assert.Zero(t, api.calls)
}

func TestCreateIsPending(t *testing.T) {
	rec := &recorder{}
	talk, err := newController(rec).Create(context.Background(), &fakeAPI{}, model.TalkInput{
		Title: "Go", Subject: "development", Description: "d", Duration: 30, Level: model.LevelAdvanced, Status: model.StatusAccepted,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, talk.Status)
	require.Len(t, rec.events, 1)
	assert.Equal(t, queue.ActionCreated, rec.events[0].Action)
}

func TestRescheduleSharesScheduleMessages(t *testing.T) {
	api := &fakeAPI{status: http.StatusConflict}
	_, err := newController(nil).Reschedule(context.Background(), api, 2, Slot{RoomID: "1", Date: "2025-06-01", Time: "11:00"})
	assert.Equal(t, MsgScheduleConflict, Message(err))

	_, err = newController(nil).Reschedule(context.Background(), &fakeAPI{}, 2, Slot{RoomID: "x", Date: "2025-06-01", Time: "11:00"})
	assert.Equal(t, MsgScheduleInvalid, Message(err))
}

func TestIsUnauthorized(t *testing.T) {
	err := newController(nil).Delete(context.Background(), &fakeAPI{status: http.StatusUnauthorized}, 1)
	assert.True(t, IsUnauthorized(err))
	assert.False(t, IsUnauthorized(errors.New("x")))
	assert.Equal(t, MsgUnexpected, Message(errors.New("x")))
}

func TestMutationInvalidatesCache(t *testing.T) {
	cache := store.NewMemoryCache(16, time.Minute)
	c := New(store.New(cache, time.Minute, "t", quietLogger()), nil, quietLogger())

	_, err := c.ChangeStatus(context.Background(), &fakeAPI{}, 1, "ACCEPTE")
	require.NoError(t, err)
	gen, err := cache.Generation(context.Background(), store.EntityTalks)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)

	_, err = c.Schedule(context.Background(), &fakeAPI{}, 1, Slot{RoomID: "1", Date: "2025-06-01", Time: "10:00"})
	require.NoError(t, err)
	gen, err = cache.Generation(context.Background(), store.EntityPlannings)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)
}
