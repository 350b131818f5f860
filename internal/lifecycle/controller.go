// Package lifecycle drives every talk mutation the dashboard offers: it calls
// the API, turns failures into the messages users see, invalidates the cached
// lists and announces what happened on the event queue.
package lifecycle

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/iliyamo/talkmaster-dashboard/internal/apiclient"
	"github.com/iliyamo/talkmaster-dashboard/internal/model"
	"github.com/iliyamo/talkmaster-dashboard/internal/queue"
	"github.com/iliyamo/talkmaster-dashboard/internal/store"
)

// API is the part of the TalkMaster API the controller mutates through.
// *apiclient.Client bound to the user's token satisfies it.
type API interface {
	CreateTalk(ctx context.Context, in model.TalkInput) (model.Talk, error)
	UpdateTalk(ctx context.Context, id int64, in model.TalkInput) (model.Talk, error)
	DeleteTalk(ctx context.Context, id int64) error
	ChangeTalkStatus(ctx context.Context, id int64, status model.Status) (model.Talk, error)
	ScheduleTalk(ctx context.Context, id int64, s apiclient.ScheduleRequest) (model.Talk, error)
	UpdatePlanning(ctx context.Context, id int64, in model.PlanningInput) (model.Planning, error)
}

// Publisher receives an event after each successful mutation.
type Publisher interface {
	Publish(ctx context.Context, ev queue.TalkLifecycleEvent) error
}

// Controller is stateless apart from its collaborators and safe for
// concurrent use.
type Controller struct {
	store  *store.Store
	events Publisher
	log    *slog.Logger
}

// New builds a controller. store and events may be nil.
func New(st *store.Store, events Publisher, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{store: st, events: events, log: log}
}

// Patch carries the fields a presenter may change on a pending talk. Nil
// fields keep the value of the talk as last fetched.
type Patch struct {
	Title       *string
	Subject     *string
	Description *string
	Duration    *int
	Level       *model.Level
	Date        *string
	Time        *string
}

// Apply merges p onto in.
func (p Patch) Apply(in model.TalkInput) model.TalkInput {
	if p.Title != nil {
		in.Title = *p.Title
	}
	if p.Subject != nil {
		in.Subject = *p.Subject
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.Duration != nil {
		in.Duration = *p.Duration
	}
	if p.Level != nil {
		in.Level = *p.Level
	}
	if p.Date != nil {
		in.Date = p.Date
	}
	if p.Time != nil {
		in.Time = p.Time
	}
	return in
}

// Create proposes a new talk as pending. Missing fields are reported per
// field and nothing is sent.
func (c *Controller) Create(ctx context.Context, api API, in model.TalkInput) (model.Talk, error) {
	in.Status = model.StatusPending
	if errs := in.Validate(); errs != nil {
		e := local(OpCreate, MsgCreateInvalid)
		e.Fields = errs
		return model.Talk{}, e
	}
	t, err := api.CreateTalk(ctx, in)
	if err != nil {
		return model.Talk{}, c.fail(ctx, OpCreate, 0, err)
	}
	c.invalidate(ctx, store.EntityTalks)
	ev := queue.NewEvent(queue.ActionCreated, t.ID)
	ev.Title, ev.Status = t.Title, t.Status
	c.publish(ctx, ev)
	return t, nil
}

// UpdateFields merges patch onto talk (as last fetched) and replaces it.
// Whether the talk is still editable is left to the API.
func (c *Controller) UpdateFields(ctx context.Context, api API, talk model.Talk, patch Patch) (model.Talk, error) {
	t, err := api.UpdateTalk(ctx, talk.ID, patch.Apply(talk.Input()))
	if err != nil {
		return model.Talk{}, c.fail(ctx, OpUpdateFields, talk.ID, err)
	}
	c.invalidate(ctx, store.EntityTalks)
	ev := queue.NewEvent(queue.ActionUpdated, talk.ID)
	ev.Title, ev.Status = t.Title, t.Status
	c.publish(ctx, ev)
	return t, nil
}

// ChangeStatus moves a talk to target. Unknown statuses are rejected
// locally; PLANIFIE is forwarded as is.
func (c *Controller) ChangeStatus(ctx context.Context, api API, id int64, target string) (model.Talk, error) {
	status, err := model.ParseStatus(target)
	if err != nil {
		return model.Talk{}, local(OpChangeStatus, MsgUnknownStatus)
	}
	t, err := api.ChangeTalkStatus(ctx, id, status)
	if err != nil {
		return model.Talk{}, c.fail(ctx, OpChangeStatus, id, err)
	}
	c.invalidate(ctx, store.EntityTalks)
	ev := queue.NewEvent(queue.ActionStatusChanged, id)
	ev.Title, ev.Status = t.Title, status
	c.publish(ctx, ev)
	return t, nil
}

// Slot is a room and time a talk is scheduled into.
type Slot struct {
	RoomID string
	Date   string
	Time   string
}

func (s Slot) complete() bool {
	return strings.TrimSpace(s.RoomID) != "" && strings.TrimSpace(s.Date) != "" && strings.TrimSpace(s.Time) != ""
}

func (s Slot) roomID() (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s.RoomID), 10, 64)
	return id, err == nil && id > 0
}

// Schedule assigns a room and slot to an accepted talk.
func (c *Controller) Schedule(ctx context.Context, api API, id int64, slot Slot) (model.Talk, error) {
	if !slot.complete() {
		return model.Talk{}, local(OpSchedule, MsgScheduleIncomplete)
	}
	roomID, ok := slot.roomID()
	if !ok {
		return model.Talk{}, local(OpSchedule, MsgScheduleInvalid)
	}
	req := apiclient.ScheduleRequest{RoomID: roomID, Date: strings.TrimSpace(slot.Date), Time: strings.TrimSpace(slot.Time)}
	t, err := api.ScheduleTalk(ctx, id, req)
	if err != nil {
		return model.Talk{}, c.fail(ctx, OpSchedule, id, err)
	}
	c.invalidate(ctx, store.EntityTalks, store.EntityPlannings)
	ev := queue.NewEvent(queue.ActionScheduled, id)
	ev.Title, ev.Status = t.Title, model.StatusScheduled
	ev.RoomID, ev.Date, ev.Time = req.RoomID, req.Date, req.Time
	c.publish(ctx, ev)
	return t, nil
}

// Reschedule moves an existing planning entry to another room or slot.
func (c *Controller) Reschedule(ctx context.Context, api API, planningID int64, slot Slot) (model.Planning, error) {
	if !slot.complete() {
		return model.Planning{}, local(OpReschedule, MsgScheduleIncomplete)
	}
	roomID, ok := slot.roomID()
	if !ok {
		return model.Planning{}, local(OpReschedule, MsgScheduleInvalid)
	}
	in := model.PlanningInput{RoomID: roomID, Date: strings.TrimSpace(slot.Date), Time: strings.TrimSpace(slot.Time)}
	p, err := api.UpdatePlanning(ctx, planningID, in)
	if err != nil {
		return model.Planning{}, c.fail(ctx, OpReschedule, planningID, err)
	}
	c.invalidate(ctx, store.EntityPlannings, store.EntityTalks)
	ev := queue.NewEvent(queue.ActionRescheduled, p.TalkID)
	ev.Title, ev.PlanningID = p.TalkTitle, planningID
	ev.RoomID, ev.Date, ev.Time = in.RoomID, in.Date, in.Time
	c.publish(ctx, ev)
	return p, nil
}

// Delete removes a talk. Hiding the control for scheduled talks is the
// view's job; the API has the final word.
func (c *Controller) Delete(ctx context.Context, api API, id int64) error {
	if err := api.DeleteTalk(ctx, id); err != nil {
		return c.fail(ctx, OpDelete, id, err)
	}
	c.invalidate(ctx, store.EntityTalks, store.EntityPlannings)
	c.publish(ctx, queue.NewEvent(queue.ActionDeleted, id))
	return nil
}

func (c *Controller) fail(ctx context.Context, op Op, id int64, err error) *Error {
	e := describe(op, err)
	c.log.WarnContext(ctx, "talk operation failed", "op", op, "id", id, "status", e.Status, "err", err)
	return e
}

func (c *Controller) invalidate(ctx context.Context, entities ...string) {
	c.store.Invalidate(ctx, entities...)
}

func (c *Controller) publish(ctx context.Context, ev queue.TalkLifecycleEvent) {
	if c.events == nil {
		return
	}
	if actor, ok := ctx.Value(actorKey{}).(string); ok {
		ev.Actor = actor
	}
	if err := c.events.Publish(ctx, ev); err != nil {
		c.log.WarnContext(ctx, "publish lifecycle event failed", "action", ev.Action, "talk_id", ev.TalkID, "err", err)
	}
}

type actorKey struct{}

// WithActor records who performs the operations run with the returned
// context; it ends up in published events.
func WithActor(ctx context.Context, actor string) context.Context {
	if actor == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKey{}, actor)
}
