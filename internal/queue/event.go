// Package queue defines the talk lifecycle events exchanged over the message
// broker and the audit consumer that records them.
package queue

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/talkmaster-dashboard/internal/model"
)

// Action names what happened to a talk.
type Action string

const (
	ActionCreated       Action = "created"
	ActionUpdated       Action = "updated"
	ActionStatusChanged Action = "status_changed"
	ActionScheduled     Action = "scheduled"
	ActionRescheduled   Action = "rescheduled"
	ActionDeleted       Action = "deleted"
)

// TalkLifecycleEvent is published after every successful talk mutation made
// through the dashboard. It carries enough for the audit log without calling
// the API back.
type TalkLifecycleEvent struct {
	ID         string       `json:"id"`
	Action     Action       `json:"action"`
	TalkID     int64        `json:"talk_id"`
	Title      string       `json:"titre,omitempty"`
	Status     model.Status `json:"statut,omitempty"`
	PlanningID int64        `json:"id_planning,omitempty"`
	RoomID     int64        `json:"salle_id,omitempty"`
	Date       string       `json:"date,omitempty"`
	Time       string       `json:"heure,omitempty"`
	Actor      string       `json:"actor,omitempty"`
	OccurredAt string       `json:"occurred_at"`
}

// NewEvent stamps a fresh event with an id and the current UTC time.
func NewEvent(action Action, talkID int64) TalkLifecycleEvent {
	return TalkLifecycleEvent{
		ID:         uuid.NewString(),
		Action:     action,
		TalkID:     talkID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// Line renders the event as one line of the audit log.
func (ev TalkLifecycleEvent) Line() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] talk %s | id=%s | talk_id=%d", ev.OccurredAt, ev.Action, ev.ID, ev.TalkID)
	if ev.Title != "" {
		fmt.Fprintf(&b, " | titre=%q", ev.Title)
	}
	if ev.Status != "" {
		fmt.Fprintf(&b, " | statut=%s", ev.Status)
	}
	if ev.PlanningID != 0 {
		fmt.Fprintf(&b, " | planning_id=%d", ev.PlanningID)
	}
	if ev.RoomID != 0 {
		fmt.Fprintf(&b, " | salle_id=%d", ev.RoomID)
	}
	if ev.Date != "" || ev.Time != "" {
		fmt.Fprintf(&b, " | slot=%s %s", ev.Date, ev.Time)
	}
	if ev.Actor != "" {
		fmt.Fprintf(&b, " | actor=%s", ev.Actor)
	}
	b.WriteByte('\n')
	return b.String()
}
