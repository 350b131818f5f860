package model

import (
	"fmt"
	"strings"
)

// Level is the audience level of a talk.
type Level string

const (
	LevelBeginner     Level = "DEBUTANT"
	LevelIntermediate Level = "INTERMEDIAIRE"
	LevelAdvanced     Level = "AVANCE"
)

// Levels lists every level in display order.
var Levels = []Level{LevelBeginner, LevelIntermediate, LevelAdvanced}

// ParseLevel validates a level coming from a form or the CLI.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Levels {
		if l == known {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown level %q", s)
}

// Status is the lifecycle state of a talk.
//
//	EN_ATTENTE ──> ACCEPTE ──(schedule)──> PLANIFIE
//	     └───────> REFUSE
type Status string

const (
	StatusPending   Status = "EN_ATTENTE"
	StatusAccepted  Status = "ACCEPTE"
	StatusRefused   Status = "REFUSE"
	StatusScheduled Status = "PLANIFIE"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusPending, StatusAccepted, StatusRefused, StatusScheduled}

// ParseStatus validates a status coming from a form or the CLI.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Statuses {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// transitions holds the edges the dashboard drives itself. ACCEPTE -> PLANIFIE
// only happens through the scheduling operation.
var transitions = map[Status][]Status{
	StatusPending:  {StatusAccepted, StatusRefused},
	StatusAccepted: {StatusScheduled},
}

// CanTransition reports whether the lifecycle defines an edge from s to next.
func (s Status) CanTransition(next Status) bool {
	for _, to := range transitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool { return len(transitions[s]) == 0 }

// Editable reports whether the owner may still change the talk's fields.
func (s Status) Editable() bool { return s == StatusPending }

// Deletable reports whether the talk may still be removed.
func (s Status) Deletable() bool { return s != StatusScheduled }

// Schedulable reports whether a room and slot may be assigned.
func (s Status) Schedulable() bool { return s == StatusAccepted }

// BadgeColor maps a status onto the badge palette used by the tables.
func (s Status) BadgeColor() string {
	switch s {
	case StatusAccepted:
		return "success"
	case StatusPending:
		return "warning"
	case StatusScheduled:
		return "info"
	default:
		return "error"
	}
}

// StatusEditOptions are the targets offered by the generic status form.
// PLANIFIE is left out: it is reached through scheduling.
func StatusEditOptions() []Status {
	return []Status{StatusPending, StatusAccepted, StatusRefused}
}

// Talk is a conference-presentation proposal as served by the TalkMaster API.
//
// Fields:
//
//	ID          – id_talk, primary key.
//	Title       – titre.
//	Subject     – sujet (marketing, development, design ...).
//	Description – free text.
//	Duration    – duree, in minutes.
//	Level       – niveau.
//	Status      – statut.
//	PresenterID – id_conferencier, owning presenter (nil when unknown).
//	Presenter   – conferencier, embedded presenter when the API includes it.
//	Date, Time  – date/heure of the slot once scheduled.
//	RoomID      – salle_id once scheduled.
type Talk struct {
	ID          int64   `json:"id_talk"`
	Title       string  `json:"titre"`
	Subject     string  `json:"sujet"`
	Description string  `json:"description"`
	Duration    int     `json:"duree"`
	Level       Level   `json:"niveau"`
	Status      Status  `json:"statut"`
	PresenterID *int64  `json:"id_conferencier,omitempty"`
	Presenter   *User   `json:"conferencier,omitempty"`
	Date        *string `json:"date,omitempty"`
	Time        *string `json:"heure,omitempty"`
	RoomID      *int64  `json:"salle_id,omitempty"`
}

// OwnedBy reports whether the talk belongs to the user with the given id.
func (t Talk) OwnedBy(userID int64) bool {
	if t.PresenterID != nil {
		return *t.PresenterID == userID
	}
	return t.Presenter != nil && t.Presenter.ID == userID
}

// DateValue returns the scheduled date or "".
func (t Talk) DateValue() string {
	if t.Date == nil {
		return ""
	}
	return *t.Date
}

// TimeValue returns the scheduled time or "".
func (t Talk) TimeValue() string {
	if t.Time == nil {
		return ""
	}
	return *t.Time
}

// TalkInput is the body of POST /talks and PUT /talks/{id}.
type TalkInput struct {
	Title       string  `json:"titre"`
	Subject     string  `json:"sujet"`
	Description string  `json:"description"`
	Duration    int     `json:"duree"`
	Level       Level   `json:"niveau"`
	Status      Status  `json:"statut,omitempty"`
	Date        *string `json:"date,omitempty"`
	Time        *string `json:"heure,omitempty"`
}

// Input copies the editable fields of t into a request body. The status is
// left out: it only changes through the status endpoint.
func (t Talk) Input() TalkInput {
	return TalkInput{
		Title:       t.Title,
		Subject:     t.Subject,
		Description: t.Description,
		Duration:    t.Duration,
		Level:       t.Level,
		Date:        t.Date,
		Time:        t.Time,
	}
}

// Subjects offered by the proposal form.
var Subjects = []string{"marketing", "development", "design"}
