package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/iliyamo/talkmaster-dashboard/internal/model"
)

// TalkFilter narrows GET /talks. Zero values are not sent.
type TalkFilter struct {
	Status      model.Status
	Level       model.Level
	MinDuration int
	MaxDuration int
	Skip        int
	Limit       int
}

// Query renders the filter as URL parameters.
func (f TalkFilter) Query() url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("statut", string(f.Status))
	}
	if f.Level != "" {
		q.Set("niveau", string(f.Level))
	}
	if f.MinDuration > 0 {
		q.Set("duree_min", strconv.Itoa(f.MinDuration))
	}
	if f.MaxDuration > 0 {
		q.Set("duree_max", strconv.Itoa(f.MaxDuration))
	}
	if f.Skip > 0 {
		q.Set("skip", strconv.Itoa(f.Skip))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// ScheduleRequest assigns a room and a slot to a talk.
type ScheduleRequest struct {
	RoomID int64
	Date   string // YYYY-MM-DD
	Time   string // HH:MM
}

func talkPath(id int64) string { return fmt.Sprintf("/talks/%d", id) }

// ListTalks returns every talk visible to an organizer.
func (c *Client) ListTalks(ctx context.Context, f TalkFilter) ([]model.Talk, error) {
	var talks []model.Talk
	err := c.get(ctx, "/talks", f.Query(), &talks)
	return talks, err
}

// MyTalks returns the talks proposed by the signed-in presenter.
func (c *Client) MyTalks(ctx context.Context) ([]model.Talk, error) {
	var talks []model.Talk
	err := c.get(ctx, "/talks/me", nil, &talks)
	return talks, err
}

// GetTalk fetches one talk.
func (c *Client) GetTalk(ctx context.Context, id int64) (model.Talk, error) {
	var t model.Talk
	err := c.get(ctx, talkPath(id), nil, &t)
	return t, err
}

// CreateTalk proposes a talk. The API answers 201 with the stored talk.
func (c *Client) CreateTalk(ctx context.Context, in model.TalkInput) (model.Talk, error) {
	var t model.Talk
	err := c.sendJSON(ctx, http.MethodPost, "/talks", in, &t)
	return t, err
}

// UpdateTalk replaces the editable fields of a talk.
func (c *Client) UpdateTalk(ctx context.Context, id int64, in model.TalkInput) (model.Talk, error) {
	var t model.Talk
	err := c.sendJSON(ctx, http.MethodPut, talkPath(id), in, &t)
	return t, err
}

// DeleteTalk removes a talk. The API answers 204.
func (c *Client) DeleteTalk(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: talkPath(id)}, nil)
}

// ChangeTalkStatus sets the status of a talk. The target travels both as
// the JSON body {"status": ...} and as the status query parameter, which is
// where the TalkMaster backend reads it from.
func (c *Client) ChangeTalkStatus(ctx context.Context, id int64, status model.Status) (model.Talk, error) {
	r, err := jsonRequest(http.MethodPatch, talkPath(id)+"/status", map[string]model.Status{"status": status})
	if err != nil {
		return model.Talk{}, err
	}
	r.query = url.Values{"status": {string(status)}}

	var t model.Talk
	err = c.do(ctx, r, &t)
	return t, err
}

// ScheduleTalk assigns a room and a slot. The slot travels as query
// parameters; the API answers 409 when the room is already taken.
func (c *Client) ScheduleTalk(ctx context.Context, id int64, s ScheduleRequest) (model.Talk, error) {
	q := url.Values{}
	q.Set("salle_id", strconv.FormatInt(s.RoomID, 10))
	q.Set("date", s.Date)
	q.Set("heure", s.Time)

	var t model.Talk
	err := c.do(ctx, request{method: http.MethodPatch, path: talkPath(id) + "/schedule", query: q}, &t)
	return t, err
}
