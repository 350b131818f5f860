package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/iliyamo/talkmaster-dashboard/internal/model"
)

// PlanningFilter narrows GET /plannings/planning. Day defaults to today on
// the server side when empty.
type PlanningFilter struct {
	Day     string // jour, YYYY-MM-DD
	Time    string // heure, HH:MM exact match
	RoomID  int64  // salle
	Subject string // sujet, case-insensitive substring
	Level   model.Level
}

// Query renders the filter as URL parameters.
func (f PlanningFilter) Query() url.Values {
	q := url.Values{}
	if f.Day != "" {
		q.Set("jour", f.Day)
	}
	if f.Time != "" {
		q.Set("heure", f.Time)
	}
	if f.RoomID > 0 {
		q.Set("salle", strconv.FormatInt(f.RoomID, 10))
	}
	if f.Subject != "" {
		q.Set("sujet", f.Subject)
	}
	if f.Level != "" {
		q.Set("niveau", string(f.Level))
	}
	return q
}

func planningPath(id int64) string { return fmt.Sprintf("/plannings/%d", id) }

// ListPlannings returns the whole schedule. The API reports an empty
// schedule as 404, which is folded into an empty slice here.
func (c *Client) ListPlannings(ctx context.Context) ([]model.Planning, error) {
	var plannings []model.Planning
	err := c.get(ctx, "/plannings", nil, &plannings)
	if StatusCode(err) == http.StatusNotFound {
		return []model.Planning{}, nil
	}
	return plannings, err
}

// FilterPlannings returns the schedule entries matching f.
func (c *Client) FilterPlannings(ctx context.Context, f PlanningFilter) ([]model.Planning, error) {
	var plannings []model.Planning
	err := c.get(ctx, "/plannings/planning", f.Query(), &plannings)
	return plannings, err
}

// GetPlanning fetches one schedule entry.
func (c *Client) GetPlanning(ctx context.Context, id int64) (model.Planning, error) {
	var p model.Planning
	err := c.get(ctx, planningPath(id), nil, &p)
	return p, err
}

// UpdatePlanning moves a schedule entry to another room or slot.
func (c *Client) UpdatePlanning(ctx context.Context, id int64, in model.PlanningInput) (model.Planning, error) {
	var p model.Planning
	err := c.sendJSON(ctx, http.MethodPut, planningPath(id), in, &p)
	return p, err
}
