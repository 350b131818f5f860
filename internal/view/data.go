package view

import (
	"sort"

	"github.com/iliyamo/talkmaster-dashboard/internal/apiclient"
	"github.com/iliyamo/talkmaster-dashboard/internal/model"
)

// TablesData feeds the tables page. A section whose list failed to load has
// its message in LoadErrors under the section name and renders empty.
type TablesData struct {
	Talks      []model.Talk
	MyTalks    []model.Talk
	Plannings  []model.Planning
	Rooms      []model.Room
	Roles      []model.Role
	Users      []model.User
	LoadErrors map[string]string
	// Open is the id of the talk whose inline form failed, so it renders expanded.
	Open int64
}

// LoadError returns the load failure of section, "" when it loaded.
func (d TablesData) LoadError(section string) string { return d.LoadErrors[section] }

// RoleName resolves a role id for the users table.
func (d TablesData) RoleName(id int64) model.RoleName {
	if r, ok := model.RoleByID(d.Roles, id); ok {
		return r.Name
	}
	return ""
}

// FormsData feeds the forms page.
type FormsData struct {
	Talk   model.TalkInput
	Room   model.RoomInput
	Role   model.RoleInput
	Errors map[string]model.FieldErrors // per form: "talk", "room", "role"
}

// FieldError returns the message of field in form.
func (d FormsData) FieldError(form, field string) string { return d.Errors[form][field] }

// CalendarDay groups the plannings of one date.
type CalendarDay struct {
	Date      string
	Plannings []model.Planning
}

// CalendarData feeds the calendar page.
type CalendarData struct {
	Days      []CalendarDay
	Rooms     []model.Room
	LoadError string
	Open      int64
}

// GroupByDay orders plannings by date then time and groups them per date.
func GroupByDay(plannings []model.Planning) []CalendarDay {
	sorted := append([]model.Planning(nil), plannings...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date < sorted[j].Date
		}
		return sorted[i].Time < sorted[j].Time
	})
	var days []CalendarDay
	for _, p := range sorted {
		if n := len(days); n > 0 && days[n-1].Date == p.Date {
			days[n-1].Plannings = append(days[n-1].Plannings, p)
			continue
		}
		days = append(days, CalendarDay{Date: p.Date, Plannings: []model.Planning{p}})
	}
	return days
}

// PublicData feeds the public home page. Filter echoes the submitted
// search form.
type PublicData struct {
	Plannings []model.Planning
	Filter    apiclient.PlanningFilter
	LoadError string
}

// Metric is one tile of the dashboard.
type Metric struct {
	Label string
	Value int
	Error bool
}

// DashboardData feeds the admin dashboard.
type DashboardData struct {
	Metrics  []Metric
	ByStatus []StatusCount
}

// StatusCount is the number of talks in one status.
type StatusCount struct {
	Status model.Status
	Count  int
}

// AuthData feeds the sign-in and sign-up pages.
type AuthData struct {
	Email string
	Name  string
	Roles []model.Role
	Error string
}

// ErrorData feeds the error page.
type ErrorData struct {
	Code    int
	Message string
}
