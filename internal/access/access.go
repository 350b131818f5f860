// Package access holds the role allow-lists that decide which dashboard
// pages a visitor may open and which menu entries they see.
package access

import "github.com/iliyamo/talkmaster-dashboard/internal/model"

// Rule is an optional allow-list. A nil Roles slice admits everyone,
// anonymous visitors included.
type Rule struct {
	Roles []model.RoleName
}

// Open is the rule of public pages.
var Open = Rule{}

// Only builds a rule admitting the given roles.
func Only(roles ...model.RoleName) Rule { return Rule{Roles: roles} }

// Admits reports whether a visitor with role may pass. An empty role is an
// anonymous visitor.
func (r Rule) Admits(role model.RoleName) bool {
	if r.Roles == nil {
		return true
	}
	if role == "" {
		return false
	}
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// Shell is the rule of the dashboard shell every protected page lives in.
var Shell = Only(model.RoleAdmin, model.RoleOrganizer, model.RolePresenter)

// Page paths.
const (
	PathPublic    = "/public"
	PathAbout     = "/about"
	PathDashboard = "/dashboard"
	PathCalendar  = "/calendar"
	PathForms     = "/forms"
	PathTables    = "/tables"
	PathSignIn    = "/signin"
)

// Entry is one item of the navigation menu.
type Entry struct {
	Label string
	Path  string
	Icon  string
	Rule  Rule
}

// Menu lists every navigation entry in display order. The same rules guard
// the routes, so a hidden entry is also a refused page.
var Menu = []Entry{
	{Label: "Accueil", Path: PathPublic, Icon: "home", Rule: Open},
	{Label: "Tableau de bord", Path: PathDashboard, Icon: "dashboard", Rule: Only(model.RoleAdmin)},
	{Label: "Calendrier", Path: PathCalendar, Icon: "calendar", Rule: Only(model.RoleAdmin, model.RolePresenter, model.RoleOrganizer)},
	{Label: "Formulaires", Path: PathForms, Icon: "forms", Rule: Only(model.RoleAdmin, model.RolePresenter)},
	{Label: "Tables", Path: PathTables, Icon: "tables", Rule: Only(model.RoleAdmin, model.RoleOrganizer, model.RolePresenter)},
	{Label: "À propos", Path: PathAbout, Icon: "info", Rule: Open},
}

// RuleFor returns the rule of the menu entry at path, and false when path
// has no entry.
func RuleFor(path string) (Rule, bool) {
	for _, e := range Menu {
		if e.Path == path {
			return e.Rule, true
		}
	}
	return Rule{}, false
}

// MenuFor returns the entries visible to role.
func MenuFor(role model.RoleName) []Entry {
	out := make([]Entry, 0, len(Menu))
	for _, e := range Menu {
		if e.Rule.Admits(role) {
			out = append(out, e)
		}
	}
	return out
}

// Capabilities are the actions the talk tables offer a viewer. They only
// shape the page; the API enforces the real permissions.
type Capabilities struct {
	Review   bool // change status, schedule
	Own      bool // edit and delete own talks
	SeeAll   bool // list every talk rather than one's own
	Propose  bool // submit new talks
	Manage   bool // rooms, roles, users
	Calendar bool // move plannings
}

// CapabilitiesFor derives the capabilities of role.
func CapabilitiesFor(role model.RoleName) Capabilities {
	switch role {
	case model.RoleAdmin:
		return Capabilities{Review: true, Own: true, SeeAll: true, Propose: true, Manage: true, Calendar: true}
	case model.RoleOrganizer:
		return Capabilities{Review: true, SeeAll: true, Calendar: true}
	case model.RolePresenter:
		return Capabilities{Own: true, Propose: true}
	default:
		return Capabilities{}
	}
}
