package session

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/talkmaster-dashboard/internal/model"
)

// contextKey is where the session middleware stores the request State.
const contextKey = "talkmaster.session"

// Identity is the account the API confirmed at sign-in through /auth/me.
type Identity struct {
	UserID int64
	Name   string
	Email  string
}

// State is the per-request view of the signed-in user. The zero value is an
// anonymous visitor.
type State struct {
	Token    string
	Hint     RoleHint
	Identity Identity
}

// Authenticated reports whether the visitor holds a token.
func (s State) Authenticated() bool { return s.Token != "" }

// Role is the advisory role, "" for anonymous visitors.
func (s State) Role() model.RoleName {
	if !s.Authenticated() {
		return ""
	}
	return s.Hint.Role
}

// DisplayName picks the best label for the header.
func (s State) DisplayName() string {
	switch {
	case s.Identity.Name != "":
		return s.Identity.Name
	case s.Identity.Email != "":
		return s.Identity.Email
	default:
		return s.Hint.Subject
	}
}

// Put attaches st to the request. Only the session middleware and the
// sign-in/sign-out handlers call it.
func Put(c echo.Context, st State) { c.Set(contextKey, st) }

// From returns the State of the request, anonymous when none was attached.
func From(c echo.Context) State {
	if st, ok := c.Get(contextKey).(State); ok {
		return st
	}
	return State{}
}
