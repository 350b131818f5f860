package model

import "strings"

// User (utilisateur) is an account known to the TalkMaster API.
//
// Fields:
//
//	ID     – id_utilisateur.
//	Name   – nom, display name.
//	Email  – unique email address, used as the login.
//	RoleID – id_role, reference into the roles table. Zero when the API omits it.
type User struct {
	ID     int64  `json:"id_utilisateur"`
	Name   string `json:"nom"`
	Email  string `json:"email"`
	RoleID int64  `json:"id_role,omitempty"`
}

// Registration is the body of POST /auth/register.
type Registration struct {
	Name     string `json:"nom"`
	Email    string `json:"email"`
	Password string `json:"mot_de_passe"`
	RoleID   int64  `json:"id_role"`
}

// RoleName is one of the fixed role names that drive every gating decision.
type RoleName string

const (
	RolePresenter RoleName = "CONFERENCIER"
	RoleOrganizer RoleName = "ORGANISATEUR"
	RoleAdmin     RoleName = "ADMINISTRATEUR"
	RolePublic    RoleName = "PUBLIC"
)

// RoleNames lists the known roles.
var RoleNames = []RoleName{RolePresenter, RoleOrganizer, RoleAdmin, RolePublic}

var accentFolder = strings.NewReplacer(
	"É", "E", "È", "E", "Ê", "E", "À", "A", "Ç", "C",
	"é", "E", "è", "E", "ê", "E", "à", "A", "ç", "C",
)

// NormalizeRole folds case and accents so that "Conférencier" and
// "CONFERENCIER" compare equal. ADMIN is accepted as a short form of
// ADMINISTRATEUR. Unknown names are returned normalised but otherwise
// untouched.
func NormalizeRole(s string) RoleName {
	n := strings.ToUpper(accentFolder.Replace(strings.TrimSpace(s)))
	if n == "ADMIN" {
		return RoleAdmin
	}
	return RoleName(n)
}

// Known reports whether r is one of the fixed role names.
func (r RoleName) Known() bool {
	for _, k := range RoleNames {
		if r == k {
			return true
		}
	}
	return false
}

// Label is the French display label of a role.
func (r RoleName) Label() string {
	switch r {
	case RolePresenter:
		return "Conférencier"
	case RoleOrganizer:
		return "Organisateur"
	case RoleAdmin:
		return "Administrateur"
	case RolePublic:
		return "Public"
	default:
		return string(r)
	}
}

// Role is a row of the roles reference table.
type Role struct {
	ID   int64    `json:"id_role"`
	Name RoleName `json:"nom_role"`
}

// RoleInput is the body of POST /roles.
type RoleInput struct {
	Name RoleName `json:"nom_role"`
}

// RoleByID finds the role with the given id in roles.
func RoleByID(roles []Role, id int64) (Role, bool) {
	for _, r := range roles {
		if r.ID == id {
			return r, true
		}
	}
	return Role{}, false
}
