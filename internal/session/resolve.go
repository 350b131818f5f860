package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/talkmaster-dashboard/internal/model"
)

// Directory is the slice of the API used to complete a session at sign-in.
// *apiclient.Client satisfies it once bound to the new token.
type Directory interface {
	Me(ctx context.Context) (model.User, error)
	ListRoles(ctx context.Context) ([]model.Role, error)
}

// Resolve builds the State for a freshly issued token. The identity comes
// from /auth/me; the role comes from the token when it carries one and from
// the roles table otherwise.
func Resolve(ctx context.Context, dir Directory, token string) (State, error) {
	hint, err := DecodeHint(token)
	if err != nil && !errors.Is(err, ErrNoRoleClaim) {
		return State{}, err
	}

	me, err := dir.Me(ctx)
	if err != nil {
		return State{}, fmt.Errorf("session: fetch identity: %w", err)
	}
	st := State{
		Token:    token,
		Hint:     hint,
		Identity: Identity{UserID: me.ID, Name: me.Name, Email: me.Email},
	}
	if st.Hint.Role != "" || me.RoleID == 0 {
		return st, nil
	}

	roles, err := dir.ListRoles(ctx)
	if err != nil {
		return State{}, fmt.Errorf("session: fetch roles: %w", err)
	}
	if r, ok := model.RoleByID(roles, me.RoleID); ok {
		st.Hint.Role = model.NormalizeRole(string(r.Name))
		st.Hint.Resolved = true
	}
	return st, nil
}
