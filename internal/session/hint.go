package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/talkmaster-dashboard/internal/model"
)

// ErrNoRoleClaim is returned by DecodeHint when the token parses but names no role.
var ErrNoRoleClaim = errors.New("session: token carries no role claim")

// roleClaims are tried in order.
var roleClaims = []string{"role", "nom_role"}

// RoleHint is what the bearer token says about its holder. It is read from the
// unverified payload and only drives menus and redirects; the API remains the
// authority on what the holder may do.
type RoleHint struct {
	Role      model.RoleName
	Subject   string
	ExpiresAt time.Time
	Resolved  bool // true when Role came from /auth/me + /roles rather than the token
}

// Has reports whether the hinted role is one of roles.
func (h RoleHint) Has(roles ...model.RoleName) bool {
	if h.Role == "" {
		return false
	}
	for _, r := range roles {
		if h.Role == r {
			return true
		}
	}
	return false
}

// DecodeHint reads the role hint out of a JWT without verifying its
// signature. A token without a role claim still yields its subject and
// expiry alongside ErrNoRoleClaim.
func DecodeHint(token string) (RoleHint, error) {
	var h RoleHint
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(token), claims); err != nil {
		return h, fmt.Errorf("session: decode token: %w", err)
	}

	h.Subject = claimString(claims["sub"])
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		h.ExpiresAt = exp.Time
	}
	for _, name := range roleClaims {
		if v := claimString(claims[name]); v != "" {
			h.Role = model.NormalizeRole(v)
			return h, nil
		}
	}
	return h, ErrNoRoleClaim
}

// Expired reports whether the token's exp claim lies before now. Tokens
// without exp never expire from the dashboard's point of view.
func (h RoleHint) Expired(now time.Time) bool {
	return !h.ExpiresAt.IsZero() && !now.Before(h.ExpiresAt)
}

func claimString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatInt(int64(t), 10)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
