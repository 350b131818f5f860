package apiclient

import (
	"context"
	"net/http"

	"github.com/iliyamo/talkmaster-dashboard/internal/model"
)

// ListRooms returns every room (salle).
func (c *Client) ListRooms(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	err := c.get(ctx, "/salles", nil, &rooms)
	return rooms, err
}

// CreateRoom adds a room.
func (c *Client) CreateRoom(ctx context.Context, in model.RoomInput) (model.Room, error) {
	var r model.Room
	err := c.sendJSON(ctx, http.MethodPost, "/salles", in, &r)
	return r, err
}

// ListRoles returns the role reference table.
func (c *Client) ListRoles(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	err := c.get(ctx, "/roles", nil, &roles)
	return roles, err
}

// CreateRole adds a role.
func (c *Client) CreateRole(ctx context.Context, in model.RoleInput) (model.Role, error) {
	var r model.Role
	err := c.sendJSON(ctx, http.MethodPost, "/roles", in, &r)
	return r, err
}

// ListUsers returns every account (utilisateur).
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := c.get(ctx, "/utilisateurs", nil, &users)
	return users, err
}
