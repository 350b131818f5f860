package store

import (
	"context"
	"strconv"

	"github.com/iliyamo/talkmaster-dashboard/internal/apiclient"
	"github.com/iliyamo/talkmaster-dashboard/internal/model"
)

// TalkReader is the part of the API the Talks store reads from.
type TalkReader interface {
	Token() string
	ListTalks(ctx context.Context, f apiclient.TalkFilter) ([]model.Talk, error)
	MyTalks(ctx context.Context) ([]model.Talk, error)
	GetTalk(ctx context.Context, id int64) (model.Talk, error)
}

// Talks caches talk lists and single talks.
type Talks struct{ s *Store }

func (s *Store) Talks() Talks { return Talks{s} }

// List returns the talks matching f.
func (t Talks) List(ctx context.Context, api TalkReader, f apiclient.TalkFilter) ([]model.Talk, error) {
	return readThrough(ctx, t.s, EntityTalks, api.Token(), "list?"+f.Query().Encode(), func(ctx context.Context) ([]model.Talk, error) {
		return api.ListTalks(ctx, f)
	})
}

// Mine returns the talks of the signed-in presenter.
func (t Talks) Mine(ctx context.Context, api TalkReader) ([]model.Talk, error) {
	return readThrough(ctx, t.s, EntityTalks, api.Token(), "me", api.MyTalks)
}

// Get returns one talk.
func (t Talks) Get(ctx context.Context, api TalkReader, id int64) (model.Talk, error) {
	return readThrough(ctx, t.s, EntityTalks, api.Token(), "id="+strconv.FormatInt(id, 10), func(ctx context.Context) (model.Talk, error) {
		return api.GetTalk(ctx, id)
	})
}

// RoomAPI is the part of the API the Rooms store uses.
type RoomAPI interface {
	Token() string
	ListRooms(ctx context.Context) ([]model.Room, error)
	CreateRoom(ctx context.Context, in model.RoomInput) (model.Room, error)
}

// Rooms caches the room list.
type Rooms struct{ s *Store }

func (s *Store) Rooms() Rooms { return Rooms{s} }

// List returns every room.
func (r Rooms) List(ctx context.Context, api RoomAPI) ([]model.Room, error) {
	return readThrough(ctx, r.s, EntityRooms, api.Token(), "list", api.ListRooms)
}

// Create validates in, creates the room and invalidates the list. Validation
// failures are returned as model.FieldErrors without calling the API.
func (r Rooms) Create(ctx context.Context, api RoomAPI, in model.RoomInput) (model.Room, error) {
	if errs := in.Validate(); errs != nil {
		return model.Room{}, errs
	}
	room, err := api.CreateRoom(ctx, in)
	if err != nil {
		return room, err
	}
	r.s.Invalidate(ctx, EntityRooms)
	return room, nil
}

// RoleAPI is the part of the API the Roles store uses.
type RoleAPI interface {
	Token() string
	ListRoles(ctx context.Context) ([]model.Role, error)
	CreateRole(ctx context.Context, in model.RoleInput) (model.Role, error)
}

// Roles caches the roles reference table.
type Roles struct{ s *Store }

func (s *Store) Roles() Roles { return Roles{s} }

// List returns every role.
func (r Roles) List(ctx context.Context, api RoleAPI) ([]model.Role, error) {
	return readThrough(ctx, r.s, EntityRoles, api.Token(), "list", api.ListRoles)
}

// Create validates in, creates the role and invalidates the list.
func (r Roles) Create(ctx context.Context, api RoleAPI, in model.RoleInput) (model.Role, error) {
	if errs := in.Validate(); errs != nil {
		return model.Role{}, errs
	}
	role, err := api.CreateRole(ctx, in)
	if err != nil {
		return role, err
	}
	r.s.Invalidate(ctx, EntityRoles)
	return role, nil
}

// UserReader is the part of the API the Users store reads from.
type UserReader interface {
	Token() string
	ListUsers(ctx context.Context) ([]model.User, error)
}

// Users caches the account list.
type Users struct{ s *Store }

func (s *Store) Users() Users { return Users{s} }

// List returns every account.
func (u Users) List(ctx context.Context, api UserReader) ([]model.User, error) {
	return readThrough(ctx, u.s, EntityUsers, api.Token(), "list", api.ListUsers)
}

// PlanningReader is the part of the API the Plannings store reads from.
type PlanningReader interface {
	Token() string
	ListPlannings(ctx context.Context) ([]model.Planning, error)
	FilterPlannings(ctx context.Context, f apiclient.PlanningFilter) ([]model.Planning, error)
	GetPlanning(ctx context.Context, id int64) (model.Planning, error)
}

// Plannings caches the schedule.
type Plannings struct{ s *Store }

func (s *Store) Plannings() Plannings { return Plannings{s} }

// List returns the whole schedule.
func (p Plannings) List(ctx context.Context, api PlanningReader) ([]model.Planning, error) {
	return readThrough(ctx, p.s, EntityPlannings, api.Token(), "list", api.ListPlannings)
}

// Filter returns the schedule entries matching f.
func (p Plannings) Filter(ctx context.Context, api PlanningReader, f apiclient.PlanningFilter) ([]model.Planning, error) {
	return readThrough(ctx, p.s, EntityPlannings, api.Token(), "filter?"+f.Query().Encode(), func(ctx context.Context) ([]model.Planning, error) {
		return api.FilterPlannings(ctx, f)
	})
}

// Get returns one schedule entry.
func (p Plannings) Get(ctx context.Context, api PlanningReader, id int64) (model.Planning, error) {
	return readThrough(ctx, p.s, EntityPlannings, api.Token(), "id="+strconv.FormatInt(id, 10), func(ctx context.Context) (model.Planning, error) {
		return api.GetPlanning(ctx, id)
	})
}
