// Package router registers the dashboard's pages and form actions on echo.
package router

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/talkmaster-dashboard/internal/access"
	"github.com/iliyamo/talkmaster-dashboard/internal/config"
	"github.com/iliyamo/talkmaster-dashboard/internal/handler"
	"github.com/iliyamo/talkmaster-dashboard/internal/middleware"
	"github.com/iliyamo/talkmaster-dashboard/internal/model"
	"github.com/iliyamo/talkmaster-dashboard/internal/store"
)

// Options carries the optional infrastructure the routes use. A nil Redis
// client disables page caching and sign-in rate limiting.
type Options struct {
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	Redis     *redis.Client
	// CookieSecure sets the Secure flag on the CSRF cookie.
	CookieSecure bool
}

// Rules of the talk actions, narrower than the tables page they are posted from.
var (
	reviewRule = access.Only(model.RoleAdmin, model.RoleOrganizer)
	ownRule    = access.Only(model.RoleAdmin, model.RolePresenter)
)

func pageRule(path string) access.Rule {
	r, _ := access.RuleFor(path)
	return r
}

// RegisterRoutes maps every route onto e. The Session middleware must already
// be installed on e.
func RegisterRoutes(e *echo.Echo, d *handler.Dashboard, opts Options) {
	e.Use(middleware.CSRF(opts.CookieSecure))
	e.GET("/healthz", handler.Health)

	// Cached pages show plannings, so a planning change retires them.
	pageCache := middleware.PageCache(opts.Cache, opts.Redis, func(ctx context.Context) (string, bool) {
		return d.Store.Version(ctx, store.EntityPlannings)
	})
	e.GET("/", d.Home)
	e.GET(access.PathPublic, d.Public, pageCache)
	e.GET(access.PathAbout, d.About, pageCache)

	e.GET(access.PathSignIn, d.SignInForm)
	e.POST(access.PathSignIn, d.SignIn, middleware.NewTokenBucket(opts.RateLimit, opts.Redis))
	e.GET("/signup", d.SignUpForm)
	e.POST("/signup", d.SignUp)
	e.POST("/signout", d.SignOut)

	// Protected pages pass the shell rule and their own menu rule.
	guard := func(path string) echo.MiddlewareFunc {
		return middleware.RequireRole(access.Shell, pageRule(path))
	}

	e.GET(access.PathDashboard, d.Dashboard, guard(access.PathDashboard))

	cal := e.Group(access.PathCalendar, guard(access.PathCalendar))
	cal.GET("", d.Calendar)
	cal.POST("/plannings/:id", d.Reschedule, middleware.RequireRole(reviewRule))

	forms := e.Group(access.PathForms, guard(access.PathForms))
	forms.GET("", d.Forms)
	forms.POST("/talks", d.CreateTalk)
	forms.POST("/rooms", d.CreateRoom)
	forms.POST("/roles", d.CreateRole)

	e.GET(access.PathTables, d.Tables, guard(access.PathTables))

	talks := e.Group("/talks", guard(access.PathTables))
	talks.POST("/:id/status", d.ChangeStatus, middleware.RequireRole(reviewRule))
	talks.POST("/:id/schedule", d.Schedule, middleware.RequireRole(reviewRule))
	talks.POST("/:id", d.UpdateTalk, middleware.RequireRole(ownRule))
	talks.POST("/:id/delete", d.DeleteTalk, middleware.RequireRole(ownRule))
}
