package gymauth

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-router/flash"

	"github.com/fitstack/go-gymauth/middleware/sessionware"
)

// RouteGuard gates page rendering on session validity and role membership.
// Every guarded mount re-runs the check; decisions are never cached across
// navigations, so a revoked or expired session is caught on the next one.
type RouteGuard struct {
	session          *SessionManager
	cfg              Config
	Logger           Logger
	LoginHandler     func(c router.Context, err error) error
	ForbiddenHandler func(c router.Context, err error) error
}

// NewRouteGuard returns a guard over the given session manager
func NewRouteGuard(session *SessionManager, cfg Config) (*RouteGuard, error) {
	g := &RouteGuard{
		session: session,
		cfg:     cfg,
		Logger:  defLogger{},
	}

	g.LoginHandler = g.defaultLoginHandler
	g.ForbiddenHandler = g.defaultForbiddenHandler

	return g, nil
}

// Protected builds the middleware for a guarded route. An empty role set
// admits any authenticated user; otherwise the user's role must be a member.
func (g *RouteGuard) Protected(roles ...UserRole) router.MiddlewareFunc {
	return sessionware.New(sessionware.Config{
		Session:          managerSession{session: g.session},
		RequiredRoles:    roles,
		ContextKey:       g.cfg.GetContextKey(),
		LoginHandler:     g.LoginHandler,
		ForbiddenHandler: g.ForbiddenHandler,
	})
}

// GetRedirect returns the route the user was bounced from, or def
func (g *RouteGuard) GetRedirect(ctx router.Context, def ...string) string {
	rejectedRoute := g.cfg.GetRejectedRouteKey()
	r := ctx.Cookies(rejectedRoute)
	if r == "" {
		if len(def) == 0 {
			return ""
		}
		return def[0]
	}
	g.cookieDel(ctx, rejectedRoute)
	return r
}

// GetRedirectOrDefault resolves the post-login destination: rejected-route
// cookie, then referer, then the configured default.
func (g *RouteGuard) GetRedirectOrDefault(ctx router.Context) string {
	rejectedRoute := g.cfg.GetRejectedRouteKey()
	refererHeader := string(ctx.Referer())

	r := ctx.Cookies(rejectedRoute, refererHeader)
	if r == "" {
		r = g.cfg.GetRejectedRouteDefault()
	}
	g.cookieDel(ctx, rejectedRoute)
	return r
}

// SetRedirect remembers the rejected route so login can send the user back
func (g *RouteGuard) SetRedirect(ctx router.Context) {
	rejectedRoute := g.cfg.GetRejectedRouteKey()

	g.Logger.Info("Setting redirect cookie", "key", rejectedRoute, "path", ctx.OriginalURL())

	ctx.Cookie(&router.Cookie{
		Name:     rejectedRoute,
		Value:    ctx.OriginalURL(),
		Expires:  time.Now().Add(time.Minute * 5),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (g *RouteGuard) cookieDel(c router.Context, name string) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

// defaultLoginHandler is the redirect-login outcome: remember the rejected
// route, then send the user to the login page.
func (g *RouteGuard) defaultLoginHandler(c router.Context, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryAuth, "Authentication required").
			WithCode(goerrors.CodeUnauthorized)
	}

	g.Logger.Info(
		"Guard rejected navigation, redirecting to login",
		"error", richErr.Message,
		"path", c.OriginalURL(),
	)

	g.SetRedirect(c)

	statusCode := fiber.StatusSeeOther
	if c.Method() == string(router.GET) {
		statusCode = fiber.StatusFound
	}

	return flash.WithError(c, router.ViewContext{
		"error_message": richErr.Message,
	}).Redirect(g.cfg.GetLoginRoute(), statusCode)
}

// defaultForbiddenHandler is the redirect-unauthorized outcome: the session
// is valid but the role is not admitted. Silent redirect, no banner.
func (g *RouteGuard) defaultForbiddenHandler(c router.Context, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryAuthz, "Insufficient permissions").
			WithCode(goerrors.CodeForbidden)
	}

	g.Logger.Info(
		"Guard rejected navigation, redirecting to unauthorized",
		"error", richErr.Message,
		"path", c.OriginalURL(),
		"details", print.MaybePrettyJSON(richErr.Metadata),
	)

	statusCode := fiber.StatusSeeOther
	if c.Method() == string(router.GET) {
		statusCode = fiber.StatusFound
	}

	return c.Redirect(g.cfg.GetUnauthorizedRoute(), statusCode)
}

// managerSession adapts SessionManager to the guard middleware's Session
// surface.
type managerSession struct {
	session *SessionManager
}

func (s managerSession) Rehydrate(ctx context.Context) error {
	return s.session.Rehydrate(ctx)
}

func (s managerSession) IsAuthenticated(ctx context.Context) bool {
	return s.session.IsAuthenticated(ctx)
}

func (s managerSession) User() (sessionware.SessionUser, bool) {
	user := s.session.CurrentUser()
	if user == nil {
		return nil, false
	}
	return NewIdentityFromUser(user), true
}

// GuardedPages holds the page handlers for the application's route surface.
type GuardedPages struct {
	Landing        router.HandlerFunc
	Login          router.HandlerFunc
	Signup         router.HandlerFunc
	VerifyEmail    router.HandlerFunc
	ForgotPassword router.HandlerFunc
	Unauthorized   router.HandlerFunc
	Dashboard      router.HandlerFunc
	Admin          router.HandlerFunc
	Member         router.HandlerFunc
	Trainer        router.HandlerFunc
}

// RegisterGuardedRoutes wires the route surface: public pages unguarded,
// dashboard for any authenticated role, and the role-scoped dashboards
// behind their role set.
func RegisterGuardedRoutes[T any](app router.Router[T], guard *RouteGuard, pages GuardedPages) {
	app.Get("/", pages.Landing).SetName("landing.get")
	app.Get("/login", pages.Login).SetName("sign-in.get")
	app.Get("/signup", pages.Signup).SetName("sign-up.get")
	app.Get("/verify-email", pages.VerifyEmail).SetName("verify-email.get")
	app.Get("/forgot-password", pages.ForgotPassword).SetName("forgot-password.get")
	app.Get("/unauthorized", pages.Unauthorized).SetName("unauthorized.get")

	app.Get("/dashboard", pages.Dashboard, guard.Protected()).
		SetName("dashboard.get")
	app.Get("/admin", pages.Admin, guard.Protected(RoleAdmin)).
		SetName("admin.get")
	app.Get("/member", pages.Member, guard.Protected(RoleMember)).
		SetName("member.get")
	app.Get("/trainer", pages.Trainer, guard.Protected(RoleTrainer)).
		SetName("trainer.get")
}
