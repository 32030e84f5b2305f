package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"errandgo/internal/usecase/guard"
)

const (
	// SessionCookie carries the session token for browser clients; API
	// clients may use a bearer header instead.
	SessionCookie = "errandgo_session"

	CtxUserKey = "user"
)

// GuardMiddleware gates a route group behind one role's session guard. On
// rejection the request is redirected to the guard's login route and the
// handler never runs.
type GuardMiddleware struct {
	guard *guard.Guard
}

func NewGuardMiddleware(g *guard.Guard) *GuardMiddleware {
	return &GuardMiddleware{guard: g}
}

func (m *GuardMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		d := m.guard.Check(c.Context(), SessionToken(c))
		if d.State != guard.StateReady {
			return c.Redirect().Status(fiber.StatusSeeOther).To(d.RedirectTo)
		}

		c.Locals(CtxUserKey, d.User)
		return c.Next()
	}
}

// UserFromCtx returns the guard-admitted user context, or false when the
// route was not guarded.
func UserFromCtx(c fiber.Ctx) (guard.UserContext, bool) {
	u, ok := c.Locals(CtxUserKey).(guard.UserContext)
	return u, ok
}

// SessionToken extracts the session token from the cookie or, failing that,
// a bearer Authorization header.
func SessionToken(c fiber.Ctx) string {
	if tok := strings.TrimSpace(c.Cookies(SessionCookie)); tok != "" {
		return tok
	}

	authHeader := strings.TrimSpace(c.Get("Authorization"))
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
