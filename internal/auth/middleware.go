package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ferry-admin/internal/session"
)

const (
	sessionKey = "auth_session"
	starterKey = "auth_session_starter"
)

var errNoSession = errors.New("session middleware not installed")

// RedirectReplaceHeader tells the browser the redirect target replaces the
// current history entry.
const RedirectReplaceHeader = "X-Redirect-Replace"

// MiddlewareConfig configures the session cookie and the guard wait.
type MiddlewareConfig struct {
	CookieName   string
	CookieSecure bool
	// ResolveWait bounds how long a guard blocks on a session that is still
	// rehydrating before answering with the loading state.
	ResolveWait time.Duration
}

// Middleware attaches browser sessions to requests and enforces guards.
type Middleware struct {
	tokens   *CookieTokens
	sessions session.Resolver
	cfg      MiddlewareConfig
	logger   *zap.Logger
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *CookieTokens, sessions session.Resolver, cfg MiddlewareConfig, logger *zap.Logger) *Middleware {
	if cfg.CookieName == "" {
		cfg.CookieName = "ferry_admin_session"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Middleware{tokens: tokens, sessions: sessions, cfg: cfg, logger: logger}
}

// Session resolves the browser session from the cookie. A request without a
// valid cookie gets the shared signed-out session; nothing is created or
// issued until StartSession is called.
func (m *Middleware) Session(c *fiber.Ctx) error {
	if raw := c.Cookies(m.cfg.CookieName); raw != "" {
		sid, err := m.tokens.Parse(raw)
		if err == nil {
			c.Locals(sessionKey, m.sessions.Resolve(sid))
			return c.Next()
		}
		m.logger.Debug("discarding invalid session cookie", zap.Error(err))
	}

	c.Locals(sessionKey, m.sessions.Anonymous())
	c.Locals(starterKey, m)
	return c.Next()
}

// StartSession returns the browser session, first creating it and issuing
// its cookie when the request carried none.
func StartSession(c *fiber.Ctx) (session.Service, error) {
	if m, ok := c.Locals(starterKey).(*Middleware); ok {
		return m.start(c)
	}
	svc, ok := SessionFromContext(c)
	if !ok {
		return nil, errNoSession
	}
	return svc, nil
}

func (m *Middleware) start(c *fiber.Ctx) (session.Service, error) {
	sid, svc := m.sessions.Create()
	value, expiresAt, err := m.tokens.Issue(sid)
	if err != nil {
		m.sessions.Forget(sid)
		return nil, err
	}
	c.Cookie(&fiber.Cookie{
		Name:     m.cfg.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		Secure:   m.cfg.CookieSecure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Locals(sessionKey, svc)
	c.Locals(starterKey, nil)
	return svc, nil
}

// Require enforces guard on the route.
func (m *Middleware) Require(guard Guard) fiber.Handler {
	return func(c *fiber.Ctx) error {
		svc, ok := SessionFromContext(c)
		if !ok {
			return fiber.NewError(fiber.StatusInternalServerError, "session middleware not installed")
		}
		m.awaitResolution(c, svc)

		decision := Decide(guard, ViewOf(svc.Snapshot()))
		switch decision.Outcome {
		case OutcomeRender:
			return c.Next()
		case OutcomeWait:
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(1))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "loading"})
		default:
			c.Set(fiber.HeaderLocation, decision.Target)
			c.Set(RedirectReplaceHeader, "true")
			return c.Status(fiber.StatusSeeOther).JSON(fiber.Map{
				"redirect": decision.Target,
				"replace":  true,
			})
		}
	}
}

func (m *Middleware) awaitResolution(c *fiber.Ctx, svc session.Service) {
	select {
	case <-svc.Ready():
		return
	default:
	}
	if m.cfg.ResolveWait <= 0 {
		return
	}
	timer := time.NewTimer(m.cfg.ResolveWait)
	defer timer.Stop()
	select {
	case <-svc.Ready():
	case <-timer.C:
	case <-c.UserContext().Done():
	}
}

// SessionFromContext retrieves the browser session.
func SessionFromContext(c *fiber.Ctx) (session.Service, bool) {
	val := c.Locals(sessionKey)
	if val == nil {
		return nil, false
	}
	svc, ok := val.(session.Service)
	return svc, ok
}
