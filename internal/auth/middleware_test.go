package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/ferry-admin/internal/domain"
	"github.com/spec-kit/ferry-admin/internal/repository"
	"github.com/spec-kit/ferry-admin/internal/session"
)

type fakeSession struct {
	snap  session.Snapshot
	ready chan struct{}
}

func resolvedSession(snap session.Snapshot) *fakeSession {
	ready := make(chan struct{})
	close(ready)
	return &fakeSession{snap: snap, ready: ready}
}

func (f *fakeSession) Init(context.Context)       {}
func (f *fakeSession) Ready() <-chan struct{}     { return f.ready }
func (f *fakeSession) Snapshot() session.Snapshot { return f.snap }
func (f *fakeSession) Login(context.Context, repository.Credentials) (*domain.User, error) {
	return nil, nil
}
func (f *fakeSession) Register(context.Context, repository.Registration) (*domain.User, error) {
	return nil, nil
}
func (f *fakeSession) Logout(context.Context)      {}
func (f *fakeSession) RefetchUser(context.Context) {}
func (f *fakeSession) Close()                      {}

type fakeResolver struct {
	sessions map[string]session.Service
	created  int
}

func (r *fakeResolver) Resolve(id string) session.Service {
	if svc, ok := r.sessions[id]; ok {
		return svc
	}
	return resolvedSession(session.Snapshot{ID: id, Status: session.StatusUnauthenticated})
}

func (r *fakeResolver) Create() (string, session.Service) {
	r.created++
	return "new-sid", resolvedSession(session.Snapshot{ID: "new-sid", Status: session.StatusUnauthenticated})
}

func (r *fakeResolver) Anonymous() session.Service {
	return resolvedSession(session.Snapshot{Status: session.StatusUnauthenticated})
}

func (r *fakeResolver) Forget(id string) { delete(r.sessions, id) }

func newGuardedApp(t *testing.T, resolver *fakeResolver, tokens *CookieTokens, wait time.Duration) *fiber.App {
	t.Helper()
	mw := NewMiddleware(tokens, resolver, MiddlewareConfig{CookieName: "sid", ResolveWait: wait}, zaptest.NewLogger(t))
	app := fiber.New()
	app.Use(mw.Session)
	ok := func(c *fiber.Ctx) error { return c.SendString("page") }
	app.Get("/login", mw.Require(PublicOnly()), ok)
	app.Get("/dashboard", mw.Require(Authenticated()), ok)
	app.Get("/users", mw.Require(RoleRestricted(AdminRoles...)), ok)
	return app
}

func requestWithCookie(t *testing.T, tokens *CookieTokens, path, sid string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if sid != "" {
		raw, _, err := tokens.Issue(sid)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: "sid", Value: raw})
	}
	return req
}

func TestGuardRedirectsVisitorToLogin(t *testing.T) {
	tokens := NewCookieTokens("secret", time.Hour)
	resolver := &fakeResolver{}
	app := newGuardedApp(t, resolver, tokens, 0)

	resp, err := app.Test(requestWithCookie(t, tokens, "/users", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, LoginPath, resp.Header.Get("Location"))
	assert.Equal(t, "true", resp.Header.Get(RedirectReplaceHeader))
	assert.Equal(t, 0, resolver.created)
	assert.Empty(t, resp.Header.Get("Set-Cookie"))
}

func TestGuardSendsCustomerHome(t *testing.T) {
	tokens := NewCookieTokens("secret", time.Hour)
	resolver := &fakeResolver{sessions: map[string]session.Service{
		"cust": resolvedSession(session.Snapshot{
			ID:     "cust",
			Status: session.StatusAuthenticated,
			Token:  "5|tok",
			User:   &domain.User{ID: 5, Role: domain.RoleCustomer},
		}),
	}}
	app := newGuardedApp(t, resolver, tokens, 0)

	resp, err := app.Test(requestWithCookie(t, tokens, "/users", "cust"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, HomePath, resp.Header.Get("Location"))
	assert.Equal(t, 0, resolver.created)

	resp, err = app.Test(requestWithCookie(t, tokens, "/dashboard", "cust"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGuardAnswersLoadingWhileUnresolved(t *testing.T) {
	tokens := NewCookieTokens("secret", time.Hour)
	resolver := &fakeResolver{sessions: map[string]session.Service{
		"slow": &fakeSession{
			snap:  session.Snapshot{ID: "slow", Status: session.StatusLoading, Token: "1|tok"},
			ready: make(chan struct{}),
		},
	}}
	app := newGuardedApp(t, resolver, tokens, 10*time.Millisecond)

	resp, err := app.Test(requestWithCookie(t, tokens, "/login", "slow"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))
}

func TestInvalidCookieIsTreatedAsSignedOut(t *testing.T) {
	tokens := NewCookieTokens("secret", time.Hour)
	resolver := &fakeResolver{}
	app := newGuardedApp(t, resolver, tokens, 0)

	foreign := NewCookieTokens("someone-else", time.Hour)
	resp, err := app.Test(requestWithCookie(t, foreign, "/login", "forged"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, resolver.created)
	assert.Empty(t, resp.Header.Get("Set-Cookie"))
}

func TestStartSessionIssuesCookieOnlyWhenMissing(t *testing.T) {
	tokens := NewCookieTokens("secret", time.Hour)
	resolver := &fakeResolver{sessions: map[string]session.Service{
		"known": resolvedSession(session.Snapshot{ID: "known", Status: session.StatusUnauthenticated}),
	}}
	mw := NewMiddleware(tokens, resolver, MiddlewareConfig{CookieName: "sid"}, zaptest.NewLogger(t))
	app := fiber.New()
	app.Use(mw.Session)
	app.Post("/login", func(c *fiber.Ctx) error {
		first, err := StartSession(c)
		if err != nil {
			return err
		}
		second, err := StartSession(c)
		if err != nil {
			return err
		}
		current, _ := SessionFromContext(c)
		if first != second || first != current {
			return c.SendStatus(http.StatusConflict)
		}
		return c.SendString(first.Snapshot().ID)
	})

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, resolver.created)
	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	sid, err := tokens.Parse(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, "new-sid", sid)
	assert.True(t, cookies[0].HttpOnly)

	req = requestWithCookie(t, tokens, "/login", "known")
	req.Method = http.MethodPost
	resp, err = app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "known", string(body))
	assert.Equal(t, 1, resolver.created)
	assert.Empty(t, resp.Header.Get("Set-Cookie"))
}
