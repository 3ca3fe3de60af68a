package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/ferry-admin/internal/apiclient"
	"github.com/spec-kit/ferry-admin/internal/auth"
	"github.com/spec-kit/ferry-admin/internal/domain"
	"github.com/spec-kit/ferry-admin/internal/repository"
	"github.com/spec-kit/ferry-admin/internal/service"
	"github.com/spec-kit/ferry-admin/internal/session"
	apperrors "github.com/spec-kit/ferry-admin/pkg/util"
)

type stubSession struct {
	snap      session.Snapshot
	ready     chan struct{}
	refetched atomic.Int32
}

func signedIn(role domain.Role) *stubSession {
	ready := make(chan struct{})
	close(ready)
	return &stubSession{
		snap: session.Snapshot{
			ID:     "sid",
			Status: session.StatusAuthenticated,
			Token:  "1|tok",
			User:   &domain.User{ID: 1, Name: "Ops Admin", Role: role},
		},
		ready: ready,
	}
}

func (s *stubSession) Init(context.Context)       {}
func (s *stubSession) Ready() <-chan struct{}     { return s.ready }
func (s *stubSession) Snapshot() session.Snapshot { return s.snap }
func (s *stubSession) Login(context.Context, repository.Credentials) (*domain.User, error) {
	return s.snap.User, nil
}
func (s *stubSession) Register(context.Context, repository.Registration) (*domain.User, error) {
	return s.snap.User, nil
}
func (s *stubSession) Logout(context.Context)      {}
func (s *stubSession) RefetchUser(context.Context) { s.refetched.Add(1) }
func (s *stubSession) Close()                      {}

type stubResolver struct {
	svc session.Service
}

func (r stubResolver) Resolve(string) session.Service    { return r.svc }
func (r stubResolver) Create() (string, session.Service) { return "sid", r.svc }
func (r stubResolver) Anonymous() session.Service        { return r.svc }
func (r stubResolver) Forget(string)                     {}

func errorEnvelope(c *fiber.Ctx, err error) error {
	de := apperrors.ToDomainError(err)
	return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{
		"code":    de.Code,
		"message": de.Message,
		"details": de.Details,
	}})
}

// newApp mounts routes behind the session middleware with a stub session.
func newApp(t *testing.T, svc session.Service, mount func(r fiber.Router)) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: errorEnvelope})
	mw := auth.NewMiddleware(auth.NewCookieTokens("test-secret", time.Hour), stubResolver{svc: svc}, auth.MiddlewareConfig{}, zaptest.NewLogger(t))
	mount(app.Group("", mw.Session))
	return app
}

func backendClient(t *testing.T, handler http.HandlerFunc) *apiclient.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return apiclient.New(apiclient.Options{BaseURL: server.URL, Timeout: 2 * time.Second})
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestProfileUpdateRefreshesSessionUser(t *testing.T) {
	var sent map[string]any
	client := backendClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "PUT /profile", r.Method+" "+r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		_, _ = io.WriteString(w, `{"message":"Profile updated","user":{"id":1,"name":"New Name"}}`)
	})
	sess := signedIn(domain.RoleAdmin)
	h := NewProfileHandler(Deps{}, repository.NewProfileRepository(client))
	app := newApp(t, sess, func(r fiber.Router) { r.Put("/profile", h.Update) })

	req := httptest.NewRequest(http.MethodPut, "/profile", bytes.NewBufferString(`{"name":"New Name","phone":null}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(1), sess.refetched.Load())
	assert.Equal(t, "New Name", sent["name"])
	assert.Contains(t, sent, "phone")
	assert.Nil(t, sent["phone"])
	assert.NotContains(t, sent, "email")
}

func TestProfileUpdateRejectsClearingName(t *testing.T) {
	client := backendClient(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("backend must not be called")
	})
	sess := signedIn(domain.RoleAdmin)
	h := NewProfileHandler(Deps{}, repository.NewProfileRepository(client))
	app := newApp(t, sess, func(r fiber.Router) { r.Put("/profile", h.Update) })

	req := httptest.NewRequest(http.MethodPut, "/profile", bytes.NewBufferString(`{"name":null}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Zero(t, sess.refetched.Load())
}

func multipartBody(t *testing.T, field, fileName, contentType, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, _ = io.WriteString(part, content)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestVesselImageUpload(t *testing.T) {
	var uploads atomic.Int32
	client := backendClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/vessels/5/image", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("image")
		require.NoError(t, err)
		assert.Equal(t, "boat.png", header.Filename)
		uploads.Add(1)
		_, _ = io.WriteString(w, `{"message":"Image uploaded","vessel":{"id":5,"image":"vessels/5.png"}}`)
	})
	h := NewVesselsHandler(Deps{}, repository.NewVesselRepository(client))
	app := newApp(t, signedIn(domain.RoleAdmin), func(r fiber.Router) { r.Post("/vessels/:id/image", h.UploadImage) })

	t.Run("not an image", func(t *testing.T) {
		body, contentType := multipartBody(t, "image", "notes.txt", "text/plain", "hello")
		req := httptest.NewRequest(http.MethodPost, "/vessels/5/image", body)
		req.Header.Set("Content-Type", contentType)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("missing file", func(t *testing.T) {
		body, contentType := multipartBody(t, "other", "boat.png", "image/png", "png")
		req := httptest.NewRequest(http.MethodPost, "/vessels/5/image", body)
		req.Header.Set("Content-Type", contentType)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		fields := decode(t, resp)["error"].(map[string]any)["details"].(map[string]any)["fields"].(map[string]any)
		assert.Equal(t, "The image field is required.", fields["image"])
	})

	t.Run("forwarded", func(t *testing.T) {
		body, contentType := multipartBody(t, "image", "boat.png", "image/png", "png-bytes")
		req := httptest.NewRequest(http.MethodPost, "/vessels/5/image", body)
		req.Header.Set("Content-Type", contentType)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "vessels/5.png", decode(t, resp)["data"].(map[string]any)["image"])
	})

	assert.Equal(t, int32(1), uploads.Load())
}

func TestDashboardShowsFailedWidgets(t *testing.T) {
	client := backendClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/dashboard/revenue":
			w.WriteHeader(http.StatusInternalServerError)
		case "/dashboard/stats":
			_, _ = io.WriteString(w, `{"total_bookings":7,"total_revenue":"1250.50"}`)
		default:
			_, _ = io.WriteString(w, `[]`)
		}
	})
	dashboard := service.NewDashboardService(repository.NewDashboardRepository(client), zaptest.NewLogger(t))
	h := NewDashboardHandler(Deps{}, dashboard)
	app := newApp(t, signedIn(domain.RoleAgent), func(r fiber.Router) { r.Get("/dashboard", h.Show) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/dashboard", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := decode(t, resp)["data"].(map[string]any)
	assert.Equal(t, float64(7), data["stats"].(map[string]any)["total_bookings"])
	assert.Contains(t, data["errors"], "revenue")
}

func TestDashboardRejectsUnknownPeriod(t *testing.T) {
	dashboard := service.NewDashboardService(repository.NewDashboardRepository(backendClient(t, func(http.ResponseWriter, *http.Request) {})), nil)
	h := NewDashboardHandler(Deps{}, dashboard)
	app := newApp(t, signedIn(domain.RoleAdmin), func(r fiber.Router) { r.Get("/dashboard", h.Show) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/dashboard?period=hourly", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestListQueryIsShapedForBackend(t *testing.T) {
	var query map[string][]string
	client := backendClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = io.WriteString(w, `{"data":[],"current_page":1,"last_page":1,"per_page":100,"total":0}`)
	})
	h := NewUsersHandler(Deps{}, repository.NewUserRepository(client))
	app := newApp(t, signedIn(domain.RoleAdmin), func(r fiber.Router) { r.Get("/users", h.List) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/users?page=0&per_page=500&search=+jane+&role=agent&trashed=only", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, []string{"1"}, query["page"])
	assert.Equal(t, []string{"100"}, query["per_page"])
	assert.Equal(t, []string{"jane"}, query["search"])
	assert.Equal(t, []string{"agent"}, query["role"])
	assert.Equal(t, []string{"only"}, query["trashed"])
}

func TestListRejectsUnknownFilters(t *testing.T) {
	h := NewUsersHandler(Deps{}, repository.NewUserRepository(backendClient(t, func(http.ResponseWriter, *http.Request) {
		t.Error("backend must not be called")
	})))
	app := newApp(t, signedIn(domain.RoleAdmin), func(r fiber.Router) { r.Get("/users", h.List) })

	for _, path := range []string{"/users?trashed=all", "/users?role=super_admin"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, path)
	}
}

func TestInvalidIDIsBadRequest(t *testing.T) {
	h := NewRoutesHandler(Deps{}, repository.NewRouteRepository(backendClient(t, func(http.ResponseWriter, *http.Request) {})))
	app := newApp(t, signedIn(domain.RoleAdmin), func(r fiber.Router) { r.Get("/routes/:id", h.Get) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/routes/abc", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
