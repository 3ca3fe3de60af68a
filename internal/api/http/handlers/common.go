// Package handlers renders the admin pages as JSON view models. Each handler
// validates input locally, calls the backend through its repository and
// publishes a mutation event once a write is confirmed.
package handlers

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ferry-admin/internal/apiclient"
	"github.com/spec-kit/ferry-admin/internal/auth"
	"github.com/spec-kit/ferry-admin/internal/domain"
	"github.com/spec-kit/ferry-admin/internal/events"
	"github.com/spec-kit/ferry-admin/internal/repository"
	"github.com/spec-kit/ferry-admin/internal/service"
	"github.com/spec-kit/ferry-admin/internal/session"
	"github.com/spec-kit/ferry-admin/internal/validation"
	"github.com/spec-kit/ferry-admin/internal/viewstate"
	apperrors "github.com/spec-kit/ferry-admin/pkg/util"
)

const maxPerPage = 100

// Deps are the collaborators every page handler shares.
type Deps struct {
	Validator *validation.Validator
	Cache     *viewstate.Cache
	Publisher *service.Publisher
	Logger    *zap.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Validator == nil {
		d.Validator = validation.New()
	}
	if d.Cache == nil {
		d.Cache = viewstate.New(0)
	}
	if d.Publisher == nil {
		d.Publisher = service.NewPublisher(nil, nil)
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return d
}

// sessionOf returns the request's session and a snapshot of it. Guards run
// first, so a missing session means the middleware chain is broken.
func sessionOf(c *fiber.Ctx) (session.Service, session.Snapshot, error) {
	svc, ok := auth.SessionFromContext(c)
	if !ok {
		return nil, session.Snapshot{}, apperrors.NewUnauthorized("session required")
	}
	return svc, svc.Snapshot(), nil
}

func parseBody(c *fiber.Ctx, v *validation.Validator, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	return v.Struct(out)
}

func idParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewBadRequest("invalid id")
	}
	return id, nil
}

func listQuery(c *fiber.Ctx) repository.ListQuery {
	q := repository.ListQuery{
		Page:    c.QueryInt("page", 1),
		PerPage: c.QueryInt("per_page", 0),
		Search:  strings.TrimSpace(c.Query("search")),
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 0 {
		q.PerPage = 0
	}
	if q.PerPage > maxPerPage {
		q.PerPage = maxPerPage
	}
	return q
}

func trashedParam(c *fiber.Ctx) (repository.Trashed, error) {
	switch t := repository.Trashed(c.Query("trashed")); t {
	case repository.TrashedExclude, repository.TrashedWith, repository.TrashedOnly:
		return t, nil
	default:
		return "", apperrors.NewValidationError("the given data was invalid", map[string]string{
			"trashed": "The selected trashed is invalid.",
		})
	}
}

func viewKey(c *fiber.Ctx, snap session.Snapshot, resource events.Resource, view string) viewstate.Key {
	values, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		values = url.Values{}
	}
	return viewstate.Key{
		SessionID: snap.ID,
		Resource:  resource,
		View:      view,
		Query:     viewstate.QueryKey(values),
	}
}

// listPage serves a paginated list through the view cache.
func listPage[T any](c *fiber.Ctx, d Deps, resource events.Resource, view string, fetch func(ctx context.Context, token string) (*domain.Page[T], error)) error {
	_, snap, err := sessionOf(c)
	if err != nil {
		return err
	}
	result, err := viewstate.Load(c.UserContext(), d.Cache, viewKey(c, snap, resource, view), func(ctx context.Context) (*domain.Page[T], error) {
		return fetch(ctx, snap.Token)
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":       result.Value,
		"cached":     result.Cached,
		"superseded": result.Superseded,
	})
}

func mutationResponse[T any](c *fiber.Ctx, status int, m *domain.Mutation[T]) error {
	return c.Status(status).JSON(fiber.Map{
		"message": m.Message,
		"data":    m.Entity,
	})
}

// createdID is the id of a created entity, or zero when the backend
// returned only a message.
func createdID[T any](m *domain.Mutation[T], id func(*T) int64) int64 {
	if m == nil || m.Entity == nil {
		return 0
	}
	return id(m.Entity)
}

func messageResponse(c *fiber.Ctx, message string) error {
	return c.JSON(fiber.Map{"message": message})
}

// formFile reads an uploaded image. The caller must close the returned file.
func formFile(c *fiber.Ctx, field string) (apiclient.File, func(), error) {
	header, err := c.FormFile(field)
	if err != nil {
		return apiclient.File{}, nil, apperrors.NewValidationError("the given data was invalid", map[string]string{
			field: "The " + field + " field is required.",
		})
	}
	contentType := header.Header.Get(fiber.HeaderContentType)
	if !strings.HasPrefix(contentType, "image/") {
		return apiclient.File{}, nil, apperrors.NewValidationError("the given data was invalid", map[string]string{
			field: "The " + field + " must be an image.",
		})
	}
	file, err := header.Open()
	if err != nil {
		return apiclient.File{}, nil, apperrors.NewBadRequest("unreadable upload")
	}
	return apiclient.File{
		Field:       field,
		FileName:    header.Filename,
		ContentType: contentType,
		Content:     file,
	}, func() { _ = file.Close() }, nil
}
