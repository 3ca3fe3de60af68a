package http

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ferry-admin/internal/observability"
	apperrors "github.com/spec-kit/ferry-admin/pkg/util"
)

// errorBody is the envelope of every failed response.
type errorBody struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// RegisterMiddlewares installs the global chain: request deadline, error
// rendering, request logging and response cache headers.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(deadline(timeout))
	}
	app.Use(renderErrors(logger, metrics))
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(noStore)
}

// deadline bounds every backend call made while serving the request.
func deadline(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// noStore keeps session-bound pages out of shared and browser caches.
func noStore(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "no-store")
	c.Vary(fiber.HeaderCookie)
	return c.Next()
}

// renderErrors turns handler errors and panics into the JSON error envelope.
func renderErrors(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic serving request",
					zap.String("request_id", observability.RequestID(c)),
					zap.String("path", c.Path()),
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()),
				)
				err = apperrors.NewInternalError(nil)
			}
			if err == nil {
				return
			}
			err = writeError(c, logger, metrics, err)
		}()
		return c.Next()
	}
}

func writeError(c *fiber.Ctx, logger *zap.Logger, metrics *observability.Metrics, err error) error {
	de := apperrors.ToDomainError(err)
	metrics.RecordError(c.Route().Path, c.Method(), de.Code)

	switch {
	case de.HTTPStatus >= fiber.StatusInternalServerError:
		logger.Error("request failed",
			zap.String("request_id", observability.RequestID(c)),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("code", de.Code),
			zap.Error(de),
		)
	case de.HTTPStatus == fiber.StatusUnauthorized:
		logger.Debug("backend rejected credentials",
			zap.String("request_id", observability.RequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.Status(de.HTTPStatus).JSON(errorBody{Error: errorPayload{
		Code:    de.Code,
		Message: de.Message,
		Details: de.Details,
	}})
}
