package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ferry-admin/internal/events"
)

// StartAuditLog registers handlers that write session and mutation events
// to the structured log.
func StartAuditLog(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}
	audit := logger.Named("audit")

	handler := func(_ context.Context, e events.Event) error {
		fields := []zap.Field{
			zap.String("event_id", e.ID),
			zap.String("event", string(e.Type)),
			zap.String("session_id", e.SessionID),
			zap.Time("at", e.Timestamp),
		}
		if e.Actor != nil {
			fields = append(fields, zap.Int64("user_id", e.Actor.UserID), zap.String("role", e.Actor.Role.String()))
		}
		switch payload := e.Payload.(type) {
		case events.SessionEndedPayload:
			fields = append(fields, zap.String("reason", payload.Reason))
		case events.ResourceMutatedPayload:
			fields = append(fields,
				zap.String("resource", string(payload.Resource)),
				zap.String("action", payload.Action),
				zap.Int64("entity_id", payload.EntityID),
			)
		}
		audit.Info("event", fields...)
		return nil
	}

	for _, eventType := range []events.EventType{
		events.EventSessionStarted,
		events.EventSessionRestored,
		events.EventSessionEnded,
		events.EventResourceMutated,
	} {
		dispatcher.Subscribe(eventType, handler)
	}
}
