package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ferry-admin/internal/events"
	"github.com/spec-kit/ferry-admin/internal/session"
)

// Mutation actions published with events.ResourceMutatedPayload.
const (
	ActionCreate      = "create"
	ActionUpdate      = "update"
	ActionDelete      = "delete"
	ActionRestore     = "restore"
	ActionForceDelete = "force_delete"
	ActionUpload      = "upload"
)

// Publisher announces confirmed backend writes so cached views are dropped.
type Publisher struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewPublisher builds a publisher. A nil dispatcher drops every event.
func NewPublisher(dispatcher events.Dispatcher, logger *zap.Logger) *Publisher {
	if dispatcher == nil {
		dispatcher = events.NewNopDispatcher()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{dispatcher: dispatcher, logger: logger}
}

// Mutated publishes a ResourceMutated event. Handler failures are logged;
// the write itself already succeeded.
func (p *Publisher) Mutated(ctx context.Context, snap session.Snapshot, resource events.Resource, action string, entityID int64) {
	event := events.NewEvent(events.EventResourceMutated, snap.ID, events.ActorOf(snap.User), events.ResourceMutatedPayload{
		Resource: resource,
		Action:   action,
		EntityID: entityID,
	})
	if err := p.dispatcher.Publish(ctx, event); err != nil {
		p.logger.Warn("mutation event handler failed",
			zap.String("resource", string(resource)),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}
