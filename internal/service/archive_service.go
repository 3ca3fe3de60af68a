package service

import (
	"context"
	"fmt"

	"github.com/spec-kit/ferry-admin/internal/domain"
	"github.com/spec-kit/ferry-admin/internal/events"
	"github.com/spec-kit/ferry-admin/internal/session"
	"github.com/spec-kit/ferry-admin/internal/validation"
	apperrors "github.com/spec-kit/ferry-admin/pkg/util"
)

// SoftDeletable is a backend resource with archive, restore and permanent
// delete endpoints.
type SoftDeletable[T any] interface {
	Get(ctx context.Context, token string, id int64) (*T, error)
	Delete(ctx context.Context, token string, id int64) (string, error)
	Restore(ctx context.Context, token string, id int64) (*domain.Mutation[T], error)
	ForceDelete(ctx context.Context, token string, id int64, confirmation string) (string, error)
}

// ArchiveService drives the active -> archived -> gone lifecycle of a
// soft-deletable resource. It never edits any other field of the record.
type ArchiveService[T any] struct {
	repo      SoftDeletable[T]
	resource  events.Resource
	nameOf    func(*T) string
	stateOf   func(*T) domain.Lifecycle
	publisher *Publisher
}

// ArchiveDependencies describe a resource to ArchiveService.
type ArchiveDependencies[T any] struct {
	Repo      SoftDeletable[T]
	Resource  events.Resource
	NameOf    func(*T) string
	StateOf   func(*T) domain.Lifecycle
	Publisher *Publisher
}

// NewArchiveService builds the service.
func NewArchiveService[T any](deps ArchiveDependencies[T]) *ArchiveService[T] {
	return &ArchiveService[T]{
		repo:      deps.Repo,
		resource:  deps.Resource,
		nameOf:    deps.NameOf,
		stateOf:   deps.StateOf,
		publisher: deps.Publisher,
	}
}

// Archive soft-deletes the record.
func (s *ArchiveService[T]) Archive(ctx context.Context, snap session.Snapshot, id int64) (string, error) {
	msg, err := s.repo.Delete(ctx, snap.Token, id)
	if err != nil {
		return "", err
	}
	s.publisher.Mutated(ctx, snap, s.resource, ActionDelete, id)
	return msg, nil
}

// Restore brings an archived record back.
func (s *ArchiveService[T]) Restore(ctx context.Context, snap session.Snapshot, id int64) (*domain.Mutation[T], error) {
	result, err := s.repo.Restore(ctx, snap.Token, id)
	if err != nil {
		return nil, err
	}
	s.publisher.Mutated(ctx, snap, s.resource, ActionRestore, id)
	return result, nil
}

// ForceDelete permanently removes an archived record. The record must be
// archived and confirmation must be exactly "<name>/delete"; otherwise the
// delete endpoint is not called.
func (s *ArchiveService[T]) ForceDelete(ctx context.Context, snap session.Snapshot, id int64, confirmation string) (string, error) {
	record, err := s.repo.Get(ctx, snap.Token, id)
	if err != nil {
		return "", err
	}
	state := s.stateOf(record)
	if _, ok := state.Next(domain.ActionForceDelete); !ok {
		return "", apperrors.NewConflict(
			fmt.Sprintf("%s must be archived before it can be permanently deleted", s.resource),
			map[string]any{"lifecycle": state},
		)
	}
	if err := validation.CheckConfirmation(s.nameOf(record), confirmation); err != nil {
		return "", err
	}

	msg, err := s.repo.ForceDelete(ctx, snap.Token, id, confirmation)
	if err != nil {
		return "", err
	}
	s.publisher.Mutated(ctx, snap, s.resource, ActionForceDelete, id)
	return msg, nil
}
