package domain

import "time"

// Lifecycle is the archive state of a soft-deletable record.
type Lifecycle string

const (
	LifecycleActive   Lifecycle = "active"
	LifecycleArchived Lifecycle = "archived"
	LifecycleGone     Lifecycle = "gone"
)

// LifecycleAction is a transition request on a soft-deletable record.
type LifecycleAction string

const (
	ActionDelete      LifecycleAction = "delete"
	ActionRestore     LifecycleAction = "restore"
	ActionForceDelete LifecycleAction = "force_delete"
)

// LifecycleOf maps the soft-delete marker onto a state.
func LifecycleOf(deletedAt *time.Time) Lifecycle {
	if deletedAt == nil || deletedAt.IsZero() {
		return LifecycleActive
	}
	return LifecycleArchived
}

// Next returns the state reached by applying action, and false when the
// transition is not allowed. Gone is terminal.
func (l Lifecycle) Next(action LifecycleAction) (Lifecycle, bool) {
	switch l {
	case LifecycleActive:
		if action == ActionDelete {
			return LifecycleArchived, true
		}
	case LifecycleArchived:
		switch action {
		case ActionRestore:
			return LifecycleActive, true
		case ActionForceDelete:
			return LifecycleGone, true
		}
	}
	return l, false
}
