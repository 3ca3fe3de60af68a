package session

import (
	"context"
	"errors"

	"github.com/spec-kit/ferry-admin/internal/domain"
	"github.com/spec-kit/ferry-admin/internal/repository"
	apperrors "github.com/spec-kit/ferry-admin/pkg/util"
)

// errNotStarted is returned by sign-in attempts on the shared guest.
var errNotStarted = errors.New("browser session not started")

// guest is the resolved, signed-out session of a browser without a cookie.
// It holds no state, so one value serves every such request.
type guest struct {
	ready chan struct{}
}

func newGuest() *guest {
	g := &guest{ready: make(chan struct{})}
	close(g.ready)
	return g
}

func (g *guest) Init(context.Context)   {}
func (g *guest) Ready() <-chan struct{} { return g.ready }
func (g *guest) Snapshot() Snapshot     { return Snapshot{Status: StatusUnauthenticated} }
func (g *guest) Login(context.Context, repository.Credentials) (*domain.User, error) {
	return nil, apperrors.NewInternalError(errNotStarted)
}
func (g *guest) Register(context.Context, repository.Registration) (*domain.User, error) {
	return nil, apperrors.NewInternalError(errNotStarted)
}
func (g *guest) Logout(context.Context)      {}
func (g *guest) RefetchUser(context.Context) {}
func (g *guest) Close()                      {}
