package auth

import (
	"github.com/spec-kit/ferry-admin/internal/domain"
	"github.com/spec-kit/ferry-admin/internal/session"
)

const (
	// LoginPath is where signed-out visitors are sent.
	LoginPath = "/login"
	// HomePath is where signed-in visitors land.
	HomePath = "/dashboard"
)

// GuardKind selects a page access rule.
type GuardKind int

const (
	GuardPublicOnly GuardKind = iota
	GuardAuthenticated
	GuardRoleRestricted
)

// Guard is a page access rule.
type Guard struct {
	Kind  GuardKind
	Allow []domain.Role
}

// PublicOnly admits only signed-out visitors, such as the login page.
func PublicOnly() Guard { return Guard{Kind: GuardPublicOnly} }

// Authenticated admits any signed-in user.
func Authenticated() Guard { return Guard{Kind: GuardAuthenticated} }

// RoleRestricted admits signed-in users whose role is in allow.
func RoleRestricted(allow ...domain.Role) Guard {
	return Guard{Kind: GuardRoleRestricted, Allow: allow}
}

// SessionView is the part of a session a guard looks at.
type SessionView struct {
	Loading       bool
	Authenticated bool
	Role          domain.Role
}

// ViewOf projects a session snapshot.
func ViewOf(snap session.Snapshot) SessionView {
	return SessionView{
		Loading:       snap.Status == session.StatusLoading,
		Authenticated: snap.IsAuthenticated(),
		Role:          snap.Role(),
	}
}

// Outcome is what a guard tells the page to do.
type Outcome int

const (
	OutcomeWait Outcome = iota
	OutcomeRender
	OutcomeRedirect
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWait:
		return "wait"
	case OutcomeRender:
		return "render"
	default:
		return "redirect"
	}
}

// Decision is the result of a guard. Target is set for redirects only.
type Decision struct {
	Outcome Outcome
	Target  string
}

func wait() Decision                  { return Decision{Outcome: OutcomeWait} }
func render() Decision                { return Decision{Outcome: OutcomeRender} }
func redirect(target string) Decision { return Decision{Outcome: OutcomeRedirect, Target: target} }

// Decide applies guard to the session. While the session is loading every
// guard waits, so nothing is rendered for a state that may still change.
func Decide(guard Guard, view SessionView) Decision {
	if view.Loading {
		return wait()
	}
	switch guard.Kind {
	case GuardPublicOnly:
		if view.Authenticated {
			return redirect(HomePath)
		}
		return render()
	case GuardAuthenticated:
		if !view.Authenticated {
			return redirect(LoginPath)
		}
		return render()
	case GuardRoleRestricted:
		if !view.Authenticated {
			return redirect(LoginPath)
		}
		if !Allows(view.Role, guard.Allow) {
			return redirect(HomePath)
		}
		return render()
	default:
		return redirect(LoginPath)
	}
}
