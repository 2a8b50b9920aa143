package session

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"hrdesk/internal/common"
)

// AuthChecker performs the session-check round trip against the portal.
// A nil user with a nil error means "the portal answered: no session".
type AuthChecker interface {
	CheckSession(ctx context.Context) (*User, error)
}

// State tracks the gate's resolution per check cycle; Pending renders a
// loading placeholder, the other two gate navigation.
type State string

const (
	StatePending         State = "pending"
	StateAuthenticated   State = "authenticated"
	StateUnauthenticated State = "unauthenticated"
)

// Gate resolves whether the client is authenticated and what it may see.
// It owns the Session object exclusively; every failure mode of the
// session check (network error, 401, empty payload, timeout) collapses
// into the cleared unauthenticated state and is never surfaced to render
// paths.
type Gate struct {
	checker     AuthChecker
	serviceLogs chan<- common.ServiceLog

	group singleflight.Group

	mu      sync.RWMutex
	state   State
	session Session
	epoch   uint64
}

func NewGate(checker AuthChecker, serviceLogs chan<- common.ServiceLog) *Gate {
	if serviceLogs == nil {
		serviceLogs = common.GetNoopServiceLog()
	}
	return &Gate{
		checker:     checker,
		serviceLogs: serviceLogs,
		state:       StatePending,
	}
}

// Epoch increments on every Reset (login/logout); consumers such as the
// push channel key their lifecycle on it.
func (g *Gate) Epoch() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.epoch
}

func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Session returns a copy of the current session.
func (g *Gate) Session() Session {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.session
}

// CheckAuth refreshes the session from the portal. Exactly one network
// round trip happens per invocation wave: concurrent callers within the
// same epoch coalesce onto a single in-flight request and all observe
// its result. The call never returns an error - failures degrade to the
// cleared session.
func (g *Gate) CheckAuth(ctx context.Context) Session {
	g.mu.Lock()
	g.state = StatePending
	key := strconv.FormatUint(g.epoch, 10)
	g.mu.Unlock()

	result, _, _ := g.group.Do(key, func() (any, error) {
		resolved := g.resolve(ctx)
		g.mu.Lock()
		g.session = resolved
		if resolved.IsAuthenticated {
			g.state = StateAuthenticated
		} else {
			g.state = StateUnauthenticated
		}
		g.mu.Unlock()
		return resolved, nil
	})
	return result.(Session)
}

func (g *Gate) resolve(ctx context.Context) Session {
	user, err := g.checker.CheckSession(ctx)
	if err != nil {
		g.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "session check failed: %s", err)
		return Session{}
	}
	if user == nil {
		return Session{}
	}
	role, err := ParseRole(string(user.Role))
	if err != nil {
		// An unrecognised role must never produce an authenticated
		// session (see Session invariant).
		g.serviceLogs <- common.ServiceLogf(common.LogLevelWarn, "session check returned %s, treating as unauthenticated", err)
		return Session{}
	}
	authenticated := *user
	authenticated.Role = role
	return Session{
		IsAuthenticated: true,
		User:            &authenticated,
	}
}

// Reset clears the session and starts a new epoch. Call it on logout and
// before a fresh login so stale in-flight checks can't bleed across
// session boundaries.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.session = Session{}
	g.state = StatePending
	g.epoch++
}

// Authorize gates a protected route. Evaluate only after CheckAuth has
// resolved; a Pending gate redirects to login rather than guessing.
func (g *Gate) Authorize(allowed ...Role) Decision {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.state != StateAuthenticated || !g.session.IsAuthenticated {
		return redirect(RouteLogin)
	}
	for _, role := range allowed {
		if g.session.User.Role == role {
			return allow()
		}
	}
	return redirect(RouteUnauthorized)
}

// PublicRoute gates a public (login) route: an authenticated visitor is
// sent straight to their role's dashboard.
func (g *Gate) PublicRoute() Decision {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.state == StateAuthenticated && g.session.IsAuthenticated {
		return redirect(DashboardRoute(g.session.User.Role))
	}
	return allow()
}
