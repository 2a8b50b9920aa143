package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeChecker struct {
	calls int32
	delay time.Duration
	user  *User
	err   error
}

func (f *fakeChecker) CheckSession(_ context.Context) (*User, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.user, f.err
}

func adminUser() *User {
	return &User{Id: "u-1", Name: "Ada", Email: "ada@example.com", Role: RoleAdmin}
}

func TestCheckAuthResolvesAuthenticated(t *testing.T) {
	gate := NewGate(&fakeChecker{user: adminUser()}, nil)
	resolved := gate.CheckAuth(context.Background())
	if !resolved.IsAuthenticated {
		t.Fatalf("expected an authenticated session")
	}
	if resolved.User == nil || resolved.User.Role != RoleAdmin {
		t.Fatalf("expected the resolved user to carry the admin role, got %+v", resolved.User)
	}
	if gate.State() != StateAuthenticated {
		t.Errorf("expected state %s, got %s", StateAuthenticated, gate.State())
	}
}

func TestCheckAuthFailureClearsSession(t *testing.T) {
	gate := NewGate(&fakeChecker{err: errors.New("boom")}, nil)
	resolved := gate.CheckAuth(context.Background())
	if resolved.IsAuthenticated {
		t.Fatalf("a failed check must not produce an authenticated session")
	}
	if resolved.User != nil {
		t.Errorf("a failed check must clear the user, got %+v", resolved.User)
	}
	if gate.State() != StateUnauthenticated {
		t.Errorf("expected state %s, got %s", StateUnauthenticated, gate.State())
	}
}

func TestCheckAuthNoSessionClearsSession(t *testing.T) {
	gate := NewGate(&fakeChecker{}, nil)
	resolved := gate.CheckAuth(context.Background())
	if resolved.IsAuthenticated || resolved.User != nil {
		t.Fatalf("a nil user answer must resolve unauthenticated, got %+v", resolved)
	}
}

func TestCheckAuthUnknownRoleIsUnauthenticated(t *testing.T) {
	gate := NewGate(&fakeChecker{user: &User{Id: "u-2", Role: Role("superuser")}}, nil)
	resolved := gate.CheckAuth(context.Background())
	if resolved.IsAuthenticated {
		t.Fatalf("an unrecognised role must never authenticate")
	}
}

func TestCheckAuthNormalisesRoleCasing(t *testing.T) {
	gate := NewGate(&fakeChecker{user: &User{Id: "u-3", Role: Role(" Admin ")}}, nil)
	resolved := gate.CheckAuth(context.Background())
	if !resolved.IsAuthenticated {
		t.Fatalf("expected an authenticated session")
	}
	if resolved.User.Role != RoleAdmin {
		t.Errorf("expected normalised role %s, got %s", RoleAdmin, resolved.User.Role)
	}
}

func TestCheckAuthCoalescesConcurrentCallers(t *testing.T) {
	checker := &fakeChecker{user: adminUser(), delay: 50 * time.Millisecond}
	gate := NewGate(checker, nil)

	var wg sync.WaitGroup
	results := make([]Session, 10)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = gate.CheckAuth(context.Background())
		}()
	}
	wg.Wait()

	if calls := atomic.LoadInt32(&checker.calls); calls != 1 {
		t.Fatalf("expected a single coalesced round trip, got %d", calls)
	}
	for i, result := range results {
		if !result.IsAuthenticated {
			t.Errorf("caller %d did not observe the shared result: %+v", i, result)
		}
	}
}

func TestResetStartsNewEpoch(t *testing.T) {
	gate := NewGate(&fakeChecker{user: adminUser()}, nil)
	gate.CheckAuth(context.Background())
	before := gate.Epoch()

	gate.Reset()

	if gate.Epoch() != before+1 {
		t.Errorf("expected epoch %d, got %d", before+1, gate.Epoch())
	}
	if gate.Session().IsAuthenticated {
		t.Errorf("reset must clear the session")
	}
	if gate.State() != StatePending {
		t.Errorf("expected state %s after reset, got %s", StatePending, gate.State())
	}
}

func TestAuthorizeUnauthenticatedRedirectsToLogin(t *testing.T) {
	gate := NewGate(&fakeChecker{}, nil)
	gate.CheckAuth(context.Background())

	// the login redirect applies whichever role the route wanted
	for _, allowed := range [][]Role{{RoleAdmin}, {RoleEmployee}, {RoleAdmin, RoleEmployee}} {
		decision := gate.Authorize(allowed...)
		if decision.Type != DecisionRedirect || decision.Target != RouteLogin {
			t.Errorf("allowed=%v: expected redirect to %s, got %+v", allowed, RouteLogin, decision)
		}
	}
}

func TestAuthorizePendingRedirectsToLogin(t *testing.T) {
	gate := NewGate(&fakeChecker{user: adminUser()}, nil)
	decision := gate.Authorize(RoleAdmin)
	if decision.Type != DecisionRedirect || decision.Target != RouteLogin {
		t.Fatalf("an unresolved gate must redirect to login, got %+v", decision)
	}
}

func TestAuthorizeRoleMismatchRedirectsToUnauthorized(t *testing.T) {
	gate := NewGate(&fakeChecker{user: &User{Id: "u-4", Role: RoleEmployee}}, nil)
	gate.CheckAuth(context.Background())

	decision := gate.Authorize(RoleAdmin)
	if decision.Type != DecisionRedirect || decision.Target != RouteUnauthorized {
		t.Fatalf("expected redirect to %s, got %+v", RouteUnauthorized, decision)
	}
}

func TestAuthorizeAllowsMatchingRole(t *testing.T) {
	gate := NewGate(&fakeChecker{user: adminUser()}, nil)
	gate.CheckAuth(context.Background())

	decision := gate.Authorize(RoleAdmin, RoleEmployee)
	if decision.Type != DecisionAllow {
		t.Fatalf("expected an allow decision, got %+v", decision)
	}
}

func TestPublicRouteRedirectsAuthenticatedVisitor(t *testing.T) {
	tests := []struct {
		role     Role
		expected Route
	}{
		{RoleAdmin, RouteAdminDashboard},
		{RoleEmployee, RouteEmployeeDashboard},
	}
	for _, tt := range tests {
		gate := NewGate(&fakeChecker{user: &User{Id: "u-5", Role: tt.role}}, nil)
		gate.CheckAuth(context.Background())

		decision := gate.PublicRoute()
		if decision.Type != DecisionRedirect || decision.Target != tt.expected {
			t.Errorf("role %s: expected redirect to %s, got %+v", tt.role, tt.expected, decision)
		}
	}
}

func TestPublicRouteAllowsAnonymousVisitor(t *testing.T) {
	gate := NewGate(&fakeChecker{}, nil)
	gate.CheckAuth(context.Background())

	decision := gate.PublicRoute()
	if decision.Type != DecisionAllow {
		t.Fatalf("expected an allow decision, got %+v", decision)
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		input    string
		expected Role
		wantErr  bool
	}{
		{"admin", RoleAdmin, false},
		{"Admin", RoleAdmin, false},
		{" EMPLOYEE ", RoleEmployee, false},
		{"manager", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		role, err := ParseRole(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseRole(%q): expected an error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRole(%q) returned error: %v", tt.input, err)
			continue
		}
		if role != tt.expected {
			t.Errorf("ParseRole(%q) = %s, expected %s", tt.input, role, tt.expected)
		}
	}
}
