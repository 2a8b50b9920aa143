package session

import (
	"fmt"
	"strings"
)

// Role is the canonical principal kind. The portal has historically been
// loose about casing ("admin" vs "Admin"), so all comparisons go through
// ParseRole and raw strings never leak past this package.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

var Roles = []Role{
	RoleAdmin,
	RoleEmployee,
}

// ParseRole normalises a role string to its canonical value; anything
// unrecognised is an error, never a third role.
func ParseRole(raw string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(RoleAdmin):
		return RoleAdmin, nil
	case string(RoleEmployee):
		return RoleEmployee, nil
	}
	return "", fmt.Errorf("unrecognised role[%s]", raw)
}

type User struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Session is the client-held record of whether a user is authenticated
// and who they are. The zero value is the cleared, unauthenticated state.
//
// Invariant: IsAuthenticated implies User != nil with a recognised role.
type Session struct {
	IsAuthenticated bool  `json:"isAuthenticated"`
	User            *User `json:"user"`
}

// Route identifies a navigation target; the values mirror the dashboard's
// routing table but carry no rendering semantics here.
type Route string

const (
	RouteLogin             Route = "/login"
	RouteUnauthorized      Route = "/unauthorized"
	RouteAdminDashboard    Route = "/admin/dashboard"
	RouteEmployeeDashboard Route = "/employee/dashboard"
)

type DecisionType string

const (
	DecisionAllow    DecisionType = "allow"
	DecisionRedirect DecisionType = "redirect"
)

// Decision is the gate's verdict for a route mount: render, or redirect
// to Target.
type Decision struct {
	Type   DecisionType
	Target Route
}

func allow() Decision {
	return Decision{Type: DecisionAllow}
}

func redirect(target Route) Decision {
	return Decision{Type: DecisionRedirect, Target: target}
}

// DashboardRoute maps a role to its landing view.
func DashboardRoute(role Role) Route {
	if role == RoleAdmin {
		return RouteAdminDashboard
	}
	return RouteEmployeeDashboard
}
